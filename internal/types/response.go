package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Response is one criterion's answer within an assessment. Score is nil
// until the criterion has been assessed; a nil score never counts as zero.
// Pillar, category, and standard are denormalized from the catalog at
// creation so queries and rollups need no catalog join.
type Response struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AssessmentID uuid.UUID      `gorm:"type:uuid;not null;index:idx_response_assessment_criterion,unique" json:"assessment_id"`
	CriterionID  string         `gorm:"column:criterion_id;not null;index:idx_response_assessment_criterion,unique" json:"criterion_id"`
	Pillar       string         `gorm:"column:pillar;not null" json:"pillar"`
	Category     string         `gorm:"column:category;not null" json:"category"`
	Standard     string         `gorm:"column:standard;not null" json:"standard"`
	Score        *int           `gorm:"column:score" json:"score"`
	Notes        string         `gorm:"column:notes" json:"notes"`
	EvidenceText string         `gorm:"column:evidence_text" json:"evidence_text"`
	ScoredBy     string         `gorm:"column:scored_by" json:"scored_by"`
	ScoredAt     *time.Time     `gorm:"column:scored_at" json:"scored_at,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Response) TableName() string { return "response" }

const (
	ScoredByManual  = "manual"
	ScoredByKeyword = "keyword"
	ScoredByAI      = "ai"
)
