package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReviewStatusOpen      = "open"
	ReviewStatusSubmitted = "submitted"
)

const (
	OpinionUnqualified = "unqualified"
	OpinionQualified   = "qualified"
	OpinionAdverse     = "adverse"
	OpinionDisclaimer  = "disclaimer"
)

// Review is the limited-assurance control walkthrough over a completed
// assessment. Starting a review creates one item per assurance control;
// finishing records the opinion and flips the assessment to reviewed.
type Review struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AssessmentID uuid.UUID      `gorm:"type:uuid;not null;index" json:"assessment_id"`
	Assessment   *Assessment    `gorm:"constraint:OnDelete:CASCADE;foreignKey:AssessmentID;references:ID" json:"assessment,omitempty"`
	ReviewerID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"reviewer_id"`
	Reviewer     *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:ReviewerID;references:ID" json:"reviewer,omitempty"`
	Status       string         `gorm:"column:status;not null;default:'open'" json:"status"`
	Opinion      string         `gorm:"column:opinion" json:"opinion,omitempty"`
	Summary      string         `gorm:"column:summary" json:"summary"`
	Items        []ReviewItem   `gorm:"constraint:OnDelete:CASCADE;foreignKey:ReviewID;references:ID" json:"items,omitempty"`
	SubmittedAt  *time.Time     `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Review) TableName() string { return "review" }
