package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AssessmentStatusDraft       = "draft"
	AssessmentStatusInProgress  = "in_progress"
	AssessmentStatusCompleted   = "completed"
	AssessmentStatusUnderReview = "under_review"
	AssessmentStatusReviewed    = "reviewed"
)

type Assessment struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User           *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	EntityName     string         `gorm:"column:entity_name;not null" json:"entity_name"`
	Title          string         `gorm:"column:title" json:"title"`
	Industry       string         `gorm:"column:industry" json:"industry"`
	MarketCapPhase string         `gorm:"column:market_cap_phase" json:"market_cap_phase"`
	FiscalYear     string         `gorm:"column:fiscal_year" json:"fiscal_year"`
	FYEndMonth     int            `gorm:"column:fy_end_month;not null;default:3" json:"fy_end_month"`
	Status         string         `gorm:"column:status;not null;default:'draft'" json:"status"`
	Metadata       datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`
	Responses      []Response     `gorm:"constraint:OnDelete:CASCADE;foreignKey:AssessmentID;references:ID" json:"responses,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Assessment) TableName() string { return "assessment" }

// ScoredCount returns how many responses carry a score.
func (a *Assessment) ScoredCount() int {
	n := 0
	for _, r := range a.Responses {
		if r.Score != nil {
			n++
		}
	}
	return n
}

// CompletionPct is the share of responses scored, in whole percent.
func (a *Assessment) CompletionPct() int {
	if len(a.Responses) == 0 {
		return 0
	}
	return a.ScoredCount() * 100 / len(a.Responses)
}

// OverallScore averages the scored responses. Unscored responses are
// excluded rather than counted as zero. Returns 0 when nothing is scored.
func (a *Assessment) OverallScore() float64 {
	sum, n := 0, 0
	for _, r := range a.Responses {
		if r.Score != nil {
			sum += *r.Score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// PillarScores averages scored responses per pillar, keyed by pillar name.
// Pillars with no scored responses are absent from the map.
func (a *Assessment) PillarScores() map[string]float64 {
	sums := map[string]int{}
	counts := map[string]int{}
	for _, r := range a.Responses {
		if r.Score == nil {
			continue
		}
		sums[r.Pillar] += *r.Score
		counts[r.Pillar]++
	}
	out := make(map[string]float64, len(sums))
	for p, s := range sums {
		out[p] = float64(s) / float64(counts[p])
	}
	return out
}

// StandardScores averages scored responses per disclosure standard.
func (a *Assessment) StandardScores() map[string]float64 {
	sums := map[string]int{}
	counts := map[string]int{}
	for _, r := range a.Responses {
		if r.Score == nil {
			continue
		}
		sums[r.Standard] += *r.Score
		counts[r.Standard]++
	}
	out := make(map[string]float64, len(sums))
	for s, v := range sums {
		out[s] = float64(v) / float64(counts[s])
	}
	return out
}
