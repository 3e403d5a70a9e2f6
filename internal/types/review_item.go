package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReviewItemNotReviewed      = "not_reviewed"
	ReviewItemSatisfactory     = "satisfactory"
	ReviewItemNeedsImprovement = "needs_improvement"
	ReviewItemUnsatisfactory   = "unsatisfactory"
)

// ReviewItem records one assurance control's walkthrough outcome inside a
// review. ControlID references the LA control catalog.
type ReviewItem struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ReviewID  uuid.UUID      `gorm:"type:uuid;not null;index:idx_review_item_review_control,unique" json:"review_id"`
	ControlID string         `gorm:"column:control_id;not null;index:idx_review_item_review_control,unique" json:"control_id"`
	Category  string         `gorm:"column:category;not null" json:"category"`
	Status    string         `gorm:"column:status;not null;default:'not_reviewed'" json:"status"`
	Comment   string         `gorm:"column:comment" json:"comment"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ReviewItem) TableName() string { return "review_item" }
