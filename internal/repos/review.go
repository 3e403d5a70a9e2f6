package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kkurosawa/ssbj-readiness-backend/internal/logger"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/types"
)

type ReviewRepo interface {
	Create(ctx context.Context, tx *gorm.DB, reviews []*types.Review) ([]*types.Review, error)
	GetByIDWithItems(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID) (*types.Review, error)
	GetOpenByAssessmentID(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) (*types.Review, error)
	ListByAssessmentID(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*types.Review, error)
	Update(ctx context.Context, tx *gorm.DB, review *types.Review) (*types.Review, error)
	UpdateItem(ctx context.Context, tx *gorm.DB, item *types.ReviewItem) (*types.ReviewItem, error)
	GetItemByControl(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID, controlID string) (*types.ReviewItem, error)
	CountUnreviewedItems(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID) (int64, error)
}

type reviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReviewRepo(db *gorm.DB, baseLog *logger.Logger) ReviewRepo {
	repoLog := baseLog.With("repo", "ReviewRepo")
	return &reviewRepo{db: db, log: repoLog}
}

func (rr *reviewRepo) Create(ctx context.Context, tx *gorm.DB, reviews []*types.Review) ([]*types.Review, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(reviews) == 0 {
		return []*types.Review{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&reviews).Error; err != nil {
		return nil, err
	}

	return reviews, nil
}

func (rr *reviewRepo) GetByIDWithItems(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID) (*types.Review, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var result types.Review

	if err := transaction.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("control_id ASC")
		}).
		Where("id = ?", reviewID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (rr *reviewRepo) GetOpenByAssessmentID(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) (*types.Review, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var result types.Review

	if err := transaction.WithContext(ctx).
		Where("assessment_id = ? AND status = ?", assessmentID, types.ReviewStatusOpen).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (rr *reviewRepo) ListByAssessmentID(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*types.Review, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.Review

	if err := transaction.WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *reviewRepo) Update(ctx context.Context, tx *gorm.DB, review *types.Review) (*types.Review, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if err := transaction.WithContext(ctx).Save(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

func (rr *reviewRepo) UpdateItem(ctx context.Context, tx *gorm.DB, item *types.ReviewItem) (*types.ReviewItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if err := transaction.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (rr *reviewRepo) GetItemByControl(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID, controlID string) (*types.ReviewItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var result types.ReviewItem

	if err := transaction.WithContext(ctx).
		Where("review_id = ? AND control_id = ?", reviewID, controlID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (rr *reviewRepo) CountUnreviewedItems(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var count int64

	if err := transaction.WithContext(ctx).
		Model(&types.ReviewItem{}).
		Where("review_id = ? AND status = ?", reviewID, types.ReviewItemNotReviewed).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
