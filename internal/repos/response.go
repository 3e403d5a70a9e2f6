package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kkurosawa/ssbj-readiness-backend/internal/logger"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/types"
)

type ResponseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, responses []*types.Response) ([]*types.Response, error)
	GetByAssessmentID(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*types.Response, error)
	GetByAssessmentAndCriteria(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID, criterionIDs []string) ([]*types.Response, error)
	Update(ctx context.Context, tx *gorm.DB, response *types.Response) (*types.Response, error)
	CountScored(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) (int64, error)
}

type responseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResponseRepo(db *gorm.DB, baseLog *logger.Logger) ResponseRepo {
	repoLog := baseLog.With("repo", "ResponseRepo")
	return &responseRepo{db: db, log: repoLog}
}

func (rr *responseRepo) Create(ctx context.Context, tx *gorm.DB, responses []*types.Response) ([]*types.Response, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(responses) == 0 {
		return []*types.Response{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&responses).Error; err != nil {
		return nil, err
	}

	return responses, nil
}

func (rr *responseRepo) GetByAssessmentID(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*types.Response, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.Response

	if err := transaction.WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		Order("criterion_id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *responseRepo) GetByAssessmentAndCriteria(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID, criterionIDs []string) ([]*types.Response, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.Response
	if len(criterionIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("assessment_id = ? AND criterion_id IN ?", assessmentID, criterionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *responseRepo) Update(ctx context.Context, tx *gorm.DB, response *types.Response) (*types.Response, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if err := transaction.WithContext(ctx).Save(response).Error; err != nil {
		return nil, err
	}
	return response, nil
}

func (rr *responseRepo) CountScored(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var count int64

	if err := transaction.WithContext(ctx).
		Model(&types.Response{}).
		Where("assessment_id = ? AND score IS NOT NULL", assessmentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
