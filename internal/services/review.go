package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kkurosawa/ssbj-readiness-backend/internal/catalog"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/logger"
	apperrors "github.com/kkurosawa/ssbj-readiness-backend/internal/pkg/errors"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/repos"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/types"
)

// RecordItemInput is one control walkthrough outcome.
type RecordItemInput struct {
	ControlID string `json:"control_id"`
	Status    string `json:"status"`
	Comment   string `json:"comment"`
}

// FinishReviewInput closes a review with an opinion.
type FinishReviewInput struct {
	Opinion string `json:"opinion"`
	Summary string `json:"summary"`
}

type ReviewService interface {
	Start(ctx context.Context, reviewerID, assessmentID uuid.UUID) (*types.Review, error)
	Get(ctx context.Context, reviewID uuid.UUID) (*types.Review, error)
	RecordItem(ctx context.Context, reviewerID, reviewID uuid.UUID, input RecordItemInput) (*types.ReviewItem, error)
	Finish(ctx context.Context, reviewerID, reviewID uuid.UUID, input FinishReviewInput) (*types.Review, error)
}

type reviewService struct {
	db             *gorm.DB
	log            *logger.Logger
	cat            *catalog.Catalog
	reviewRepo     repos.ReviewRepo
	assessmentRepo repos.AssessmentRepo
}

func NewReviewService(
	db *gorm.DB,
	log *logger.Logger,
	cat *catalog.Catalog,
	reviewRepo repos.ReviewRepo,
	assessmentRepo repos.AssessmentRepo,
) ReviewService {
	serviceLog := log.With("service", "ReviewService")
	return &reviewService{
		db:             db,
		log:            serviceLog,
		cat:            cat,
		reviewRepo:     reviewRepo,
		assessmentRepo: assessmentRepo,
	}
}

// Start opens a control walkthrough over a completed assessment. One item is
// created per assurance control; the assessment moves to under_review.
func (s *reviewService) Start(ctx context.Context, reviewerID, assessmentID uuid.UUID) (*types.Review, error) {
	var review *types.Review
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		assessments, aErr := s.assessmentRepo.GetByIDs(ctx, tx, []uuid.UUID{assessmentID})
		if aErr != nil {
			return fmt.Errorf("Failed to load assessment: %w", aErr)
		}
		if len(assessments) == 0 {
			return fmt.Errorf("assessment %s: %w", assessmentID, apperrors.ErrNotFound)
		}
		assessment := assessments[0]
		if assessment.Status != types.AssessmentStatusCompleted {
			return fmt.Errorf("assessment must be completed before review: %w", apperrors.ErrInvalidArgument)
		}
		if _, oErr := s.reviewRepo.GetOpenByAssessmentID(ctx, tx, assessmentID); oErr == nil {
			return fmt.Errorf("assessment already has an open review: %w", apperrors.ErrInvalidArgument)
		} else if !errors.Is(oErr, gorm.ErrRecordNotFound) {
			return fmt.Errorf("Failed to check open reviews: %w", oErr)
		}

		controls := s.cat.Controls()
		items := make([]types.ReviewItem, 0, len(controls))
		for _, ctrl := range controls {
			items = append(items, types.ReviewItem{
				ID:        uuid.New(),
				ControlID: ctrl.ID,
				Category:  ctrl.Category,
				Status:    types.ReviewItemNotReviewed,
			})
		}
		review = &types.Review{
			ID:           uuid.New(),
			AssessmentID: assessmentID,
			ReviewerID:   reviewerID,
			Status:       types.ReviewStatusOpen,
			Items:        items,
		}
		if _, cErr := s.reviewRepo.Create(ctx, tx, []*types.Review{review}); cErr != nil {
			return fmt.Errorf("Failed to create review: %w", cErr)
		}
		return s.assessmentRepo.UpdateStatus(ctx, tx, assessmentID, types.AssessmentStatusUnderReview)
	})
	if err != nil {
		return nil, err
	}
	return s.reviewRepo.GetByIDWithItems(ctx, nil, review.ID)
}

func (s *reviewService) Get(ctx context.Context, reviewID uuid.UUID) (*types.Review, error) {
	review, err := s.reviewRepo.GetByIDWithItems(ctx, nil, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("review %s: %w", reviewID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("Failed to load review: %w", err)
	}
	return review, nil
}

func validItemStatus(status string) bool {
	switch status {
	case types.ReviewItemSatisfactory, types.ReviewItemNeedsImprovement, types.ReviewItemUnsatisfactory:
		return true
	}
	return false
}

func (s *reviewService) RecordItem(ctx context.Context, reviewerID, reviewID uuid.UUID, input RecordItemInput) (*types.ReviewItem, error) {
	if !validItemStatus(input.Status) {
		return nil, fmt.Errorf("invalid item status %q: %w", input.Status, apperrors.ErrInvalidArgument)
	}

	var item *types.ReviewItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		review, rErr := s.reviewRepo.GetByIDWithItems(ctx, tx, reviewID)
		if rErr != nil {
			if errors.Is(rErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("review %s: %w", reviewID, apperrors.ErrNotFound)
			}
			return fmt.Errorf("Failed to load review: %w", rErr)
		}
		if review.ReviewerID != reviewerID {
			return fmt.Errorf("review %s: %w", reviewID, apperrors.ErrNotFound)
		}
		if review.Status != types.ReviewStatusOpen {
			return fmt.Errorf("review is already submitted: %w", apperrors.ErrInvalidArgument)
		}
		found, fErr := s.reviewRepo.GetItemByControl(ctx, tx, reviewID, input.ControlID)
		if fErr != nil {
			if errors.Is(fErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("control %q: %w", input.ControlID, apperrors.ErrNotFound)
			}
			return fmt.Errorf("Failed to load review item: %w", fErr)
		}
		found.Status = input.Status
		found.Comment = input.Comment
		updated, uErr := s.reviewRepo.UpdateItem(ctx, tx, found)
		if uErr != nil {
			return fmt.Errorf("Failed to update review item: %w", uErr)
		}
		item = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func validOpinion(opinion string) bool {
	switch opinion {
	case types.OpinionUnqualified, types.OpinionQualified, types.OpinionAdverse, types.OpinionDisclaimer:
		return true
	}
	return false
}

// Finish records the opinion, submits the review, and moves the assessment
// to reviewed. Every item must have been walked through first.
func (s *reviewService) Finish(ctx context.Context, reviewerID, reviewID uuid.UUID, input FinishReviewInput) (*types.Review, error) {
	if !validOpinion(input.Opinion) {
		return nil, fmt.Errorf("invalid opinion %q: %w", input.Opinion, apperrors.ErrInvalidArgument)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		review, rErr := s.reviewRepo.GetByIDWithItems(ctx, tx, reviewID)
		if rErr != nil {
			if errors.Is(rErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("review %s: %w", reviewID, apperrors.ErrNotFound)
			}
			return fmt.Errorf("Failed to load review: %w", rErr)
		}
		if review.ReviewerID != reviewerID {
			return fmt.Errorf("review %s: %w", reviewID, apperrors.ErrNotFound)
		}
		if review.Status != types.ReviewStatusOpen {
			return fmt.Errorf("review is already submitted: %w", apperrors.ErrInvalidArgument)
		}
		pending, pErr := s.reviewRepo.CountUnreviewedItems(ctx, tx, reviewID)
		if pErr != nil {
			return fmt.Errorf("Failed to count unreviewed items: %w", pErr)
		}
		if pending > 0 {
			return fmt.Errorf("%d controls not yet reviewed: %w", pending, apperrors.ErrInvalidArgument)
		}

		now := time.Now()
		review.Items = nil
		review.Status = types.ReviewStatusSubmitted
		review.Opinion = input.Opinion
		review.Summary = input.Summary
		review.SubmittedAt = &now
		if _, uErr := s.reviewRepo.Update(ctx, tx, review); uErr != nil {
			return fmt.Errorf("Failed to submit review: %w", uErr)
		}
		return s.assessmentRepo.UpdateStatus(ctx, tx, review.AssessmentID, types.AssessmentStatusReviewed)
	})
	if err != nil {
		return nil, err
	}
	return s.reviewRepo.GetByIDWithItems(ctx, nil, reviewID)
}
