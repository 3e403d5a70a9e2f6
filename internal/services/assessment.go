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

// CreateAssessmentInput carries the entity profile for a new assessment.
type CreateAssessmentInput struct {
	EntityName     string `json:"entity_name"`
	Title          string `json:"title"`
	Industry       string `json:"industry"`
	MarketCapPhase string `json:"market_cap_phase"`
	FiscalYear     string `json:"fiscal_year"`
	FYEndMonth     int    `json:"fy_end_month"`
}

// ScoreInput is one criterion's score submission. A nil score clears the
// response back to unanswered.
type ScoreInput struct {
	CriterionID  string `json:"criterion_id"`
	Score        *int   `json:"score"`
	Notes        string `json:"notes"`
	EvidenceText string `json:"evidence_text"`
	ScoredBy     string `json:"scored_by"`
}

type AssessmentService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateAssessmentInput) (*types.Assessment, error)
	Get(ctx context.Context, userID, assessmentID uuid.UUID) (*types.Assessment, error)
	List(ctx context.Context, userID uuid.UUID) ([]*types.Assessment, error)
	SaveScores(ctx context.Context, userID, assessmentID uuid.UUID, scores []ScoreInput) (*types.Assessment, error)
	Complete(ctx context.Context, userID, assessmentID uuid.UUID) (*types.Assessment, error)
	Delete(ctx context.Context, userID, assessmentID uuid.UUID) error
}

type assessmentService struct {
	db             *gorm.DB
	log            *logger.Logger
	cat            *catalog.Catalog
	assessmentRepo repos.AssessmentRepo
	responseRepo   repos.ResponseRepo
	cache          DerivationCache
}

func NewAssessmentService(
	db *gorm.DB,
	log *logger.Logger,
	cat *catalog.Catalog,
	assessmentRepo repos.AssessmentRepo,
	responseRepo repos.ResponseRepo,
	cache DerivationCache,
) AssessmentService {
	serviceLog := log.With("service", "AssessmentService")
	return &assessmentService{
		db:             db,
		log:            serviceLog,
		cat:            cat,
		assessmentRepo: assessmentRepo,
		responseRepo:   responseRepo,
		cache:          cache,
	}
}

func (s *assessmentService) Create(ctx context.Context, userID uuid.UUID, input CreateAssessmentInput) (*types.Assessment, error) {
	if input.EntityName == "" {
		return nil, fmt.Errorf("entity name is required: %w", apperrors.ErrInvalidArgument)
	}
	if input.FYEndMonth == 0 {
		input.FYEndMonth = 3
	}
	if input.FYEndMonth < 1 || input.FYEndMonth > 12 {
		return nil, fmt.Errorf("fiscal year end month must be 1-12: %w", apperrors.ErrInvalidArgument)
	}

	assessment := &types.Assessment{
		ID:             uuid.New(),
		UserID:         userID,
		EntityName:     input.EntityName,
		Title:          input.Title,
		Industry:       input.Industry,
		MarketCapPhase: input.MarketCapPhase,
		FiscalYear:     input.FiscalYear,
		FYEndMonth:     input.FYEndMonth,
		Status:         types.AssessmentStatusDraft,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, cErr := s.assessmentRepo.Create(ctx, tx, []*types.Assessment{assessment}); cErr != nil {
			return fmt.Errorf("Failed to create assessment: %w", cErr)
		}
		responses := buildResponses(s.cat, assessment.ID)
		if _, rErr := s.responseRepo.Create(ctx, tx, responses); rErr != nil {
			return fmt.Errorf("Failed to create responses: %w", rErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, assessment.ID)
}

// buildResponses creates one unanswered response per catalog criterion, with
// pillar, category, and standard denormalized from the catalog.
func buildResponses(cat *catalog.Catalog, assessmentID uuid.UUID) []*types.Response {
	criteria := cat.Criteria()
	out := make([]*types.Response, 0, len(criteria))
	for _, c := range criteria {
		out = append(out, &types.Response{
			ID:           uuid.New(),
			AssessmentID: assessmentID,
			CriterionID:  c.ID,
			Pillar:       c.Pillar,
			Category:     c.Category,
			Standard:     c.Standard,
		})
	}
	return out
}

func (s *assessmentService) Get(ctx context.Context, userID, assessmentID uuid.UUID) (*types.Assessment, error) {
	assessment, err := s.assessmentRepo.GetByIDWithResponses(ctx, nil, assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("assessment %s: %w", assessmentID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("Failed to load assessment: %w", err)
	}
	if assessment.UserID != userID {
		return nil, fmt.Errorf("assessment %s: %w", assessmentID, apperrors.ErrNotFound)
	}

	// Criteria added to the catalog after creation get responses backfilled
	// so older assessments stay complete.
	missing := missingCriteria(s.cat, assessment)
	if len(missing) > 0 {
		if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			_, cErr := s.responseRepo.Create(ctx, tx, missing)
			return cErr
		}); err != nil {
			return nil, fmt.Errorf("Failed to backfill responses: %w", err)
		}
		assessment, err = s.assessmentRepo.GetByIDWithResponses(ctx, nil, assessmentID)
		if err != nil {
			return nil, fmt.Errorf("Failed to reload assessment: %w", err)
		}
	}
	return assessment, nil
}

func missingCriteria(cat *catalog.Catalog, a *types.Assessment) []*types.Response {
	have := make(map[string]bool, len(a.Responses))
	for _, r := range a.Responses {
		have[r.CriterionID] = true
	}
	var out []*types.Response
	for _, c := range cat.Criteria() {
		if have[c.ID] {
			continue
		}
		out = append(out, &types.Response{
			ID:           uuid.New(),
			AssessmentID: a.ID,
			CriterionID:  c.ID,
			Pillar:       c.Pillar,
			Category:     c.Category,
			Standard:     c.Standard,
		})
	}
	return out
}

func (s *assessmentService) List(ctx context.Context, userID uuid.UUID) ([]*types.Assessment, error) {
	return s.assessmentRepo.ListByUserID(ctx, nil, userID)
}

func (s *assessmentService) SaveScores(ctx context.Context, userID, assessmentID uuid.UUID, scores []ScoreInput) (*types.Assessment, error) {
	if len(scores) == 0 {
		return nil, fmt.Errorf("no scores submitted: %w", apperrors.ErrInvalidArgument)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		assessment, aErr := s.assessmentRepo.GetByIDWithResponses(ctx, tx, assessmentID)
		if aErr != nil {
			if errors.Is(aErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("assessment %s: %w", assessmentID, apperrors.ErrNotFound)
			}
			return fmt.Errorf("Failed to load assessment: %w", aErr)
		}
		if assessment.UserID != userID {
			return fmt.Errorf("assessment %s: %w", assessmentID, apperrors.ErrNotFound)
		}
		if assessment.Status == types.AssessmentStatusUnderReview || assessment.Status == types.AssessmentStatusReviewed {
			return fmt.Errorf("assessment is under review: %w", apperrors.ErrInvalidArgument)
		}

		byID := make(map[string]*types.Response, len(assessment.Responses))
		for i := range assessment.Responses {
			byID[assessment.Responses[i].CriterionID] = &assessment.Responses[i]
		}

		now := time.Now()
		for _, in := range scores {
			resp, ok := byID[in.CriterionID]
			if !ok {
				return fmt.Errorf("unknown criterion %q: %w", in.CriterionID, apperrors.ErrInvalidArgument)
			}
			if in.Score == nil {
				resp.Score = nil
				resp.ScoredAt = nil
				resp.ScoredBy = ""
			} else {
				clamped := min(max(*in.Score, catalog.MinScore), catalog.MaxScore)
				resp.Score = &clamped
				scoredAt := now
				resp.ScoredAt = &scoredAt
				resp.ScoredBy = in.ScoredBy
				if resp.ScoredBy == "" {
					resp.ScoredBy = types.ScoredByManual
				}
			}
			resp.Notes = in.Notes
			resp.EvidenceText = in.EvidenceText
			if _, uErr := s.responseRepo.Update(ctx, tx, resp); uErr != nil {
				return fmt.Errorf("Failed to save score for %s: %w", in.CriterionID, uErr)
			}
		}

		if assessment.Status == types.AssessmentStatusDraft {
			if uErr := s.assessmentRepo.UpdateStatus(ctx, tx, assessmentID, types.AssessmentStatusInProgress); uErr != nil {
				return fmt.Errorf("Failed to update assessment status: %w", uErr)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if iErr := s.cache.Invalidate(ctx, assessmentID); iErr != nil {
			s.log.Warn("Failed to invalidate derivation cache", "assessment_id", assessmentID, "error", iErr)
		}
	}
	return s.Get(ctx, userID, assessmentID)
}

func (s *assessmentService) Complete(ctx context.Context, userID, assessmentID uuid.UUID) (*types.Assessment, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		assessment, aErr := s.assessmentRepo.GetByIDWithResponses(ctx, tx, assessmentID)
		if aErr != nil {
			if errors.Is(aErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("assessment %s: %w", assessmentID, apperrors.ErrNotFound)
			}
			return fmt.Errorf("Failed to load assessment: %w", aErr)
		}
		if assessment.UserID != userID {
			return fmt.Errorf("assessment %s: %w", assessmentID, apperrors.ErrNotFound)
		}
		unanswered := len(assessment.Responses) - assessment.ScoredCount()
		if unanswered > 0 {
			return fmt.Errorf("%d criteria remain unanswered: %w", unanswered, apperrors.ErrInvalidArgument)
		}
		return s.assessmentRepo.UpdateStatus(ctx, tx, assessmentID, types.AssessmentStatusCompleted)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, assessmentID)
}

func (s *assessmentService) Delete(ctx context.Context, userID, assessmentID uuid.UUID) error {
	assessment, err := s.assessmentRepo.GetByIDWithResponses(ctx, nil, assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("assessment %s: %w", assessmentID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("Failed to load assessment: %w", err)
	}
	if assessment.UserID != userID {
		return fmt.Errorf("assessment %s: %w", assessmentID, apperrors.ErrNotFound)
	}
	if s.cache != nil {
		if iErr := s.cache.Invalidate(ctx, assessmentID); iErr != nil {
			s.log.Warn("Failed to invalidate derivation cache", "assessment_id", assessmentID, "error", iErr)
		}
	}
	return s.assessmentRepo.SoftDelete(ctx, nil, assessmentID)
}
