package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/kkurosawa/ssbj-readiness-backend/internal/derive"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/logger"
	apperrors "github.com/kkurosawa/ssbj-readiness-backend/internal/pkg/errors"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/repos"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/types"
)

// DerivationCache stores marshalled derivation reports keyed by assessment.
// A cached entry is only valid for the updated_at it was computed from and
// the calendar date it was computed on: a score save supersedes it even
// before invalidation lands, and a date rollover does too, since the passage
// of a day can move months-remaining and everything derived from it.
type DerivationCache interface {
	Get(ctx context.Context, assessmentID uuid.UUID, updatedAt, today time.Time) (*derive.Report, error)
	Set(ctx context.Context, assessmentID uuid.UUID, updatedAt, today time.Time, report *derive.Report) error
	Invalidate(ctx context.Context, assessmentID uuid.UUID) error
}

const cacheDateLayout = "2006-01-02"

type cacheEntry struct {
	UpdatedAt  int64           `json:"updated_at"`
	ComputedOn string          `json:"computed_on"`
	Report     json.RawMessage `json:"report"`
}

// fresh reports whether the entry still describes the assessment as of the
// given updated_at and reference date.
func (e cacheEntry) fresh(updatedAt, today time.Time) bool {
	return e.UpdatedAt == updatedAt.Unix() && e.ComputedOn == today.Format(cacheDateLayout)
}

type redisDerivationCache struct {
	client *redis.Client
	log    *logger.Logger
	ttl    time.Duration
}

func NewRedisDerivationCache(client *redis.Client, log *logger.Logger, ttl time.Duration) DerivationCache {
	cacheLog := log.With("service", "DerivationCache")
	return &redisDerivationCache{client: client, log: cacheLog, ttl: ttl}
}

func cacheKey(assessmentID uuid.UUID) string {
	return "derivation:" + assessmentID.String()
}

func (c *redisDerivationCache) Get(ctx context.Context, assessmentID uuid.UUID, updatedAt, today time.Time) (*derive.Report, error) {
	raw, err := c.client.Get(ctx, cacheKey(assessmentID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var entry cacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, err
	}
	if !entry.fresh(updatedAt, today) {
		return nil, nil
	}
	var report derive.Report
	if err := json.Unmarshal(entry.Report, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *redisDerivationCache) Set(ctx context.Context, assessmentID uuid.UUID, updatedAt, today time.Time, report *derive.Report) error {
	rawReport, err := json.Marshal(report)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(cacheEntry{
		UpdatedAt:  updatedAt.Unix(),
		ComputedOn: today.Format(cacheDateLayout),
		Report:     rawReport,
	})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(assessmentID), raw, c.ttl).Err()
}

func (c *redisDerivationCache) Invalidate(ctx context.Context, assessmentID uuid.UUID) error {
	return c.client.Del(ctx, cacheKey(assessmentID)).Err()
}

type DerivationService interface {
	Report(ctx context.Context, userID, assessmentID uuid.UUID) (*derive.Report, error)
	Roadmap(ctx context.Context, userID, assessmentID uuid.UUID) (*derive.Roadmap, error)
	RACI(ctx context.Context, userID, assessmentID uuid.UUID) (*derive.RACIReport, error)
	Relief(ctx context.Context, userID, assessmentID uuid.UUID) (*derive.ReliefReport, error)
	Summary(ctx context.Context, userID, assessmentID uuid.UUID) (*derive.SummaryReport, error)
	Audit(ctx context.Context, userID, assessmentID uuid.UUID) (*derive.AuditReport, error)
	Checklist(ctx context.Context, userID, assessmentID uuid.UUID) (*derive.ChecklistReport, error)
}

type derivationService struct {
	log            *logger.Logger
	engine         *derive.Engine
	assessmentRepo repos.AssessmentRepo
	cache          DerivationCache
	now            func() time.Time
}

func NewDerivationService(
	log *logger.Logger,
	engine *derive.Engine,
	assessmentRepo repos.AssessmentRepo,
	cache DerivationCache,
) DerivationService {
	serviceLog := log.With("service", "DerivationService")
	return &derivationService{
		log:            serviceLog,
		engine:         engine,
		assessmentRepo: assessmentRepo,
		cache:          cache,
		now:            time.Now,
	}
}

func (s *derivationService) load(ctx context.Context, userID, assessmentID uuid.UUID) (*types.Assessment, error) {
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
	return assessment, nil
}

// Report returns the full derived tree, serving from cache when the cached
// entry matches the assessment's updated_at.
func (s *derivationService) Report(ctx context.Context, userID, assessmentID uuid.UUID) (*derive.Report, error) {
	assessment, err := s.load(ctx, userID, assessmentID)
	if err != nil {
		return nil, err
	}
	if assessment.ScoredCount() == 0 {
		return nil, fmt.Errorf("assessment has no scored responses: %w", apperrors.ErrPrecondition)
	}

	today := s.now()
	if s.cache != nil {
		cached, cErr := s.cache.Get(ctx, assessmentID, assessment.UpdatedAt, today)
		if cErr != nil {
			s.log.Warn("Derivation cache read failed", "assessment_id", assessmentID, "error", cErr)
		} else if cached != nil {
			return cached, nil
		}
	}

	report := s.engine.Full(assessment, today)
	if s.cache != nil {
		if sErr := s.cache.Set(ctx, assessmentID, assessment.UpdatedAt, today, &report); sErr != nil {
			s.log.Warn("Derivation cache write failed", "assessment_id", assessmentID, "error", sErr)
		}
	}
	return &report, nil
}

func (s *derivationService) Roadmap(ctx context.Context, userID, assessmentID uuid.UUID) (*derive.Roadmap, error) {
	report, err := s.Report(ctx, userID, assessmentID)
	if err != nil {
		return nil, err
	}
	return &report.Roadmap, nil
}

func (s *derivationService) RACI(ctx context.Context, userID, assessmentID uuid.UUID) (*derive.RACIReport, error) {
	report, err := s.Report(ctx, userID, assessmentID)
	if err != nil {
		return nil, err
	}
	return &report.RACI, nil
}

func (s *derivationService) Relief(ctx context.Context, userID, assessmentID uuid.UUID) (*derive.ReliefReport, error) {
	report, err := s.Report(ctx, userID, assessmentID)
	if err != nil {
		return nil, err
	}
	return &report.Relief, nil
}

// Summary tolerates an entirely unscored assessment; the verdict comes back
// not_assessed rather than an error.
func (s *derivationService) Summary(ctx context.Context, userID, assessmentID uuid.UUID) (*derive.SummaryReport, error) {
	assessment, err := s.load(ctx, userID, assessmentID)
	if err != nil {
		return nil, err
	}
	if assessment.ScoredCount() == 0 {
		summary := s.engine.Summary(assessment, s.now())
		return &summary, nil
	}
	report, err := s.Report(ctx, userID, assessmentID)
	if err != nil {
		return nil, err
	}
	return &report.Summary, nil
}

func (s *derivationService) Audit(ctx context.Context, userID, assessmentID uuid.UUID) (*derive.AuditReport, error) {
	report, err := s.Report(ctx, userID, assessmentID)
	if err != nil {
		return nil, err
	}
	return &report.Audit, nil
}

func (s *derivationService) Checklist(ctx context.Context, userID, assessmentID uuid.UUID) (*derive.ChecklistReport, error) {
	report, err := s.Report(ctx, userID, assessmentID)
	if err != nil {
		return nil, err
	}
	return &report.Checklist, nil
}
