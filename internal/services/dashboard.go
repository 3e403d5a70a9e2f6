package services

import (
	"context"
	"math"

	"github.com/google/uuid"

	"github.com/kkurosawa/ssbj-readiness-backend/internal/logger"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/repos"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/types"
)

// Dashboard aggregates a user's assessments: counts per status and pillar
// score averages across completed and reviewed assessments.
type Dashboard struct {
	TotalAssessments int                `json:"total_assessments"`
	StatusCounts     map[string]int     `json:"status_counts"`
	PillarAverages   map[string]float64 `json:"pillar_averages"`
	CompletedCount   int                `json:"completed_count"`
	AverageScore     float64            `json:"average_score"`
}

type DashboardService interface {
	ForUser(ctx context.Context, userID uuid.UUID) (*Dashboard, error)
}

type dashboardService struct {
	log            *logger.Logger
	assessmentRepo repos.AssessmentRepo
	responseRepo   repos.ResponseRepo
}

func NewDashboardService(
	log *logger.Logger,
	assessmentRepo repos.AssessmentRepo,
	responseRepo repos.ResponseRepo,
) DashboardService {
	serviceLog := log.With("service", "DashboardService")
	return &dashboardService{
		log:            serviceLog,
		assessmentRepo: assessmentRepo,
		responseRepo:   responseRepo,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func (s *dashboardService) ForUser(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	assessments, err := s.assessmentRepo.ListByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	dash := &Dashboard{
		TotalAssessments: len(assessments),
		StatusCounts:     map[string]int{},
		PillarAverages:   map[string]float64{},
	}

	pillarSums := map[string]int{}
	pillarCounts := map[string]int{}
	scoreSum, scoreCount := 0, 0

	for _, a := range assessments {
		dash.StatusCounts[a.Status]++
		if a.Status != types.AssessmentStatusCompleted && a.Status != types.AssessmentStatusReviewed {
			continue
		}
		dash.CompletedCount++

		responses, rErr := s.responseRepo.GetByAssessmentID(ctx, nil, a.ID)
		if rErr != nil {
			return nil, rErr
		}
		for _, r := range responses {
			if r.Score == nil {
				continue
			}
			pillarSums[r.Pillar] += *r.Score
			pillarCounts[r.Pillar]++
			scoreSum += *r.Score
			scoreCount++
		}
	}

	for pillar, sum := range pillarSums {
		dash.PillarAverages[pillar] = round1(float64(sum) / float64(pillarCounts[pillar]))
	}
	if scoreCount > 0 {
		dash.AverageScore = round1(float64(scoreSum) / float64(scoreCount))
	}
	return dash, nil
}
