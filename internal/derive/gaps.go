package derive

import (
	"math"

	"github.com/kkurosawa/ssbj-readiness-backend/internal/catalog"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/types"
)

// gapThreshold is the minimum passing maturity level. A score below it is
// a gap; an unscored response belongs to no bucket.
const gapThreshold = 3

type Gap struct {
	CriterionID    string `json:"criterion_id"`
	Category       string `json:"category"`
	Pillar         string `json:"pillar"`
	Standard       string `json:"standard"`
	Score          int    `json:"score"`
	Priority       string `json:"priority"`
	AssuranceScope string `json:"assurance_scope"`
	MinimumAction  string `json:"minimum_action"`
}

// GapReport buckets sub-threshold scores. LACritical cuts across the pillar
// buckets, so a criterion can appear in both.
type GapReport struct {
	LACritical     []Gap   `json:"la_critical"`
	Governance     []Gap   `json:"governance"`
	Strategy       []Gap   `json:"strategy"`
	RiskManagement []Gap   `json:"risk_management"`
	Metrics        []Gap   `json:"metrics"`
	ITNeeded       bool    `json:"it_needed"`
	TotalGaps      int     `json:"total_gaps"`
	TotalScored    int     `json:"total_scored"`
	AvgScore       float64 `json:"avg_score"`
}

// Gaps classifies every scored response against the passing threshold,
// walking the catalog in declaration order so bucket contents are stable.
func (e *Engine) Gaps(a *types.Assessment) GapReport {
	scores := e.scoreIndex(a)
	var rep GapReport
	sum := 0
	for _, cr := range e.cat.Criteria() {
		s, ok := scores[cr.ID]
		if !ok || s == nil {
			continue
		}
		rep.TotalScored++
		sum += *s
		if *s >= gapThreshold {
			continue
		}
		g := Gap{
			CriterionID:    cr.ID,
			Category:       cr.Category,
			Pillar:         cr.Pillar,
			Standard:       cr.Standard,
			Score:          *s,
			Priority:       cr.Priority,
			AssuranceScope: cr.AssuranceScope,
			MinimumAction:  cr.MinimumAction,
		}
		rep.TotalGaps++
		if cr.InScope() {
			rep.LACritical = append(rep.LACritical, g)
		}
		switch cr.Pillar {
		case catalog.PillarGovernance:
			rep.Governance = append(rep.Governance, g)
		case catalog.PillarStrategy:
			rep.Strategy = append(rep.Strategy, g)
		case catalog.PillarRisk:
			rep.RiskManagement = append(rep.RiskManagement, g)
		case catalog.PillarMetrics:
			rep.Metrics = append(rep.Metrics, g)
			if *s < 2 {
				rep.ITNeeded = true
			}
		}
	}
	if rep.TotalScored > 0 {
		rep.AvgScore = math.Round(float64(sum)/float64(rep.TotalScored)*10) / 10
	}
	return rep
}

// PillarGaps returns the bucket for the named pillar.
func (r *GapReport) PillarGaps(pillar string) []Gap {
	switch pillar {
	case catalog.PillarGovernance:
		return r.Governance
	case catalog.PillarStrategy:
		return r.Strategy
	case catalog.PillarRisk:
		return r.RiskManagement
	case catalog.PillarMetrics:
		return r.Metrics
	}
	return nil
}
