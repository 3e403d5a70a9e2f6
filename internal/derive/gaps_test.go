package derive

import (
	"testing"

	"github.com/kkurosawa/ssbj-readiness-backend/internal/catalog"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/types"
)

func TestGapsBucketsByPillar(t *testing.T) {
	e := testEngine(t)
	a := fixtureAssessment(e.cat, gradedScore)
	rep := e.Gaps(a)

	for _, g := range rep.Governance {
		if g.Pillar != catalog.PillarGovernance {
			t.Errorf("governance bucket holds %s from pillar %q", g.CriterionID, g.Pillar)
		}
	}
	for _, g := range rep.LACritical {
		if g.AssuranceScope != catalog.ScopeInScope {
			t.Errorf("assurance bucket holds %s with scope %q", g.CriterionID, g.AssuranceScope)
		}
	}
	if len(rep.Metrics) != 0 {
		t.Errorf("metrics bucket has %d entries, want none when all metrics pass", len(rep.Metrics))
	}
}

func TestGapsCrossMembership(t *testing.T) {
	e := testEngine(t)
	a := fixtureAssessment(e.cat, gradedScore)
	rep := e.Gaps(a)

	inGov, inLA := false, false
	for _, g := range rep.Governance {
		if g.CriterionID == "GOV-01" {
			inGov = true
		}
	}
	for _, g := range rep.LACritical {
		if g.CriterionID == "GOV-01" {
			inLA = true
		}
	}
	if !inGov || !inLA {
		t.Errorf("GOV-01 membership governance=%v assurance=%v, want both", inGov, inLA)
	}
}

func TestGapsNilScoreExcluded(t *testing.T) {
	e := testEngine(t)
	a := &types.Assessment{Responses: []types.Response{
		{CriterionID: "GOV-01", Score: nil},
		{CriterionID: "GOV-02", Score: intPtr(1)},
	}}
	rep := e.Gaps(a)

	if rep.TotalScored != 1 {
		t.Errorf("total scored = %d, want 1", rep.TotalScored)
	}
	if rep.TotalGaps != 1 {
		t.Errorf("total gaps = %d, want 1", rep.TotalGaps)
	}
	for _, g := range rep.Governance {
		if g.CriterionID == "GOV-01" {
			t.Error("unscored criterion classified as a gap")
		}
	}
}

func TestGapsITNeeded(t *testing.T) {
	e := testEngine(t)
	tests := []struct {
		name  string
		score int
		want  bool
	}{
		{"metrics score 1", 1, true},
		{"metrics score 0", 0, true},
		{"metrics score 2", 2, false},
	}
	for _, tc := range tests {
		a := &types.Assessment{Responses: []types.Response{
			{CriterionID: "MET-01", Score: intPtr(tc.score)},
		}}
		if got := e.Gaps(a).ITNeeded; got != tc.want {
			t.Errorf("%s: it_needed = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestGapsAvgScoreRounding(t *testing.T) {
	e := testEngine(t)
	a := &types.Assessment{Responses: []types.Response{
		{CriterionID: "GOV-01", Score: intPtr(1)},
		{CriterionID: "GOV-02", Score: intPtr(2)},
		{CriterionID: "GOV-03", Score: intPtr(2)},
	}}
	if got := e.Gaps(a).AvgScore; got != 1.7 {
		t.Errorf("avg score = %v, want 1.7", got)
	}
}

func TestPillarGapsLookup(t *testing.T) {
	e := testEngine(t)
	a := fixtureAssessment(e.cat, gradedScore)
	rep := e.Gaps(a)

	if got := rep.PillarGaps(catalog.PillarGovernance); len(got) != len(rep.Governance) {
		t.Errorf("pillar lookup returned %d, want %d", len(got), len(rep.Governance))
	}
	if rep.PillarGaps("nonexistent") != nil {
		t.Error("unknown pillar should return nil")
	}
}
