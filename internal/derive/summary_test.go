package derive

import (
	"strings"
	"testing"
)

func gapReport(totalScored int, gaps ...Gap) *GapReport {
	rep := &GapReport{TotalScored: totalScored, TotalGaps: len(gaps)}
	for _, g := range gaps {
		if g.AssuranceScope == "in_scope" {
			rep.LACritical = append(rep.LACritical, g)
		}
		switch g.Pillar {
		case "Governance":
			rep.Governance = append(rep.Governance, g)
		case "Strategy":
			rep.Strategy = append(rep.Strategy, g)
		case "Risk Management":
			rep.RiskManagement = append(rep.RiskManagement, g)
		case "Metrics & Targets":
			rep.Metrics = append(rep.Metrics, g)
		}
	}
	return rep
}

func laGap(id string) Gap {
	return Gap{CriterionID: id, Pillar: "Governance", AssuranceScope: "in_scope", Score: 1}
}

func strategyGap(id string) Gap {
	return Gap{CriterionID: id, Pillar: "Strategy", AssuranceScope: "not_in_initial_scope", Score: 2}
}

func TestVerdictLadder(t *testing.T) {
	tests := []struct {
		name string
		rep  *GapReport
		want string
	}{
		{"nothing scored", gapReport(0), VerdictNotAssessed},
		{"no gaps", gapReport(34), VerdictOnTrack},
		{"few gaps outside scope", gapReport(34, strategyGap("STR-01"), strategyGap("STR-02")), VerdictMinorGaps},
		{"exactly five outside scope", gapReport(34,
			strategyGap("STR-01"), strategyGap("STR-02"), strategyGap("STR-03"),
			strategyGap("STR-05"), strategyGap("STR-06")), VerdictMinorGaps},
		{"six outside scope", gapReport(34,
			strategyGap("STR-01"), strategyGap("STR-02"), strategyGap("STR-03"),
			strategyGap("STR-05"), strategyGap("STR-06"), strategyGap("STR-08")), VerdictActionNeeded},
		{"three assurance gaps", gapReport(34,
			laGap("GOV-01"), laGap("GOV-02"), laGap("GOV-04")), VerdictActionNeeded},
		{"four assurance gaps", gapReport(34,
			laGap("GOV-01"), laGap("GOV-02"), laGap("GOV-04"), laGap("GOV-05")), VerdictSignificantWork},
	}
	for _, tc := range tests {
		if code, _, _ := verdict(tc.rep); code != tc.want {
			t.Errorf("%s: verdict = %q, want %q", tc.name, code, tc.want)
		}
	}
}

func TestInvestmentOptionTiers(t *testing.T) {
	small := gapReport(34, strategyGap("STR-01"))
	a, b := investmentOptions(small)
	if a.TotalRange != "¥8M - ¥15M + internal staff time" {
		t.Errorf("small option A range = %q", a.TotalRange)
	}
	if !strings.HasPrefix(b.TotalRange, "¥17M - ¥36M") {
		t.Errorf("small option B range = %q", b.TotalRange)
	}

	var midGaps []Gap
	for _, id := range []string{"STR-01", "STR-02", "STR-03", "STR-05", "STR-06", "STR-08", "STR-09"} {
		midGaps = append(midGaps, strategyGap(id))
	}
	a, _ = investmentOptions(gapReport(34, midGaps...))
	if a.TotalRange != "¥15M - ¥30M + internal staff time" {
		t.Errorf("mid option A range = %q", a.TotalRange)
	}

	var bigGaps []Gap
	for i := 0; i < 13; i++ {
		bigGaps = append(bigGaps, strategyGap("STR-01"))
	}
	a, _ = investmentOptions(gapReport(34, bigGaps...))
	if a.TotalRange != "¥33M - ¥65M + significant internal staff time" {
		t.Errorf("large option A range = %q", a.TotalRange)
	}
}

// A deep GHG data gap upgrades the investment tier even when the gap count
// alone would qualify for the smallest one.
func TestInvestmentTierEscalatesOnGHGDataGap(t *testing.T) {
	rep := gapReport(34, Gap{
		CriterionID: "MET-01", Pillar: "Metrics & Targets",
		AssuranceScope: "in_scope", Score: 1,
	})
	a, _ := investmentOptions(rep)
	if a.TotalRange != "¥15M - ¥30M + internal staff time" {
		t.Errorf("option A range = %q, want the mid tier", a.TotalRange)
	}
}

func TestMinimumRequirementsAreas(t *testing.T) {
	e := testEngine(t)
	rep := gapReport(34,
		laGap("GOV-01"),
		Gap{CriterionID: "MET-01", Pillar: "Metrics & Targets", AssuranceScope: "in_scope", Score: 1},
		Gap{CriterionID: "MET-07", Pillar: "Metrics & Targets", AssuranceScope: "in_scope", Score: 2},
		Gap{CriterionID: "MET-03", Pillar: "Metrics & Targets", AssuranceScope: "not_in_initial_scope", Score: 0},
	)
	reqs := e.minimumRequirements(rep)

	areas := map[string]bool{}
	for _, r := range reqs {
		areas[r.Area] = true
		if len(r.Gaps) == 0 {
			t.Errorf("area %q lists no gaps", r.Area)
		}
	}
	for _, want := range []string{
		"Governance",
		"GHG Emissions (Scope 1 & 2)",
		"Scope 3 Emissions",
		"Data Quality & Internal Controls",
	} {
		if !areas[want] {
			t.Errorf("missing minimum requirement area %q", want)
		}
	}
	if areas["Risk Management"] {
		t.Error("risk management area listed without any risk gaps")
	}
}

func TestComplianceRisksCrossCriterionEscalation(t *testing.T) {
	base := gapReport(34, strategyGap("STR-01"))
	tl := Timeline{MonthsRemaining: 20, Urgency: UrgencyAdequate}
	baseline := len(complianceRisks(base, tl))

	coupled := gapReport(34,
		Gap{CriterionID: "RSK-05", Pillar: "Risk Management", AssuranceScope: "in_scope", Score: 2},
		Gap{CriterionID: "MET-01", Pillar: "Metrics & Targets", AssuranceScope: "in_scope", Score: 2},
	)
	if got := len(complianceRisks(coupled, tl)); got != baseline+1 {
		t.Errorf("coupled controls and GHG gaps yield %d risks, want %d", got, baseline+1)
	}
}

func TestKeyDecisionsFollowVerdict(t *testing.T) {
	tl := Timeline{MonthsRemaining: 20}
	quiet := keyDecisions(gapReport(34), tl, VerdictOnTrack)
	for _, d := range quiet {
		if strings.Contains(d.Decision, "dedicated budget") {
			t.Error("on-track verdict should not demand an emergency budget decision")
		}
	}

	urgent := keyDecisions(gapReport(34, laGap("GOV-01")), Timeline{MonthsRemaining: 10}, VerdictSignificantWork)
	foundBudget, foundProvider := false, false
	for _, d := range urgent {
		if strings.Contains(d.Decision, "dedicated budget") {
			foundBudget = true
		}
		if strings.Contains(d.Decision, "assurance provider") && d.Deadline == "Within 2 weeks" {
			foundProvider = true
		}
	}
	if !foundBudget || !foundProvider {
		t.Errorf("urgent decisions budget=%v provider=%v, want both", foundBudget, foundProvider)
	}
}

func TestSummaryComposesNarrative(t *testing.T) {
	e := testEngine(t)
	a := fixtureAssessment(e.cat, gradedScore)
	sum := e.Summary(a, adequateToday)

	if sum.EntityName != a.EntityName {
		t.Errorf("entity name = %q", sum.EntityName)
	}
	if sum.TotalCriteria != 34 {
		t.Errorf("total criteria = %d, want 34", sum.TotalCriteria)
	}
	if sum.OverallScore != 2.5 {
		t.Errorf("overall score = %v, want 2.5", sum.OverallScore)
	}
	if len(sum.PillarScores) != 4 {
		t.Errorf("pillar scores cover %d pillars, want 4", len(sum.PillarScores))
	}
	if len(sum.Risks) == 0 || len(sum.KeyDecisions) == 0 {
		t.Error("summary missing risks or key decisions")
	}
	if sum.OptionA.TotalRange == "" || sum.OptionB.TotalRange == "" {
		t.Error("summary missing investment ranges")
	}
}
