package derive

import (
	"testing"
	"time"

	"github.com/kkurosawa/ssbj-readiness-backend/internal/catalog"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/types"
)

func intPtr(v int) *int { return &v }

func testEngine(t *testing.T) *Engine {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return New(cat)
}

// fixtureAssessment builds an assessment with one response per catalog
// criterion, scored by position in declaration order.
func fixtureAssessment(cat *catalog.Catalog, scoreAt func(i int, id string) *int) *types.Assessment {
	a := &types.Assessment{
		EntityName: "Teikoku Precision K.K.",
		Title:      "FY2027 readiness baseline",
		FiscalYear: "2027",
		FYEndMonth: 3,
	}
	for i, cr := range cat.Criteria() {
		a.Responses = append(a.Responses, types.Response{
			CriterionID: cr.ID,
			Pillar:      cr.Pillar,
			Category:    cr.Category,
			Standard:    cr.Standard,
			Score:       scoreAt(i, cr.ID),
		})
	}
	return a
}

// gradedScore yields 1 for the first ten criteria, 2 for the next ten, and
// 4 for the rest. With the standard catalog that leaves twenty gaps, nine
// of them in assurance scope, and all metrics criteria passing.
func gradedScore(i int, _ string) *int {
	switch {
	case i < 10:
		return intPtr(1)
	case i < 20:
		return intPtr(2)
	default:
		return intPtr(4)
	}
}

func unscored(int, string) *int { return nil }

func passingScore(int, string) *int { return intPtr(4) }

var (
	// twenty whole months before the March 2027 fiscal year end
	adequateToday = time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)
	// five months before, inside the critical window
	criticalToday = time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC)
)

func TestComplianceYear(t *testing.T) {
	today := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		fiscalYear string
		want       int
	}{
		{"2027", 2027},
		{"fiscal 2026", 2026},
		{"year ending March 2028", 2028},
		{"", 2027},
		{"no year here", 2027},
	}
	for _, tc := range tests {
		if got := ComplianceYear(tc.fiscalYear, today); got != tc.want {
			t.Errorf("ComplianceYear(%q) = %d, want %d", tc.fiscalYear, got, tc.want)
		}
	}
}

func TestMonthsBetween(t *testing.T) {
	tests := []struct {
		a, b time.Time
		want int
	}{
		{date(2025, 7, 31), date(2027, 3, 31), 20},
		{date(2026, 10, 31), date(2027, 3, 31), 5},
		{date(2025, 3, 15), date(2025, 6, 10), 2},
		{date(2025, 6, 10), date(2025, 3, 15), -2},
		{date(2027, 6, 1), date(2027, 3, 31), -2},
		{date(2025, 1, 1), date(2025, 1, 20), 0},
	}
	for _, tc := range tests {
		if got := monthsBetween(tc.a, tc.b); got != tc.want {
			t.Errorf("monthsBetween(%s, %s) = %d, want %d",
				tc.a.Format("2006-01-02"), tc.b.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestMonthEnd(t *testing.T) {
	if got := monthEnd(2027, 3); got.Day() != 31 || got.Month() != time.March {
		t.Errorf("monthEnd(2027, 3) = %s", got.Format("2006-01-02"))
	}
	if got := monthEnd(2028, 2); got.Day() != 29 {
		t.Errorf("monthEnd(2028, 2) = %s, want leap-day end", got.Format("2006-01-02"))
	}
}

func TestScoreIndexDropsUnknownIDs(t *testing.T) {
	e := testEngine(t)
	a := &types.Assessment{Responses: []types.Response{
		{CriterionID: "GOV-01", Score: intPtr(3)},
		{CriterionID: "XXX-99", Score: intPtr(5)},
	}}
	idx := e.scoreIndex(a)
	if _, ok := idx["XXX-99"]; ok {
		t.Error("score index kept a criterion id absent from the catalog")
	}
	if s, ok := idx["GOV-01"]; !ok || s == nil || *s != 3 {
		t.Error("score index lost a valid response")
	}
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}
