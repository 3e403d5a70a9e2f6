package services

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func newAutoAssess(t *testing.T) AutoAssessService {
	t.Helper()
	return NewAutoAssessService(testLogger(t), testCatalog(t))
}

func TestScoreCriterionPicksHighestMatchingTier(t *testing.T) {
	svc := newAutoAssess(t)

	tests := []struct {
		name string
		id   string
		text string
		want int
	}{
		{
			name: "no match scores zero",
			id:   "GOV-01",
			text: "dividend payout schedule and share buyback program",
			want: 0,
		},
		{
			name: "tier 1 keyword only",
			id:   "GOV-01",
			text: "our approach to sustainability matters",
			want: 1,
		},
		{
			name: "tier 3 beats tier 1",
			id:   "GOV-01",
			text: "the board charter assigns sustainability oversight",
			want: 3,
		},
		{
			name: "tier 5 wins over everything below",
			id:   "GOV-01",
			text: "integrated governance with continuous improvement and board oversight",
			want: 5,
		},
		{
			name: "scope 1 inventory at tier 3",
			id:   "MET-01",
			text: "GHG protocol based scope 1 inventory with emission factor tables in tCO2",
			want: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.ScoreCriterion(tt.id, tt.text)
			if got.Score != tt.want {
				t.Errorf("score = %d, want %d", got.Score, tt.want)
			}
		})
	}
}

func TestScoreCriterionMatchingIsCaseInsensitive(t *testing.T) {
	svc := newAutoAssess(t)
	got := svc.ScoreCriterion("GOV-01", "BOARD CHARTER AND SUSTAINABILITY OVERSIGHT")
	if got.Score != 3 {
		t.Fatalf("score = %d, want 3", got.Score)
	}
}

func TestScoreCriterionEvidenceCarriesKeywordsAndExcerpts(t *testing.T) {
	svc := newAutoAssess(t)
	text := "The board charter, approved in April, assigns sustainability oversight " +
		"to the audit and risk committee with a quarterly reporting line."
	got := svc.ScoreCriterion("GOV-01", text)

	if !strings.HasPrefix(got.Evidence, "[Auto-assessed] Keywords found: ") {
		t.Errorf("evidence prefix missing: %q", got.Evidence)
	}
	if !strings.Contains(got.Evidence, "charter") {
		t.Errorf("matched keyword absent from evidence: %q", got.Evidence)
	}
	if !strings.Contains(got.Evidence, "Relevant excerpts:") {
		t.Errorf("excerpts absent from evidence: %q", got.Evidence)
	}
	if !strings.Contains(got.Notes, "Maturity level") {
		t.Errorf("notes missing maturity level: %q", got.Notes)
	}
	if !strings.Contains(got.Notes, "Guidance: ") {
		t.Errorf("notes missing catalog guidance: %q", got.Notes)
	}
}

func TestScoreCriterionExcerptsStayValidInMultibyteText(t *testing.T) {
	svc := newAutoAssess(t)
	// The keyword sits between runs of 3-byte runes so a fixed byte window
	// would land mid-rune on both sides.
	text := strings.Repeat("温室効果ガスの排出量管理。", 20) +
		" sustainability " +
		strings.Repeat("取締役会による監督体制。", 20)

	got := svc.ScoreCriterion("GOV-01", text)
	if got.Score != 1 {
		t.Fatalf("score = %d, want 1", got.Score)
	}
	if !utf8.ValidString(got.Evidence) {
		t.Fatalf("evidence is invalid UTF-8: %q", got.Evidence)
	}
	if !strings.Contains(got.Evidence, "sustainability") {
		t.Errorf("excerpt missing matched keyword: %q", got.Evidence)
	}
}

func TestScoreCriterionUnknownCriterion(t *testing.T) {
	svc := newAutoAssess(t)
	got := svc.ScoreCriterion("ZZZ-99", "sustainability board charter")
	if got.Score != 0 {
		t.Errorf("score = %d, want 0", got.Score)
	}
	if got.Evidence != "" {
		t.Errorf("evidence = %q, want empty", got.Evidence)
	}
	if !strings.Contains(got.Notes, "No auto-assessment keywords") {
		t.Errorf("notes = %q", got.Notes)
	}
}

func TestScoreAllCoversCatalogInOrder(t *testing.T) {
	svc := newAutoAssess(t)
	cat := testCatalog(t)

	results := svc.ScoreAll("sustainability governance and scope 1 emissions")
	criteria := cat.Criteria()
	if len(results) != len(criteria) {
		t.Fatalf("results = %d, want %d", len(results), len(criteria))
	}
	for i, r := range results {
		if r.CriterionID != criteria[i].ID {
			t.Fatalf("result %d = %s, want %s (catalog order)", i, r.CriterionID, criteria[i].ID)
		}
	}
}

func TestScoreAllIsDeterministic(t *testing.T) {
	svc := newAutoAssess(t)
	text := "board charter sustainability oversight scope 1 emission factor reconciliation"
	first := svc.ScoreAll(text)
	second := svc.ScoreAll(text)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("result %d differs between runs:\n%+v\n%+v", i, first[i], second[i])
		}
	}
}
