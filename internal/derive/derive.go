// Package derive implements the deterministic derivation pipeline: pure
// transformations from scored responses and fiscal timing into schedules,
// gap buckets, roadmaps, responsibility matrices, relief eligibility, and
// the downstream composer outputs. Nothing in this package performs I/O or
// mutates its inputs; every function takes the reference date as an
// explicit argument so identical inputs always produce identical output.
package derive

import (
	"regexp"
	"time"

	"github.com/kkurosawa/ssbj-readiness-backend/internal/catalog"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/types"
)

type Engine struct {
	cat *catalog.Catalog
}

func New(cat *catalog.Catalog) *Engine {
	return &Engine{cat: cat}
}

// Report is the full derived tree for one assessment.
type Report struct {
	Schedule  Schedule        `json:"schedule"`
	Gaps      GapReport       `json:"gaps"`
	Roadmap   Roadmap         `json:"roadmap"`
	RACI      RACIReport      `json:"raci"`
	Relief    ReliefReport    `json:"relief"`
	Summary   SummaryReport   `json:"summary"`
	Audit     AuditReport     `json:"audit"`
	Checklist ChecklistReport `json:"checklist"`
}

// Full runs the whole pipeline. Callers must ensure at least one response
// is scored before invoking it; the summary composer alone tolerates an
// entirely unscored assessment.
func (e *Engine) Full(a *types.Assessment, today time.Time) Report {
	sched := e.Schedule(a, today)
	gaps := e.Gaps(a)
	return Report{
		Schedule:  sched,
		Gaps:      gaps,
		Roadmap:   e.Roadmap(a, today),
		RACI:      e.RACI(a),
		Relief:    e.Relief(a, today),
		Summary:   e.Summary(a, today),
		Audit:     e.Audit(a),
		Checklist: e.Checklist(a, today),
	}
}

var yearPattern = regexp.MustCompile(`\b(20\d{2})\b`)

// ComplianceYear extracts a 4-digit year from the assessment's fiscal-year
// string. When none is present the year two years from today is used.
func ComplianceYear(fiscalYear string, today time.Time) int {
	if m := yearPattern.FindString(fiscalYear); m != "" {
		y := 0
		for _, ch := range m {
			y = y*10 + int(ch-'0')
		}
		return y
	}
	return today.Year() + 2
}

// monthEnd returns the last instant-of-day date of the given month.
func monthEnd(year, month int) time.Time {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
}

// monthsBetween is the whole-month difference from a to b, negative when
// b is before a. Partial months round toward zero.
func monthsBetween(a, b time.Time) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if months > 0 && b.Day() < a.Day() {
		months--
	} else if months < 0 && b.Day() > a.Day() {
		months++
	}
	return months
}

// scoreIndex maps criterion ids to scores for the assessment's responses.
// Responses referencing ids absent from the catalog are dropped here so
// downstream lookups never see them.
func (e *Engine) scoreIndex(a *types.Assessment) map[string]*int {
	idx := make(map[string]*int, len(a.Responses))
	for i := range a.Responses {
		r := &a.Responses[i]
		if e.cat.ByID(r.CriterionID) == nil {
			continue
		}
		idx[r.CriterionID] = r.Score
	}
	return idx
}

func scoreOrZero(s *int) int {
	if s == nil {
		return 0
	}
	return *s
}
