package derive

import (
	"time"

	"github.com/kkurosawa/ssbj-readiness-backend/internal/types"
)

const (
	UrgencyCritical    = "critical"
	UrgencyTight       = "tight"
	UrgencyAdequate    = "adequate"
	UrgencyComfortable = "comfortable"
)

// Timeline carries the fiscal deadline math shared by every downstream
// engine. MonthsRemaining is the true signed value; only scheduling floors
// it, so a past-due deadline still surfaces as negative for messaging.
type Timeline struct {
	ComplianceYear  int       `json:"compliance_year"`
	ComplianceDate  time.Time `json:"compliance_date"`
	AssuranceDate   time.Time `json:"assurance_date"`
	MonthsRemaining int       `json:"months_remaining"`
	Urgency         string    `json:"urgency"`
}

type PhaseWindow struct {
	Phase      int `json:"phase"`
	StartMonth int `json:"start_month"`
	EndMonth   int `json:"end_month"`
}

type Schedule struct {
	Timeline
	Phases []PhaseWindow `json:"phases"`
}

// Urgency places a months-remaining value on the strict threshold ladder.
func Urgency(monthsRemaining int) string {
	switch {
	case monthsRemaining <= 6:
		return UrgencyCritical
	case monthsRemaining <= 12:
		return UrgencyTight
	case monthsRemaining <= 24:
		return UrgencyAdequate
	default:
		return UrgencyComfortable
	}
}

// TimelineFor computes the compliance timeline for an assessment as of the
// given date.
func (e *Engine) TimelineFor(a *types.Assessment, today time.Time) Timeline {
	year := ComplianceYear(a.FiscalYear, today)
	fyEnd := a.FYEndMonth
	if fyEnd < 1 || fyEnd > 12 {
		fyEnd = 3
	}
	compliance := monthEnd(year, fyEnd)
	remaining := monthsBetween(today, compliance)
	return Timeline{
		ComplianceYear:  year,
		ComplianceDate:  compliance,
		AssuranceDate:   compliance.AddDate(1, 0, 0),
		MonthsRemaining: remaining,
		Urgency:         Urgency(remaining),
	}
}

// Schedule computes the timeline plus the compressed phase schedule. Phase
// boundaries come from one of four templates keyed by months remaining;
// under twelve months the first two phases run fully in parallel and every
// end point clamps to the floored horizon.
func (e *Engine) Schedule(a *types.Assessment, today time.Time) Schedule {
	tl := e.TimelineFor(a, today)
	return Schedule{Timeline: tl, Phases: phaseWindows(tl.MonthsRemaining)}
}

// scheduleHorizon floors months remaining at 3 so a passed deadline still
// yields a non-degenerate plan.
func scheduleHorizon(monthsRemaining int) int {
	if monthsRemaining < 3 {
		return 3
	}
	return monthsRemaining
}

func phaseWindows(monthsRemaining int) []PhaseWindow {
	m := scheduleHorizon(monthsRemaining)
	var b [6][2]int
	switch {
	case m >= 24:
		b = [6][2]int{{0, 3}, {3, 6}, {6, 12}, {12, 18}, {15, 21}, {18, 24}}
	case m >= 18:
		full := [6][2]int{{0, 3}, {3, 6}, {6, 12}, {12, 18}, {15, 21}, {18, 24}}
		for i, w := range full {
			b[i] = [2]int{w[0] * m / 24, w[1] * m / 24}
		}
	case m >= 12:
		b = [6][2]int{
			{0, 2},
			{0, 4},
			{2, m / 2},
			{m / 3, 2 * m / 3},
			{m / 2, 5 * m / 6},
			{2 * m / 3, m},
		}
	default:
		kick := min(2, m)
		b = [6][2]int{
			{0, kick},
			{0, kick},
			{1, m},
			{max(1, m-3), m},
			{max(2, m-2), m},
			{max(2, m-1), m},
		}
	}
	phases := make([]PhaseWindow, 0, 7)
	for i, w := range b {
		phases = append(phases, PhaseWindow{Phase: i + 1, StartMonth: w[0], EndMonth: w[1]})
	}
	phases = append(phases, PhaseWindow{Phase: 7, StartMonth: m, EndMonth: m + 12})
	return phases
}
