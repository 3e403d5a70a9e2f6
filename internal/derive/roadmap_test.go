package derive

import (
	"strings"
	"testing"
)

func TestRoadmapSevenPhases(t *testing.T) {
	e := testEngine(t)
	a := fixtureAssessment(e.cat, gradedScore)
	rm := e.Roadmap(a, adequateToday)

	if len(rm.Phases) != 7 {
		t.Fatalf("got %d phases, want 7", len(rm.Phases))
	}
	sched := e.Schedule(a, adequateToday)
	for i, ph := range rm.Phases {
		if ph.Number != i+1 {
			t.Errorf("phase %d numbered %d", i+1, ph.Number)
		}
		if ph.StartMonth != sched.Phases[i].StartMonth || ph.EndMonth != sched.Phases[i].EndMonth {
			t.Errorf("phase %d window (%d,%d) diverges from schedule (%d,%d)",
				ph.Number, ph.StartMonth, ph.EndMonth, sched.Phases[i].StartMonth, sched.Phases[i].EndMonth)
		}
		if len(ph.Tasks.Management) == 0 {
			t.Errorf("phase %d has no management tasks", ph.Number)
		}
	}
}

func TestRoadmapTightUrgencyCompresses(t *testing.T) {
	e := testEngine(t)
	a := fixtureAssessment(e.cat, gradedScore)
	// ten months out: tight but not critical
	rm := e.Roadmap(a, date(2026, 5, 31))

	if rm.Urgency != UrgencyTight {
		t.Fatalf("urgency = %q, want tight", rm.Urgency)
	}
	for _, ph := range rm.Phases {
		if !strings.HasPrefix(ph.Tasks.Management[0], "COMPRESS:") {
			t.Errorf("phase %d first task %q, want compression note", ph.Number, ph.Tasks.Management[0])
		}
	}
}

func TestRoadmapAdequateUrgencyUnmodified(t *testing.T) {
	e := testEngine(t)
	a := fixtureAssessment(e.cat, gradedScore)
	rm := e.Roadmap(a, adequateToday)

	for _, ph := range rm.Phases {
		first := ph.Tasks.Management[0]
		if strings.HasPrefix(first, "IMMEDIATE:") || strings.HasPrefix(first, "COMPRESS:") {
			t.Errorf("adequate timeline should not accelerate phase %d, got %q", ph.Number, first)
		}
	}
}

func TestRoadmapReadinessChecklist(t *testing.T) {
	e := testEngine(t)

	failing := fixtureAssessment(e.cat, gradedScore)
	rm := e.Roadmap(failing, adequateToday)
	checks := rm.Phases[4].Checklist
	if len(checks) != 6 {
		t.Fatalf("readiness checklist has %d checks, want 6", len(checks))
	}
	notReady := 0
	for _, c := range checks {
		if c.Status == CheckNotReady {
			notReady++
		}
	}
	if notReady == 0 {
		t.Error("failing assessment shows no not_ready checks")
	}

	passing := fixtureAssessment(e.cat, passingScore)
	for _, c := range e.Roadmap(passing, adequateToday).Phases[4].Checklist {
		if c.Status != CheckReady {
			t.Errorf("passing assessment check %q = %q", c.Item, c.Status)
		}
	}
}

func TestRoadmapITNeedSwitchesBuildTasks(t *testing.T) {
	e := testEngine(t)
	a := fixtureAssessment(e.cat, unscored)
	for i := range a.Responses {
		a.Responses[i].Score = intPtr(4)
		if a.Responses[i].CriterionID == "MET-01" {
			a.Responses[i].Score = intPtr(1)
		}
	}
	rm := e.Roadmap(a, adequateToday)

	joined := strings.Join(rm.Phases[1].Tasks.Technical, " ")
	if !strings.Contains(joined, "GHG calculation software") {
		t.Error("metrics gap below 2 should steer phase 2 toward tooling evaluation")
	}
	critical := false
	for _, task := range rm.Phases[2].Tasks.Technical {
		if strings.HasPrefix(task, "CRITICAL: build process for MET-01") {
			critical = true
		}
	}
	if !critical {
		t.Error("in-scope metrics gap below 2 missing from build phase")
	}
}

func TestRoadmapSummaryMentionsOverdueDeadline(t *testing.T) {
	e := testEngine(t)
	a := fixtureAssessment(e.cat, gradedScore)
	rm := e.Roadmap(a, date(2027, 10, 15))

	if rm.MonthsRemaining >= 0 {
		t.Fatalf("months remaining = %d, want negative", rm.MonthsRemaining)
	}
	found := false
	for _, line := range rm.Summary {
		if strings.Contains(line, "deadline has passed") {
			found = true
		}
	}
	if !found {
		t.Error("overdue roadmap summary does not mention the passed deadline")
	}
}
