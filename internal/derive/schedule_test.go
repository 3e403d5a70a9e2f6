package derive

import "testing"

func TestUrgencyLadder(t *testing.T) {
	tests := []struct {
		months int
		want   string
	}{
		{-4, UrgencyCritical},
		{0, UrgencyCritical},
		{6, UrgencyCritical},
		{7, UrgencyTight},
		{12, UrgencyTight},
		{13, UrgencyAdequate},
		{24, UrgencyAdequate},
		{25, UrgencyComfortable},
		{40, UrgencyComfortable},
	}
	for _, tc := range tests {
		if got := Urgency(tc.months); got != tc.want {
			t.Errorf("Urgency(%d) = %q, want %q", tc.months, got, tc.want)
		}
	}
}

func TestPhaseWindowsFixedTemplate(t *testing.T) {
	want := [][2]int{{0, 3}, {3, 6}, {6, 12}, {12, 18}, {15, 21}, {18, 24}, {30, 42}}
	phases := phaseWindows(30)
	if len(phases) != 7 {
		t.Fatalf("got %d phases, want 7", len(phases))
	}
	for i, w := range want {
		if phases[i].StartMonth != w[0] || phases[i].EndMonth != w[1] {
			t.Errorf("phase %d = (%d,%d), want (%d,%d)",
				i+1, phases[i].StartMonth, phases[i].EndMonth, w[0], w[1])
		}
	}
}

func TestPhaseWindowsScaledTemplate(t *testing.T) {
	phases := phaseWindows(18)
	if phases[0].EndMonth != 2 {
		t.Errorf("scaled phase 1 ends at %d, want 2", phases[0].EndMonth)
	}
	if phases[5].EndMonth != 18 {
		t.Errorf("scaled phase 6 ends at %d, want 18", phases[5].EndMonth)
	}
	if phases[6].StartMonth != 18 || phases[6].EndMonth != 30 {
		t.Errorf("assurance phase = (%d,%d), want (18,30)", phases[6].StartMonth, phases[6].EndMonth)
	}
}

func TestPhaseWindowsCompressedTemplate(t *testing.T) {
	phases := phaseWindows(12)
	want := [][2]int{{0, 2}, {0, 4}, {2, 6}, {4, 8}, {6, 10}, {8, 12}, {12, 24}}
	for i, w := range want {
		if phases[i].StartMonth != w[0] || phases[i].EndMonth != w[1] {
			t.Errorf("phase %d = (%d,%d), want (%d,%d)",
				i+1, phases[i].StartMonth, phases[i].EndMonth, w[0], w[1])
		}
	}
}

func TestPhaseWindowsParallelTemplate(t *testing.T) {
	phases := phaseWindows(5)
	if phases[0].EndMonth != 2 || phases[1].EndMonth != 2 || phases[1].StartMonth != 0 {
		t.Errorf("first two phases = %+v %+v, want parallel 0-2", phases[0], phases[1])
	}
	for _, p := range phases[:6] {
		if p.EndMonth > 5 {
			t.Errorf("phase %d ends at %d, beyond the horizon", p.Phase, p.EndMonth)
		}
		if p.StartMonth > p.EndMonth {
			t.Errorf("phase %d starts after it ends: (%d,%d)", p.Phase, p.StartMonth, p.EndMonth)
		}
	}
}

func TestPhaseWindowsFloorsPassedDeadline(t *testing.T) {
	phases := phaseWindows(-7)
	for _, p := range phases[:6] {
		if p.EndMonth > 3 {
			t.Errorf("recovery phase %d ends at %d, want within the 3-month floor", p.Phase, p.EndMonth)
		}
	}
	if phases[6].StartMonth != 3 || phases[6].EndMonth != 15 {
		t.Errorf("assurance phase = (%d,%d), want (3,15)", phases[6].StartMonth, phases[6].EndMonth)
	}
}

func TestTimelineForDefaultsFYEndMonth(t *testing.T) {
	e := testEngine(t)
	a := fixtureAssessment(e.cat, gradedScore)
	a.FYEndMonth = 0

	tl := e.TimelineFor(a, adequateToday)
	if tl.ComplianceDate.Month() != 3 {
		t.Errorf("invalid fiscal month should fall back to March, got %s", tl.ComplianceDate.Month())
	}
	if tl.AssuranceDate.Year() != tl.ComplianceDate.Year()+1 {
		t.Errorf("assurance date %v is not one year after compliance %v", tl.AssuranceDate, tl.ComplianceDate)
	}
}

func TestTimelineForDecemberFYEnd(t *testing.T) {
	e := testEngine(t)
	a := fixtureAssessment(e.cat, gradedScore)
	a.FYEndMonth = 12

	tl := e.TimelineFor(a, date(2026, 1, 15))
	if tl.ComplianceDate != date(2027, 12, 31) {
		t.Errorf("compliance date = %s, want 2027-12-31", tl.ComplianceDate.Format("2006-01-02"))
	}
	if tl.MonthsRemaining != 23 {
		t.Errorf("months remaining = %d, want 23", tl.MonthsRemaining)
	}
}
