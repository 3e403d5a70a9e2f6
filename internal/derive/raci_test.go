package derive

import "testing"

func TestRACICoversEveryCriterion(t *testing.T) {
	e := testEngine(t)
	for _, cr := range e.cat.Criteria() {
		roles, ok := raciMap[cr.ID]
		if !ok || len(roles) == 0 {
			t.Errorf("criterion %s has no department assignments", cr.ID)
			continue
		}
		accountable := 0
		for code, role := range roles {
			found := false
			for _, d := range departments {
				if d.Code == code {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("criterion %s assigns unknown department %q", cr.ID, code)
			}
			switch role {
			case "R", "A", "C", "I":
			default:
				t.Errorf("criterion %s has invalid role %q for %s", cr.ID, role, code)
			}
			if role == "A" {
				accountable++
			}
		}
		if accountable > 1 {
			t.Errorf("criterion %s has %d accountable departments, want at most one", cr.ID, accountable)
		}
	}
}

// Every assignment in the matrix must land in exactly one workload cell.
func TestRACIWorkloadConservation(t *testing.T) {
	e := testEngine(t)
	a := fixtureAssessment(e.cat, gradedScore)
	rep := e.RACI(a)

	assignments := 0
	for _, cr := range e.cat.Criteria() {
		assignments += len(raciMap[cr.ID])
	}
	tallied := 0
	for _, w := range rep.Workload {
		tallied += w.Total()
	}
	if tallied != assignments {
		t.Errorf("workload tallies %d assignments, matrix has %d", tallied, assignments)
	}
	if len(rep.Rows) != len(e.cat.Criteria()) {
		t.Errorf("matrix has %d rows, want %d", len(rep.Rows), len(e.cat.Criteria()))
	}
}

func TestRACIPriorityActions(t *testing.T) {
	e := testEngine(t)
	a := fixtureAssessment(e.cat, unscored)
	a.Responses[0].Score = intPtr(1) // GOV-01

	rep := e.RACI(a)
	if len(rep.PriorityActions) != len(e.cat.InScopeCriteria()) {
		t.Fatalf("priority actions = %d, want every in-scope criterion (%d)",
			len(rep.PriorityActions), len(e.cat.InScopeCriteria()))
	}
	for _, pa := range rep.PriorityActions {
		switch pa.CriterionID {
		case "GOV-01":
			if pa.Gap != 2 {
				t.Errorf("GOV-01 gap = %d, want 2", pa.Gap)
			}
		default:
			if pa.Gap != 3 {
				t.Errorf("%s unscored gap = %d, want 3", pa.CriterionID, pa.Gap)
			}
		}
		if len(pa.Accountable) == 0 && len(pa.Responsible) == 0 {
			t.Errorf("%s priority action has no owner", pa.CriterionID)
		}
	}
}

func TestRACIPassingScoresProduceNoActions(t *testing.T) {
	e := testEngine(t)
	a := fixtureAssessment(e.cat, passingScore)
	if rep := e.RACI(a); len(rep.PriorityActions) != 0 {
		t.Errorf("passing assessment produced %d priority actions", len(rep.PriorityActions))
	}
}
