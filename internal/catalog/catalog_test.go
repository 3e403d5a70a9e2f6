package catalog

import "testing"

func TestLoad(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := len(c.Criteria()); got != 34 {
		t.Fatalf("criteria count = %d, want 34", got)
	}
	if got := len(c.Controls()); got != 16 {
		t.Fatalf("control count = %d, want 16", got)
	}
	if got := len(c.MaturityLevels()); got != 6 {
		t.Fatalf("maturity levels = %d, want 6", got)
	}
}

func TestPillarOrder(t *testing.T) {
	c := MustLoad()
	groups := c.ByPillar()
	want := []string{PillarGovernance, PillarStrategy, PillarRisk, PillarMetrics}
	if len(groups) != len(want) {
		t.Fatalf("pillar groups = %d, want %d", len(groups), len(want))
	}
	for i, g := range groups {
		if g.Pillar != want[i] {
			t.Errorf("pillar[%d] = %q, want %q", i, g.Pillar, want[i])
		}
	}
	counts := map[string]int{}
	for _, g := range groups {
		counts[g.Pillar] = len(g.Criteria)
	}
	if counts[PillarGovernance] != 6 || counts[PillarStrategy] != 9 ||
		counts[PillarRisk] != 6 || counts[PillarMetrics] != 13 {
		t.Fatalf("pillar sizes = %v, want GOV 6 / STR 9 / RSK 6 / MET 13", counts)
	}
}

func TestStandardSplit(t *testing.T) {
	c := MustLoad()
	general := c.ByStandard(StandardGeneral)
	climate := c.ByStandard(StandardClimate)
	if len(general)+len(climate) != len(c.Criteria()) {
		t.Fatalf("standards do not partition catalog: %d + %d != %d",
			len(general), len(climate), len(c.Criteria()))
	}
	if len(climate) != 14 {
		t.Fatalf("climate criteria = %d, want 14", len(climate))
	}
}

func TestInScopeSet(t *testing.T) {
	c := MustLoad()
	want := map[string]bool{
		"GOV-01": true, "GOV-02": true, "GOV-04": true, "GOV-05": true,
		"RSK-01": true, "RSK-02": true, "RSK-03": true, "RSK-04": true, "RSK-05": true,
		"MET-01": true, "MET-02": true, "MET-07": true,
	}
	got := c.InScopeCriteria()
	if len(got) != len(want) {
		t.Fatalf("in-scope count = %d, want %d", len(got), len(want))
	}
	for _, cr := range got {
		if !want[cr.ID] {
			t.Errorf("unexpected in-scope criterion %s", cr.ID)
		}
	}
}

func TestFullDeferralIsExclusive(t *testing.T) {
	c := MustLoad()
	var ids []string
	for _, cr := range c.Criteria() {
		if cr.AllowsFullDeferral {
			ids = append(ids, cr.ID)
		}
	}
	if len(ids) != 1 || ids[0] != "MET-03" {
		t.Fatalf("full-deferral criteria = %v, want [MET-03]", ids)
	}
}

func TestByID(t *testing.T) {
	c := MustLoad()
	cr := c.ByID("RSK-05")
	if cr == nil {
		t.Fatal("ByID(RSK-05) = nil")
	}
	if cr.Pillar != PillarRisk || !cr.InScope() || cr.Obligation != ObligationMandatory {
		t.Fatalf("RSK-05 attributes wrong: %+v", cr)
	}
	if c.ByID("XXX-99") != nil {
		t.Fatal("ByID(XXX-99) should be nil")
	}
}

func TestMaturityLabel(t *testing.T) {
	c := MustLoad()
	if got := c.MaturityLabel(3); got != "Defined" {
		t.Fatalf("MaturityLabel(3) = %q", got)
	}
	if got := c.MaturityLabel(9); got != "" {
		t.Fatalf("MaturityLabel(9) = %q, want empty", got)
	}
}
