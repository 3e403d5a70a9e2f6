// Package catalog holds the static criteria catalog the whole service derives
// from: the disclosure criteria, the limited-assurance control set, and the
// maturity scale. The data lives in an embedded YAML file and is parsed once
// at startup; a loaded Catalog is immutable and safe for concurrent use.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var rawCatalog []byte

const (
	PillarGovernance = "Governance"
	PillarStrategy   = "Strategy"
	PillarRisk       = "Risk Management"
	PillarMetrics    = "Metrics & Targets"
)

const (
	StandardGeneral = "general"
	StandardClimate = "climate"
)

const (
	ObligationMandatory    = "mandatory"
	ObligationRecommended  = "recommended"
	ObligationInterpretive = "interpretive"
)

const (
	ScopeInScope    = "in_scope"
	ScopeSupporting = "supporting"
	ScopeNotInitial = "not_in_initial_scope"
)

const (
	PriorityEssential  = "essential"
	PriorityImportant  = "important"
	PriorityNiceToHave = "nice_to_have"
)

// MinScore and MaxScore bound the maturity scale.
const (
	MinScore = 0
	MaxScore = 5
)

type Criterion struct {
	ID                 string `yaml:"id" json:"id"`
	Pillar             string `yaml:"pillar" json:"pillar"`
	Category           string `yaml:"category" json:"category"`
	Standard           string `yaml:"standard" json:"standard"`
	Obligation         string `yaml:"obligation" json:"obligation"`
	AssuranceScope     string `yaml:"assurance_scope" json:"assurance_scope"`
	Priority           string `yaml:"priority" json:"priority"`
	AllowsFullDeferral bool   `yaml:"allows_full_deferral" json:"allows_full_deferral"`
	Requirement        string `yaml:"requirement" json:"requirement"`
	Guidance           string `yaml:"guidance" json:"guidance"`
	AssuranceFocus     string `yaml:"assurance_focus" json:"assurance_focus"`
	MinimumAction      string `yaml:"minimum_action" json:"minimum_action"`
}

// InScope reports whether the criterion falls inside the initial
// limited-assurance scope.
func (c Criterion) InScope() bool { return c.AssuranceScope == ScopeInScope }

// AssuranceControl is one control from the limited-assurance readiness set.
type AssuranceControl struct {
	ID          string `yaml:"id" json:"id"`
	Category    string `yaml:"category" json:"category"`
	Requirement string `yaml:"requirement" json:"requirement"`
	Guidance    string `yaml:"guidance" json:"guidance"`
}

type MaturityLevel struct {
	Level       int    `yaml:"level" json:"level"`
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description" json:"description"`
}

// PillarGroup carries the criteria of one pillar in catalog order.
type PillarGroup struct {
	Pillar   string
	Criteria []Criterion
}

type catalogFile struct {
	MaturityLevels    []MaturityLevel    `yaml:"maturity_levels"`
	Criteria          []Criterion        `yaml:"criteria"`
	AssuranceControls []AssuranceControl `yaml:"assurance_controls"`
}

type Catalog struct {
	criteria    []Criterion
	controls    []AssuranceControl
	maturity    []MaturityLevel
	byID        map[string]int
	controlByID map[string]int
	pillars     []PillarGroup
}

// Load parses the embedded catalog data. It validates referential integrity
// so the derivation engines can index by id without further checks.
func Load() (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(rawCatalog, &f); err != nil {
		return nil, fmt.Errorf("catalog: parse embedded data: %w", err)
	}
	if len(f.Criteria) == 0 {
		return nil, fmt.Errorf("catalog: no criteria defined")
	}
	if len(f.MaturityLevels) != MaxScore-MinScore+1 {
		return nil, fmt.Errorf("catalog: expected %d maturity levels, got %d", MaxScore-MinScore+1, len(f.MaturityLevels))
	}

	c := &Catalog{
		criteria:    f.Criteria,
		controls:    f.AssuranceControls,
		maturity:    f.MaturityLevels,
		byID:        make(map[string]int, len(f.Criteria)),
		controlByID: make(map[string]int, len(f.AssuranceControls)),
	}
	for i, cr := range f.Criteria {
		if _, dup := c.byID[cr.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate criterion id %s", cr.ID)
		}
		switch cr.Pillar {
		case PillarGovernance, PillarStrategy, PillarRisk, PillarMetrics:
		default:
			return nil, fmt.Errorf("catalog: criterion %s has unknown pillar %q", cr.ID, cr.Pillar)
		}
		switch cr.Standard {
		case StandardGeneral, StandardClimate:
		default:
			return nil, fmt.Errorf("catalog: criterion %s has unknown standard %q", cr.ID, cr.Standard)
		}
		c.byID[cr.ID] = i
	}
	for i, ctl := range f.AssuranceControls {
		if _, dup := c.controlByID[ctl.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate control id %s", ctl.ID)
		}
		c.controlByID[ctl.ID] = i
	}

	c.pillars = groupByPillar(f.Criteria)
	return c, nil
}

// MustLoad is Load for wiring paths where a broken embedded catalog is fatal.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

func groupByPillar(criteria []Criterion) []PillarGroup {
	var groups []PillarGroup
	idx := map[string]int{}
	for _, cr := range criteria {
		i, ok := idx[cr.Pillar]
		if !ok {
			i = len(groups)
			idx[cr.Pillar] = i
			groups = append(groups, PillarGroup{Pillar: cr.Pillar})
		}
		groups[i].Criteria = append(groups[i].Criteria, cr)
	}
	return groups
}

// Criteria returns all criteria in catalog order. Callers must not mutate
// the returned slice.
func (c *Catalog) Criteria() []Criterion { return c.criteria }

// ByID returns the criterion with the given id, or nil if unknown.
func (c *Catalog) ByID(id string) *Criterion {
	i, ok := c.byID[id]
	if !ok {
		return nil
	}
	return &c.criteria[i]
}

// ByPillar returns criteria grouped by pillar, both groups and members in
// catalog order.
func (c *Catalog) ByPillar() []PillarGroup { return c.pillars }

// ByStandard returns the criteria belonging to the given standard in
// catalog order.
func (c *Catalog) ByStandard(standard string) []Criterion {
	var out []Criterion
	for _, cr := range c.criteria {
		if cr.Standard == standard {
			out = append(out, cr)
		}
	}
	return out
}

// InScopeCriteria returns the criteria inside the initial limited-assurance
// scope in catalog order.
func (c *Catalog) InScopeCriteria() []Criterion {
	var out []Criterion
	for _, cr := range c.criteria {
		if cr.InScope() {
			out = append(out, cr)
		}
	}
	return out
}

// Controls returns the limited-assurance control set in catalog order.
func (c *Catalog) Controls() []AssuranceControl { return c.controls }

// ControlByID returns the control with the given id, or nil if unknown.
func (c *Catalog) ControlByID(id string) *AssuranceControl {
	i, ok := c.controlByID[id]
	if !ok {
		return nil
	}
	return &c.controls[i]
}

// MaturityLevels returns the maturity scale ordered from level 0 upward.
func (c *Catalog) MaturityLevels() []MaturityLevel { return c.maturity }

// MaturityLabel returns the label for a score, or the empty string when the
// score is outside the scale.
func (c *Catalog) MaturityLabel(score int) string {
	for _, m := range c.maturity {
		if m.Level == score {
			return m.Label
		}
	}
	return ""
}
