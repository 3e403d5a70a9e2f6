package derive

import (
	"github.com/kkurosawa/ssbj-readiness-backend/internal/types"
)

type Department struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// departments lists the standard departments of a Japanese listed company
// in matrix column order.
var departments = []Department{
	{"board", "Board / Sustainability Committee"},
	{"esg", "Sustainability / ESG Office"},
	{"finance", "Finance / Accounting"},
	{"legal", "Legal / Compliance"},
	{"risk", "Risk Management"},
	{"ops", "Operations / Manufacturing"},
	{"hr", "HR / General Affairs"},
	{"ir", "IR / Communications"},
	{"it", "IT / Systems"},
	{"procurement", "Procurement / Supply Chain"},
}

// raciMap assigns departments to criteria. Absence of a department means
// not involved. R=Responsible, A=Accountable, C=Consulted, I=Informed.
var raciMap = map[string]map[string]string{
	"GOV-01": {"board": "A", "esg": "R", "legal": "C", "ir": "I"},
	"GOV-02": {"board": "A", "esg": "R", "legal": "R", "ir": "I"},
	"GOV-03": {"board": "A", "hr": "R", "esg": "C", "legal": "I"},
	"GOV-04": {"board": "I", "esg": "A", "finance": "C", "risk": "C", "ops": "C"},
	"GOV-05": {"board": "A", "esg": "R", "finance": "C", "risk": "C", "ops": "I"},
	"GOV-06": {"board": "A", "esg": "R", "ir": "I"},

	"STR-01": {"board": "I", "esg": "A", "risk": "R", "ops": "C", "procurement": "C"},
	"STR-02": {"board": "I", "esg": "A", "ops": "R", "procurement": "R", "finance": "C"},
	"STR-03": {"board": "I", "esg": "C", "finance": "R", "ir": "C"},
	"STR-04": {"board": "I", "esg": "R", "risk": "R", "finance": "C", "ops": "C"},
	"STR-05": {"board": "A", "esg": "R", "ops": "C", "finance": "C", "procurement": "C"},
	"STR-06": {"board": "I", "esg": "R", "risk": "C", "finance": "C"},
	"STR-07": {"board": "I", "esg": "C", "finance": "R", "ir": "C"},
	"STR-08": {"esg": "R", "risk": "C", "finance": "C"},
	"STR-09": {"board": "I", "esg": "R", "finance": "C"},

	"RSK-01": {"board": "I", "risk": "R", "esg": "A", "ops": "C", "legal": "C"},
	"RSK-02": {"board": "I", "risk": "R", "esg": "A", "ops": "C"},
	"RSK-03": {"board": "I", "risk": "A", "esg": "R", "legal": "C"},
	"RSK-04": {"board": "I", "risk": "R", "esg": "A", "ops": "C", "finance": "C"},
	"RSK-05": {"board": "I", "esg": "A", "finance": "R", "it": "R", "ops": "C"},
	"RSK-06": {"board": "I", "risk": "R", "esg": "C", "ops": "I"},

	"MET-01": {"board": "I", "esg": "A", "ops": "R", "finance": "C", "it": "C"},
	"MET-02": {"board": "I", "esg": "A", "ops": "R", "finance": "C", "procurement": "C"},
	"MET-03": {"board": "I", "esg": "A", "procurement": "R", "ops": "R", "finance": "C"},
	"MET-04": {"board": "A", "esg": "R", "ops": "C", "finance": "C"},
	"MET-05": {"board": "I", "esg": "R", "ops": "C", "ir": "C"},
	"MET-06": {"board": "I", "esg": "R", "finance": "R", "ops": "C"},
	"MET-07": {"board": "I", "esg": "A", "finance": "R", "it": "R", "ops": "C"},
	"MET-08": {"board": "I", "esg": "R", "finance": "C", "ops": "C"},
	"MET-09": {"board": "A", "hr": "R", "esg": "C", "legal": "C"},
	"MET-10": {"board": "I", "finance": "R", "esg": "C"},
	"MET-11": {"board": "I", "finance": "R", "esg": "C", "ops": "C"},
	"MET-12": {"board": "I", "esg": "R", "finance": "C", "ir": "C"},
	"MET-13": {"board": "I", "esg": "R", "procurement": "C", "finance": "C"},
}

type RACIRow struct {
	CriterionID string            `json:"criterion_id"`
	Pillar      string            `json:"pillar"`
	Category    string            `json:"category"`
	Obligation  string            `json:"obligation"`
	Score       *int              `json:"score"`
	Roles       map[string]string `json:"roles"`
}

type DeptWorkload struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Responsible int    `json:"responsible"`
	Accountable int    `json:"accountable"`
	Consulted   int    `json:"consulted"`
	Informed    int    `json:"informed"`
}

func (w DeptWorkload) Total() int {
	return w.Responsible + w.Accountable + w.Consulted + w.Informed
}

type PriorityAction struct {
	CriterionID string   `json:"criterion_id"`
	Category    string   `json:"category"`
	Obligation  string   `json:"obligation"`
	Score       *int     `json:"score"`
	Gap         int      `json:"gap"`
	Responsible []string `json:"responsible"`
	Accountable []string `json:"accountable"`
}

type RACIReport struct {
	Departments     []Department     `json:"departments"`
	Rows            []RACIRow        `json:"rows"`
	Workload        []DeptWorkload   `json:"workload"`
	PriorityActions []PriorityAction `json:"priority_actions"`
}

// RACI builds the responsibility matrix, the per-department workload tally,
// and the priority-action list for assurance-scope criteria that are
// unscored or below the passing threshold.
func (e *Engine) RACI(a *types.Assessment) RACIReport {
	scores := e.scoreIndex(a)

	workload := make([]DeptWorkload, len(departments))
	deptIdx := make(map[string]int, len(departments))
	for i, d := range departments {
		workload[i] = DeptWorkload{Code: d.Code, Name: d.Name}
		deptIdx[d.Code] = i
	}

	rep := RACIReport{Departments: departments}
	for _, cr := range e.cat.Criteria() {
		assigned := raciMap[cr.ID]
		roles := make(map[string]string, len(assigned))
		for code, role := range assigned {
			i, ok := deptIdx[code]
			if !ok {
				continue
			}
			roles[code] = role
			switch role {
			case "R":
				workload[i].Responsible++
			case "A":
				workload[i].Accountable++
			case "C":
				workload[i].Consulted++
			case "I":
				workload[i].Informed++
			}
		}

		score, hasResp := scores[cr.ID]
		rep.Rows = append(rep.Rows, RACIRow{
			CriterionID: cr.ID,
			Pillar:      cr.Pillar,
			Category:    cr.Category,
			Obligation:  cr.Obligation,
			Score:       score,
			Roles:       roles,
		})

		if cr.InScope() && (!hasResp || score == nil || *score < gapThreshold) {
			var responsible, accountable []string
			for _, d := range departments {
				switch assigned[d.Code] {
				case "R":
					responsible = append(responsible, d.Name)
				case "A":
					accountable = append(accountable, d.Name)
				}
			}
			rep.PriorityActions = append(rep.PriorityActions, PriorityAction{
				CriterionID: cr.ID,
				Category:    cr.Category,
				Obligation:  cr.Obligation,
				Score:       score,
				Gap:         gapThreshold - scoreOrZero(score),
				Responsible: responsible,
				Accountable: accountable,
			})
		}
	}
	rep.Workload = workload
	return rep
}
