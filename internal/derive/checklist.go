package derive

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kkurosawa/ssbj-readiness-backend/internal/types"
)

const (
	EvidenceNotStarted   = "not_started"
	EvidenceInProgress   = "in_progress"
	EvidenceLikelyExists = "likely_exists"
)

type EvidenceDoc struct {
	Document string `json:"document"`
	Format   string `json:"format"`
}

// evidenceMap lists the documents an auditor will expect per criterion.
var evidenceMap = map[string][]EvidenceDoc{
	"GOV-01": {
		{"Board/committee charter (terms of reference) with sustainability mandate", "PDF/Word"},
		{"Board meeting minutes showing sustainability agenda items", "PDF"},
		{"Committee membership list with appointment dates", "PDF/Excel"},
	},
	"GOV-02": {
		{"Corporate governance policy with explicit sustainability language", "PDF/Word"},
		{"Board approval minutes for the policy", "PDF"},
		{"Policy review and update log", "Excel"},
	},
	"GOV-03": {
		{"Board skills matrix with ESG/sustainability competencies", "Excel"},
		{"Training records for sustainability-related sessions", "PDF"},
	},
	"GOV-04": {
		{"Management role descriptions (data owner, reviewer, approver)", "PDF/Word"},
		{"Organizational chart showing sustainability reporting lines", "PDF"},
		{"Sign-off authorization matrix for sustainability data", "Excel"},
	},
	"GOV-05": {
		{"Investment approval template showing climate criteria", "PDF/Word"},
		{"Meeting minutes where climate was discussed in a business decision", "PDF"},
	},
	"GOV-06": {
		{"Board resolution on climate target-setting / approval of targets", "PDF"},
		{"Target oversight framework document", "PDF/Word"},
	},
	"STR-01": {
		{"Time horizon definitions (short/medium/long-term)", "Word/PDF"},
		{"Climate/sustainability risk register", "Excel"},
		{"Value chain assessment boundary document", "Word/PDF"},
		{"Hotspot identification analysis", "Excel/PDF"},
	},
	"STR-02": {
		{"Value chain map (upstream to downstream)", "Diagram/PDF"},
		{"Assessment boundary disclosure (included/excluded and why)", "Word/PDF"},
		{"Business model impact assessment", "Word/PDF"},
	},
	"STR-03": {
		{"Financial effects analysis (position, performance, cash flows)", "Word/PDF"},
		{"Quantification methodology (or explanation of why qualitative)", "Word/PDF"},
	},
	"STR-04": {
		{"Scenario selection rationale and source citations", "Word/PDF"},
		{"Assumptions and parameters per scenario", "Excel/Word"},
		{"Strategy feedback narrative (how analysis informed strategy)", "Word/PDF"},
		{"Resilience assessment conclusion", "Word/PDF"},
	},
	"STR-05": {
		{"Transition plan document (even if directional)", "Word/PDF"},
		{"Board approval of transition commitments", "PDF"},
	},
	"STR-06": {
		{"Resilience assessment covering adaptability and key dependencies", "Word/PDF"},
	},
	"STR-07": {
		{"Mapping table: sustainability disclosures to financial statement line items", "Excel"},
	},
	"STR-08": {
		{"Published time horizon definitions aligned with planning cycles", "Word/PDF"},
	},
	"STR-09": {
		{"Record of decisions influenced by sustainability factors", "Word/PDF"},
		{"Year-over-year disclosure change log", "Excel"},
	},
	"RSK-01": {
		{"Risk identification methodology document", "Word/PDF"},
		{"Climate risk register (physical + transition)", "Excel"},
	},
	"RSK-02": {
		{"Risk assessment criteria and scoring methodology", "Word/PDF"},
		{"Risk assessment results with prioritization", "Excel"},
	},
	"RSK-03": {
		{"ERM framework showing sustainability risk integration", "Word/PDF"},
		{"Cross-reference: sustainability risk register to enterprise risk register", "Excel"},
	},
	"RSK-04": {
		{"Climate risk assessment report with physical and transition categories", "Word/PDF"},
		{"Risk response strategies per identified climate risk", "Word/PDF"},
	},
	"RSK-05": {
		{"Internal controls framework document (data governance)", "Word/PDF"},
		{"Data collection procedures (step-by-step)", "Word/PDF"},
		{"Maker-checker review log (who reviewed, when, sign-off)", "Excel"},
		{"Data reconciliation checklist", "Excel"},
		{"Audit trail (data change log)", "Excel/System"},
	},
	"RSK-06": {
		{"KRI definitions with thresholds and escalation path", "Word/PDF"},
		{"Monitoring and escalation records", "Excel"},
	},
	"MET-01": {
		{"Scope 1 emission source inventory (all facilities)", "Excel"},
		{"Calculation methodology document (emission factors, sources)", "Word/PDF"},
		{"Activity data (fuel invoices, meter readings)", "Original + Excel"},
		{"Calculation spreadsheet with review sign-off", "Excel"},
		{"Emission factor sources and version documentation", "PDF/Excel"},
	},
	"MET-02": {
		{"Scope 2 facility electricity consumption data", "Excel + invoices"},
		{"Grid emission factors with area-specific sources", "Excel"},
		{"Location-based calculation spreadsheet", "Excel"},
		{"Market-based calculation (if green energy purchased)", "Excel"},
	},
	"MET-03": {
		{"Scope 3 category materiality assessment (all 15 categories)", "Excel"},
		{"Supplier engagement plan and correspondence", "Word/PDF"},
		{"Data collection plan per category", "Excel"},
	},
	"MET-04": {
		{"Climate targets with base year, target year, methodology", "Word/PDF"},
		{"Board approval of targets", "PDF"},
	},
	"MET-05": {
		{"Industry-specific metrics disclosure (if applicable)", "Word/PDF"},
	},
	"MET-06": {
		{"KPI definitions and measurement methodology for material topics", "Word/PDF"},
	},
	"MET-07": {
		{"Data governance policy", "Word/PDF"},
		{"Data flow diagram (source to disclosure)", "Diagram/PDF"},
		{"Validation rules and procedures", "Word/PDF"},
		{"Error log and correction records", "Excel"},
		{"Completeness check records", "Excel"},
	},
	"MET-08": {
		{"GHG intensity calculation and denominator selection rationale", "Excel"},
	},
	"MET-09": {
		{"Remuneration policy referencing climate/sustainability metrics", "PDF"},
		{"Board resolution on climate-linked remuneration", "PDF"},
	},
	"MET-10": {
		{"Internal carbon price documentation and application examples", "Word/PDF"},
	},
	"MET-11": {
		{"Climate-related capital expenditure tagging or size disclosure", "Excel/PDF"},
	},
	"MET-12": {
		{"Target progress figures reconciled to underlying metrics", "Excel"},
		{"Explanations for any target revisions", "Word/PDF"},
	},
	"MET-13": {
		{"Carbon credit scheme, purchase, and retirement records (if used)", "PDF/Excel"},
	},
}

type effortInfo struct {
	days     string
	skills   []string
	external bool
}

var effortMap = map[string]effortInfo{
	"GOV-01": {"3-5", []string{"Board secretary", "ESG lead"}, false},
	"GOV-02": {"3-5", []string{"ESG lead", "Legal"}, false},
	"GOV-03": {"2-3", []string{"HR", "ESG lead"}, false},
	"GOV-04": {"3-5", []string{"ESG lead", "HR"}, false},
	"GOV-05": {"3-5", []string{"Board secretary", "Strategy"}, false},
	"GOV-06": {"2-3", []string{"Board secretary", "ESG lead"}, false},
	"STR-01": {"10-20", []string{"Risk management", "ESG lead", "Operations"}, true},
	"STR-02": {"10-20", []string{"ESG lead", "Operations", "Procurement"}, true},
	"STR-03": {"10-15", []string{"Finance", "ESG lead"}, true},
	"STR-04": {"15-25", []string{"ESG lead", "Risk management", "External consultant"}, true},
	"STR-05": {"10-15", []string{"ESG lead", "Strategy", "Operations"}, true},
	"STR-06": {"5-10", []string{"ESG lead", "Risk management"}, false},
	"STR-07": {"5-10", []string{"Finance", "ESG lead", "IR"}, false},
	"STR-08": {"2-3", []string{"ESG lead", "Strategy"}, false},
	"STR-09": {"3-5", []string{"ESG lead", "IR"}, false},
	"RSK-01": {"5-10", []string{"Risk management", "ESG lead"}, false},
	"RSK-02": {"5-10", []string{"Risk management", "ESG lead"}, false},
	"RSK-03": {"5-10", []string{"Risk management", "ESG lead", "Operations"}, false},
	"RSK-04": {"5-10", []string{"Risk management", "ESG lead"}, false},
	"RSK-05": {"15-30", []string{"Finance/Accounting", "IT", "ESG lead"}, true},
	"RSK-06": {"3-5", []string{"Risk management", "ESG lead"}, false},
	"MET-01": {"15-25", []string{"Operations", "ESG lead", "External verifier"}, true},
	"MET-02": {"10-15", []string{"Operations", "ESG lead", "Facilities"}, true},
	"MET-03": {"20-40", []string{"Procurement", "ESG lead", "External consultant"}, true},
	"MET-04": {"5-10", []string{"ESG lead", "Board secretary"}, false},
	"MET-05": {"3-5", []string{"ESG lead", "IR"}, false},
	"MET-06": {"5-10", []string{"Finance", "ESG lead"}, false},
	"MET-07": {"15-25", []string{"Finance/Accounting", "IT", "ESG lead"}, true},
	"MET-08": {"3-5", []string{"ESG lead", "Finance"}, false},
	"MET-09": {"5-10", []string{"HR", "Board secretary", "Legal"}, false},
	"MET-10": {"2-3", []string{"Finance", "ESG lead"}, false},
	"MET-11": {"3-5", []string{"Finance", "ESG lead"}, false},
	"MET-12": {"3-5", []string{"ESG lead", "Finance"}, false},
	"MET-13": {"2-3", []string{"ESG lead", "Procurement"}, false},
}

type EvidenceItem struct {
	Document string `json:"document"`
	Format   string `json:"format"`
	Status   string `json:"status"`
}

type ChecklistTask struct {
	CriterionID      string         `json:"criterion_id"`
	Pillar           string         `json:"pillar"`
	Category         string         `json:"category"`
	Standard         string         `json:"standard"`
	Obligation       string         `json:"obligation"`
	AssuranceScope   string         `json:"assurance_scope"`
	Score            *int           `json:"score"`
	TargetScore      int            `json:"target_score"`
	IsGap            bool           `json:"is_gap"`
	IsUnscored       bool           `json:"is_unscored"`
	Phase            int            `json:"phase"`
	Deliverable      string         `json:"deliverable"`
	Evidence         []EvidenceItem `json:"evidence"`
	Responsible      []string       `json:"responsible"`
	Accountable      []string       `json:"accountable"`
	EffortDays       string         `json:"effort_days"`
	SkillsNeeded     []string       `json:"skills_needed"`
	ExternalHelp     bool           `json:"external_help"`
	CanDefer         bool           `json:"can_defer"`
	CanSimplify      bool           `json:"can_simplify"`
	ReliefNote       string         `json:"relief_note,omitempty"`
	Year2Requirement string         `json:"year2_requirement,omitempty"`
}

type ChecklistPhase struct {
	Number      int             `json:"number"`
	Title       string          `json:"title"`
	Subtitle    string          `json:"subtitle"`
	Tasks       []ChecklistTask `json:"tasks"`
	TaskCount   int             `json:"task_count"`
	GapCount    int             `json:"gap_count"`
	EffortRange string          `json:"effort_range"`
}

type EvidenceEntry struct {
	CriterionID    string   `json:"criterion_id"`
	Pillar         string   `json:"pillar"`
	Category       string   `json:"category"`
	AssuranceScope string   `json:"assurance_scope"`
	Document       string   `json:"document"`
	Format         string   `json:"format"`
	Status         string   `json:"status"`
	Phase          int      `json:"phase"`
	Responsible    []string `json:"responsible"`
}

type BudgetItem struct {
	Category string `json:"category"`
	Estimate string `json:"estimate"`
	Note     string `json:"note"`
}

type GateReview struct {
	Gate     string `json:"gate"`
	Timing   string `json:"timing"`
	Criteria string `json:"criteria"`
	Owner    string `json:"owner"`
	Phase    int    `json:"phase"`
}

type Year2Item struct {
	CriterionID      string `json:"criterion_id"`
	Category         string `json:"category"`
	ReliefNote       string `json:"relief_note"`
	Year2Requirement string `json:"year2_requirement"`
	Year1Action      string `json:"year1_action"`
}

type ChecklistSummary struct {
	TotalCriteria        int    `json:"total_criteria"`
	TotalGaps            int    `json:"total_gaps"`
	LAGaps               int    `json:"la_gaps"`
	TotalEvidenceItems   int    `json:"total_evidence_items"`
	EvidenceNotStarted   int    `json:"evidence_not_started"`
	EvidenceInProgress   int    `json:"evidence_in_progress"`
	EvidenceLikelyExists int    `json:"evidence_likely_exists"`
	TotalEffortRange     string `json:"total_effort_range"`
	NeedsExternalHelp    bool   `json:"needs_external_help"`
	ExternalItemsCount   int    `json:"external_items_count"`
	Year2ExpansionCount  int    `json:"year2_expansion_count"`
	MonthsRemaining      int    `json:"months_remaining"`
	GateCount            int    `json:"gate_count"`
}

type ChecklistReport struct {
	Phases          []ChecklistPhase `json:"phases"`
	EvidenceTracker []EvidenceEntry  `json:"evidence_tracker"`
	Budget          []BudgetItem     `json:"budget"`
	GateReviews     []GateReview     `json:"gate_reviews"`
	Year2Prep       []Year2Item      `json:"year2_prep"`
	Summary         ChecklistSummary `json:"summary"`
}

// classifyPhase assigns a criterion's gap closure to one of the five
// execution phases. Assurance-scope gaps front-load when time is short.
func classifyPhase(score *int, inScope bool, monthsRemaining int) int {
	if score == nil {
		return 1
	}
	if inScope && *score < gapThreshold {
		if monthsRemaining <= 12 {
			return 1
		}
		return 2
	}
	switch *score {
	case 0:
		return 1
	case 1:
		if inScope {
			return 2
		}
		return 3
	case 2:
		if inScope {
			return 3
		}
		return 4
	default:
		return 5
	}
}

func effortBounds(days string) (int, int) {
	lo, hi, found := strings.Cut(days, "-")
	a, _ := strconv.Atoi(lo)
	if !found {
		return a, a
	}
	b, _ := strconv.Atoi(hi)
	return a, b
}

// Checklist builds the phase-by-phase execution plan with evidence
// tracking, effort and budget estimates, and gate reviews.
func (e *Engine) Checklist(a *types.Assessment, today time.Time) ChecklistReport {
	tl := e.TimelineFor(a, today)
	relief := e.Relief(a, today)
	scores := e.scoreIndex(a)

	evidenceText := make(map[string]string, len(a.Responses))
	for i := range a.Responses {
		evidenceText[a.Responses[i].CriterionID] = strings.ToLower(a.Responses[i].EvidenceText)
	}
	reliefByID := make(map[string]*ReliefItem, len(relief.Items))
	for i := range relief.Items {
		reliefByID[relief.Items[i].CriterionID] = &relief.Items[i]
	}

	var tasks []ChecklistTask
	totalEffortMin, totalEffortMax := 0, 0
	needsExternal := false
	externalItems := 0
	gapCount, laGapCount := 0, 0

	for _, cr := range e.cat.Criteria() {
		score := scores[cr.ID]
		isUnscored := score == nil
		isGap := score != nil && *score < gapThreshold
		if isGap {
			gapCount++
			if cr.InScope() {
				laGapCount++
			}
		}

		var items []EvidenceItem
		for _, ev := range evidenceMap[cr.ID] {
			mentioned := docMentioned(evidenceText[cr.ID], ev.Document)
			status := EvidenceNotStarted
			if mentioned && score != nil && *score >= gapThreshold {
				status = EvidenceLikelyExists
			} else if mentioned {
				status = EvidenceInProgress
			}
			items = append(items, EvidenceItem{Document: ev.Document, Format: ev.Format, Status: status})
		}

		var responsible, accountable []string
		for _, d := range departments {
			switch raciMap[cr.ID][d.Code] {
			case "R":
				responsible = append(responsible, d.Code)
			case "A":
				accountable = append(accountable, d.Code)
			}
		}

		effort, ok := effortMap[cr.ID]
		if !ok {
			effort = effortInfo{days: "5-10"}
		}
		if isGap || isUnscored {
			lo, hi := effortBounds(effort.days)
			totalEffortMin += lo
			totalEffortMax += hi
			if effort.external {
				needsExternal = true
			}
		}
		if isGap && effort.external {
			externalItems++
		}

		task := ChecklistTask{
			CriterionID:    cr.ID,
			Pillar:         cr.Pillar,
			Category:       cr.Category,
			Standard:       cr.Standard,
			Obligation:     cr.Obligation,
			AssuranceScope: cr.AssuranceScope,
			Score:          score,
			TargetScore:    gapThreshold,
			IsGap:          isGap,
			IsUnscored:     isUnscored,
			Phase:          classifyPhase(score, cr.InScope(), tl.MonthsRemaining),
			Deliverable:    cr.MinimumAction,
			Evidence:       items,
			Responsible:    responsible,
			Accountable:    accountable,
			EffortDays:     effort.days,
			SkillsNeeded:   effort.skills,
			ExternalHelp:   effort.external,
		}
		if ri := reliefByID[cr.ID]; ri != nil {
			task.CanDefer = ri.Applicable && ri.IsDeferral
			task.CanSimplify = ri.Applicable && !ri.IsDeferral
			if ri.Applicable {
				task.ReliefNote = ri.Relief
			}
			task.Year2Requirement = ri.Year2Requirement
		}
		tasks = append(tasks, task)
	}

	phases := groupChecklistPhases(tasks)
	tracker := buildEvidenceTracker(tasks)

	rep := ChecklistReport{
		Phases:          phases,
		EvidenceTracker: tracker,
		Budget:          buildBudget(tasks, gapCount, externalItems, totalEffortMin, totalEffortMax),
		GateReviews:     gateReviews(),
		Year2Prep:       year2Prep(tasks, &relief),
	}
	rep.Summary = ChecklistSummary{
		TotalCriteria:       len(e.cat.Criteria()),
		TotalGaps:           gapCount,
		LAGaps:              laGapCount,
		TotalEvidenceItems:  len(tracker),
		TotalEffortRange:    fmt.Sprintf("%d-%d", totalEffortMin, totalEffortMax),
		NeedsExternalHelp:   needsExternal,
		ExternalItemsCount:  externalItems,
		Year2ExpansionCount: len(rep.Year2Prep),
		MonthsRemaining:     tl.MonthsRemaining,
		GateCount:           len(rep.GateReviews),
	}
	for _, ev := range tracker {
		switch ev.Status {
		case EvidenceNotStarted:
			rep.Summary.EvidenceNotStarted++
		case EvidenceInProgress:
			rep.Summary.EvidenceInProgress++
		case EvidenceLikelyExists:
			rep.Summary.EvidenceLikelyExists++
		}
	}
	return rep
}

func docMentioned(evidence, document string) bool {
	if evidence == "" {
		return false
	}
	for i, w := range strings.Fields(strings.ToLower(document)) {
		if i >= 3 {
			break
		}
		if len(w) > 3 && strings.Contains(evidence, w) {
			return true
		}
	}
	return false
}

func groupChecklistPhases(tasks []ChecklistTask) []ChecklistPhase {
	defs := []ChecklistPhase{
		{Number: 1, Title: "Immediate Actions", Subtitle: "Weeks 1-4: Foundation & critical gaps"},
		{Number: 2, Title: "Governance & Controls Setup", Subtitle: "Months 1-3: Policies, roles, frameworks"},
		{Number: 3, Title: "Data & Process Build", Subtitle: "Months 3-6: Systems, calculations, evidence"},
		{Number: 4, Title: "Dry Run & Review", Subtitle: "Months 6-9: Internal review, mock audit prep"},
		{Number: 5, Title: "Polish & Assurance Prep", Subtitle: "Months 9-12: Final prep, auditor engagement"},
	}
	for i := range defs {
		lo, hi := 0, 0
		for _, t := range tasks {
			if t.Phase != defs[i].Number {
				continue
			}
			defs[i].Tasks = append(defs[i].Tasks, t)
			if t.IsGap || t.IsUnscored {
				defs[i].GapCount++
				a, b := effortBounds(t.EffortDays)
				lo += a
				hi += b
			}
		}
		defs[i].TaskCount = len(defs[i].Tasks)
		if defs[i].GapCount > 0 {
			defs[i].EffortRange = fmt.Sprintf("%d-%d", lo, hi)
		} else {
			defs[i].EffortRange = "0"
		}
	}
	return defs
}

func buildEvidenceTracker(tasks []ChecklistTask) []EvidenceEntry {
	var tracker []EvidenceEntry
	for _, t := range tasks {
		for _, ev := range t.Evidence {
			tracker = append(tracker, EvidenceEntry{
				CriterionID:    t.CriterionID,
				Pillar:         t.Pillar,
				Category:       t.Category,
				AssuranceScope: t.AssuranceScope,
				Document:       ev.Document,
				Format:         ev.Format,
				Status:         ev.Status,
				Phase:          t.Phase,
				Responsible:    t.Responsible,
			})
		}
	}
	return tracker
}

func buildBudget(tasks []ChecklistTask, gapCount, externalItems, effortMin, effortMax int) []BudgetItem {
	items := []BudgetItem{{
		Category: "Internal staff time",
		Estimate: fmt.Sprintf("%d-%d person-days", effortMin, effortMax),
		Note:     fmt.Sprintf("Across %d gap items. Assumes dedicated project team.", gapCount),
	}}
	if externalItems > 0 {
		items = append(items, BudgetItem{
			Category: "External ESG consultant",
			Estimate: "¥5M-¥15M",
			Note:     fmt.Sprintf("%d items may need external expertise (scenario analysis, GHG calculation, value chain mapping).", externalItems),
		})
	}
	items = append(items, BudgetItem{
		Category: "Assurance engagement fees",
		Estimate: "¥5M-¥30M+",
		Note:     "Limited assurance for Scope 1 & 2, Governance, Risk Management. Varies by company size and complexity.",
	})
	for _, t := range tasks {
		if !t.IsGap {
			continue
		}
		switch t.CriterionID {
		case "MET-01", "MET-02", "MET-07", "RSK-05":
			items = append(items, BudgetItem{
				Category: "GHG calculation software / data systems",
				Estimate: "¥1M-¥10M/year",
				Note:     "Consider: Zeroboard, Persefoni, booost, or enhanced spreadsheet approach for Year 1.",
			})
		default:
			continue
		}
		break
	}
	items = append(items, BudgetItem{
		Category: "Training & capacity building",
		Estimate: "¥0.5M-¥2M",
		Note:     "Board sustainability briefing, GHG accounting training, ISSA 5000 awareness.",
	})
	return items
}

func gateReviews() []GateReview {
	return []GateReview{
		{
			Gate:     "G1: Project Kickoff",
			Timing:   "Week 1",
			Criteria: "Budget approved, project team assigned, gap analysis reviewed by management",
			Owner:    "Project Sponsor",
			Phase:    1,
		},
		{
			Gate:     "G2: Governance Ready",
			Timing:   "Month 3",
			Criteria: "Board charter amended, management roles assigned, sustainability committee established",
			Owner:    "ESG Lead / Board Secretary",
			Phase:    2,
		},
		{
			Gate:     "G3: Data Collection Complete",
			Timing:   "Month 6",
			Criteria: "Scope 1 & 2 data collected for all sites, internal controls documented, data quality checks in place",
			Owner:    "ESG Lead / Data Owner",
			Phase:    3,
		},
		{
			Gate:     "G4: Dry Run Complete",
			Timing:   "Month 9",
			Criteria: "Draft disclosure complete, internal review passed, evidence binders organized",
			Owner:    "ESG Lead",
			Phase:    4,
		},
		{
			Gate:     "G5: Assurance Ready",
			Timing:   "Month 12",
			Criteria: "Assurance provider selected, pre-engagement review complete, all assurance-scope items at score 3+",
			Owner:    "Project Sponsor",
			Phase:    5,
		},
	}
}

func year2Prep(tasks []ChecklistTask, relief *ReliefReport) []Year2Item {
	var prep []Year2Item
	seen := map[string]bool{}
	for _, t := range tasks {
		if !t.CanDefer {
			continue
		}
		prep = append(prep, Year2Item{
			CriterionID:      t.CriterionID,
			Category:         t.Category,
			ReliefNote:       t.ReliefNote,
			Year2Requirement: t.Year2Requirement,
			Year1Action:      "Begin groundwork even though calculation can be deferred. Year 2 auditors will ask what you did in Year 1.",
		})
		seen[t.CriterionID] = true
	}
	for _, item := range relief.Items {
		if item.IsDeferral || !item.Applicable || item.Year2Requirement == "" || seen[item.CriterionID] {
			continue
		}
		prep = append(prep, Year2Item{
			CriterionID:      item.CriterionID,
			Category:         item.Category,
			ReliefNote:       item.Relief,
			Year2Requirement: item.Year2Requirement,
			Year1Action:      "Year 1 simplified approach: " + item.WhatYouMustDo,
		})
	}
	return prep
}
