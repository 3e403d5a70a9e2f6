package derive

import (
	"fmt"
	"time"

	"github.com/kkurosawa/ssbj-readiness-backend/internal/types"
)

const (
	CheckReady    = "ready"
	CheckNotReady = "not_ready"
)

// TaskGroup splits a phase's tasks into the three workstreams the project
// runs in parallel.
type TaskGroup struct {
	Management []string `json:"management"`
	Technical  []string `json:"technical"`
	Assurance  []string `json:"assurance"`
}

type ReadinessCheck struct {
	Item   string `json:"item"`
	Status string `json:"status"`
}

type RoadmapPhase struct {
	Number     int              `json:"number"`
	Title      string           `json:"title"`
	Subtitle   string           `json:"subtitle"`
	StartMonth int              `json:"start_month"`
	EndMonth   int              `json:"end_month"`
	Tasks      TaskGroup        `json:"tasks"`
	Checklist  []ReadinessCheck `json:"checklist,omitempty"`
}

type Roadmap struct {
	Timeline
	Phases  []RoadmapPhase `json:"phases"`
	Summary []string       `json:"summary"`
}

// Roadmap composes the phase schedule and the gap buckets into seven
// ordered phases. Critical urgency prepends an acceleration task to every
// phase; tight urgency a softer compression note. The caller must not
// invoke this with zero scored responses.
func (e *Engine) Roadmap(a *types.Assessment, today time.Time) Roadmap {
	sched := e.Schedule(a, today)
	gaps := e.Gaps(a)

	phases := []RoadmapPhase{
		e.phaseFoundation(&gaps),
		e.phaseGovernance(&gaps),
		e.phaseBuild(&gaps),
		e.phaseDryRun(),
		e.phasePreAssurance(&gaps),
		e.phaseDisclosure(sched.ComplianceYear),
		e.phaseAssurance(sched.AssuranceDate.Year()),
	}
	for i := range phases {
		phases[i].StartMonth = sched.Phases[i].StartMonth
		phases[i].EndMonth = sched.Phases[i].EndMonth
	}
	applyUrgency(phases, sched.Urgency)

	return Roadmap{
		Timeline: sched.Timeline,
		Phases:   phases,
		Summary:  roadmapSummary(&gaps, sched.Timeline),
	}
}

func applyUrgency(phases []RoadmapPhase, urgency string) {
	switch urgency {
	case UrgencyCritical:
		inserts := []string{
			"IMMEDIATE: run foundation and governance setup fully in parallel, starting this week",
			"IMMEDIATE: skip the RFP process, approach the incumbent financial auditor about assurance directly",
			"ACCELERATED: merge build and dry-run work, use the first real data collection as the trial run",
			"ACCELERATED: limit the dry run to assurance-scope disclosures only",
			"ACCELERATED: book the readiness assessment now, slots fill months ahead",
			"ACCELERATED: prepare disclosure and evidence archive in the same pass",
			"ACCELERATED: agree the assurance timetable before disclosure is published",
		}
		for i := range phases {
			phases[i].Tasks.Management = prepend(phases[i].Tasks.Management, inserts[i])
		}
	case UrgencyTight:
		for i := range phases {
			phases[i].Tasks.Management = prepend(phases[i].Tasks.Management,
				fmt.Sprintf("COMPRESS: overlap this phase with its neighbors, months %d-%d only", phases[i].StartMonth, phases[i].EndMonth))
		}
	}
}

func prepend(tasks []string, task string) []string {
	return append([]string{task}, tasks...)
}

func (e *Engine) phaseFoundation(gaps *GapReport) RoadmapPhase {
	p := RoadmapPhase{
		Number:   1,
		Title:    "Foundation & Management Buy-in",
		Subtitle: "Gap analysis, governance setup, project launch",
		Tasks: TaskGroup{
			Management: []string{
				"Present gap analysis results to executive management / board",
				"Secure budget allocation for the disclosure compliance project",
				"Appoint a Sustainability Disclosure Project Owner (executive sponsor)",
				"Establish cross-functional working group (Finance, Legal, IR, Operations, ESG)",
			},
			Technical: []string{
				"Complete current gap assessment and baseline scoring",
				"Map existing data sources for GHG emissions (energy bills, fuel records, refrigerant logs)",
				"Inventory existing IT systems that hold sustainability data (ERP, utility management, etc.)",
			},
			Assurance: []string{
				"Research potential assurance providers (Big 4, mid-tier firms with ISAE 3000 experience)",
				"Understand limited assurance scope for the initial phase",
				"Review ISAE 3000/3410 and ISSA 5000 requirements at high level",
			},
		},
	}
	if len(gaps.LACritical) > 0 {
		p.Tasks.Management = append(p.Tasks.Management,
			fmt.Sprintf("URGENT: highlight %d assurance-critical gaps to management, these will be directly examined by auditors", len(gaps.LACritical)))
	}
	return p
}

func (e *Engine) phaseGovernance(gaps *GapReport) RoadmapPhase {
	p := RoadmapPhase{
		Number:   2,
		Title:    "Governance & Policy Framework",
		Subtitle: "Policies, roles, assurance provider selection",
		Tasks: TaskGroup{
			Management: []string{
				"Board formally designates sustainability oversight committee",
				"Approve sustainability governance policy (or add to existing corporate governance code)",
				"Define management roles: who owns GHG data, who reviews, who signs off",
				"Set up quarterly sustainability reporting to board",
			},
			Assurance: []string{
				"Send RFP to 2-3 assurance providers for limited assurance engagement",
				"Schedule introductory meeting with shortlisted firms",
				"Discuss assurance scope, timeline, and evidence expectations",
			},
		},
	}
	for _, g := range gaps.Governance {
		if g.Score <= 1 {
			p.Tasks.Management = append(p.Tasks.Management,
				fmt.Sprintf("Fix %s (%s): currently score %d, needs formal documentation", g.CriterionID, g.Category, g.Score))
		}
	}
	if gaps.ITNeeded {
		p.Tasks.Technical = []string{
			"Evaluate GHG calculation software options (e.g., Zeroboard, Persefoni, booost, or spreadsheet-based)",
			"Decide build vs. buy: dedicated GHG platform vs. enhanced spreadsheets",
			"Map data flow: source systems to calculation to reporting to disclosure",
		}
	} else {
		p.Tasks.Technical = []string{
			"Document current data collection process for GHG emissions",
			"Create standardized templates for activity data collection from sites/subsidiaries",
			"Define calculation methodology document (emission factors, sources, methodology)",
		}
	}
	return p
}

func (e *Engine) phaseBuild(gaps *GapReport) RoadmapPhase {
	p := RoadmapPhase{
		Number:   3,
		Title:    "Process & System Implementation",
		Subtitle: "IT systems, data collection, internal controls",
		Tasks: TaskGroup{
			Management: []string{
				"Review progress at board level, mid-project checkpoint",
				"Approve internal controls framework for sustainability data",
				"Ensure sustainability KPIs are embedded in management reporting",
			},
			Assurance: []string{
				"Select and formally engage assurance provider",
				"Pre-engagement planning meeting: agree scope, materiality, evidence requirements",
				"Assurance provider reviews your internal controls design (advisory, not assurance yet)",
			},
		},
	}
	if gaps.ITNeeded {
		p.Tasks.Technical = []string{
			"Implement GHG calculation tool / build calculation spreadsheets with controls",
			"Set up automated data collection from source systems where possible",
			"Implement data validation rules (range checks, completeness checks, year-on-year comparison)",
			"Create audit trail: who entered data, when, what changed",
			"Test system with prior year data as dry run",
		}
	} else {
		p.Tasks.Technical = []string{
			"Formalize GHG calculation procedures in a written methodology document",
			"Implement calculation review checklist (4-eyes principle)",
			"Set up evidence filing system (organized by criterion, year, source)",
			"Collect and organize prior year activity data as baseline",
		}
	}
	for _, g := range gaps.Metrics {
		if g.AssuranceScope == "in_scope" && g.Score < 2 {
			p.Tasks.Technical = append(p.Tasks.Technical,
				fmt.Sprintf("CRITICAL: build process for %s (%s), score %d, needs formal procedures", g.CriterionID, g.Category, g.Score))
		}
	}
	if len(gaps.Strategy) > 0 {
		p.Tasks.Management = append(p.Tasks.Management,
			fmt.Sprintf("Address %d strategy disclosure gaps: scenario analysis, transition plans", len(gaps.Strategy)))
	}
	if len(gaps.RiskManagement) > 0 {
		p.Tasks.Management = append(p.Tasks.Management,
			fmt.Sprintf("Address %d risk management gaps: integrate sustainability into ERM framework", len(gaps.RiskManagement)))
	}
	return p
}

func (e *Engine) phaseDryRun() RoadmapPhase {
	return RoadmapPhase{
		Number:   4,
		Title:    "Dry Run & Internal Review",
		Subtitle: "Trial disclosure, internal quality assurance",
		Tasks: TaskGroup{
			Management: []string{
				"Management sign-off on draft sustainability disclosure",
				"Board reviews draft disclosure before publication",
				fmt.Sprintf("Assess completeness: all %d disclosure criteria covered?", len(e.cat.Criteria())),
			},
			Technical: []string{
				"Complete full GHG inventory calculation (Scope 1 & 2) using actual data",
				"Prepare draft disclosure document in the required format",
				"Run internal quality assurance review on all data and disclosures",
				"Document all assumptions, estimation methodologies, and data limitations",
				"Organize evidence files as if auditor is coming tomorrow",
			},
			Assurance: []string{
				"Share draft disclosure with assurance provider for informal review",
				"Rehearse management inquiry sessions (auditor will interview key staff)",
			},
		},
	}
}

// phasePreAssurance carries the structural readiness checklist. The
// Governance and Risk Management checks reflect the 2025 decision to pull
// both pillars into the initial assurance scope.
func (e *Engine) phasePreAssurance(gaps *GapReport) RoadmapPhase {
	checks := []ReadinessCheck{
		{Item: "All assurance-critical gaps closed (score 3 or above)", Status: checkStatus(len(gaps.LACritical) == 0)},
		{Item: "Internal controls over sustainability data in place", Status: checkStatus(!hasGap(gaps, "RSK-05"))},
		{Item: "Data quality management processes operating", Status: checkStatus(!hasGap(gaps, "MET-07"))},
		{Item: "Scope 1 & 2 inventory complete and documented", Status: checkStatus(!hasGap(gaps, "MET-01") && !hasGap(gaps, "MET-02"))},
		{Item: "Governance pillar free of gaps", Status: checkStatus(len(gaps.Governance) == 0)},
		{Item: "Risk Management pillar free of gaps", Status: checkStatus(len(gaps.RiskManagement) == 0)},
	}
	return RoadmapPhase{
		Number:   5,
		Title:    "Pre-Assurance Readiness",
		Subtitle: "Readiness assessment, remediation of findings",
		Tasks: TaskGroup{
			Management: []string{
				"Review readiness assessment findings at board level",
				"Approve remediation budget for any findings",
			},
			Technical: []string{
				"Address documentation and control findings from the readiness assessment",
				"Freeze methodology and emission factors for the reporting period",
			},
			Assurance: []string{
				"Assurance provider conducts readiness assessment (gap-check against ISAE 3000)",
				"Address any findings from readiness assessment",
				"Agree evidence handoff format and timetable",
			},
		},
		Checklist: checks,
	}
}

func (e *Engine) phaseDisclosure(complianceYear int) RoadmapPhase {
	return RoadmapPhase{
		Number:   6,
		Title:    "First Mandatory Disclosure",
		Subtitle: fmt.Sprintf("Publish compliant disclosure (FY%d)", complianceYear),
		Tasks: TaskGroup{
			Management: []string{
				"Final board approval of sustainability disclosure",
				"CEO/CFO sign-off on disclosed information",
				"Integrate sustainability disclosure into the annual securities report",
			},
			Technical: []string{
				"Finalize all calculations with year-end actual data",
				"Complete all required disclosures in proper format",
				"Final quality review and cross-reference check against the criteria",
				"Archive all supporting evidence with complete audit trail",
			},
			Assurance: []string{
				"Assurance provider is on standby for post-disclosure engagement",
				"Ensure evidence packages are organized for handoff to auditor",
				"Prepare management representation letter template",
			},
		},
	}
}

func (e *Engine) phaseAssurance(assuranceYear int) RoadmapPhase {
	return RoadmapPhase{
		Number:   7,
		Title:    "First Limited Assurance",
		Subtitle: fmt.Sprintf("Auditor examines Scope 1 & 2 (FY%d)", assuranceYear),
		Tasks: TaskGroup{
			Management: []string{
				"Board informed of upcoming assurance engagement and timeline",
				"Designate internal liaison team for auditor interactions",
				"Budget for assurance engagement fees",
			},
			Technical: []string{
				"Provide complete evidence packages to assurance provider",
				"Respond to information requests and clarification queries",
				"Support site visits if required by assurance provider",
				"Address any findings or adjustments identified during assurance",
			},
			Assurance: []string{
				"Formal limited assurance engagement begins (ISAE 3000 / ISSA 5000)",
				"Assurance procedures: inquiry, analytical review, limited testing",
				"Receive assurance report, target an unqualified conclusion",
				"Plan for scope expansion in subsequent years",
			},
		},
	}
}

func checkStatus(ready bool) string {
	if ready {
		return CheckReady
	}
	return CheckNotReady
}

func hasGap(gaps *GapReport, criterionID string) bool {
	for _, bucket := range [][]Gap{gaps.Governance, gaps.Strategy, gaps.RiskManagement, gaps.Metrics} {
		for _, g := range bucket {
			if g.CriterionID == criterionID {
				return true
			}
		}
	}
	return false
}

func roadmapSummary(gaps *GapReport, tl Timeline) []string {
	lines := []string{
		fmt.Sprintf("%d of %d scored criteria are below the passing maturity level.", gaps.TotalGaps, gaps.TotalScored),
	}
	if len(gaps.LACritical) > 0 {
		lines = append(lines,
			fmt.Sprintf("%d gaps sit inside the limited assurance scope and will be examined directly by auditors.", len(gaps.LACritical)))
	}
	switch tl.Urgency {
	case UrgencyCritical:
		if tl.MonthsRemaining < 0 {
			lines = append(lines,
				fmt.Sprintf("The compliance deadline has passed (%d months ago). The plan below uses a minimum 3-month recovery schedule.", -tl.MonthsRemaining))
		} else {
			lines = append(lines,
				fmt.Sprintf("Only %d months remain. Accelerate all phases and consider external consultants to supplement internal resources.", tl.MonthsRemaining))
		}
	case UrgencyTight:
		lines = append(lines,
			fmt.Sprintf("%d months remain. Phases must overlap; there is no slack for sequential execution.", tl.MonthsRemaining))
	default:
		lines = append(lines,
			fmt.Sprintf("%d months remain. The standard phased plan fits the available time.", tl.MonthsRemaining))
	}
	return lines
}
