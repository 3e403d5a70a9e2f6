package derive

import (
	"fmt"
	"time"

	"github.com/kkurosawa/ssbj-readiness-backend/internal/catalog"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/types"
)

const (
	VerdictNotAssessed     = "not_assessed"
	VerdictOnTrack         = "on_track"
	VerdictMinorGaps       = "minor_gaps"
	VerdictActionNeeded    = "action_needed"
	VerdictSignificantWork = "significant_work"
)

type MinimumRequirement struct {
	Area string   `json:"area"`
	What string   `json:"what"`
	Why  string   `json:"why"`
	Gaps []string `json:"gaps"`
}

type InvestmentItem struct {
	Item  string `json:"item"`
	Range string `json:"range"`
}

type InvestmentOption struct {
	Name       string           `json:"name"`
	Subtitle   string           `json:"subtitle"`
	Approach   []string         `json:"approach"`
	Items      []InvestmentItem `json:"items"`
	TotalRange string           `json:"total_range"`
	Pros       []string         `json:"pros"`
	Cons       []string         `json:"cons"`
	BestFor    string           `json:"best_for"`
}

type RiskEntry struct {
	Risk       string `json:"risk"`
	Impact     string `json:"impact"`
	Likelihood string `json:"likelihood"`
}

type KeyDecision struct {
	Decision string `json:"decision"`
	Deadline string `json:"deadline"`
	Owner    string `json:"owner"`
}

type StandardBreakdown struct {
	Standard string `json:"standard"`
	Total    int    `json:"total"`
	Gaps     int    `json:"gaps"`
}

type SummaryReport struct {
	EntityName          string               `json:"entity_name"`
	Title               string               `json:"title"`
	OverallScore        float64              `json:"overall_score"`
	MaturityLabel       string               `json:"maturity_label"`
	TotalScored         int                  `json:"total_scored"`
	TotalCriteria       int                  `json:"total_criteria"`
	TotalGaps           int                  `json:"total_gaps"`
	LAGapsCount         int                  `json:"la_gaps_count"`
	Verdict             string               `json:"verdict"`
	VerdictLabel        string               `json:"verdict_label"`
	VerdictDetail       string               `json:"verdict_detail"`
	Timeline            Timeline             `json:"timeline"`
	PillarScores        map[string]float64   `json:"pillar_scores"`
	Standards           []StandardBreakdown  `json:"standards"`
	MinimumRequirements []MinimumRequirement `json:"minimum_requirements"`
	OptionA             InvestmentOption     `json:"option_a"`
	OptionB             InvestmentOption     `json:"option_b"`
	Risks               []RiskEntry          `json:"risks"`
	KeyDecisions        []KeyDecision        `json:"key_decisions"`
}

// Summary composes the board-level narrative. Unlike the roadmap it must
// tolerate an entirely unscored assessment, reporting a distinct
// not_assessed verdict rather than conflating zero gaps with readiness.
func (e *Engine) Summary(a *types.Assessment, today time.Time) SummaryReport {
	gaps := e.Gaps(a)
	tl := e.TimelineFor(a, today)

	rep := SummaryReport{
		EntityName:    a.EntityName,
		Title:         a.Title,
		OverallScore:  gaps.AvgScore,
		MaturityLabel: e.cat.MaturityLabel(int(gaps.AvgScore)),
		TotalScored:   gaps.TotalScored,
		TotalCriteria: len(e.cat.Criteria()),
		TotalGaps:     gaps.TotalGaps,
		LAGapsCount:   len(gaps.LACritical),
		Timeline:      tl,
		PillarScores:  a.PillarScores(),
		Standards:     e.standardBreakdown(&gaps),
	}
	rep.Verdict, rep.VerdictLabel, rep.VerdictDetail = verdict(&gaps)
	rep.MinimumRequirements = e.minimumRequirements(&gaps)
	rep.OptionA, rep.OptionB = investmentOptions(&gaps)
	rep.Risks = complianceRisks(&gaps, tl)
	rep.KeyDecisions = keyDecisions(&gaps, tl, rep.Verdict)
	return rep
}

// verdict walks the readiness ladder in order; the tiers are not mutually
// exclusive by construction, so evaluation order matters.
func verdict(gaps *GapReport) (code, label, detail string) {
	laGaps := len(gaps.LACritical)
	switch {
	case gaps.TotalScored == 0:
		return VerdictNotAssessed, "Not Assessed",
			"No criteria have been scored yet. Complete the assessment before relying on any readiness conclusion."
	case gaps.TotalGaps == 0:
		return VerdictOnTrack, "On Track",
			"All criteria meet the minimum maturity level (score 3+). Focus on maintaining and evidencing current practices for assurance."
	case laGaps == 0 && gaps.TotalGaps <= 5:
		return VerdictMinorGaps, "Minor Gaps",
			fmt.Sprintf("%d criteria below threshold, but none in limited assurance scope. Address gaps before disclosure but assurance readiness is not at risk.", gaps.TotalGaps)
	case laGaps <= 3:
		return VerdictActionNeeded, "Action Needed",
			fmt.Sprintf("%d criteria in limited assurance scope are below threshold. These will be directly examined by auditors and must be fixed as top priority.", laGaps)
	default:
		return VerdictSignificantWork, "Significant Work Required",
			fmt.Sprintf("%d limited assurance criteria and %d total criteria are below threshold. A dedicated project team and budget allocation are essential.", laGaps, gaps.TotalGaps)
	}
}

func (e *Engine) standardBreakdown(gaps *GapReport) []StandardBreakdown {
	out := []StandardBreakdown{
		{Standard: catalog.StandardGeneral, Total: len(e.cat.ByStandard(catalog.StandardGeneral))},
		{Standard: catalog.StandardClimate, Total: len(e.cat.ByStandard(catalog.StandardClimate))},
	}
	for _, bucket := range [][]Gap{gaps.Governance, gaps.Strategy, gaps.RiskManagement, gaps.Metrics} {
		for _, g := range bucket {
			if g.Standard == catalog.StandardGeneral {
				out[0].Gaps++
			} else {
				out[1].Gaps++
			}
		}
	}
	return out
}

func gapLine(g Gap) string {
	if g.MinimumAction != "" {
		return fmt.Sprintf("%s (score %d): %s", g.CriterionID, g.Score, g.MinimumAction)
	}
	return fmt.Sprintf("%s (score %d)", g.CriterionID, g.Score)
}

func findGap(bucket []Gap, id string) *Gap {
	for i := range bucket {
		if bucket[i].CriterionID == id {
			return &bucket[i]
		}
	}
	return nil
}

func (e *Engine) minimumRequirements(gaps *GapReport) []MinimumRequirement {
	var reqs []MinimumRequirement

	if len(gaps.Governance) > 0 {
		var lines []string
		for _, g := range gaps.Governance {
			lines = append(lines, gapLine(g))
		}
		reqs = append(reqs, MinimumRequirement{
			Area: "Governance",
			What: "Board/committee must formally oversee sustainability disclosure",
			Why:  "Disclosed governance processes are required. Auditors will verify board oversight via minutes and mandates.",
			Gaps: lines,
		})
	}

	if len(gaps.RiskManagement) > 0 {
		var lines []string
		for _, g := range gaps.RiskManagement {
			lines = append(lines, gapLine(g))
		}
		reqs = append(reqs, MinimumRequirement{
			Area: "Risk Management",
			What: "Document climate risk identification, assessment methodology, and ERM integration",
			Why:  "Risk management is in initial limited assurance scope. Auditors will examine your risk processes from Year 1.",
			Gaps: lines,
		})
	}

	metS1 := findGap(gaps.Metrics, "MET-01")
	metS2 := findGap(gaps.Metrics, "MET-02")
	if metS1 != nil || metS2 != nil {
		var lines []string
		if metS1 != nil {
			lines = append(lines, gapLine(*metS1))
		}
		if metS2 != nil {
			lines = append(lines, gapLine(*metS2))
		}
		reqs = append(reqs, MinimumRequirement{
			Area: "GHG Emissions (Scope 1 & 2)",
			What: "Establish complete, auditable GHG calculation",
			Why:  "Core limited assurance item. Auditors will recalculate your emissions, test source data, and verify methodology.",
			Gaps: lines,
		})
	}

	if metS3 := findGap(gaps.Metrics, "MET-03"); metS3 != nil {
		reqs = append(reqs, MinimumRequirement{
			Area: "Scope 3 Emissions",
			What: "Disclose all 15 Scope 3 categories (Year 1 relief: can use estimates/proxies)",
			Why:  "Mandatory under IFRS S2. Year 1 transition relief allows simplified data, but the disclosure obligation remains.",
			Gaps: []string{gapLine(*metS3)},
		})
	}

	if len(gaps.Strategy) > 0 {
		var lines []string
		for _, g := range gaps.Strategy {
			lines = append(lines, gapLine(g))
		}
		reqs = append(reqs, MinimumRequirement{
			Area: "Strategy & Value Chain",
			What: "Disclose climate-related risks/opportunities, scenario analysis, and value chain impacts",
			Why:  "Value chain analysis covers the entire chain, not just direct operations, and scenario analysis is required.",
			Gaps: lines,
		})
	}

	var otherMet []Gap
	for _, g := range gaps.Metrics {
		switch g.CriterionID {
		case "MET-01", "MET-02", "MET-03", "MET-07":
		default:
			otherMet = append(otherMet, g)
		}
	}
	if len(otherMet) > 0 {
		var lines []string
		for _, g := range otherMet {
			lines = append(lines, gapLine(g))
		}
		reqs = append(reqs, MinimumRequirement{
			Area: "Other Metrics & Targets",
			What: fmt.Sprintf("Address %d remaining metrics gaps (intensity, targets, remuneration, etc.)", len(otherMet)),
			Why:  "All disclosed metrics are examined for consistency, and intensity and target-progress figures are mandatory.",
			Gaps: lines,
		})
	}

	if metDQ := findGap(gaps.Metrics, "MET-07"); metDQ != nil {
		reqs = append(reqs, MinimumRequirement{
			Area: "Data Quality & Internal Controls",
			What: "Implement maker-checker review, audit trail, and data validation for GHG data",
			Why:  "Without internal controls, auditors cannot issue an unqualified opinion. This is foundational for assurance.",
			Gaps: []string{gapLine(*metDQ)},
		})
	}
	return reqs
}

// investmentItNeed is narrower than the gap classifier's it_needed flag:
// only the GHG data chain criteria drive a tooling decision here.
func investmentItNeed(gaps *GapReport) bool {
	for _, g := range gaps.Metrics {
		switch g.CriterionID {
		case "MET-01", "MET-02", "MET-03", "MET-07":
			if g.Score < 2 {
				return true
			}
		}
	}
	return false
}

func investmentOptions(gaps *GapReport) (InvestmentOption, InvestmentOption) {
	optionA := InvestmentOption{
		Name:     "Minimum Viable Compliance",
		Subtitle: "Manual processes, spreadsheet-based, minimal external support",
		Approach: []string{
			"Spreadsheet-based GHG calculations with documented review process",
			"Manual data collection from sites/subsidiaries via templates",
			"Internal staff allocated part-time to sustainability disclosure",
			"Minimal external advisory for methodology validation",
			"Paper-based evidence filing organized by criterion",
		},
		Pros: []string{
			"Lower upfront cost",
			"Can start immediately with existing resources",
			"Suitable if organization has few emission sources / simple operations",
		},
		Cons: []string{
			"High ongoing manual effort each reporting cycle",
			"Higher risk of data errors (no automated validation)",
			"Difficult to scale for Scope 3 (15 categories) in Year 2+",
			"Auditor may flag control weaknesses",
			"Key person risk if dedicated staff leave",
		},
		BestFor: "Smaller organizations, simple operations, or those very close to deadline with no time for system implementation",
	}
	optionB := InvestmentOption{
		Name:     "Systematic Compliance",
		Subtitle: "GHG software, structured processes, advisory support, long-term efficiency",
		Approach: []string{
			"Dedicated GHG calculation platform (e.g., Zeroboard, Persefoni, booost, or equivalent)",
			"Automated data collection integrations where possible",
			"External advisory support for methodology and gap remediation",
			"Pre-assurance readiness review by assurance provider",
			"Structured training program for data owners and reviewers",
			"Digital evidence management with audit trail",
		},
		Pros: []string{
			"Significantly reduced manual effort from Year 2 onward",
			"Built-in data validation and audit trail (auditor-friendly)",
			"Scales easily for Scope 3 expansion and assurance scope widening",
			"Lower risk of errors and qualifications",
			"Institutional knowledge embedded in systems, not people",
		},
		Cons: []string{
			"Higher upfront investment",
			"Implementation time (3-6 months for platform setup)",
			"Ongoing license fees",
			"Change management required across departments",
		},
		BestFor: "Organizations with complex operations, multiple sites, or those planning for long-term compliance beyond Year 1",
	}

	switch {
	case gaps.TotalGaps <= 5 && !investmentItNeed(gaps):
		optionA.Items = []InvestmentItem{
			{"Staff time allocation (part-time, 2-3 people)", "Internal cost"},
			{"External advisory (methodology review)", "¥3M - ¥5M"},
			{"Assurance engagement (limited)", "¥5M - ¥10M"},
		}
		optionA.TotalRange = "¥8M - ¥15M + internal staff time"
		optionB.Items = []InvestmentItem{
			{"GHG platform license (annual)", "¥3M - ¥8M"},
			{"Platform setup & data integration", "¥2M - ¥5M"},
			{"External advisory & training", "¥5M - ¥8M"},
			{"Pre-assurance readiness review", "¥2M - ¥5M"},
			{"Assurance engagement (limited)", "¥5M - ¥10M"},
		}
		optionB.TotalRange = "¥17M - ¥36M (Year 1), reducing to ¥8M - ¥18M/year ongoing"
	case gaps.TotalGaps <= 12:
		optionA.Items = []InvestmentItem{
			{"Staff time allocation (part-time, 3-5 people)", "Internal cost"},
			{"External advisory (gap remediation + methodology)", "¥5M - ¥10M"},
			{"Governance/policy documentation support", "¥2M - ¥5M"},
			{"Assurance engagement (limited)", "¥8M - ¥15M"},
		}
		optionA.TotalRange = "¥15M - ¥30M + internal staff time"
		optionB.Items = []InvestmentItem{
			{"GHG platform license (annual)", "¥5M - ¥12M"},
			{"Platform setup, integration & customization", "¥5M - ¥10M"},
			{"External advisory (comprehensive gap remediation)", "¥8M - ¥15M"},
			{"Staff training program", "¥2M - ¥4M"},
			{"Pre-assurance readiness review", "¥3M - ¥5M"},
			{"Assurance engagement (limited)", "¥8M - ¥15M"},
		}
		optionB.TotalRange = "¥31M - ¥61M (Year 1), reducing to ¥13M - ¥27M/year ongoing"
	default:
		optionA.Items = []InvestmentItem{
			{"Dedicated project manager (FTE or contractor)", "¥8M - ¥15M"},
			{"Staff time allocation (part-time, 5-8 people)", "Internal cost"},
			{"External advisory (comprehensive program)", "¥10M - ¥20M"},
			{"Governance & risk management overhaul support", "¥5M - ¥10M"},
			{"Assurance engagement (limited)", "¥10M - ¥20M"},
		}
		optionA.TotalRange = "¥33M - ¥65M + significant internal staff time"
		optionB.Items = []InvestmentItem{
			{"GHG platform license (annual, enterprise)", "¥8M - ¥20M"},
			{"Platform setup, full integration & customization", "¥10M - ¥20M"},
			{"Dedicated project manager", "¥8M - ¥15M"},
			{"External advisory (full program support)", "¥15M - ¥25M"},
			{"Staff training & change management", "¥3M - ¥6M"},
			{"Pre-assurance readiness review", "¥5M - ¥8M"},
			{"Assurance engagement (limited)", "¥10M - ¥20M"},
		}
		optionB.TotalRange = "¥59M - ¥114M (Year 1), reducing to ¥18M - ¥40M/year ongoing"
	}
	return optionA, optionB
}

func complianceRisks(gaps *GapReport, tl Timeline) []RiskEntry {
	laGaps := len(gaps.LACritical)
	likelihoodLA := "Low"
	if laGaps > 3 {
		likelihoodLA = "High"
	} else if laGaps > 0 {
		likelihoodLA = "Medium"
	}
	timePressure := "Low"
	if tl.MonthsRemaining < 12 {
		timePressure = "Medium"
	}
	providerPressure := "Medium"
	if tl.MonthsRemaining < 12 {
		providerPressure = "High"
	}
	ratingLikelihood := "Medium"
	if gaps.TotalGaps > 10 {
		ratingLikelihood = "High"
	}
	scope3Likelihood := "Low"
	if findGap(gaps.Metrics, "MET-03") != nil {
		scope3Likelihood = "High"
	}

	risks := []RiskEntry{
		{
			Risk:       "Qualified assurance opinion",
			Impact:     "Investor and market confidence impact; signals to investors that disclosure controls are weak",
			Likelihood: likelihoodLA,
		},
		{
			Risk:       "Regulatory action by FSA/exchange",
			Impact:     "Potential designation review, public disclosure of non-compliance, reputational damage",
			Likelihood: timePressure,
		},
		{
			Risk:       "Investor downgrade on ESG ratings",
			Impact:     "May affect cost of capital, index inclusion (FTSE, MSCI), and institutional investor engagement",
			Likelihood: ratingLikelihood,
		},
		{
			Risk:       "Inability to secure assurance provider",
			Impact:     "Limited pool of qualified providers; late entrants may face capacity constraints or premium fees",
			Likelihood: providerPressure,
		},
		{
			Risk:       "Scope 3 data gaps compound in Year 2",
			Impact:     "Year 1 relief expires; without foundational data collection in Year 1, Year 2 full disclosure becomes very difficult",
			Likelihood: scope3Likelihood,
		},
	}

	controlsGap := findGap(gaps.RiskManagement, "RSK-05") != nil
	if controlsGap && (findGap(gaps.Metrics, "MET-01") != nil || findGap(gaps.Metrics, "MET-02") != nil) {
		risks = append(risks, RiskEntry{
			Risk:       "Internal controls gap undermines GHG data reliability",
			Impact:     "With internal controls weak, auditors will question the reliability of Scope 1 & 2 data even if calculations are correct",
			Likelihood: "High",
		})
	}
	if dq := findGap(gaps.Metrics, "MET-07"); dq != nil {
		likelihood := "Medium"
		if s1 := findGap(gaps.Metrics, "MET-01"); s1 != nil && s1.Score < 2 {
			likelihood = "High"
		} else if s2 := findGap(gaps.Metrics, "MET-02"); s2 != nil && s2.Score < 2 {
			likelihood = "High"
		}
		risks = append(risks, RiskEntry{
			Risk:       "Data quality gap blocks clean assurance on all metrics",
			Impact:     "Data quality management is foundational; without it auditors will likely qualify their opinion on all GHG metrics",
			Likelihood: likelihood,
		})
	}
	return risks
}

func keyDecisions(gaps *GapReport, tl Timeline, verdictCode string) []KeyDecision {
	var decisions []KeyDecision
	if verdictCode == VerdictActionNeeded || verdictCode == VerdictSignificantWork {
		decisions = append(decisions, KeyDecision{
			Decision: "Approve dedicated budget and project team for disclosure compliance",
			Deadline: "Immediate",
			Owner:    "Board / CFO",
		})
	}
	decisions = append(decisions, KeyDecision{
		Decision: "Select compliance approach: Option A (minimal) or Option B (systematic)",
		Deadline: "Within 1 month",
		Owner:    "CFO / ESG Lead",
	})
	if tl.MonthsRemaining <= 18 {
		deadline := "Within 2 months"
		if tl.MonthsRemaining <= 12 {
			deadline = "Within 2 weeks"
		}
		decisions = append(decisions, KeyDecision{
			Decision: "Initiate assurance provider engagement (RFP or direct approach)",
			Deadline: deadline,
			Owner:    "CFO / Finance",
		})
	}
	decisions = append(decisions, KeyDecision{
		Decision: "Designate sustainability disclosure project owner (executive sponsor)",
		Deadline: "Within 1 month",
		Owner:    "Board",
	})
	if len(gaps.Governance) > 0 {
		decisions = append(decisions, KeyDecision{
			Decision: "Establish board sustainability oversight committee or add to existing committee mandate",
			Deadline: "Within 2 months",
			Owner:    "Board Secretary",
		})
	}
	return decisions
}
