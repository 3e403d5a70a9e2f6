package derive

import (
	"time"

	"github.com/kkurosawa/ssbj-readiness-backend/internal/catalog"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/types"
)

const (
	ReliefStatusAvailable = "available"
	ReliefStatusExpired   = "expired"
)

const (
	ReliefUrgencyCritical = "critical"
	ReliefUrgencyHigh     = "high"
	ReliefUrgencyNormal   = "normal"
)

type reliefDetail struct {
	relief           string
	whatYouCanDefer  string
	whatYouMustDo    string
	year2Requirement string
}

// reliefDetails holds the transitional relief table. Criteria absent from
// it have no relief in any year; Governance and Risk Management criteria
// are deliberately missing.
var reliefDetails = map[string]reliefDetail{
	"STR-01": {
		relief:           "Proportionality relief: value chain risk/opportunity assessment can use qualitative analysis in first year.",
		whatYouCanDefer:  "Full quantitative value chain risk analysis",
		whatYouMustDo:    "Qualitative assessment covering upstream, own operations, and downstream",
		year2Requirement: "Move to semi-quantitative or quantitative value chain analysis",
	},
	"STR-02": {
		relief:           "Entity need not assess entire value chain in first year if data is not available without undue cost or effort.",
		whatYouCanDefer:  "Complete upstream/downstream data collection from all value chain partners",
		whatYouMustDo:    "Map your value chain and assess data availability. Document which parts you could not assess and why.",
		year2Requirement: "Progressively expand value chain coverage with supplier engagement",
	},
	"STR-04": {
		relief:           "Qualitative scenario analysis is acceptable in first year.",
		whatYouCanDefer:  "Quantitative scenario modeling and financial impact calculations",
		whatYouMustDo:    "Select at least two climate scenarios (e.g., IEA NZE, IPCC RCP 8.5) and write qualitative narrative",
		year2Requirement: "Begin quantifying financial impacts under each scenario",
	},
	"STR-05": {
		relief:           "First-year transition plan disclosure can be high-level directional commitments.",
		whatYouCanDefer:  "Detailed milestones, CAPEX allocation, specific technology pathways",
		whatYouMustDo:    "State directional commitment (e.g., 'working toward net-zero') or state plan is under development",
		year2Requirement: "Develop concrete transition plan with targets and milestones",
	},
	"MET-01": {
		relief:           "First-year Scope 1 may use simplified calculation methodology.",
		whatYouCanDefer:  "Full GHG Protocol alignment with facility-level granularity",
		whatYouMustDo:    "Calculate total Scope 1 using available data. Document methodology and emission factors used.",
		year2Requirement: "Align fully with GHG Protocol Corporate Standard",
	},
	"MET-02": {
		relief:           "First-year Scope 2 location-based calculation is sufficient.",
		whatYouCanDefer:  "Market-based Scope 2 calculation",
		whatYouMustDo:    "Calculate location-based Scope 2 using grid emission factors",
		year2Requirement: "Add market-based Scope 2 calculation alongside location-based",
	},
	"MET-03": {
		relief:           "Scope 3 disclosure may be DEFERRED entirely in first reporting year.",
		whatYouCanDefer:  "ALL Scope 3 calculations and disclosures",
		whatYouMustDo:    "Nothing required in Year 1, but recommended: begin supplier data collection and category assessment",
		year2Requirement: "Disclose all 15 Scope 3 categories with calculations (estimates acceptable)",
	},
	"MET-04": {
		relief:           "Comparative information for targets is NOT required in first reporting year.",
		whatYouCanDefer:  "Year-over-year target progress comparison",
		whatYouMustDo:    "Set and disclose climate targets with base year and target year",
		year2Requirement: "Provide comparative data showing progress against targets",
	},
	"MET-05": {
		relief:           "Comparative information for industry metrics is NOT required in first reporting year.",
		whatYouCanDefer:  "Historical trend data and year-over-year comparisons",
		whatYouMustDo:    "Disclose current-year industry metrics if applicable",
		year2Requirement: "Provide comparative information from Year 1 as baseline",
	},
	"MET-07": {
		relief:           "Data quality framework may start as basic validation procedures in first year.",
		whatYouCanDefer:  "Full data governance framework with documented lineage",
		whatYouMustDo:    "Basic disclosure of data quality approach (validation rules, review process)",
		year2Requirement: "Full data governance framework with documented lineage",
	},
	"MET-08": {
		relief:           "GHG intensity calculation can use simplified denominators in first year.",
		whatYouCanDefer:  "Multiple intensity metrics and sector-specific denominators",
		whatYouMustDo:    "Calculate at least one intensity metric (e.g., tCO2e per revenue)",
		year2Requirement: "Consistent intensity metrics with year-over-year comparison",
	},
	"MET-12": {
		relief:           "Comparative progress reporting against targets is NOT required in first reporting year.",
		whatYouCanDefer:  "Prior-year comparatives for every disclosed target",
		whatYouMustDo:    "Report current-year performance against each disclosed target",
		year2Requirement: "Full year-over-year progress reporting with revision explanations",
	},
}

type japanAlternative struct {
	alternative string
	action      string
	benefit     string
}

// japanAlternatives are lower-burden disclosure formats that remain valid
// in any year. They are independent of the time-boxed transition relief.
var japanAlternatives = map[string]japanAlternative{
	"GOV-01": {
		alternative: "Leverage existing Japan CG Code Principle 2-3 compliance",
		action:      "Reference your existing corporate governance report. If ESG oversight is already documented there, cross-reference it in SSBJ disclosures.",
		benefit:     "Avoid duplicating governance documentation. Reuse what you already file with TSE.",
	},
	"STR-03": {
		alternative: "Two-stage disclosure: qualitative first, quantitative later",
		action:      "Disclose qualitative financial effects in Year 1. Quantify impacts progressively in subsequent years.",
		benefit:     "Reduces Year 1 burden significantly. No need for complex financial impact modeling immediately.",
	},
	"STR-04": {
		alternative: "Qualitative scenario analysis accepted by SSBJ",
		action:      "Use narrative-based scenario analysis describing physical and transition risk impacts qualitatively.",
		benefit:     "No need for expensive quantitative climate modeling tools in Year 1.",
	},
	"STR-07": {
		alternative: "Cross-reference the annual securities report",
		action:      "Create a mapping table between sustainability disclosures and specific line items in your annual securities report.",
		benefit:     "FSA encourages this approach. Demonstrates connectivity without complex new analysis.",
	},
	"MET-02": {
		alternative: "Both location-based and market-based Scope 2 methods explicitly accepted",
		action:      "If you purchase renewable energy certificates (J-Credits, non-fossil certificates), report market-based alongside location-based.",
		benefit:     "Companies with green power purchases can show lower market-based emissions.",
	},
	"MET-03": {
		alternative: "Proportionality relief for Scope 3 data quality",
		action:      "Use industry averages and spend-based estimates where primary supplier data is unavailable. State 'not material' for non-applicable categories.",
		benefit:     "Significantly reduces data collection burden. No need for perfect supplier-specific data in early years.",
	},
	"MET-04": {
		alternative: "Two-stage disclosure for targets: qualitative then quantitative",
		action:      "Set qualitative directional targets in Year 1 (e.g., 'reduce emissions'). Quantify from Year 2.",
		benefit:     "Gives time to develop credible quantified targets (potentially SBTi-aligned).",
	},
}

type ReliefItem struct {
	CriterionID      string `json:"criterion_id"`
	Pillar           string `json:"pillar"`
	Category         string `json:"category"`
	Obligation       string `json:"obligation"`
	AssuranceScope   string `json:"assurance_scope"`
	Score            *int   `json:"score"`
	Applicable       bool   `json:"applicable"`
	Status           string `json:"status"`
	Urgency          string `json:"urgency"`
	IsDeferral       bool   `json:"is_deferral"`
	Relief           string `json:"relief"`
	WhatYouCanDefer  string `json:"what_you_can_defer"`
	WhatYouMustDo    string `json:"what_you_must_do"`
	Year2Requirement string `json:"year2_requirement"`
}

type JapanAlternativeItem struct {
	CriterionID string `json:"criterion_id"`
	Pillar      string `json:"pillar"`
	Category    string `json:"category"`
	Score       *int   `json:"score"`
	Alternative string `json:"alternative"`
	Action      string `json:"action"`
	Benefit     string `json:"benefit"`
}

// ClimateOnlyOption reports first-year eligibility for deferring the
// general-standard disclosures and reporting climate only. Governance and
// Risk Management criteria, along with anything in the initial assurance
// scope, stay pinned rather than deferrable.
type ClimateOnlyOption struct {
	Available         bool `json:"available"`
	DeferrableGeneral int  `json:"deferrable_general"`
	PinnedInScope     int  `json:"pinned_in_scope"`
}

type ReliefSummary struct {
	IsFirstYear          bool   `json:"is_first_year"`
	MonthsToDeadline     int    `json:"months_to_deadline"`
	FirstFYEnd           string `json:"first_fy_end"`
	TotalReliefAvailable int    `json:"total_relief_available"`
	TotalDeferred        int    `json:"total_deferred"`
	TotalSimplified      int    `json:"total_simplified"`
	CriticalNow          int    `json:"critical_now"`
	JapanAlternatives    int    `json:"japan_alternatives"`
}

type ReliefReport struct {
	Items       []ReliefItem           `json:"items"`
	JapanItems  []JapanAlternativeItem `json:"japan_items"`
	ClimateOnly ClimateOnlyOption      `json:"climate_only"`
	Summary     ReliefSummary          `json:"summary"`
}

// firstFiscalYearEnd computes the end date of the first reporting fiscal
// year. Non-March fiscal-year ends shift the calendar year the period
// closes in.
func firstFiscalYearEnd(complianceYear, fyEndMonth int) time.Time {
	adjusted := complianceYear
	if fyEndMonth > 3 {
		adjusted = complianceYear - 1
	}
	return monthEnd(adjusted, fyEndMonth)
}

// Relief determines transitional relief eligibility. Relief is a one-time
// window: once the first reporting fiscal year has ended, every item flips
// to expired regardless of score.
func (e *Engine) Relief(a *types.Assessment, today time.Time) ReliefReport {
	scores := e.scoreIndex(a)
	year := ComplianceYear(a.FiscalYear, today)
	fyEnd := a.FYEndMonth
	if fyEnd < 1 || fyEnd > 12 {
		fyEnd = 3
	}
	firstFYEnd := firstFiscalYearEnd(year, fyEnd)
	isFirstYear := !today.After(firstFYEnd)

	rep := ReliefReport{}
	for _, cr := range e.cat.Criteria() {
		detail, ok := reliefDetails[cr.ID]
		if !ok {
			continue
		}
		score := scores[cr.ID]

		item := ReliefItem{
			CriterionID:      cr.ID,
			Pillar:           cr.Pillar,
			Category:         cr.Category,
			Obligation:       cr.Obligation,
			AssuranceScope:   cr.AssuranceScope,
			Score:            score,
			Applicable:       isFirstYear,
			IsDeferral:       cr.AllowsFullDeferral,
			Relief:           detail.relief,
			WhatYouCanDefer:  detail.whatYouCanDefer,
			WhatYouMustDo:    detail.whatYouMustDo,
			Year2Requirement: detail.year2Requirement,
		}
		if isFirstYear {
			item.Status = ReliefStatusAvailable
		} else {
			item.Status = ReliefStatusExpired
		}

		switch {
		case cr.InScope() && (score == nil || *score < gapThreshold):
			item.Urgency = ReliefUrgencyCritical
			rep.Summary.CriticalNow++
		case cr.Obligation == catalog.ObligationMandatory && (score == nil || *score < 2):
			item.Urgency = ReliefUrgencyHigh
		default:
			item.Urgency = ReliefUrgencyNormal
		}

		if item.Applicable {
			rep.Summary.TotalReliefAvailable++
			if item.IsDeferral {
				rep.Summary.TotalDeferred++
			} else {
				rep.Summary.TotalSimplified++
			}
		}
		rep.Items = append(rep.Items, item)
	}

	for _, cr := range e.cat.Criteria() {
		alt, ok := japanAlternatives[cr.ID]
		if !ok {
			continue
		}
		rep.JapanItems = append(rep.JapanItems, JapanAlternativeItem{
			CriterionID: cr.ID,
			Pillar:      cr.Pillar,
			Category:    cr.Category,
			Score:       scores[cr.ID],
			Alternative: alt.alternative,
			Action:      alt.action,
			Benefit:     alt.benefit,
		})
	}

	rep.ClimateOnly = e.climateOnly(isFirstYear)
	rep.Summary.IsFirstYear = isFirstYear
	rep.Summary.MonthsToDeadline = max(0, monthsBetween(today, firstFYEnd))
	rep.Summary.FirstFYEnd = firstFYEnd.Format("January 2006")
	rep.Summary.JapanAlternatives = len(rep.JapanItems)
	return rep
}

func (e *Engine) climateOnly(isFirstYear bool) ClimateOnlyOption {
	opt := ClimateOnlyOption{Available: isFirstYear}
	for _, cr := range e.cat.ByStandard(catalog.StandardGeneral) {
		if cr.Pillar == catalog.PillarGovernance || cr.Pillar == catalog.PillarRisk || cr.InScope() {
			opt.PinnedInScope++
			continue
		}
		opt.DeferrableGeneral++
	}
	return opt
}
