package derive

import (
	"math"
	"strings"

	"github.com/kkurosawa/ssbj-readiness-backend/internal/types"
)

const (
	ReadinessReady      = "ready"
	ReadinessBorderline = "borderline"
	ReadinessAtRisk     = "at_risk"
	ReadinessNotReady   = "not_ready"
	ReadinessUnknown    = "unknown"
)

type auditBank struct {
	auditorIntro    string
	inquiry         []string
	documentsNeeded []string
	analytical      string
	redFlags        []string
}

// disclosureAuditBanks covers every criterion inside the initial limited
// assurance scope. The procedures follow ISSA 5000: inquiry, analytical
// review, and inspection.
var disclosureAuditBanks = map[string]auditBank{
	"GOV-01": {
		auditorIntro: "The auditor will verify that a governance body with sustainability oversight actually exists and functions.",
		inquiry: []string{
			"Which board committee or individual has formal responsibility for sustainability oversight?",
			"When was this mandate established and how often does the committee meet?",
			"Can you describe the reporting line from sustainability management to the board?",
		},
		documentsNeeded: []string{
			"Board committee charter or terms of reference mentioning sustainability",
			"Board resolution establishing sustainability oversight",
			"Organizational chart showing governance structure",
		},
		analytical: "The auditor will compare your governance structure against IFRS S1 para 26 requirements and check for consistency with your corporate governance report filed with TSE.",
		redFlags: []string{
			"No formal committee charter mentioning sustainability",
			"Sustainability oversight added informally without board resolution",
			"Committee has not met in the past 12 months",
		},
	},
	"GOV-02": {
		auditorIntro: "The auditor will verify that governance responsibilities are formally documented in policies.",
		inquiry: []string{
			"Where in your governance policies is sustainability oversight explicitly referenced?",
			"When was the policy last reviewed and approved by the board?",
			"How do you ensure the policy is communicated to relevant personnel?",
		},
		documentsNeeded: []string{
			"Corporate governance policy or board charter with sustainability language",
			"Board approval minutes for the policy",
			"Evidence of policy communication (e.g., intranet publication, training)",
		},
		analytical: "The auditor will cross-reference your governance policy with IFRS S1 requirements and verify the language matches your actual governance practices.",
		redFlags: []string{
			"Generic sustainability language with no specific responsibilities defined",
			"Policy exists but was never formally approved",
			"Policy references outdated standards (e.g., TCFD without SSBJ/ISSB update)",
		},
	},
	"GOV-04": {
		auditorIntro: "The auditor will verify that management actively monitors sustainability risks and reports to the board.",
		inquiry: []string{
			"Who in management is specifically responsible for sustainability data and reporting?",
			"How does management report sustainability matters to the governance body?",
			"How frequently are sustainability reports provided to the board?",
			"What controls and procedures does management use to monitor sustainability risks?",
		},
		documentsNeeded: []string{
			"Management role descriptions with sustainability responsibilities",
			"RACI matrix or responsibility assignment document",
			"Samples of management reports to the board on sustainability",
			"Meeting agendas and minutes showing sustainability discussions",
		},
		analytical: "The auditor will verify that management reporting is regular and substantive, not just a one-time mention. They will check frequency, depth, and whether the board took any action based on reports.",
		redFlags: []string{
			"No named individual responsible for sustainability data",
			"Sustainability appears in board agenda only once per year",
			"Management reports are generic with no entity-specific data",
		},
	},
	"GOV-05": {
		auditorIntro: "The auditor will verify that climate risks are actively considered in management decision-making.",
		inquiry: []string{
			"Can you give a specific example of a business decision where climate risk was considered?",
			"How are climate factors incorporated into capital investment approvals?",
			"Is there an internal carbon price or climate screening in your investment process?",
		},
		documentsNeeded: []string{
			"Investment approval template or checklist showing climate criteria",
			"Meeting minutes where climate was discussed in a business decision",
			"Capital expenditure review documents with climate assessment",
		},
		analytical: "The auditor will look for evidence that climate integration is systematic (embedded in processes) rather than ad-hoc (mentioned once). They will sample recent investment decisions.",
		redFlags: []string{
			"No evidence of climate in any investment decision",
			"Climate mentioned only in sustainability report, not in actual decision processes",
			"Climate assessment exists but is always marked 'not applicable'",
		},
	},
	"RSK-01": {
		auditorIntro: "The auditor will verify you have a documented, repeatable process for identifying sustainability risks.",
		inquiry: []string{
			"Describe your process for identifying sustainability-related risks and opportunities.",
			"Who participates in the risk identification process?",
			"How often is risk identification performed?",
			"What sources of information do you use to identify emerging risks?",
		},
		documentsNeeded: []string{
			"Risk identification methodology document",
			"Workshop attendance records or participant list",
			"Risk register output from the most recent identification exercise",
			"Evidence of external scanning (industry reports, regulatory updates reviewed)",
		},
		analytical: "The auditor will assess whether the methodology is documented and consistently applied. They will compare the risk register against known industry risks to test completeness.",
		redFlags: []string{
			"No written methodology, risks identified ad-hoc",
			"Risk register has not been updated in over 12 months",
			"Obvious industry risks (e.g., physical climate risk for coastal facilities) missing",
		},
	},
	"RSK-02": {
		auditorIntro: "The auditor will verify you have criteria for assessing and prioritizing sustainability risks.",
		inquiry: []string{
			"What criteria do you use to assess likelihood and impact of sustainability risks?",
			"How do you prioritize sustainability risks relative to other business risks?",
			"Who is assigned as owner for each identified risk?",
			"How do you monitor risks between assessment cycles?",
		},
		documentsNeeded: []string{
			"Risk assessment criteria (likelihood/impact matrix)",
			"Risk register with scores and risk owners",
			"Evidence of monitoring activities (status updates, KRIs)",
		},
		analytical: "The auditor will test whether risk scores are consistent with the criteria. They may challenge outlier scores (e.g., a high-carbon company rating transition risk as 'low').",
		redFlags: []string{
			"No documented assessment criteria, scores assigned subjectively",
			"All risks rated the same (no differentiation)",
			"No risk owners assigned",
		},
	},
	"RSK-03": {
		auditorIntro: "The auditor will verify sustainability risks are integrated into your enterprise risk management, not siloed.",
		inquiry: []string{
			"How does your sustainability risk register connect to the enterprise risk register?",
			"Is sustainability reported alongside other risk categories to the board?",
			"Does your ERM policy explicitly reference sustainability risks?",
		},
		documentsNeeded: []string{
			"ERM policy or framework document showing sustainability integration",
			"Combined risk report to board including sustainability risks",
			"Evidence that sustainability risks are discussed in ERM committee meetings",
		},
		analytical: "The auditor will compare the sustainability risk register with the ERM register. They expect to see the same risks in both, with consistent scoring.",
		redFlags: []string{
			"Sustainability risks managed in separate silo with no ERM linkage",
			"ERM policy makes no mention of sustainability or climate",
			"Board sees sustainability risks in a separate report from other risks",
		},
	},
	"RSK-04": {
		auditorIntro: "The auditor will verify you have identified and categorized both physical and transition climate risks.",
		inquiry: []string{
			"What physical climate risks (acute and chronic) have you identified?",
			"What transition risks (policy, technology, market, reputation) apply to your business?",
			"How did you assess each risk: qualitative, semi-quantitative, or quantitative?",
			"What is the geographic scope of your physical risk assessment?",
		},
		documentsNeeded: []string{
			"Climate risk assessment report with physical and transition categories",
			"Physical risk screening results (e.g., flood maps, heat stress data)",
			"Transition risk analysis (policy landscape, technology disruption assessment)",
		},
		analytical: "The auditor will check that both physical AND transition risks are covered. They will assess whether the geographic scope matches your operational footprint.",
		redFlags: []string{
			"Only transition risks identified, physical risks ignored",
			"Physical risk assessment limited to headquarters, not covering all facilities",
			"No distinction between acute (typhoons, floods) and chronic (sea level, heat) risks",
		},
	},
	"RSK-05": {
		auditorIntro: "The auditor will examine your internal controls over sustainability data. This is THE critical item for limited assurance.",
		inquiry: []string{
			"Who is responsible for collecting, calculating, and reporting GHG data?",
			"Describe your maker-checker process for GHG calculations.",
			"How do you ensure all emission sources are captured (completeness)?",
			"What happens when an error is discovered in reported data?",
			"How are source documents (invoices, meter readings) retained?",
		},
		documentsNeeded: []string{
			"Data collection procedures document (step-by-step)",
			"RACI matrix for GHG reporting roles",
			"Sample calculation with reviewer sign-off",
			"Error log or correction records",
			"Source document samples (fuel invoices, electricity bills)",
			"Reconciliation between source data and reported figures",
		},
		analytical: "The auditor will select sample emission sources and trace data from source documents through calculations to the final reported figure (walkthrough test). They will recalculate selected items.",
		redFlags: []string{
			"One person does everything, no segregation of duties",
			"No written procedures, calculation done 'from experience'",
			"Source documents not retained or organized",
			"No reconciliation between activity data and financial records",
			"Errors found but no correction log maintained",
		},
	},
	"MET-01": {
		auditorIntro: "The auditor will verify your Scope 1 emissions calculation: methodology, data, and completeness.",
		inquiry: []string{
			"What methodology do you use for Scope 1 calculations (GHG Protocol, etc.)?",
			"How do you identify all direct emission sources?",
			"What emission factors do you use and where do they come from?",
			"How do you handle estimation when measured data is unavailable?",
		},
		documentsNeeded: []string{
			"Scope 1 calculation methodology document",
			"Complete list of emission sources (fuel combustion, process, fugitive, mobile)",
			"Emission factors with source references and publication dates",
			"Activity data with source documents (fuel invoices, meter readings)",
			"Calculation spreadsheet with reviewer sign-off",
		},
		analytical: "The auditor will test completeness by comparing emission sources to your facility register, recalculate selected items, compare year-over-year and to industry benchmarks, and verify emission factors against published sources.",
		redFlags: []string{
			"Emission sources list does not match facility register (missing sites)",
			"Emission factors are outdated or from unrecognized sources",
			"Significant year-over-year change with no explanation",
			"No source documents for activity data (estimates only)",
		},
	},
	"MET-02": {
		auditorIntro: "The auditor will verify your Scope 2 emissions, both location-based and market-based methods.",
		inquiry: []string{
			"Do you report both location-based and market-based Scope 2?",
			"Which grid emission factors do you use for location-based calculation?",
			"Do you have any contractual instruments (green certificates, PPAs) for market-based?",
			"How do you ensure all purchased energy is captured?",
		},
		documentsNeeded: []string{
			"Scope 2 calculation for both methods (or location-based only if Year 1)",
			"Grid emission factors with source reference (MOE Japan area-specific)",
			"Electricity bills for all facilities",
			"Green energy certificates or PPA contracts (if applicable)",
			"Reconciliation of energy consumption to financial records",
		},
		analytical: "The auditor will cross-check electricity consumption against utility invoices, verify grid emission factors match the correct geographic area, and test that all facilities are included by comparing to your facility list.",
		redFlags: []string{
			"Only reporting one method",
			"Using national average emission factor instead of area-specific",
			"Some facility electricity not captured (e.g., leased space)",
			"Market-based claims without valid contractual instruments",
		},
	},
	"MET-07": {
		auditorIntro: "The auditor will assess the quality and reliability of your sustainability data processes.",
		inquiry: []string{
			"How do you validate data at the point of entry?",
			"What reconciliation procedures do you perform before reporting?",
			"How do you track and correct errors?",
			"Can you trace any reported figure back to its source document?",
		},
		documentsNeeded: []string{
			"Data flow diagram (source, collection, calculation, reporting)",
			"Validation rules or reasonableness checks documentation",
			"Reconciliation checklist or evidence",
			"Error log with correction records",
			"Data lineage documentation for at least one metric",
		},
		analytical: "The auditor will test the data trail end-to-end: pick a reported number and trace it backwards through each step to the source document. They will also check for anomalies in the data.",
		redFlags: []string{
			"No data flow diagram, unclear how data moves through the system",
			"No validation rules, data accepted without checks",
			"Cannot trace a reported figure back to source within a reasonable time",
			"No error correction process, mistakes discovered but not logged",
		},
	},
}

// controlAuditBanks covers the key internal-control criteria an auditor
// walks through in addition to the disclosure criteria.
var controlAuditBanks = map[string]auditBank{
	"LA-01": {
		auditorIntro: "The auditor will verify your organizational boundary is clearly defined and appropriate.",
		inquiry: []string{
			"What consolidation approach do you use: operational control or equity share?",
			"Which entities are included and excluded from your GHG boundary?",
			"Does your GHG boundary align with your financial reporting boundary?",
		},
		documentsNeeded: []string{
			"Organizational boundary document listing all included/excluded entities",
			"Justification for any exclusions",
			"Comparison to financial reporting consolidation scope",
		},
		analytical: "The auditor will compare your GHG boundary to the list of subsidiaries in your annual securities report to identify any gaps.",
		redFlags: []string{
			"Boundary not documented, just assumed to be 'the company'",
			"Significant subsidiaries excluded without justification",
			"Boundary inconsistent with financial reporting scope",
		},
	},
	"LA-02": {
		auditorIntro: "The auditor will verify you have identified ALL Scope 1 and Scope 2 emission sources.",
		inquiry: []string{
			"How do you ensure your emission source inventory is complete?",
			"When was the inventory last reviewed for completeness?",
			"How do you handle new facilities, equipment changes, or divestments?",
		},
		documentsNeeded: []string{
			"Complete emission source inventory list",
			"Cross-reference to asset register or facility list",
			"Evidence of annual completeness review",
		},
		analytical: "The auditor will compare your source inventory to your fixed asset register and facility list. Missing sources indicate a completeness gap.",
		redFlags: []string{
			"Inventory not cross-checked against asset register",
			"Refrigerant/fugitive emissions not included",
			"Company vehicles not included in Scope 1",
		},
	},
	"LA-03": {
		auditorIntro: "The auditor will examine your calculation methodology and verify it is appropriate.",
		inquiry: []string{
			"Is your calculation methodology documented in a manual or procedure?",
			"Which GWP values do you use (IPCC AR5 or AR6)?",
			"How do you select and update emission factors?",
		},
		documentsNeeded: []string{
			"Written calculation manual or methodology document",
			"Emission factor database with sources and version dates",
			"GWP values used with IPCC source reference",
		},
		analytical: "The auditor will verify emission factors against published sources and check that GWP values are consistently applied.",
		redFlags: []string{
			"No written methodology, calculations done differently each year",
			"Emission factors from unknown or outdated sources",
			"Inconsistent GWP values (mixing AR4 and AR5)",
		},
	},
	"LA-06": {
		auditorIntro: "The auditor will verify that an independent review of calculations occurs before disclosure.",
		inquiry: []string{
			"Who reviews GHG calculations before they are finalized?",
			"Is the reviewer independent from the preparer (segregation of duties)?",
			"How is the review documented, is there a sign-off?",
		},
		documentsNeeded: []string{
			"Calculation file with reviewer sign-off and date",
			"Evidence that reviewer is different from preparer",
			"Review checklist or comments (if any)",
		},
		analytical: "The auditor will check the sign-off trail and verify the reviewer has appropriate qualifications. The same person preparing and reviewing is a control failure.",
		redFlags: []string{
			"Same person prepares and reviews (no maker-checker)",
			"Review sign-off exists but reviewer cannot explain what they checked",
			"No date on review, unclear when it was performed",
		},
	},
	"LA-07": {
		auditorIntro: "The auditor will test whether your documentation is sufficient to reconstruct reported figures.",
		inquiry: []string{
			"How long do you retain source documents?",
			"Where are calculation files and supporting documents stored?",
			"Can you show me the audit trail for a specific reported number?",
		},
		documentsNeeded: []string{
			"Document retention policy",
			"Organized filing system (physical or digital)",
			"Ability to produce source documents for any reported figure on request",
		},
		analytical: "The auditor will select a random emission source and ask you to produce the complete trail: source document, activity data, calculation, reported figure. Response time matters.",
		redFlags: []string{
			"Source documents stored on personal drives with no backup",
			"Cannot locate documents for prior-year figures",
			"No version control, unclear which spreadsheet version was used for reporting",
		},
	},
	"LA-10": {
		auditorIntro: "The auditor will request a formal management representation letter, standard under ISSA 5000.",
		inquiry: []string{
			"Is management prepared to sign a representation letter confirming the completeness and accuracy of GHG data?",
			"Who has the authority to sign management representations?",
			"Are you aware of any uncorrected misstatements or omissions?",
		},
		documentsNeeded: []string{
			"Draft management representation letter template",
			"Identification of appropriate signatory (CFO, CEO, or equivalent)",
		},
		analytical: "The auditor will provide a template or request specific confirmations. Refusal to sign or extensive qualifications is a significant issue.",
		redFlags: []string{
			"No one in management is willing to sign representations",
			"Management cannot confirm completeness of emission sources",
			"Known errors exist that have not been corrected",
		},
	},
}

type Readiness struct {
	Level   string `json:"level"`
	Label   string `json:"label"`
	Message string `json:"message"`
}

type DocumentCheck struct {
	Document  string `json:"document"`
	Mentioned bool   `json:"mentioned"`
}

type AuditItem struct {
	CriterionID     string          `json:"criterion_id"`
	Pillar          string          `json:"pillar,omitempty"`
	Category        string          `json:"category"`
	Requirement     string          `json:"requirement"`
	Score           *int            `json:"score,omitempty"`
	Evidence        string          `json:"evidence,omitempty"`
	Readiness       *Readiness      `json:"readiness,omitempty"`
	AuditorIntro    string          `json:"auditor_intro"`
	Inquiry         []string        `json:"inquiry"`
	DocumentsNeeded []DocumentCheck `json:"documents_needed"`
	Analytical      string          `json:"analytical"`
	RedFlags        []string        `json:"red_flags"`
}

type ReadinessSummary struct {
	Total      int `json:"total"`
	Ready      int `json:"ready"`
	Borderline int `json:"borderline"`
	AtRisk     int `json:"at_risk"`
	NotReady   int `json:"not_ready"`
	Unknown    int `json:"unknown"`
	ReadyPct   int `json:"ready_pct"`
	PassPct    int `json:"pass_pct"`
}

type AuditReport struct {
	DisclosureItems []AuditItem      `json:"disclosure_items"`
	ControlItems    []AuditItem      `json:"control_items"`
	Summary         ReadinessSummary `json:"summary"`
}

func scoreToReadiness(score *int) Readiness {
	switch {
	case score == nil:
		return Readiness{ReadinessUnknown, "Not Assessed",
			"This criterion has not been scored. Complete the assessment first."}
	case *score >= 4:
		return Readiness{ReadinessReady, "Assurance Ready",
			"Your processes appear mature enough for limited assurance. Focus on maintaining documentation."}
	case *score == 3:
		return Readiness{ReadinessBorderline, "Borderline",
			"Minimum threshold met, but the auditor may find gaps in documentation or consistency. Review the red flags below."}
	case *score == 2:
		return Readiness{ReadinessAtRisk, "At Risk",
			"Below threshold. Basic processes exist but are likely insufficient for assurance. Prioritize the documents needed."}
	default:
		return Readiness{ReadinessNotReady, "Not Ready",
			"Significant work needed. Start with the minimum documents listed and establish basic processes."}
	}
}

// evidenceMentions does crude keyword matching of a needed document title
// against the free-text evidence a user supplied. It only signals whether
// the evidence plausibly refers to the document, nothing stronger.
func evidenceMentions(evidence, document string) bool {
	if evidence == "" {
		return false
	}
	evidence = strings.ToLower(evidence)
	matched := 0
	for _, w := range strings.Fields(document) {
		if len(w) <= 4 {
			continue
		}
		matched++
		if strings.Contains(evidence, strings.ToLower(w)) {
			return true
		}
		if matched == 3 {
			break
		}
	}
	return false
}

// Audit builds the mock-audit walkthrough for every in-scope disclosure
// criterion and the key internal-control items.
func (e *Engine) Audit(a *types.Assessment) AuditReport {
	evidence := make(map[string]string, len(a.Responses))
	for i := range a.Responses {
		evidence[a.Responses[i].CriterionID] = a.Responses[i].EvidenceText
	}
	scores := e.scoreIndex(a)

	var rep AuditReport
	counts := map[string]int{}
	for _, cr := range e.cat.InScopeCriteria() {
		bank, ok := disclosureAuditBanks[cr.ID]
		if !ok {
			continue
		}
		score := scores[cr.ID]
		ready := scoreToReadiness(score)
		counts[ready.Level]++

		docs := make([]DocumentCheck, 0, len(bank.documentsNeeded))
		for _, d := range bank.documentsNeeded {
			docs = append(docs, DocumentCheck{Document: d, Mentioned: evidenceMentions(evidence[cr.ID], d)})
		}
		rep.DisclosureItems = append(rep.DisclosureItems, AuditItem{
			CriterionID:     cr.ID,
			Pillar:          cr.Pillar,
			Category:        cr.Category,
			Requirement:     cr.Requirement,
			Score:           score,
			Evidence:        evidence[cr.ID],
			Readiness:       &ready,
			AuditorIntro:    bank.auditorIntro,
			Inquiry:         bank.inquiry,
			DocumentsNeeded: docs,
			Analytical:      bank.analytical,
			RedFlags:        bank.redFlags,
		})
	}

	for _, ctl := range e.cat.Controls() {
		bank, ok := controlAuditBanks[ctl.ID]
		if !ok {
			continue
		}
		docs := make([]DocumentCheck, 0, len(bank.documentsNeeded))
		for _, d := range bank.documentsNeeded {
			docs = append(docs, DocumentCheck{Document: d})
		}
		rep.ControlItems = append(rep.ControlItems, AuditItem{
			CriterionID:     ctl.ID,
			Category:        ctl.Category,
			Requirement:     ctl.Requirement,
			AuditorIntro:    bank.auditorIntro,
			Inquiry:         bank.inquiry,
			DocumentsNeeded: docs,
			Analytical:      bank.analytical,
			RedFlags:        bank.redFlags,
		})
	}

	total := len(rep.DisclosureItems)
	rep.Summary = ReadinessSummary{
		Total:      total,
		Ready:      counts[ReadinessReady],
		Borderline: counts[ReadinessBorderline],
		AtRisk:     counts[ReadinessAtRisk],
		NotReady:   counts[ReadinessNotReady],
		Unknown:    counts[ReadinessUnknown],
	}
	if total > 0 {
		rep.Summary.ReadyPct = int(math.Round(float64(counts[ReadinessReady]) / float64(total) * 100))
		rep.Summary.PassPct = int(math.Round(float64(counts[ReadinessReady]+counts[ReadinessBorderline]) / float64(total) * 100))
	}
	return rep
}
