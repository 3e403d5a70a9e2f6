package services

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/kkurosawa/ssbj-readiness-backend/internal/catalog"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/logger"
)

// AutoScore is one criterion's keyword-derived score. Evidence carries the
// matched keywords and surrounding excerpts; Notes carry the maturity label
// and the catalog guidance for the criterion.
type AutoScore struct {
	CriterionID string `json:"criterion_id"`
	Score       int    `json:"score"`
	Evidence    string `json:"evidence"`
	Notes       string `json:"notes"`
}

type AutoAssessService interface {
	ScoreAll(text string) []AutoScore
	ScoreCriterion(criterionID, text string) AutoScore
}

type autoAssessService struct {
	log *logger.Logger
	cat *catalog.Catalog
}

func NewAutoAssessService(log *logger.Logger, cat *catalog.Catalog) AutoAssessService {
	serviceLog := log.With("service", "AutoAssessService")
	return &autoAssessService{log: serviceLog, cat: cat}
}

// criterionKeywords maps criterion ids to keyword groups per maturity level.
// A criterion's score is the highest level with at least one match; no match
// at any level scores 0.
var criterionKeywords = map[string]map[int][]string{
	"GOV-01": {
		1: {"sustainability", "ESG", "oversight", "governance"},
		2: {"board", "committee", "responsible", "sustainability committee"},
		3: {"terms of reference", "mandate", "charter", "board oversight", "sustainability oversight", "reporting line"},
		4: {"regular review", "quarterly", "annual review", "monitoring", "KPI", "performance review"},
		5: {"continuous improvement", "leading practice", "integrated governance", "assurance-ready"},
	},
	"GOV-02": {
		1: {"policy", "governance", "sustainability"},
		2: {"board mandate", "corporate governance", "terms of reference"},
		3: {"sustainability policy", "governance policy", "board charter", "committee charter", "explicit reference"},
		4: {"policy review", "annual update", "policy monitoring", "compliance check"},
		5: {"integrated policy framework", "best practice", "continuous improvement"},
	},
	"GOV-03": {
		1: {"skills", "competence", "training"},
		2: {"sustainability knowledge", "board training", "expertise"},
		3: {"skills matrix", "training program", "competency framework", "sustainability expertise"},
		4: {"regular training", "competency assessment", "external advisor", "specialist"},
		5: {"continuous learning", "certified", "leading expertise"},
	},
	"GOV-04": {
		1: {"management", "role", "sustainability"},
		2: {"management responsibility", "reporting", "sustainability manager"},
		3: {"management role", "organizational chart", "reporting structure", "data owner", "role description"},
		4: {"management KPI", "performance monitoring", "regular reporting", "management review"},
		5: {"integrated management", "cross-functional", "embedded sustainability"},
	},
	"GOV-05": {
		1: {"climate", "risk", "decision"},
		2: {"climate risk", "climate factor", "investment decision"},
		3: {"climate consideration", "capital allocation", "strategic decision", "meeting minutes", "climate governance"},
		4: {"climate integration", "systematic consideration", "decision framework", "regular assessment"},
		5: {"fully integrated", "climate-aligned", "leading practice"},
	},
	"STR-01": {
		1: {"risk", "opportunity", "sustainability"},
		2: {"sustainability risk", "risk assessment", "opportunity identification"},
		3: {"risk register", "time horizon", "short-term", "medium-term", "long-term", "financial impact", "operational impact"},
		4: {"regular assessment", "risk monitoring", "quantified impact", "scenario"},
		5: {"comprehensive risk framework", "integrated risk", "dynamic assessment"},
	},
	"STR-02": {
		1: {"business model", "value chain"},
		2: {"impact assessment", "value chain risk", "business model impact"},
		3: {"value chain mapping", "dependency analysis", "business model assessment", "supply chain"},
		4: {"regular review", "dynamic assessment", "quantified dependency"},
		5: {"integrated value chain", "resilient business model"},
	},
	"STR-03": {
		1: {"financial", "impact", "sustainability"},
		2: {"financial impact", "cost", "revenue"},
		3: {"financial position", "cash flow", "balance sheet", "income statement", "quantified financial impact"},
		4: {"financial scenario", "stress test", "sensitivity analysis", "financial planning"},
		5: {"fully quantified", "integrated financial planning", "forward-looking financial"},
	},
	"STR-04": {
		1: {"climate", "scenario"},
		2: {"scenario analysis", "climate scenario", "1.5", "2 degree"},
		3: {"climate scenario analysis", "resilience assessment", "RCP", "SSP", "IEA", "NGFS", "transition scenario", "physical scenario"},
		4: {"multiple scenarios", "quantified impact", "strategic implication", "time horizon"},
		5: {"comprehensive scenario", "integrated planning", "dynamic scenario"},
	},
	"STR-05": {
		1: {"transition", "plan", "climate"},
		2: {"transition plan", "decarbonization", "net zero"},
		3: {"transition plan", "milestone", "target", "capital expenditure", "timeline", "roadmap"},
		4: {"progress tracking", "annual review", "board approved", "investment plan"},
		5: {"science-based", "SBTi", "verified", "comprehensive transition"},
	},
	"STR-06": {
		1: {"resilience", "strategy"},
		2: {"strategy resilience", "business resilience"},
		3: {"resilience assessment", "adaptability", "vulnerability", "stress test"},
		4: {"dynamic resilience", "regular reassessment", "adaptation plan"},
		5: {"fully resilient", "adaptive strategy"},
	},
	"RSK-01": {
		1: {"risk", "identification", "sustainability"},
		2: {"risk process", "risk identification", "environmental scan"},
		3: {"formal risk identification", "materiality assessment", "documented process", "risk methodology"},
		4: {"regular execution", "annual review", "stakeholder engagement", "comprehensive scan"},
		5: {"dynamic risk identification", "emerging risk", "leading practice"},
	},
	"RSK-02": {
		1: {"risk", "assessment", "monitor"},
		2: {"risk assessment", "risk prioritization", "risk monitoring"},
		3: {"risk register", "likelihood", "impact", "risk criteria", "escalation", "risk matrix"},
		4: {"regular monitoring", "risk dashboard", "KRI", "key risk indicator"},
		5: {"predictive risk", "advanced analytics", "continuous monitoring"},
	},
	"RSK-03": {
		1: {"risk management", "integration"},
		2: {"enterprise risk", "ERM", "integrated risk"},
		3: {"ERM framework", "sustainability integration", "risk appetite", "risk tolerance"},
		4: {"integrated reporting", "cross-functional", "unified framework"},
		5: {"fully integrated ERM", "leading practice"},
	},
	"RSK-04": {
		1: {"climate risk", "physical risk", "transition risk"},
		2: {"climate risk assessment", "physical risk assessment", "transition risk assessment"},
		3: {"physical risk", "transition risk", "acute", "chronic", "policy risk", "technology risk", "market risk", "reputation risk", "TCFD"},
		4: {"quantified climate risk", "regular assessment", "mitigation plan"},
		5: {"comprehensive climate risk", "integrated climate risk management"},
	},
	"RSK-05": {
		1: {"control", "data", "internal"},
		2: {"internal control", "data collection", "data quality"},
		3: {"data owner", "data collection procedure", "maker-checker", "audit trail", "reconciliation", "access control", "segregation of duties"},
		4: {"control testing", "regular review", "control monitoring", "automated control", "data validation"},
		5: {"integrated control framework", "continuous monitoring", "assurance-ready"},
	},
	"MET-01": {
		1: {"emission", "GHG", "scope 1", "greenhouse"},
		2: {"scope 1 emission", "direct emission", "GHG calculation"},
		3: {"scope 1", "direct emission", "fuel combustion", "process emission", "fugitive emission", "mobile source", "GHG protocol", "emission factor", "calculation methodology", "activity data", "tCO2", "CO2e"},
		4: {"verified", "third-party", "complete inventory", "regular review", "reconciliation", "sign-off"},
		5: {"assured", "continuous monitoring", "real-time", "leading methodology"},
	},
	"MET-02": {
		1: {"emission", "scope 2", "electricity", "energy"},
		2: {"scope 2 emission", "indirect emission", "purchased electricity"},
		3: {"scope 2", "location-based", "market-based", "grid emission factor", "electricity consumption", "utility", "energy consumption", "kWh", "MWh", "tCO2", "CO2e"},
		4: {"both approaches", "verified data", "reconciliation", "utility invoice", "regular review"},
		5: {"assured", "renewable energy certificate", "comprehensive scope 2"},
	},
	"MET-03": {
		1: {"scope 3", "value chain", "indirect"},
		2: {"scope 3 category", "upstream", "downstream", "value chain emission"},
		3: {"scope 3 category", "material category", "estimation methodology", "purchased goods", "transportation", "business travel", "employee commuting", "data source", "assumption"},
		4: {"comprehensive scope 3", "supplier engagement", "regular update", "data quality improvement"},
		5: {"verified scope 3", "science-based", "full value chain"},
	},
	"MET-04": {
		1: {"target", "reduction", "climate"},
		2: {"GHG target", "reduction target", "base year"},
		3: {"GHG reduction target", "base year", "target year", "milestone", "interim target", "absolute target", "intensity target"},
		4: {"progress tracking", "annual reporting", "on track", "SBTi"},
		5: {"science-based target", "net zero", "verified target"},
	},
	"MET-05": {
		1: {"industry", "metric", "sector"},
		2: {"industry metric", "sector metric", "SASB"},
		3: {"industry-specific", "SASB standard", "sector disclosure", "material metric"},
		4: {"comprehensive sector", "benchmarking", "peer comparison"},
		5: {"leading sector disclosure", "comprehensive SASB"},
	},
	"MET-06": {
		1: {"cross-industry", "carbon price", "climate metric"},
		2: {"transition risk amount", "physical risk amount", "carbon price"},
		3: {"internal carbon price", "capital deployment", "climate opportunity", "climate-related metric"},
		4: {"quantified cross-industry", "systematic measurement"},
		5: {"comprehensive cross-industry disclosure"},
	},
	"MET-07": {
		1: {"data", "quality", "accuracy"},
		2: {"data quality", "data accuracy", "data completeness"},
		3: {"data governance", "validation rule", "reconciliation", "error tracking", "data lineage", "completeness check", "data standard"},
		4: {"automated validation", "regular audit", "data quality KPI", "continuous improvement"},
		5: {"integrated data governance", "real-time validation", "leading data practice"},
	},
}

var whitespacePattern = regexp.MustCompile(`\s+`)

// findExcerpts returns snippets of text around the first occurrence of each
// keyword, up to maxExcerpts, with runs of whitespace collapsed. Window
// edges snap to rune boundaries so multibyte text is never cut mid-rune.
func findExcerpts(text string, keywords []string, maxExcerpts int) []string {
	var excerpts []string
	textLower := strings.ToLower(text)
	for _, kw := range keywords {
		pos := strings.Index(textLower, strings.ToLower(kw))
		if pos < 0 {
			continue
		}
		start := max(0, pos-80)
		for start > 0 && !utf8.RuneStart(text[start]) {
			start--
		}
		end := min(len(text), pos+len(kw)+80)
		for end < len(text) && !utf8.RuneStart(text[end]) {
			end++
		}
		snippet := strings.TrimSpace(text[start:end])
		snippet = whitespacePattern.ReplaceAllString(snippet, " ")
		if snippet == "" {
			continue
		}
		snippet = "..." + snippet + "..."
		if !containsString(excerpts, snippet) {
			excerpts = append(excerpts, snippet)
		}
		if len(excerpts) >= maxExcerpts {
			break
		}
	}
	return excerpts
}

func containsString(items []string, s string) bool {
	for _, it := range items {
		if it == s {
			return true
		}
	}
	return false
}

func dedupeStrings(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}

func (s *autoAssessService) ScoreCriterion(criterionID, text string) AutoScore {
	levels, ok := criterionKeywords[criterionID]
	if !ok {
		return AutoScore{
			CriterionID: criterionID,
			Score:       0,
			Notes:       "No auto-assessment keywords defined for this criterion.",
		}
	}

	textLower := strings.ToLower(text)
	bestLevel := 0
	var allMatched []string
	var allExcerpts []string

	levelKeys := make([]int, 0, len(levels))
	for lvl := range levels {
		levelKeys = append(levelKeys, lvl)
	}
	sort.Ints(levelKeys)

	for _, lvl := range levelKeys {
		var matched []string
		for _, kw := range levels[lvl] {
			if strings.Contains(textLower, strings.ToLower(kw)) {
				matched = append(matched, kw)
			}
		}
		if len(matched) == 0 {
			continue
		}
		bestLevel = lvl
		allMatched = append(allMatched, matched...)
		allExcerpts = append(allExcerpts, findExcerpts(text, matched, 2)...)
	}

	if bestLevel == 0 {
		return AutoScore{
			CriterionID: criterionID,
			Score:       0,
			Notes:       "No relevant content found in uploaded documents.",
		}
	}

	uniqueMatched := dedupeStrings(allMatched)
	if len(uniqueMatched) > 10 {
		uniqueMatched = uniqueMatched[:10]
	}
	evidence := "[Auto-assessed] Keywords found: " + strings.Join(uniqueMatched, ", ")
	if uniqueExcerpts := dedupeStrings(allExcerpts); len(uniqueExcerpts) > 0 {
		if len(uniqueExcerpts) > 4 {
			uniqueExcerpts = uniqueExcerpts[:4]
		}
		evidence += "\n\nRelevant excerpts:\n" + strings.Join(uniqueExcerpts, "\n")
	}

	notes := fmt.Sprintf("[Auto-assessed] Maturity level %d based on document analysis.", bestLevel)
	if crit := s.cat.ByID(criterionID); crit != nil {
		notes += "\nGuidance: " + crit.Guidance
	}

	return AutoScore{
		CriterionID: criterionID,
		Score:       bestLevel,
		Evidence:    evidence,
		Notes:       notes,
	}
}

// ScoreAll scores every catalog criterion against the combined document
// text, in catalog order.
func (s *autoAssessService) ScoreAll(text string) []AutoScore {
	criteria := s.cat.Criteria()
	out := make([]AutoScore, 0, len(criteria))
	for _, c := range criteria {
		out = append(out, s.ScoreCriterion(c.ID, text))
	}
	return out
}
