package scan

import (
	"math"
	"sort"
	"time"

	"github.com/richardissailing/PyAccessibility/finding"
)

// Result is the aggregated outcome of a scan.
type Result struct {
	// Findings are deduplicated and ordered by severity (most severe
	// first), then rule id, then discovery order.
	Findings []finding.Finding `json:"findings"`

	// ElementsChecked is the total number of elements the rules visited.
	ElementsChecked int `json:"elements_checked"`

	// Score is the compliance score in [0, 100]; 100 means no findings.
	Score float64 `json:"compliance_score"`

	// Severities counts findings per severity level.
	Severities map[finding.Severity]int `json:"severity_counts"`

	// RulesRun is the number of rules that were selected for the scan.
	RulesRun int `json:"rules_run"`

	// Duration is the wall-clock time the scan took.
	Duration time.Duration `json:"duration"`
}

// Aggregate deduplicates, orders, and scores a batch of findings.
//
// Duplicates share rule id, element, and description; the first occurrence
// wins. Aggregating an already-aggregated batch changes nothing.
func Aggregate(findings []finding.Finding, elementsChecked int) *Result {
	seen := make(map[string]bool, len(findings))
	deduped := make([]finding.Finding, 0, len(findings))
	for _, f := range findings {
		key := f.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, f)
	}

	// SliceStable keeps discovery order as the final tie-breaker.
	sort.SliceStable(deduped, func(i, j int) bool {
		if c := finding.CompareSeverity(deduped[i].Severity, deduped[j].Severity); c != 0 {
			return c > 0
		}
		return deduped[i].RuleID < deduped[j].RuleID
	})

	severities := make(map[finding.Severity]int)
	weightSum := 0.0
	for _, f := range deduped {
		severities[f.Severity]++
		weightSum += f.Severity.Weight()
	}

	return &Result{
		Findings:        deduped,
		ElementsChecked: elementsChecked,
		Score:           complianceScore(weightSum, elementsChecked),
		Severities:      severities,
	}
}

// complianceScore maps the total severity weight against the number of
// checked elements onto [0, 100].
func complianceScore(weightSum float64, elementsChecked int) float64 {
	denom := elementsChecked
	if denom < 1 {
		denom = 1
	}
	score := 100 * (1 - weightSum/float64(denom))
	return math.Max(0, math.Min(100, score))
}
