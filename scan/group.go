package scan

import "github.com/richardissailing/PyAccessibility/finding"

// OtherCriterion groups findings that carry no WCAG criterion.
const OtherCriterion = "other"

// GroupByCriterion buckets findings by their WCAG criterion, preserving
// the order they appear in. Findings without a criterion land under
// OtherCriterion.
func GroupByCriterion(findings []finding.Finding) map[string][]finding.Finding {
	groups := make(map[string][]finding.Finding)
	for _, f := range findings {
		criterion := f.Criterion
		if criterion == "" {
			criterion = OtherCriterion
		}
		groups[criterion] = append(groups[criterion], f)
	}
	return groups
}

// GroupByRule buckets findings by rule id, preserving order within each
// bucket.
func GroupByRule(findings []finding.Finding) map[string][]finding.Finding {
	groups := make(map[string][]finding.Finding)
	for _, f := range findings {
		groups[f.RuleID] = append(groups[f.RuleID], f)
	}
	return groups
}
