package rule

import (
	"github.com/richardissailing/PyAccessibility/dom"
	"github.com/richardissailing/PyAccessibility/finding"
)

// Rule is a stateless accessibility check over a parsed document.
//
// Implementations must treat the document as read-only and must not carry
// per-scan state between Evaluate calls: the evaluation engine shares rule
// instances across concurrent scans. Evaluate must be a pure function of the
// rule's fixed configuration and the tree, and must not perform network or
// disk I/O.
type Rule interface {
	// ID returns the stable rule identifier (e.g. "focus-indicator").
	ID() string

	// Description returns the human-readable rule description.
	Description() string

	// DefaultSeverity returns the severity assigned to this rule's typical
	// finding. Individual findings may carry a different severity.
	DefaultSeverity() finding.Severity

	// Criterion returns the WCAG success criterion the rule maps to, or the
	// empty string when none applies.
	Criterion() string

	// Evaluate inspects the document and returns the findings it produced
	// together with the number of nodes it visited. A rule that
	// short-circuits reports a visited count reflecting only what it
	// actually inspected.
	Evaluate(doc *dom.Document) Evaluation
}

// Evaluation is the outcome of one rule's pass over a document.
type Evaluation struct {
	// Findings holds the rule's findings in traversal order.
	Findings []finding.Finding

	// Visited is the number of tree nodes the rule inspected. Counts from
	// different rules overlap; the aggregate is informational.
	Visited int
}

// Info describes one catalogue entry for tooling, without requiring a scan.
type Info struct {
	ID              string           `json:"id"`
	Description     string           `json:"description"`
	DefaultSeverity finding.Severity `json:"default_severity"`
	Criterion       string           `json:"wcag_criterion,omitempty"`
}
