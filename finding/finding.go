package finding

import "fmt"

// Finding represents one accessibility defect detected in a document.
//
// A Finding is a value object: it is never mutated after creation, and two
// findings with the same Key describe the same logical defect. Rules
// construct findings with New and hand them to the evaluation engine; the
// aggregator deduplicates, orders, and scores them.
type Finding struct {
	// RuleID is the identifier of the rule that produced this finding.
	RuleID string `json:"rule_id"`

	// Description explains the defect for the specific violating element,
	// not just the rule's generic description.
	Description string `json:"description"`

	// Element is a serialized representation of the offending node
	// (tag plus attributes), sufficient to render and to locate it.
	Element string `json:"element"`

	// Severity indicates the severity level of the finding.
	Severity Severity `json:"severity"`

	// Criterion is the WCAG success criterion this finding maps to
	// (e.g. "1.1.1"). Findings without a criterion group under "other".
	Criterion string `json:"wcag_criterion,omitempty"`

	// SuggestedFix provides remediation guidance.
	SuggestedFix string `json:"suggested_fix,omitempty"`

	// HelpURL links to documentation about the underlying requirement.
	HelpURL string `json:"help_url,omitempty"`
}

// New creates a Finding with the required fields.
func New(ruleID string, severity Severity, element, description string) Finding {
	return Finding{
		RuleID:      ruleID,
		Severity:    severity,
		Element:     element,
		Description: description,
	}
}

// Key returns the structural identity of the finding used for
// deduplication: rule identifier, serialized element, and description.
// Severity and remediation text deliberately do not participate.
func (f Finding) Key() string {
	return f.RuleID + "\x00" + f.Element + "\x00" + f.Description
}

// Validate checks if the finding has all required fields and valid values.
func (f Finding) Validate() error {
	if f.RuleID == "" {
		return fmt.Errorf("rule ID is required")
	}
	if f.Description == "" {
		return fmt.Errorf("description is required")
	}
	if f.Element == "" {
		return fmt.Errorf("element is required")
	}
	if !f.Severity.IsValid() {
		return fmt.Errorf("invalid severity: %s", f.Severity)
	}
	return nil
}
