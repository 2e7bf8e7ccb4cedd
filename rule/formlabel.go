package rule

import (
	"fmt"
	"strings"

	"github.com/richardissailing/PyAccessibility/dom"
	"github.com/richardissailing/PyAccessibility/finding"
)

// FormLabelRule checks that form controls have an accessible label: a
// <label for=...> pointing at the control's id, or an aria-label /
// aria-labelledby attribute. Hidden inputs are exempt.
type FormLabelRule struct{}

func (FormLabelRule) ID() string { return IDFormLabel }

func (FormLabelRule) Description() string {
	return "Form inputs must have associated labels"
}

func (FormLabelRule) DefaultSeverity() finding.Severity { return finding.SeverityError }

func (FormLabelRule) Criterion() string { return "1.3.1" }

func (r FormLabelRule) Evaluate(doc *dom.Document) Evaluation {
	var ev Evaluation

	// Ids referenced by label "for" attributes anywhere in the document.
	labelled := make(map[string]bool)
	for _, label := range doc.FindAll("label") {
		if id := strings.TrimSpace(label.AttrOr("for", "")); id != "" {
			labelled[id] = true
		}
	}

	for _, input := range doc.FindAll("input", "select", "textarea") {
		if strings.EqualFold(input.AttrOr("type", ""), "hidden") {
			continue
		}
		ev.Visited++

		id, hasID := input.Attr("id")
		hasAria := input.HasAttr("aria-label") || input.HasAttr("aria-labelledby")

		if !hasID && !hasAria {
			ev.Findings = append(ev.Findings, finding.Finding{
				RuleID:       r.ID(),
				Severity:     finding.SeverityError,
				Element:      input.String(),
				Description:  "Form input lacks a proper label",
				Criterion:    r.Criterion(),
				SuggestedFix: "Add a label element with 'for' attribute, or aria-label/aria-labelledby",
			})
			continue
		}

		if hasID && !labelled[id] && !hasAria {
			ev.Findings = append(ev.Findings, finding.Finding{
				RuleID:       r.ID(),
				Severity:     finding.SeverityError,
				Element:      input.String(),
				Description:  fmt.Sprintf("No label found for input with id %q", id),
				Criterion:    r.Criterion(),
				SuggestedFix: fmt.Sprintf("Add a label with for=%q", id),
			})
		}
	}

	return ev
}
