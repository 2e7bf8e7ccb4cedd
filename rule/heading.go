package rule

import (
	"fmt"

	"github.com/richardissailing/PyAccessibility/dom"
	"github.com/richardissailing/PyAccessibility/finding"
)

// HeadingHierarchyRule checks that headings form a proper outline: a single
// h1 first, with no skipped levels on the way down.
type HeadingHierarchyRule struct{}

func (HeadingHierarchyRule) ID() string { return IDHeadingHierarchy }

func (HeadingHierarchyRule) Description() string {
	return "Headings must follow proper hierarchy"
}

func (HeadingHierarchyRule) DefaultSeverity() finding.Severity { return finding.SeverityError }

func (HeadingHierarchyRule) Criterion() string { return "2.4.6" }

func (r HeadingHierarchyRule) Evaluate(doc *dom.Document) Evaluation {
	var ev Evaluation

	headings := doc.FindAll("h1", "h2", "h3", "h4", "h5", "h6")
	ev.Visited = len(headings)

	h1Seen := 0
	currentLevel := 0
	for _, h := range headings {
		level := int(h.Tag()[1] - '0')

		if level == 1 {
			h1Seen++
			if h1Seen == 2 {
				ev.Findings = append(ev.Findings, finding.Finding{
					RuleID:       r.ID(),
					Severity:     finding.SeverityError,
					Element:      h.String(),
					Description:  "Multiple h1 headings found. Page should have only one main heading.",
					Criterion:    r.Criterion(),
					SuggestedFix: "Use h2-h6 for subheadings instead of multiple h1s",
				})
			}
		}

		if currentLevel == 0 && level != 1 {
			ev.Findings = append(ev.Findings, finding.Finding{
				RuleID:       r.ID(),
				Severity:     finding.SeverityError,
				Element:      h.String(),
				Description:  fmt.Sprintf("First heading must be h1, found %s", h.Tag()),
				Criterion:    r.Criterion(),
				SuggestedFix: "Change to h1 or add h1 before this heading",
			})
		} else if level > currentLevel+1 {
			ev.Findings = append(ev.Findings, finding.Finding{
				RuleID:       r.ID(),
				Severity:     finding.SeverityError,
				Element:      h.String(),
				Description:  fmt.Sprintf("Skipped heading level - found %s after h%d", h.Tag(), currentLevel),
				Criterion:    r.Criterion(),
				SuggestedFix: fmt.Sprintf("Change to h%d", currentLevel+1),
			})
		}

		currentLevel = level
	}

	return ev
}
