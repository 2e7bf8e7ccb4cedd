package rule

import (
	"strconv"
	"strings"

	"github.com/richardissailing/PyAccessibility/dom"
	"github.com/richardissailing/PyAccessibility/finding"
)

// naturallyFocusable lists tags the browser places in the focus order
// without author intervention.
var naturallyFocusable = map[string]bool{
	"a":        true,
	"button":   true,
	"input":    true,
	"select":   true,
	"textarea": true,
	"summary":  true,
	"details":  true,
}

var styleWhitespace = strings.NewReplacer(" ", "", "\t", "", "\n", "", "\r", "")

// FocusIndicatorRule flags interactive elements whose visible focus
// indicator is removed or that are pulled out of the focus order.
//
// Interactive elements are links, buttons, form controls, <summary> and
// <details>, any element with a numeric tabindex, and contenteditable
// elements. Each element can yield two independent findings: an inline style
// disabling the outline, and a negative tabindex on an element that is not
// naturally focusable. Non-numeric tabindex values are ignored.
type FocusIndicatorRule struct{}

func (FocusIndicatorRule) ID() string { return IDFocusIndicator }

func (FocusIndicatorRule) Description() string {
	return "Interactive elements must have visible focus indicators"
}

func (FocusIndicatorRule) DefaultSeverity() finding.Severity { return finding.SeverityError }

func (FocusIndicatorRule) Criterion() string { return "2.4.7" }

func (r FocusIndicatorRule) Evaluate(doc *dom.Document) Evaluation {
	var ev Evaluation

	doc.Walk(func(n *dom.Node) {
		tabindex, hasTabindex := n.Attr("tabindex")
		numericTabindex := false
		negativeTabindex := false
		if hasTabindex {
			if v, err := strconv.Atoi(strings.TrimSpace(tabindex)); err == nil {
				numericTabindex = true
				negativeTabindex = v < 0
			}
		}

		interactive := naturallyFocusable[n.Tag()] || numericTabindex || n.HasAttr("contenteditable")
		if !interactive {
			return
		}
		ev.Visited++

		style := styleWhitespace.Replace(strings.ToLower(n.AttrOr("style", "")))
		if strings.Contains(style, "outline:none") || strings.Contains(style, "outline:0") {
			ev.Findings = append(ev.Findings, finding.Finding{
				RuleID:       r.ID(),
				Severity:     finding.SeverityError,
				Element:      n.String(),
				Description:  "Element removes focus indicator",
				Criterion:    r.Criterion(),
				SuggestedFix: "Remove outline:none/0 and ensure focus indicator is visible",
			})
		}

		if negativeTabindex && !naturallyFocusable[n.Tag()] {
			ev.Findings = append(ev.Findings, finding.Finding{
				RuleID:       r.ID(),
				Severity:     finding.SeverityError,
				Element:      n.String(),
				Description:  "Element is programmatically removed from focus order",
				Criterion:    r.Criterion(),
				SuggestedFix: "Remove negative tabindex unless deliberately managing focus",
			})
		}
	})

	return ev
}
