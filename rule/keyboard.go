package rule

import (
	"strconv"
	"strings"

	"github.com/richardissailing/PyAccessibility/dom"
	"github.com/richardissailing/PyAccessibility/finding"
)

var keyboardInteractiveTags = map[string]bool{
	"a":        true,
	"button":   true,
	"input":    true,
	"select":   true,
	"textarea": true,
}

// KeyboardNavRule checks that interactive behavior is reachable from the
// keyboard.
//
// Candidates are the native interactive tags plus anything given a click
// handler, a button/link role, or a tabindex. A negative tabindex and a
// click handler without a matching key handler are independent findings.
type KeyboardNavRule struct{}

func (KeyboardNavRule) ID() string { return IDKeyboardNav }

func (KeyboardNavRule) Description() string {
	return "Elements must be keyboard accessible"
}

func (KeyboardNavRule) DefaultSeverity() finding.Severity { return finding.SeverityError }

func (KeyboardNavRule) Criterion() string { return "2.1.1" }

func (r KeyboardNavRule) Evaluate(doc *dom.Document) Evaluation {
	var ev Evaluation

	doc.Walk(func(n *dom.Node) {
		role := strings.ToLower(n.AttrOr("role", ""))
		candidate := keyboardInteractiveTags[n.Tag()] ||
			n.HasAttr("onclick") ||
			role == "button" || role == "link" ||
			n.HasAttr("tabindex")
		if !candidate {
			return
		}
		ev.Visited++

		if tabindex, ok := n.Attr("tabindex"); ok {
			if v, err := strconv.Atoi(strings.TrimSpace(tabindex)); err == nil && v < 0 {
				ev.Findings = append(ev.Findings, finding.Finding{
					RuleID:       r.ID(),
					Severity:     finding.SeverityError,
					Element:      n.String(),
					Description:  "Negative tabindex prevents keyboard focus",
					Criterion:    r.Criterion(),
					SuggestedFix: "Remove negative tabindex or set to 0",
				})
			}
		}

		if n.HasAttr("onclick") && !n.HasAttr("onkeypress") && !n.HasAttr("onkeydown") {
			ev.Findings = append(ev.Findings, finding.Finding{
				RuleID:       r.ID(),
				Severity:     finding.SeverityError,
				Element:      n.String(),
				Description:  "Click handler without keyboard handler",
				Criterion:    r.Criterion(),
				SuggestedFix: "Add onkeypress or onkeydown handler for keyboard users",
			})
		}
	})

	return ev
}
