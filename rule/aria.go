package rule

import (
	"fmt"
	"sort"
	"strings"

	"github.com/richardissailing/PyAccessibility/dom"
	"github.com/richardissailing/PyAccessibility/finding"
)

// validAriaRoles is the fixed set of widget and composite roles the rule
// recognizes.
var validAriaRoles = map[string]bool{
	"alert": true, "alertdialog": true, "button": true, "checkbox": true,
	"combobox": true, "dialog": true, "grid": true, "gridcell": true,
	"link": true, "listbox": true, "log": true, "marquee": true,
	"menu": true, "menubar": true, "menuitem": true, "menuitemcheckbox": true,
	"menuitemradio": true, "option": true, "progressbar": true, "radio": true,
	"radiogroup": true, "scrollbar": true, "slider": true, "spinbutton": true,
	"status": true, "tab": true, "tablist": true, "tabpanel": true,
	"textbox": true, "timer": true, "tooltip": true, "tree": true,
	"treegrid": true, "treeitem": true,
	// Structural roles used by other rules.
	"columnheader": true, "rowheader": true, "main": true, "presentation": true,
}

// AriaRolesRule checks ARIA role and state usage.
type AriaRolesRule struct{}

func (AriaRolesRule) ID() string { return IDAriaRoles }

func (AriaRolesRule) Description() string {
	return "ARIA roles and attributes must be used correctly"
}

func (AriaRolesRule) DefaultSeverity() finding.Severity { return finding.SeverityError }

func (AriaRolesRule) Criterion() string { return "4.1.2" }

func (r AriaRolesRule) Evaluate(doc *dom.Document) Evaluation {
	var ev Evaluation

	for _, el := range doc.FindWithAttr("role") {
		ev.Visited++
		role := strings.ToLower(strings.TrimSpace(el.AttrOr("role", "")))

		if !validAriaRoles[role] {
			ev.Findings = append(ev.Findings, finding.Finding{
				RuleID:       r.ID(),
				Severity:     finding.SeverityError,
				Element:      el.String(),
				Description:  fmt.Sprintf("Invalid ARIA role: %q", role),
				Criterion:    r.Criterion(),
				SuggestedFix: fmt.Sprintf("Use a valid ARIA role from: %s", strings.Join(sortedRoles(), ", ")),
			})
		}

		if role == "button" && !el.HasAttr("aria-pressed") {
			ev.Findings = append(ev.Findings, finding.Finding{
				RuleID:       r.ID(),
				Severity:     finding.SeverityWarning,
				Element:      el.String(),
				Description:  "Button role should have aria-pressed state",
				Criterion:    r.Criterion(),
				SuggestedFix: "Add aria-pressed attribute to button role",
			})
		}
	}

	return ev
}

func sortedRoles() []string {
	roles := make([]string, 0, len(validAriaRoles))
	for role := range validAriaRoles {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}
