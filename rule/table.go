package rule

import (
	"strings"

	"github.com/richardissailing/PyAccessibility/dom"
	"github.com/richardissailing/PyAccessibility/finding"
)

var validHeaderScopes = map[string]bool{
	"row":      true,
	"col":      true,
	"rowgroup": true,
	"colgroup": true,
}

// TableAccessibilityRule checks data-table structure: captions, header
// cells, and the association between headers and data cells.
//
// Every <table> is evaluated independently; a nested table is its own
// subject, and cells inside it never count toward the outer table. A header
// satisfies the rule with a valid scope attribute or by being referenced
// from a data cell's headers attribute; each unsatisfied header and each
// unassociated data cell yields its own finding.
type TableAccessibilityRule struct{}

func (TableAccessibilityRule) ID() string { return IDTableAccessibility }

func (TableAccessibilityRule) Description() string {
	return "Tables must have proper structure and headers"
}

func (TableAccessibilityRule) DefaultSeverity() finding.Severity { return finding.SeverityError }

func (TableAccessibilityRule) Criterion() string { return "1.3.1" }

func (r TableAccessibilityRule) Evaluate(doc *dom.Document) Evaluation {
	var ev Evaluation

	for _, table := range doc.FindAll("table") {
		ev.Visited++
		r.checkTable(table, &ev)
	}

	return ev
}

func (r TableAccessibilityRule) checkTable(table *dom.Node, ev *Evaluation) {
	// Collect this table's own caption, headers, and data cells, skipping
	// anything owned by a nested table.
	var headers, cells []*dom.Node
	hasCaption := false
	for _, n := range table.FindAll() {
		if closest := n.Closest("table"); closest == nil || !closest.Same(table) {
			continue
		}
		switch {
		case n.Tag() == "caption":
			hasCaption = true
		case isHeaderCell(n):
			headers = append(headers, n)
		case n.Tag() == "td":
			cells = append(cells, n)
		}
	}

	if !hasCaption {
		ev.Findings = append(ev.Findings, finding.Finding{
			RuleID:       r.ID(),
			Severity:     finding.SeverityWarning,
			Element:      table.String(),
			Description:  "Table missing caption",
			Criterion:    r.Criterion(),
			SuggestedFix: "Add a <caption> element to describe table content",
		})
	}

	if len(headers) == 0 {
		ev.Findings = append(ev.Findings, finding.Finding{
			RuleID:       r.ID(),
			Severity:     finding.SeverityError,
			Element:      table.String(),
			Description:  "Table has no header cells",
			Criterion:    r.Criterion(),
			SuggestedFix: "Add <th> elements for table headers",
		})
		return
	}

	// Header ids referenced from any data cell's headers attribute.
	referenced := make(map[string]bool)
	for _, c := range cells {
		for _, id := range strings.Fields(c.AttrOr("headers", "")) {
			referenced[id] = true
		}
	}

	for _, h := range headers {
		ev.Visited++
		if validHeaderScopes[strings.ToLower(h.AttrOr("scope", ""))] {
			continue
		}
		if id, ok := h.Attr("id"); ok && referenced[id] {
			continue
		}
		ev.Findings = append(ev.Findings, finding.Finding{
			RuleID:       r.ID(),
			Severity:     finding.SeverityWarning,
			Element:      h.String(),
			Description:  "Table header missing scope attribute",
			Criterion:    r.Criterion(),
			SuggestedFix: `Add scope="col" or scope="row" to header cells, or reference the header id from data cells`,
		})
	}

	for _, c := range cells {
		ev.Visited++
		if strings.TrimSpace(c.AttrOr("headers", "")) != "" {
			continue
		}
		if row := c.Closest("tr"); row != nil && rowHasHeader(row, table) {
			continue
		}
		ev.Findings = append(ev.Findings, finding.Finding{
			RuleID:       r.ID(),
			Severity:     finding.SeverityError,
			Element:      c.String(),
			Description:  "Table cell not associated with headers",
			Criterion:    r.Criterion(),
			SuggestedFix: "Ensure all data cells are associated with headers",
		})
	}
}

// isHeaderCell recognizes <th> and cells promoted to headers via ARIA.
func isHeaderCell(n *dom.Node) bool {
	if n.Tag() == "th" {
		return true
	}
	switch strings.ToLower(n.AttrOr("role", "")) {
	case "columnheader", "rowheader":
		return true
	}
	return false
}

// rowHasHeader reports whether the row contains a header cell belonging to
// the given table.
func rowHasHeader(row, table *dom.Node) bool {
	for _, n := range row.FindAll() {
		if !isHeaderCell(n) {
			continue
		}
		if closest := n.Closest("table"); closest != nil && closest.Same(table) {
			return true
		}
	}
	return false
}
