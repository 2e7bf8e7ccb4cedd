package rule

import (
	"strings"

	"github.com/richardissailing/PyAccessibility/dom"
	"github.com/richardissailing/PyAccessibility/finding"
)

// SemanticStructureRule checks document-level semantics: a main landmark on
// full documents and well-formed list structure.
type SemanticStructureRule struct{}

func (SemanticStructureRule) ID() string { return IDSemanticStructure }

func (SemanticStructureRule) Description() string {
	return "HTML must use proper semantic structure"
}

func (SemanticStructureRule) DefaultSeverity() finding.Severity { return finding.SeverityError }

func (SemanticStructureRule) Criterion() string { return "1.3.1" }

func (r SemanticStructureRule) Evaluate(doc *dom.Document) Evaluation {
	var ev Evaluation

	// The main-landmark requirement only applies to complete documents;
	// a fragment has no business declaring page structure.
	if doc.Find("html") != nil && !hasMainLandmark(doc) {
		ev.Visited++
		ev.Findings = append(ev.Findings, finding.Finding{
			RuleID:       r.ID(),
			Severity:     finding.SeverityError,
			Element:      "document",
			Description:  "No main landmark found",
			Criterion:    r.Criterion(),
			SuggestedFix: `Add <main> element or role="main" to primary content`,
		})
	}

	lists := doc.FindAll("ul", "ol")
	ev.Visited += len(lists)
	for _, list := range lists {
		for _, child := range list.Children() {
			if child.Tag() != "li" {
				ev.Findings = append(ev.Findings, finding.Finding{
					RuleID:       r.ID(),
					Severity:     finding.SeverityError,
					Element:      list.String(),
					Description:  "List contains non-li elements",
					Criterion:    r.Criterion(),
					SuggestedFix: "Ensure lists only contain <li> elements",
				})
				break
			}
		}
	}

	return ev
}

func hasMainLandmark(doc *dom.Document) bool {
	if doc.Find("main") != nil {
		return true
	}
	for _, el := range doc.FindWithAttr("role") {
		if strings.EqualFold(strings.TrimSpace(el.AttrOr("role", "")), "main") {
			return true
		}
	}
	return false
}
