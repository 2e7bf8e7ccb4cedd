package rule

import (
	"fmt"
	"strings"

	"github.com/richardissailing/PyAccessibility/dom"
	"github.com/richardissailing/PyAccessibility/finding"
)

// knownPrimarySubtags is the allow-list of recognized primary language
// subtags. It is deliberately a fixed approximation of ISO 639, not a full
// registry lookup.
var knownPrimarySubtags = map[string]bool{
	"ar": true, "bg": true, "cs": true, "da": true, "de": true,
	"el": true, "en": true, "es": true, "fi": true, "fr": true,
	"he": true, "hi": true, "hu": true, "id": true, "it": true,
	"ja": true, "ko": true, "ms": true, "nl": true, "no": true,
	"pl": true, "pt": true, "ro": true, "ru": true, "sv": true,
	"th": true, "tr": true, "uk": true, "vi": true, "zh": true,
	"fil": true, "haw": true,
}

// LanguageRule checks the document and content language declarations.
//
// The rule requires an <html> root; when the root is absent that is the sole
// finding and no further checks run. The root's lang attribute is required
// and validated against the subtag allow-list. Descendant elements carrying
// their own lang attribute are validated independently, but their invalid
// codes are reported as one aggregated finding rather than one per element.
type LanguageRule struct{}

func (LanguageRule) ID() string { return IDLanguage }

func (LanguageRule) Description() string {
	return "Page and content must have proper language declarations"
}

func (LanguageRule) DefaultSeverity() finding.Severity { return finding.SeverityError }

func (LanguageRule) Criterion() string { return "3.1.1" }

func (r LanguageRule) Evaluate(doc *dom.Document) Evaluation {
	ev := Evaluation{Visited: 1}

	root := doc.Find("html")
	if root == nil {
		ev.Findings = append(ev.Findings, finding.Finding{
			RuleID:       r.ID(),
			Severity:     finding.SeverityError,
			Element:      "document",
			Description:  "No html root element found",
			Criterion:    r.Criterion(),
			SuggestedFix: "Add proper html root element with lang attribute",
		})
		return ev
	}

	lang, _ := root.Attr("lang")
	lang = strings.TrimSpace(lang)
	switch {
	case lang == "":
		ev.Findings = append(ev.Findings, finding.Finding{
			RuleID:       r.ID(),
			Severity:     finding.SeverityError,
			Element:      root.String(),
			Description:  "Missing language declaration",
			Criterion:    r.Criterion(),
			SuggestedFix: `Add lang attribute to html element (e.g., lang="en")`,
		})
	case !validLanguageCode(lang):
		ev.Findings = append(ev.Findings, finding.Finding{
			RuleID:       r.ID(),
			Severity:     finding.SeverityWarning,
			Element:      root.String(),
			Description:  fmt.Sprintf("Potentially invalid language code: %s", lang),
			Criterion:    r.Criterion(),
			SuggestedFix: "Use a valid ISO 639-1 language code",
		})
	}

	// Content language changes. Invalid descendant codes collapse into one
	// aggregated finding; the per-element treatment is reserved for the root.
	var invalid []string
	seen := make(map[string]bool)
	for _, n := range root.FindWithAttr("lang") {
		ev.Visited++
		code := strings.TrimSpace(n.AttrOr("lang", ""))
		if code == "" || validLanguageCode(code) {
			continue
		}
		lower := strings.ToLower(code)
		if !seen[lower] {
			seen[lower] = true
			invalid = append(invalid, code)
		}
	}
	if len(invalid) > 0 {
		ev.Findings = append(ev.Findings, finding.Finding{
			RuleID:       r.ID(),
			Severity:     finding.SeverityWarning,
			Element:      "document",
			Description:  fmt.Sprintf("Invalid language code in content: %s", strings.Join(invalid, ", ")),
			Criterion:    "3.1.2",
			SuggestedFix: "Use valid ISO 639-1 language codes on content elements",
		})
	}

	return ev
}

// validLanguageCode reports whether a lang attribute value is a recognized
// primary subtag, optionally followed by a region subtag (e.g. "en",
// "en-GB", "es-419").
func validLanguageCode(code string) bool {
	parts := strings.Split(strings.ToLower(code), "-")
	if len(parts) > 2 {
		return false
	}

	primary := parts[0]
	if len(primary) < 2 || !isAlpha(primary) || !knownPrimarySubtags[primary] {
		return false
	}

	if len(parts) == 2 {
		region := parts[1]
		if len(region) == 2 && isAlpha(region) {
			return true
		}
		if len(region) == 3 && isDigits(region) {
			return true
		}
		return false
	}
	return true
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return len(s) > 0
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
