package rule

import (
	"fmt"
	"strings"

	"github.com/richardissailing/PyAccessibility/dom"
	"github.com/richardissailing/PyAccessibility/finding"
)

// uninformativeAlts lists alt text values that describe nothing.
var uninformativeAlts = map[string]bool{
	"":           true,
	"image":      true,
	"img":        true,
	"picture":    true,
	"photo":      true,
	"photograph": true,
	"*":          true,
	"graphic":    true,
	"icon":       true,
	"picture of": true,
	"image of":   true,
	"photo of":   true,
}

var imageFileExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"}

// maxAltTextLength is the point past which alt text should move to a longer
// description mechanism such as aria-describedby.
const maxAltTextLength = 125

// ImgAltTextRule checks images for missing or unhelpful alternative text.
type ImgAltTextRule struct{}

func (ImgAltTextRule) ID() string { return IDImgAltText }

func (ImgAltTextRule) Description() string {
	return "Images must have meaningful alt text"
}

func (ImgAltTextRule) DefaultSeverity() finding.Severity { return finding.SeverityError }

func (ImgAltTextRule) Criterion() string { return "1.1.1" }

func (r ImgAltTextRule) Evaluate(doc *dom.Document) Evaluation {
	var ev Evaluation

	for _, img := range doc.FindAll("img") {
		ev.Visited++

		raw, hasAlt := img.Attr("alt")
		if !hasAlt {
			ev.Findings = append(ev.Findings, finding.Finding{
				RuleID:       r.ID(),
				Severity:     finding.SeverityError,
				Element:      img.String(),
				Description:  "Image missing alt text",
				Criterion:    r.Criterion(),
				SuggestedFix: `Add alt="[descriptive text]" to the img element`,
			})
			continue
		}

		alt := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case uninformativeAlts[alt]:
			ev.Findings = append(ev.Findings, finding.Finding{
				RuleID:       r.ID(),
				Severity:     finding.SeverityError,
				Element:      img.String(),
				Description:  fmt.Sprintf("Image has uninformative alt text: %q", raw),
				Criterion:    r.Criterion(),
				SuggestedFix: "Replace with meaningful description of the image content",
			})
		case looksLikeFilename(alt):
			ev.Findings = append(ev.Findings, finding.Finding{
				RuleID:       r.ID(),
				Severity:     finding.SeverityError,
				Element:      img.String(),
				Description:  "Image alt text appears to be a filename",
				Criterion:    r.Criterion(),
				SuggestedFix: "Replace with meaningful description of the image content",
			})
		case len(alt) > maxAltTextLength:
			ev.Findings = append(ev.Findings, finding.Finding{
				RuleID:       r.ID(),
				Severity:     finding.SeverityWarning,
				Element:      img.String(),
				Description:  fmt.Sprintf("Alt text is too long (> %d characters)", maxAltTextLength),
				Criterion:    r.Criterion(),
				SuggestedFix: "Consider using aria-describedby for longer descriptions",
			})
		}

		// Decorative images must stay silent for screen readers.
		if strings.EqualFold(img.AttrOr("role", ""), "presentation") && alt != "" {
			ev.Findings = append(ev.Findings, finding.Finding{
				RuleID:       r.ID(),
				Severity:     finding.SeverityWarning,
				Element:      img.String(),
				Description:  `Decorative image (role="presentation") should have empty alt text`,
				Criterion:    r.Criterion(),
				SuggestedFix: `Set alt="" for decorative images`,
			})
		}
	}

	return ev
}

func looksLikeFilename(alt string) bool {
	for _, ext := range imageFileExtensions {
		if strings.Contains(alt, ext) {
			return true
		}
	}
	return false
}
