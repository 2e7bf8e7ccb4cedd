package rule

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/richardissailing/PyAccessibility/dom"
	"github.com/richardissailing/PyAccessibility/finding"
)

// minContrastRatio is the WCAG AA minimum for normal-size text.
const minContrastRatio = 4.5

var (
	// A leading boundary keeps "background-color:" from matching as
	// "color:".
	foregroundRe = regexp.MustCompile(`(?:^|[;\s])color:\s*([^;]+)`)
	backgroundRe = regexp.MustCompile(`background-color:\s*([^;]+)`)
	rgbRe        = regexp.MustCompile(`^rgba?\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)`)
)

// namedColors covers the CSS keyword colors the rule understands. Anything
// else declared by keyword is skipped rather than guessed at.
var namedColors = map[string][3]uint8{
	"black":  {0, 0, 0},
	"white":  {255, 255, 255},
	"red":    {255, 0, 0},
	"green":  {0, 128, 0},
	"blue":   {0, 0, 255},
	"yellow": {255, 255, 0},
	"gray":   {128, 128, 128},
	"grey":   {128, 128, 128},
	"silver": {192, 192, 192},
	"maroon": {128, 0, 0},
	"navy":   {0, 0, 128},
	"purple": {128, 0, 128},
	"orange": {255, 165, 0},
}

// ColorContrastRule checks declared inline colors for sufficient contrast.
//
// Only elements declaring both color and background-color in their style
// attribute are checked; the rule computes the WCAG contrast ratio from the
// declared values and never inspects rendered pixels. Elements whose colors
// cannot be parsed are skipped.
type ColorContrastRule struct{}

func (ColorContrastRule) ID() string { return IDColorContrast }

func (ColorContrastRule) Description() string {
	return "Text must have sufficient contrast with its background"
}

func (ColorContrastRule) DefaultSeverity() finding.Severity { return finding.SeverityError }

func (ColorContrastRule) Criterion() string { return "1.4.3" }

func (r ColorContrastRule) Evaluate(doc *dom.Document) Evaluation {
	var ev Evaluation

	elements := doc.FindAll("p", "span", "div", "a", "h1", "h2", "h3", "h4", "h5", "h6")
	ev.Visited = len(elements)

	for _, el := range elements {
		style := strings.ToLower(el.AttrOr("style", ""))

		fgMatch := foregroundRe.FindStringSubmatch(style)
		bgMatch := backgroundRe.FindStringSubmatch(style)
		if fgMatch == nil || bgMatch == nil {
			continue
		}

		fg, okFg := parseColor(strings.TrimSpace(fgMatch[1]))
		bg, okBg := parseColor(strings.TrimSpace(bgMatch[1]))
		if !okFg || !okBg {
			continue
		}

		ratio := contrastRatio(fg, bg)
		if ratio < minContrastRatio {
			ev.Findings = append(ev.Findings, finding.Finding{
				RuleID:   r.ID(),
				Severity: finding.SeverityError,
				Element:  el.String(),
				Description: fmt.Sprintf("Insufficient color contrast ratio: %.2f:1 (minimum %.1f:1 required)",
					ratio, minContrastRatio),
				Criterion:    r.Criterion(),
				SuggestedFix: "Adjust text or background color to improve contrast",
			})
		}
	}

	return ev
}

type rgb struct {
	r, g, b float64 // 0..1
}

// parseColor converts a CSS color value (hex, rgb()/rgba(), or a known
// keyword) into normalized RGB. Unrecognized formats report !ok.
func parseColor(value string) (rgb, bool) {
	value = strings.ToLower(strings.TrimSpace(value))

	if strings.HasPrefix(value, "#") {
		return parseHexColor(value)
	}

	if m := rgbRe.FindStringSubmatch(value); m != nil {
		r, _ := strconv.Atoi(m[1])
		g, _ := strconv.Atoi(m[2])
		b, _ := strconv.Atoi(m[3])
		if r > 255 || g > 255 || b > 255 {
			return rgb{}, false
		}
		return rgb{float64(r) / 255, float64(g) / 255, float64(b) / 255}, true
	}

	if c, ok := namedColors[value]; ok {
		return rgb{float64(c[0]) / 255, float64(c[1]) / 255, float64(c[2]) / 255}, true
	}

	return rgb{}, false
}

func parseHexColor(value string) (rgb, bool) {
	hex := value[1:]
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
		// Full form.
	default:
		return rgb{}, false
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return rgb{}, false
	}
	return rgb{
		r: float64(v>>16&0xff) / 255,
		g: float64(v>>8&0xff) / 255,
		b: float64(v&0xff) / 255,
	}, true
}

// contrastRatio computes the WCAG contrast ratio between two colors.
func contrastRatio(a, b rgb) float64 {
	la := relativeLuminance(a)
	lb := relativeLuminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

func relativeLuminance(c rgb) float64 {
	return 0.2126*linearize(c.r) + 0.7152*linearize(c.g) + 0.0722*linearize(c.b)
}

func linearize(channel float64) float64 {
	if channel <= 0.03928 {
		return channel / 12.92
	}
	return math.Pow((channel+0.055)/1.055, 2.4)
}
