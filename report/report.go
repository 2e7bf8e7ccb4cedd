// Package report renders scan results as JSON, HTML, or plain text, and
// can deliver rendered reports by email.
package report

import (
	"embed"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"io"
	"strings"
	texttemplate "text/template"
	"time"

	a11y "github.com/richardissailing/PyAccessibility"
	"github.com/richardissailing/PyAccessibility/finding"
	"github.com/richardissailing/PyAccessibility/scan"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	htmlTmpl = htmltemplate.Must(htmltemplate.New("report.html.tmpl").
			Funcs(htmltemplate.FuncMap{"severityClass": severityClass}).
			ParseFS(templateFS, "templates/report.html.tmpl"))
	textTmpl = texttemplate.Must(texttemplate.New("report.text.tmpl").
			ParseFS(templateFS, "templates/report.text.tmpl"))
)

// Report pairs a scan result with its subject and timestamp.
type Report struct {
	URL       string       `json:"url,omitempty"`
	ScannedAt time.Time    `json:"scanned_at"`
	Result    *scan.Result `json:"result"`
}

// New builds a report for a scan result, stamped with the current time.
func New(url string, result *scan.Result) *Report {
	return &Report{URL: url, ScannedAt: time.Now().UTC(), Result: result}
}

// templateData is what the HTML and text templates consume.
type templateData struct {
	URL       string
	ScannedAt time.Time
	Result    *scan.Result
	Groups    map[string][]finding.Finding
}

func (r *Report) data() templateData {
	return templateData{
		URL:       r.URL,
		ScannedAt: r.ScannedAt,
		Result:    r.Result,
		Groups:    scan.GroupByCriterion(r.Result.Findings),
	}
}

// Render writes the report to w in the given format.
func Render(w io.Writer, format Format, r *Report) error {
	var err error
	switch format {
	case FormatJSON:
		err = renderJSON(w, r)
	case FormatHTML:
		err = htmlTmpl.Execute(w, r.data())
	case FormatText:
		err = textTmpl.Execute(w, r.data())
	default:
		return a11y.NewValidationError("report.Render",
			fmt.Errorf("invalid report format: %q", format))
	}
	if err != nil {
		return &a11y.Error{Op: "report.Render", Kind: a11y.KindRender, Err: err}
	}
	return nil
}

// RenderString renders the report into a string.
func RenderString(format Format, r *Report) (string, error) {
	var sb strings.Builder
	if err := Render(&sb, format, r); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func renderJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// severityClass maps a severity to the CSS class used by the HTML
// template.
func severityClass(s finding.Severity) string {
	return "sev-" + string(s)
}
