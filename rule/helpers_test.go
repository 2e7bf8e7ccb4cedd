package rule

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/richardissailing/PyAccessibility/dom"
	"github.com/richardissailing/PyAccessibility/finding"
)

// fragment parses a markup snippet without an implied html root.
func fragment(t *testing.T, markup string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseFragment(markup)
	require.NoError(t, err)
	return doc
}

// document parses a complete HTML document.
func document(t *testing.T, markup string) *dom.Document {
	t.Helper()
	doc, err := dom.Parse(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

// descriptions extracts finding descriptions for assertion convenience.
func descriptions(findings []finding.Finding) []string {
	out := make([]string, len(findings))
	for i, f := range findings {
		out[i] = f.Description
	}
	return out
}

// containsDescription reports whether any finding's description contains
// the given substring (case-insensitive).
func containsDescription(findings []finding.Finding, substr string) bool {
	substr = strings.ToLower(substr)
	for _, f := range findings {
		if strings.Contains(strings.ToLower(f.Description), substr) {
			return true
		}
	}
	return false
}
