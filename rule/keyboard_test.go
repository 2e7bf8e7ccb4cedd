package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyboardNegativeTabindex(t *testing.T) {
	doc := fragment(t, `<div><button tabindex="-1">hidden from tab order</button></div>`)

	ev := KeyboardNavRule{}.Evaluate(doc)
	require.Len(t, ev.Findings, 1)
	assert.Equal(t, "Negative tabindex prevents keyboard focus", ev.Findings[0].Description)
}

func TestKeyboardClickWithoutKeyHandler(t *testing.T) {
	doc := fragment(t, `<div onclick="open()">card</div>`)

	ev := KeyboardNavRule{}.Evaluate(doc)
	require.Len(t, ev.Findings, 1)
	assert.Equal(t, "Click handler without keyboard handler", ev.Findings[0].Description)
	assert.Equal(t, 1, ev.Visited)
}

func TestKeyboardClickWithKeyHandler(t *testing.T) {
	tests := []struct {
		name   string
		markup string
	}{
		{"onkeypress", `<div onclick="go()" onkeypress="go()">x</div>`},
		{"onkeydown", `<div onclick="go()" onkeydown="go()">x</div>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := fragment(t, tt.markup)

			ev := KeyboardNavRule{}.Evaluate(doc)
			assert.Empty(t, ev.Findings)
		})
	}
}

func TestKeyboardRoleCandidates(t *testing.T) {
	doc := fragment(t, `<div>
		<span role="link" onclick="nav()">pseudo link</span>
		<span role="button">no handlers, no findings</span>
	</div>`)

	ev := KeyboardNavRule{}.Evaluate(doc)
	require.Len(t, ev.Findings, 1)
	assert.Equal(t, "Click handler without keyboard handler", ev.Findings[0].Description)
	assert.Equal(t, 2, ev.Visited)
}

func TestKeyboardIndependentFindings(t *testing.T) {
	doc := fragment(t, `<div tabindex="-1" onclick="go()">both problems</div>`)

	ev := KeyboardNavRule{}.Evaluate(doc)
	assert.Len(t, ev.Findings, 2)
}

func TestKeyboardNonCandidatesSkipped(t *testing.T) {
	doc := fragment(t, `<div><p>text</p><span>more text</span></div>`)

	ev := KeyboardNavRule{}.Evaluate(doc)
	assert.Empty(t, ev.Findings)
	assert.Equal(t, 0, ev.Visited)
}

func TestKeyboardNonNumericTabindexIgnored(t *testing.T) {
	doc := fragment(t, `<a href="#" tabindex="banana">link</a>`)

	ev := KeyboardNavRule{}.Evaluate(doc)
	assert.Empty(t, ev.Findings)
}
