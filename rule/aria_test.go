package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richardissailing/PyAccessibility/finding"
)

func TestAriaValidRoles(t *testing.T) {
	doc := fragment(t, `<div>
		<div role="navigation-menu">nav</div>
		<div role="dialog">modal</div>
		<span role="MAIN">mixed case ok</span>
	</div>`)

	ev := AriaRolesRule{}.Evaluate(doc)
	require.Len(t, ev.Findings, 1)
	assert.Equal(t, `Invalid ARIA role: "navigation-menu"`, ev.Findings[0].Description)
	assert.Equal(t, 3, ev.Visited)
}

func TestAriaButtonRoleNeedsPressedState(t *testing.T) {
	doc := fragment(t, `<div>
		<span role="button">toggle</span>
		<span role="button" aria-pressed="false">mute</span>
	</div>`)

	ev := AriaRolesRule{}.Evaluate(doc)
	require.Len(t, ev.Findings, 1)
	assert.Equal(t, "Button role should have aria-pressed state", ev.Findings[0].Description)
	assert.Equal(t, finding.SeverityWarning, ev.Findings[0].Severity)
}

func TestAriaNoRolesNoFindings(t *testing.T) {
	doc := fragment(t, `<div><button>plain button element</button></div>`)

	ev := AriaRolesRule{}.Evaluate(doc)
	assert.Empty(t, ev.Findings)
	assert.Equal(t, 0, ev.Visited)
}

func TestAriaEmptyRoleIsInvalid(t *testing.T) {
	doc := fragment(t, `<div role="">x</div>`)

	ev := AriaRolesRule{}.Evaluate(doc)
	require.Len(t, ev.Findings, 1)
	assert.True(t, containsDescription(ev.Findings, "Invalid ARIA role"))
}
