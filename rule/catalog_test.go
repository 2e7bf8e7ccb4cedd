package rule

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	a11y "github.com/richardissailing/PyAccessibility"
	"github.com/richardissailing/PyAccessibility/dom"
	"github.com/richardissailing/PyAccessibility/finding"
)

func TestNewCatalogHoldsAllBuiltins(t *testing.T) {
	c := NewCatalog()

	want := []string{
		IDImgAltText,
		IDFocusIndicator,
		IDLanguage,
		IDTableAccessibility,
		IDHeadingHierarchy,
		IDColorContrast,
		IDFormLabel,
		IDAriaRoles,
		IDKeyboardNav,
		IDSemanticStructure,
	}
	assert.Equal(t, want, c.IDs())
	assert.Equal(t, len(want), c.Len())

	for _, id := range want {
		r, ok := c.Lookup(id)
		require.True(t, ok, "missing built-in rule %s", id)
		assert.Equal(t, id, r.ID())
		assert.NotEmpty(t, r.Description())
		assert.True(t, r.DefaultSeverity().IsValid())
	}
}

func TestCatalogList(t *testing.T) {
	infos := NewCatalog().List()
	require.Len(t, infos, 10)

	byID := make(map[string]Info)
	for _, info := range infos {
		byID[info.ID] = info
	}
	assert.Equal(t, "2.4.7", byID[IDFocusIndicator].Criterion)
	assert.Equal(t, "3.1.1", byID[IDLanguage].Criterion)
	assert.Equal(t, "1.1.1", byID[IDImgAltText].Criterion)
	assert.Equal(t, finding.SeverityError, byID[IDTableAccessibility].DefaultSeverity)
}

func TestCatalogSelect(t *testing.T) {
	c := NewCatalog()

	t.Run("preserves requested order", func(t *testing.T) {
		rules, err := c.Select([]string{IDLanguage, IDFocusIndicator})
		require.NoError(t, err)
		require.Len(t, rules, 2)
		assert.Equal(t, IDLanguage, rules[0].ID())
		assert.Equal(t, IDFocusIndicator, rules[1].ID())
	})

	t.Run("unknown identifier fails fast", func(t *testing.T) {
		_, err := c.Select([]string{IDLanguage, "does-not-exist"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, a11y.ErrRuleNotFound))
		assert.True(t, errors.Is(err, &a11y.Error{Kind: a11y.KindConfiguration}))
	})

	t.Run("empty selection fails fast", func(t *testing.T) {
		_, err := c.Select(nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, a11y.ErrNoRulesSelected))
	})
}

type stubRule struct{ id string }

func (s stubRule) ID() string                        { return s.id }
func (s stubRule) Description() string               { return "stub" }
func (s stubRule) DefaultSeverity() finding.Severity { return finding.SeverityInfo }
func (s stubRule) Criterion() string                 { return "" }
func (s stubRule) Evaluate(*dom.Document) Evaluation { return Evaluation{} }

func TestCatalogRegister(t *testing.T) {
	c, err := NewCustomCatalog(stubRule{id: "custom-check"})
	require.NoError(t, err)

	_, ok := c.Lookup("custom-check")
	assert.True(t, ok)

	t.Run("duplicate identifier rejected", func(t *testing.T) {
		err := c.Register(stubRule{id: "custom-check"})
		require.Error(t, err)
	})

	t.Run("empty identifier rejected", func(t *testing.T) {
		err := c.Register(stubRule{})
		require.Error(t, err)
	})
}
