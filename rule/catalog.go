package rule

import (
	"fmt"

	a11y "github.com/richardissailing/PyAccessibility"
)

// Built-in rule identifiers.
const (
	IDFocusIndicator     = "focus-indicator"
	IDLanguage           = "language"
	IDTableAccessibility = "table-accessibility"
	IDImgAltText         = "img-alt-text"
	IDHeadingHierarchy   = "heading-hierarchy"
	IDColorContrast      = "color-contrast"
	IDFormLabel          = "form-label"
	IDAriaRoles          = "aria-roles"
	IDKeyboardNav        = "keyboard-nav"
	IDSemanticStructure  = "semantic-structure"
)

// Catalog is an immutable-once-built registry of rules, selectable by
// identifier. It is an explicitly constructed value passed to the evaluation
// engine; there is no process-wide catalogue.
type Catalog struct {
	rules map[string]Rule
	order []string
}

// NewCatalog returns a catalogue holding every built-in rule, in the
// canonical registration order used for listings.
func NewCatalog() *Catalog {
	c := &Catalog{rules: make(map[string]Rule)}
	for _, r := range []Rule{
		ImgAltTextRule{},
		FocusIndicatorRule{},
		LanguageRule{},
		TableAccessibilityRule{},
		HeadingHierarchyRule{},
		ColorContrastRule{},
		FormLabelRule{},
		AriaRolesRule{},
		KeyboardNavRule{},
		SemanticStructureRule{},
	} {
		// Built-in identifiers are unique; a collision here is a
		// programming error.
		if err := c.Register(r); err != nil {
			panic(err)
		}
	}
	return c
}

// NewCustomCatalog returns a catalogue holding only the given rules, in
// order. It fails on duplicate identifiers.
func NewCustomCatalog(rules ...Rule) (*Catalog, error) {
	c := &Catalog{rules: make(map[string]Rule)}
	for _, r := range rules {
		if err := c.Register(r); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Register adds a rule to the catalogue. Registering an identifier twice is
// an error.
func (c *Catalog) Register(r Rule) error {
	if r == nil || r.ID() == "" {
		return a11y.NewValidationError("Catalog.Register", fmt.Errorf("rule has no identifier"))
	}
	if _, exists := c.rules[r.ID()]; exists {
		return a11y.NewValidationError("Catalog.Register",
			fmt.Errorf("rule %q already registered", r.ID()))
	}
	c.rules[r.ID()] = r
	c.order = append(c.order, r.ID())
	return nil
}

// Lookup returns the rule with the given identifier.
func (c *Catalog) Lookup(id string) (Rule, bool) {
	r, ok := c.rules[id]
	return r, ok
}

// IDs returns every registered identifier in registration order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of registered rules.
func (c *Catalog) Len() int {
	return len(c.order)
}

// List returns the catalogue entries for tooling, in registration order.
func (c *Catalog) List() []Info {
	out := make([]Info, 0, len(c.order))
	for _, id := range c.order {
		r := c.rules[id]
		out = append(out, Info{
			ID:              r.ID(),
			Description:     r.Description(),
			DefaultSeverity: r.DefaultSeverity(),
			Criterion:       r.Criterion(),
		})
	}
	return out
}

// Select resolves a set of identifiers to rules, preserving the requested
// order. An unknown identifier or an empty selection is a configuration
// error: a scan must fail fast rather than silently run a different rule
// set than the one asked for.
func (c *Catalog) Select(ids []string) ([]Rule, error) {
	if len(ids) == 0 {
		return nil, a11y.NewConfigurationError("Catalog.Select", a11y.ErrNoRulesSelected)
	}

	out := make([]Rule, 0, len(ids))
	for _, id := range ids {
		r, ok := c.rules[id]
		if !ok {
			return nil, a11y.NewConfigurationError("Catalog.Select",
				fmt.Errorf("%w: %q", a11y.ErrRuleNotFound, id))
		}
		out = append(out, r)
	}
	return out, nil
}
