// Package rule provides the accessibility rule contract and the built-in
// rule catalogue.
//
// A Rule is a stateless analyzer: given a read-only document tree it
// produces findings and reports how many nodes it inspected. Rules share no
// state, never mutate the tree, and may run concurrently against the same
// document; the evaluation engine in package scan relies on these
// properties.
//
// # Catalogue
//
// NewCatalog returns the fixed set of built-in rules, selectable by
// identifier. The catalogue is an explicitly constructed value, not
// process-wide state; callers that need custom rules register them on their
// own catalogue instance.
//
// # Built-in Rules
//
//   - focus-indicator: visible focus indicators on interactive elements
//   - language: document and content language declarations
//   - table-accessibility: captions, header cells, and header associations
//   - img-alt-text: meaningful alternative text on images
//   - heading-hierarchy: single h1 and no skipped heading levels
//   - color-contrast: declared foreground/background contrast ratios
//   - form-label: label associations for form controls
//   - aria-roles: valid ARIA role usage
//   - keyboard-nav: keyboard reachability of interactive elements
//   - semantic-structure: main landmark and well-formed lists
package rule
