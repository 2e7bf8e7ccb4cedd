// Package dom provides a read-only view of a parsed HTML document for
// accessibility rules.
//
// The package wraps golang.org/x/net/html and exposes exactly the traversal
// surface rules need: root access, element children, tag names,
// case-insensitive attribute lookup, text content, subtree search, nearest
// ancestor lookup, and an ancestor test for nested-structure checks. Nothing
// in the API can mutate the underlying tree, which is what allows the
// evaluation engine to run rules against one document concurrently.
//
// Two entry points build a Document:
//
//   - Parse reads a complete HTML document; the html5 parsing algorithm
//     guarantees an <html> root.
//   - ParseFragment reads a markup snippet without implying an <html> root,
//     preserving the distinction rules such as the language check depend on.
package dom
