package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is an immutable parsed HTML document.
//
// The zero value is not usable; construct documents with Parse or
// ParseFragment. A Document is safe for concurrent read access.
type Document struct {
	root *html.Node
}

// Node is a read-only handle on one node of a Document.
//
// Two Node values may wrap the same underlying tree node; use Same to test
// identity.
type Node struct {
	n *html.Node
}

// Parse reads a complete HTML document from r.
//
// Parsing follows the html5 algorithm, so the resulting tree always carries
// an <html> root even for partial input. Use ParseFragment for snippets
// where an implied root is unwanted.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseFragment reads a markup snippet without implying an <html> root.
//
// The snippet is parsed in a <div> context, so structural wrappers such as
// <html> and <body> present in the snippet are unwrapped by the html5
// fragment algorithm and only their content survives.
func ParseFragment(markup string) (*Document, error) {
	ctx := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}

	// Hang the fragment nodes off a synthetic document node so traversal
	// helpers see one tree.
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return &Document{root: root}, nil
}

// Root returns the document's root node. For parsed documents this is the
// document node above <html>; for fragments it is a synthetic container.
func (d *Document) Root() *Node {
	return &Node{n: d.root}
}

// Find returns the first element with the given tag name in document order,
// or nil if none exists.
func (d *Document) Find(tag string) *Node {
	return d.Root().Find(tag)
}

// FindAll returns every element whose tag name matches one of tags, in
// document order. With no arguments it returns every element.
func (d *Document) FindAll(tags ...string) []*Node {
	return d.Root().FindAll(tags...)
}

// FindWithAttr returns every element carrying the named attribute, in
// document order. The attribute name is matched case-insensitively.
func (d *Document) FindWithAttr(name string) []*Node {
	return d.Root().FindWithAttr(name)
}

// Walk visits every element in the document in document order.
func (d *Document) Walk(fn func(*Node)) {
	walk(d.root, fn)
}

func walk(n *html.Node, fn func(*Node)) {
	if n.Type == html.ElementNode {
		fn(&Node{n: n})
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// Tag returns the element's tag name in lower case, or the empty string for
// non-element nodes.
func (n *Node) Tag() string {
	if n == nil || n.n.Type != html.ElementNode {
		return ""
	}
	return n.n.Data
}

// Attr looks up an attribute by name, case-insensitively. The second return
// value reports whether the attribute is present.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	name = strings.ToLower(name)
	for _, a := range n.n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr returns the attribute value, or def when the attribute is absent.
func (n *Node) AttrOr(name, def string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return def
}

// HasAttr reports whether the element carries the named attribute.
func (n *Node) HasAttr(name string) bool {
	_, ok := n.Attr(name)
	return ok
}

// Text returns the concatenated text content of the node's subtree.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(h *html.Node) {
		if h.Type == html.TextNode {
			b.WriteString(h.Data)
		}
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n.n)
	return b.String()
}

// Children returns the node's direct element children in document order.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for c := n.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, &Node{n: c})
		}
	}
	return out
}

// Find returns the first descendant element with the given tag name, or nil.
func (n *Node) Find(tag string) *Node {
	var found *Node
	n.walkDescendants(func(d *Node) bool {
		if d.Tag() == tag {
			found = d
			return false
		}
		return true
	})
	return found
}

// FindAll returns every descendant element whose tag name matches one of
// tags, in document order. With no arguments it returns every descendant
// element.
func (n *Node) FindAll(tags ...string) []*Node {
	want := make(map[string]bool, len(tags))
	for _, t := range tags {
		want[strings.ToLower(t)] = true
	}

	var out []*Node
	n.walkDescendants(func(d *Node) bool {
		if len(want) == 0 || want[d.Tag()] {
			out = append(out, d)
		}
		return true
	})
	return out
}

// FindWithAttr returns every descendant element carrying the named
// attribute, in document order.
func (n *Node) FindWithAttr(name string) []*Node {
	var out []*Node
	n.walkDescendants(func(d *Node) bool {
		if d.HasAttr(name) {
			out = append(out, d)
		}
		return true
	})
	return out
}

// walkDescendants visits descendant elements in document order, excluding
// the node itself. The callback returns false to stop the walk.
func (n *Node) walkDescendants(fn func(*Node) bool) {
	if n == nil {
		return
	}
	var visit func(*html.Node) bool
	visit = func(h *html.Node) bool {
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				if !fn(&Node{n: c}) {
					return false
				}
			}
			if !visit(c) {
				return false
			}
		}
		return true
	}
	visit(n.n)
}

// Closest returns the nearest ancestor element with the given tag name, or
// nil if no such ancestor exists.
func (n *Node) Closest(tag string) *Node {
	if n == nil {
		return nil
	}
	for p := n.n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == tag {
			return &Node{n: p}
		}
	}
	return nil
}

// Parent returns the nearest ancestor element, or nil at the top of the
// tree.
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	for p := n.n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return &Node{n: p}
		}
	}
	return nil
}

// IsAncestorOf reports whether n is a strict ancestor of other.
func (n *Node) IsAncestorOf(other *Node) bool {
	if n == nil || other == nil {
		return false
	}
	for p := other.n.Parent; p != nil; p = p.Parent {
		if p == n.n {
			return true
		}
	}
	return false
}

// Same reports whether two handles refer to the same underlying tree node.
func (n *Node) Same(other *Node) bool {
	return n != nil && other != nil && n.n == other.n
}

// String returns the element's open tag with its attributes in source
// order, e.g. `<img src="a.png" alt="">`. This is the serialized form rules
// place in Finding.Element: enough to render and locate the node without
// dragging its whole subtree into the report.
func (n *Node) String() string {
	if n == nil || n.n.Type != html.ElementNode {
		return ""
	}
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(n.n.Data)
	for _, a := range n.n.Attr {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Val))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	return b.String()
}
