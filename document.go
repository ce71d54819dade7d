package hxhydrate

import (
	"bytes"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

// Document is the root scope every hydration operation works against.
//
// It wraps an html tree together with the engine's per-node bookkeeping:
// which action bindings have a handler attached and which placeholders
// have settled. A mutex serialises access to the tree; network I/O is
// never performed while it is held.
type Document struct {
	mu     sync.Mutex
	root   *html.Node
	bound  map[*html.Node]struct{}
	status map[*html.Node]Status
}

// NewDocument wraps an existing tree. root may be a document node or any
// element used as an isolated scope.
func NewDocument(root *html.Node) *Document {
	return &Document{
		root:   root,
		bound:  make(map[*html.Node]struct{}),
		status: make(map[*html.Node]Status),
	}
}

// Parse parses a full HTML page.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return NewDocument(root), nil
}

// ParseString parses a full HTML page from a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the root node of the document.
func (d *Document) Root() *html.Node {
	return d.root
}

// Render writes the current tree as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.root)
}

// String renders the current tree. Render errors yield an empty string.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// InnerHTML renders the children of n.
func (d *Document) InnerHTML(n *html.Node) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return buf.String()
}

// GetElementByID returns the first element with the given id, or nil.
func (d *Document) GetElementByID(id string) *html.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return findByID(d.root, id)
}

// SetValue sets the current value of the field with the given id, the
// headless equivalent of a user editing it. Returns false if no such
// element exists.
func (d *Document) SetValue(id, value string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := findByID(d.root, id)
	if n == nil {
		return false
	}
	setFieldValue(n, value)
	return true
}

// CollectForm collects the fields of a form group across the whole document.
func (d *Document) CollectForm(group string) map[string]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return CollectForm(d.root, group)
}

// Status reports the settled state of a placeholder node. Nodes that were
// never loaded report StatusSkipped.
func (d *Document) Status(n *html.Node) Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status[n]
}

// Bound reports whether an update handler is attached to n.
func (d *Document) Bound(n *html.Node) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.bound[n]
	return ok
}

// Unresolved returns the placeholders with a non-empty reference that have
// not settled (neither loaded nor errored), in document order.
func (d *Document) Unresolved() []*html.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*html.Node
	walk(d.root, func(n *html.Node) bool {
		if p, ok := Classify(n).(Placeholder); ok && p.Ref != "" {
			if s := d.status[n]; s != StatusLoaded && s != StatusError {
				out = append(out, n)
			}
		}
		return true
	})
	return out
}

// replaceChildren swaps the content of n for nodes, discarding all
// bookkeeping held for the old subtree. Callers hold d.mu.
func (d *Document) replaceChildren(n *html.Node, nodes []*html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		d.forget(c)
		n.RemoveChild(c)
		c = next
	}
	for _, c := range nodes {
		if c.Parent != nil {
			c.Parent.RemoveChild(c)
		}
		n.AppendChild(c)
	}
}

// forget drops the bookkeeping of n and its descendants.
func (d *Document) forget(n *html.Node) {
	delete(d.bound, n)
	delete(d.status, n)
	walk(n, func(c *html.Node) bool {
		delete(d.bound, c)
		delete(d.status, c)
		return true
	})
}
