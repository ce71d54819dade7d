package hxhydrate

import (
	"golang.org/x/net/html"
)

// Markup attributes understood by the engine.
const (
	AttrComponent     = "data-component"
	AttrObject        = "data-object"
	AttrComponentName = "data-component-name"
	AttrForm          = "data-form"
	AttrActionTarget  = "data-action-target"
	AttrID            = "id"
)

// Placeholder is a node declaring a server-fetchable component.
type Placeholder struct {
	Node    *html.Node
	Ref     string // component endpoint
	Payload string // base64url JSON token, may be empty
	ID      string
}

// ActionBinding is a node that submits a form group when activated.
type ActionBinding struct {
	Node     *html.Node
	Group    string
	Endpoint string
	ID       string
}

// Plain is any node that is neither a placeholder nor an action binding.
type Plain struct {
	Node *html.Node
}

func (p Placeholder) DOMNode() *html.Node   { return p.Node }
func (b ActionBinding) DOMNode() *html.Node { return b.Node }
func (p Plain) DOMNode() *html.Node         { return p.Node }

func (Placeholder) element()   {}
func (ActionBinding) element() {}
func (Plain) element()         {}

// Classify derives the typed view of n.
//
// A node carrying a data-component attribute is a Placeholder, even when
// the attribute is empty. The loader skips such a node and hydration
// walks through it as plain content. A node carrying
// data-action-target is an ActionBinding. When both are present the
// placeholder wins since loading replaces the node's content anyway.
func Classify(n *html.Node) Element {
	if n == nil || n.Type != html.ElementNode {
		return Plain{Node: n}
	}
	if ref, ok := getAttr(n, AttrComponent); ok {
		payload, _ := getAttr(n, AttrObject)
		id, _ := getAttr(n, AttrID)
		return Placeholder{Node: n, Ref: ref, Payload: payload, ID: id}
	}
	if endpoint, ok := getAttr(n, AttrActionTarget); ok {
		group, _ := getAttr(n, AttrForm)
		id, _ := getAttr(n, AttrID)
		return ActionBinding{Node: n, Group: group, Endpoint: endpoint, ID: id}
	}
	return Plain{Node: n}
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// walk visits the descendants of root in document order. Returning false
// from visit skips the node's own descendants.
func walk(root *html.Node, visit func(n *html.Node) bool) {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if visit(c) {
			walk(c, visit)
		}
	}
}

func findByID(root *html.Node, id string) *html.Node {
	if id == "" {
		return nil
	}
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.Type == html.ElementNode {
			if v, ok := getAttr(n, AttrID); ok && v == id {
				found = n
				return false
			}
		}
		return true
	})
	return found
}
