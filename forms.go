package hxhydrate

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// CollectForm gathers the current value of every field tagged with
// data-form="group" under root, keyed by the field's id.
//
// Fields without an id are skipped. Action bindings carry the same
// data-form attribute to name their group but are not fields, so they are
// skipped too. The tree is re-read on every call; nothing is cached.
func CollectForm(root *html.Node, group string) map[string]string {
	fields := make(map[string]string)
	if root == nil {
		return fields
	}
	walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		if g, ok := getAttr(n, AttrForm); !ok || g != group {
			return true
		}
		if _, ok := getAttr(n, AttrActionTarget); ok {
			return true
		}
		id, _ := getAttr(n, AttrID)
		if id == "" {
			return true
		}
		fields[id] = fieldValue(n)
		return true
	})
	return fields
}

// fieldValue reads the current value of a form control.
func fieldValue(n *html.Node) string {
	switch n.DataAtom {
	case atom.Textarea:
		return textContent(n)
	case atom.Select:
		var first *html.Node
		var selected *html.Node
		walk(n, func(c *html.Node) bool {
			if c.Type == html.ElementNode && c.DataAtom == atom.Option {
				if first == nil {
					first = c
				}
				if _, ok := getAttr(c, "selected"); ok && selected == nil {
					selected = c
				}
				return false
			}
			return true
		})
		if selected == nil {
			selected = first
		}
		if selected == nil {
			return ""
		}
		return optionValue(selected)
	}
	v, _ := getAttr(n, "value")
	return v
}

func optionValue(opt *html.Node) string {
	if v, ok := getAttr(opt, "value"); ok {
		return v
	}
	return strings.TrimSpace(textContent(opt))
}

// setFieldValue is the write side of fieldValue.
func setFieldValue(n *html.Node, value string) {
	switch n.DataAtom {
	case atom.Textarea:
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			n.RemoveChild(c)
			c = next
		}
		n.AppendChild(&html.Node{Type: html.TextNode, Data: value})
		return
	case atom.Select:
		walk(n, func(c *html.Node) bool {
			if c.Type == html.ElementNode && c.DataAtom == atom.Option {
				if optionValue(c) == value {
					setAttr(c, "selected", "")
				} else {
					removeAttr(c, "selected")
				}
				return false
			}
			return true
		})
		return
	}
	setAttr(n, "value", value)
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return sb.String()
}
