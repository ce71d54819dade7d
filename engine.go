package hxhydrate

import (
	"context"

	"golang.org/x/net/html"
)

// Engine hydrates a Document: it resolves placeholders recursively,
// attaches update handlers to action bindings and exposes the trigger
// entry point.
//
//	doc, _ := hxhydrate.ParseString(page)
//	eng := hxhydrate.New(doc, hxhydrate.WithBaseURL(base))
//	if err := eng.Hydrate(ctx, nil); err != nil {
//	    return err
//	}
//	eng.Trigger(ctx, "viewer", token)
type Engine struct {
	doc        *Document
	opts       *options
	loader     *Loader
	controller *Controller
}

// New creates an engine for doc.
func New(doc *Document, opts ...Option) *Engine {
	o := newOptions(opts)
	loader := newLoader(doc, o)
	return &Engine{
		doc:        doc,
		opts:       o,
		loader:     loader,
		controller: newController(doc, loader, o),
	}
}

// Document returns the document the engine works against.
func (e *Engine) Document() *Document {
	return e.doc
}

// Loader returns the engine's component loader.
func (e *Engine) Loader() *Loader {
	return e.loader
}

// Controller returns the engine's trigger controller.
func (e *Engine) Controller() *Controller {
	return e.controller
}

// Hydrate resolves every placeholder under root, recursively, and attaches
// update handlers to the action bindings found along the way. A nil root
// means the whole document.
//
// Placeholders at the same level are processed one at a time in document
// order; each is fully settled, including its own nested placeholders,
// before the next one starts. Discovery is shallow: the content of a
// placeholder is only scanned after that placeholder has loaded, and root
// itself is never treated as a placeholder.
//
// Load failures are rendered inline and never abort the pass. The only
// error returned is the context's, when it ends between two loads.
func (e *Engine) Hydrate(ctx context.Context, root *html.Node) error {
	if root == nil {
		root = e.doc.Root()
	}
	return e.hydrate(ctx, root, 0)
}

func (e *Engine) hydrate(ctx context.Context, root *html.Node, depth int) error {
	e.doc.mu.Lock()
	bindings, placeholders, names := scan(root)
	for _, b := range bindings {
		e.bind(b)
	}
	e.doc.mu.Unlock()

	if len(placeholders) > 0 {
		e.opts.logger.Debug("hydrating components",
			"count", len(placeholders), "depth", depth, "names", names)
	}

	for _, p := range placeholders {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.opts.maxDepth > 0 && depth >= e.opts.maxDepth {
			out := e.loader.fail(ctx, p, ErrDepthExceeded)
			e.opts.metrics.observeLoad(out, 0)
			continue
		}
		if out := e.loader.Load(ctx, p.Node); out.Status != StatusLoaded {
			continue
		}
		if err := e.hydrate(ctx, p.Node, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// scan finds the action bindings and placeholders below root without
// descending into placeholders. A node with an empty reference is not
// loaded, so its descendants are scanned as plain content. Callers hold
// the document lock.
func scan(root *html.Node) (bindings []ActionBinding, placeholders []Placeholder, names []string) {
	walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		if name, ok := getAttr(n, AttrComponentName); ok {
			names = append(names, name)
		}
		switch el := Classify(n).(type) {
		case Placeholder:
			if el.Ref == "" {
				return true
			}
			placeholders = append(placeholders, el)
			return false
		case ActionBinding:
			bindings = append(bindings, el)
		}
		return true
	})
	return bindings, placeholders, names
}

// Trigger re-targets the placeholder with the given id to a new payload
// and reloads it. See Controller.Trigger.
func (e *Engine) Trigger(ctx context.Context, targetID, encodedPayload string) Outcome {
	return e.controller.Trigger(ctx, targetID, encodedPayload)
}

// TriggerAndHydrate is Trigger followed by a hydration pass over the
// reloaded placeholder, for targets whose new content holds nested
// placeholders or action bindings.
func (e *Engine) TriggerAndHydrate(ctx context.Context, targetID, encodedPayload string) (Outcome, error) {
	out, n := e.controller.trigger(ctx, targetID, encodedPayload)
	if out.Status != StatusLoaded {
		return out, nil
	}
	e.doc.mu.Lock()
	depth := placeholderDepth(n)
	e.doc.mu.Unlock()
	return out, e.hydrate(ctx, n, depth+1)
}

// placeholderDepth counts the placeholders enclosing n.
func placeholderDepth(n *html.Node) int {
	depth := 0
	for p := n.Parent; p != nil; p = p.Parent {
		if _, ok := Classify(p).(Placeholder); ok {
			depth++
		}
	}
	return depth
}
