package hxhydrate

import (
	"context"

	"golang.org/x/net/html"
)

// Controller is the programmatic entry point for reloading an already
// hydrated component with new parameters.
//
// It is the seam through which one component's server-computed outcome
// asks another component to re-render: the client only moves opaque
// payload tokens around, all business logic stays on the server.
type Controller struct {
	doc    *Document
	loader *Loader
	opts   *options
}

// NewController creates a controller that reloads through loader.
func NewController(doc *Document, loader *Loader) *Controller {
	return newController(doc, loader, loader.opts)
}

func newController(doc *Document, loader *Loader, o *options) *Controller {
	return &Controller{doc: doc, loader: loader, opts: o}
}

// Trigger overwrites the data-object of the element with id targetID and
// reloads it. It does not hydrate the new content; use
// Engine.TriggerAndHydrate for that.
//
// A missing target is not a failure (the component may have been replaced
// in the meantime): the outcome is StatusSkipped with ErrTargetNotFound and
// nothing is rendered.
func (c *Controller) Trigger(ctx context.Context, targetID, encodedPayload string) Outcome {
	out, _ := c.trigger(ctx, targetID, encodedPayload)
	return out
}

func (c *Controller) trigger(ctx context.Context, targetID, encodedPayload string) (Outcome, *html.Node) {
	c.doc.mu.Lock()
	n := findByID(c.doc.root, targetID)
	if n != nil {
		setAttr(n, AttrObject, encodedPayload)
	}
	c.doc.mu.Unlock()

	if n == nil {
		c.opts.logger.Debug("trigger target not found", "id", targetID)
		out := Outcome{Status: StatusSkipped, Err: ErrTargetNotFound}
		c.opts.metrics.observeTrigger(out)
		return out, nil
	}

	c.opts.logger.Debug("trigger", "id", targetID)
	out := c.loader.Load(ctx, n)
	c.opts.metrics.observeTrigger(out)
	return out, n
}
