package hxhydrate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

// bind attaches the update handler to an action binding. A node is bound
// at most once: hydrating the same region again does not stack a second
// handler. Callers hold the document lock.
func (e *Engine) bind(b ActionBinding) {
	if _, ok := e.doc.bound[b.Node]; ok {
		e.opts.logger.Debug("action binding already attached", "id", b.ID, "endpoint", b.Endpoint)
		return
	}
	e.doc.bound[b.Node] = struct{}{}
	e.opts.logger.Debug("action binding attached", "id", b.ID, "group", b.Group, "endpoint", b.Endpoint)
}

// Activate fires the update handler attached to n, as a click on the
// element would. Nodes without an attached handler are ignored.
//
// The handler re-reads the binding's data-form and data-action-target
// attributes, collects the group's fields from the whole document, and
// POSTs them with the engine's form codec. The binding element itself is
// not a field: its id never appears in the submitted map, so servers must
// not expect a key for the button. It reports ErrBindingConfig
// when either attribute is missing (no request is sent) and a
// *ResponseError for non-2xx responses. Neither outcome touches the DOM.
func (e *Engine) Activate(ctx context.Context, n *html.Node) error {
	if !e.doc.Bound(n) {
		return nil
	}
	err := e.update(ctx, n)
	e.opts.metrics.observeUpdate(err)
	return err
}

// ActivateByID fires the update handler of the element with the given id.
func (e *Engine) ActivateByID(ctx context.Context, id string) error {
	n := e.doc.GetElementByID(id)
	if n == nil {
		return nil
	}
	return e.Activate(ctx, n)
}

func (e *Engine) update(ctx context.Context, n *html.Node) error {
	e.doc.mu.Lock()
	b, ok := Classify(n).(ActionBinding)
	var fields map[string]string
	if ok && b.Group != "" && b.Endpoint != "" {
		fields = CollectForm(e.doc.root, b.Group)
	}
	e.doc.mu.Unlock()

	if !ok || b.Group == "" || b.Endpoint == "" {
		err := fmt.Errorf("%w: missing %s or %s", ErrBindingConfig, AttrForm, AttrActionTarget)
		e.opts.logger.Error("action binding misconfigured", "id", b.ID, "err", err)
		return err
	}

	ctx, span := e.opts.tracer.Start(ctx, "hxhydrate.update",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("hxhydrate.endpoint", b.Endpoint),
			attribute.String("hxhydrate.group", b.Group),
			attribute.Int("hxhydrate.fields", len(fields)),
		),
	)
	defer span.End()

	err := e.submit(ctx, b.Endpoint, fields)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.opts.logger.Error("updating item failed", "endpoint", b.Endpoint, "group", b.Group, "err", err)
		return err
	}

	span.SetStatus(codes.Ok, "")
	e.opts.logger.Info("update successful", "endpoint", b.Endpoint, "group", b.Group, "fields", len(fields))
	return nil
}

func (e *Engine) submit(ctx context.Context, endpoint string, fields map[string]string) error {
	body, err := e.opts.codec.Marshal(fields)
	if err != nil {
		return fmt.Errorf("hxhydrate: encoding form: %w", err)
	}

	target, err := e.opts.resolve(endpoint)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNetwork, endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNetwork, endpoint, err)
	}
	req.Header.Set("Content-Type", e.opts.codec.ContentType())

	resp, err := e.opts.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNetwork, endpoint, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ResponseError{URL: endpoint, StatusCode: resp.StatusCode}
	}
	return nil
}
