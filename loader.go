package hxhydrate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pthm/hxhydrate/lib/encoding"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Status is the settled state of a single load.
type Status int

const (
	// StatusSkipped means no request was made: the node has no component
	// reference, or a trigger target was not found.
	StatusSkipped Status = iota
	StatusLoaded
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusError:
		return "error"
	default:
		return "skipped"
	}
}

// Outcome reports how a load settled. Err is set for StatusError and for
// a trigger whose target was not found.
type Outcome struct {
	Ref    string
	Status Status
	Err    error
}

// Loader resolves a single placeholder: one request, one replacement of
// the placeholder's content. It never recurses; that is the engine's job.
type Loader struct {
	doc  *Document
	opts *options
}

// NewLoader creates a loader working against doc.
func NewLoader(doc *Document, opts ...Option) *Loader {
	return &Loader{doc: doc, opts: newOptions(opts)}
}

func newLoader(doc *Document, o *options) *Loader {
	return &Loader{doc: doc, opts: o}
}

// Load fetches the component referenced by n and replaces n's content with
// the response.
//
// A node without a data-component reference is left untouched and reported
// as StatusSkipped. Failures (transport errors, non-2xx responses) are
// rendered inline as an ErrorFragment inside n and reported to the logger;
// they are returned in the Outcome, never panicked or propagated further.
func (l *Loader) Load(ctx context.Context, n *html.Node) Outcome {
	l.doc.mu.Lock()
	el := Classify(n)
	l.doc.mu.Unlock()

	p, ok := el.(Placeholder)
	if !ok || p.Ref == "" {
		return Outcome{Status: StatusSkipped}
	}

	start := time.Now()
	out := l.load(ctx, p)
	l.opts.metrics.observeLoad(out, time.Since(start))
	return out
}

func (l *Loader) load(ctx context.Context, p Placeholder) Outcome {
	ctx, span := l.opts.tracer.Start(ctx, "hxhydrate.load",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("hxhydrate.ref", p.Ref),
			attribute.String("hxhydrate.id", p.ID),
		),
	)
	defer span.End()

	body, err := encoding.DecodeJSONParam(p.Payload)
	if err != nil {
		// An unreadable payload degrades to no payload; the load goes ahead.
		l.opts.logger.Warn("component payload ignored",
			"ref", p.Ref, "id", p.ID, "err", wrapEncodingError(err))
		body = ""
	}

	fragment, err := l.fetch(ctx, p.Ref, body)
	if err == nil {
		err = l.inject(p.Node, fragment)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return l.fail(ctx, p, err)
	}

	l.doc.mu.Lock()
	l.doc.status[p.Node] = StatusLoaded
	l.doc.mu.Unlock()

	span.SetStatus(codes.Ok, "")
	l.opts.logger.Debug("component loaded", "ref", p.Ref, "id", p.ID, "bytes", len(fragment))
	return Outcome{Ref: p.Ref, Status: StatusLoaded}
}

// fetch issues the POST for a placeholder and returns the HTML fragment.
func (l *Loader) fetch(ctx context.Context, ref, body string) ([]byte, error) {
	target, err := l.opts.resolve(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNetwork, ref, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNetwork, ref, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/html")

	resp, err := l.opts.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNetwork, ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &ResponseError{URL: ref, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: reading body: %w", ErrNetwork, ref, err)
	}
	return data, nil
}

// inject parses fragment in the context of n and replaces n's children.
func (l *Loader) inject(n *html.Node, fragment []byte) error {
	l.doc.mu.Lock()
	defer l.doc.mu.Unlock()

	nodes, err := html.ParseFragment(bytes.NewReader(fragment), fragmentContext(n))
	if err != nil {
		return fmt.Errorf("hxhydrate: parsing fragment: %w", err)
	}
	l.doc.replaceChildren(n, nodes)
	return nil
}

// fail renders the inline error marker in place of p's content.
func (l *Loader) fail(ctx context.Context, p Placeholder, cause error) Outcome {
	l.opts.logger.Error("component load failed", "ref", p.Ref, "id", p.ID, "err", cause)

	var buf bytes.Buffer
	if err := ErrorFragment(p.Ref).Render(ctx, &buf); err == nil {
		if err := l.inject(p.Node, buf.Bytes()); err != nil {
			l.opts.logger.Error("rendering error fragment", "ref", p.Ref, "err", err)
		}
	}

	l.doc.mu.Lock()
	l.doc.status[p.Node] = StatusError
	l.doc.mu.Unlock()

	return Outcome{Ref: p.Ref, Status: StatusError, Err: cause}
}

// fragmentContext returns the element whose content model governs parsing
// of n's new children.
func fragmentContext(n *html.Node) *html.Node {
	if n != nil && n.Type == html.ElementNode {
		return n
	}
	return &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
}
