package hxhydrate

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/pthm/hxhydrate/lib/encoding"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/pthm/hxhydrate"

// Option configures a Loader or an Engine.
type Option func(*options)

type options struct {
	client   Doer
	baseURL  *url.URL
	logger   *slog.Logger
	codec    encoding.FormCodec
	metrics  *Metrics
	tracer   trace.Tracer
	maxDepth int
}

// WithHTTPClient sets the client used for loads and form submissions.
// Defaults to http.DefaultClient. No timeout is applied beyond what the
// client and the context carry.
func WithHTTPClient(c Doer) Option {
	return func(o *options) {
		o.client = c
	}
}

// WithBaseURL resolves relative component references and action endpoints
// against base, the way a browser resolves them against the page URL.
func WithBaseURL(base *url.URL) Option {
	return func(o *options) {
		o.baseURL = base
	}
}

// WithLogger sets the diagnostic sink. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithFormCodec sets the binary codec for action submissions.
// Defaults to CBOR.
func WithFormCodec(c FormCodec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithTracer sets the tracer for load and update spans. Defaults to the
// tracer of the global OpenTelemetry provider.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

// WithMaxDepth bounds how deeply nested placeholders are expanded.
// Placeholders beyond the limit render an inline error instead of loading.
// Zero, the default, means unlimited.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		o.maxDepth = n
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.client == nil {
		o.client = http.DefaultClient
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.codec == nil {
		o.codec = encoding.CBOR
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
	return o
}

// resolve turns a reference from the markup into a request URL.
func (o *options) resolve(ref string) (string, error) {
	if o.baseURL == nil {
		return ref, nil
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return o.baseURL.ResolveReference(u).String(), nil
}
