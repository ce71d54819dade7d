package hxhydrate

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
)

// RecordedRequest is a request received by a TestServer.
type RecordedRequest struct {
	Method      string
	Path        string
	ContentType string
	Body        []byte
}

// TestServer is an httptest server with canned component responses that
// records every request it receives, in arrival order.
//
//	srv := hxhydrate.NewTestServer().
//	    Fragment("/c1", `<div data-component="/c2"></div>`).
//	    Fragment("/c2", `<span>leaf</span>`)
//	defer srv.Close()
//
//	result, err := hxhydrate.HydrateHTML(ctx, srv, page)
type TestServer struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []RecordedRequest
}

// NewTestServer starts a server with no routes. Unknown paths answer 404.
func NewTestServer() *TestServer {
	s := &TestServer{routes: make(map[string]http.HandlerFunc)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

func (s *TestServer) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	})
	h, ok := s.routes[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

// Fragment answers path with an HTML fragment.
func (s *TestServer) Fragment(path, fragment string) *TestServer {
	return s.Handle(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, fragment)
	})
}

// Status answers path with an empty response of the given status code.
func (s *TestServer) Status(path string, code int) *TestServer {
	return s.Handle(path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	})
}

// Handle answers path with a custom handler. The request body has already
// been recorded and consumed when h runs.
func (s *TestServer) Handle(path string, h http.HandlerFunc) *TestServer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[path] = h
	return s
}

// Requests returns a copy of the requests received so far.
func (s *TestServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestsTo returns the requests received for path.
func (s *TestServer) RequestsTo(path string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range s.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Paths returns the request paths in arrival order.
func (s *TestServer) Paths() []string {
	reqs := s.Requests()
	out := make([]string, len(reqs))
	for i, r := range reqs {
		out[i] = r.Path
	}
	return out
}

// BaseURL returns the server URL parsed, for WithBaseURL.
func (s *TestServer) BaseURL() *url.URL {
	u, _ := url.Parse(s.URL)
	return u
}

// Engine creates an engine for doc that talks to this server.
func (s *TestServer) Engine(doc *Document, opts ...Option) *Engine {
	base := []Option{WithBaseURL(s.BaseURL()), WithHTTPClient(s.Client())}
	return New(doc, append(base, opts...)...)
}

// TestResult holds the outcome of a headless hydration for assertions.
type TestResult struct {
	HTML     string
	Document *Document
	Engine   *Engine
	Requests []RecordedRequest
}

// HydrateHTML parses page, hydrates it against srv and returns the result.
func HydrateHTML(ctx context.Context, srv *TestServer, page string, opts ...Option) (*TestResult, error) {
	doc, err := ParseString(page)
	if err != nil {
		return nil, err
	}
	eng := srv.Engine(doc, opts...)
	if err := eng.Hydrate(ctx, nil); err != nil {
		return nil, err
	}
	return &TestResult{
		HTML:     doc.String(),
		Document: doc,
		Engine:   eng,
		Requests: srv.Requests(),
	}, nil
}

// HTMLContains checks if the HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the HTML contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// HasError checks if an inline error marker for ref was rendered.
func (r *TestResult) HasError(ref string) bool {
	return strings.Contains(r.HTML, `data-error-ref="`+ref+`"`)
}

// Unresolved returns the references of placeholders left unsettled.
func (r *TestResult) Unresolved() []string {
	var refs []string
	for _, n := range r.Document.Unresolved() {
		ref, _ := getAttr(n, AttrComponent)
		refs = append(refs, ref)
	}
	return refs
}
