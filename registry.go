package hxhydrate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/a-h/templ"
)

// FragmentFunc renders a component for the payload posted by a placeholder.
type FragmentFunc func(ctx context.Context, payload Payload) (templ.Component, error)

// ActionFunc handles the fields submitted by an action binding.
type ActionFunc func(ctx context.Context, fields map[string]string) error

// Registry is the server-side collaborator of the engine: it serves the
// fragments placeholders load and the endpoints action bindings submit to.
//
//	reg := hxhydrate.NewRegistry()
//	reg.Fragment("/harbor/viewer", viewer)
//	reg.Action("/harbor/item_update/save", saveItem)
//	http.Handle("/harbor/", reg.Handler())
//
// Both kinds of route only accept POST, matching what the engine sends.
type Registry struct {
	mu     sync.RWMutex
	mux    *http.ServeMux
	routes map[string]string // path -> "fragment" | "action"

	// OnError is called when a handler returns an error or a request body
	// cannot be decoded. Customize this to render application error pages.
	OnError func(http.ResponseWriter, *http.Request, error)
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	reg := &Registry{
		mux:    http.NewServeMux(),
		routes: make(map[string]string),
	}

	// Default error handler
	reg.OnError = func(w http.ResponseWriter, r *http.Request, err error) {
		switch {
		case errors.Is(err, ErrNotFound):
			http.Error(w, "Not found", http.StatusNotFound)
		case errors.Is(err, ErrUnsupportedMediaType):
			http.Error(w, "Unsupported media type", http.StatusUnsupportedMediaType)
		case errors.Is(err, ErrBadRequest):
			http.Error(w, "Bad request", http.StatusBadRequest)
		default:
			http.Error(w, "Internal error", http.StatusInternalServerError)
		}
	}

	return reg
}

// Fragment registers a component endpoint. The request body is the
// placeholder's JSON payload (an empty body is an empty payload); the
// response is the rendered HTML fragment.
// Panics if path is already registered.
func (reg *Registry) Fragment(path string, fn FragmentFunc) {
	reg.register(path, "fragment", func(w http.ResponseWriter, r *http.Request) {
		payload, err := DecodePayload(r)
		if err != nil {
			reg.OnError(w, r, err)
			return
		}
		component, err := fn(r.Context(), payload)
		if err != nil {
			reg.OnError(w, r, err)
			return
		}
		if err := Render(w, r, component); err != nil {
			reg.OnError(w, r, err)
		}
	})
}

// Action registers an action endpoint. The request body is the binary
// encoded field mapping (CBOR or MessagePack, chosen by Content-Type).
// A nil error from fn answers 204 No Content.
// Panics if path is already registered.
func (reg *Registry) Action(path string, fn ActionFunc) {
	reg.register(path, "action", func(w http.ResponseWriter, r *http.Request) {
		fields, err := DecodeFields(r)
		if err != nil {
			reg.OnError(w, r, err)
			return
		}
		if err := fn(r.Context(), fields); err != nil {
			reg.OnError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func (reg *Registry) register(path, kind string, h http.HandlerFunc) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, exists := reg.routes[path]; exists {
		panic(fmt.Sprintf("hxhydrate: route collision for %q", path))
	}
	reg.routes[path] = kind
	reg.mux.HandleFunc(http.MethodPost+" "+path, h)
}

// Paths returns the registered paths in sorted order.
func (reg *Registry) Paths() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	paths := make([]string, 0, len(reg.routes))
	for p := range reg.routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Handler returns the HTTP handler serving all registered routes.
// Other methods on a registered path answer 405.
func (reg *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reg.mu.RLock()
		mux := reg.mux
		reg.mu.RUnlock()
		mux.ServeHTTP(w, r)
	})
}
