package hxhydrate

import (
	"net/http"

	"golang.org/x/net/html"
)

// Doer performs outbound HTTP requests. *http.Client satisfies it.
//
// Loads and form submissions go through a single Doer so tests and
// embedding applications can substitute transports (httptest servers,
// in-process handlers, clients with custom TLS or auth).
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Element is the typed view of a DOM node as far as hydration is concerned.
// It is one of Placeholder, ActionBinding or Plain.
//
// Classification is derived once from the node's attributes so the loader,
// the engine and the update handler agree on what a node is:
//
//	switch el := hxhydrate.Classify(n).(type) {
//	case hxhydrate.Placeholder:
//	    // el.Ref, el.Payload, el.ID
//	case hxhydrate.ActionBinding:
//	    // el.Group, el.Endpoint
//	}
type Element interface {
	DOMNode() *html.Node
	element()
}
