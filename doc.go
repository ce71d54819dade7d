// Package hxhydrate implements recursive component hydration over HTML
// documents: a page is composed of nested placeholders that are resolved
// by fetching rendered fragments from a server and splicing them into the
// tree, recursively, until no placeholder is left unresolved.
//
// The package is the client half of the protocol. It does not render
// business HTML; the server owns that. It does not diff; every reload
// replaces a placeholder's whole subtree.
//
// # Markup
//
// A node becomes a placeholder by carrying a data-component reference,
// optionally a data-object payload (base64url encoded JSON) and an id:
//
//	<div id="viewer" data-component="/harbor/viewer" data-object="eyJpZCI6IjQyIn0"></div>
//
// A node becomes an action binding by carrying a data-form group name and
// a data-action-target endpoint. Fields join the group with the same
// data-form attribute and are keyed by their id:
//
//	<input data-form="item_update" id="title" value="Invoice">
//	<button data-form="item_update" data-action-target="/harbor/item_update/save">Save</button>
//
// # Hydration
//
// An Engine works against an explicit Document (there is no ambient
// global document, so tests run against in-memory trees):
//
//	doc, _ := hxhydrate.ParseString(page)
//	eng := hxhydrate.New(doc, hxhydrate.WithBaseURL(base))
//	eng.Hydrate(ctx, nil)
//
// Placeholders are loaded one at a time in document order. Each load is a
// POST of the decoded payload as application/json; the HTML response
// replaces the placeholder's content and is hydrated in turn before the
// next sibling starts. A failed load renders an inline ErrorFragment and
// never aborts its siblings or ancestors.
//
// # Updates and triggers
//
// Action bindings get an update handler during hydration. Activate runs
// it: the group's fields are collected from the document and POSTed as
// CBOR (or MessagePack, see WithFormCodec). The DOM is not touched; the
// server drives follow-up reloads through Trigger:
//
//	token, _ := hxhydrate.EncodeJSON(map[string]string{"id": "42"})
//	eng.Trigger(ctx, "viewer", token)
//
// # Server side
//
// Registry serves fragments and action endpoints with the matching body
// decoding, and PlaceholderAttrs / BindingAttrs / Defer build the markup
// from templ templates.
//
// # Observability
//
// Failures are reported to a log/slog logger (WithLogger). Prometheus
// collectors (WithMetrics) and OpenTelemetry spans (WithTracer) cover
// loads, updates and triggers.
package hxhydrate
