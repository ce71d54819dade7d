// Package hxhydrateecho provides Echo framework integration for hxhydrate
// component registries.
//
// Mount a registry onto an Echo instance or group:
//
//	e := echo.New()
//	reg := hxhydrateecho.Mount(e)
//	reg.Fragment("/_c/viewer", viewer)
//
// Or mount on a group with middleware:
//
//	g := e.Group("/app", authMiddleware)
//	reg := hxhydrateecho.MountGroup(g)
//	reg.Action("/app/_c/save", save)
//
// Registry paths are full request paths; the mount path only selects which
// requests Echo hands to the registry.
package hxhydrateecho

import (
	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/pthm/hxhydrate"
)

// Option configures the Mount and MountGroup functions.
type Option func(*options)

type options struct {
	path     string
	registry *hxhydrate.Registry
}

// WithPath sets the URL path prefix for component routes.
// Defaults to "/_c/".
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithRegistry mounts an existing registry instead of creating one.
func WithRegistry(reg *hxhydrate.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// Mount creates a registry and mounts its handler on an Echo instance.
//
//	e := echo.New()
//	reg := hxhydrateecho.Mount(e, hxhydrateecho.WithPath("/harbor/"))
func Mount(e *echo.Echo, opts ...Option) *hxhydrate.Registry {
	o := newOptions(opts)
	e.Any(o.path+"*", echo.WrapHandler(o.registry.Handler()))
	return o.registry
}

// MountGroup creates a registry and mounts its handler on an Echo group.
// This allows components to share middleware with the group (auth, logging, etc.).
// The prefix is relative to the group.
func MountGroup(g *echo.Group, opts ...Option) *hxhydrate.Registry {
	o := newOptions(opts)
	g.Any(o.path+"*", echo.WrapHandler(o.registry.Handler()))
	return o.registry
}

func newOptions(opts []Option) *options {
	o := &options{path: "/_c/"}
	for _, opt := range opts {
		opt(o)
	}
	if o.registry == nil {
		o.registry = hxhydrate.NewRegistry()
	}
	return o
}

// Render writes a templ component to the Echo response.
//
//	func handler(c echo.Context) error {
//	    return hxhydrateecho.Render(c, myTemplate())
//	}
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Request().Context(), c.Response())
}
