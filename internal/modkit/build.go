package modkit

import (
	"net/http"

	"ipvault/internal/modkit/httpkit"
	str "ipvault/internal/platform/strings"
)

// Base is the routing half of a module; service modules embed it and add Ports
type Base struct {
	name   string
	prefix string
	mw     []func(http.Handler) http.Handler
	routes func(httpkit.Router)
	extra  func(httpkit.Router)
}

// Build applies opts over the module's default name and prefix
// routes registers the module's own endpoints under the prefix
func Build(name, prefix string, routes func(httpkit.Router), opts ...Option) Base {
	c := buildCfg{name: name, prefix: prefix}
	for _, o := range opts {
		o(&c)
	}
	return Base{
		name:   c.name,
		prefix: c.prefix,
		mw:     append([]func(http.Handler) http.Handler(nil), c.mw...),
		routes: routes,
		extra:  c.register,
	}
}

// MountRoutes mounts the module under its prefix with its middlewares
func (b Base) MountRoutes(r httpkit.Router) {
	r.Route(b.Prefix(), func(rr httpkit.Router) {
		if len(b.mw) > 0 {
			rr.Use(b.mw...)
		}
		if b.routes != nil {
			b.routes(rr)
		}
		if b.extra != nil {
			b.extra(rr)
		}
	})
}

// Name returns the module name
func (b Base) Name() string { return str.MustString(b.name, "module name") }

// Prefix returns the normalized mount path
func (b Base) Prefix() string { return str.MustPrefix(b.prefix) }

// Ports is nil unless the embedding module overrides it
func (b Base) Ports() any { return nil }
