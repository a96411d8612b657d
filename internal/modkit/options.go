package modkit

import (
	"net/http"

	phttp "ipvault/internal/platform/net/http"
)

// Option overrides a module default at construction
type Option func(*buildCfg)

type buildCfg struct {
	name     string
	prefix   string
	mw       []func(http.Handler) http.Handler
	register func(phttp.Router)
}

// WithName renames a module
func WithName(name string) Option {
	return func(c *buildCfg) { c.name = name }
}

// WithPrefix moves a module to another mount path
func WithPrefix(prefix string) Option {
	return func(c *buildCfg) { c.prefix = prefix }
}

// WithMiddlewares attaches per module middleware in order, api keys arrive this way
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(c *buildCfg) { c.mw = append(c.mw, mw...) }
}

// WithRegister adds endpoints after the module's own
func WithRegister(fn func(phttp.Router)) Option {
	return func(c *buildCfg) { c.register = fn }
}
