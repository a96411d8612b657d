// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"context"
	"fmt"
	"time"

	modkit "ipvault/internal/modkit"
	"ipvault/internal/modkit/httpkit"
	perr "ipvault/internal/platform/errors"
	"ipvault/internal/platform/store"

	metahttp "ipvault/internal/services/api/meta/http"
)

// Module serves health, readiness and build info; it exposes no ports
type Module struct {
	modkit.Base
}

// New constructs a meta module; modules lists what is mounted and components name the pipeline stages to report
func New(deps modkit.Deps, service string, modules func() []string, components map[string]fmt.Stringer, opts ...modkit.Option) modkit.Module {
	d := metahttp.Deps{
		ServiceName: service,
		StartedAt:   time.Now(),
		Checks:      Checks(deps),
		Modules:     modules,
		Components:  components,
	}
	return &Module{Base: modkit.Build("meta", "/meta", func(r httpkit.Router) { metahttp.Register(r, d) }, opts...)}
}

// Checks builds one readiness check per store seam; disabled seams are nil
func Checks(deps modkit.Deps) map[string]metahttp.Check {
	checks := map[string]metahttp.Check{"pg": nil, "ch": nil, "redis": nil, "nats": nil}
	if p, ok := deps.PG.(store.Pinger); ok {
		checks["pg"] = p.Ping
	}
	if p, ok := deps.CH.(store.Pinger); ok {
		checks["ch"] = p.Ping
	}
	if rds := deps.RDS; rds != nil {
		checks["redis"] = func(ctx context.Context) error { return rds.Ping(ctx).Err() }
	}
	if nc := deps.NATS; nc != nil {
		checks["nats"] = func(context.Context) error {
			if !nc.IsConnected() {
				return perr.Unavailablef("nats %s", nc.Status())
			}
			return nil
		}
	}
	return checks
}
