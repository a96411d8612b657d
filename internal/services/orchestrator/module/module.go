// Package module wires the orchestrator into the API using modkit
package module

import (
	"context"

	"ipvault/internal/adapters/events"
	modkit "ipvault/internal/modkit"
	"ipvault/internal/modkit/httpkit"
	"ipvault/internal/platform/logger"
	"ipvault/internal/platform/metrics"
	ohttp "ipvault/internal/services/orchestrator/http"
	"ipvault/internal/services/orchestrator/inflight"
	osvc "ipvault/internal/services/orchestrator/service"
)

// Module implements the registrations module
type Module struct {
	modkit.Base
	ports Ports
}

// New composes the three stage ports into the registration pipeline
func New(deps modkit.Deps, up osvc.Uploader, w osvc.Wallet, reg osvc.Registrar, opts ...modkit.Option) modkit.Module {
	svc := Service(context.Background(), deps, FromConfig(deps.Cfg), up, w, reg)
	logger.Named("orchestrator").Info().Stringer("policy", svc).Msg("orchestrator ready")

	return &Module{
		Base:  modkit.Build("registrations", "/registrations", func(r httpkit.Router) { ohttp.Register(r, svc) }, opts...),
		ports: Ports{Orchestrator: svc},
	}
}

// Service assembles the orchestrator from deps, shared by the API and the CLI
func Service(ctx context.Context, deps modkit.Deps, cfg Options, up osvc.Uploader, w osvc.Wallet, reg osvc.Registrar) *osvc.Svc {
	var lock inflight.Locker = inflight.Nop{}
	if deps.RDS != nil {
		lock = inflight.NewRedis(deps.RDS)
	}
	return osvc.New(up, w, reg, osvc.Options{
		Timeouts: cfg.Timeouts,
		Locker:   lock,
		LockTTL:  cfg.LockTTL,
		Events:   Sinks(ctx, deps, cfg.JetStream),
		Metrics:  metrics.Default(),
	})
}

// Sinks fans outcomes out to the log and to every configured backend
// a sink that cannot be set up is logged and skipped
func Sinks(ctx context.Context, deps modkit.Deps, jetStream bool) events.Sink {
	log := logger.Named("events")
	out := events.Multi{events.Log{}}

	if deps.NATS != nil {
		if jetStream {
			js, err := events.NewJetStream(deps.NATS)
			if err != nil {
				log.Error().Err(err).Msg("jetstream sink disabled")
			} else {
				out = append(out, js)
			}
		} else {
			out = append(out, events.NewNATS(deps.NATS))
		}
	}
	if deps.CH != nil {
		if err := events.EnsureTable(ctx, deps.CH); err != nil {
			log.Error().Err(err).Msg("clickhouse sink disabled")
		} else {
			out = append(out, events.NewClickHouse(deps.CH))
		}
	}
	log.Info().Int("sinks", len(out)).Msg("event sinks ready")
	return out
}
