// Package module wires the uploader into the API using modkit
package module

import (
	"context"

	"ipvault/internal/adapters/storage"
	modkit "ipvault/internal/modkit"
	"ipvault/internal/modkit/httpkit"
	"ipvault/internal/platform/logger"
	"ipvault/internal/platform/metrics"
	uphttp "ipvault/internal/services/uploader/http"
	upsvc "ipvault/internal/services/uploader/service"
)

// Module implements the storage module
type Module struct {
	modkit.Base
	ports Ports
}

// New constructs the storage module from CORE_STORAGE_* config
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	cfg := FromConfig(deps.Cfg)
	svc := upsvc.New(
		openSlot(cfg.Primary, cfg.Backends),
		openSlot(cfg.Secondary, cfg.Backends),
		upsvc.Options{Timeout: cfg.Timeout, RequireOne: cfg.RequireOne, Metrics: metrics.Default()},
	)
	logger.Named("storage").Info().Stringer("policy", svc).Msg("storage backends ready")

	return &Module{
		Base:  modkit.Build("storage", "/storage", func(r httpkit.Router) { uphttp.Register(r, svc) }, opts...),
		ports: Ports{Uploader: svc},
	}
}

// openSlot builds one backend; a misconfigured slot is logged and left disabled
// so the upload degrades instead of the process refusing to start
func openSlot(kind string, cfg storage.Config) storage.Backend {
	log := logger.Named("storage")
	k, err := storage.ParseKind(kind)
	if err != nil {
		log.Error().Err(err).Msg("storage slot disabled")
		return nil
	}
	be, err := storage.Open(context.Background(), k, cfg)
	if err != nil {
		log.Error().Err(err).Str("kind", string(k)).Msg("storage slot disabled")
		return nil
	}
	return be
}
