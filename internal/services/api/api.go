// Package api provides the HTTP API for the application
package api

import (
	"context"
	"fmt"
	"time"

	"ipvault/internal/platform/config"
	"ipvault/internal/platform/logger"
	"ipvault/internal/platform/metrics"
	phttp "ipvault/internal/platform/net/http"
	"ipvault/internal/platform/store"

	"ipvault/internal/modkit"
	"ipvault/internal/modkit/httpkit"
	"ipvault/internal/modkit/module"
	"ipvault/internal/modkit/swaggerkit"

	metamod "ipvault/internal/services/api/meta/module"
	orchmod "ipvault/internal/services/orchestrator/module"
	regmod "ipvault/internal/services/registry/module"
	upmod "ipvault/internal/services/uploader/module"
	walletmod "ipvault/internal/services/wallet/module"
)

// ServiceName labels this process in logs and meta endpoints
const ServiceName = "ipvault-api"

// Options are the API options
type Options struct {
	// Context bounds background work such as the wallet account watcher
	Context context.Context

	// Config is the root config view, modules take their own prefixes from it
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
	EnableMetrics  bool

	// RequestTimeout caps one request, registrations include the wallet prompt
	RequestTimeout time.Duration
	CORSOrigins    []string

	// APIKeys guard every module but meta when set, entries are label:secret
	APIKeys []string
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	ctx := opt.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.Get()
	if opt.Logger != nil {
		log = opt.Logger
	}

	// shared deps for modules
	deps := modkit.FromStore(*log, opt.Config, opt.Store)

	var guarded []modkit.Option
	if keys := httpkit.NewKeyPort(opt.APIKeys); keys.Len() > 0 {
		guarded = append(guarded, modkit.WithMiddlewares(httpkit.Auth(keys)))
		log.Info().Int("keys", keys.Len()).Msg("api keys required")
	}

	// the stages are built bottom up and handed to the orchestrator as ports
	storage := upmod.New(deps, guarded...)
	wallet := walletmod.New(ctx, deps, guarded...)
	session := module.MustPortsOf[walletmod.Ports](wallet).Session
	assets := regmod.New(deps, session, guarded...)

	uploader := module.MustPortsOf[upmod.Ports](storage).Uploader
	registry := module.MustPortsOf[regmod.Ports](assets).Registry
	registrations := orchmod.New(deps, uploader, session, registry, guarded...)
	orch := module.MustPortsOf[orchmod.Ports](registrations).Orchestrator

	mounted := module.NewSet()
	mods := []module.Module{
		metamod.New(deps, ServiceName, mounted.Names, components(map[string]any{
			"storage":       uploader,
			"wallet":        session,
			"registrations": orch,
		})),
		storage,
		wallet,
		assets,
		registrations,
	}

	if opt.EnableMetrics {
		r.Handle("/metrics", metrics.Default().Handler())
	}

	stack := httpkit.Stack(httpkit.StackOptions{Timeout: opt.RequestTimeout, CORSOrigins: opt.CORSOrigins})
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			mounted.Add(m)
			m.MountRoutes(api)
		}
	})
	log.Info().Int("modules", len(mods)).Bool("metrics", opt.EnableMetrics).Msg("api mounted")
}

// components keeps the ports that can describe their policy
func components(in map[string]any) map[string]fmt.Stringer {
	out := make(map[string]fmt.Stringer, len(in))
	for name, v := range in {
		if s, ok := v.(fmt.Stringer); ok {
			out[name] = s
		}
	}
	return out
}
