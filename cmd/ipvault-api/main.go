// @title         ipvault API
// @version       0.1.0
// @description   Fingerprint, store and register creative work as on-chain IP assets

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"ipvault/internal/platform/config"
	"ipvault/internal/platform/logger"
	phttp "ipvault/internal/platform/net/http"
	"ipvault/internal/platform/store"

	"ipvault/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// bring up logging early
	l := logger.Get()

	// every backend is optional, FromEnv enables what has a url
	st, err := store.Open(ctx, store.FromEnv(root, "api"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	if err := st.Guard(ctx); err != nil {
		l.Warn().Err(err).Msg("store degraded at startup")
	}

	// listens on CORE_API_API_PORT
	srv := phttp.NewServer(apiCfg)

	api.Mount(
		srv.Router(),
		api.Options{
			Context:        ctx,
			Config:         root,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
			EnableMetrics:  apiCfg.MayBool("METRICS", true),
			RequestTimeout: apiCfg.MayDuration("TIMEOUT", 5*time.Minute),
			CORSOrigins:    apiCfg.MayCSV("CORS_ORIGINS", nil),
			APIKeys:        apiCfg.MayCSV("KEYS", nil),
		},
	)

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
