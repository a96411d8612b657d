// Package module wires the wallet session into the API using modkit
package module

import (
	"context"

	"ipvault/internal/adapters/ledger/versions"
	"ipvault/internal/adapters/wallet"
	modkit "ipvault/internal/modkit"
	"ipvault/internal/modkit/httpkit"
	"ipvault/internal/platform/logger"
	"ipvault/internal/platform/metrics"
	whttp "ipvault/internal/services/wallet/http"
	wsvc "ipvault/internal/services/wallet/service"
)

// Module implements the wallet module
type Module struct {
	modkit.Base
	ports Ports
}

// New builds the session from config; ctx bounds the account watcher
func New(ctx context.Context, deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	cfg := FromConfig(deps.Cfg)
	log := logger.Named("wallet")

	svc := Session(ctx, cfg)
	if cfg.AutoReconnect {
		if addr, err := svc.SilentReconnect(ctx); err != nil {
			log.Warn().Err(err).Msg("silent reconnect failed")
		} else if addr != "" {
			log.Info().Str("address", addr).Msg("wallet session restored")
		}
	}
	if cfg.PollInterval > 0 {
		go svc.Watch(ctx, cfg.PollInterval)
	}

	return &Module{
		Base:  modkit.Build("wallet", "/wallet", func(r httpkit.Router) { whttp.Register(r, svc) }, opts...),
		ports: Ports{Session: svc},
	}
}

// Session assembles a session from options, shared by the API and the CLI
// a broken provider or ledger config leaves that half unset and is logged
func Session(ctx context.Context, cfg Options) *wsvc.Session {
	log := logger.Named("wallet")

	var p wallet.Provider
	switch {
	case cfg.ProviderURL != "":
		rp, err := wallet.DialRPC(ctx, cfg.ProviderURL)
		if err != nil {
			log.Error().Err(err).Msg("wallet provider disabled")
			break
		}
		p = rp
	case cfg.SignerKey != "":
		kp, err := wallet.NewKeyProvider(cfg.SignerKey)
		if err != nil {
			log.Error().Err(err).Msg("wallet signer disabled")
			break
		}
		p = kp
	}

	var factory wsvc.ClientFactory
	lc := cfg.Ledger
	lc.Metrics = metrics.Default()
	if a, err := versions.Default().Open(cfg.LedgerVersion, lc); err != nil {
		log.Error().Err(err).Msg("ledger disabled")
	} else {
		factory = wsvc.AdapterFactory(a)
	}

	return wsvc.New(p, factory, wsvc.Options{ConnectTimeout: cfg.ConnectTimeout, Metrics: metrics.Default()})
}
