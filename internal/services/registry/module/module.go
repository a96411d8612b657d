// Package module wires the registration client into the API using modkit
package module

import (
	"context"

	modkit "ipvault/internal/modkit"
	"ipvault/internal/modkit/httpkit"
	"ipvault/internal/modkit/repokit"
	"ipvault/internal/platform/logger"
	rhttp "ipvault/internal/services/registry/http"
	"ipvault/internal/services/registry/repo"
	rsvc "ipvault/internal/services/registry/service"
	"ipvault/internal/services/wallet/domain"
)

// Module implements the assets module
type Module struct {
	modkit.Base
	ports Ports
}

// New builds the registry on top of the wallet session port
func New(deps modkit.Deps, sessions domain.ServicePort, opts ...modkit.Option) modkit.Module {
	svc := rsvc.New(sessions, Cache(context.Background(), deps))

	return &Module{
		Base:  modkit.Build("assets", "/assets", func(r httpkit.Router) { rhttp.Register(r, svc) }, opts...),
		ports: Ports{Registry: svc},
	}
}

// Cache picks the postgres cache when configured, memory otherwise
func Cache(ctx context.Context, deps modkit.Deps) repo.Repo {
	log := logger.Named("registry")
	if deps.PG == nil {
		log.Info().Msg("asset cache in memory")
		return repo.NewMemory()
	}
	if err := repo.Migrate(ctx, deps.PG); err != nil {
		log.Error().Err(err).Msg("asset cache migration failed, using memory")
		return repo.NewMemory()
	}
	return repokit.MustBind(repo.NewPG(), deps.PG)
}
