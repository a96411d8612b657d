// Package pg builds the pgx pool behind the asset cache
package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Config is what the pool needs; a nil Tracer leaves statements unlogged
type Config struct {
	URL      string
	MaxConns int32
	Tracer   pgx.QueryTracer
}

var newPool = pgxpool.NewWithConfig

// Open parses cfg and builds the pool, connections are dialed lazily
func Open(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("pg config: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.Tracer != nil {
		pcfg.ConnConfig.Tracer = cfg.Tracer
	}
	return newPool(ctx, pcfg)
}
