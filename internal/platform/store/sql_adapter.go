package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxQuerier is what both the pool and a pgx.Tx offer
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgQueries adapts a pgxQuerier to RowQuerier
type pgQueries struct{ q pgxQuerier }

func (p pgQueries) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return p.q.Exec(ctx, sql, args...)
}

func (p pgQueries) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rs, err := p.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgRows{rs}, nil
}

func (p pgQueries) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return p.q.QueryRow(ctx, sql, args...)
}

// pgPool is the TxRunner handed to repos when postgres is enabled
type pgPool struct {
	pgQueries
	pool *pgxpool.Pool
}

func newPGPool(pool *pgxpool.Pool) *pgPool {
	return &pgPool{pgQueries: pgQueries{q: pool}, pool: pool}
}

func (p *pgPool) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }

func (p *pgPool) Close() error {
	p.pool.Close()
	return nil
}

// Tx commits when fn returns nil and rolls back otherwise
func (p *pgPool) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		return fn(pgQueries{q: tx})
	})
}

type pgRows struct{ pgx.Rows }

func (r pgRows) Columns() []string {
	fds := r.FieldDescriptions()
	out := make([]string, len(fds))
	for i, fd := range fds {
		out[i] = fd.Name
	}
	return out
}
