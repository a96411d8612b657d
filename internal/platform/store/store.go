// Package store opens the optional postgres, clickhouse, redis and nats backends behind small seams
package store

import (
	"context"
	"errors"
	"fmt"

	"ipvault/internal/platform/logger"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
)

// Store holds whichever backends were enabled; a disabled backend is nil
type Store struct {
	Log logger.Logger

	PG   TxRunner      // registered asset index
	CH   Clickhouse    // registration event sink
	RDS  *redis.Client // in flight registration locks
	NATS *nats.Conn    // registration event fan out
}

// Row is a single result row
type Row interface {
	Scan(dest ...any) error
}

// Rows iterates a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag reports what an Exec touched
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier runs sql against a pool or an open transaction
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner commits when fn returns nil and rolls back otherwise
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the columnar seam used for event batches
type Clickhouse interface {
	// Insert appends rows to table in one batch; data must be [][]any
	Insert(ctx context.Context, table string, data any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Exec(ctx context.Context, sql string, args ...any) error
	Close() error
}

// Pinger is implemented by seams that can check their connection
type Pinger interface{ Ping(context.Context) error }

// Open dials every backend cfg enables; a failure closes what was already open
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	s.Log = s.Log.With().Logger()

	steps := []struct {
		on   bool
		open func() error
	}{
		{cfg.PG.Enabled, func() (err error) { s.PG, err = openPG(ctx, cfg, s); return }},
		{cfg.CH.Enabled, func() (err error) { s.CH, err = openCH(ctx, cfg, s); return }},
		{cfg.RDS.Enabled, func() (err error) { s.RDS, err = openRedis(ctx, cfg, s); return }},
		{cfg.NATS.Enabled, func() (err error) { s.NATS, err = openNATS(ctx, cfg, s); return }},
	}
	for _, st := range steps {
		if !st.on {
			continue
		}
		if err := st.open(); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
	}
	return s, nil
}

type backend struct {
	name  string
	ping  func(context.Context) error
	close func() error
}

// backends lists the open seams in close order, newest first
func (s *Store) backends() []backend {
	var out []backend
	if nc := s.NATS; nc != nil {
		out = append(out, backend{"nats", func(context.Context) error {
			if !nc.IsConnected() {
				return fmt.Errorf("status %s", nc.Status())
			}
			return nil
		}, nc.Drain})
	}
	if rds := s.RDS; rds != nil {
		out = append(out, backend{"redis", func(ctx context.Context) error { return rds.Ping(ctx).Err() }, rds.Close})
	}
	if s.CH != nil {
		out = append(out, seam("ch", s.CH))
	}
	if s.PG != nil {
		out = append(out, seam("pg", s.PG))
	}
	return out
}

// seam adapts an interface backend; ping and close are optional
func seam(name string, v any) backend {
	b := backend{name: name, ping: func(context.Context) error { return nil }, close: func() error { return nil }}
	if p, ok := v.(Pinger); ok {
		b.ping = p.Ping
	}
	if c, ok := v.(interface{ Close() error }); ok {
		b.close = c.Close
	}
	return b
}

// Guard pings every open backend and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	for _, b := range s.backends() {
		if err := b.ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.name, err))
		}
	}
	return errors.Join(errs...)
}

// Close releases every open backend; ctx is unused by the current drivers
func (s *Store) Close(_ context.Context) error {
	var errs []error
	for _, b := range s.backends() {
		if err := b.close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.name, err))
		}
	}
	return errors.Join(errs...)
}
