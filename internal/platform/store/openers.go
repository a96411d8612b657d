package store

import (
	"context"
	"fmt"
	"time"

	chx "ipvault/internal/platform/store/ch"
	"ipvault/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
)

// seams for tests
var (
	natsConnect = nats.Connect
	sleep       = time.Sleep
)

// openPG builds the pool and pings it with backoff until postgres answers
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pgx.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(time.Duration(cfg.PG.SlowQueryMs) * time.Millisecond)
	}
	pool, err := pg.Open(ctx, pg.Config{URL: cfg.PG.URL, MaxConns: cfg.PG.MaxConns, Tracer: tracer})
	if err != nil {
		return nil, err
	}

	attempts := cfg.PG.ConnectRetries
	if attempts <= 0 {
		attempts = 20
	}
	timeout := cfg.PG.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	var lastErr error
	backoff := 150 * time.Millisecond
	for range attempts {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		lastErr = pool.Ping(pctx)
		cancel()
		if lastErr == nil {
			s.Log.Debug().Str("component", "pg").Int32("max_conns", pool.Config().MaxConns).Msg("postgres connected")
			return newPGPool(pool), nil
		}
		if ctx.Err() != nil {
			pool.Close()
			return nil, ctx.Err()
		}
		sleep(backoff)
		backoff = min(backoff*2, 2*time.Second)
	}

	pool.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, lastErr)
}

func openCH(ctx context.Context, cfg Config, s *Store) (Clickhouse, error) {
	name := cfg.CH.ClientName
	if name == "" {
		name = cfg.AppName
	}
	c, err := chx.Open(ctx, chx.Config{
		URL:        cfg.CH.URL,
		ClientName: name,
		ClientTag:  cfg.CH.ClientTag,
	})
	if err != nil {
		return nil, fmt.Errorf("clickhouse open: %w", err)
	}
	s.Log.Debug().Str("component", "ch").Msg("clickhouse connected")
	return newCHAdapter(c), nil
}

func openRedis(ctx context.Context, cfg Config, s *Store) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RDS.Addr,
		Password: cfg.RDS.Password,
		DB:       cfg.RDS.DB,
	})
	toCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(toCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RDS.Addr, err)
	}
	s.Log.Debug().Str("component", "redis").Str("addr", cfg.RDS.Addr).Msg("redis connected")
	return rdb, nil
}

func openNATS(_ context.Context, cfg Config, s *Store) (*nats.Conn, error) {
	name := cfg.AppName
	if name == "" {
		name = "ipvault"
	}
	log := s.Log.With().Str("component", "nats").Logger()
	nc, err := natsConnect(cfg.NATS.URL,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	log.Debug().Str("url", nc.ConnectedUrl()).Msg("nats connected")
	return nc, nil
}
