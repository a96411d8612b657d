// Package ch provides a clickhouse client
package ch

import (
	"context"
	"errors"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures clickhouse client
type Config struct {
	URL        string
	ClientName string
	ClientTag  string
}

// Rows is the driver result set
type Rows = driver.Rows

// CH wraps a native clickhouse connection
type CH struct {
	conn driver.Conn
}

var openConn = clickhouse.Open

// Open parses the DSN, opens a native connection and pings it
func Open(ctx context.Context, cfg Config) (*CH, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("ch: empty url")
	}
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, err
	}
	opts.ClientInfo = BuildClientInfo(cfg.ClientName, cfg.ClientTag)

	conn, err := openConn(opts)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &CH{conn: conn}, nil
}

// Insert appends rows to table in a single batch
func (c *CH) Insert(ctx context.Context, table string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	batch, err := c.conn.PrepareBatch(ctx, "INSERT INTO "+table)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := batch.Append(r...); err != nil {
			_ = batch.Abort()
			return err
		}
	}
	return batch.Send()
}

// Query runs a query and returns the driver rows
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return c.conn.Query(ctx, sql, args...)
}

// Exec runs a statement without results, used for DDL
func (c *CH) Exec(ctx context.Context, sql string, args ...any) error {
	return c.conn.Exec(ctx, sql, args...)
}

// Ping checks connectivity
func (c *CH) Ping(ctx context.Context) error { return c.conn.Ping(ctx) }

// Close closes resources
func (c *CH) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
