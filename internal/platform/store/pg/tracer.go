package pg

import (
	"context"
	"strings"
	"time"

	"ipvault/internal/platform/logger"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

var now = time.Now

type startKey struct{}

type started struct {
	at   time.Time
	sql  string
	args int
}

// Tracer logs every statement on the request logger
// failures and statements slower than slow are warnings, the rest debug
// args are counted, never logged, since they carry asset documents
func Tracer(slow time.Duration) pgx.QueryTracer {
	return &tracer{slow: slow, log: logger.C}
}

type tracer struct {
	slow time.Duration
	log  func(context.Context) *logger.Logger
}

func (t *tracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, startKey{}, started{at: now(), sql: d.SQL, args: len(d.Args)})
}

func (t *tracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryEndData) {
	s, ok := ctx.Value(startKey{}).(started)
	if !ok {
		return
	}
	elapsed := now().Sub(s.at)
	slow := t.slow > 0 && elapsed >= t.slow

	level := zerolog.DebugLevel
	if slow || d.Err != nil {
		level = zerolog.WarnLevel
	}
	t.log(ctx).WithLevel(level).
		Str("component", "pg").
		Str("sql", compact(s.sql)).
		Int("args", s.args).
		Dur("elapsed", elapsed).
		Bool("slow", slow).
		Str("tag", d.CommandTag.String()).
		Err(d.Err).
		Msg("pg query")
}

func compact(sql string) string { return strings.Join(strings.Fields(sql), " ") }
