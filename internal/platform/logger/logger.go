// Package logger owns the process zerolog root and the request scoped children built from it
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"ipvault/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger aliases zerolog so callers never import it for the type alone
type Logger = zerolog.Logger

// Options shapes the root logger
type Options struct {
	Level      string
	Format     string // console or json
	Service    string
	Writer     io.Writer
	WithCaller bool
}

// FromEnv reads LOG_* through the raw view; config proper logs, so it cannot be used here
func FromEnv() Options {
	rc := raw.New().Prefix("LOG_")
	return Options{
		Level:      rc.Get("LEVEL", "debug"),
		Format:     strings.ToLower(rc.Get("FORMAT", "console")),
		Service:    rc.Get("SERVICE", "ipvault"),
		WithCaller: rc.GetBool("CALLER", false),
	}
}

var (
	once sync.Once
	root atomic.Pointer[Logger]
)

// Init installs the root logger; only the first call has any effect
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano
		l := build(opt)
		root.Store(&l)
	})
}

// Get returns the root logger, initializing it from the environment on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

func build(opt Options) Logger {
	var w io.Writer = os.Stdout
	if opt.Writer != nil {
		w = opt.Writer
	}
	if opt.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	zc := zerolog.New(w).Level(level(opt.Level)).With().Timestamp()
	if opt.Service != "" {
		zc = zc.Str("service", opt.Service)
	}
	if opt.WithCaller {
		zc = zc.Caller()
	}
	return zc.Logger()
}

// level maps a name to a zerolog level; unknown names and "warning" are handled leniently
func level(name string) zerolog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		return zerolog.WarnLevel
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		return zerolog.DebugLevel
	}
	return lvl
}

type ctxKey int

const (
	keyRequestID ctxKey = iota
	keyCaller
	keyOwner
	keyItemID
)

// ctxFields lists what C copies from the context, in output order
var ctxFields = [...]struct {
	key  ctxKey
	name string
}{
	{keyRequestID, "request_id"},
	{keyCaller, "caller"},
	{keyOwner, "owner"},
	{keyItemID, "item_id"},
}

func with(ctx context.Context, k ctxKey, v string) context.Context {
	if v == "" {
		return ctx
	}
	return context.WithValue(ctx, k, v)
}

// WithRequest tags ctx with the request id and the label of the api key that sent it
func WithRequest(ctx context.Context, reqID, caller string) context.Context {
	return with(with(ctx, keyRequestID, reqID), keyCaller, caller)
}

// WithOwner tags ctx with the wallet address the request acts for
func WithOwner(ctx context.Context, addr string) context.Context {
	return with(ctx, keyOwner, addr)
}

// WithItem tags ctx with the registration item in progress
func WithItem(ctx context.Context, itemID string) context.Context {
	return with(ctx, keyItemID, itemID)
}

// C returns a child of the root carrying whatever ctx was tagged with
func C(ctx context.Context) *Logger {
	b := Get().With()
	for _, f := range ctxFields {
		if v, _ := ctx.Value(f.key).(string); v != "" {
			b = b.Str(f.name, v)
		}
	}
	l := b.Logger()
	return &l
}

// Named returns a child of the root tagged with component
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}
