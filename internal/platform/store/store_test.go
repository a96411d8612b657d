package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ipvault/internal/platform/config"
	perr "ipvault/internal/platform/errors"
	"ipvault/internal/platform/testkit"

	"github.com/nats-io/nats.go"
)

// fakeRows iterates over an in memory table
type fakeRows struct {
	data [][]any
	i    int
	err  error
}

func (r *fakeRows) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.i-1]
	for i := range dest {
		switch d := dest[i].(type) {
		case *string:
			*d = row[i].(string)
		case *int:
			*d = row[i].(int)
		default:
			return errors.New("unsupported scan type")
		}
	}
	return nil
}

func (r *fakeRows) Err() error        { return r.err }
func (r *fakeRows) Close()            {}
func (r *fakeRows) Columns() []string { return nil }

type fakeTag struct{ n int64 }

func (t fakeTag) String() string      { return "" }
func (t fakeTag) RowsAffected() int64 { return t.n }

// fakeTx is a TxRunner that serves one canned result
type fakeTx struct {
	rows     [][]any
	affected int64
	pingErr  error
	closed   bool
}

func (f *fakeTx) Exec(context.Context, string, ...any) (CommandTag, error) {
	return fakeTag{n: f.affected}, nil
}

func (f *fakeTx) Query(context.Context, string, ...any) (Rows, error) {
	return &fakeRows{data: f.rows}, nil
}

func (f *fakeTx) QueryRow(context.Context, string, ...any) Row { return nil }

func (f *fakeTx) Tx(ctx context.Context, fn func(q RowQuerier) error) error { return fn(f) }

func (f *fakeTx) Ping(context.Context) error { return f.pingErr }

func (f *fakeTx) Close() error { f.closed = true; return nil }

func TestOpen_NothingEnabled(t *testing.T) {
	t.Parallel()

	s, err := Open(context.Background(), Config{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.PG != nil || s.CH != nil || s.RDS != nil || s.NATS != nil {
		t.Fatalf("expected all seams nil, got %+v", s)
	}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("Guard on empty store: %v", err)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close on empty store: %v", err)
	}
}

func TestOpen_WithTxRunner_GuardAndClose(t *testing.T) {
	t.Parallel()

	tx := &fakeTx{pingErr: errors.New("down")}
	s, err := Open(context.Background(), Config{}, WithTxRunner(tx))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	err = s.Guard(context.Background())
	if err == nil || !strings.Contains(err.Error(), "pg: down") {
		t.Fatalf("Guard err = %v, want pg: down", err)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !tx.closed {
		t.Fatalf("expected pg seam to be closed")
	}
}

func TestOpen_NATSConnectError(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &natsConnect, func(string, ...nats.Option) (*nats.Conn, error) {
		return nil, errors.New("no servers")
	})

	_, err := Open(context.Background(), Config{NATS: NATSConfig{Enabled: true, URL: "nats://nowhere:4222"}})
	if err == nil || !strings.Contains(err.Error(), "nats connect") {
		t.Fatalf("err = %v, want nats connect failure", err)
	}
}

func TestOne_ExecOne(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	scan := func(r Row) (string, error) {
		var id string
		err := r.Scan(&id)
		return id, err
	}

	tx := &fakeTx{rows: [][]any{{"a"}, {"b"}}, affected: 1}
	got, err := One(ctx, tx, scan, "select id")
	if err != nil || got != "a" {
		t.Fatalf("One = %q, %v", got, err)
	}
	if err := ExecOne(ctx, tx, "update"); err != nil {
		t.Fatalf("ExecOne: %v", err)
	}

	empty := &fakeTx{affected: 0}
	if _, err := One(ctx, empty, scan, "select id"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("One on empty = %v, want not found", err)
	}
	if err := ExecOne(ctx, empty, "update"); !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("ExecOne on zero rows = %v, want db error", err)
	}
}

func TestCHAdapter_RejectsShape(t *testing.T) {
	t.Parallel()

	a := &clickhouseAdapter{}
	if err := a.Insert(context.Background(), "registration_events", []string{"x"}); err == nil {
		t.Fatalf("expected shape error")
	}
	if err := a.Ping(context.Background()); err == nil {
		t.Fatalf("expected nil inner ping error")
	}
}

func TestFromEnv_EnablesWhatIsSet(t *testing.T) {
	t.Setenv("SERVICE_REDIS_ADDR", "localhost:6379")
	t.Setenv("SERVICE_NATS_URL", "nats://localhost:4222")
	t.Setenv("SERVICE_NATS_JETSTREAM", "true")
	t.Setenv("SERVICE_PGSQL_DBURL", "")

	c := FromEnv(config.New(), "api")
	if c.PG.Enabled || c.CH.Enabled {
		t.Fatalf("pg/ch enabled without urls: %+v", c)
	}
	if !c.RDS.Enabled || c.RDS.Addr != "localhost:6379" {
		t.Fatalf("redis = %+v", c.RDS)
	}
	if !c.NATS.Enabled || !c.NATS.JetStream || c.CH.ClientTag != "api" {
		t.Fatalf("nats = %+v ch = %+v", c.NATS, c.CH)
	}
}
