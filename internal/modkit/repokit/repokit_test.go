package repokit

import (
	"context"
	"testing"

	"ipvault/internal/platform/store"
	"ipvault/internal/platform/testkit"
)

type fakeQ struct{}

func (fakeQ) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (fakeQ) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (fakeQ) QueryRow(context.Context, string, ...any) store.Row             { return nil }

type binder struct{}

func (binder) Bind(q Queryer) Queryer { return q }

func TestMustBind(t *testing.T) {
	t.Parallel()

	var q Queryer = fakeQ{}
	if got := MustBind[Queryer](binder{}, q); got != q {
		t.Fatalf("MustBind returned %v, want the given queryer", got)
	}
	testkit.MustPanic(t, func() { _ = MustBind[Queryer](binder{}, nil) })
}
