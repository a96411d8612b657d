package modkit

import (
	"testing"

	"ipvault/internal/platform/config"
	"ipvault/internal/platform/logger"
	"ipvault/internal/platform/store"
)

func TestDeps_ZeroValue_IsOK(t *testing.T) {
	t.Parallel()
	var d Deps // zero value across all fields
	if !d.ZeroOK() {
		t.Fatal("zero-value Deps should be safe in tests (ZeroOK == true)")
	}
}

func TestFromStore(t *testing.T) {
	t.Parallel()

	d := FromStore(*logger.Get(), config.New(), nil)
	if d.PG != nil || d.CH != nil || d.RDS != nil || d.NATS != nil {
		t.Fatalf("nil store should leave seams unset: %+v", d)
	}

	d = FromStore(*logger.Get(), config.New(), &store.Store{})
	if d.PG != nil || d.RDS != nil {
		t.Fatalf("empty store should leave seams unset")
	}
	if !d.ZeroOK() {
		t.Fatal("Deps from an empty store should be usable")
	}
}
