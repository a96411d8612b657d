package versions

import (
	"testing"

	"ipvault/internal/adapters/ledger"
)

func TestDefault_ShipsLatest(t *testing.T) {
	t.Parallel()

	r := Default()
	a, err := r.Open(Latest, ledger.Config{})
	if err != nil {
		t.Fatalf("Open(%s): %v", Latest, err)
	}
	if a.Version() != Latest {
		t.Fatalf("version = %s", a.Version())
	}
}
