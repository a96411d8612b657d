// Package versions assembles the ledger adapters this build ships with
package versions

import (
	"ipvault/internal/adapters/ledger"
	"ipvault/internal/adapters/ledger/storyv1"
)

// Latest is the version used when none is configured
const Latest = storyv1.Version

// Default returns a registry with every supported version
func Default() *ledger.Registry {
	r := ledger.NewRegistry()
	r.Add(storyv1.Version, storyv1.Factory)
	return r
}
