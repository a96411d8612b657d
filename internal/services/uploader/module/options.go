package module

import (
	"time"

	"ipvault/internal/adapters/storage"
	"ipvault/internal/platform/config"
)

// Options selects the two backends and the upload policy
type Options struct {
	Primary    string
	Secondary  string
	RequireOne bool
	Timeout    time.Duration
	Backends   storage.Config
}

// FromConfig reads CORE_STORAGE_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	sc := cfg.Prefix("CORE_STORAGE_")
	timeout := sc.MayDuration("TIMEOUT", 60*time.Second)
	return Options{
		Primary:    sc.MayString("PRIMARY_KIND", string(storage.KindIPFS)),
		Secondary:  sc.MayString("SECONDARY_KIND", string(storage.KindArweave)),
		RequireOne: sc.MayBool("REQUIRE_ONE", false),
		Timeout:    timeout,
		Backends:   storage.ConfigFromEnv(sc, timeout),
	}
}
