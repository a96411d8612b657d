package module

import (
	"time"

	"ipvault/internal/platform/config"
	"ipvault/internal/services/orchestrator/guardrails"
	osvc "ipvault/internal/services/orchestrator/service"
)

// Options tunes stage budgets, the in-flight lock and event delivery
type Options struct {
	Timeouts  guardrails.Timeouts
	LockTTL   time.Duration
	JetStream bool
}

// FromConfig reads CORE_ORCH_* and SERVICE_NATS_JETSTREAM from process config/env
func FromConfig(cfg config.Conf) Options {
	oc := cfg.Prefix("CORE_ORCH_")
	return Options{
		Timeouts: guardrails.Timeouts{
			Upload:   oc.MayDuration("UPLOAD_TIMEOUT", 0),
			Connect:  oc.MayDuration("CONNECT_TIMEOUT", 0),
			Register: oc.MayDuration("REGISTER_TIMEOUT", 0),
		},
		LockTTL:   oc.MayDuration("LOCK_TTL", osvc.DefaultLockTTL),
		JetStream: cfg.Prefix("SERVICE_NATS_").MayBool("JETSTREAM", false),
	}
}
