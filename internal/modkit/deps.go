package modkit

import (
	"ipvault/internal/modkit/repokit"
	"ipvault/internal/platform/config"
	"ipvault/internal/platform/logger"
	"ipvault/internal/platform/store"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log  logger.Logger
	Cfg  config.Conf
	PG   repokit.TxRunner
	CH   store.Clickhouse
	RDS  *redis.Client
	NATS *nats.Conn
}

// FromStore copies the enabled seams of st into Deps, a nil store leaves them unset
func FromStore(log logger.Logger, cfg config.Conf, st *store.Store) Deps {
	d := Deps{Log: log, Cfg: cfg}
	if st == nil {
		return d
	}
	d.PG, d.CH, d.RDS, d.NATS = st.PG, st.CH, st.RDS, st.NATS
	return d
}

// ZeroOK returns true when deps are safe to use with zero values in tests
// consumers should still nil check for optional stores
func (d Deps) ZeroOK() bool { return true }
