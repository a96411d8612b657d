package store

import (
	"strings"
	"time"

	"ipvault/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG   PGConfig
	CH   CHConfig
	NATS NATSConfig
	RDS  RedisConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// Guard/boot knobs
	ConnectRetries int           // default 20
	PingTimeout    time.Duration // default 3s
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string

	// ClientName and ClientTag show up in system.query_log client info
	ClientName string
	ClientTag  string
}

// NATSConfig configures nats connectivity
type NATSConfig struct {
	Enabled   bool
	URL       string
	JetStream bool
}

// RedisConfig configures redis connectivity
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// FromEnv reads SERVICE_PGSQL_, SERVICE_CLICKHOUSE_, SERVICE_REDIS_ and SERVICE_NATS_
// a backend is enabled only when its url or address is set; tag is the process role
func FromEnv(root config.Conf, tag string) Config {
	pg := root.Prefix("SERVICE_PGSQL_")
	ch := root.Prefix("SERVICE_CLICKHOUSE_")
	rds := root.Prefix("SERVICE_REDIS_")
	nc := root.Prefix("SERVICE_NATS_")

	c := Config{
		AppName: "ipvault",
		PG: PGConfig{
			URL:         strings.TrimSpace(pg.MayString("DBURL", "")),
			MaxConns:    int32(pg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pg.MayInt("SLOW_MS", 500),
			LogSQL:      pg.MayBool("LOG_SQL", false),
		},
		CH: CHConfig{
			URL:        strings.TrimSpace(ch.MayString("DBURL", "")),
			ClientName: "ipvault",
			ClientTag:  tag,
		},
		RDS: RedisConfig{
			Addr:     strings.TrimSpace(rds.MayString("ADDR", "")),
			Password: rds.MayString("PASSWORD", ""),
			DB:       rds.MayInt("DB", 0),
		},
		NATS: NATSConfig{
			URL:       strings.TrimSpace(nc.MayString("URL", "")),
			JetStream: nc.MayBool("JETSTREAM", false),
		},
	}
	c.PG.Enabled = c.PG.URL != ""
	c.CH.Enabled = c.CH.URL != ""
	c.RDS.Enabled = c.RDS.Addr != ""
	c.NATS.Enabled = c.NATS.URL != ""
	return c
}
