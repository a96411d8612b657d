package module

import (
	"time"

	"ipvault/internal/adapters/ledger"
	"ipvault/internal/adapters/ledger/versions"
	"ipvault/internal/platform/config"
	wsvc "ipvault/internal/services/wallet/service"
)

// Options selects the wallet provider and the ledger behind it
type Options struct {
	// ProviderURL is a JSON-RPC wallet bridge, it wins over SignerKey
	ProviderURL    string
	SignerKey      string
	ConnectTimeout time.Duration
	PollInterval   time.Duration
	// AutoReconnect restores an authorized account at startup
	AutoReconnect bool

	LedgerVersion string
	Ledger        ledger.Config
}

// FromConfig reads CORE_WALLET_* and CORE_LEDGER_* values
func FromConfig(cfg config.Conf) Options {
	wc := cfg.Prefix("CORE_WALLET_")
	lc := cfg.Prefix("CORE_LEDGER_")
	return Options{
		ProviderURL:    wc.MayString("PROVIDER_URL", ""),
		SignerKey:      wc.MayString("SIGNER_KEY", ""),
		ConnectTimeout: wc.MayDuration("CONNECT_TIMEOUT", wsvc.DefaultConnectTimeout),
		PollInterval:   wc.MayDuration("POLL_INTERVAL", 0),
		AutoReconnect:  wc.MayBool("AUTO_RECONNECT", true),
		LedgerVersion:  lc.MayString("VERSION", versions.Latest),
		Ledger: ledger.Config{
			APIURL:      lc.MayURL("API_URL", ""),
			APIKey:      lc.MayString("API_KEY", ""),
			RPCURL:      lc.MayURL("RPC_URL", ""),
			Chain:       lc.MayString("CHAIN_ID", "aeneid"),
			VerifyChain: lc.MayBool("VERIFY_CHAIN", true),
			Timeout:     lc.MayDuration("TIMEOUT", 30*time.Second),
		},
	}
}
