// Package domain holds the wallet session contract shared with other modules
package domain

import (
	"context"

	"ipvault/internal/adapters/ledger"
)

// State is the connection state of a session
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
)

// Snapshot is a point in time view of the session
type Snapshot struct {
	Address   string `json:"address,omitempty" example:"0x52908400098527886E0F7030069857D2E4169EE7"`
	Connected bool   `json:"connected"`
	State     State  `json:"state" example:"connected"`
	Provider  bool   `json:"provider"`
}

// ServicePort is what the registry and orchestrator use
type ServicePort interface {
	DetectProvider() bool
	Connect(ctx context.Context) (string, error)
	SilentReconnect(ctx context.Context) (string, error)

	// Client returns the ledger client bound to the current account
	Client(ctx context.Context) (*ledger.Client, error)

	Address() string
	Snapshot() Snapshot
}
