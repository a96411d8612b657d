// Package ledger is the versioned seam to the external IP registration ledger
// each supported protocol version is one Adapter; callers pick a version from
// the Registry and never branch on response shapes
package ledger

import (
	"context"
	"fmt"
	"time"

	"ipvault/internal/core/ipasset"
	"ipvault/internal/platform/metrics"
)

// Signer authorizes mutating calls for one account
type Signer interface {
	Address() string
	SignDigest(ctx context.Context, digest []byte) (string, error)
}

// RegisterRequest is the registration call shape
type RegisterRequest struct {
	MediaURL    string           `json:"media_url"`
	Name        string           `json:"name"`
	ContentHash string           `json:"content_hash"`
	Owner       string           `json:"owner"`
	Metadata    ipasset.Metadata `json:"metadata"`
	Locators    []string         `json:"locators,omitempty"`
}

// RegisterResult carries whichever identifiers the ledger assigned
type RegisterResult struct {
	IPAssetID string `json:"ip_asset_id"`
	TxHash    string `json:"tx_hash"`
}

// TxResult is returned by plain mutating calls
type TxResult struct {
	TxHash string `json:"tx_hash"`
}

// LicenseResult is returned when a license token is minted
type LicenseResult struct {
	LicenseID string `json:"license_id"`
	TxHash    string `json:"tx_hash"`
}

// AssetRecord is the ledger view of an asset
type AssetRecord struct {
	ID           string                 `json:"id"`
	Owner        string                 `json:"owner"`
	ContentHash  string                 `json:"content_hash"`
	MediaURL     string                 `json:"media_url"`
	Metadata     ipasset.Metadata       `json:"metadata"`
	Royalties    *ipasset.RoyaltyPolicy `json:"royalties,omitempty"`
	Permissions  []ipasset.Permission   `json:"permissions,omitempty"`
	Parents      []string               `json:"parents,omitempty"`
	RegisteredAt time.Time              `json:"registered_at"`
	TxHash       string                 `json:"tx_hash,omitempty"`
}

// Adapter is one protocol version
type Adapter interface {
	Version() string

	// Init verifies the adapter can talk to the configured network
	Init(ctx context.Context) error

	Register(ctx context.Context, s Signer, req RegisterRequest) (RegisterResult, error)
	UpdateMetadata(ctx context.Context, s Signer, id string, m ipasset.Metadata) (TxResult, error)
	SetRoyaltyPolicy(ctx context.Context, s Signer, id string, p ipasset.RoyaltyPolicy) (TxResult, error)
	MintLicense(ctx context.Context, s Signer, id string, p ipasset.Permission) (LicenseResult, error)

	// Relations returns ancestors ordered from the direct parent upward
	Relations(ctx context.Context, id string) ([]AssetRecord, error)
	Asset(ctx context.Context, id string) (AssetRecord, error)
}

// StatusError is a gateway response outside 2xx
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ledger status %d: %s", e.Status, e.Message)
}

// Config is the version independent adapter configuration
type Config struct {
	APIURL      string
	APIKey      string
	RPCURL      string
	Chain       string
	VerifyChain bool
	Timeout     time.Duration
	Metrics     *metrics.Set
}
