// Package domain holds the registration client contract
package domain

import (
	"context"

	"ipvault/internal/adapters/ledger"
	"ipvault/internal/core/fingerprint"
	"ipvault/internal/core/ipasset"
)

// ServicePort is the registration surface used by the orchestrator and http
type ServicePort interface {
	RegisterAsset(ctx context.Context, hash fingerprint.Hash, storage ipasset.StorageDescriptor, meta ipasset.Metadata, owner string) (ipasset.RegisteredAsset, error)
	UpdateMetadata(ctx context.Context, id string, patch ipasset.MetadataPatch) (ipasset.RegisteredAsset, error)
	SetRoyalties(ctx context.Context, id string, policy ipasset.RoyaltyPolicy) error
	GrantPermission(ctx context.Context, id string, p ipasset.Permission) error
	GetLineage(ctx context.Context, id string) ([]ipasset.RegisteredAsset, error)

	// Asset prefers the ledger and falls back to a stale cached copy
	Asset(ctx context.Context, id string) (ipasset.RegisteredAsset, error)

	// FindByHash is a cache only lookup, ok is false on a miss
	FindByHash(ctx context.Context, hash fingerprint.Hash, owner string) (ipasset.RegisteredAsset, bool, error)
}

// Sessions is the slice of the wallet session the registry needs
type Sessions interface {
	Client(ctx context.Context) (*ledger.Client, error)
}
