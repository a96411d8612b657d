// Package ipasset holds the registration data model shared by the pipeline
package ipasset

import (
	"time"

	"ipvault/internal/core/fingerprint"
)

// AssetType classifies what was registered
type AssetType string

// Asset types accepted by the ledger
const (
	TypeArt      AssetType = "art"
	TypeText     AssetType = "text"
	TypeCode     AssetType = "code"
	TypeMusic    AssetType = "music"
	TypeResearch AssetType = "research"
	TypeAIOutput AssetType = "ai-output"
)

// Types lists every accepted asset type in display order
func Types() []AssetType {
	return []AssetType{TypeArt, TypeText, TypeCode, TypeMusic, TypeResearch, TypeAIOutput}
}

// StorageDescriptor records where an artifact landed
// a missing locator means that backend failed or is disabled; Failures says why
type StorageDescriptor struct {
	Hash             fingerprint.Hash  `json:"hash" example:"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"`
	PrimaryLocator   string            `json:"primary_locator,omitempty" example:"ipfs://bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"`
	SecondaryLocator string            `json:"secondary_locator,omitempty" example:"ar://bNbA3TEQVL60xlgCcqdz4ZPHFZ711cZ3hmkpGttDt_U"`
	ResolvedURL      string            `json:"resolved_url,omitempty" example:"https://ipfs.io/ipfs/bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"`
	Failures         map[string]string `json:"failures,omitempty"`
}

// Degraded reports whether any backend failed
func (d StorageDescriptor) Degraded() bool { return len(d.Failures) > 0 }

// MediaLocator picks the primary locator, then the secondary, then a hash URN
func (d StorageDescriptor) MediaLocator() string {
	switch {
	case d.PrimaryLocator != "":
		return d.PrimaryLocator
	case d.SecondaryLocator != "":
		return d.SecondaryLocator
	default:
		return d.Hash.URN()
	}
}

// Recipient is one royalty share
type Recipient struct {
	Address    string  `json:"address" validate:"required,eth_addr" example:"0x52908400098527886E0F7030069857D2E4169EE7"`
	Percentage float64 `json:"percentage" validate:"gte=0,lte=100" example:"10"`
}

// RoyaltyPolicy splits revenue between recipients
// shares need not sum to 100; partial policies are valid
type RoyaltyPolicy struct {
	TotalPercentage float64     `json:"total_percentage" validate:"gte=0,lte=100" example:"10"`
	Recipients      []Recipient `json:"recipients" validate:"max=64,dive"`
}

// PermissionType is the license kind minted on the ledger
type PermissionType string

// Permission kinds
const (
	PermissionView       PermissionType = "view"
	PermissionEdit       PermissionType = "edit"
	PermissionCommercial PermissionType = "commercial"
	PermissionDerivative PermissionType = "derivative"
)

// Permission grants access to an asset
type Permission struct {
	Type      PermissionType `json:"type" validate:"required,oneof=view edit commercial derivative" example:"commercial"`
	GrantedTo string         `json:"granted_to,omitempty" validate:"omitempty,eth_addr" example:"0x52908400098527886E0F7030069857D2E4169EE7"`
	AccessKey string         `json:"access_key,omitempty" validate:"max=256"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
}

// RegisteredAsset is the local read-through copy of a ledger record
type RegisteredAsset struct {
	ID           string            `json:"id" example:"0x3b5b0dbdA1a3D2b1b4B0F1a1B5bE6a4D1E2f3A4b"`
	Hash         fingerprint.Hash  `json:"hash"`
	Storage      StorageDescriptor `json:"storage"`
	Owner        string            `json:"owner" example:"0x52908400098527886E0F7030069857D2E4169EE7"`
	RegisteredAt time.Time         `json:"registered_at"`
	Metadata     Metadata          `json:"metadata"`
	Lineage      []string          `json:"lineage,omitempty"`
	Royalties    *RoyaltyPolicy    `json:"royalties,omitempty"`
	Permissions  []Permission      `json:"permissions,omitempty"`
	TxHash       string            `json:"tx_hash,omitempty"`

	// Stale is set when the ledger could not be reached and the cache answered
	Stale bool `json:"stale,omitempty"`
}
