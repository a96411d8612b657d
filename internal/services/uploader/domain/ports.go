// Package domain holds the uploader contracts
package domain

import (
	"context"

	"ipvault/internal/core/artifact"
	"ipvault/internal/core/ipasset"
)

// Slot names used as keys in StorageDescriptor.Failures
const (
	SlotPrimary   = "primary"
	SlotSecondary = "secondary"
)

// ServicePort is consumed by handlers and the orchestrator
type ServicePort interface {
	// Upload fingerprints a and pushes it to both backends concurrently
	Upload(ctx context.Context, a artifact.Artifact) (ipasset.StorageDescriptor, error)

	// Describe fingerprints a without storing it
	Describe(a artifact.Artifact) (ipasset.StorageDescriptor, error)
}

// BackendInfo reports a configured slot for diagnostics
type BackendInfo struct {
	Slot    string `json:"slot" example:"primary"`
	Backend string `json:"backend" example:"ipfs"`
	Enabled bool   `json:"enabled" example:"true"`
}
