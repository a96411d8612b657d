package ledger

import (
	"context"

	"ipvault/internal/core/ipasset"
)

// Client is an adapter bound to one signing identity
// a session rebuilds its Client whenever the account changes
type Client struct {
	adapter Adapter
	signer  Signer
}

// NewClient binds adapter to signer
func NewClient(a Adapter, s Signer) *Client { return &Client{adapter: a, signer: s} }

// Address is the account every mutating call is signed by
func (c *Client) Address() string { return c.signer.Address() }

// Version reports the protocol version in use
func (c *Client) Version() string { return c.adapter.Version() }

// Register submits one registration
func (c *Client) Register(ctx context.Context, req RegisterRequest) (RegisterResult, error) {
	return c.adapter.Register(ctx, c.signer, req)
}

// UpdateMetadata replaces the metadata of id
func (c *Client) UpdateMetadata(ctx context.Context, id string, m ipasset.Metadata) (TxResult, error) {
	return c.adapter.UpdateMetadata(ctx, c.signer, id, m)
}

// SetRoyaltyPolicy attaches a royalty policy to id
func (c *Client) SetRoyaltyPolicy(ctx context.Context, id string, p ipasset.RoyaltyPolicy) (TxResult, error) {
	return c.adapter.SetRoyaltyPolicy(ctx, c.signer, id, p)
}

// MintLicense grants a permission on id
func (c *Client) MintLicense(ctx context.Context, id string, p ipasset.Permission) (LicenseResult, error) {
	return c.adapter.MintLicense(ctx, c.signer, id, p)
}

// Relations lists the ancestors of id
func (c *Client) Relations(ctx context.Context, id string) ([]AssetRecord, error) {
	return c.adapter.Relations(ctx, id)
}

// Asset reads id from the ledger
func (c *Client) Asset(ctx context.Context, id string) (AssetRecord, error) {
	return c.adapter.Asset(ctx, id)
}
