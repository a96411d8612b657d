package wallet

import (
	"context"
	"strings"

	perr "ipvault/internal/platform/errors"

	"github.com/ethereum/go-ethereum/rpc"
)

// RPCProvider forwards requests to a JSON-RPC wallet bridge or external signer such as clef
type RPCProvider struct {
	c *rpc.Client
}

// dial is a seam for tests
var dial = rpc.DialContext

// DialRPC connects to url; http endpoints connect lazily on first request
func DialRPC(ctx context.Context, url string) (*RPCProvider, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, perr.InvalidArgf("wallet provider url is required")
	}
	c, err := dial(ctx, url)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeProviderUnavailable, "dial wallet provider")
	}
	return &RPCProvider{c: c}, nil
}

// Request performs a JSON-RPC call; provider error codes survive as rpc.Error
func (p *RPCProvider) Request(ctx context.Context, result any, method string, params ...any) error {
	return p.c.CallContext(ctx, result, method, params...)
}

// Close tears down the underlying client
func (p *RPCProvider) Close() { p.c.Close() }
