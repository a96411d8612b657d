// Package wallet provides signing identity providers speaking the EIP-1193 method set
package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Provider codes with special meaning for the session
const (
	CodeUserRejected   = 4001
	CodeRequestPending = -32002
	codeUnsupported    = -32601
	codeInvalidParams  = -32602
)

// Methods the pipeline relies on
const (
	MethodAccounts        = "eth_accounts"
	MethodRequestAccounts = "eth_requestAccounts"
	MethodPersonalSign    = "personal_sign"
)

// Provider issues a request to the wallet and decodes the answer into result
type Provider interface {
	Request(ctx context.Context, result any, method string, params ...any) error
}

// RPCError is a provider error carrying a numeric code
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string { return fmt.Sprintf("wallet error %d: %s", e.Code, e.Message) }

// ErrorCode satisfies the go-ethereum rpc.Error contract
func (e *RPCError) ErrorCode() int { return e.Code }

// coded matches go-ethereum rpc.Error and RPCError alike
type coded interface {
	error
	ErrorCode() int
}

// ErrorCode extracts a provider code from err
func ErrorCode(err error) (int, bool) {
	var c coded
	if errors.As(err, &c) {
		return c.ErrorCode(), true
	}
	return 0, false
}

// Signer signs digests through a provider on behalf of one address
type Signer struct {
	p       Provider
	address string
}

// NewSigner binds a provider to an address
func NewSigner(p Provider, address string) Signer { return Signer{p: p, address: address} }

// Address returns the bound account
func (s Signer) Address() string { return s.address }

// SignDigest asks the provider to personal_sign the digest bytes
func (s Signer) SignDigest(ctx context.Context, digest []byte) (string, error) {
	if s.p == nil {
		return "", &RPCError{Code: codeUnsupported, Message: "no provider"}
	}
	var sig string
	if err := s.p.Request(ctx, &sig, MethodPersonalSign, hexutil.Encode(digest), s.address); err != nil {
		return "", err
	}
	return sig, nil
}

// assign copies v into result the way a JSON-RPC client would
func assign(result, v any) error {
	if result == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, result)
}
