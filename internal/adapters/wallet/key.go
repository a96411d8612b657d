package wallet

import (
	"context"
	"crypto/ecdsa"
	"strings"

	perr "ipvault/internal/platform/errors"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// KeyProvider answers wallet requests with a server held key
// used for non-interactive registration from the CLI and workers
type KeyProvider struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewKeyProvider parses a hex private key with or without 0x
func NewKeyProvider(hexKey string) (*KeyProvider, error) {
	k, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "invalid signer key")
	}
	return &KeyProvider{key: k, address: crypto.PubkeyToAddress(k.PublicKey)}, nil
}

// Address returns the checksummed account of the key
func (p *KeyProvider) Address() string { return p.address.Hex() }

// Request implements the account and signing subset of EIP-1193
func (p *KeyProvider) Request(ctx context.Context, result any, method string, params ...any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch method {
	case MethodAccounts, MethodRequestAccounts:
		return assign(result, []string{p.address.Hex()})
	case MethodPersonalSign:
		sig, err := p.personalSign(params)
		if err != nil {
			return err
		}
		return assign(result, sig)
	default:
		return &RPCError{Code: codeUnsupported, Message: "method " + method + " not supported"}
	}
}

// personalSign expects (data, address) and signs the EIP-191 text hash
func (p *KeyProvider) personalSign(params []any) (string, error) {
	if len(params) < 2 {
		return "", &RPCError{Code: codeInvalidParams, Message: "personal_sign wants data and address"}
	}
	data, _ := params[0].(string)
	addr, _ := params[1].(string)
	if !common.IsHexAddress(addr) || common.HexToAddress(addr) != p.address {
		return "", &RPCError{Code: CodeUserRejected, Message: "address is not managed by this signer"}
	}
	msg, err := hexutil.Decode(data)
	if err != nil {
		msg = []byte(data)
	}
	sig, err := crypto.Sign(accounts.TextHash(msg), p.key)
	if err != nil {
		return "", err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), nil
}

// RecoverAddress returns the signer of a personal_sign signature over msg
func RecoverAddress(msg []byte, sigHex string) (string, error) {
	sig, err := hexutil.Decode(sigHex)
	if err != nil || len(sig) != crypto.SignatureLength {
		return "", perr.InvalidArgf("malformed signature")
	}
	sig = append([]byte(nil), sig...)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(accounts.TextHash(msg), sig)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeInvalidArgument, "recover signer")
	}
	return crypto.PubkeyToAddress(*pub).Hex(), nil
}
