package ipasset

import (
	"strings"

	perr "ipvault/internal/platform/errors"

	"github.com/ethereum/go-ethereum/common"
)

// NormalizeAddress returns the EIP-55 checksum form of a hex address
func NormalizeAddress(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return "", perr.WithField(perr.InvalidArgf("invalid address %q", s), "address")
	}
	return common.HexToAddress(s).Hex(), nil
}

// SameAddress compares two hex addresses ignoring case
func SameAddress(a, b string) bool {
	if !common.IsHexAddress(a) || !common.IsHexAddress(b) {
		return false
	}
	return common.HexToAddress(a) == common.HexToAddress(b)
}

// Validate checks a royalty policy and normalizes recipient addresses
func (p RoyaltyPolicy) Validate() (RoyaltyPolicy, error) {
	for i, r := range p.Recipients {
		if r.Percentage < 0 || r.Percentage > 100 {
			return p, perr.WithField(perr.Validationf("recipient %d percentage must be within 0 and 100", i), "recipients")
		}
	}
	if err := Check(p); err != nil {
		return p, err
	}
	out := RoyaltyPolicy{TotalPercentage: p.TotalPercentage, Recipients: make([]Recipient, len(p.Recipients))}
	for i, r := range p.Recipients {
		addr, err := NormalizeAddress(r.Address)
		if err != nil {
			return p, err
		}
		out.Recipients[i] = Recipient{Address: addr, Percentage: r.Percentage}
	}
	return out, nil
}

// Validate checks a permission grant and normalizes the grantee
func (p Permission) Validate() (Permission, error) {
	p.Type = PermissionType(strings.ToLower(strings.TrimSpace(string(p.Type))))
	if err := Check(p); err != nil {
		return p, err
	}
	if p.GrantedTo != "" {
		addr, err := NormalizeAddress(p.GrantedTo)
		if err != nil {
			return p, err
		}
		p.GrantedTo = addr
	}
	return p, nil
}
