package httpkit

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	perrs "ipvault/internal/platform/errors"
)

// APIKeyHeader is accepted alongside Authorization: Bearer
const APIKeyHeader = "X-API-Key"

type apiKey struct {
	label  string
	secret []byte
}

// KeyPort implements middleware.AuthPort over a fixed set of API keys
// the matching key's label becomes the request caller
type KeyPort struct {
	keys []apiKey
}

// NewKeyPort parses entries of the form label:secret or a bare secret
// a bare secret is labelled key-N by position; blank entries are skipped
func NewKeyPort(entries []string) *KeyPort {
	p := &KeyPort{}
	for i, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		label, secret, ok := strings.Cut(e, ":")
		if !ok {
			label, secret = "key-"+strconv.Itoa(i+1), e
		}
		p.keys = append(p.keys, apiKey{label: strings.TrimSpace(label), secret: []byte(strings.TrimSpace(secret))})
	}
	return p
}

// Len is the number of usable keys
func (p *KeyPort) Len() int { return len(p.keys) }

// Parse matches the presented key in constant time per candidate
func (p *KeyPort) Parse(r *http.Request) (string, error) {
	raw := presented(r)
	if raw == "" {
		return "", perrs.Unauthorizedf("missing api key")
	}
	got := []byte(raw)
	for _, k := range p.keys {
		if subtle.ConstantTimeCompare(got, k.secret) == 1 {
			return k.label, nil
		}
	}
	return "", perrs.Unauthorizedf("invalid api key")
}

// presented reads X-API-Key first, then a case-insensitive Bearer token
func presented(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(APIKeyHeader)); v != "" {
		return v
	}
	s := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "bearer "
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(s[len(prefix):])
}

