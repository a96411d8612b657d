// Package fingerprint computes content hashes for artifacts.
//
// A Hash is the lowercase hex SHA-256 of the exact bytes. It has no salt and
// no time dependency, so the same bytes hash the same way across processes.
// Readers are consumed in fixed size chunks and never buffered whole.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"

	perr "ipvault/internal/platform/errors"
)

// chunkSize bounds the memory used while streaming a reader
const chunkSize = 32 << 10

// Size is the length of a hex encoded Hash
const Size = sha256.Size * 2

// Hash is a hex encoded content digest
type Hash string

// String returns the hex digest
func (h Hash) String() string { return string(h) }

// URN is the placeholder locator used when no storage backend holds the bytes
func (h Hash) URN() string { return "urn:sha256:" + string(h) }

// Short is the first 12 hex chars, for logs
func (h Hash) Short() string {
	if len(h) < 12 {
		return string(h)
	}
	return string(h[:12])
}

// Bytes hashes b
func Bytes(b []byte) Hash {
	sum := sha256.Sum256(b)
	return Hash(hex.EncodeToString(sum[:]))
}

// Text hashes the UTF-8 bytes of s
func Text(s string) Hash {
	h := sha256.New()
	_, _ = io.WriteString(h, s)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// Reader streams r through the digest and returns the hash and byte count
// the only failure is a read error from r
func Reader(r io.Reader) (Hash, int64, error) {
	h := sha256.New()
	buf := make([]byte, chunkSize)
	n, err := io.CopyBuffer(h, r, buf)
	if err != nil {
		return "", n, perr.Wrapf(err, perr.ErrorCodeUnavailable, "fingerprint read failed after %d bytes", n)
	}
	return Hash(hex.EncodeToString(h.Sum(nil))), n, nil
}

// Parse validates a hex digest, accepting an optional "sha256:" prefix and any case
func Parse(s string) (Hash, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "sha256:")
	s = strings.TrimPrefix(s, "urn:sha256:")
	if len(s) != Size {
		return "", perr.InvalidArgf("content hash must be %d hex chars, got %d", Size, len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", perr.InvalidArgf("content hash is not hex")
	}
	return Hash(s), nil
}
