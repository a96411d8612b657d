// Package storage provides the content stores an artifact is pushed to
// ipfs and arweave are the decentralized defaults; s3, gcs and fs serve
// self-hosted deployments and tests
package storage

import (
	"context"
	"io"
	"net/http"
	"strings"

	"ipvault/internal/core/artifact"
	"ipvault/internal/core/fingerprint"
	perr "ipvault/internal/platform/errors"
)

// Backend stores artifact bytes and returns a locator
type Backend interface {
	// Name is a short label used in logs, metrics and failure maps
	Name() string

	// Put uploads the artifact; hash is its precomputed fingerprint
	Put(ctx context.Context, hash fingerprint.Hash, a artifact.Artifact) (string, error)

	// Resolve maps a locator from Put to a fetchable URL, empty when none exists
	Resolve(locator string) string
}

// Kind selects a backend implementation
type Kind string

// Backend kinds
const (
	KindIPFS    Kind = "ipfs"
	KindArweave Kind = "arweave"
	KindS3      Kind = "s3"
	KindGCS     Kind = "gcs"
	KindFS      Kind = "fs"
	KindNone    Kind = "none"
)

// objectKey is the content addressed key used by bucket style stores
func objectKey(prefix string, h fingerprint.Hash) string {
	return prefix + h.String() + ".blob"
}

// statusErr turns a non 2xx gateway response into a backend error with a body tail
func statusErr(backend string, resp *http.Response) error {
	tail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return perr.Newf(perr.ErrorCodeBackend, "%s upload failed: status %d %s",
		backend, resp.StatusCode, strings.TrimSpace(string(tail)))
}

func drainAndClose(rc io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 64<<10))
	_ = rc.Close()
}

func withSlash(s string) string {
	if s == "" || strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}
