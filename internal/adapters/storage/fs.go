package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"ipvault/internal/core/artifact"
	"ipvault/internal/core/fingerprint"
	perr "ipvault/internal/platform/errors"
)

const fsScheme = "fs://"

// FS stores artifacts in a local directory, used for development and tests
type FS struct {
	dir string
}

// NewFS creates the directory when missing
func NewFS(dir string) (*FS, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, perr.InvalidArgf("fs storage dir is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "fs storage dir")
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "create fs storage dir")
	}
	return &FS{dir: abs}, nil
}

// Name returns the backend label
func (b *FS) Name() string { return string(KindFS) }

// Put writes via a temp file and rename so readers never see partial blobs
func (b *FS) Put(ctx context.Context, hash fingerprint.Hash, a artifact.Artifact) (string, error) {
	key := objectKey("", hash)
	dst := filepath.Join(b.dir, key)
	if _, err := os.Stat(dst); err == nil {
		return fsScheme + key, nil
	}
	if err := ctx.Err(); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeBackend, "fs put canceled")
	}

	src, err := a.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = src.Close() }()

	tmp, err := os.CreateTemp(b.dir, ".put-*")
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeBackend, "fs temp file")
	}
	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", perr.Wrap(err, perr.ErrorCodeBackend, "fs write failed")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", perr.Wrap(err, perr.ErrorCodeBackend, "fs close failed")
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		_ = os.Remove(tmp.Name())
		return "", perr.Wrap(err, perr.ErrorCodeBackend, "fs rename failed")
	}
	return fsScheme + key, nil
}

// Resolve maps fs://key to a file URL
func (b *FS) Resolve(locator string) string {
	key, ok := strings.CutPrefix(locator, fsScheme)
	if !ok || key == "" || strings.Contains(key, "/") {
		return ""
	}
	return "file://" + filepath.ToSlash(filepath.Join(b.dir, key))
}
