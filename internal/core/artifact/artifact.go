// Package artifact models the bytes a user submits for registration.
// An Artifact can be opened more than once so the fingerprint and each storage
// backend read their own stream without holding the whole payload in memory.
package artifact

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"ipvault/internal/core/fingerprint"
	perr "ipvault/internal/platform/errors"
)

// spoolThreshold is the largest reader payload kept in memory by FromReader
const spoolThreshold = 8 << 20

// Artifact is a re-openable byte source with naming hints for backends
type Artifact struct {
	Name        string
	ContentType string
	Size        int64

	open    func() (io.ReadCloser, error)
	cleanup func() error
}

// Open returns a fresh stream over the artifact bytes
func (a Artifact) Open() (io.ReadCloser, error) {
	if a.open == nil {
		return nil, perr.InvalidArgf("artifact has no content")
	}
	return a.open()
}

// Close releases any spooled temp file; safe to call on any artifact
func (a Artifact) Close() error {
	if a.cleanup == nil {
		return nil
	}
	return a.cleanup()
}

// Fingerprint streams the artifact through the content hash
func (a Artifact) Fingerprint() (fingerprint.Hash, error) {
	rc, err := a.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = rc.Close() }()
	h, _, err := fingerprint.Reader(rc)
	return h, err
}

// FromBytes wraps an in memory payload
func FromBytes(name, contentType string, b []byte) Artifact {
	if contentType == "" {
		contentType = sniff(name, b)
	}
	return Artifact{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(b)),
		open: func() (io.ReadCloser, error) {
			return memReader{bytes.NewReader(b)}, nil
		},
	}
}

// FromText wraps UTF-8 text
func FromText(name, s string) Artifact {
	return FromBytes(name, "text/plain; charset=utf-8", []byte(s))
}

// FromFile opens path on every Open call
func FromFile(path string) (Artifact, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Artifact{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "cannot stat %s", path)
	}
	if fi.IsDir() {
		return Artifact{}, perr.InvalidArgf("%s is a directory", path)
	}
	name := filepath.Base(path)
	return Artifact{
		Name:        name,
		ContentType: byExt(name),
		Size:        fi.Size(),
		open: func() (io.ReadCloser, error) {
			f, err := os.Open(path)
			if err != nil {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "cannot open %s", path)
			}
			return f, nil
		},
	}, nil
}

// FromReader consumes r once; small payloads stay in memory and larger ones
// are spooled to a temp file removed by Close
func FromReader(name, contentType string, r io.Reader) (Artifact, error) {
	var head bytes.Buffer
	n, err := head.ReadFrom(io.LimitReader(r, spoolThreshold+1))
	if err != nil {
		return Artifact{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "read artifact")
	}
	if n <= spoolThreshold {
		return FromBytes(name, contentType, head.Bytes()), nil
	}

	f, err := os.CreateTemp("", "ipvault-artifact-*")
	if err != nil {
		return Artifact{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "spool artifact")
	}
	path := f.Name()
	discard := func() { _ = f.Close(); _ = os.Remove(path) }

	if contentType == "" {
		contentType = sniff(name, head.Bytes()[:512])
	}
	size, err := io.Copy(f, io.MultiReader(&head, r))
	if err != nil {
		discard()
		return Artifact{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "spool artifact")
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return Artifact{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "spool artifact")
	}

	return Artifact{
		Name:        name,
		ContentType: contentType,
		Size:        size,
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
		cleanup: func() error { return os.Remove(path) },
	}, nil
}

// memReader keeps Seek visible so uploaders can rewind in memory payloads
type memReader struct{ *bytes.Reader }

func (memReader) Close() error { return nil }

func byExt(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func sniff(name string, b []byte) string {
	if ct := byExt(name); ct != "application/octet-stream" {
		return ct
	}
	return http.DetectContentType(b)
}
