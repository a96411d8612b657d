//go:build gcp

package storage

import (
	"context"
	"io"
	"strings"

	"ipvault/internal/core/artifact"
	"ipvault/internal/core/fingerprint"
	perr "ipvault/internal/platform/errors"
	"ipvault/internal/platform/logger"

	gcs "cloud.google.com/go/storage"
)

const gcsScheme = "gs://"

// GCS stores artifacts under their content hash in a Cloud Storage bucket
type GCS struct {
	client *gcs.Client
	opts   GCSOptions
	log    logger.Logger
}

// NewGCS creates a client using application default credentials
func NewGCS(ctx context.Context, o GCSOptions) (*GCS, error) {
	if strings.TrimSpace(o.Bucket) == "" {
		return nil, perr.InvalidArgf("gcs bucket is required")
	}
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "create gcs client")
	}
	return &GCS{client: client, opts: o, log: *logger.Named("storage.gcs")}, nil
}

// Name returns the backend label
func (b *GCS) Name() string { return string(KindGCS) }

// Put uploads unless the object already exists
func (b *GCS) Put(ctx context.Context, hash fingerprint.Hash, a artifact.Artifact) (string, error) {
	key := objectKey(b.opts.Prefix, hash)
	locator := gcsScheme + b.opts.Bucket + "/" + key
	obj := b.client.Bucket(b.opts.Bucket).Object(key)

	if _, err := obj.Attrs(ctx); err == nil {
		return locator, nil
	}

	src, err := a.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = src.Close() }()

	w := obj.If(gcs.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = a.ContentType
	w.Metadata = map[string]string{"sha256": hash.String()}
	if _, err := io.Copy(w, src); err != nil {
		_ = w.Close()
		return "", perr.Wrap(err, perr.ErrorCodeBackend, "gcs write failed")
	}
	if err := w.Close(); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeBackend, "gcs close failed")
	}
	return locator, nil
}

// Resolve maps gs://bucket/key to the public storage URL
func (b *GCS) Resolve(locator string) string {
	rest, ok := strings.CutPrefix(locator, gcsScheme)
	if !ok || rest == "" {
		return ""
	}
	return "https://storage.googleapis.com/" + rest
}

// Close releases the client
func (b *GCS) Close() error { return b.client.Close() }

func openGCS(ctx context.Context, o GCSOptions) (Backend, error) {
	b, err := NewGCS(ctx, o)
	if err != nil {
		return nil, err
	}
	return b, nil
}
