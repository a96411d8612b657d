package storage

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"ipvault/internal/core/artifact"
	"ipvault/internal/core/fingerprint"
	"ipvault/internal/core/version"
	perr "ipvault/internal/platform/errors"
	"ipvault/internal/platform/logger"
)

const (
	arweaveGatewayDefault = "https://arweave.net/"
	arweaveScheme         = "ar://"
)

// ArweaveOptions configures the bundler client
type ArweaveOptions struct {
	// UploadURL is the bundler endpoint that accepts raw bytes, e.g. https://upload.ardrive.io/v1/tx
	UploadURL  string
	APIKey     string
	GatewayURL string
	Timeout    time.Duration
}

// Arweave posts artifacts to an upload bundler for permanent storage
type Arweave struct {
	http *http.Client
	opts ArweaveOptions
	log  logger.Logger
}

// NewArweave creates an Arweave bundler backend
func NewArweave(o ArweaveOptions) (*Arweave, error) {
	o.UploadURL = strings.TrimSpace(o.UploadURL)
	if o.UploadURL == "" {
		return nil, perr.InvalidArgf("arweave upload url is required")
	}
	if o.GatewayURL == "" {
		o.GatewayURL = arweaveGatewayDefault
	}
	o.GatewayURL = withSlash(o.GatewayURL)
	hc := &http.Client{}
	if o.Timeout > 0 {
		hc.Timeout = o.Timeout
	}
	return &Arweave{http: hc, opts: o, log: *logger.Named("storage.arweave")}, nil
}

// Name returns the backend label
func (b *Arweave) Name() string { return string(KindArweave) }

type bundlerResponse struct {
	ID string `json:"id"`
}

// Put streams the raw artifact bytes to the bundler
func (b *Arweave) Put(ctx context.Context, hash fingerprint.Hash, a artifact.Artifact) (string, error) {
	src, err := a.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = src.Close() }()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.opts.UploadURL, src)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnknown, "arweave new request failed")
	}
	if a.Size > 0 {
		req.ContentLength = a.Size
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("X-Content-Sha256", hash.String())
	if a.ContentType != "" {
		req.Header.Set("X-Content-Type", a.ContentType)
	}
	if b.opts.APIKey != "" {
		req.Header.Set("X-Api-Key", b.opts.APIKey)
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeBackend, "arweave upload request failed")
	}
	defer drainAndClose(resp.Body)
	if resp.StatusCode/100 != 2 {
		return "", statusErr(b.Name(), resp)
	}

	var out bundlerResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeBackend, "arweave response unreadable")
	}
	if out.ID == "" {
		return "", perr.Backendf("arweave response has no transaction id")
	}
	b.log.Debug().Str("tx", out.ID).Str("hash", hash.Short()).Msg("bundled")
	return arweaveScheme + out.ID, nil
}

// Resolve maps ar://id to the configured gateway
func (b *Arweave) Resolve(locator string) string {
	id, ok := strings.CutPrefix(locator, arweaveScheme)
	if !ok || id == "" {
		return ""
	}
	return b.opts.GatewayURL + id
}
