package storage

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"ipvault/internal/core/artifact"
	"ipvault/internal/core/fingerprint"
	"ipvault/internal/core/version"
	perr "ipvault/internal/platform/errors"
	"ipvault/internal/platform/logger"
)

const (
	ipfsAPIDefault     = "https://api.pinata.cloud"
	ipfsGatewayDefault = "https://ipfs.io/ipfs/"
	ipfsScheme         = "ipfs://"
)

// IPFSOptions configures the pinning service client
type IPFSOptions struct {
	// APIURL is the pinning service root, pinFileToIPFS is appended
	APIURL string
	// JWT is sent as a bearer token and never logged
	JWT        string
	GatewayURL string
	Timeout    time.Duration
}

// IPFS pins artifacts through a Pinata compatible pinning API
type IPFS struct {
	http *http.Client
	opts IPFSOptions
	log  logger.Logger
}

// NewIPFS creates an IPFS pinning backend
func NewIPFS(o IPFSOptions) *IPFS {
	if o.APIURL == "" {
		o.APIURL = ipfsAPIDefault
	}
	if o.GatewayURL == "" {
		o.GatewayURL = ipfsGatewayDefault
	}
	o.APIURL = strings.TrimRight(o.APIURL, "/")
	o.GatewayURL = withSlash(o.GatewayURL)
	hc := &http.Client{}
	if o.Timeout > 0 {
		hc.Timeout = o.Timeout
	}
	return &IPFS{http: hc, opts: o, log: *logger.Named("storage.ipfs")}
}

// Name returns the backend label
func (b *IPFS) Name() string { return string(KindIPFS) }

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

// Put streams the artifact as a multipart pinFileToIPFS request
func (b *IPFS) Put(ctx context.Context, hash fingerprint.Hash, a artifact.Artifact) (string, error) {
	src, err := a.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = src.Close() }()

	pr, pw := io.Pipe()
	defer func() { _ = pr.Close() }()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writePinForm(mw, hash, a, src))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.opts.APIURL+"/pinning/pinFileToIPFS", pr)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnknown, "ipfs new request failed")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("User-Agent", version.UserAgent())
	if b.opts.JWT != "" {
		req.Header.Set("Authorization", "Bearer "+b.opts.JWT)
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeBackend, "ipfs pin request failed")
	}
	defer drainAndClose(resp.Body)
	if resp.StatusCode/100 != 2 {
		return "", statusErr(b.Name(), resp)
	}

	var out pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeBackend, "ipfs pin response unreadable")
	}
	if out.IpfsHash == "" {
		return "", perr.Backendf("ipfs pin response has no cid")
	}
	b.log.Debug().Str("cid", out.IpfsHash).Int64("pin_size", out.PinSize).Str("hash", hash.Short()).Msg("pinned")
	return ipfsScheme + out.IpfsHash, nil
}

func writePinForm(mw *multipart.Writer, hash fingerprint.Hash, a artifact.Artifact, src io.Reader) error {
	name := a.Name
	if name == "" {
		name = hash.String()
	}
	meta, _ := json.Marshal(map[string]any{
		"name":      name,
		"keyvalues": map[string]string{"sha256": hash.String()},
	})
	if err := mw.WriteField("pinataMetadata", string(meta)); err != nil {
		return err
	}
	if err := mw.WriteField("pinataOptions", `{"cidVersion":1}`); err != nil {
		return err
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+escapeQuotes(name)+`"`)
	ct := a.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, src); err != nil {
		return err
	}
	return mw.Close()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

// Resolve maps ipfs://cid to the configured gateway
func (b *IPFS) Resolve(locator string) string {
	cid, ok := strings.CutPrefix(locator, ipfsScheme)
	if !ok || cid == "" {
		return ""
	}
	return b.opts.GatewayURL + cid
}
