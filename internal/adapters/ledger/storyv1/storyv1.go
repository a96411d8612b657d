// Package storyv1 speaks version 1 of the Story protocol registration gateway
package storyv1

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"ipvault/internal/adapters/ledger"
	"ipvault/internal/core/ipasset"
	"ipvault/internal/core/version"
	perr "ipvault/internal/platform/errors"
	"ipvault/internal/platform/logger"
	"ipvault/internal/platform/metrics"

	"github.com/ethereum/go-ethereum/ethclient"
)

// Version is the registry key of this adapter
const Version = "v1"

const (
	ChainAeneid  int64 = 1315
	ChainMainnet int64 = 1514

	defaultAPIURL = "https://api.storyapis.com"
	maxErrBody    = 4 << 10
)

var publicRPC = map[int64]string{
	ChainAeneid:  "https://aeneid-rpc.story.foundation",
	ChainMainnet: "https://mainnet.storyrpc.io",
}

// chainIDer is the slice of ethclient used to verify the network
type chainIDer interface {
	ChainID(ctx context.Context) (*big.Int, error)
	Close()
}

var dialChain = func(ctx context.Context, rawURL string) (chainIDer, error) {
	return ethclient.DialContext(ctx, rawURL)
}

// Adapter is the v1 ledger adapter
type Adapter struct {
	http    *http.Client
	cfg     ledger.Config
	chainID int64
	m       *metrics.Set
	log     logger.Logger

	mu       sync.Mutex
	verified bool
}

var _ ledger.Adapter = (*Adapter)(nil)

// Factory is the ledger.Factory for this version
func Factory(cfg ledger.Config) (ledger.Adapter, error) { return New(cfg) }

// New validates cfg and builds the adapter, no network I/O happens here
func New(cfg ledger.Config) (*Adapter, error) {
	if strings.TrimSpace(cfg.APIURL) == "" {
		cfg.APIURL = defaultAPIURL
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if _, err := url.ParseRequestURI(cfg.APIURL); err != nil {
		return nil, perr.InvalidArgf("ledger api url %q is invalid", cfg.APIURL)
	}
	id, err := ParseChain(cfg.Chain)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.RPCURL) == "" {
		cfg.RPCURL = publicRPC[id]
	}
	if cfg.VerifyChain && cfg.RPCURL == "" {
		return nil, perr.InvalidArgf("chain %d has no public rpc, set an rpc url or disable verification", id)
	}
	m := cfg.Metrics
	if m == nil {
		m = metrics.Default()
	}
	hc := &http.Client{}
	if cfg.Timeout > 0 {
		hc.Timeout = cfg.Timeout
	}
	return &Adapter{http: hc, cfg: cfg, chainID: id, m: m, log: *logger.Named("ledger.storyv1")}, nil
}

// ParseChain accepts a network name or a decimal chain id, empty means aeneid
func ParseChain(s string) (int64, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", "aeneid", "testnet":
		return ChainAeneid, nil
	case "story", "mainnet":
		return ChainMainnet, nil
	default:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return 0, perr.InvalidArgf("unknown chain %q", s)
		}
		return n, nil
	}
}

func (a *Adapter) Version() string { return Version }

// ChainID is the network this adapter expects
func (a *Adapter) ChainID() int64 { return a.chainID }

// Init checks the rpc endpoint reports the configured chain
// only a successful check is remembered so a later call can retry
func (a *Adapter) Init(ctx context.Context) error {
	if !a.cfg.VerifyChain {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.verified {
		return nil
	}

	c, err := dialChain(ctx, a.cfg.RPCURL)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeClientInitFailed, "dial chain rpc")
	}
	defer c.Close()

	got, err := c.ChainID(ctx)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeClientInitFailed, "read chain id")
	}
	if got == nil || got.Int64() != a.chainID {
		return perr.Newf(perr.ErrorCodeClientInitFailed, "chain id mismatch: want %d, got %v", a.chainID, got)
	}
	a.verified = true
	a.log.Debug().Int64("chain_id", a.chainID).Msg("chain verified")
	return nil
}

func (a *Adapter) Register(ctx context.Context, s ledger.Signer, req ledger.RegisterRequest) (ledger.RegisterResult, error) {
	var out ledger.RegisterResult
	err := a.do(ctx, "register", http.MethodPost, "/v1/ip-assets", req, s, &out)
	return out, err
}

func (a *Adapter) UpdateMetadata(ctx context.Context, s ledger.Signer, id string, m ipasset.Metadata) (ledger.TxResult, error) {
	var out ledger.TxResult
	err := a.do(ctx, "update_metadata", http.MethodPatch, assetPath(id, "metadata"), m, s, &out)
	return out, err
}

func (a *Adapter) SetRoyaltyPolicy(ctx context.Context, s ledger.Signer, id string, p ipasset.RoyaltyPolicy) (ledger.TxResult, error) {
	var out ledger.TxResult
	err := a.do(ctx, "set_royalty", http.MethodPut, assetPath(id, "royalty-policy"), p, s, &out)
	return out, err
}

func (a *Adapter) MintLicense(ctx context.Context, s ledger.Signer, id string, p ipasset.Permission) (ledger.LicenseResult, error) {
	var out ledger.LicenseResult
	err := a.do(ctx, "mint_license", http.MethodPost, assetPath(id, "licenses"), p, s, &out)
	return out, err
}

type relationsResponse struct {
	Ancestors []ledger.AssetRecord `json:"ancestors"`
}

func (a *Adapter) Relations(ctx context.Context, id string) ([]ledger.AssetRecord, error) {
	var out relationsResponse
	if err := a.do(ctx, "relations", http.MethodGet, assetPath(id, "relations"), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Ancestors, nil
}

func (a *Adapter) Asset(ctx context.Context, id string) (ledger.AssetRecord, error) {
	var out ledger.AssetRecord
	err := a.do(ctx, "asset", http.MethodGet, assetPath(id, ""), nil, nil, &out)
	return out, err
}

func assetPath(id, sub string) string {
	p := "/v1/ip-assets/" + url.PathEscape(id)
	if sub != "" {
		p += "/" + sub
	}
	return p
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do performs one gateway call, mutating calls are signed over the body digest
func (a *Adapter) do(ctx context.Context, op, method, path string, body any, s ledger.Signer, out any) (err error) {
	start := time.Now()
	defer func() {
		a.m.LedgerCalls.WithLabelValues(op, metrics.Outcome(err)).Observe(time.Since(start).Seconds())
	}()

	var payload []byte
	if body != nil {
		if payload, err = json.Marshal(body); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeInternal, "encode %s request", op)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, a.cfg.APIURL+path, bytes.NewReader(payload))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeInternal, "build %s request", op)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.cfg.APIKey != "" {
		req.Header.Set("X-Api-Key", a.cfg.APIKey)
	}
	if s != nil {
		digest := sha256.Sum256(payload)
		sig, err := s.SignDigest(ctx, digest[:])
		if err != nil {
			return err
		}
		req.Header.Set("X-Signer-Address", s.Address())
		req.Header.Set("X-Signature", sig)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrBody))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		msg := strings.TrimSpace(string(raw))
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil {
			switch {
			case eb.Message != "":
				msg = eb.Message
			case eb.Error != "":
				msg = eb.Error
			}
		}
		return &ledger.StatusError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeBackend, "decode %s response", op)
	}
	return nil
}
