package ledger

import (
	"context"
	"testing"

	"ipvault/internal/core/ipasset"
	perr "ipvault/internal/platform/errors"
)

type stubAdapter struct {
	cfg    Config
	signer string
}

func (s *stubAdapter) Version() string              { return "vt" }
func (s *stubAdapter) Init(context.Context) error   { return nil }
func (s *stubAdapter) Register(_ context.Context, sg Signer, _ RegisterRequest) (RegisterResult, error) {
	s.signer = sg.Address()
	return RegisterResult{IPAssetID: "0x1"}, nil
}
func (s *stubAdapter) UpdateMetadata(context.Context, Signer, string, ipasset.Metadata) (TxResult, error) {
	return TxResult{}, nil
}
func (s *stubAdapter) SetRoyaltyPolicy(context.Context, Signer, string, ipasset.RoyaltyPolicy) (TxResult, error) {
	return TxResult{}, nil
}
func (s *stubAdapter) MintLicense(context.Context, Signer, string, ipasset.Permission) (LicenseResult, error) {
	return LicenseResult{}, nil
}
func (s *stubAdapter) Relations(context.Context, string) ([]AssetRecord, error) { return nil, nil }
func (s *stubAdapter) Asset(context.Context, string) (AssetRecord, error)       { return AssetRecord{}, nil }

type addrSigner string

func (a addrSigner) Address() string                                    { return string(a) }
func (a addrSigner) SignDigest(context.Context, []byte) (string, error) { return "0xsig", nil }

func TestRegistry_OpenAndVersions(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Add(" VT ", func(c Config) (Adapter, error) { return &stubAdapter{cfg: c}, nil })
	r.Add("v0", func(Config) (Adapter, error) { return &stubAdapter{}, nil })

	if got := r.Versions(); len(got) != 2 || got[0] != "v0" || got[1] != "vt" {
		t.Fatalf("Versions = %v", got)
	}
	a, err := r.Open("vt", Config{APIKey: "x"})
	if err != nil || a.(*stubAdapter).cfg.APIKey != "x" {
		t.Fatalf("Open = %v, %v", a, err)
	}
	if _, err := r.Open("v9", Config{}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("unknown version err = %v", err)
	}
}

func TestClient_BindsSigner(t *testing.T) {
	t.Parallel()

	a := &stubAdapter{}
	c := NewClient(a, addrSigner("0xA"))
	if c.Address() != "0xA" || c.Version() != "vt" {
		t.Fatalf("client = %s %s", c.Address(), c.Version())
	}
	if _, err := c.Register(context.Background(), RegisterRequest{}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if a.signer != "0xA" {
		t.Fatalf("adapter saw signer %q", a.signer)
	}
}
