package repo

import (
	"context"
	"testing"
	"time"

	"ipvault/internal/core/fingerprint"
	"ipvault/internal/core/ipasset"
	perr "ipvault/internal/platform/errors"
)

func asset(id, owner string, h fingerprint.Hash) ipasset.RegisteredAsset {
	return ipasset.RegisteredAsset{
		ID:           id,
		Hash:         h,
		Owner:        owner,
		RegisteredAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		Metadata:     ipasset.Metadata{Title: "t", Type: ipasset.TypeArt},
	}
}

func TestMemory_PutGetFind(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()
	h := fingerprint.Text("hello")

	if _, err := m.Get(ctx, "0x1"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("miss err = %v", err)
	}
	if err := m.Put(ctx, asset("0x1", "0x52908400098527886E0F7030069857D2E4169EE7", h)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := m.Get(ctx, "0x1")
	if err != nil || got.Hash != h {
		t.Fatalf("Get = %+v, %v", got, err)
	}
	// owner lookup ignores checksum case
	got, err = m.FindByHash(ctx, h, "0x52908400098527886e0f7030069857d2e4169ee7")
	if err != nil || got.ID != "0x1" {
		t.Fatalf("FindByHash = %+v, %v", got, err)
	}
	if _, err := m.FindByHash(ctx, fingerprint.Text("other"), "0x52908400098527886E0F7030069857D2E4169EE7"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("hash miss err = %v", err)
	}
}

func TestMemory_LatestWins(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()
	h := fingerprint.Text("hello")
	a := asset("0x1", "0xA", h)
	_ = m.Put(ctx, a)
	a.Metadata.Title = "renamed"
	_ = m.Put(ctx, a)

	got, _ := m.Get(ctx, "0x1")
	if got.Metadata.Title != "renamed" {
		t.Fatalf("title = %q", got.Metadata.Title)
	}
}
