package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ipvault/internal/core/ipasset"
	perr "ipvault/internal/platform/errors"
	phttp "ipvault/internal/platform/net/http"
	svc "ipvault/internal/services/registry/service"

	"github.com/go-chi/chi/v5"
)

type fakeService struct {
	svc.Service
	id      string
	patch   ipasset.MetadataPatch
	policy  ipasset.RoyaltyPolicy
	granted ipasset.Permission
}

func (f *fakeService) Asset(_ context.Context, id string) (ipasset.RegisteredAsset, error) {
	if id != "0xa1" {
		return ipasset.RegisteredAsset{}, perr.ErrNotFound
	}
	return ipasset.RegisteredAsset{ID: id, Metadata: ipasset.Metadata{Title: "Test"}}, nil
}

func (f *fakeService) GetLineage(_ context.Context, id string) ([]ipasset.RegisteredAsset, error) {
	f.id = id
	return []ipasset.RegisteredAsset{{ID: "0xparent"}}, nil
}

func (f *fakeService) UpdateMetadata(_ context.Context, id string, p ipasset.MetadataPatch) (ipasset.RegisteredAsset, error) {
	f.id, f.patch = id, p
	return ipasset.RegisteredAsset{ID: id, Metadata: ipasset.Metadata{Title: *p.Title}}, nil
}

func (f *fakeService) SetRoyalties(_ context.Context, id string, p ipasset.RoyaltyPolicy) error {
	f.id, f.policy = id, p
	return nil
}

func (f *fakeService) GrantPermission(_ context.Context, id string, p ipasset.Permission) error {
	f.id, f.granted = id, p
	return nil
}

func serve(t *testing.T, s svc.Service, method, path, body string) (int, json.RawMessage) {
	t.Helper()
	m := chi.NewRouter()
	phttp.AdaptChi(m).Route("/assets", func(r phttp.Router) { Register(r, s) })

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, req)

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return rec.Code, env.Data
}

func TestAsset_FoundAndMissing(t *testing.T) {
	t.Parallel()

	f := &fakeService{}
	code, data := serve(t, f, stdhttp.MethodGet, "/assets/0xa1", "")
	if code != stdhttp.StatusOK || !strings.Contains(string(data), `"title":"Test"`) {
		t.Fatalf("get = %d %s", code, data)
	}
	if code, _ := serve(t, f, stdhttp.MethodGet, "/assets/0xnope", ""); code != stdhttp.StatusNotFound {
		t.Fatalf("missing = %d, want 404", code)
	}
}

func TestLineage_PassesID(t *testing.T) {
	t.Parallel()

	f := &fakeService{}
	code, data := serve(t, f, stdhttp.MethodGet, "/assets/0xchild/lineage", "")
	if code != stdhttp.StatusOK || f.id != "0xchild" || !strings.Contains(string(data), "0xparent") {
		t.Fatalf("lineage = %d %s id=%q", code, data, f.id)
	}
}

func TestMutations(t *testing.T) {
	t.Parallel()

	f := &fakeService{}

	code, _ := serve(t, f, stdhttp.MethodPatch, "/assets/0xa1/metadata", `{"title":"Renamed"}`)
	if code != stdhttp.StatusOK || f.patch.Title == nil || *f.patch.Title != "Renamed" {
		t.Fatalf("patch = %d %+v", code, f.patch)
	}

	code, _ = serve(t, f, stdhttp.MethodPut, "/assets/0xa1/royalties",
		`{"total_percentage":10,"recipients":[{"address":"0x52908400098527886E0F7030069857D2E4169EE7","percentage":10}]}`)
	if code != stdhttp.StatusOK || f.policy.TotalPercentage != 10 || len(f.policy.Recipients) != 1 {
		t.Fatalf("royalties = %d %+v", code, f.policy)
	}

	code, _ = serve(t, f, stdhttp.MethodPost, "/assets/0xa1/permissions", `{"type":"commercial"}`)
	if code != stdhttp.StatusOK || f.granted.Type != ipasset.PermissionCommercial {
		t.Fatalf("grant = %d %+v", code, f.granted)
	}
}

func TestMutations_RejectBadBodies(t *testing.T) {
	t.Parallel()

	f := &fakeService{}
	code, _ := serve(t, f, stdhttp.MethodPut, "/assets/0xa1/royalties", `{"total_percentage":150}`)
	if code != stdhttp.StatusBadRequest {
		t.Fatalf("royalties over 100 = %d, want 400", code)
	}
	code, _ = serve(t, f, stdhttp.MethodPost, "/assets/0xa1/permissions", `{"type":"resell"}`)
	if code != stdhttp.StatusBadRequest {
		t.Fatalf("unknown permission = %d, want 400", code)
	}
	if f.id != "" {
		t.Fatalf("service reached with invalid body: id=%q", f.id)
	}
}
