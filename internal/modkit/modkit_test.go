package modkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ipvault/internal/modkit/httpkit"
	phttp "ipvault/internal/platform/net/http"
	"ipvault/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

var _ Module = Base{}

func serve(t *testing.T, m Module, path string) *httptest.ResponseRecorder {
	t.Helper()
	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func pong(body string) func(httpkit.Router) {
	return func(r httpkit.Router) {
		r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(body)) })
	}
}

func TestBuild_Defaults(t *testing.T) {
	t.Parallel()

	b := Build("wallet", "wallet/", pong("wallet"))
	if b.Name() != "wallet" || b.Prefix() != "/wallet" {
		t.Fatalf("name = %q prefix = %q", b.Name(), b.Prefix())
	}
	if b.Ports() != nil {
		t.Fatalf("base ports = %v", b.Ports())
	}
	if rec := serve(t, b, "/wallet/ping"); rec.Code != http.StatusOK || rec.Body.String() != "wallet" {
		t.Fatalf("ping = %d %q", rec.Code, rec.Body.String())
	}
}

func TestBuild_OptionsOverride(t *testing.T) {
	t.Parallel()

	var order []string
	mw := func(tag string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, tag)
				next.ServeHTTP(w, r)
			})
		}
	}

	b := Build("assets", "/assets", pong("assets"),
		WithName("ip"),
		WithPrefix("/ip"),
		WithMiddlewares(mw("a")),
		WithMiddlewares(mw("b")),
		WithRegister(func(r phttp.Router) {
			r.Get("/extra", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) })
		}),
	)
	if b.Name() != "ip" || b.Prefix() != "/ip" {
		t.Fatalf("name = %q prefix = %q", b.Name(), b.Prefix())
	}
	if rec := serve(t, b, "/ip/ping"); rec.Body.String() != "assets" {
		t.Fatalf("ping = %q", rec.Body.String())
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("middleware order = %v", order)
	}
	if rec := serve(t, b, "/ip/extra"); rec.Code != http.StatusAccepted {
		t.Fatalf("extra = %d", rec.Code)
	}
	if rec := serve(t, b, "/assets/ping"); rec.Code != http.StatusNotFound {
		t.Fatalf("old prefix still served: %d", rec.Code)
	}
}

func TestBuild_MiddlewareSliceIsCopied(t *testing.T) {
	t.Parallel()

	mws := []func(http.Handler) http.Handler{func(h http.Handler) http.Handler { return h }}
	b := Build("storage", "/storage", nil, WithMiddlewares(mws...))
	mws[0] = nil
	if b.mw[0] == nil {
		t.Fatalf("Build kept a reference to the caller slice")
	}
}

func TestBase_RequiresNameAndPrefix(t *testing.T) {
	t.Parallel()

	testkit.MustPanic(t, func() { _ = Build("", "/x", nil).Name() })
	testkit.MustPanic(t, func() { _ = Build("x", "/", nil).Prefix() })
}
