package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func applyStack(h http.Handler, stack []func(http.Handler) http.Handler) http.Handler {
	for i := len(stack) - 1; i >= 0; i-- {
		h = stack[i](h)
	}
	return h
}

func TestStack_HealthAndPassThrough(t *testing.T) {
	t.Parallel()

	hits := 0
	root := applyStack(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusNoContent)
	}), Stack(StackOptions{}))

	rr := httptest.NewRecorder()
	root.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK || hits != 0 {
		t.Fatalf("/health = %d hits = %d", rr.Code, hits)
	}

	rr = httptest.NewRecorder()
	root.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/wallet/", nil))
	if rr.Code != http.StatusNoContent || hits != 1 {
		t.Fatalf("/wallet/ = %d hits = %d", rr.Code, hits)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("request id not echoed")
	}
}

func TestStack_TimeoutAndOrigins(t *testing.T) {
	t.Parallel()

	var deadline time.Time
	h := applyStack(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, _ = r.Context().Deadline()
		w.WriteHeader(http.StatusNoContent)
	}), Stack(StackOptions{Timeout: 5 * time.Minute, CORSOrigins: []string{"https://studio.example"}}))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://studio.example")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rr.Code)
	}
	if until := time.Until(deadline); until < 4*time.Minute {
		t.Fatalf("deadline in %v, want about 5m", until)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://studio.example" {
		t.Fatalf("allow origin = %q", got)
	}
}

func TestStack_PanicBecomesEnvelope(t *testing.T) {
	t.Parallel()

	h := applyStack(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("ledger adapter nil") }), Stack(StackOptions{}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/assets/0x1", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestAuth_NilPortIsOpen(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	Auth(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })).
		ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rr.Code)
	}
}
