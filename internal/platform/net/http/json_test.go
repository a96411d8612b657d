package http

import (
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "ipvault/internal/platform/errors"
	pnet "ipvault/internal/platform/net"
)

type titleIn struct {
	Title string `json:"title" validate:"required,max=16"`
}

func serveJSON(t *testing.T, h Handler, method, body string) (int, Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, "/assets/0xAB/metadata", strings.NewReader(body))
	req = req.WithContext(pnet.WithRequestID(req.Context(), "req-7"))
	rec := httptest.NewRecorder()
	h(rec, req)

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("content type = %q", ct)
	}
	return rec.Code, env
}

func TestJSONHandler(t *testing.T) {
	t.Parallel()

	h := JSONHandler(func(_ *stdhttp.Request, in titleIn) (any, error) {
		if in.Title == "taken" {
			return nil, perr.Newf(perr.ErrorCodeConflict, "title %q in use", in.Title)
		}
		if in.Title == "boom" {
			return nil, errors.New("ledger offline")
		}
		return map[string]string{"title": strings.ToUpper(in.Title)}, nil
	})

	cases := []struct {
		name   string
		body   string
		status int
		code   perr.ErrorCode
		errMsg string
	}{
		{"ok", `{"title":"sunset"}`, stdhttp.StatusOK, 0, ""},
		{"bad json", `{"title":`, stdhttp.StatusBadRequest, perr.ErrorCodeJSON, "invalid JSON"},
		{"invalid", `{"title":""}`, stdhttp.StatusBadRequest, perr.ErrorCodeValidation, "title"},
		{"domain error", `{"title":"taken"}`, stdhttp.StatusConflict, perr.ErrorCodeConflict, "in use"},
		{"plain error", `{"title":"boom"}`, stdhttp.StatusInternalServerError, perr.ErrorCodeUnknown, "ledger offline"},
	}
	for _, c := range cases {
		status, env := serveJSON(t, h, stdhttp.MethodPost, c.body)
		if status != c.status || env.StatusCode != c.status || env.RequestID != "req-7" {
			t.Fatalf("%s: status = %d env = %+v", c.name, status, env)
		}
		if env.Code != c.code || !strings.Contains(env.Error, c.errMsg) {
			t.Fatalf("%s: code = %v error = %q", c.name, env.Code, env.Error)
		}
	}

	_, env := serveJSON(t, h, stdhttp.MethodPost, `{"title":"sunset"}`)
	data, _ := env.Data.(map[string]any)
	if data["title"] != "SUNSET" || env.Status != "OK" {
		t.Fatalf("data = %+v", env)
	}
}

func TestJSONHandlerNoBody(t *testing.T) {
	t.Parallel()

	calls := 0
	h := JSONHandlerNoBody(func(*stdhttp.Request) (any, error) {
		calls++
		if calls > 1 {
			return nil, perr.NotFoundf("asset not found")
		}
		return []string{"0xAB"}, nil
	})

	status, env := serveJSON(t, h, stdhttp.MethodGet, "")
	if status != stdhttp.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if ids, _ := env.Data.([]any); len(ids) != 1 || ids[0] != "0xAB" {
		t.Fatalf("data = %#v", env.Data)
	}
	status, env = serveJSON(t, h, stdhttp.MethodGet, "")
	if status != stdhttp.StatusNotFound || env.Code != perr.ErrorCodeNotFound {
		t.Fatalf("second call = %d %+v", status, env)
	}
}

func TestHandle_NoContent(t *testing.T) {
	t.Parallel()

	h := Handle(func(*stdhttp.Request) Response { return Response{Status: stdhttp.StatusNoContent} })
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(stdhttp.MethodDelete, "/", nil))
	if rec.Code != stdhttp.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("204 wrote %d %q", rec.Code, rec.Body.String())
	}
}
