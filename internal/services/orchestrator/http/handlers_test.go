package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	phttp "ipvault/internal/platform/net/http"
	"ipvault/internal/services/orchestrator/domain"

	"github.com/go-chi/chi/v5"
)

// fakeSvc records the last request of each trigger
type fakeSvc struct {
	file    domain.FileRequest
	body    string
	ai      domain.AIOutputRequest
	mix     domain.MixRequest
	running []string
}

func (f *fakeSvc) RegisterFile(_ context.Context, in domain.FileRequest) (domain.Outcome, error) {
	f.file = in
	rc, err := in.Artifact.Open()
	if err != nil {
		return domain.Outcome{}, err
	}
	defer func() { _ = rc.Close() }()
	b, _ := io.ReadAll(rc)
	f.body = string(b)
	return domain.Outcome{ItemID: "i1", Trigger: domain.TriggerFile, State: domain.StateRegistered}, nil
}

func (f *fakeSvc) RegisterAIOutput(_ context.Context, in domain.AIOutputRequest) (domain.Outcome, error) {
	f.ai = in
	return domain.Outcome{ItemID: "i2", Trigger: domain.TriggerAIOutput, State: domain.StateRegistered}, nil
}

func (f *fakeSvc) SaveMixSession(_ context.Context, in domain.MixRequest) (domain.Outcome, error) {
	f.mix = in
	return domain.Outcome{ItemID: "i3", Trigger: domain.TriggerMix, State: domain.StateSaved}, nil
}

func (f *fakeSvc) InFlight() []string { return f.running }

func mount(s domain.ServicePort) stdhttp.Handler {
	m := chi.NewRouter()
	r := phttp.AdaptChi(m)
	r.Route("/registrations", func(rr phttp.Router) { Register(rr, s) })
	return m
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) (phttp.Envelope, domain.Outcome) {
	t.Helper()
	var env struct {
		phttp.Envelope
		Data domain.Outcome `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return env.Envelope, env.Data
}

func TestFile_Multipart(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "hello.txt")
	_, _ = fw.Write([]byte("hello"))
	for k, v := range map[string]string{"title": "Test", "type": "text", "tags": "a,b", "skip_upload": "true"} {
		_ = mw.WriteField(k, v)
	}
	_ = mw.Close()

	s := &fakeSvc{}
	req := httptest.NewRequest(stdhttp.MethodPost, "/registrations/file", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	mount(s).ServeHTTP(rec, req)

	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if _, out := decode(t, rec); out.ItemID != "i1" || out.State != domain.StateRegistered {
		t.Fatalf("outcome = %+v", out)
	}
	f := s.file
	if f.Title != "Test" || f.Type != "text" || f.TagsCSV != "a,b" || !f.SkipUpload || f.Artifact.Name != "hello.txt" {
		t.Fatalf("request = %+v", f)
	}
	if s.body != "hello" {
		t.Fatalf("artifact body = %q", s.body)
	}
}

func TestFile_Rejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		build func() (io.Reader, string)
	}{
		{"not multipart", func() (io.Reader, string) { return strings.NewReader("{}"), "application/json" }},
		{"no file", func() (io.Reader, string) {
			var buf bytes.Buffer
			mw := multipart.NewWriter(&buf)
			_ = mw.WriteField("title", "x")
			_ = mw.Close()
			return &buf, mw.FormDataContentType()
		}},
		{"bad skip flag", func() (io.Reader, string) {
			var buf bytes.Buffer
			mw := multipart.NewWriter(&buf)
			fw, _ := mw.CreateFormFile("file", "a.txt")
			_, _ = fw.Write([]byte("a"))
			_ = mw.WriteField("skip_upload", "maybe")
			_ = mw.Close()
			return &buf, mw.FormDataContentType()
		}},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			body, ct := c.build()
			req := httptest.NewRequest(stdhttp.MethodPost, "/registrations/file", body)
			req.Header.Set("Content-Type", ct)
			rec := httptest.NewRecorder()
			mount(&fakeSvc{}).ServeHTTP(rec, req)
			if rec.Code != stdhttp.StatusBadRequest {
				t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAIOutputAndMix_JSON(t *testing.T) {
	t.Parallel()

	s := &fakeSvc{}
	h := mount(s)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodPost, "/registrations/ai-output",
		strings.NewReader(`{"text":"a poem","prompt":"write","tags":["ai"]}`)))
	if rec.Code != stdhttp.StatusOK || s.ai.Text != "a poem" || s.ai.Prompt != "write" {
		t.Fatalf("ai-output: %d %+v", rec.Code, s.ai)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodPost, "/registrations/mix",
		strings.NewReader(`{"layers":[{"name":"Bass","volume":75,"pan":-10,"effects":{"reverb":5,"delay":0,"distortion":0},"muted":false}],"register":false}`)))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("mix status = %d body = %s", rec.Code, rec.Body.String())
	}
	if len(s.mix.Layers) != 1 || s.mix.Layers[0].Effects.Reverb != 5 || s.mix.Register == nil || *s.mix.Register {
		t.Fatalf("mix request = %+v", s.mix)
	}
	if _, out := decode(t, rec); out.State != domain.StateSaved {
		t.Fatalf("mix outcome = %+v", out)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodPost, "/registrations/mix", strings.NewReader(`{"layerz":[]}`)))
	if rec.Code == stdhttp.StatusOK {
		t.Fatalf("unknown field accepted")
	}
}

func TestInFlight(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	mount(&fakeSvc{running: []string{"0xabc|ff"}}).ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/registrations/inflight", nil))
	var env struct {
		Data InFlightResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil || len(env.Data.Keys) != 1 || env.Data.Keys[0] != "0xabc|ff" {
		t.Fatalf("inflight = %s (%v)", rec.Body.String(), err)
	}
}
