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

	"ipvault/internal/core/artifact"
	"ipvault/internal/core/fingerprint"
	"ipvault/internal/core/ipasset"
	phttp "ipvault/internal/platform/net/http"
	"ipvault/internal/services/uploader/domain"
	svc "ipvault/internal/services/uploader/service"

	"github.com/go-chi/chi/v5"
)

type fakeUploader struct {
	svc.Service
	name string
	body string
}

func (f *fakeUploader) Upload(_ context.Context, a artifact.Artifact) (ipasset.StorageDescriptor, error) {
	rc, err := a.Open()
	if err != nil {
		return ipasset.StorageDescriptor{}, err
	}
	defer func() { _ = rc.Close() }()
	b, _ := io.ReadAll(rc)
	f.name, f.body = a.Name, string(b)
	return ipasset.StorageDescriptor{Hash: fingerprint.Bytes(b), PrimaryLocator: "L1", SecondaryLocator: "L2"}, nil
}

func (f *fakeUploader) Backends() []domain.BackendInfo {
	return []domain.BackendInfo{{Slot: domain.SlotPrimary, Backend: "ipfs", Enabled: true}}
}

func mount(s svc.Service) stdhttp.Handler {
	m := chi.NewRouter()
	phttp.AdaptChi(m).Route("/storage", func(r phttp.Router) { Register(r, s) })
	return m
}

func TestUpload_Multipart(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "hello.txt")
	_, _ = fw.Write([]byte("hello"))
	_ = mw.Close()

	req := httptest.NewRequest(stdhttp.MethodPost, "/storage/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	f := &fakeUploader{}
	mount(f).ServeHTTP(rec, req)

	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var env struct {
		Data ipasset.StorageDescriptor `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if f.name != "hello.txt" || f.body != "hello" {
		t.Fatalf("artifact = %q %q", f.name, f.body)
	}
	if env.Data.Hash != fingerprint.Text("hello") || env.Data.PrimaryLocator != "L1" {
		t.Fatalf("descriptor = %+v", env.Data)
	}
}

func TestUpload_RequiresFileField(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("title", "no file")
	_ = mw.Close()

	req := httptest.NewRequest(stdhttp.MethodPost, "/storage/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	mount(&fakeUploader{}).ServeHTTP(rec, req)

	if rec.Code != stdhttp.StatusBadRequest || !strings.Contains(rec.Body.String(), "file is required") {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestUpload_RejectsNonMultipart(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(stdhttp.MethodPost, "/storage/upload", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mount(&fakeUploader{}).ServeHTTP(rec, req)

	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestBackends(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(stdhttp.MethodGet, "/storage/backends", nil)
	rec := httptest.NewRecorder()
	mount(&fakeUploader{}).ServeHTTP(rec, req)

	if rec.Code != stdhttp.StatusOK || !strings.Contains(rec.Body.String(), `"backend":"ipfs"`) {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
}
