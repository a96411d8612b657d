package artifact

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"ipvault/internal/core/fingerprint"
	perr "ipvault/internal/platform/errors"
)

func readAll(t *testing.T, a Artifact) []byte {
	t.Helper()
	rc, err := a.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = rc.Close() }()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	return b
}

func TestFromBytes_ReopenAndFingerprint(t *testing.T) {
	t.Parallel()

	a := FromBytes("hello.txt", "", []byte("hello"))
	if a.Size != 5 || !strings.HasPrefix(a.ContentType, "text/plain") {
		t.Fatalf("unexpected artifact %+v", a)
	}
	if string(readAll(t, a)) != "hello" || string(readAll(t, a)) != "hello" {
		t.Fatalf("artifact should be re-openable")
	}
	h, err := a.Fingerprint()
	if err != nil || h != fingerprint.Text("hello") {
		t.Fatalf("Fingerprint = %s, %v", h, err)
	}
}

func TestFromText(t *testing.T) {
	t.Parallel()

	a := FromText("prompt", "a poem")
	if a.ContentType != "text/plain; charset=utf-8" || a.Name != "prompt" {
		t.Fatalf("unexpected %+v", a)
	}
}

func TestFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := filepath.Join(dir, "cover.json")
	if err := os.WriteFile(p, []byte(`{"a":1}`), 0o600); err != nil {
		t.Fatal(err)
	}
	a, err := FromFile(p)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if a.Name != "cover.json" || a.Size != 7 || a.ContentType != "application/json" {
		t.Fatalf("unexpected %+v", a)
	}
	if string(readAll(t, a)) != `{"a":1}` {
		t.Fatalf("content mismatch")
	}

	if _, err := FromFile(dir); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("dir err = %v", err)
	}
	if _, err := FromFile(filepath.Join(dir, "missing")); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("missing err = %v", err)
	}
}

func TestFromReader_SmallStaysInMemory(t *testing.T) {
	t.Parallel()

	a, err := FromReader("x.bin", "", strings.NewReader("tiny"))
	if err != nil {
		t.Fatalf("FromReader: %v", err)
	}
	if a.cleanup != nil || a.Size != 4 {
		t.Fatalf("small payload should not spool: %+v", a)
	}
}

func TestFromReader_SmallReaderAllocatesLittle(t *testing.T) {
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	for range 10 {
		if _, err := FromReader("h.txt", "", strings.NewReader("hello")); err != nil {
			t.Fatalf("FromReader: %v", err)
		}
	}
	runtime.ReadMemStats(&after)
	if got := after.TotalAlloc - before.TotalAlloc; got > 1<<20 {
		t.Fatalf("10 tiny reads allocated %d bytes", got)
	}
}

func TestFromReader_LargeSpoolsAndCleansUp(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte("z"), spoolThreshold+10)
	a, err := FromReader("big.bin", "application/octet-stream", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("FromReader: %v", err)
	}
	if a.cleanup == nil || a.Size != int64(len(payload)) {
		t.Fatalf("large payload should spool: size=%d", a.Size)
	}
	h, err := a.Fingerprint()
	if err != nil || h != fingerprint.Bytes(payload) {
		t.Fatalf("Fingerprint = %s, %v", h, err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := a.Open(); err == nil {
		t.Fatalf("spool file should be gone after Close")
	}
}

func TestZeroArtifact(t *testing.T) {
	t.Parallel()

	var a Artifact
	if _, err := a.Open(); err == nil {
		t.Fatalf("zero artifact Open should fail")
	}
	if err := a.Close(); err != nil {
		t.Fatalf("zero artifact Close: %v", err)
	}
}

func TestFromBytes_Seekable(t *testing.T) {
	t.Parallel()

	rc, err := FromBytes("a", "", []byte("abc")).Open()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := rc.(io.Seeker); !ok {
		t.Fatalf("in memory artifact should be seekable")
	}
}
