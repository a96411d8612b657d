package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	kit "ipvault/internal/platform/testkit"

	"github.com/rs/zerolog"
)

// useBuffer points the root at a json buffer for the rest of the test
func useBuffer(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	l := build(Options{Level: "debug", Format: "json", Service: "ipvault-test", Writer: &buf})
	prev := root.Swap(&l)
	if prev == nil {
		prev = &l
	}
	t.Cleanup(func() { root.Store(prev) })
	return &buf
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var m map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &m); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	return m
}

func TestLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		" INFO ":   zerolog.InfoLevel,
		"warn":     zerolog.WarnLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"":         zerolog.DebugLevel,
		"verbose":  zerolog.DebugLevel,
		"disabled": zerolog.Disabled,
	}
	for in, want := range cases {
		if got := level(in); got != want {
			t.Fatalf("level(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestC_CarriesContextFields(t *testing.T) {
	buf := useBuffer(t)

	ctx := WithRequest(context.Background(), "req-42", "studio")
	ctx = WithOwner(ctx, "0x52908400098527886E0F7030069857D2E4169EE7")
	ctx = WithItem(ctx, "track-3")
	C(ctx).Info().Msg("registering")

	got := lastLine(t, buf)
	want := map[string]string{
		"message":    "registering",
		"service":    "ipvault-test",
		"request_id": "req-42",
		"caller":     "studio",
		"owner":      "0x52908400098527886E0F7030069857D2E4169EE7",
		"item_id":    "track-3",
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("%s = %v, want %q (line %v)", k, got[k], v, got)
		}
	}

	C(context.Background()).Info().Msg("bare")
	if bare := lastLine(t, buf); bare["request_id"] != nil || bare["owner"] != nil {
		t.Fatalf("background ctx leaked fields: %v", bare)
	}
}

func TestNamed(t *testing.T) {
	buf := useBuffer(t)

	Named("uploader").Warn().Msg("secondary failed")
	if got := lastLine(t, buf); got["component"] != "uploader" || got["level"] != "warn" {
		t.Fatalf("line = %v", got)
	}
	if Named("") != Get() {
		t.Fatalf("empty component should return the root")
	}
}

func TestBuild_ConsoleAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := build(Options{Level: "warn", Format: "console", Writer: &buf})
	l.Info().Msg("dropped")
	l.Warn().Str("backend", "arweave").Msg("kept")

	out := buf.String()
	kit.MustContain(t, out, "kept")
	kit.MustContain(t, out, "backend=")
	if bytes.Contains(buf.Bytes(), []byte("dropped")) {
		t.Fatalf("info line passed a warn logger: %q", out)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LOG_CALLER", "on")

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != "json" || !opt.WithCaller || opt.Service != "ipvault" {
		t.Fatalf("FromEnv = %+v", opt)
	}
}

func TestWith_EmptyIsNoop(t *testing.T) {
	ctx := context.Background()
	if WithItem(ctx, "") != ctx || WithOwner(ctx, "") != ctx || WithRequest(ctx, "", "") != ctx {
		t.Fatalf("empty values should return the parent ctx")
	}
}
