package ch

import (
	"context"
	"testing"
)

func TestOpen_EmptyURL(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), Config{URL: "  "}); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestOpen_BadDSN(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), Config{URL: "clickhouse://host:notaport/db"}); err == nil {
		t.Fatalf("expected parse error for bad dsn")
	}
}

func TestBuildClientInfo(t *testing.T) {
	t.Parallel()

	ci := BuildClientInfo("", " api ")
	if len(ci.Products) != 4 {
		t.Fatalf("products len = %d, want 4", len(ci.Products))
	}
	if ci.Products[0].Name != "ipvault" || ci.Products[0].Version != "api" {
		t.Fatalf("first product = %+v", ci.Products[0])
	}
	if ci.Products[1].Name != "go" || ci.Products[1].Version == "" {
		t.Fatalf("go product = %+v", ci.Products[1])
	}
}

func TestClose_NilSafe(t *testing.T) {
	t.Parallel()

	var c *CH
	if err := c.Close(); err != nil {
		t.Fatalf("nil Close returned %v", err)
	}
}
