package net

import (
	"context"
	"testing"
)

func TestRequestIDAndCaller(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if RequestID(ctx) != "" || Caller(ctx) != "" {
		t.Fatalf("empty ctx carried values")
	}
	if WithRequestID(ctx, "") != ctx || WithCaller(ctx, "") != ctx {
		t.Fatalf("empty values should return the parent ctx")
	}

	ctx = WithCaller(WithRequestID(ctx, "req-7"), "studio")
	if got := RequestID(ctx); got != "req-7" {
		t.Fatalf("RequestID = %q", got)
	}
	if got := Caller(ctx); got != "studio" {
		t.Fatalf("Caller = %q", got)
	}
}
