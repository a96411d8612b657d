// Package net carries request scoped identity and the response envelope shared by transports
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const keyCaller ctxKey = "caller"

// WithRequestID stores reqID where chi and RequestID can read it
func WithRequestID(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, reqID)
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// WithCaller records the label of the api key that authenticated the request
func WithCaller(ctx context.Context, label string) context.Context {
	if label == "" {
		return ctx
	}
	return context.WithValue(ctx, keyCaller, label)
}

// Caller returns the authenticated key label, empty on open deployments
func Caller(ctx context.Context) string {
	v, _ := ctx.Value(keyCaller).(string)
	return v
}
