package middleware

import (
	"context"
	"net/http"

	"ipvault/internal/platform/logger"
	pnet "ipvault/internal/platform/net"
)

// AuthPort resolves the caller of a request
type AuthPort interface {
	// Parse returns the caller label or an error
	Parse(r *http.Request) (caller string, err error)
}

// Auth rejects requests the port cannot resolve, a nil port passes everything
// the resolved caller lands on the request context and in the access log
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			reqID := pnet.RequestID(r.Context())
			caller, err := p.Parse(r)
			if err != nil {
				logger.C(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("request rejected")
				status, body := pnet.Error(err, reqID)
				write(w, status, body)
				return
			}
			if h, ok := r.Context().Value(holderKey{}).(*callerHolder); ok {
				h.label = caller
			}
			ctx := pnet.WithCaller(r.Context(), caller)
			ctx = logger.WithRequest(ctx, reqID, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type holderKey struct{}

// callerHolder carries the caller back out to the access log
type callerHolder struct{ label string }

func withHolder(ctx context.Context, h *callerHolder) context.Context {
	return context.WithValue(ctx, holderKey{}, h)
}
