package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	phttp "ipvault/internal/platform/net/http"
	"ipvault/internal/platform/net/middleware"
)

// StackOptions tunes the baseline stack
type StackOptions struct {
	// Timeout caps a request, zero means 30s
	// registrations wait on a wallet prompt so the API raises it
	Timeout time.Duration

	// Slow marks requests at or above it as warn in the access log, zero means 10s
	Slow time.Duration

	// CORSOrigins restricts cross origin callers, empty allows the chi/cors default
	CORSOrigins []string
}

// Stack is the baseline middleware chain the api mounts under /api/v1
func Stack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Slow <= 0 {
		o.Slow = 10 * time.Second
	}
	return []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.RealIP,
		middleware.Correlate,
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.Slow}),
		middleware.RecoverJSON(phttp.JSON),
		middleware.NoCache,
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.Heartbeat("/health"),
		middleware.StripSlashes,
		middleware.Compress(flate.BestSpeed),
		middleware.Timeout(o.Timeout),
	}
}

// Auth wires the auth middleware to the platform JSON writer
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}
