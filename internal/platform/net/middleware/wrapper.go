// Package middleware holds the chi adapters and in house middlewares the api stack is built from
package middleware

import (
	"net/http"

	pstrings "ipvault/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// chi middlewares the api stack uses as is
var (
	RequestID    = chimw.RequestID
	RealIP       = chimw.RealIP
	NoCache      = chimw.NoCache
	StripSlashes = chimw.StripSlashes
	Timeout      = chimw.Timeout
	Heartbeat    = chimw.Heartbeat
)

// Compress gzips and deflates responses at level, usually flate.BestSpeed
func Compress(level int) func(http.Handler) http.Handler {
	return chimw.NewCompressor(level).Handler
}

// CORSOptions is a narrow surface over go-chi/cors
type CORSOptions struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// CORS wraps go-chi/cors; the default headers admit api keys and request ids
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	return chicors.Handler(chicors.Options{
		AllowedOrigins: o.AllowedOrigins,
		AllowedMethods: pstrings.IfEmpty(o.AllowedMethods, []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"}),
		AllowedHeaders: pstrings.IfEmpty(o.AllowedHeaders, []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-API-Key",
			"X-Request-ID",
		}),
		ExposedHeaders:   pstrings.IfEmpty(o.ExposedHeaders, []string{"X-Request-ID"}),
		AllowCredentials: o.AllowCredentials,
		MaxAge:           o.MaxAge,
	})
}
