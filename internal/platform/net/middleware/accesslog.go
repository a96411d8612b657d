package middleware

import (
	"net/http"
	"time"

	"ipvault/internal/platform/logger"
	pnet "ipvault/internal/platform/net"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// AccessLogOptions configures the zerolog access log
type AccessLogOptions struct {
	// Slow marks requests taking >= Slow as warn level, 0 disables slow marking
	Slow time.Duration
}

// Correlate copies the chi request id into the logger context and echoes it back
// it must run after RequestID
func Correlate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := pnet.RequestID(r.Context())
		if reqID != "" {
			w.Header().Set("X-Request-ID", reqID)
		}
		next.ServeHTTP(w, r.WithContext(logger.WithRequest(r.Context(), reqID, "")))
	})
}

// AccessLogZerolog logs method, path, status, elapsed, bytes and the api key caller
func AccessLogZerolog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			// auth runs deeper in the chain, so the caller is read back from the holder it fills
			holder := &callerHolder{}
			next.ServeHTTP(ww, r.WithContext(withHolder(r.Context(), holder)))

			elapsed := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log := logger.C(r.Context())
			evt := log.Info()
			switch {
			case status >= http.StatusInternalServerError:
				evt = log.Error()
			case opt.Slow > 0 && elapsed >= opt.Slow:
				evt = log.Warn()
			}
			if holder.label != "" {
				evt = evt.Str("caller", holder.label)
			}
			evt.Int("status", status).
				Dur("elapsed", elapsed).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("bytes", ww.BytesWritten()).
				Msg("request done")
		})
	}
}
