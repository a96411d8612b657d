package middleware

import (
	stdhttp "net/http"
	"runtime/debug"

	perr "ipvault/internal/platform/errors"
	"ipvault/internal/platform/logger"
	pnet "ipvault/internal/platform/net"
)

// RecoverJSON turns a panic into a 500 envelope and logs the stack with the request id
func RecoverJSON(write func(w stdhttp.ResponseWriter, status int, body any)) func(stdhttp.Handler) stdhttp.Handler {
	return func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == stdhttp.ErrAbortHandler {
					panic(v)
				}
				logger.C(r.Context()).Error().
					Interface("panic", v).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				status, body := pnet.Error(perr.PanicErrf("panic recovered"), pnet.RequestID(r.Context()))
				write(w, status, body)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
