package http

import (
	stdhttp "net/http"

	mw "github.com/go-chi/chi/v5/middleware"
)

// MountProfiler serves pprof under prefix, e.g. /debug/pprof/heap for "/debug"
func MountProfiler(r Router, prefix string, enabled bool) {
	if !enabled {
		return
	}
	h := stdhttp.StripPrefix(prefix, mw.Profiler()).ServeHTTP
	r.Get(prefix, h)
	r.Get(prefix+"/*", h)
}
