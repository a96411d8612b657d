// Package http is the platform http layer: chi adapter, envelope writers, json binding and the server
package http

import (
	"encoding/json"
	stdhttp "net/http"

	pnet "ipvault/internal/platform/net"
)

// Envelope is the standard response body for all endpoints
type Envelope = pnet.Wire

// JSON writes v as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Response is what return-style handlers produce; an error Body picks its own status
type Response struct {
	Status int
	Body   any
}

// Handle adapts a Response-returning handler to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	reqID := pnet.RequestID(r.Context())
	if err, ok := resp.Body.(error); ok && err != nil {
		status, env := pnet.Error(err, reqID)
		JSON(w, status, env)
		return
	}
	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	if status == stdhttp.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	status, env := pnet.Reply(status, resp.Body, reqID)
	JSON(w, status, env)
}

// OK returns a 200 response
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Error returns a response whose status and envelope come from err
func Error(err error) Response { return Response{Body: err} }
