package httpkit

import (
	"net/http"

	phttp "ipvault/internal/platform/net/http"
)

// Get mounts a bodiless handler under GET
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, phttp.JSONHandlerNoBody(h))
}

// Post mounts a handler that reads its own body, multipart uploads use it
func Post(r Router, path string, h func(*http.Request) (any, error)) {
	r.Post(path, phttp.JSONHandlerNoBody(h))
}

// PostJSON mounts a handler whose body is decoded and validated into T
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.JSONHandler(h))
}

// PutJSON mounts a handler whose body is decoded and validated into T
func PutJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Put(path, phttp.JSONHandler(h))
}

// PatchJSON mounts a handler whose body is decoded and validated into T
func PatchJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Patch(path, phttp.JSONHandler(h))
}
