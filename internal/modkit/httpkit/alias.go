// Package httpkit is the routing surface modules use instead of internal/platform/net/http
package httpkit

import phttp "ipvault/internal/platform/net/http"

type (
	// Envelope is the response envelope, named in swagger annotations
	Envelope = phttp.Envelope

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is the platform router seam
	Router = phttp.Router
)
