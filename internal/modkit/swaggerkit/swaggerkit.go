// Package swaggerkit serves the OpenAPI document and the swagger UI
package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"

	phttp "ipvault/internal/platform/net/http"
	docs "ipvault/internal/services/api/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Base is where module routes live, the document's server url
const Base = "/api/v1"

// docReader is a seam for tests
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }

// Mount serves the UI under /api/docs/ and the document at /api/docs/doc.json
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDoc)
	r.Handle("/api/docs/*", httpSwagger.Handler(httpSwagger.URL("/api/docs/doc.json")))
}

func serveDoc(w http.ResponseWriter, _ *http.Request) {
	var spec map[string]any
	if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
		http.Error(w, "openapi document is not valid json", http.StatusInternalServerError)
		return
	}
	normalize(spec)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(spec)
}

// normalize pins OAS 3.0.3 for the UI, sets the server url and gives every
// operation the envelope for 400 and 500 unless it documents its own
func normalize(spec map[string]any) {
	delete(spec, "swagger")
	if v, _ := spec["openapi"].(string); !strings.HasPrefix(v, "3.0") {
		spec["openapi"] = "3.0.3"
	}
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": Base}}
	}

	schemas := child(child(spec, "components"), "schemas")
	if _, ok := schemas["Envelope"]; !ok {
		schemas["Envelope"] = map[string]any{
			"type":     "object",
			"required": []any{"status_code", "status"},
			"properties": map[string]any{
				"status_code": map[string]any{"type": "integer"},
				"status":      map[string]any{"type": "string"},
				"code":        map[string]any{"type": "integer"},
				"error":       map[string]any{"type": "string"},
				"request_id":  map[string]any{"type": "string"},
				"data":        map[string]any{},
			},
		}
	}

	defaults := map[string]map[string]any{
		"400": failure("Bad Request", 400, 8, "title is a required field"),
		"500": failure("Internal Server Error", 500, 1, "panic recovered"),
	}
	paths, _ := spec["paths"].(map[string]any)
	for _, item := range paths {
		ops, _ := item.(map[string]any)
		for _, o := range ops {
			op, ok := o.(map[string]any)
			if !ok {
				continue
			}
			responses := child(op, "responses")
			for code, resp := range defaults {
				if _, ok := responses[code]; !ok {
					responses[code] = resp
				}
			}
		}
	}
}

func failure(status string, statusCode, code int, msg string) map[string]any {
	return map[string]any{
		"description": status,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/Envelope"},
				"example": map[string]any{
					"status_code": statusCode,
					"status":      status,
					"code":        code,
					"error":       msg,
					"request_id":  "ipvault/abc-000001",
				},
			},
		},
	}
}

// child returns m[key] as a map, creating it when absent
func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}
