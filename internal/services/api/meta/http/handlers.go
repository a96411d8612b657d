// Package http serves liveness, readiness and build details for operators
package http

import (
	stdctx "context"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"time"

	"ipvault/internal/core/version"
	"ipvault/internal/modkit/httpkit"
)

// readyTimeout bounds one /ready call across all checks
const readyTimeout = 2 * time.Second

// Check pings one optional backend; nil means the backend is not configured
type Check func(stdctx.Context) error

// Deps feeds the meta routes
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Checks      map[string]Check

	// Modules lists the mounted modules, nil reports none
	Modules func() []string

	// Components describe the active pipeline policy of each stage
	Components map[string]fmt.Stringer
}

type handlers struct{ Deps }

// Register mounts /health, /ready, /version, /service and /pipeline
func Register(r httpkit.Router, d Deps) {
	h := handlers{d}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/pipeline", h.pipeline)
}

// HealthResponse says the process is serving
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"ipvault-api"`
	Started string `json:"started" example:"2026-01-02T13:00:00Z"`
	Now     string `json:"now"     example:"2026-01-02T13:05:00Z"`
}

// ReadyCheck is the outcome of one backend check: ok, fail or skipped
type ReadyCheck struct {
	Name   string `json:"name"            example:"redis"`
	Status string `json:"status"          example:"ok"`
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:6379: connect: connection refused"`
}

// ReadyResponse is fail when any configured backend failed its check
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-01-02T13:05:00Z"`
}

// ServiceResponse reports uptime in seconds and the mounted modules
type ServiceResponse struct {
	Name    string   `json:"name"    example:"ipvault-api"`
	Started string   `json:"started" example:"2026-01-02T13:00:00Z"`
	Uptime  int64    `json:"uptime"  example:"300"`
	Modules []string `json:"modules" example:"assets,meta,registrations,storage,wallet"`
}

// Component is one pipeline stage and its policy
type Component struct {
	Name   string `json:"name"   example:"storage"`
	Policy string `json:"policy" example:"primary=ipfs secondary=arweave require_one=false"`
}

// PipelineResponse reports build info and stage policies
type PipelineResponse struct {
	Build      version.BuildInfo `json:"build"`
	Components []Component       `json:"components"`
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// swagger:route GET /meta/health Meta metaHealth
// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "ok"
// @Router /meta/health [get]
func (h handlers) health(*http.Request) (any, error) {
	return HealthResponse{OK: true, Service: h.ServiceName, Started: stamp(h.StartedAt), Now: stamp(time.Now())}, nil
}

// swagger:route GET /meta/ready Meta metaReady
// @Summary Readiness of the configured backends
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse "ok"
// @Router /meta/ready [get]
func (h handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	out := ReadyResponse{Status: "ok", Checks: []ReadyCheck{}}
	for _, name := range slices.Sorted(maps.Keys(h.Checks)) {
		rc := ReadyCheck{Name: name, Status: "skipped"}
		if check := h.Checks[name]; check != nil {
			rc.Status = "ok"
			if err := check(ctx); err != nil {
				rc.Status, rc.Error = "fail", err.Error()
				out.Status = "fail"
			}
		}
		out.Checks = append(out.Checks, rc)
	}
	out.Now = stamp(time.Now())
	return out, nil
}

// swagger:route GET /meta/version Meta metaVersion
// @Summary Build info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /meta/version [get]
func (h handlers) version(*http.Request) (any, error) {
	return version.Info(h.ServiceName), nil
}

// swagger:route GET /meta/service Meta metaService
// @Summary Uptime and mounted modules
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse "ok"
// @Router /meta/service [get]
func (h handlers) service(*http.Request) (any, error) {
	mods := []string{}
	if h.Modules != nil {
		mods = h.Modules()
	}
	return ServiceResponse{
		Name:    h.ServiceName,
		Started: stamp(h.StartedAt),
		Uptime:  int64(time.Since(h.StartedAt).Seconds()),
		Modules: mods,
	}, nil
}

// swagger:route GET /meta/pipeline Meta metaPipeline
// @Summary Active storage, wallet, ledger and lock policies
// @Tags Meta
// @Produce json
// @Success 200 {object} PipelineResponse "ok"
// @Router /meta/pipeline [get]
func (h handlers) pipeline(*http.Request) (any, error) {
	out := PipelineResponse{Build: version.Info(h.ServiceName)}
	for _, name := range slices.Sorted(maps.Keys(h.Components)) {
		if s := h.Components[name]; s != nil {
			out.Components = append(out.Components, Component{Name: name, Policy: s.String()})
		}
	}
	return out, nil
}
