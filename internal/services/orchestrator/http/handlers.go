// Package http exposes registration triggers over http
package http

import (
	stdhttp "net/http"
	"strconv"
	"strings"

	"ipvault/internal/core/ipasset"
	"ipvault/internal/modkit/httpkit"
	perr "ipvault/internal/platform/errors"
	"ipvault/internal/services/orchestrator/domain"
	uphttp "ipvault/internal/services/uploader/http"
)

// Register mounts registration endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{s: s}

	httpkit.Post(r, "/file", h.file)
	httpkit.PostJSON[domain.AIOutputRequest](r, "/ai-output", h.aiOutput)
	httpkit.PostJSON[domain.MixRequest](r, "/mix", h.mix)

	httpkit.Get(r, "/inflight", h.inflight)
}

type handlers struct{ s domain.ServicePort }

// InFlightResponse lists owner|hash keys being registered
type InFlightResponse struct {
	Keys []string `json:"keys"`
}

// swagger:route POST /registrations/file Registrations registerFile
// @Summary Fingerprint, store and register a file
// @Tags Registrations
// @Accept mpfd
// @Produce json
// @Param file formData file true "Artifact"
// @Param title formData string false "Title, defaults to the file name"
// @Param description formData string false "Description"
// @Param type formData string false "Asset type" Enums(art,text,code,music,research,ai-output)
// @Param tags formData string false "Comma separated tags"
// @Param license formData string false "License"
// @Param skip_upload formData bool false "Fingerprint only"
// @Success 200 {object} domain.Outcome "ok"
// @Failure 400 {object} httpkit.Envelope
// @Failure 401 {object} httpkit.Envelope "wallet not connected"
// @Failure 402 {object} httpkit.Envelope "insufficient funds"
// @Failure 409 {object} httpkit.Envelope "rejected, pending or already in flight"
// @Router /registrations/file [post]
func (h *handlers) file(r *stdhttp.Request) (any, error) {
	a, err := uphttp.ReadArtifact(r, "file")
	if err != nil {
		return nil, err
	}
	defer func() { _ = a.Close() }()

	skip := false
	if v := strings.TrimSpace(r.FormValue("skip_upload")); v != "" {
		if skip, err = strconv.ParseBool(v); err != nil {
			return nil, perr.WithField(perr.Validationf("skip_upload must be a boolean"), "skip_upload")
		}
	}
	out, err := h.s.RegisterFile(r.Context(), domain.FileRequest{
		Artifact:    a,
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Type:        ipasset.AssetType(r.FormValue("type")),
		TagsCSV:     r.FormValue("tags"),
		License:     r.FormValue("license"),
		SkipUpload:  skip,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// swagger:route POST /registrations/ai-output Registrations registerAIOutput
// @Summary Register generated text
// @Tags Registrations
// @Accept json
// @Produce json
// @Param body body domain.AIOutputRequest true "Output"
// @Success 200 {object} domain.Outcome "ok"
// @Failure 400 {object} httpkit.Envelope
// @Router /registrations/ai-output [post]
func (h *handlers) aiOutput(r *stdhttp.Request, in domain.AIOutputRequest) (any, error) {
	out, err := h.s.RegisterAIOutput(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// swagger:route POST /registrations/mix Registrations saveMix
// @Summary Save a mix session and register it unless register is false
// @Tags Registrations
// @Accept json
// @Produce json
// @Param body body domain.MixRequest true "Mix"
// @Success 200 {object} domain.Outcome "ok"
// @Failure 400 {object} httpkit.Envelope
// @Router /registrations/mix [post]
func (h *handlers) mix(r *stdhttp.Request, in domain.MixRequest) (any, error) {
	out, err := h.s.SaveMixSession(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// swagger:route GET /registrations/inflight Registrations registrationsInFlight
// @Summary Registrations running on this instance
// @Tags Registrations
// @Produce json
// @Success 200 {object} InFlightResponse "ok"
// @Router /registrations/inflight [get]
func (h *handlers) inflight(_ *stdhttp.Request) (any, error) {
	return InFlightResponse{Keys: h.s.InFlight()}, nil
}
