// Package http provides http transport for storage uploads
package http

import (
	stdhttp "net/http"
	"strings"

	"ipvault/internal/core/artifact"
	"ipvault/internal/modkit/httpkit"
	perr "ipvault/internal/platform/errors"
	svc "ipvault/internal/services/uploader/service"
)

// MaxUpload caps multipart request bodies
const MaxUpload = 512 << 20

// memLimit is the multipart part size kept in memory before spilling to disk
const memLimit = 8 << 20

// Register mounts storage endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// upload only, no registration
	httpkit.Post(r, "/upload", h.upload)

	// configured backend slots
	httpkit.Get(r, "/backends", h.backends)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /storage/upload Storage storageUpload
// @Summary Fingerprint and store a file in both backends
// @Tags Storage
// @Accept mpfd
// @Produce json
// @Param file formData file true "Artifact"
// @Success 200 {object} ipasset.StorageDescriptor "ok"
// @Failure 400 {object} httpkit.Envelope
// @Failure 502 {object} httpkit.Envelope
// @Router /storage/upload [post]
func (h *handlers) upload(r *stdhttp.Request) (any, error) {
	a, err := ReadArtifact(r, "file")
	if err != nil {
		return nil, err
	}
	defer func() { _ = a.Close() }()
	return h.svc.Upload(r.Context(), a)
}

// swagger:route GET /storage/backends Storage storageBackends
// @Summary List configured storage backends
// @Tags Storage
// @Produce json
// @Success 200 {array} domain.BackendInfo "ok"
// @Router /storage/backends [get]
func (h *handlers) backends(_ *stdhttp.Request) (any, error) {
	return h.svc.Backends(), nil
}

// ReadArtifact pulls a multipart file field into a re-openable artifact
// callers must Close the artifact to drop any spooled temp file
func ReadArtifact(r *stdhttp.Request, field string) (artifact.Artifact, error) {
	r.Body = stdhttp.MaxBytesReader(nil, r.Body, MaxUpload)
	if err := r.ParseMultipartForm(memLimit); err != nil {
		return artifact.Artifact{}, perr.Wrap(err, perr.ErrorCodeValidation, "expected a multipart form")
	}
	f, hdr, err := r.FormFile(field)
	if err != nil {
		return artifact.Artifact{}, perr.WithField(perr.Validationf("%s is required", field), field)
	}
	defer func() { _ = f.Close() }()

	name := strings.TrimSpace(hdr.Filename)
	ct := hdr.Header.Get("Content-Type")
	if ct == "application/octet-stream" {
		ct = ""
	}
	return artifact.FromReader(name, ct, f)
}
