// Package http exposes registered assets over http
package http

import (
	stdhttp "net/http"

	"ipvault/internal/core/ipasset"
	"ipvault/internal/modkit/httpkit"
	svc "ipvault/internal/services/registry/service"

	"github.com/go-chi/chi/v5"
)

// Register mounts asset endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/{id}", h.asset)
	httpkit.Get(r, "/{id}/lineage", h.lineage)
	httpkit.PatchJSON[ipasset.MetadataPatch](r, "/{id}/metadata", h.updateMetadata)
	httpkit.PutJSON[ipasset.RoyaltyPolicy](r, "/{id}/royalties", h.setRoyalties)
	httpkit.PostJSON[ipasset.Permission](r, "/{id}/permissions", h.grant)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /assets/{id} Assets assetGet
// @Summary Read an asset, stale when served from cache
// @Tags Assets
// @Produce json
// @Param id path string true "Asset id"
// @Success 200 {object} ipasset.RegisteredAsset "ok"
// @Failure 404 {object} httpkit.Envelope
// @Failure 412 {object} httpkit.Envelope "wallet not connected"
// @Router /assets/{id} [get]
func (h *handlers) asset(r *stdhttp.Request) (any, error) {
	return h.svc.Asset(r.Context(), chi.URLParam(r, "id"))
}

// swagger:route GET /assets/{id}/lineage Assets assetLineage
// @Summary Ancestors from the direct parent upward
// @Tags Assets
// @Produce json
// @Param id path string true "Asset id"
// @Success 200 {array} ipasset.RegisteredAsset "ok"
// @Router /assets/{id}/lineage [get]
func (h *handlers) lineage(r *stdhttp.Request) (any, error) {
	return h.svc.GetLineage(r.Context(), chi.URLParam(r, "id"))
}

// swagger:route PATCH /assets/{id}/metadata Assets assetMetadata
// @Summary Replace the supplied metadata fields
// @Tags Assets
// @Accept json
// @Produce json
// @Param id path string true "Asset id"
// @Param body body ipasset.MetadataPatch true "Patch"
// @Success 200 {object} ipasset.RegisteredAsset "ok"
// @Failure 400 {object} httpkit.Envelope
// @Router /assets/{id}/metadata [patch]
func (h *handlers) updateMetadata(r *stdhttp.Request, in ipasset.MetadataPatch) (any, error) {
	return h.svc.UpdateMetadata(r.Context(), chi.URLParam(r, "id"), in)
}

// swagger:route PUT /assets/{id}/royalties Assets assetRoyalties
// @Summary Attach a royalty policy
// @Tags Assets
// @Accept json
// @Produce json
// @Param id path string true "Asset id"
// @Param body body ipasset.RoyaltyPolicy true "Policy"
// @Success 200 {object} ipasset.RoyaltyPolicy "ok"
// @Failure 400 {object} httpkit.Envelope
// @Router /assets/{id}/royalties [put]
func (h *handlers) setRoyalties(r *stdhttp.Request, in ipasset.RoyaltyPolicy) (any, error) {
	if err := h.svc.SetRoyalties(r.Context(), chi.URLParam(r, "id"), in); err != nil {
		return nil, err
	}
	return in, nil
}

// swagger:route POST /assets/{id}/permissions Assets assetGrant
// @Summary Grant a permission by minting a license
// @Tags Assets
// @Accept json
// @Produce json
// @Param id path string true "Asset id"
// @Param body body ipasset.Permission true "Permission"
// @Success 200 {object} ipasset.Permission "ok"
// @Failure 400 {object} httpkit.Envelope
// @Router /assets/{id}/permissions [post]
func (h *handlers) grant(r *stdhttp.Request, in ipasset.Permission) (any, error) {
	if err := h.svc.GrantPermission(r.Context(), chi.URLParam(r, "id"), in); err != nil {
		return nil, err
	}
	return in, nil
}
