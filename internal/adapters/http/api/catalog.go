// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// CatalogHandler handles catalog summary and reload requests.
type CatalogHandler struct {
	deps Dependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps Dependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// HandleGetCatalog handles GET /catalog requests. The frontend form
// uses the summary to populate brand options and the budget slider.
func (h *CatalogHandler) HandleGetCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Catalog(r.Context()))
}

// HandleReload handles POST /catalog/reload requests. On failure the
// previous snapshot stays in place and the error is reported.
func (h *CatalogHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.catalog_reload"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.ReloadCatalog(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "reload_failed", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Catalog(r.Context()))
}
