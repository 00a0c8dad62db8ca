package handlers

import (
	"net/http"

	"buildflow-backend/domain/catalog"
	"buildflow-backend/pkg/common"

	"go.uber.org/zap"
)

// CatalogHandler serves the component catalog the editor palette is
// built from.
type CatalogHandler struct {
	logger *zap.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{logger: logger}
}

// GetCatalog handles GET /catalog
func (h *CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, catalog.Categories())
}
