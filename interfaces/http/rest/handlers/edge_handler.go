package handlers

import (
	"net/http"

	"buildflow-backend/application/services"
	"buildflow-backend/domain/core/entities"
	"buildflow-backend/pkg/auth"
	"buildflow-backend/pkg/common"
	"buildflow-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// EdgeHandler handles edge-related HTTP requests
type EdgeHandler struct {
	service *services.ProjectService
	logger  *zap.Logger
}

// NewEdgeHandler creates a new edge handler
func NewEdgeHandler(service *services.ProjectService, logger *zap.Logger) *EdgeHandler {
	return &EdgeHandler{service: service, logger: logger}
}

// CreateEdgeRequest represents the request body for connecting two nodes
type CreateEdgeRequest struct {
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
}

// UpdateEdgeRequest represents the request body for a partial edge update
type UpdateEdgeRequest struct {
	Type     *string             `json:"type,omitempty" validate:"omitempty,oneof=smoothstep step straight bezier"`
	Label    *string             `json:"label,omitempty" validate:"omitempty,max=200"`
	Animated *bool               `json:"animated,omitempty"`
	Style    *entities.EdgeStyle `json:"style,omitempty"`
}

// CreateEdge handles POST /projects/{projectID}/edges
func (h *EdgeHandler) CreateEdge(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	projectID := chi.URLParam(r, "projectID")

	var req CreateEdgeRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	edge, err := h.service.AddEdge(r.Context(), userCtx.UserID, projectID, req.Source, req.Target)
	if err != nil {
		h.logger.Error("Failed to create edge",
			zap.String("projectID", projectID),
			zap.Error(err),
		)
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, edge)
}

// UpdateEdge handles PATCH /projects/{projectID}/edges/{edgeID}
func (h *EdgeHandler) UpdateEdge(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	projectID := chi.URLParam(r, "projectID")
	edgeID := chi.URLParam(r, "edgeID")

	var req UpdateEdgeRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	patch := entities.EdgePatch{
		Label:    req.Label,
		Animated: req.Animated,
		Style:    req.Style,
	}
	if req.Type != nil {
		edgeType := entities.EdgeType(*req.Type)
		patch.Type = &edgeType
	}

	edge, err := h.service.UpdateEdge(r.Context(), userCtx.UserID, projectID, edgeID, patch)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, edge)
}

// DeleteEdge handles DELETE /projects/{projectID}/edges/{edgeID}
func (h *EdgeHandler) DeleteEdge(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	projectID := chi.URLParam(r, "projectID")
	edgeID := chi.URLParam(r, "edgeID")

	if err := h.service.DeleteEdge(r.Context(), userCtx.UserID, projectID, edgeID); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Edge deleted"})
}
