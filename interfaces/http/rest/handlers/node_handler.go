package handlers

import (
	"net/http"

	"buildflow-backend/application/services"
	"buildflow-backend/domain/core/entities"
	"buildflow-backend/domain/core/valueobjects"
	"buildflow-backend/pkg/auth"
	"buildflow-backend/pkg/common"
	"buildflow-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// NodeHandler handles node-related HTTP requests
type NodeHandler struct {
	service *services.ProjectService
	logger  *zap.Logger
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(service *services.ProjectService, logger *zap.Logger) *NodeHandler {
	return &NodeHandler{service: service, logger: logger}
}

// CreateNodeRequest represents the request body for creating a node
type CreateNodeRequest struct {
	Type string  `json:"type" validate:"required,max=64"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// UpdateNodeRequest represents the request body for a partial node update
type UpdateNodeRequest struct {
	Name        *string                `json:"name,omitempty" validate:"omitempty,max=200"`
	Description *string                `json:"description,omitempty" validate:"omitempty,max=2000"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
}

// MoveNodeRequest represents the request body for repositioning a node
type MoveNodeRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CreateNode handles POST /projects/{projectID}/nodes
func (h *NodeHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	projectID := chi.URLParam(r, "projectID")

	var req CreateNodeRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	position, err := valueobjects.NewPosition(req.X, req.Y)
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	node, err := h.service.AddNode(r.Context(), userCtx.UserID, projectID, req.Type, position)
	if err != nil {
		h.logger.Error("Failed to create node",
			zap.String("projectID", projectID),
			zap.String("nodeType", req.Type),
			zap.Error(err),
		)
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, node)
}

// UpdateNode handles PATCH /projects/{projectID}/nodes/{nodeID}
func (h *NodeHandler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	projectID := chi.URLParam(r, "projectID")
	nodeID := chi.URLParam(r, "nodeID")

	var req UpdateNodeRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	patch := entities.NodeDataPatch{
		Name:        req.Name,
		Description: req.Description,
		Attributes:  req.Attributes,
	}

	node, err := h.service.UpdateNode(r.Context(), userCtx.UserID, projectID, nodeID, patch)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, node)
}

// MoveNode handles PUT /projects/{projectID}/nodes/{nodeID}/position
func (h *NodeHandler) MoveNode(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	projectID := chi.URLParam(r, "projectID")
	nodeID := chi.URLParam(r, "nodeID")

	var req MoveNodeRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}

	position, err := valueobjects.NewPosition(req.X, req.Y)
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	node, err := h.service.MoveNode(r.Context(), userCtx.UserID, projectID, nodeID, position)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, node)
}

// DeleteNode handles DELETE /projects/{projectID}/nodes/{nodeID}
func (h *NodeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	projectID := chi.URLParam(r, "projectID")
	nodeID := chi.URLParam(r, "nodeID")

	if err := h.service.DeleteNode(r.Context(), userCtx.UserID, projectID, nodeID); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Node deleted"})
}
