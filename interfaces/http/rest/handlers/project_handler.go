package handlers

import (
	"io"
	"net/http"

	"buildflow-backend/application/services"
	"buildflow-backend/pkg/auth"
	"buildflow-backend/pkg/common"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxSnapshotBytes = 4 << 20

// ProjectHandler handles project-level HTTP requests
type ProjectHandler struct {
	service *services.ProjectService
	logger  *zap.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(service *services.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{service: service, logger: logger}
}

// ProjectSummary is the list-view representation of a project
type ProjectSummary struct {
	ProjectID string `json:"projectId"`
	Name      string `json:"name"`
	NodeCount int    `json:"nodeCount"`
	EdgeCount int    `json:"edgeCount"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ListProjects handles GET /projects
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	records, err := h.service.ListProjects(r.Context(), userCtx.UserID)
	if err != nil {
		h.logger.Error("Failed to list projects",
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		common.RespondAppError(w, err)
		return
	}

	summaries := make([]ProjectSummary, 0, len(records))
	for _, record := range records {
		summary := ProjectSummary{
			ProjectID: record.ProjectID,
			Name:      record.Name,
			CreatedAt: record.CreatedAt,
			UpdatedAt: record.UpdatedAt,
		}
		if record.Snapshot != nil {
			summary.NodeCount = len(record.Snapshot.Nodes)
			summary.EdgeCount = len(record.Snapshot.Edges)
		}
		summaries = append(summaries, summary)
	}

	common.RespondJSON(w, http.StatusOK, summaries)
}

// GetProject handles GET /projects/{projectID}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	projectID := chi.URLParam(r, "projectID")

	snap, err := h.service.GetProject(r.Context(), userCtx.UserID, projectID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, snap)
}

// ReplaceProject handles PUT /projects/{projectID}. The body is a raw
// snapshot document; version compatibility is decided here, before the
// store ever sees it.
func (h *ProjectHandler) ReplaceProject(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	projectID := chi.URLParam(r, "projectID")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSnapshotBytes))
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "unreadable request body")
		return
	}

	snap, err := h.service.ReplaceProject(r.Context(), userCtx.UserID, projectID, body)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, snap)
}

// ClearProject handles POST /projects/{projectID}/clear
func (h *ProjectHandler) ClearProject(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	projectID := chi.URLParam(r, "projectID")

	if err := h.service.ClearProject(r.Context(), userCtx.UserID, projectID); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Project cleared"})
}

// DeleteProject handles DELETE /projects/{projectID}
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	projectID := chi.URLParam(r, "projectID")

	if err := h.service.DeleteProject(r.Context(), userCtx.UserID, projectID); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Project deleted"})
}

// ApplyOperations handles POST /projects/{projectID}/operations. The body
// is an edit-operation batch; invalid entries are reported per-operation
// rather than failing the batch.
func (h *ProjectHandler) ApplyOperations(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	projectID := chi.URLParam(r, "projectID")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSnapshotBytes))
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "unreadable request body")
		return
	}

	results, err := h.service.ApplyOperations(r.Context(), userCtx.UserID, projectID, body)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, results)
}

// DeployStatus is the response body for a deploy-status lookup.
type DeployStatus struct {
	Deployed bool                   `json:"deployed"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// GetDeployStatus handles GET /projects/{projectID}/deploy/status
func (h *ProjectHandler) GetDeployStatus(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	projectID := chi.URLParam(r, "projectID")

	metadata, err := h.service.DeployStatus(r.Context(), userCtx.UserID, projectID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, DeployStatus{
		Deployed: len(metadata) > 0,
		Metadata: metadata,
	})
}

// GetDeployPlan handles GET /projects/{projectID}/deploy/plan
func (h *ProjectHandler) GetDeployPlan(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	projectID := chi.URLParam(r, "projectID")

	plan, err := h.service.DeployPlan(r.Context(), userCtx.UserID, projectID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, plan)
}
