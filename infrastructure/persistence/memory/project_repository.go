// Package memory provides in-memory repository implementations used in
// development mode and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"buildflow-backend/application/ports"
	apperrors "buildflow-backend/pkg/errors"
	"buildflow-backend/pkg/utils"
)

// ProjectRepository is a thread-safe, map-backed ports.ProjectRepository.
type ProjectRepository struct {
	mu      sync.RWMutex
	records map[string]*ports.ProjectRecord
}

// NewProjectRepository creates an empty in-memory repository.
func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{
		records: make(map[string]*ports.ProjectRecord),
	}
}

func recordKey(userID, projectID string) string {
	return userID + "#" + projectID
}

// Save upserts the record, preserving CreatedAt across saves.
func (r *ProjectRepository) Save(_ context.Context, record *ports.ProjectRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := utils.NowRFC3339()
	stored := cloneRecord(record)
	stored.UpdatedAt = now

	key := recordKey(record.UserID, record.ProjectID)
	if existing, ok := r.records[key]; ok {
		stored.CreatedAt = existing.CreatedAt
		if stored.Deployment == nil {
			stored.Deployment = existing.Deployment
		}
	} else if stored.CreatedAt == "" {
		stored.CreatedAt = now
	}

	r.records[key] = stored
	return nil
}

// Get returns a copy of the stored record or a not-found error.
func (r *ProjectRepository) Get(_ context.Context, userID, projectID string) (*ports.ProjectRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[recordKey(userID, projectID)]
	if !ok {
		return nil, apperrors.NewNotFoundError("project")
	}
	return cloneRecord(record), nil
}

// List returns the user's projects, most recently updated first.
func (r *ProjectRepository) List(_ context.Context, userID string) ([]*ports.ProjectRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*ports.ProjectRecord, 0)
	for _, record := range r.records {
		if record.UserID == userID {
			out = append(out, cloneRecord(record))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt > out[j].UpdatedAt
	})
	return out, nil
}

// Delete removes the record; deleting a missing project is not an error.
func (r *ProjectRepository) Delete(_ context.Context, userID, projectID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, recordKey(userID, projectID))
	return nil
}

// SaveDeployment attaches deployment metadata to an existing record.
func (r *ProjectRepository) SaveDeployment(_ context.Context, userID, projectID string, deployment map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[recordKey(userID, projectID)]
	if !ok {
		return apperrors.NewNotFoundError("project")
	}
	record.Deployment = deployment
	record.UpdatedAt = utils.NowRFC3339()
	return nil
}

func cloneRecord(record *ports.ProjectRecord) *ports.ProjectRecord {
	out := *record
	if record.Snapshot != nil {
		snap := *record.Snapshot
		out.Snapshot = &snap
	}
	if record.Deployment != nil {
		deployment := make(map[string]interface{}, len(record.Deployment))
		for k, v := range record.Deployment {
			deployment[k] = v
		}
		out.Deployment = deployment
	}
	return &out
}
