// Package ports defines the interfaces the application layer needs from
// infrastructure.
package ports

import (
	"context"

	"buildflow-backend/domain/events"
	"buildflow-backend/domain/project"
)

// ProjectRecord is the persisted form of one project: its snapshot plus
// ownership and bookkeeping fields. Timestamps are RFC3339 strings, the
// format they are stored and served in.
type ProjectRecord struct {
	ProjectID  string
	UserID     string
	Name       string
	Snapshot   *project.Snapshot
	Deployment map[string]interface{}
	CreatedAt  string
	UpdatedAt  string
}

// ProjectRepository persists project snapshots.
type ProjectRepository interface {
	// Save upserts the record. CreatedAt is preserved for existing
	// records.
	Save(ctx context.Context, record *ProjectRecord) error

	// Get returns the record, or a NotFound AppError.
	Get(ctx context.Context, userID, projectID string) (*ProjectRecord, error)

	// List returns all of a user's records, most recently updated first.
	List(ctx context.Context, userID string) ([]*ProjectRecord, error)

	// Delete removes the record. Deleting a missing record is not an
	// error.
	Delete(ctx context.Context, userID, projectID string) error

	// SaveDeployment attaches deployment metadata to an existing record.
	SaveDeployment(ctx context.Context, userID, projectID string, metadata map[string]interface{}) error
}

// EventBus publishes domain events to the outside world.
type EventBus interface {
	Publish(ctx context.Context, event events.DomainEvent) error
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
