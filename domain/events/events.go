// Package events defines the domain events published when projects
// change, consumed by the EventBridge publisher.
package events

import "time"

// SourceBackend identifies this service as the event source.
const SourceBackend = "buildflow.backend"

// Event type constants.
const (
	EventTypeProjectSaved   = "project.saved"
	EventTypeProjectCleared = "project.cleared"
	EventTypeProjectDeleted = "project.deleted"
	EventTypeDeployPlanned  = "project.deploy_planned"
)

// DomainEvent is implemented by all project events.
type DomainEvent interface {
	GetEventType() string
	GetAggregateID() string
	GetTimestamp() time.Time
}

// BaseEvent carries the fields every event shares.
type BaseEvent struct {
	AggregateID string    `json:"aggregateId"`
	EventType   string    `json:"eventType"`
	Timestamp   time.Time `json:"timestamp"`
}

// GetEventType returns the event type tag.
func (e BaseEvent) GetEventType() string { return e.EventType }

// GetAggregateID returns the id of the project the event concerns.
func (e BaseEvent) GetAggregateID() string { return e.AggregateID }

// GetTimestamp returns when the event occurred.
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// ProjectSaved fires after a project snapshot is persisted.
type ProjectSaved struct {
	BaseEvent
	ProjectID string `json:"projectId"`
	UserID    string `json:"userId"`
	NodeCount int    `json:"nodeCount"`
	EdgeCount int    `json:"edgeCount"`
}

// NewProjectSaved creates a ProjectSaved event.
func NewProjectSaved(projectID, userID string, nodeCount, edgeCount int) ProjectSaved {
	return ProjectSaved{
		BaseEvent: BaseEvent{
			AggregateID: projectID,
			EventType:   EventTypeProjectSaved,
			Timestamp:   time.Now(),
		},
		ProjectID: projectID,
		UserID:    userID,
		NodeCount: nodeCount,
		EdgeCount: edgeCount,
	}
}

// ProjectCleared fires after a project's diagram is emptied.
type ProjectCleared struct {
	BaseEvent
	ProjectID string `json:"projectId"`
	UserID    string `json:"userId"`
}

// NewProjectCleared creates a ProjectCleared event.
func NewProjectCleared(projectID, userID string) ProjectCleared {
	return ProjectCleared{
		BaseEvent: BaseEvent{
			AggregateID: projectID,
			EventType:   EventTypeProjectCleared,
			Timestamp:   time.Now(),
		},
		ProjectID: projectID,
		UserID:    userID,
	}
}

// ProjectDeleted fires after a project is removed.
type ProjectDeleted struct {
	BaseEvent
	ProjectID string `json:"projectId"`
	UserID    string `json:"userId"`
}

// NewProjectDeleted creates a ProjectDeleted event.
func NewProjectDeleted(projectID, userID string) ProjectDeleted {
	return ProjectDeleted{
		BaseEvent: BaseEvent{
			AggregateID: projectID,
			EventType:   EventTypeProjectDeleted,
			Timestamp:   time.Now(),
		},
		ProjectID: projectID,
		UserID:    userID,
	}
}

// DeployPlanned fires when a deployment plan is computed for a project.
type DeployPlanned struct {
	BaseEvent
	ProjectID     string `json:"projectId"`
	UserID        string `json:"userId"`
	ServiceCount  int    `json:"serviceCount"`
	DatabaseCount int    `json:"databaseCount"`
}

// NewDeployPlanned creates a DeployPlanned event.
func NewDeployPlanned(projectID, userID string, services, databases int) DeployPlanned {
	return DeployPlanned{
		BaseEvent: BaseEvent{
			AggregateID: projectID,
			EventType:   EventTypeDeployPlanned,
			Timestamp:   time.Now(),
		},
		ProjectID:     projectID,
		UserID:        userID,
		ServiceCount:  services,
		DatabaseCount: databases,
	}
}
