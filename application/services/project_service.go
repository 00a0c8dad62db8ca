// Package services contains the application services that coordinate
// domain stores with persistence and messaging.
package services

import (
	"context"
	"sync"
	"time"

	"buildflow-backend/application/deploy"
	"buildflow-backend/application/ops"
	"buildflow-backend/application/ports"
	"buildflow-backend/domain/catalog"
	"buildflow-backend/domain/core/entities"
	"buildflow-backend/domain/core/valueobjects"
	"buildflow-backend/domain/events"
	"buildflow-backend/domain/project"
	apperrors "buildflow-backend/pkg/errors"
	"buildflow-backend/pkg/observability"

	"go.uber.org/zap"
)

const defaultProjectName = "Untitled Project"

// ProjectService owns the open project stores. The per-project store is
// single-writer by contract, so the service serializes all access behind
// one mutex; every mutation is written through to the repository before
// the call returns.
type ProjectService struct {
	mu   sync.Mutex
	open map[string]*openProject

	repo    ports.ProjectRepository
	bus     ports.EventBus
	metrics *observability.Metrics
	applier *ops.Applier
	logger  *zap.Logger
}

type openProject struct {
	store *project.Store
	name  string
}

// NewProjectService creates a project service. The event bus may be nil
// when messaging is not configured.
func NewProjectService(
	repo ports.ProjectRepository,
	bus ports.EventBus,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		open:    make(map[string]*openProject),
		repo:    repo,
		bus:     bus,
		metrics: metrics,
		applier: ops.NewApplier(logger),
		logger:  logger,
	}
}

// GetProject returns a materialized snapshot of the project, opening it
// from the repository on first touch. Unknown projects start empty.
func (s *ProjectService) GetProject(ctx context.Context, userID, projectID string) (*project.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	open, err := s.openProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	return open.store.GetProject(), nil
}

// ListProjects returns the user's persisted projects.
func (s *ProjectService) ListProjects(ctx context.Context, userID string) ([]*ports.ProjectRecord, error) {
	return s.repo.List(ctx, userID)
}

// ReplaceProject swaps the project's entire diagram for the uploaded
// snapshot. The payload is version-checked at this boundary; the store
// itself accepts whatever it is handed.
func (s *ProjectService) ReplaceProject(ctx context.Context, userID, projectID string, payload []byte) (*project.Snapshot, error) {
	snap, err := project.DecodeSnapshot(payload)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error()).WithCause(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	open, err := s.openProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	open.store.LoadProject(snap)
	if err := s.persist(ctx, userID, projectID, open); err != nil {
		return nil, err
	}
	return open.store.GetProject(), nil
}

// ClearProject empties the project's diagram.
func (s *ProjectService) ClearProject(ctx context.Context, userID, projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	open, err := s.openProject(ctx, userID, projectID)
	if err != nil {
		return err
	}
	open.store.ClearProject()
	if err := s.persist(ctx, userID, projectID, open); err != nil {
		return err
	}
	s.publish(ctx, events.NewProjectCleared(projectID, userID))
	return nil
}

// DeleteProject removes the project entirely.
func (s *ProjectService) DeleteProject(ctx context.Context, userID, projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, userID, projectID); err != nil {
		return err
	}
	delete(s.open, projectKey(userID, projectID))
	s.publish(ctx, events.NewProjectDeleted(projectID, userID))
	return nil
}

// AddNode creates a node and returns it.
func (s *ProjectService) AddNode(ctx context.Context, userID, projectID, nodeType string, position valueobjects.Position) (*entities.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	open, err := s.openProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	id := open.store.AddNode(nodeType, position)
	if err := s.persist(ctx, userID, projectID, open); err != nil {
		return nil, err
	}
	s.count(ctx, "NodeAdded")
	node, _ := open.store.Node(id)
	return node, nil
}

// UpdateNode merges the patch into the node's data.
func (s *ProjectService) UpdateNode(ctx context.Context, userID, projectID, nodeID string, patch entities.NodeDataPatch) (*entities.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	open, err := s.openProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	id, err := valueobjects.ParseNodeID(nodeID)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if !open.store.UpdateNode(id, patch) {
		return nil, apperrors.NewNotFoundError("node")
	}
	if err := s.persist(ctx, userID, projectID, open); err != nil {
		return nil, err
	}
	node, _ := open.store.Node(id)
	return node, nil
}

// MoveNode replaces the node's position.
func (s *ProjectService) MoveNode(ctx context.Context, userID, projectID, nodeID string, position valueobjects.Position) (*entities.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	open, err := s.openProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	id, err := valueobjects.ParseNodeID(nodeID)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if !open.store.UpdateNodePosition(id, position) {
		return nil, apperrors.NewNotFoundError("node")
	}
	if err := s.persist(ctx, userID, projectID, open); err != nil {
		return nil, err
	}
	node, _ := open.store.Node(id)
	return node, nil
}

// DeleteNode removes the node and every edge touching it.
func (s *ProjectService) DeleteNode(ctx context.Context, userID, projectID, nodeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	open, err := s.openProject(ctx, userID, projectID)
	if err != nil {
		return err
	}
	id, err := valueobjects.ParseNodeID(nodeID)
	if err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	if !open.store.DeleteNode(id) {
		return apperrors.NewNotFoundError("node")
	}
	if err := s.persist(ctx, userID, projectID, open); err != nil {
		return err
	}
	s.count(ctx, "NodeDeleted")
	return nil
}

// AddEdge connects two nodes; a pair already connected in either
// direction yields the existing edge.
func (s *ProjectService) AddEdge(ctx context.Context, userID, projectID, source, target string) (*entities.Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	open, err := s.openProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	sourceID, err := valueobjects.ParseNodeID(source)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	targetID, err := valueobjects.ParseNodeID(target)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	id := open.store.AddEdge(sourceID, targetID)
	if err := s.persist(ctx, userID, projectID, open); err != nil {
		return nil, err
	}
	s.count(ctx, "EdgeAdded")
	edge, _ := open.store.Edge(id)
	return edge, nil
}

// UpdateEdge merges the patch into the edge.
func (s *ProjectService) UpdateEdge(ctx context.Context, userID, projectID, edgeID string, patch entities.EdgePatch) (*entities.Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	open, err := s.openProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return nil, apperrors.NewValidationError("unknown edge type")
	}
	id, err := valueobjects.ParseEdgeID(edgeID)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if !open.store.UpdateEdge(id, patch) {
		return nil, apperrors.NewNotFoundError("edge")
	}
	if err := s.persist(ctx, userID, projectID, open); err != nil {
		return nil, err
	}
	edge, _ := open.store.Edge(id)
	return edge, nil
}

// DeleteEdge removes the edge.
func (s *ProjectService) DeleteEdge(ctx context.Context, userID, projectID, edgeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	open, err := s.openProject(ctx, userID, projectID)
	if err != nil {
		return err
	}
	id, err := valueobjects.ParseEdgeID(edgeID)
	if err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	if !open.store.DeleteEdge(id) {
		return apperrors.NewNotFoundError("edge")
	}
	if err := s.persist(ctx, userID, projectID, open); err != nil {
		return err
	}
	s.count(ctx, "EdgeDeleted")
	return nil
}

// ApplyOperations decodes and applies an edit-operation batch, then
// persists whatever state the batch produced.
func (s *ProjectService) ApplyOperations(ctx context.Context, userID, projectID string, payload []byte) ([]ops.Result, error) {
	batch, err := ops.DecodeBatch(payload)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	open, err := s.openProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	results := s.applier.Apply(open.store, batch)
	s.metrics.RecordDuration(ctx, "OperationBatchDuration", time.Since(started), nil)

	if err := s.persist(ctx, userID, projectID, open); err != nil {
		return nil, err
	}
	return results, nil
}

// DeployPlan maps the project's current diagram to a deployment plan and
// records it on the project.
func (s *ProjectService) DeployPlan(ctx context.Context, userID, projectID string) (*deploy.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	open, err := s.openProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	plan, err := deploy.BuildPlan(open.name, open.store.GetProject())
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveDeployment(ctx, userID, projectID, plan.Metadata()); err != nil {
		s.logger.Warn("Failed to record deployment plan",
			zap.String("projectID", projectID),
			zap.Error(err),
		)
	}
	s.publish(ctx, events.NewDeployPlanned(projectID, userID, len(plan.Services), len(plan.Databases)))
	return plan, nil
}

// DeployStatus returns the deployment metadata recorded by the last
// plan. Projects never saved yield a NotFound error; saved projects that
// were never planned yield nil metadata.
func (s *ProjectService) DeployStatus(ctx context.Context, userID, projectID string) (map[string]interface{}, error) {
	record, err := s.repo.Get(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	return record.Deployment, nil
}

// openProject returns the in-memory store for the project, loading it
// from the repository on first touch and starting empty for projects
// that were never saved. Callers must hold s.mu.
func (s *ProjectService) openProject(ctx context.Context, userID, projectID string) (*openProject, error) {
	key := projectKey(userID, projectID)
	if open, ok := s.open[key]; ok {
		return open, nil
	}

	open := &openProject{
		store: project.NewStore(catalog.DefaultNodeName),
		name:  defaultProjectName,
	}

	record, err := s.repo.Get(ctx, userID, projectID)
	switch {
	case err == nil:
		open.store.LoadProject(record.Snapshot)
		if record.Name != "" {
			open.name = record.Name
		}
	case apperrors.IsNotFound(err):
		// First touch of a new project.
	default:
		return nil, err
	}

	s.open[key] = open
	return open, nil
}

func (s *ProjectService) persist(ctx context.Context, userID, projectID string, open *openProject) error {
	snap := open.store.GetProject()
	record := &ports.ProjectRecord{
		ProjectID: projectID,
		UserID:    userID,
		Name:      open.name,
		Snapshot:  snap,
	}
	if err := s.repo.Save(ctx, record); err != nil {
		s.logger.Error("Failed to persist project",
			zap.String("projectID", projectID),
			zap.String("userID", userID),
			zap.Error(err),
		)
		return err
	}
	s.publish(ctx, events.NewProjectSaved(projectID, userID, len(snap.Nodes), len(snap.Edges)))
	return nil
}

func (s *ProjectService) publish(ctx context.Context, event events.DomainEvent) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("eventType", event.GetEventType()),
			zap.Error(err),
		)
	}
}

func (s *ProjectService) count(ctx context.Context, metric string) {
	s.metrics.IncrementCounter(ctx, metric, nil)
}

func projectKey(userID, projectID string) string {
	return userID + "/" + projectID
}
