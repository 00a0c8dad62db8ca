// Package ops implements the diagram edit-operation batch: the JSON
// contract the chat assistant emits to mutate a project. Each operation
// names an op and carries a payload; a batch is applied sequentially
// against one store, and individual failures skip the operation rather
// than abort the batch, mirroring the store's no-op error model.
package ops

import (
	"encoding/json"
	"fmt"

	"buildflow-backend/domain/core/entities"
	"buildflow-backend/domain/core/valueobjects"
	"buildflow-backend/domain/project"
	apperrors "buildflow-backend/pkg/errors"
	"buildflow-backend/pkg/utils"

	"go.uber.org/zap"
)

// OpType names one kind of diagram edit.
type OpType string

const (
	OpAddNode            OpType = "add_node"
	OpUpdateNode         OpType = "update_node"
	OpUpdateNodePosition OpType = "update_node_position"
	OpDeleteNode         OpType = "delete_node"
	OpAddEdge            OpType = "add_edge"
	OpUpdateEdge         OpType = "update_edge"
	OpDeleteEdge         OpType = "delete_edge"
	OpClearProject       OpType = "clear_project"
)

// Operation is one entry of an edit batch.
type Operation struct {
	Op      OpType          `json:"op" validate:"required,oneof=add_node update_node update_node_position delete_node add_edge update_edge delete_edge clear_project"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Result reports the outcome of applying one operation.
type Result struct {
	Index   int    `json:"index"`
	Op      OpType `json:"op"`
	Applied bool   `json:"applied"`
	// EntityID is the id of the node or edge created or targeted, when
	// known.
	EntityID string `json:"entityId,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Payload shapes.

type addNodePayload struct {
	Type     string                `json:"type" validate:"required,max=64"`
	Position valueobjects.Position `json:"position"`
}

type updateNodePayload struct {
	ID   string                 `json:"id" validate:"required"`
	Data entities.NodeDataPatch `json:"data"`
}

type moveNodePayload struct {
	ID       string                `json:"id" validate:"required"`
	Position valueobjects.Position `json:"position"`
}

type deleteNodePayload struct {
	ID string `json:"id" validate:"required"`
}

type addEdgePayload struct {
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
}

type updateEdgePayload struct {
	ID    string             `json:"id" validate:"required"`
	Patch entities.EdgePatch `json:"patch"`
}

type deleteEdgePayload struct {
	ID string `json:"id" validate:"required"`
}

// DecodeBatch parses a JSON array of operations and validates each
// entry's shape. Payload contents are validated at apply time.
func DecodeBatch(data []byte) ([]Operation, error) {
	var batch []Operation
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, apperrors.NewValidationError("operations payload must be a JSON array").WithCause(err)
	}
	for i, op := range batch {
		if err := utils.ValidateStruct(op); err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("operation %d: %v", i, err))
		}
	}
	return batch, nil
}

// applyFunc executes one operation against a store. It returns the id
// of the entity created or targeted, or an error describing why the
// operation was skipped.
type applyFunc func(store *project.Store, payload json.RawMessage) (string, error)

// Applier executes operation batches. Dispatch is a table keyed by op
// name; unknown ops are rejected at decode time by the oneof contract.
type Applier struct {
	logger *zap.Logger
	table  map[OpType]applyFunc
}

// NewApplier creates an applier.
func NewApplier(logger *zap.Logger) *Applier {
	a := &Applier{logger: logger}
	a.table = map[OpType]applyFunc{
		OpAddNode:            applyAddNode,
		OpUpdateNode:         applyUpdateNode,
		OpUpdateNodePosition: applyMoveNode,
		OpDeleteNode:         applyDeleteNode,
		OpAddEdge:            applyAddEdge,
		OpUpdateEdge:         applyUpdateEdge,
		OpDeleteEdge:         applyDeleteEdge,
		OpClearProject:       applyClear,
	}
	return a
}

// Apply executes the batch in order. A failed operation produces a
// skipped result and the batch continues.
func (a *Applier) Apply(store *project.Store, batch []Operation) []Result {
	results := make([]Result, 0, len(batch))
	for i, op := range batch {
		result := Result{Index: i, Op: op.Op}

		apply, ok := a.table[op.Op]
		if !ok {
			result.Reason = "unknown operation"
			results = append(results, result)
			continue
		}

		entityID, err := apply(store, op.Payload)
		result.EntityID = entityID
		if err != nil {
			result.Reason = err.Error()
			a.logger.Warn("Skipped diagram operation",
				zap.Int("index", i),
				zap.String("op", string(op.Op)),
				zap.Error(err),
			)
		} else {
			result.Applied = true
		}
		results = append(results, result)
	}
	return results
}

func decodePayload(payload json.RawMessage, v interface{}) error {
	if len(payload) == 0 {
		return apperrors.NewValidationError("missing payload")
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return apperrors.NewValidationError("invalid payload").WithCause(err)
	}
	return utils.ValidateStruct(v)
}

func applyAddNode(store *project.Store, payload json.RawMessage) (string, error) {
	var p addNodePayload
	if err := decodePayload(payload, &p); err != nil {
		return "", err
	}
	if !p.Position.IsFinite() {
		return "", apperrors.NewValidationError("position coordinates must be finite")
	}
	id := store.AddNode(p.Type, p.Position)
	return id.String(), nil
}

func applyUpdateNode(store *project.Store, payload json.RawMessage) (string, error) {
	var p updateNodePayload
	if err := decodePayload(payload, &p); err != nil {
		return "", err
	}
	id, err := valueobjects.ParseNodeID(p.ID)
	if err != nil {
		return "", apperrors.NewValidationError(err.Error())
	}
	if !store.UpdateNode(id, p.Data) {
		return p.ID, apperrors.NewNotFoundError("node")
	}
	return p.ID, nil
}

func applyMoveNode(store *project.Store, payload json.RawMessage) (string, error) {
	var p moveNodePayload
	if err := decodePayload(payload, &p); err != nil {
		return "", err
	}
	if !p.Position.IsFinite() {
		return "", apperrors.NewValidationError("position coordinates must be finite")
	}
	id, err := valueobjects.ParseNodeID(p.ID)
	if err != nil {
		return "", apperrors.NewValidationError(err.Error())
	}
	if !store.UpdateNodePosition(id, p.Position) {
		return p.ID, apperrors.NewNotFoundError("node")
	}
	return p.ID, nil
}

func applyDeleteNode(store *project.Store, payload json.RawMessage) (string, error) {
	var p deleteNodePayload
	if err := decodePayload(payload, &p); err != nil {
		return "", err
	}
	id, err := valueobjects.ParseNodeID(p.ID)
	if err != nil {
		return "", apperrors.NewValidationError(err.Error())
	}
	if !store.DeleteNode(id) {
		return p.ID, apperrors.NewNotFoundError("node")
	}
	return p.ID, nil
}

func applyAddEdge(store *project.Store, payload json.RawMessage) (string, error) {
	var p addEdgePayload
	if err := decodePayload(payload, &p); err != nil {
		return "", err
	}
	source, err := valueobjects.ParseNodeID(p.Source)
	if err != nil {
		return "", apperrors.NewValidationError(err.Error())
	}
	target, err := valueobjects.ParseNodeID(p.Target)
	if err != nil {
		return "", apperrors.NewValidationError(err.Error())
	}
	id := store.AddEdge(source, target)
	return id.String(), nil
}

func applyUpdateEdge(store *project.Store, payload json.RawMessage) (string, error) {
	var p updateEdgePayload
	if err := decodePayload(payload, &p); err != nil {
		return "", err
	}
	if p.Patch.Type != nil && !p.Patch.Type.Valid() {
		return "", apperrors.NewValidationError("unknown edge type")
	}
	id, err := valueobjects.ParseEdgeID(p.ID)
	if err != nil {
		return "", apperrors.NewValidationError(err.Error())
	}
	if !store.UpdateEdge(id, p.Patch) {
		return p.ID, apperrors.NewNotFoundError("edge")
	}
	return p.ID, nil
}

func applyDeleteEdge(store *project.Store, payload json.RawMessage) (string, error) {
	var p deleteEdgePayload
	if err := decodePayload(payload, &p); err != nil {
		return "", err
	}
	id, err := valueobjects.ParseEdgeID(p.ID)
	if err != nil {
		return "", apperrors.NewValidationError(err.Error())
	}
	if !store.DeleteEdge(id) {
		return p.ID, apperrors.NewNotFoundError("edge")
	}
	return p.ID, nil
}

func applyClear(store *project.Store, _ json.RawMessage) (string, error) {
	store.ClearProject()
	return "", nil
}
