// Package project holds the in-memory representation of one open
// project's diagram: nodes, edges, selection state, and the snapshot
// serialization contract used by the persistence layer.
package project

import (
	"buildflow-backend/domain/core/entities"
	"buildflow-backend/domain/core/valueobjects"
	"buildflow-backend/pkg/utils"
)

// NamingPolicy supplies the initial display name for a new node of a
// given type. Injected so the store stays independent of the component
// catalog.
type NamingPolicy func(nodeType string) string

// Store owns the canonical in-memory node/edge graph for one open
// project. Every operation is a synchronous, atomic state transition;
// the store does no locking and expects a single-writer caller.
//
// No operation returns an error. Mutations against missing ids and
// duplicate edge requests degrade to no-ops, reported through the
// boolean return where a caller may care.
type Store struct {
	nodes []*entities.Node
	edges []*entities.Edge

	selectedNode valueobjects.NodeID
	selectedEdge valueobjects.EdgeID

	nameFor NamingPolicy
}

// NewStore creates an empty store. A nil naming policy falls back to
// using the node type verbatim as the initial name.
func NewStore(naming NamingPolicy) *Store {
	if naming == nil {
		naming = func(nodeType string) string { return nodeType }
	}
	return &Store{nameFor: naming}
}

// AddNode creates a node with a fresh id, the given type and position,
// and default data, and returns the new node's id.
func (s *Store) AddNode(nodeType string, position valueobjects.Position) valueobjects.NodeID {
	node := entities.NewNode(nodeType, position, s.nameFor(nodeType))
	s.nodes = append(s.nodes, node)
	return node.ID
}

// UpdateNode shallow-merges the patch into the target node's data.
// Returns false without touching anything when the id does not exist.
func (s *Store) UpdateNode(id valueobjects.NodeID, patch entities.NodeDataPatch) bool {
	node := s.findNode(id)
	if node == nil {
		return false
	}
	node.ApplyData(patch)
	return true
}

// UpdateNodePosition replaces the node's position wholesale. Returns
// false when the id does not exist.
func (s *Store) UpdateNodePosition(id valueobjects.NodeID, position valueobjects.Position) bool {
	node := s.findNode(id)
	if node == nil {
		return false
	}
	node.MoveTo(position)
	return true
}

// DeleteNode removes the node and cascades to every edge touching it.
// Node selection is cleared if the deleted node was selected; edge
// selection is cleared if the deleted node was an endpoint of the
// selected edge (checked before the cascade removes it).
func (s *Store) DeleteNode(id valueobjects.NodeID) bool {
	if s.findNode(id) == nil {
		return false
	}

	if !s.selectedEdge.IsZero() {
		if selected := s.findEdge(s.selectedEdge); selected != nil && selected.Touches(id) {
			s.selectedEdge = valueobjects.EdgeID{}
		}
	}
	if s.selectedNode.Equals(id) {
		s.selectedNode = valueobjects.NodeID{}
	}

	kept := s.edges[:0]
	for _, edge := range s.edges {
		if !edge.Touches(id) {
			kept = append(kept, edge)
		}
	}
	s.edges = kept

	for i, node := range s.nodes {
		if node.ID.Equals(id) {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			break
		}
	}
	return true
}

// AddEdge connects source and target with the default routing style and
// returns the new edge's id. If an edge already joins the pair in either
// direction the existing edge is left unchanged and its id is returned.
func (s *Store) AddEdge(source, target valueobjects.NodeID) valueobjects.EdgeID {
	for _, edge := range s.edges {
		if edge.Connects(source, target) {
			return edge.ID
		}
	}
	edge := entities.NewEdge(source, target)
	s.edges = append(s.edges, edge)
	return edge.ID
}

// UpdateEdge shallow-merges the patch into the edge. Returns false when
// the id does not exist.
func (s *Store) UpdateEdge(id valueobjects.EdgeID, patch entities.EdgePatch) bool {
	edge := s.findEdge(id)
	if edge == nil {
		return false
	}
	edge.Apply(patch)
	return true
}

// DeleteEdge removes the edge, clearing edge selection if it was
// selected. Returns false when the id does not exist.
func (s *Store) DeleteEdge(id valueobjects.EdgeID) bool {
	for i, edge := range s.edges {
		if edge.ID.Equals(id) {
			if s.selectedEdge.Equals(id) {
				s.selectedEdge = valueobjects.EdgeID{}
			}
			s.edges = append(s.edges[:i], s.edges[i+1:]...)
			return true
		}
	}
	return false
}

// SetSelectedNodeID sets the selected node slot. The zero NodeID clears
// the selection.
func (s *Store) SetSelectedNodeID(id valueobjects.NodeID) {
	s.selectedNode = id
}

// SelectedNodeID returns the selected node id, zero when nothing is
// selected.
func (s *Store) SelectedNodeID() valueobjects.NodeID {
	return s.selectedNode
}

// SetSelectedEdgeID sets the selected edge slot. The zero EdgeID clears
// the selection.
func (s *Store) SetSelectedEdgeID(id valueobjects.EdgeID) {
	s.selectedEdge = id
}

// SelectedEdgeID returns the selected edge id, zero when nothing is
// selected.
func (s *Store) SelectedEdgeID() valueobjects.EdgeID {
	return s.selectedEdge
}

// LoadProject replaces both collections with the snapshot's contents and
// clears both selections unconditionally. Missing collections default to
// empty. The snapshot version is not checked here; that is the decode
// boundary's job (DecodeSnapshot).
func (s *Store) LoadProject(snap *Snapshot) {
	s.nodes = nil
	s.edges = nil
	s.selectedNode = valueobjects.NodeID{}
	s.selectedEdge = valueobjects.EdgeID{}
	if snap == nil {
		return
	}
	for _, node := range snap.Nodes {
		if node != nil {
			s.nodes = append(s.nodes, node.Clone())
		}
	}
	for _, edge := range snap.Edges {
		if edge != nil {
			s.edges = append(s.edges, edge.Clone())
		}
	}
}

// GetProject materializes a snapshot of the current state: a deep copy
// stamped with the format version and the current time, not a live view.
func (s *Store) GetProject() *Snapshot {
	nodes := make([]*entities.Node, 0, len(s.nodes))
	for _, node := range s.nodes {
		nodes = append(nodes, node.Clone())
	}
	edges := make([]*entities.Edge, 0, len(s.edges))
	for _, edge := range s.edges {
		edges = append(edges, edge.Clone())
	}
	return &Snapshot{
		Version:   SnapshotVersion,
		Nodes:     nodes,
		Edges:     edges,
		UpdatedAt: utils.NowRFC3339(),
	}
}

// ClearProject empties both collections and clears both selections.
func (s *Store) ClearProject() {
	s.nodes = nil
	s.edges = nil
	s.selectedNode = valueobjects.NodeID{}
	s.selectedEdge = valueobjects.EdgeID{}
}

// Node returns a copy of the node with the given id.
func (s *Store) Node(id valueobjects.NodeID) (*entities.Node, bool) {
	node := s.findNode(id)
	if node == nil {
		return nil, false
	}
	return node.Clone(), true
}

// Edge returns a copy of the edge with the given id.
func (s *Store) Edge(id valueobjects.EdgeID) (*entities.Edge, bool) {
	edge := s.findEdge(id)
	if edge == nil {
		return nil, false
	}
	return edge.Clone(), true
}

// NodeCount returns the number of nodes in the store.
func (s *Store) NodeCount() int {
	return len(s.nodes)
}

// EdgeCount returns the number of edges in the store.
func (s *Store) EdgeCount() int {
	return len(s.edges)
}

func (s *Store) findNode(id valueobjects.NodeID) *entities.Node {
	for _, node := range s.nodes {
		if node.ID.Equals(id) {
			return node
		}
	}
	return nil
}

func (s *Store) findEdge(id valueobjects.EdgeID) *entities.Edge {
	for _, edge := range s.edges {
		if edge.ID.Equals(id) {
			return edge
		}
	}
	return nil
}
