package entities

import (
	"buildflow-backend/domain/core/valueobjects"
)

// EdgeType selects the visual routing style of a connection.
type EdgeType string

const (
	EdgeTypeSmoothstep EdgeType = "smoothstep"
	EdgeTypeStep       EdgeType = "step"
	EdgeTypeStraight   EdgeType = "straight"
	EdgeTypeBezier     EdgeType = "bezier"
)

// Valid reports whether the edge type is one of the known routing styles.
func (t EdgeType) Valid() bool {
	switch t {
	case EdgeTypeSmoothstep, EdgeTypeStep, EdgeTypeStraight, EdgeTypeBezier:
		return true
	}
	return false
}

// EdgeStyle holds display styling. Currently only a dash-pattern hint.
type EdgeStyle struct {
	StrokeDashArray string `json:"strokeDasharray,omitempty"`
}

// Edge is a directed connection record between two nodes. Endpoints are
// fixed at creation; type, label, animation and style are mutable.
type Edge struct {
	ID       valueobjects.EdgeID `json:"id"`
	Source   valueobjects.NodeID `json:"source"`
	Target   valueobjects.NodeID `json:"target"`
	Type     EdgeType            `json:"type,omitempty"`
	Label    string              `json:"label,omitempty"`
	Animated bool                `json:"animated,omitempty"`
	Style    *EdgeStyle          `json:"style,omitempty"`
}

// EdgePatch is a partial update of an edge's mutable fields.
type EdgePatch struct {
	Type     *EdgeType  `json:"type,omitempty"`
	Label    *string    `json:"label,omitempty"`
	Animated *bool      `json:"animated,omitempty"`
	Style    *EdgeStyle `json:"style,omitempty"`
}

// NewEdge creates an edge between the given endpoints with the default
// routing style.
func NewEdge(source, target valueobjects.NodeID) *Edge {
	return &Edge{
		ID:     valueobjects.NewEdgeID(),
		Source: source,
		Target: target,
		Type:   EdgeTypeSmoothstep,
	}
}

// Apply shallow-merges the patch: provided fields overwrite, omitted
// fields are preserved.
func (e *Edge) Apply(patch EdgePatch) {
	if patch.Type != nil {
		e.Type = *patch.Type
	}
	if patch.Label != nil {
		e.Label = *patch.Label
	}
	if patch.Animated != nil {
		e.Animated = *patch.Animated
	}
	if patch.Style != nil {
		style := *patch.Style
		e.Style = &style
	}
}

// Connects reports whether the edge joins the given pair of nodes in
// either direction.
func (e *Edge) Connects(a, b valueobjects.NodeID) bool {
	return (e.Source.Equals(a) && e.Target.Equals(b)) ||
		(e.Source.Equals(b) && e.Target.Equals(a))
}

// Touches reports whether the edge has the given node as an endpoint.
func (e *Edge) Touches(id valueobjects.NodeID) bool {
	return e.Source.Equals(id) || e.Target.Equals(id)
}

// Clone returns a copy of the edge.
func (e *Edge) Clone() *Edge {
	clone := *e
	if e.Style != nil {
		style := *e.Style
		clone.Style = &style
	}
	return &clone
}
