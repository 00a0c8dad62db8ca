package entities

import (
	"buildflow-backend/domain/core/valueobjects"
)

// NodeData carries the user-editable content of a node.
type NodeData struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Attributes  map[string]interface{} `json:"attributes"`
}

// NodeDataPatch is a partial update of NodeData. Nil fields are left
// untouched; a non-nil Attributes replaces the attribute map wholesale.
type NodeDataPatch struct {
	Name        *string                `json:"name,omitempty"`
	Description *string                `json:"description,omitempty"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p NodeDataPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Attributes == nil
}

// Node is a visual unit in the project diagram: a typed component placed
// on the canvas. ID and Type are set at creation and never change.
type Node struct {
	ID       valueobjects.NodeID   `json:"id"`
	Type     string                `json:"type"`
	Position valueobjects.Position `json:"position"`
	Data     NodeData              `json:"data"`
}

// NewNode creates a node of the given type at the given position. The
// display name comes from the caller's naming policy.
func NewNode(nodeType string, position valueobjects.Position, name string) *Node {
	return &Node{
		ID:       valueobjects.NewNodeID(),
		Type:     nodeType,
		Position: position,
		Data: NodeData{
			Name:        name,
			Description: "",
			Attributes:  map[string]interface{}{},
		},
	}
}

// ApplyData shallow-merges the patch into the node's data: provided
// fields overwrite, omitted fields are preserved.
func (n *Node) ApplyData(patch NodeDataPatch) {
	if patch.Name != nil {
		n.Data.Name = *patch.Name
	}
	if patch.Description != nil {
		n.Data.Description = *patch.Description
	}
	if patch.Attributes != nil {
		attrs := make(map[string]interface{}, len(patch.Attributes))
		for k, v := range patch.Attributes {
			attrs[k] = v
		}
		n.Data.Attributes = attrs
	}
}

// MoveTo replaces the node's position wholesale.
func (n *Node) MoveTo(position valueobjects.Position) {
	n.Position = position
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	attrs := make(map[string]interface{}, len(n.Data.Attributes))
	for k, v := range n.Data.Attributes {
		attrs[k] = v
	}
	clone := *n
	clone.Data.Attributes = attrs
	return &clone
}
