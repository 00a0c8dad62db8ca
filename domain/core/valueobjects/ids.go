package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// NodeID is a value object identifying a single node within a project.
// IDs are opaque strings; freshly minted ones are UUIDs, but loaded
// snapshots may carry ids generated elsewhere.
type NodeID struct {
	value string
}

// NewNodeID creates a new random NodeID.
func NewNodeID() NodeID {
	return NodeID{value: uuid.New().String()}
}

// ParseNodeID creates a NodeID from an existing string.
func ParseNodeID(id string) (NodeID, error) {
	if id == "" {
		return NodeID{}, errors.New("node ID cannot be empty")
	}
	return NodeID{value: id}, nil
}

// String returns the string representation.
func (id NodeID) String() string {
	return id.value
}

// Equals checks if two NodeIDs are equal.
func (id NodeID) Equals(other NodeID) bool {
	return id.value == other.value
}

// IsZero checks if the NodeID is the zero value.
func (id NodeID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler.
func (id NodeID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *NodeID) UnmarshalJSON(data []byte) error {
	return unmarshalIDString(data, &id.value, "NodeID")
}

// EdgeID is a value object identifying a single edge within a project.
type EdgeID struct {
	value string
}

// NewEdgeID creates a new random EdgeID.
func NewEdgeID() EdgeID {
	return EdgeID{value: uuid.New().String()}
}

// ParseEdgeID creates an EdgeID from an existing string.
func ParseEdgeID(id string) (EdgeID, error) {
	if id == "" {
		return EdgeID{}, errors.New("edge ID cannot be empty")
	}
	return EdgeID{value: id}, nil
}

// String returns the string representation.
func (id EdgeID) String() string {
	return id.value
}

// Equals checks if two EdgeIDs are equal.
func (id EdgeID) Equals(other EdgeID) bool {
	return id.value == other.value
}

// IsZero checks if the EdgeID is the zero value.
func (id EdgeID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler.
func (id EdgeID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *EdgeID) UnmarshalJSON(data []byte) error {
	return unmarshalIDString(data, &id.value, "EdgeID")
}

func unmarshalIDString(data []byte, dst *string, kind string) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New(kind + " must be a string")
	}
	*dst = string(data[1 : len(data)-1])
	return nil
}
