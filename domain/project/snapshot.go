package project

import (
	"encoding/json"
	"errors"
	"fmt"

	"buildflow-backend/domain/core/entities"
)

// SnapshotVersion is the current serialization format version. Bump it
// when the snapshot shape changes incompatibly.
const SnapshotVersion = 1

var (
	// ErrMalformedSnapshot indicates the payload is not a structurally
	// valid snapshot.
	ErrMalformedSnapshot = errors.New("malformed project snapshot")

	// ErrVersionMismatch indicates the payload declares a format version
	// this build does not understand.
	ErrVersionMismatch = errors.New("snapshot format version mismatch")
)

// Snapshot is a serializable, point-in-time copy of a project's diagram.
// Node and edge ordering is preserved across save/load cycles. UpdatedAt
// records when the snapshot was materialized, not when individual
// entities were last edited.
type Snapshot struct {
	Version   int               `json:"version"`
	Nodes     []*entities.Node  `json:"nodes"`
	Edges     []*entities.Edge  `json:"edges"`
	UpdatedAt string            `json:"updatedAt"`
}

// Encode serializes the snapshot to JSON.
func (s *Snapshot) Encode() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses and validates a snapshot payload. The store
// itself accepts whatever it is handed (see Store.LoadProject); callers
// that receive snapshots from the outside world decide compatibility
// here: ErrMalformedSnapshot for unparseable payloads,
// ErrVersionMismatch for a foreign format version.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, snap.Version, SnapshotVersion)
	}
	return &snap, nil
}
