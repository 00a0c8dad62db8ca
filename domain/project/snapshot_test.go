package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSnapshot(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr error
	}{
		{
			name:    "current version",
			payload: `{"version":1,"nodes":[],"edges":[],"updatedAt":"2025-01-01T00:00:00Z"}`,
		},
		{
			name:    "missing collections default to empty",
			payload: `{"version":1}`,
		},
		{
			name:    "future version rejected",
			payload: `{"version":2,"nodes":[],"edges":[]}`,
			wantErr: ErrVersionMismatch,
		},
		{
			name:    "missing version rejected",
			payload: `{"nodes":[],"edges":[]}`,
			wantErr: ErrVersionMismatch,
		},
		{
			name:    "not json",
			payload: `{"version":`,
			wantErr: ErrMalformedSnapshot,
		},
		{
			name:    "wrong shape",
			payload: `{"version":"one"}`,
			wantErr: ErrMalformedSnapshot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := DecodeSnapshot([]byte(tt.payload))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, snap)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, SnapshotVersion, snap.Version)
		})
	}
}

func TestSnapshot_EncodeDecodeRoundTrip(t *testing.T) {
	store := NewStore(nil)
	a := store.AddNode("service", pos(t, 1, 2))
	b := store.AddNode("database", pos(t, 3, 4))
	store.AddEdge(a, b)

	snap := store.GetProject()
	data, err := snap.Encode()
	require.NoError(t, err)

	decoded, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, snap.Nodes, decoded.Nodes)
	assert.Equal(t, snap.Edges, decoded.Edges)
	assert.Equal(t, snap.UpdatedAt, decoded.UpdatedAt)
}
