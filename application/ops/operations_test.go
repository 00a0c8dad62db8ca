package ops

import (
	"fmt"
	"testing"

	"buildflow-backend/domain/project"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDecodeBatch(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantLen int
		wantErr bool
	}{
		{
			name:    "valid batch",
			payload: `[{"op":"add_node","payload":{"type":"service","position":{"x":0,"y":0}}},{"op":"clear_project"}]`,
			wantLen: 2,
		},
		{
			name:    "empty batch",
			payload: `[]`,
			wantLen: 0,
		},
		{
			name:    "not an array",
			payload: `{"op":"add_node"}`,
			wantErr: true,
		},
		{
			name:    "unknown op",
			payload: `[{"op":"explode"}]`,
			wantErr: true,
		},
		{
			name:    "missing op",
			payload: `[{"payload":{}}]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, err := DecodeBatch([]byte(tt.payload))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, batch, tt.wantLen)
		})
	}
}

func TestApplier_Apply(t *testing.T) {
	applier := NewApplier(zap.NewNop())
	store := project.NewStore(nil)

	batch, err := DecodeBatch([]byte(`[
		{"op":"add_node","payload":{"type":"database","position":{"x":0,"y":0}}},
		{"op":"add_node","payload":{"type":"service","position":{"x":100,"y":0}}}
	]`))
	require.NoError(t, err)

	results := applier.Apply(store, batch)
	require.Len(t, results, 2)
	for _, result := range results {
		assert.True(t, result.Applied)
		assert.NotEmpty(t, result.EntityID)
	}
	dbID, svcID := results[0].EntityID, results[1].EntityID

	batch, err = DecodeBatch([]byte(fmt.Sprintf(`[
		{"op":"add_edge","payload":{"source":%q,"target":%q}},
		{"op":"update_node","payload":{"id":%q,"data":{"name":"Orders DB"}}},
		{"op":"update_node_position","payload":{"id":%q,"position":{"x":50,"y":50}}}
	]`, dbID, svcID, dbID, svcID)))
	require.NoError(t, err)

	results = applier.Apply(store, batch)
	require.Len(t, results, 3)
	for _, result := range results {
		assert.True(t, result.Applied, "op %s: %s", result.Op, result.Reason)
	}

	assert.Equal(t, 2, store.NodeCount())
	assert.Equal(t, 1, store.EdgeCount())
}

func TestApplier_SkipsFailuresAndContinues(t *testing.T) {
	applier := NewApplier(zap.NewNop())
	store := project.NewStore(nil)

	batch, err := DecodeBatch([]byte(`[
		{"op":"delete_node","payload":{"id":"no-such-node"}},
		{"op":"update_edge","payload":{"id":"e1","patch":{"type":"zigzag"}}},
		{"op":"add_node","payload":{"type":"service","position":{"x":0,"y":0}}},
		{"op":"update_node"}
	]`))
	require.NoError(t, err)

	results := applier.Apply(store, batch)
	require.Len(t, results, 4)

	assert.False(t, results[0].Applied)
	assert.Contains(t, results[0].Reason, "not found")

	assert.False(t, results[1].Applied)
	assert.Contains(t, results[1].Reason, "edge type")

	assert.True(t, results[2].Applied, "valid op after failures must still apply")

	assert.False(t, results[3].Applied)
	assert.Contains(t, results[3].Reason, "payload")

	assert.Equal(t, 1, store.NodeCount())
}

func TestApplier_ClearProject(t *testing.T) {
	applier := NewApplier(zap.NewNop())
	store := project.NewStore(nil)

	batch, err := DecodeBatch([]byte(`[
		{"op":"add_node","payload":{"type":"service","position":{"x":0,"y":0}}},
		{"op":"clear_project"}
	]`))
	require.NoError(t, err)

	results := applier.Apply(store, batch)
	require.Len(t, results, 2)
	assert.True(t, results[1].Applied)
	assert.Equal(t, 0, store.NodeCount())
}

func TestApplier_EdgeDedupThroughBatch(t *testing.T) {
	applier := NewApplier(zap.NewNop())
	store := project.NewStore(nil)

	setup, err := DecodeBatch([]byte(`[
		{"op":"add_node","payload":{"type":"service","position":{"x":0,"y":0}}},
		{"op":"add_node","payload":{"type":"database","position":{"x":100,"y":0}}}
	]`))
	require.NoError(t, err)
	results := applier.Apply(store, setup)
	a, b := results[0].EntityID, results[1].EntityID

	edges, err := DecodeBatch([]byte(fmt.Sprintf(`[
		{"op":"add_edge","payload":{"source":%q,"target":%q}},
		{"op":"add_edge","payload":{"source":%q,"target":%q}}
	]`, a, b, b, a)))
	require.NoError(t, err)

	results = applier.Apply(store, edges)
	assert.Equal(t, results[0].EntityID, results[1].EntityID,
		"reverse edge request reports the existing edge")
	assert.Equal(t, 1, store.EdgeCount())
}
