package entities

import (
	"testing"

	"buildflow-backend/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNewNode_Defaults(t *testing.T) {
	p, err := valueobjects.NewPosition(10, 20)
	require.NoError(t, err)

	node := NewNode("database", p, "Database")

	assert.False(t, node.ID.IsZero())
	assert.Equal(t, "database", node.Type)
	assert.Equal(t, "Database", node.Data.Name)
	assert.Empty(t, node.Data.Description)
	assert.NotNil(t, node.Data.Attributes)
	assert.Empty(t, node.Data.Attributes)
}

func TestNode_ApplyData(t *testing.T) {
	p, _ := valueobjects.NewPosition(0, 0)

	tests := []struct {
		name  string
		patch NodeDataPatch
		check func(t *testing.T, node *Node)
	}{
		{
			name:  "name only",
			patch: NodeDataPatch{Name: strPtr("Orders DB")},
			check: func(t *testing.T, node *Node) {
				assert.Equal(t, "Orders DB", node.Data.Name)
				assert.Equal(t, "initial", node.Data.Description)
				assert.Equal(t, map[string]interface{}{"engine": "postgres"}, node.Data.Attributes)
			},
		},
		{
			name:  "description only",
			patch: NodeDataPatch{Description: strPtr("primary store")},
			check: func(t *testing.T, node *Node) {
				assert.Equal(t, "Database", node.Data.Name)
				assert.Equal(t, "primary store", node.Data.Description)
				assert.Equal(t, map[string]interface{}{"engine": "postgres"}, node.Data.Attributes)
			},
		},
		{
			name:  "attributes replaced wholesale",
			patch: NodeDataPatch{Attributes: map[string]interface{}{"replicas": 2}},
			check: func(t *testing.T, node *Node) {
				assert.Equal(t, "Database", node.Data.Name)
				assert.Equal(t, map[string]interface{}{"replicas": 2}, node.Data.Attributes)
			},
		},
		{
			name:  "empty patch changes nothing",
			patch: NodeDataPatch{},
			check: func(t *testing.T, node *Node) {
				assert.Equal(t, "Database", node.Data.Name)
				assert.Equal(t, "initial", node.Data.Description)
				assert.Equal(t, map[string]interface{}{"engine": "postgres"}, node.Data.Attributes)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := NewNode("database", p, "Database")
			node.Data.Description = "initial"
			node.Data.Attributes = map[string]interface{}{"engine": "postgres"}

			node.ApplyData(tt.patch)
			tt.check(t, node)
		})
	}
}

func TestNodeDataPatch_IsEmpty(t *testing.T) {
	assert.True(t, NodeDataPatch{}.IsEmpty())
	assert.False(t, NodeDataPatch{Name: strPtr("x")}.IsEmpty())
	assert.False(t, NodeDataPatch{Attributes: map[string]interface{}{}}.IsEmpty())
}

func TestNode_Clone_IsDeep(t *testing.T) {
	p, _ := valueobjects.NewPosition(0, 0)
	node := NewNode("service", p, "Service")
	node.Data.Attributes["lang"] = "go"

	clone := node.Clone()
	clone.Data.Name = "changed"
	clone.Data.Attributes["lang"] = "rust"

	assert.Equal(t, "Service", node.Data.Name)
	assert.Equal(t, "go", node.Data.Attributes["lang"])
}

func TestEdge_ApplyAndConnects(t *testing.T) {
	a := valueobjects.NewNodeID()
	b := valueobjects.NewNodeID()
	c := valueobjects.NewNodeID()

	edge := NewEdge(a, b)
	assert.Equal(t, EdgeTypeSmoothstep, edge.Type)

	assert.True(t, edge.Connects(a, b))
	assert.True(t, edge.Connects(b, a))
	assert.False(t, edge.Connects(a, c))
	assert.True(t, edge.Touches(a))
	assert.True(t, edge.Touches(b))
	assert.False(t, edge.Touches(c))

	animated := true
	edgeType := EdgeTypeBezier
	edge.Apply(EdgePatch{
		Type:     &edgeType,
		Label:    strPtr("calls"),
		Animated: &animated,
		Style:    &EdgeStyle{StrokeDashArray: "5 5"},
	})

	assert.Equal(t, EdgeTypeBezier, edge.Type)
	assert.Equal(t, "calls", edge.Label)
	assert.True(t, edge.Animated)
	require.NotNil(t, edge.Style)
	assert.Equal(t, "5 5", edge.Style.StrokeDashArray)

	// Endpoints are immutable through patches.
	assert.True(t, edge.Source.Equals(a))
	assert.True(t, edge.Target.Equals(b))
}

func TestEdgeType_Valid(t *testing.T) {
	for _, valid := range []EdgeType{EdgeTypeSmoothstep, EdgeTypeStep, EdgeTypeStraight, EdgeTypeBezier} {
		assert.True(t, valid.Valid(), string(valid))
	}
	assert.False(t, EdgeType("zigzag").Valid())
	assert.False(t, EdgeType("").Valid())
}
