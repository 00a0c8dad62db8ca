package valueobjects

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNodeID_Unique(t *testing.T) {
	a := NewNodeID()
	b := NewNodeID()

	assert.False(t, a.IsZero())
	assert.False(t, a.Equals(b))
}

func TestParseNodeID(t *testing.T) {
	id, err := ParseNodeID("n-123")
	require.NoError(t, err)
	assert.Equal(t, "n-123", id.String())

	_, err = ParseNodeID("")
	assert.Error(t, err)
}

func TestParseEdgeID(t *testing.T) {
	id, err := ParseEdgeID("e-456")
	require.NoError(t, err)
	assert.Equal(t, "e-456", id.String())

	_, err = ParseEdgeID("")
	assert.Error(t, err)
}

func TestNodeID_JSONRoundTrip(t *testing.T) {
	id := NewNodeID()

	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"`+id.String()+`"`, string(data))

	var decoded NodeID
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, id.Equals(decoded))
}

func TestNodeID_UnmarshalRejectsNonString(t *testing.T) {
	var id NodeID
	assert.Error(t, json.Unmarshal([]byte(`42`), &id))

	require.NoError(t, json.Unmarshal([]byte(`null`), &id))
	assert.True(t, id.IsZero())
}
