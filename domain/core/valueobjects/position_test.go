package valueobjects

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPosition(t *testing.T) {
	tests := []struct {
		name    string
		x, y    float64
		wantErr bool
	}{
		{name: "origin", x: 0, y: 0},
		{name: "negative coordinates", x: -250.5, y: -10},
		{name: "large coordinates", x: 1e9, y: -1e9},
		{name: "NaN x", x: math.NaN(), y: 0, wantErr: true},
		{name: "NaN y", x: 0, y: math.NaN(), wantErr: true},
		{name: "positive infinity", x: math.Inf(1), y: 0, wantErr: true},
		{name: "negative infinity", x: 0, y: math.Inf(-1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPosition(tt.x, tt.y)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.x, p.X)
			assert.Equal(t, tt.y, p.Y)
			assert.True(t, p.IsFinite())
		})
	}
}

func TestPosition_Equals(t *testing.T) {
	a, err := NewPosition(1.0, 2.0)
	require.NoError(t, err)
	b, err := NewPosition(1.0+1e-12, 2.0)
	require.NoError(t, err)
	c, err := NewPosition(1.1, 2.0)
	require.NoError(t, err)

	assert.True(t, a.Equals(b), "positions within epsilon are equal")
	assert.False(t, a.Equals(c))
}

func TestPosition_DistanceTo(t *testing.T) {
	a, _ := NewPosition(0, 0)
	b, _ := NewPosition(3, 4)

	assert.InDelta(t, 5.0, a.DistanceTo(b), 1e-9)
	assert.InDelta(t, 5.0, b.DistanceTo(a), 1e-9)
	assert.Zero(t, a.DistanceTo(a))
}
