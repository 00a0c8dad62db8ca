package valueobjects

import (
	"errors"
	"math"
)

// Position is a value object representing node coordinates on the canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPosition creates a position with validation.
func NewPosition(x, y float64) (Position, error) {
	if !isFiniteCoordinate(x) || !isFiniteCoordinate(y) {
		return Position{}, errors.New("invalid coordinates: must be finite numbers")
	}
	return Position{X: x, Y: y}, nil
}

// Equals checks if two positions are equal.
func (p Position) Equals(other Position) bool {
	const epsilon = 1e-9
	return math.Abs(p.X-other.X) < epsilon && math.Abs(p.Y-other.Y) < epsilon
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Position) IsFinite() bool {
	return isFiniteCoordinate(p.X) && isFiniteCoordinate(p.Y)
}

// DistanceTo calculates the Euclidean distance to another position.
func (p Position) DistanceTo(other Position) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func isFiniteCoordinate(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
