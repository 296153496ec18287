// Package geometry implements the flat 2D vector algebra the simulation
// runs on: addition, rotation, normalization and distance. It knows nothing
// about the torus topology of the playing field — that lives in Torus.
package geometry

import "math"

// Vector2D is a point or displacement in the plane. Values are copied, not
// shared; no Vector2D method mutates its receiver.
type Vector2D struct {
	X, Y float64
}

// Add returns v+other.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{v.X + other.X, v.Y + other.Y}
}

// Sub returns v-other.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{v.X - other.X, v.Y - other.Y}
}

// Scale returns v scaled by a scalar factor.
func (v Vector2D) Scale(factor float64) Vector2D {
	return Vector2D{v.X * factor, v.Y * factor}
}

// Length returns the Euclidean norm of v.
func (v Vector2D) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Rotate returns v rotated counter-clockwise by the given angle in radians.
func (v Vector2D) Rotate(radians float64) Vector2D {
	sin, cos := math.Sincos(radians)
	return Vector2D{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Normalize returns v scaled to have the given length, preserving direction.
// The zero vector normalizes to itself regardless of the requested length,
// since it has no direction to preserve.
func (v Vector2D) Normalize(length float64) Vector2D {
	l := v.Length()
	if l == 0 {
		return Vector2D{}
	}
	return v.Scale(length / l)
}

// DistanceTo returns the plain (non-wrapped) Euclidean distance to other.
func (v Vector2D) DistanceTo(other Vector2D) float64 {
	return v.Sub(other).Length()
}
