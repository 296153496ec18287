package geometry

import (
	"math"
	"testing"
)

func TestRotate(t *testing.T) {
	v := Vector2D{X: 1, Y: 0}
	got := v.Rotate(math.Pi / 2)
	if math.Abs(got.X) > 1e-9 || math.Abs(got.Y-1) > 1e-9 {
		t.Errorf("Rotate(pi/2) = %+v, want (0,1)", got)
	}
}

func TestNormalize(t *testing.T) {
	v := Vector2D{X: 3, Y: 4}
	got := v.Normalize(10)
	if math.Abs(got.Length()-10) > 1e-9 {
		t.Errorf("Normalize(10) length = %v, want 10", got.Length())
	}
}

func TestNormalizeZero(t *testing.T) {
	v := Vector2D{}
	got := v.Normalize(5)
	if got != (Vector2D{}) {
		t.Errorf("Normalize of zero vector = %+v, want zero", got)
	}
}

func TestDistanceTo(t *testing.T) {
	a := Vector2D{X: 0, Y: 0}
	b := Vector2D{X: 3, Y: 4}
	if d := a.DistanceTo(b); math.Abs(d-5) > 1e-9 {
		t.Errorf("DistanceTo = %v, want 5", d)
	}
}
