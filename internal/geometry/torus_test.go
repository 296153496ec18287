package geometry

import (
	"math"
	"testing"
)

func TestWrapBasic(t *testing.T) {
	torus := Torus{W: 100, H: 100}
	got := torus.Wrap(Vector2D{X: -0.5, Y: 100.5})
	want := Vector2D{X: 99.5, Y: 0.5}
	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
		t.Errorf("Wrap = %+v, want %+v", got, want)
	}
}

func TestWrapUnwrapRoundTrip(t *testing.T) {
	torus := Torus{W: 100, H: 100}
	cases := []Vector2D{
		{X: 50, Y: 50},
		{X: -10, Y: 5},
		{X: 250, Y: -300},
		{X: 0, Y: 0},
	}
	for _, v := range cases {
		got := torus.Unwrap(torus.Wrap(v), v)
		if math.Abs(got.X-v.X) > 1e-9 || math.Abs(got.Y-v.Y) > 1e-9 {
			t.Errorf("Unwrap(Wrap(%+v), %+v) = %+v, want %+v", v, v, got, v)
		}
	}
}

func TestUnwrapPicksClosestRepresentative(t *testing.T) {
	torus := Torus{W: 100, H: 100}
	// 99.5 and 0.5 are 1 apart across the seam, 99 apart the other way.
	got := torus.Unwrap(Vector2D{X: 0.5, Y: 50}, Vector2D{X: 99.5, Y: 50})
	if got.X != 100.5 {
		t.Errorf("Unwrap seam case = %+v, want x=100.5", got)
	}
}

func TestDistanceAcrossSeamIsShort(t *testing.T) {
	torus := Torus{W: 100, H: 100}
	d := torus.Distance(Vector2D{X: 99.5, Y: 50}, Vector2D{X: 0.5, Y: 50})
	if math.Abs(d-1) > 1e-9 {
		t.Errorf("Distance across seam = %v, want 1", d)
	}
}

func TestDistanceUpperBound(t *testing.T) {
	torus := Torus{W: 100, H: 100}
	maxPossible := math.Sqrt(50*50 + 50*50)
	for x := 0.0; x < 100; x += 13 {
		for y := 0.0; y < 100; y += 17 {
			d := torus.Distance(Vector2D{X: 10, Y: 10}, Vector2D{X: x, Y: y})
			if d > maxPossible+1e-9 {
				t.Errorf("Distance(%v,%v) = %v, exceeds bound %v", x, y, d, maxPossible)
			}
		}
	}
}
