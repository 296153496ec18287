package geometry

// Torus describes a wrapped rectangular field of size W x H. All positions
// on the field are representatives of an equivalence class under addition
// of multiples of W (in x) or H (in y); Wrap and Unwrap pick the canonical
// representative for two different purposes.
type Torus struct {
	W, H float64
}

// Wrap maps v into the canonical rectangle [0,W) x [0,H).
func (t Torus) Wrap(v Vector2D) Vector2D {
	return Vector2D{
		X: wrapAxis(v.X, t.W),
		Y: wrapAxis(v.Y, t.H),
	}
}

func wrapAxis(x, size float64) float64 {
	for x < 0 {
		x += size
	}
	for x >= size {
		x -= size
	}
	return x
}

// Unwrap returns the representative of v's equivalence class that is
// closest to ref: within W/2 on the x axis and H/2 on the y axis. The
// result may lie outside the canonical rectangle.
func (t Torus) Unwrap(v, ref Vector2D) Vector2D {
	return Vector2D{
		X: unwrapAxis(v.X, ref.X, t.W),
		Y: unwrapAxis(v.Y, ref.Y, t.H),
	}
}

func unwrapAxis(x, ref, size float64) float64 {
	for (x - ref) < -size/2 {
		x += size
	}
	for (x - ref) > size/2 {
		x -= size
	}
	return x
}

// Distance returns the Euclidean distance between a and b after unwrapping
// b against a, i.e. the shortest distance across the torus.
func (t Torus) Distance(a, b Vector2D) float64 {
	return a.DistanceTo(t.Unwrap(b, a))
}
