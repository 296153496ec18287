package snake

import "github.com/Bytewerk/spn-gameserver/internal/geometry"

// Segment is one position+velocity node of a snake's chain. Index 0 of the
// owning Snake's Segments slice is the head.
type Segment struct {
	Position geometry.Vector2D
	Velocity geometry.Vector2D
}

// Pos implements spatial.Positioned.
func (s Segment) Pos() geometry.Vector2D { return s.Position }
