package field

import (
	"github.com/Bytewerk/spn-gameserver/internal/bot"
	"github.com/Bytewerk/spn-gameserver/internal/geometry"
)

// SegmentInfo pairs one snake segment's position with its owning bot, for
// the segment-index SpatialMap. It lives in this package, not spatial or
// snake, to avoid an import cycle: Field needs both bot and snake to build
// it. Indexed by value copy, never by pointer into the live chain.
type SegmentInfo struct {
	Position geometry.Vector2D
	Owner    *bot.Bot
}

// Pos implements spatial.Positioned.
func (si SegmentInfo) Pos() geometry.Vector2D { return si.Position }
