// Package spatial implements the tiled bucket index ("SpatialMap") used to
// make neighbourhood queries over food and snake segments cheap. It is a
// uniform grid with toroidal wrap on tile coordinates, generic over any
// element type that can report its own position.
package spatial

import (
	"iter"
	"math"

	"github.com/Bytewerk/spn-gameserver/internal/geometry"
)

// Positioned is anything a SpatialMap can index: it must expose the
// position it was inserted at.
type Positioned interface {
	Pos() geometry.Vector2D
}

// Map is a fixed tilesX x tilesY grid of buckets over a field of size
// fieldW x fieldH. Buckets are addressed by wrapped tile coordinates;
// elements are stored by value and keep their insertion order within a
// bucket.
type Map[T Positioned] struct {
	fieldW, fieldH float64
	tilesX, tilesY int
	tileSizeX      float64
	tileSizeY      float64
	tiles          [][]T
}

// New creates a Map over a field of size fieldW x fieldH, split into
// tilesX x tilesY buckets. reserveCount pre-allocates capacity in every
// bucket (Config.SpatialMapReserve, the SPATIAL_MAP_RESERVE_COUNT constant).
func New[T Positioned](fieldW, fieldH float64, tilesX, tilesY, reserveCount int) *Map[T] {
	m := &Map[T]{
		fieldW:    fieldW,
		fieldH:    fieldH,
		tilesX:    tilesX,
		tilesY:    tilesY,
		tileSizeX: fieldW / float64(tilesX),
		tileSizeY: fieldH / float64(tilesY),
		tiles:     make([][]T, tilesX*tilesY),
	}
	if reserveCount > 0 {
		for i := range m.tiles {
			m.tiles[i] = make([]T, 0, reserveCount)
		}
	}
	return m
}

func wrapIndex(i, size int) int {
	i %= size
	if i < 0 {
		i += size
	}
	return i
}

func (m *Map[T]) tileIndex(tx, ty int) int {
	return wrapIndex(ty, m.tilesY)*m.tilesX + wrapIndex(tx, m.tilesX)
}

func (m *Map[T]) tileCoordsFor(pos geometry.Vector2D) (int, int) {
	tx := int(pos.X / m.tileSizeX)
	ty := int(pos.Y / m.tileSizeY)
	return tx, ty
}

// Insert places e in the bucket its current position maps to. The bucket is
// recomputed only here — moving an element requires removing and
// re-inserting it.
func (m *Map[T]) Insert(e T) {
	tx, ty := m.tileCoordsFor(e.Pos())
	idx := m.tileIndex(tx, ty)
	m.tiles[idx] = append(m.tiles[idx], e)
}

// Clear empties every bucket while keeping their allocated capacity.
func (m *Map[T]) Clear() {
	for i := range m.tiles {
		m.tiles[i] = m.tiles[i][:0]
	}
}

// Len returns the total number of elements across all buckets.
func (m *Map[T]) Len() int {
	n := 0
	for _, tile := range m.tiles {
		n += len(tile)
	}
	return n
}

// EraseIf removes every element matching pred, preserving the relative
// order of the elements that remain in each bucket.
func (m *Map[T]) EraseIf(pred func(T) bool) {
	for i, tile := range m.tiles {
		kept := tile[:0]
		for _, e := range tile {
			if !pred(e) {
				kept = append(kept, e)
			}
		}
		m.tiles[i] = kept
	}
}

// All iterates every element in row-major bucket order, bucket-major then
// insertion-order within a bucket.
func (m *Map[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, tile := range m.tiles {
			for _, e := range tile {
				if !yield(e) {
					return
				}
			}
		}
	}
}

// Region returns a lazy view over every element whose bucket intersects the
// axis-aligned bounding square of side 2*radius centred at center. The view
// may include elements outside the exact radius; callers must re-test
// precise distance. Each matching bucket is visited once even when the
// square wraps across a toroidal edge, row-major, insertion-order within a
// bucket.
func (m *Map[T]) Region(center geometry.Vector2D, radius float64) iter.Seq[T] {
	topLeft := geometry.Vector2D{X: center.X - radius, Y: center.Y - radius}
	bottomRight := geometry.Vector2D{X: center.X + radius, Y: center.Y + radius}

	x1 := int(math.Floor(topLeft.X / m.tileSizeX))
	y1 := int(math.Floor(topLeft.Y / m.tileSizeY))
	x2 := int(math.Floor(bottomRight.X / m.tileSizeX))
	y2 := int(math.Floor(bottomRight.Y / m.tileSizeY))

	return func(yield func(T) bool) {
		// Never visit more buckets than exist on an axis: a query square
		// wider than the whole field would otherwise revisit a bucket.
		spanX := x2 - x1 + 1
		if spanX > m.tilesX {
			spanX = m.tilesX
		}
		spanY := y2 - y1 + 1
		if spanY > m.tilesY {
			spanY = m.tilesY
		}

		visited := make(map[int]bool, spanX*spanY)
		for ty := y1; ty < y1+spanY; ty++ {
			for tx := x1; tx < x1+spanX; tx++ {
				idx := m.tileIndex(tx, ty)
				if visited[idx] {
					continue
				}
				visited[idx] = true
				for _, e := range m.tiles[idx] {
					if !yield(e) {
						return
					}
				}
			}
		}
	}
}
