// Package food implements the inert, decaying food particle snakes
// consume (spec.md §3).
package food

import "github.com/Bytewerk/spn-gameserver/internal/geometry"

// ID identifies a Food particle for the lifetime of the simulation process.
type ID uint64

// Food is an immutable-position, mutable-value particle. A static particle
// is part of the field's conserved population (§3: consuming or decaying
// one schedules exactly one replacement); a dynamic particle is emitted by
// a boosting or dying snake and is never replaced.
type Food struct {
	id       ID
	position geometry.Vector2D

	Value float64

	IsDynamic bool

	// MarkedForRemoval is set once Value has decayed to zero or the
	// particle has been consumed; the removal sweep (Field.removeFood)
	// deletes anything marked.
	MarkedForRemoval bool

	// HunterID attributes a dynamic particle to the bot that killed its
	// source snake, for a (currently unimplemented) scoring collaborator.
	// Zero for static food and for boost-loss food.
	HunterID uint64
}

// New creates a Food particle. Dynamic food is attributed to hunterID (pass
// 0 for none, e.g. plain boost loss).
func New(id ID, position geometry.Vector2D, value float64, isDynamic bool, hunterID uint64) *Food {
	return &Food{
		id:        id,
		position:  position,
		Value:     value,
		IsDynamic: isDynamic,
		HunterID:  hunterID,
	}
}

// ID returns the particle's identity.
func (f *Food) ID() ID { return f.id }

// Pos implements spatial.Positioned.
func (f *Food) Pos() geometry.Vector2D { return f.position }

// Decay subtracts step from Value and marks the particle for removal once
// it reaches zero or below. Returns true only if this call marked the
// particle for removal; an already-marked particle is left unchanged.
func (f *Food) Decay(step float64) bool {
	if f.MarkedForRemoval {
		return false
	}
	f.Value -= step
	if f.Value <= 0 {
		f.MarkedForRemoval = true
		return true
	}
	return false
}

// ShallRegenerate reports whether losing this particle (decay or consume)
// should schedule exactly one replacement static-food spawn.
func (f *Food) ShallRegenerate() bool {
	return !f.IsDynamic
}
