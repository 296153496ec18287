// Package events defines the UpdateTracker capability (spec.md §4.7, §6)
// and a MsgPack realization of it. The interface is what Field depends on;
// MsgPackTracker is only one possible backing implementation.
package events

// Tracker accumulates per-frame deltas and exposes them as a serialized
// byte stream. Method names mirror the event kinds spec.md §3/§6 define.
type Tracker interface {
	FoodSpawned(id uint64, x, y, value float64, isDynamic bool)
	FoodDecayed(id uint64)
	FoodConsumed(botID, foodID uint64)

	BotSpawned(id uint64, name string, segments []Point, mass, heading float64, color uint32)
	BotMoved(botID uint64, newSegments []Point, currentSegmentRadius float64, currentLength int)
	BotKilled(killerID, victimID uint64)
	BotStats(botID uint64, score, mass float64)
	BotLog(viewerKey uint64, text string)

	Tick(frameID uint64)
	GameInfo(worldSizeX, worldSizeY, foodDecayPerFrame float64)
	WorldState(bots []BotSnapshot, food []FoodSnapshot)

	// Serialize drains the accumulated batches and immediate events into a
	// single length-framed byte stream, in the phase order spec.md §4.7
	// specifies, and resets the tracker.
	Serialize() []byte

	// Reset clears batches and any staged immediate output without
	// serializing them.
	Reset()
}

// Point is a bare segment position, copied by value into event records
// (spec.md §9: events never point into the live chain).
type Point struct {
	X float64 `msgpack:"x"`
	Y float64 `msgpack:"y"`
}

// BotSnapshot is one bot's complete state, used only in a world-state
// event (a full snapshot rather than a delta).
type BotSnapshot struct {
	ID       uint64      `msgpack:"id"`
	Name     string      `msgpack:"name"`
	Segments []Point     `msgpack:"segments"`
	Mass     float64     `msgpack:"mass"`
	Heading  float64     `msgpack:"heading"`
	Color    uint32      `msgpack:"color"`
}

// FoodSnapshot is one food particle's complete state for a world-state
// event.
type FoodSnapshot struct {
	ID        uint64  `msgpack:"id"`
	X         float64 `msgpack:"x"`
	Y         float64 `msgpack:"y"`
	Value     float64 `msgpack:"value"`
	IsDynamic bool    `msgpack:"is_dynamic"`
}
