package events

import (
	"bytes"
	"encoding/binary"

	"github.com/vmihailenco/msgpack/v5"
)

// wire DTOs. Field names/tags follow the payload shapes spec.md §6 lists
// as wire-stable.

type foodSpawnItem struct {
	ID        uint64  `msgpack:"id"`
	X         float64 `msgpack:"x"`
	Y         float64 `msgpack:"y"`
	Value     float64 `msgpack:"value"`
	IsDynamic bool    `msgpack:"is_dynamic"`
}

type foodConsumeItem struct {
	BotID  uint64 `msgpack:"bot_id"`
	FoodID uint64 `msgpack:"food_id"`
}

type botMoveItem struct {
	BotID                uint64  `msgpack:"bot_id"`
	NewSegments          []Point `msgpack:"new_segments"`
	CurrentSegmentRadius float64 `msgpack:"current_segment_radius"`
	CurrentLength        int     `msgpack:"current_length"`
}

type botSpawnMessage struct {
	ID       uint64  `msgpack:"id"`
	Name     string  `msgpack:"name"`
	Segments []Point `msgpack:"segments"`
	Mass     float64 `msgpack:"mass"`
	Heading  float64 `msgpack:"heading"`
	Color    uint32  `msgpack:"color"`
}

type botKillMessage struct {
	KillerID uint64 `msgpack:"killer_id"`
	VictimID uint64 `msgpack:"victim_id"`
}

type botStatsMessage struct {
	BotID uint64  `msgpack:"bot_id"`
	Score float64 `msgpack:"score"`
	Mass  float64 `msgpack:"mass"`
}

type botLogMessage struct {
	ViewerKey uint64 `msgpack:"viewer_key"`
	Text      string `msgpack:"text"`
}

type tickMessage struct {
	FrameID uint64 `msgpack:"frame_id"`
}

type gameInfoMessage struct {
	WorldSizeX        float64 `msgpack:"world_size_x"`
	WorldSizeY        float64 `msgpack:"world_size_y"`
	FoodDecayPerFrame float64 `msgpack:"food_decay_per_frame"`
}

type worldStateMessage struct {
	Bots []BotSnapshot  `msgpack:"bots"`
	Food []FoodSnapshot `msgpack:"food"`
}

// MsgPackTracker is the UpdateTracker realization used by cmd/server. It
// batches the four high-frequency event kinds per frame and writes every
// other event kind to an immediate buffer as it is called, in call order.
type MsgPackTracker struct {
	foodSpawn   []foodSpawnItem
	foodDecay   []uint64
	foodConsume []foodConsumeItem
	botMove     []botMoveItem

	immediate bytes.Buffer
}

// NewMsgPackTracker returns a freshly reset tracker.
func NewMsgPackTracker() *MsgPackTracker {
	return &MsgPackTracker{}
}

func appendFramed(buf *bytes.Buffer, payload any) {
	encoded, err := msgpack.Marshal(payload)
	if err != nil {
		// UpdateTracker sink failures are dropped silently at this layer
		// (spec.md §7); the transport owns recovery, not the core.
		return
	}

	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(encoded)))
	buf.Write(length[:])
	buf.Write(encoded)
}

func (t *MsgPackTracker) FoodSpawned(id uint64, x, y, value float64, isDynamic bool) {
	t.foodSpawn = append(t.foodSpawn, foodSpawnItem{ID: id, X: x, Y: y, Value: value, IsDynamic: isDynamic})
}

func (t *MsgPackTracker) FoodDecayed(id uint64) {
	t.foodDecay = append(t.foodDecay, id)
}

func (t *MsgPackTracker) FoodConsumed(botID, foodID uint64) {
	t.foodConsume = append(t.foodConsume, foodConsumeItem{BotID: botID, FoodID: foodID})
}

func (t *MsgPackTracker) BotMoved(botID uint64, newSegments []Point, currentSegmentRadius float64, currentLength int) {
	t.botMove = append(t.botMove, botMoveItem{
		BotID:                botID,
		NewSegments:          newSegments,
		CurrentSegmentRadius: currentSegmentRadius,
		CurrentLength:        currentLength,
	})
}

func (t *MsgPackTracker) BotSpawned(id uint64, name string, segments []Point, mass, heading float64, color uint32) {
	appendFramed(&t.immediate, botSpawnMessage{ID: id, Name: name, Segments: segments, Mass: mass, Heading: heading, Color: color})
}

func (t *MsgPackTracker) BotKilled(killerID, victimID uint64) {
	appendFramed(&t.immediate, botKillMessage{KillerID: killerID, VictimID: victimID})
}

func (t *MsgPackTracker) BotStats(botID uint64, score, mass float64) {
	appendFramed(&t.immediate, botStatsMessage{BotID: botID, Score: score, Mass: mass})
}

func (t *MsgPackTracker) BotLog(viewerKey uint64, text string) {
	appendFramed(&t.immediate, botLogMessage{ViewerKey: viewerKey, Text: text})
}

func (t *MsgPackTracker) Tick(frameID uint64) {
	appendFramed(&t.immediate, tickMessage{FrameID: frameID})
}

func (t *MsgPackTracker) GameInfo(worldSizeX, worldSizeY, foodDecayPerFrame float64) {
	appendFramed(&t.immediate, gameInfoMessage{WorldSizeX: worldSizeX, WorldSizeY: worldSizeY, FoodDecayPerFrame: foodDecayPerFrame})
}

func (t *MsgPackTracker) WorldState(bots []BotSnapshot, food []FoodSnapshot) {
	appendFramed(&t.immediate, worldStateMessage{Bots: bots, Food: food})
}

// Serialize drains, in phase order, the food-decayed, food-spawned,
// food-consumed and bot-moved batches, followed by every other event in
// call order, then resets (spec.md §4.7).
func (t *MsgPackTracker) Serialize() []byte {
	var out bytes.Buffer

	if len(t.foodDecay) > 0 {
		appendFramed(&out, t.foodDecay)
	}
	if len(t.foodSpawn) > 0 {
		appendFramed(&out, t.foodSpawn)
	}
	if len(t.foodConsume) > 0 {
		appendFramed(&out, t.foodConsume)
	}
	if len(t.botMove) > 0 {
		appendFramed(&out, t.botMove)
	}

	out.Write(t.immediate.Bytes())

	result := out.Bytes()
	t.Reset()
	return result
}

// Reset clears batches and the immediate buffer without serializing them.
func (t *MsgPackTracker) Reset() {
	t.foodSpawn = nil
	t.foodDecay = nil
	t.foodConsume = nil
	t.botMove = nil
	t.immediate.Reset()
}
