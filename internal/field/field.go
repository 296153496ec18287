// Package field implements the Field orchestrator: the owner of all bots
// and both SpatialMaps, and the driver of the per-frame pipeline (spec.md
// §4.5). Grounded on original_source/src/Field.cpp, restructured around a
// generic botpool.Pool instead of bare futures.
package field

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/Bytewerk/spn-gameserver/internal/bot"
	"github.com/Bytewerk/spn-gameserver/internal/botpool"
	"github.com/Bytewerk/spn-gameserver/internal/config"
	"github.com/Bytewerk/spn-gameserver/internal/events"
	"github.com/Bytewerk/spn-gameserver/internal/food"
	"github.com/Bytewerk/spn-gameserver/internal/geometry"
	"github.com/Bytewerk/spn-gameserver/internal/snake"
	"github.com/Bytewerk/spn-gameserver/internal/spatial"
	"github.com/Bytewerk/spn-gameserver/pkg/logger"

	"github.com/sirupsen/logrus"
)

// KilledCallback is notified, in registration order, whenever a bot is
// killed. Typically used by a host to schedule a replacement bot.
type KilledCallback func(victim, killer *bot.Bot)

// Field owns the live bot set, both SpatialMaps, the PRNG, and the
// UpdateTracker, and drives one simulation step at a time via Tick.
type Field struct {
	cfg   config.Config
	torus geometry.Torus
	log   *logrus.Entry

	rng     *rand.Rand
	tracker events.Tracker

	bots       []*bot.Bot
	botsByGUID map[uint64]*bot.Bot
	nextGUID   uint64

	foodIndex  *spatial.Map[*food.Food]
	nextFoodID food.ID

	segIndex *spatial.Map[SegmentInfo]

	movePool      *botpool.Pool[moveJob, moveResult]
	collisionPool *botpool.Pool[collisionJob, collisionResult]

	maxSegmentRadius float64
	currentFrame     uint64

	killedCallbacks []KilledCallback

	// lastDecisions holds each live bot's most recent Controller decision,
	// for a host that wants to record an input replay (internal/replay)
	// rather than the snake's resulting heading.
	lastDecisions map[uint64]bot.Decision
}

// New constructs a Field, seeds its PRNG deterministically from seed, and
// populates it with cfg.FieldStaticFood static food particles.
func New(cfg config.Config, tracker events.Tracker, seed int64) *Field {
	f := &Field{
		cfg:           cfg,
		torus:         geometry.Torus{W: cfg.FieldSizeX, H: cfg.FieldSizeY},
		log:           logger.Component("field"),
		rng:           rand.New(rand.NewSource(seed)),
		tracker:       tracker,
		botsByGUID:    make(map[uint64]*bot.Bot),
		lastDecisions: make(map[uint64]bot.Decision),
	}

	f.foodIndex = spatial.New[*food.Food](cfg.FieldSizeX, cfg.FieldSizeY, cfg.SpatialMapTilesX, cfg.SpatialMapTilesY, cfg.SpatialMapReserve)
	f.segIndex = spatial.New[SegmentInfo](cfg.FieldSizeX, cfg.FieldSizeY, cfg.SpatialMapTilesX, cfg.SpatialMapTilesY, cfg.SpatialMapReserve)

	f.movePool = botpool.New(cfg.BotWorkerCount, f.runMoveJob)
	f.collisionPool = botpool.New(cfg.BotWorkerCount, f.runCollisionJob)

	f.createStaticFood(cfg.FieldStaticFood)

	f.log.WithFields(logrus.Fields{
		"width":      cfg.FieldSizeX,
		"height":     cfg.FieldSizeY,
		"staticFood": cfg.FieldStaticFood,
	}).Info("field initialized")

	return f
}

// Shutdown stops the worker pools backing the Move and CollisionCheck
// phases. The Field must not be ticked again afterwards.
func (f *Field) Shutdown() {
	f.movePool.Shutdown()
	f.collisionPool.Shutdown()
}

// WrapCoords maps v into the canonical rectangle.
func (f *Field) WrapCoords(v geometry.Vector2D) geometry.Vector2D {
	return f.torus.Wrap(v)
}

// UnwrapCoords returns the representative of v closest to ref.
func (f *Field) UnwrapCoords(v, ref geometry.Vector2D) geometry.Vector2D {
	return f.torus.Unwrap(v, ref)
}

// Size returns the field's width and height.
func (f *Field) Size() (w, h float64) {
	return f.cfg.FieldSizeX, f.cfg.FieldSizeY
}

// CurrentFrame returns the frame counter (incremented once per Tick).
func (f *Field) CurrentFrame() uint64 {
	return f.currentFrame
}

// MaxSegmentRadius returns the largest segment radius among live bots, as
// of the last Consume-food phase.
func (f *Field) MaxSegmentRadius() float64 {
	return f.maxSegmentRadius
}

// Bots returns the live bots in insertion order. The returned slice must
// not be mutated by the caller.
func (f *Field) Bots() []*bot.Bot {
	return f.bots
}

// BotByDatabaseID returns the live bot with the given database id, or nil.
func (f *Field) BotByDatabaseID(id int64) *bot.Bot {
	for _, b := range f.bots {
		if b.DatabaseID == id {
			return b
		}
	}
	return nil
}

// LastDecision returns the most recent Controller decision recorded for
// botGUID by the last completed Tick, or the zero Decision if none is
// recorded yet (e.g. before the first Tick, or for an unknown bot).
func (f *Field) LastDecision(botGUID uint64) bot.Decision {
	return f.lastDecisions[botGUID]
}

// AddKilledCallback registers a callback invoked whenever a bot dies.
func (f *Field) AddKilledCallback(cb KilledCallback) {
	f.killedCallbacks = append(f.killedCallbacks, cb)
}

// EmitGameInfo sends a game-info event describing the field's static
// parameters. cmd/server calls it for every newly connecting viewer,
// together with EmitWorldState.
func (f *Field) EmitGameInfo() {
	f.tracker.GameInfo(f.cfg.FieldSizeX, f.cfg.FieldSizeY, f.cfg.FoodDecayStep)
}

// EmitWorldState sends a complete snapshot of every live bot and food
// particle (spec.md §4.7: "a world-state event is a complete snapshot,
// used on new viewer connection"). The snapshot is built from the live
// indices, not cached, so it always reflects the most recently completed
// frame.
func (f *Field) EmitWorldState() {
	bots := make([]events.BotSnapshot, len(f.bots))
	for i, b := range f.bots {
		segments := make([]events.Point, len(b.Snake.Segments))
		for j, seg := range b.Snake.Segments {
			segments[j] = events.Point{X: seg.Position.X, Y: seg.Position.Y}
		}
		bots[i] = events.BotSnapshot{
			ID:       b.GUID,
			Name:     b.Name,
			Segments: segments,
			Mass:     b.Snake.Mass,
			Heading:  b.Snake.Heading,
			Color:    b.Color,
		}
	}

	var foodSnapshots []events.FoodSnapshot
	for item := range f.foodIndex.All() {
		pos := item.Pos()
		foodSnapshots = append(foodSnapshots, events.FoodSnapshot{
			ID:        uint64(item.ID()),
			X:         pos.X,
			Y:         pos.Y,
			Value:     item.Value,
			IsDynamic: item.IsDynamic,
		})
	}

	f.tracker.WorldState(bots, foodSnapshots)
}

func (f *Field) randomPosition() geometry.Vector2D {
	return geometry.Vector2D{
		X: f.rng.Float64() * f.cfg.FieldSizeX,
		Y: f.rng.Float64() * f.cfg.FieldSizeY,
	}
}

func (f *Field) randomHeadingDeg() float64 {
	return f.rng.Float64()*360 - 180
}

func (f *Field) randomFoodValue() float64 {
	v := f.rng.NormFloat64()*f.cfg.FoodSizeStddev + f.cfg.FoodSizeMean
	if v < 0 {
		v = 0
	}
	return v
}

// createStaticFood spawns count new static food particles at random
// positions (spec.md §4.5's replacement scheduling; original_source
// Field::createStaticFood).
func (f *Field) createStaticFood(count int) {
	for i := 0; i < count; i++ {
		id := f.nextFoodID
		f.nextFoodID++

		pos := f.randomPosition()
		value := f.randomFoodValue()

		item := food.New(id, pos, value, false, 0)
		f.foodIndex.Insert(item)
		f.tracker.FoodSpawned(uint64(id), pos.X, pos.Y, value, false)
	}
}

// createDynamicFood scatters totalValue worth of dynamic food particles in
// a disc of the given radius around center, attributed to hunterID
// (spec.md §3's kill-conversion and boost-loss drops; original_source
// Field::createDynamicFood).
func (f *Field) createDynamicFood(totalValue float64, center geometry.Vector2D, radius float64, hunterID uint64) {
	remaining := totalValue
	for remaining > 0 {
		value := remaining
		if remaining > f.cfg.FoodSizeMean {
			value = f.randomFoodValue()
			if value <= 0 {
				value = f.cfg.FoodSizeMean
			}
		}

		rndRadius := radius * f.rng.Float64()
		rndAngle := f.rng.Float64()*2*math.Pi - math.Pi
		offset := geometry.Vector2D{X: math.Cos(rndAngle), Y: math.Sin(rndAngle)}.Scale(rndRadius)
		pos := f.torus.Wrap(center.Add(offset))

		id := f.nextFoodID
		f.nextFoodID++

		item := food.New(id, pos, value, true, hunterID)
		f.foodIndex.Insert(item)
		f.tracker.FoodSpawned(uint64(id), pos.X, pos.Y, value, true)

		remaining -= value
	}
}

// SpawnBot admits a new bot, placing it at a random position and heading
// with the configured starting mass. It returns an error (and emits only a
// bot-log line, per spec.md §7) if ctrl.Init fails.
func (f *Field) SpawnBot(name string, databaseID int64, color uint32, ctrl bot.Controller) (*bot.Bot, error) {
	guid := f.nextGUID + 1
	f.nextGUID = guid

	pos := f.randomPosition()
	heading := f.randomHeadingDeg()

	s := snake.New(f.cfg, pos, heading, f.cfg.BotInitialMass)
	b := bot.New(guid, guid, databaseID, name, color, s, ctrl, f.cfg.LogCreditRefill, f.cfg.LogCreditCap)

	if err := ctrl.Init(b); err != nil {
		f.tracker.BotLog(guid, fmt.Sprintf("cannot start bot %s: %v", name, err))
		f.log.WithError(err).WithField("bot", name).Warn("controller init failed, bot not admitted")
		return nil, fmt.Errorf("init bot %q: %w", name, err)
	}

	f.bots = append(f.bots, b)
	f.botsByGUID[guid] = b

	segments := make([]events.Point, len(s.Segments))
	for i, seg := range s.Segments {
		segments[i] = events.Point{X: seg.Position.X, Y: seg.Position.Y}
	}
	f.tracker.BotLog(guid, "starting bot "+name)
	f.tracker.BotSpawned(guid, name, segments, s.Mass, s.Heading, color)

	f.log.WithFields(logrus.Fields{"guid": guid, "name": name}).Info("bot spawned")

	return b, nil
}

// DebugVisualization renders the field as an ASCII grid: '.' empty, '+'
// snake body, '#' snake head. Intended for local debugging only
// (original_source Field::debugVisualization).
func (f *Field) DebugVisualization() string {
	w := int(f.cfg.FieldSizeX)
	h := int(f.cfg.FieldSizeY)

	grid := make([][]byte, h)
	for y := range grid {
		row := make([]byte, w)
		for x := range row {
			row[x] = '.'
		}
		grid[y] = row
	}

	for _, b := range f.bots {
		for i, seg := range b.Snake.Segments {
			x := int(seg.Position.X)
			y := int(seg.Position.Y)
			if x < 0 || x >= w || y < 0 || y >= h {
				continue
			}
			if i == 0 {
				grid[y][x] = '#'
			} else {
				grid[y][x] = '+'
			}
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.Write(row)
		sb.WriteByte('\n')
	}
	return sb.String()
}
