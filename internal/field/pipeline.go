package field

import (
	"github.com/Bytewerk/spn-gameserver/internal/bot"
	"github.com/Bytewerk/spn-gameserver/internal/events"
	"github.com/Bytewerk/spn-gameserver/internal/food"

	"github.com/sirupsen/logrus"
)

type moveJob struct {
	b *bot.Bot
}

type moveResult struct {
	b          *bot.Bot
	decision   bot.Decision
	stepsAdded int
}

// runMoveJob runs the controller and the snake step for one bot. It reads
// only b's own mutable state plus the prior-frame SpatialMap snapshots
// (spec.md §4.5 step 1); it must not touch anything shared with another
// bot's job.
func (f *Field) runMoveJob(job moveJob) moveResult {
	b := job.b

	view := f.buildView(b)
	decision := b.Controller.Step(view)

	steps := b.Snake.Move(f.cfg, f.torus, decision.TargetHeadingDeg, decision.Boost)
	return moveResult{b: b, decision: decision, stepsAdded: steps}
}

func (f *Field) buildView(b *bot.Bot) bot.View {
	head := b.Snake.HeadPosition()
	radius := b.Snake.SegmentRadius * f.cfg.SnakeConsumeRange

	var nearbyFood []bot.FoodSighting
	for item := range f.foodIndex.Region(head, radius) {
		nearbyFood = append(nearbyFood, bot.FoodSighting{Position: item.Pos(), Value: item.Value})
	}

	var nearbySegments []bot.Segment
	for si := range f.segIndex.Region(head, radius) {
		if si.Owner == b {
			continue
		}
		nearbySegments = append(nearbySegments, bot.Segment{Position: si.Position, OwnerID: si.Owner.GUID})
	}

	return bot.View{
		FieldSizeX: f.cfg.FieldSizeX,
		FieldSizeY: f.cfg.FieldSizeY,
		NearbyFood: nearbyFood,
		NearbySegments: nearbySegments,
		Self: bot.SelfState{
			HeadPosition:  head,
			Heading:       b.Snake.Heading,
			Mass:          b.Snake.Mass,
			SegmentRadius: b.Snake.SegmentRadius,
		},
	}
}

type collisionJob struct {
	b *bot.Bot
}

type collisionResult struct {
	b      *bot.Bot
	killer *bot.Bot
}

// runCollisionJob queries the (read-only, prior-to-rebuild) segment index
// for the first foreign segment within the bot's head radius (spec.md
// §4.5 step 2).
func (f *Field) runCollisionJob(job collisionJob) collisionResult {
	b := job.b
	head := b.Snake.HeadPosition()
	radius := b.Snake.SegmentRadius * f.cfg.SnakeConsumeRange

	for si := range f.segIndex.Region(head, radius) {
		if si.Owner == b {
			continue
		}
		if head.DistanceTo(f.torus.Unwrap(si.Position, head)) < b.Snake.SegmentRadius {
			return collisionResult{b: b, killer: si.Owner}
		}
	}
	return collisionResult{b: b, killer: nil}
}

// Tick runs exactly one frame of the pipeline in the order spec.md §4.5
// specifies. It is not safe to call concurrently with itself.
func (f *Field) Tick() {
	moved := f.moveAndResolve()
	f.rebuildSegmentIndex()
	f.decayFood()
	f.consumeFood()
	f.removeFood()
	f.processLogs()
	f.advanceFrame()
	_ = moved
}

// moveAndResolve runs the Move phase, then the CollisionCheck phase, then
// serial Resolution, all behind the pool's hard barriers (spec.md §4.5
// steps 1-3, §5).
func (f *Field) moveAndResolve() int {
	for _, b := range f.bots {
		f.movePool.Submit(moveJob{b: b})
	}
	f.movePool.WaitForCompletion()
	moveResults := f.movePool.DrainCompleted()

	stepsByGUID := make(map[uint64]int, len(moveResults))
	for _, r := range moveResults {
		stepsByGUID[r.b.GUID] = r.stepsAdded
		f.lastDecisions[r.b.GUID] = r.decision
	}

	for _, b := range f.bots {
		f.collisionPool.Submit(collisionJob{b: b})
	}
	f.collisionPool.WaitForCompletion()
	collisionResults := f.collisionPool.DrainCompleted()

	killerByGUID := make(map[uint64]*bot.Bot, len(collisionResults))
	for _, r := range collisionResults {
		killerByGUID[r.b.GUID] = r.killer
	}

	survivors := f.bots[:0:0]
	resolved := 0
	for _, b := range f.bots {
		killer := killerByGUID[b.GUID]
		if killer != nil && killer.Snake.Mass > b.Snake.Mass*f.cfg.KillerMinMassRatio {
			f.killBot(b, killer)
			continue
		}

		steps := stepsByGUID[b.GUID]
		newSegments := make([]events.Point, steps)
		for i := 0; i < steps && i < len(b.Snake.Segments); i++ {
			newSegments[i] = events.Point{X: b.Snake.Segments[i].Position.X, Y: b.Snake.Segments[i].Position.Y}
		}
		f.tracker.BotMoved(b.GUID, newSegments, b.Snake.SegmentRadius, len(b.Snake.Segments))

		if b.Snake.BoostedLastMove {
			loss := f.cfg.SnakeBoostLossFactor * b.Snake.Mass
			b.Snake.DropFood(f.cfg, loss)
			tail := b.Snake.Segments[len(b.Snake.Segments)-1].Position
			f.createDynamicFood(loss, tail, b.Snake.SegmentRadius, 0)

			if b.Snake.Mass < f.cfg.SnakeSelfKillMassThresh {
				f.killBot(b, b)
				continue
			}
		}

		survivors = append(survivors, b)
		resolved++
	}
	f.bots = survivors

	return resolved
}

// killBot converts victim's snake to a dynamic food cloud attributed to
// killer, removes it from the live set, emits bot-killed, and invokes the
// registered kill callbacks (spec.md §4.5 step 3, §3).
func (f *Field) killBot(victim, killer *bot.Bot) {
	for _, share := range victim.Snake.ConvertToFood() {
		id := f.nextFoodID
		f.nextFoodID++

		item := food.New(id, share.Position, share.Value, true, killer.GUID)
		f.foodIndex.Insert(item)
		f.tracker.FoodSpawned(uint64(id), share.Position.X, share.Position.Y, share.Value, true)
	}

	delete(f.botsByGUID, victim.GUID)
	f.tracker.BotKilled(killer.GUID, victim.GUID)

	f.log.WithFields(logrus.Fields{
		"victim": victim.GUID,
		"killer": killer.GUID,
	}).Info("bot killed")

	if oc, ok := victim.Controller.(bot.OnKilled); ok {
		oc.OnKilled(bot.KillerInfo{KillerID: killer.GUID, SelfKill: killer == victim})
	}

	for _, cb := range f.killedCallbacks {
		cb(victim, killer)
	}
}

// rebuildSegmentIndex clears and repopulates the segment index from the
// current live set (spec.md §4.5 step 4).
func (f *Field) rebuildSegmentIndex() {
	f.segIndex.Clear()
	for _, b := range f.bots {
		for _, seg := range b.Snake.Segments {
			f.segIndex.Insert(SegmentInfo{Position: seg.Position, Owner: b})
		}
	}
}

// decayFood subtracts the configured decay step from every food particle's
// value, emitting food-decayed and scheduling one replacement for each
// decayed static particle (spec.md §4.5 step 5).
func (f *Field) decayFood() {
	var regenerate int
	for item := range f.foodIndex.All() {
		if item.Decay(f.cfg.FoodDecayStep) {
			f.tracker.FoodDecayed(uint64(item.ID()))
			if item.ShallRegenerate() {
				regenerate++
			}
		}
	}
	f.createStaticFood(regenerate)
}

// consumeFood lets each bot eat everything within range in the food
// index, growing its mass and scheduling replacements for consumed static
// particles (spec.md §4.5 step 6).
func (f *Field) consumeFood() {
	var regenerate int
	for _, b := range f.bots {
		head := b.Snake.HeadPosition()
		radius := b.Snake.SegmentRadius * f.cfg.SnakeConsumeRange

		for item := range f.foodIndex.Region(head, radius) {
			if item.MarkedForRemoval {
				continue
			}
			if !b.Snake.CanConsume(f.cfg, f.torus, item.Pos()) {
				continue
			}

			b.Snake.Consume(f.cfg, item.Value)
			item.MarkedForRemoval = true
			f.tracker.FoodConsumed(b.GUID, uint64(item.ID()))

			if item.ShallRegenerate() {
				regenerate++
			}
		}
	}
	f.createStaticFood(regenerate)
	f.updateMaxSegmentRadius()
}

func (f *Field) updateMaxSegmentRadius() {
	var max float64
	for _, b := range f.bots {
		if b.Snake.SegmentRadius > max {
			max = b.Snake.SegmentRadius
		}
	}
	f.maxSegmentRadius = max
}

// removeFood sweeps the food index for particles marked for removal
// (spec.md §4.5 step 7).
func (f *Field) removeFood() {
	f.foodIndex.EraseIf(func(item *food.Food) bool { return item.MarkedForRemoval })
}

// processLogs drains every bot's log buffer into bot-log events and
// refills log_credit (spec.md §4.5 step 8).
func (f *Field) processLogs() {
	for _, b := range f.bots {
		for _, line := range b.DrainLog() {
			f.tracker.BotLog(b.ViewerKey, line)
		}
		b.RefillLogCredit()
	}
}

// advanceFrame increments the frame counter and emits tick (spec.md §4.5
// step 9).
func (f *Field) advanceFrame() {
	f.currentFrame++
	f.tracker.Tick(f.currentFrame)
}
