// Package bot couples a Snake to an externally supplied Controller and
// carries the per-frame log/credit state spec.md §3/§4.4 assigns to a Bot.
package bot

import (
	"github.com/Bytewerk/spn-gameserver/internal/geometry"
	"github.com/Bytewerk/spn-gameserver/internal/snake"
)

// Segment is the shape View exposes for a foreign snake segment: a copy,
// never a pointer into the live chain (spec.md §9).
type Segment struct {
	Position geometry.Vector2D
	OwnerID  uint64
}

// FoodSighting is the shape View exposes for a nearby food particle.
type FoodSighting struct {
	Position geometry.Vector2D
	Value    float64
}

// View is the read-only facade a Controller's Step sees: nearby food,
// nearby foreign segments, field size, and the bot's own state. It is
// rebuilt fresh for every Step call from the prior frame's SpatialMaps, so
// a Controller can never observe a partially updated frame.
type View struct {
	FieldSizeX, FieldSizeY float64

	NearbyFood     []FoodSighting
	NearbySegments []Segment

	Self SelfState
}

// SelfState mirrors the subset of a bot's own Snake state a Controller may
// legitimately condition its decision on.
type SelfState struct {
	HeadPosition  geometry.Vector2D
	Heading       float64
	Mass          float64
	SegmentRadius float64
}

// Decision is what a Controller's Step call returns.
type Decision struct {
	TargetHeadingDeg float64
	Boost            bool
}

// KillerInfo is passed to a Controller's optional OnKilled callback.
type KillerInfo struct {
	KillerID uint64
	// SelfKill is true when the bot killed itself (mass below threshold,
	// usually from boosting), in which case KillerID equals the bot's own.
	SelfKill bool
}

// Controller is the capability a Bot is driven by (spec.md §4.4, §6). Init
// is called once, from the orchestrator thread, before the bot is admitted
// to the live set. Step is called exactly once per frame per bot, from a
// worker thread; implementations that are not themselves thread-safe must
// serialize their own internal state, since the core calls at most one
// Step per bot per frame but offers no other mutual exclusion.
type Controller interface {
	Init(self *Bot) error
	Step(view View) Decision
}

// OnKilled is an optional extension a Controller may implement to be
// notified when its bot dies.
type OnKilled interface {
	OnKilled(info KillerInfo)
}

// Bot is identity plus an owned Snake plus an owned Controller, plus the
// bounded per-frame log state spec.md §3 assigns it.
type Bot struct {
	GUID       uint64
	ViewerKey  uint64
	DatabaseID int64

	Name  string
	Color uint32

	Snake      *snake.Snake
	Controller Controller

	logBuf     []string
	logCredit  int
	logRefill  int
	logCap     int
}

// New creates a Bot. logRefill/logCap come from config and are fixed for
// the bot's lifetime.
func New(guid uint64, viewerKey uint64, databaseID int64, name string, color uint32, s *snake.Snake, ctrl Controller, logRefill, logCap int) *Bot {
	return &Bot{
		GUID:       guid,
		ViewerKey:  viewerKey,
		DatabaseID: databaseID,
		Name:       name,
		Color:      color,
		Snake:      s,
		Controller: ctrl,
		logCredit:  logCap,
		logRefill:  logRefill,
		logCap:     logCap,
	}
}

// Pos implements spatial.Positioned via the owning snake's head, so a
// *Bot can itself be indexed if a collaborator needs bot-level queries.
func (b *Bot) Pos() geometry.Vector2D {
	return b.Snake.HeadPosition()
}

// Log appends a line to the bot's log buffer if log_credit allows it,
// decrementing the credit. Lines submitted once credit is exhausted are
// dropped silently (spec.md §4.4).
func (b *Bot) Log(line string) {
	if b.logCredit <= 0 {
		return
	}
	b.logCredit--
	b.logBuf = append(b.logBuf, line)
}

// DrainLog returns and clears the accumulated log lines; called once per
// frame during the Field's Process-logs phase.
func (b *Bot) DrainLog() []string {
	lines := b.logBuf
	b.logBuf = nil
	return lines
}

// RefillLogCredit increments log_credit by the configured refill, capped
// at logCap; called once per frame alongside DrainLog.
func (b *Bot) RefillLogCredit() {
	b.logCredit += b.logRefill
	if b.logCredit > b.logCap {
		b.logCredit = b.logCap
	}
}
