// Package refai is a reference Controller implementation used by
// cmd/server's demo mode. It is not part of the simulation core's scope —
// spec.md §1 treats the steering AI as an external collaborator — but a
// runnable demo needs at least one.
package refai

import (
	"math"

	"github.com/Bytewerk/spn-gameserver/internal/bot"
	"github.com/Bytewerk/spn-gameserver/pkg/logger"

	"github.com/sirupsen/logrus"
)

// SeekFood steers straight toward the nearest visible food particle and
// holds its heading when none is visible. It never boosts, and it never
// returns an error from Init.
type SeekFood struct {
	name string
	log  *logrus.Entry
}

// NewSeekFood returns a Controller tagged name for its log lines.
func NewSeekFood(name string) *SeekFood {
	return &SeekFood{name: name}
}

// Init implements bot.Controller.
func (c *SeekFood) Init(self *bot.Bot) error {
	c.log = logger.Component("refai").WithField("bot", self.GUID)
	self.Log("seek-food controller initialized")
	return nil
}

// Step implements bot.Controller: steer toward the nearest food in view,
// or hold heading and drift if the view is empty.
func (c *SeekFood) Step(view bot.View) bot.Decision {
	nearest, found := nearestFood(view)
	if !found {
		return bot.Decision{TargetHeadingDeg: view.Self.Heading, Boost: false}
	}

	dx := nearest.Position.X - view.Self.HeadPosition.X
	dy := nearest.Position.Y - view.Self.HeadPosition.Y
	heading := math.Atan2(dy, dx) * 180 / math.Pi

	if c.log != nil {
		c.log.WithFields(logrus.Fields{
			"target_x": nearest.Position.X,
			"target_y": nearest.Position.Y,
			"heading":  heading,
		}).Debug("steering toward nearest food")
	}

	return bot.Decision{TargetHeadingDeg: heading, Boost: false}
}

// OnKilled implements bot.OnKilled.
func (c *SeekFood) OnKilled(info bot.KillerInfo) {
	if c.log != nil {
		c.log.WithField("killer", info.KillerID).Info("bot killed")
	}
}

func nearestFood(view bot.View) (bot.FoodSighting, bool) {
	var (
		best      bot.FoodSighting
		bestDist2 float64
		found     bool
	)
	for _, f := range view.NearbyFood {
		dx := f.Position.X - view.Self.HeadPosition.X
		dy := f.Position.Y - view.Self.HeadPosition.Y
		d2 := dx*dx + dy*dy
		if !found || d2 < bestDist2 {
			best, bestDist2, found = f, d2, true
		}
	}
	return best, found
}
