package refai

import (
	"math"
	"testing"

	"github.com/Bytewerk/spn-gameserver/internal/bot"
	"github.com/Bytewerk/spn-gameserver/internal/geometry"
)

func TestStepHoldsHeadingWithNoFood(t *testing.T) {
	c := NewSeekFood("test")
	view := bot.View{Self: bot.SelfState{Heading: 42}}

	got := c.Step(view)
	if got.TargetHeadingDeg != 42 || got.Boost {
		t.Errorf("Step() = %+v, want heading 42, no boost", got)
	}
}

func TestStepSteersTowardNearestFood(t *testing.T) {
	c := NewSeekFood("test")
	view := bot.View{
		Self: bot.SelfState{HeadPosition: geometry.Vector2D{X: 0, Y: 0}},
		NearbyFood: []bot.FoodSighting{
			{Position: geometry.Vector2D{X: 10, Y: 0}, Value: 1},
			{Position: geometry.Vector2D{X: 1, Y: 0}, Value: 1},
		},
	}

	got := c.Step(view)
	if math.Abs(got.TargetHeadingDeg-0) > 1e-9 {
		t.Errorf("TargetHeadingDeg = %v, want 0 (toward nearest food on +X axis)", got.TargetHeadingDeg)
	}
}

func TestInitDoesNotError(t *testing.T) {
	c := NewSeekFood("test")
	s := &bot.Bot{GUID: 1}
	if err := c.Init(s); err != nil {
		t.Errorf("Init() = %v, want nil", err)
	}
}
