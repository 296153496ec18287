package snake

import (
	"math"
	"testing"

	"github.com/Bytewerk/spn-gameserver/internal/config"
	"github.com/Bytewerk/spn-gameserver/internal/geometry"
)

func testConfig() config.Config {
	return config.Default()
}

func TestNewSizesToMass(t *testing.T) {
	cfg := testConfig()
	s := New(cfg, geometry.Vector2D{X: 10, Y: 10}, 0, 20)

	want := targetLength(cfg, 20)
	if got := len(s.Segments); got != want {
		t.Errorf("len(Segments) = %d, want %d", got, want)
	}
}

func TestConsumeGrowsChain(t *testing.T) {
	cfg := testConfig()
	s := New(cfg, geometry.Vector2D{}, 0, 5)
	before := len(s.Segments)

	s.Consume(cfg, 500)

	if got := len(s.Segments); got <= before {
		t.Errorf("len(Segments) after Consume = %d, want > %d", got, before)
	}
}

func TestDropFoodShrinksChain(t *testing.T) {
	cfg := testConfig()
	s := New(cfg, geometry.Vector2D{}, 0, 500)
	before := len(s.Segments)

	s.DropFood(cfg, 480)

	if got := len(s.Segments); got >= before {
		t.Errorf("len(Segments) after DropFood = %d, want < %d", got, before)
	}
}

func TestMoveAdvancesHead(t *testing.T) {
	cfg := testConfig()
	torus := geometry.Torus{W: cfg.FieldSizeX, H: cfg.FieldSizeY}
	s := New(cfg, geometry.Vector2D{X: 500, Y: 500}, 0, 5)

	start := s.HeadPosition()
	s.Move(cfg, torus, 0, false)
	end := s.HeadPosition()

	if start == end {
		t.Errorf("head did not move")
	}
}

func TestMoveClampsSteering(t *testing.T) {
	cfg := testConfig()
	torus := geometry.Torus{W: cfg.FieldSizeX, H: cfg.FieldSizeY}
	s := New(cfg, geometry.Vector2D{X: 500, Y: 500}, 0, 5)

	s.Move(cfg, torus, 179, false)

	maxDelta := s.MaxRotationPerStep()
	if math.Abs(s.Heading) > maxDelta+1e-9 {
		t.Errorf("Heading = %v, want within %v of 0", s.Heading, maxDelta)
	}
}

func TestMoveWrapsAcrossEdge(t *testing.T) {
	cfg := testConfig()
	torus := geometry.Torus{W: cfg.FieldSizeX, H: cfg.FieldSizeY}
	s := New(cfg, geometry.Vector2D{X: cfg.FieldSizeX - 0.05, Y: 500}, 0, 5)

	for i := 0; i < 3; i++ {
		s.Move(cfg, torus, 0, false)
	}

	head := s.HeadPosition()
	if head.X < 0 || head.X >= cfg.FieldSizeX {
		t.Errorf("head.X = %v, want within [0, %v)", head.X, cfg.FieldSizeX)
	}
}

func TestMoveBoostRecordsFlag(t *testing.T) {
	cfg := testConfig()
	torus := geometry.Torus{W: cfg.FieldSizeX, H: cfg.FieldSizeY}
	s := New(cfg, geometry.Vector2D{X: 500, Y: 500}, 0, 5)

	s.Move(cfg, torus, 0, true)
	if !s.BoostedLastMove {
		t.Errorf("BoostedLastMove = false, want true after boosted move")
	}
	s.Move(cfg, torus, 0, false)
	if s.BoostedLastMove {
		t.Errorf("BoostedLastMove = true, want false after non-boosted move")
	}
}

func TestCanConsumeWithinRange(t *testing.T) {
	cfg := testConfig()
	torus := geometry.Torus{W: cfg.FieldSizeX, H: cfg.FieldSizeY}
	s := New(cfg, geometry.Vector2D{X: 500, Y: 500}, 0, 400)

	near := s.HeadPosition().Add(geometry.Vector2D{X: 0.1, Y: 0})
	far := s.HeadPosition().Add(geometry.Vector2D{X: 1000, Y: 0})

	if !s.CanConsume(cfg, torus, near) {
		t.Errorf("CanConsume(near) = false, want true")
	}
	if s.CanConsume(cfg, torus, far) {
		t.Errorf("CanConsume(far) = true, want false")
	}
}

func TestConvertToFoodConservesMass(t *testing.T) {
	cfg := testConfig()
	s := New(cfg, geometry.Vector2D{}, 0, 50)

	shares := s.ConvertToFood()
	var total float64
	for _, sh := range shares {
		total += sh.Value
	}
	if math.Abs(total-s.Mass) > 1e-9 {
		t.Errorf("total food value = %v, want %v", total, s.Mass)
	}
	if len(shares) != len(s.Segments) {
		t.Errorf("len(shares) = %d, want %d", len(shares), len(s.Segments))
	}
}
