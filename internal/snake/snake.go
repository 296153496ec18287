// Package snake implements the segmented spring-mass chain, its stepping,
// growth, and kill-conversion (spec.md §3, §4.3).
package snake

import (
	"math"

	"github.com/Bytewerk/spn-gameserver/internal/config"
	"github.com/Bytewerk/spn-gameserver/internal/geometry"
)

// Snake is an ordered chain of Segments behaving as a damped spring-mass
// network with a steered head (Segments[0]).
type Snake struct {
	Segments []Segment

	Mass    float64
	Heading float64 // degrees, (-180, 180]

	SegmentRadius float64

	BoostedLastMove bool
}

// New creates a Snake at startPos with the given heading (degrees) and
// starting mass, sized to match spec.md's length invariant.
func New(cfg config.Config, startPos geometry.Vector2D, heading, mass float64) *Snake {
	vel := geometry.Vector2D{X: 0.1, Y: 0}.Rotate(heading * math.Pi / 180)
	s := &Snake{
		Segments: []Segment{{Position: startPos, Velocity: vel}},
		Mass:     mass,
		Heading:  heading,
	}
	s.reshape(cfg)
	return s
}

// targetLength is max(2, round(mass^LENGTH_EXPONENT)) per spec.md §3.
func targetLength(cfg config.Config, mass float64) int {
	n := int(math.Pow(mass, cfg.SnakeLengthExponent) + 0.5)
	if n < 2 {
		n = 2
	}
	return n
}

// reshape grows or truncates Segments to match the current mass, and
// recomputes SegmentRadius. New segments are appended behind the current
// tail, offset backwards by the tail's own velocity.
func (s *Snake) reshape(cfg config.Config) {
	target := targetLength(cfg, s.Mass)
	cur := len(s.Segments)

	if cur < target {
		ref := s.Segments[cur-1]
		for i := 0; i < target-cur; i++ {
			seg := Segment{
				Position: ref.Position.Sub(ref.Velocity),
				Velocity: ref.Velocity,
			}
			s.Segments = append(s.Segments, seg)
			ref = seg
		}
	} else if cur > target {
		s.Segments = s.Segments[:target]
	}

	s.SegmentRadius = math.Sqrt(s.Mass) / 2
}

// Consume adds food value to the snake's mass and reshapes the chain.
func (s *Snake) Consume(cfg config.Config, value float64) {
	s.Mass += value
	s.reshape(cfg)
}

// DropFood subtracts value from the snake's mass (boost cost) and reshapes
// the chain. Mass is not floored at zero here; the caller (Field) is
// responsible for self-kill once mass drops below the configured
// threshold.
func (s *Snake) DropFood(cfg config.Config, value float64) {
	s.Mass -= value
	s.reshape(cfg)
}

// MaxRotationPerStep returns the maximum heading change allowed in one
// step: larger snakes turn slower.
func (s *Snake) MaxRotationPerStep() float64 {
	return 10.0 / (s.SegmentRadius/10.0 + 1)
}

func springDeltaV(cfg config.Config, from, to geometry.Vector2D) geometry.Vector2D {
	dist := from.DistanceTo(to)
	if dist == 0 {
		return geometry.Vector2D{}
	}
	distErr := dist - cfg.SnakeBaseDistance
	return to.Sub(from).Normalize(distErr).Scale(cfg.SnakeSpringConstant)
}

// normalizeDegrees folds an angle into (-180, 180].
func normalizeDegrees(deg float64) float64 {
	if deg > 180 {
		deg -= 360
	} else if deg <= -180 {
		deg += 360
	}
	return deg
}

// Move advances one simulation step given a steering target and boost
// request, per spec.md §4.3. It returns the number of segments at the head
// that are "new" this step (== len(Segments), matching the original
// semantics used by UpdateTracker to slice the moved prefix).
func (s *Snake) Move(cfg config.Config, torus geometry.Torus, targetAngleDeg float64, boost bool) int {
	speedScale := 1.0
	if boost {
		speedScale = cfg.SnakeBoostSpeedup
	}

	// Step 1: unwrap the whole chain relative to its predecessor so it is
	// locally contiguous, even if that puts it outside the canonical
	// rectangle.
	for i := range s.Segments {
		ref := s.Segments[0]
		if i > 0 {
			ref = s.Segments[i-1]
		}
		s.Segments[i].Position = torus.Unwrap(s.Segments[i].Position, ref.Position)
	}

	// Step 2: advect every non-head segment by its velocity.
	for i := 1; i < len(s.Segments); i++ {
		s.Segments[i].Position = s.Segments[i].Position.Add(s.Segments[i].Velocity)
	}

	// Step 3: steer the head.
	deltaAngle := normalizeDegrees(targetAngleDeg - s.Heading)
	maxDelta := s.MaxRotationPerStep()
	if deltaAngle > maxDelta {
		deltaAngle = maxDelta
	} else if deltaAngle < -maxDelta {
		deltaAngle = -maxDelta
	}
	s.Heading = normalizeDegrees(s.Heading + deltaAngle)

	// Step 4: advance the head along its new heading.
	movement := geometry.Vector2D{X: cfg.SnakeDistancePerStep * speedScale}.
		Rotate(s.Heading * math.Pi / 180)
	s.Segments[0].Position = s.Segments[0].Position.Add(movement)
	s.Segments[0].Velocity = movement

	// Step 5: friction on every segment.
	for i := range s.Segments {
		s.Segments[i].Velocity = s.Segments[i].Velocity.Scale(cfg.SnakeFrictionFactor)
	}

	// Step 6: spring correction, tail only.
	for i := 1; i < len(s.Segments); i++ {
		deltaV := springDeltaV(cfg, s.Segments[i].Position, s.Segments[i-1].Position)
		if i < len(s.Segments)-1 {
			deltaV = deltaV.Add(springDeltaV(cfg, s.Segments[i].Position, s.Segments[i+1].Position))
		}
		s.Segments[i].Velocity = s.Segments[i].Velocity.Add(deltaV)
	}

	// Step 7: wrap every segment back into the canonical rectangle.
	for i := range s.Segments {
		s.Segments[i].Position = torus.Wrap(s.Segments[i].Position)
	}

	s.BoostedLastMove = boost

	return len(s.Segments)
}

// HeadPosition returns the position of Segments[0].
func (s *Snake) HeadPosition() geometry.Vector2D {
	return s.Segments[0].Position
}

// CanConsume reports whether food at foodPos is within this snake's
// consume range (segment radius times the configured scale).
func (s *Snake) CanConsume(cfg config.Config, torus geometry.Torus, foodPos geometry.Vector2D) bool {
	head := s.HeadPosition()
	unwrapped := torus.Unwrap(foodPos, head)

	maxRange := s.SegmentRadius * cfg.SnakeConsumeRange
	if unwrapped.X > head.X+maxRange || unwrapped.X < head.X-maxRange ||
		unwrapped.Y > head.Y+maxRange || unwrapped.Y < head.Y-maxRange {
		return false
	}

	return head.DistanceTo(unwrapped) < maxRange
}

// SegmentFoodShare describes one segment's contribution to a kill-conversion
// food cloud, in the proportion that segment's share of total mass implies.
type SegmentFoodShare struct {
	Position geometry.Vector2D
	Value    float64
}

// ConvertToFood distributes this snake's mass across its segments as food
// particles, for Field to spawn on kill (spec.md §4.3).
func (s *Snake) ConvertToFood() []SegmentFoodShare {
	if len(s.Segments) == 0 {
		return nil
	}
	perSegment := s.Mass / float64(len(s.Segments))
	shares := make([]SegmentFoodShare, len(s.Segments))
	for i, seg := range s.Segments {
		shares[i] = SegmentFoodShare{Position: seg.Position, Value: perSegment}
	}
	return shares
}
