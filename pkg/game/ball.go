package game

import (
	"math"
	"math/rand"
	"time"

	"github.com/cbodonnell/pongd/pkg/collisions"
	"github.com/cbodonnell/pongd/pkg/game/types"
	"github.com/cbodonnell/pongd/pkg/kinematic"
	"github.com/solarlune/resolv"
)

type Ball struct {
	Position  kinematic.Vector
	Direction kinematic.Vector
	width     float64
	height    float64
	speed     float64
	increment float64
	maxSpeed  float64
	mapWidth  float64
	mapHeight float64
	margin    float64
	startAt   time.Time
	debounce  time.Duration
	speedMul  multiplier

	lastBounceAxis types.Axis
	lastBounceAt   time.Time

	object *resolv.Object
}

// NewBall spawns a ball at the center of the field. It heads towards the
// side that scored last, or a random side on the first serve, and starts
// moving once the start delay has passed.
func NewBall(s Settings, lastScorer types.Side, now time.Time, rng *rand.Rand) *Ball {
	randomSign := func() float64 {
		if rng.Intn(2) == 0 {
			return -1
		}
		return 1
	}

	dir := kinematic.Vector{X: randomSign(), Y: randomSign()}
	if lastScorer != "" {
		dir.X = lastScorer.Sign()
	}

	b := &Ball{
		Position:  kinematic.Vector{X: s.MapWidth / 2, Y: s.MapHeight / 2},
		Direction: dir,
		width:     s.BallWidth,
		height:    s.BallHeight,
		speed:     s.BallSpeed,
		increment: s.BallSpeedIncrement,
		maxSpeed:  s.BallMaxSpeed,
		mapWidth:  s.MapWidth,
		mapHeight: s.MapHeight,
		margin:    s.Margin,
		startAt:   now.Add(s.BallStartDelay),
		debounce:  s.BounceDebounce,
	}
	b.object = collisions.NewObject(b.Position, b.width, b.height, types.CollisionSpaceTagBall)
	return b
}

func (b *Ball) Object() *resolv.Object {
	return b.object
}

func (b *Ball) Started(now time.Time) bool {
	return !now.Before(b.startAt)
}

// Speed is the current speed, power-ups included.
func (b *Ball) Speed(now time.Time) float64 {
	return b.speed * b.speedMul.get(now)
}

func (b *Ball) Radius() float64 {
	return b.width / 2
}

func (b *Ball) Hitbox() collisions.Hitbox {
	return collisions.HitboxAt(b.Position, b.width, b.height)
}

func (b *Ball) ApplySpeedMultiplier(value float64, now time.Time, d time.Duration) {
	b.speedMul.set(value, now, d)
}

// Move advances the ball by dt seconds and bounces it off the top and bottom
// walls. It returns the side that scored when the ball reached the left or
// right edge, or an empty side.
func (b *Ball) Move(dt float64, now time.Time) types.Side {
	if !b.Started(now) || dt <= 0 {
		return ""
	}

	b.Position = kinematic.Step(b.Position, b.Direction, b.Speed(now), dt)

	var scorer types.Side
	switch {
	case b.Position.X <= b.margin:
		scorer = types.SideRight
	case b.Position.X >= b.mapWidth-b.margin:
		scorer = types.SideLeft
	}

	hitTop := b.Position.Y <= b.margin
	hitBottom := b.Position.Y >= b.mapHeight-b.margin
	if hitTop || hitBottom {
		if hitTop {
			b.Position.Y = b.margin
		} else {
			b.Position.Y = b.mapHeight - b.margin
		}
		b.Bounce(types.AxisY, now)
	}

	collisions.MoveObject(b.object, b.Position, b.width, b.height)
	return scorer
}

// Bounce flips the direction along axis. A bounce on the x axis also speeds
// the ball up. Repeated bounces on the same axis inside the debounce window
// are ignored; the return value reports whether the bounce was applied.
func (b *Ball) Bounce(axis types.Axis, now time.Time) bool {
	if !axis.Valid() {
		return false
	}
	if axis == b.lastBounceAxis && now.Sub(b.lastBounceAt) < b.debounce {
		return false
	}
	b.lastBounceAxis = axis
	b.lastBounceAt = now

	switch axis {
	case types.AxisX:
		b.Direction.X = -b.Direction.X
		if b.speed < b.maxSpeed {
			b.speed = math.Min(b.speed+b.increment, b.maxSpeed)
		}
	case types.AxisY:
		b.Direction.Y = -b.Direction.Y
	}
	return true
}
