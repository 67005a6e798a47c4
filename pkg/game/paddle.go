package game

import (
	"time"

	"github.com/cbodonnell/pongd/pkg/collisions"
	"github.com/cbodonnell/pongd/pkg/game/types"
	"github.com/cbodonnell/pongd/pkg/kinematic"
	"github.com/solarlune/resolv"
)

// multiplier scales a paddle or ball property until it expires.
type multiplier struct {
	value   float64
	expires time.Time
}

func (m *multiplier) get(now time.Time) float64 {
	if m.value == 0 || !now.Before(m.expires) {
		return 1
	}
	return m.value
}

func (m *multiplier) set(value float64, now time.Time, d time.Duration) {
	m.value = value
	m.expires = now.Add(d)
}

type Paddle struct {
	Position  kinematic.Vector
	width     float64
	height    float64
	speed     float64
	mapHeight float64
	margin    float64
	direction types.Direction
	heightMul multiplier
	speedMul  multiplier
	object    *resolv.Object
	now       time.Time
}

// NewPaddle places the paddle of slot on its side of the field. Slots past
// the first pair stand further in, twice the spawn margin from the edge.
func NewPaddle(slot int, s Settings) *Paddle {
	side := types.SideForSlot(slot)
	inset := s.PaddleSpawnMargin
	if slot > 2 {
		inset *= 2
	}
	x := inset
	if side == types.SideRight {
		x = s.MapWidth - inset
	}

	p := &Paddle{
		Position:  kinematic.Vector{X: x, Y: s.MapHeight / 2},
		width:     s.PaddleWidth,
		height:    s.PaddleHeight,
		speed:     s.PaddleSpeed,
		mapHeight: s.MapHeight,
		margin:    s.Margin,
	}
	p.object = collisions.NewObject(p.Position, p.width, p.height, types.CollisionSpaceTagPaddle)
	return p
}

func (p *Paddle) Object() *resolv.Object {
	return p.object
}

func (p *Paddle) Width() float64 {
	return p.width
}

// Height is the current height, power-ups included.
func (p *Paddle) Height() float64 {
	return p.height * p.heightMul.get(p.now)
}

func (p *Paddle) Hitbox() collisions.Hitbox {
	return collisions.HitboxAt(p.Position, p.width, p.Height())
}

func (p *Paddle) SetDirection(d types.Direction) {
	p.direction = d
}

// Stop drops any held input.
func (p *Paddle) Stop() {
	p.direction = types.Direction{}
}

func (p *Paddle) ApplyHeightMultiplier(value float64, now time.Time, d time.Duration) {
	p.now = now
	p.heightMul.set(value, now, d)
	p.Position.Y = collisions.ClampVertical(p.Position.Y, p.Height(), p.mapHeight, p.margin)
	p.sync()
}

func (p *Paddle) ApplySpeedMultiplier(value float64, now time.Time, d time.Duration) {
	p.speedMul.set(value, now, d)
}

// Update moves the paddle along its held input. A move that would cross the
// border is dropped entirely.
func (p *Paddle) Update(dt float64, now time.Time) {
	before := p.Height()
	p.now = now
	if p.Height() != before {
		p.Position.Y = collisions.ClampVertical(p.Position.Y, p.Height(), p.mapHeight, p.margin)
		p.sync()
	}

	dir := 0.0
	if p.direction.Down {
		dir++
	}
	if p.direction.Up {
		dir--
	}
	if dir == 0 {
		return
	}

	next := kinematic.Step(p.Position, kinematic.Vector{Y: dir}, p.speed*p.speedMul.get(now), dt)
	if collisions.CheckVerticalCollision(next.Y, p.Height(), p.mapHeight, p.margin) {
		return
	}
	p.Position = next
	p.sync()
}

func (p *Paddle) sync() {
	collisions.MoveObject(p.object, p.Position, p.width, p.Height())
}
