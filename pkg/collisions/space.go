package collisions

import (
	"github.com/cbodonnell/pongd/pkg/kinematic"
	"github.com/solarlune/resolv"
)

// CellSize is the resolv cell edge used for the playing field.
const CellSize = 20

// NewCollisionSpace returns a broad phase space covering a width x height field.
func NewCollisionSpace(width, height float64) *resolv.Space {
	return resolv.NewSpace(int(width), int(height), CellSize, CellSize)
}

// NewObject creates a resolv object for a box centered on center.
func NewObject(center kinematic.Vector, width, height float64, tags ...string) *resolv.Object {
	return resolv.NewObject(center.X-width/2, center.Y-height/2, width, height, tags...)
}

// MoveObject re-centers obj on center with the given size and refreshes its cells.
func MoveObject(obj *resolv.Object, center kinematic.Vector, width, height float64) {
	obj.Position.X = center.X - width/2
	obj.Position.Y = center.Y - height/2
	obj.Size.X = width
	obj.Size.Y = height
	if obj.Space != nil {
		obj.Update()
	}
}

// Hitbox is an axis aligned box in field coordinates, y growing downwards.
type Hitbox struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

func HitboxAt(center kinematic.Vector, width, height float64) Hitbox {
	return Hitbox{
		Top:    center.Y - height/2,
		Bottom: center.Y + height/2,
		Left:   center.X - width/2,
		Right:  center.X + width/2,
	}
}

// Overlaps reports whether the boxes touch or intersect.
func (h Hitbox) Overlaps(o Hitbox) bool {
	return h.Right >= o.Left && h.Left <= o.Right && h.Bottom >= o.Top && h.Top <= o.Bottom
}
