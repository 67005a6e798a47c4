package collisions

import (
	"testing"

	"github.com/cbodonnell/pongd/pkg/kinematic"
	"github.com/stretchr/testify/assert"
)

func TestCheckVerticalCollision(t *testing.T) {
	// paddle of height 100 in a 600 high room with a 10 unit top margin:
	// allowed range is [70, 540]
	const (
		h = 100.0
		H = 600.0
		m = 10.0
	)
	tests := []struct {
		name string
		p    float64
		want bool
	}{
		{name: "center", p: 300, want: false},
		{name: "top bound inclusive", p: 70, want: false},
		{name: "bottom bound inclusive", p: 540, want: false},
		{name: "just above top bound", p: 69.99, want: true},
		{name: "just below bottom bound", p: 540.01, want: true},
		{name: "far outside top", p: -50, want: true},
		{name: "far outside bottom", p: 900, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckVerticalCollision(tt.p, h, H, m))
		})
	}
}

func TestCheckVerticalCollision_matchesFormula(t *testing.T) {
	for _, h := range []float64{20, 100, 150} {
		for _, m := range []float64{0, 10} {
			for p := -20.0; p <= 620; p += 0.5 {
				want := p > (600-h/2)-Margin || p < h/2+Margin+m
				assert.Equal(t, want, CheckVerticalCollision(p, h, 600, m), "p=%v h=%v m=%v", p, h, m)
			}
		}
	}
}

func TestClampVertical(t *testing.T) {
	assert.Equal(t, 70.0, ClampVertical(10, 100, 600, 10))
	assert.Equal(t, 540.0, ClampVertical(599, 100, 600, 10))
	assert.Equal(t, 123.0, ClampVertical(123, 100, 600, 10))
}

func TestHitbox_Overlaps(t *testing.T) {
	paddle := HitboxAt(kinematic.Vector{X: 50, Y: 300}, 20, 100)

	tests := []struct {
		name   string
		center kinematic.Vector
		want   bool
	}{
		{name: "inside", center: kinematic.Vector{X: 55, Y: 300}, want: true},
		{name: "touching edge", center: kinematic.Vector{X: 70, Y: 300}, want: true},
		{name: "right of paddle", center: kinematic.Vector{X: 71, Y: 300}, want: false},
		{name: "above paddle", center: kinematic.Vector{X: 50, Y: 239}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HitboxAt(tt.center, 20, 20).Overlaps(paddle))
		})
	}
}
