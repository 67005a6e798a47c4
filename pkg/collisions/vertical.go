package collisions

// Margin is the fixed gap kept between an actor and the top or bottom border.
const Margin float64 = 10

// CheckVerticalCollision reports whether an actor of height h centered at p
// would cross the border of a room of height roomHeight. m is an extra
// margin applied to the top border only.
func CheckVerticalCollision(p, h, roomHeight, m float64) bool {
	blockedBottom := p > (roomHeight-h/2)-Margin
	blockedTop := p < h/2+Margin+m
	return blockedTop || blockedBottom
}

// ClampVertical returns the position closest to p that CheckVerticalCollision accepts.
func ClampVertical(p, h, roomHeight, m float64) float64 {
	if top := h/2 + Margin + m; p < top {
		return top
	}
	if bottom := (roomHeight - h/2) - Margin; p > bottom {
		return bottom
	}
	return p
}
