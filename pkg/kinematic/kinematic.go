package kinematic

// This package includes the motion helpers shared by the ball and paddles.

import (
	"math"
)

// Vector is a 2D position, direction or velocity in map units.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vector) Scale(s float64) Vector {
	return Vector{X: v.X * s, Y: v.Y * s}
}

// Displacement returns the displacement of an object given its initial velocity, time, and acceleration.
func Displacement(initialVelocity float64, time float64, acceleration float64) float64 {
	return initialVelocity*time + 0.5*acceleration*math.Pow(time, 2)
}

// Step returns the position reached after moving along direction at speed for dt seconds.
func Step(position, direction Vector, speed, dt float64) Vector {
	return Vector{
		X: position.X + Displacement(direction.X*speed, dt, 0),
		Y: position.Y + Displacement(direction.Y*speed, dt, 0),
	}
}
