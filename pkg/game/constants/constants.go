package constants

import "time"

const (
	// MapWidth is the default width of the playing field
	MapWidth float64 = 800
	// MapHeight is the default height of the playing field
	MapHeight float64 = 600
	// Margin keeps paddles and the ball away from the field border
	Margin float64 = 10
	// MaxScore ends the match when any slot reaches it
	MaxScore int = 11

	PaddleWidth  float64 = 20
	PaddleHeight float64 = 100
	// PaddleSpeed is in map units per second
	PaddleSpeed float64 = 600
	// PaddleSpawnMargin is the distance from a paddle to its own edge
	PaddleSpawnMargin float64 = 50

	BallWidth  float64 = 20
	BallHeight float64 = 20
	// BallSpeed is the initial ball speed in map units per second
	BallSpeed float64 = 300
	// BallSpeedIncrement is added on every paddle bounce
	BallSpeedIncrement float64 = 30
	BallMaxSpeed       float64 = 600
	// BallStartDelay holds a freshly spawned ball at the center
	BallStartDelay = time.Second
	// BounceDebounce ignores a repeated bounce on the same axis
	BounceDebounce = 100 * time.Millisecond

	SimulationFPS = 60
	NetworkFPS    = 30
	// MaxDeltaSeconds clamps a simulation step after a stall
	MaxDeltaSeconds float64 = 0.05

	// ConnectTimeout removes a match whose participants never all connect
	ConnectTimeout = 60 * time.Second
	// ReconnectTimeout removes a match with a slot left disconnected
	ReconnectTimeout = 120 * time.Second

	PowerUpMinDelay = 3500 * time.Millisecond
	PowerUpMaxDelay = 7000 * time.Millisecond
	PowerUpRadius   float64 = 16

	// RankDelta is applied to every winner and loser when a ranked result is reported
	RankDelta int = 25
)
