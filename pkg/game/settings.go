package game

import (
	"time"

	"github.com/cbodonnell/pongd/pkg/game/constants"
)

// Settings tunes the simulation of every match created with it.
type Settings struct {
	MapWidth  float64
	MapHeight float64
	Margin    float64
	MaxScore  int

	PaddleWidth       float64
	PaddleHeight      float64
	PaddleSpeed       float64
	PaddleSpawnMargin float64

	BallWidth          float64
	BallHeight         float64
	BallSpeed          float64
	BallSpeedIncrement float64
	BallMaxSpeed       float64
	BallStartDelay     time.Duration
	BounceDebounce     time.Duration

	SimulationFPS int
	NetworkFPS    int

	ConnectTimeout   time.Duration
	ReconnectTimeout time.Duration

	PowerUps PowerUpSettings
}

type PowerUpSettings struct {
	Enabled  bool
	MinDelay time.Duration
	MaxDelay time.Duration
	Radius   float64
}

func DefaultSettings() Settings {
	return Settings{
		MapWidth:           constants.MapWidth,
		MapHeight:          constants.MapHeight,
		Margin:             constants.Margin,
		MaxScore:           constants.MaxScore,
		PaddleWidth:        constants.PaddleWidth,
		PaddleHeight:       constants.PaddleHeight,
		PaddleSpeed:        constants.PaddleSpeed,
		PaddleSpawnMargin:  constants.PaddleSpawnMargin,
		BallWidth:          constants.BallWidth,
		BallHeight:         constants.BallHeight,
		BallSpeed:          constants.BallSpeed,
		BallSpeedIncrement: constants.BallSpeedIncrement,
		BallMaxSpeed:       constants.BallMaxSpeed,
		BallStartDelay:     constants.BallStartDelay,
		BounceDebounce:     constants.BounceDebounce,
		SimulationFPS:      constants.SimulationFPS,
		NetworkFPS:         constants.NetworkFPS,
		ConnectTimeout:     constants.ConnectTimeout,
		ReconnectTimeout:   constants.ReconnectTimeout,
		PowerUps: PowerUpSettings{
			Enabled:  true,
			MinDelay: constants.PowerUpMinDelay,
			MaxDelay: constants.PowerUpMaxDelay,
			Radius:   constants.PowerUpRadius,
		},
	}
}

func (s Settings) simulationInterval() time.Duration {
	if s.SimulationFPS <= 0 {
		return time.Second / constants.SimulationFPS
	}
	return time.Second / time.Duration(s.SimulationFPS)
}

func (s Settings) networkInterval() time.Duration {
	if s.NetworkFPS <= 0 {
		return time.Second / constants.NetworkFPS
	}
	return time.Second / time.Duration(s.NetworkFPS)
}
