package config

import (
	"fmt"
	"time"

	"github.com/cbodonnell/pongd/pkg/game"
	"github.com/cbodonnell/pongd/pkg/matchmaking"
	"gopkg.in/ini.v1"
)

// Config holds the game tuning read from an ini file. Every key is
// optional; missing keys keep their defaults.
type Config struct {
	Game                game.Settings
	MatchmakingInterval time.Duration
	RankTolerance       int
}

func Default() *Config {
	return &Config{
		Game:                game.DefaultSettings(),
		MatchmakingInterval: matchmaking.DefaultInterval,
		RankTolerance:       matchmaking.DefaultRankTolerance,
	}
}

// Load reads the file at path. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	cfg, err := Parse(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load game config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse reads a config from any source accepted by ini.Load: a file name,
// a []byte or an io.Reader.
func Parse(source interface{}) (*Config, error) {
	file, err := ini.Load(source)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	r := reader{file: file}
	s := &cfg.Game

	r.float("map", "width", &s.MapWidth)
	r.float("map", "height", &s.MapHeight)

	r.float("paddle", "width", &s.PaddleWidth)
	r.float("paddle", "height", &s.PaddleHeight)
	r.float("paddle", "speed", &s.PaddleSpeed)
	r.float("paddle", "spawn_margin", &s.PaddleSpawnMargin)

	r.float("ball", "width", &s.BallWidth)
	r.float("ball", "height", &s.BallHeight)
	r.float("ball", "speed", &s.BallSpeed)
	r.float("ball", "speed_increment", &s.BallSpeedIncrement)
	r.float("ball", "max_speed", &s.BallMaxSpeed)
	r.duration("ball", "start_delay", &s.BallStartDelay)
	r.duration("ball", "bounce_debounce", &s.BounceDebounce)

	r.float("match", "margin", &s.Margin)
	r.int("match", "max_score", &s.MaxScore)
	r.int("match", "simulation_fps", &s.SimulationFPS)
	r.int("match", "network_fps", &s.NetworkFPS)
	r.duration("match", "connect_timeout", &s.ConnectTimeout)
	r.duration("match", "reconnect_timeout", &s.ReconnectTimeout)

	r.bool("powerups", "enabled", &s.PowerUps.Enabled)
	r.duration("powerups", "min_delay", &s.PowerUps.MinDelay)
	r.duration("powerups", "max_delay", &s.PowerUps.MaxDelay)
	r.float("powerups", "radius", &s.PowerUps.Radius)

	r.duration("matchmaking", "interval", &cfg.MatchmakingInterval)
	r.int("matchmaking", "rank_tolerance", &cfg.RankTolerance)

	if r.err != nil {
		return nil, r.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the simulation cannot run with.
func (c *Config) Validate() error {
	s := c.Game
	switch {
	case s.MapWidth <= 0 || s.MapHeight <= 0:
		return fmt.Errorf("map size must be positive, got %vx%v", s.MapWidth, s.MapHeight)
	case s.PaddleHeight <= 0 || s.PaddleHeight >= s.MapHeight-2*s.Margin:
		return fmt.Errorf("paddle height %v does not fit the map", s.PaddleHeight)
	case s.BallSpeed <= 0 || s.BallMaxSpeed < s.BallSpeed:
		return fmt.Errorf("ball speed must be positive and at most max_speed")
	case s.MaxScore <= 0:
		return fmt.Errorf("max_score must be positive, got %d", s.MaxScore)
	case s.SimulationFPS <= 0 || s.NetworkFPS <= 0:
		return fmt.Errorf("fps must be positive")
	case s.PowerUps.MinDelay > s.PowerUps.MaxDelay:
		return fmt.Errorf("powerups min_delay %s exceeds max_delay %s", s.PowerUps.MinDelay, s.PowerUps.MaxDelay)
	case c.MatchmakingInterval <= 0:
		return fmt.Errorf("matchmaking interval must be positive")
	case c.RankTolerance < 0:
		return fmt.Errorf("rank_tolerance must not be negative")
	}
	return nil
}

// reader keeps the first parse error so the keys can be read in one pass.
type reader struct {
	file *ini.File
	err  error
}

func (r *reader) key(section, name string) *ini.Key {
	if r.err != nil {
		return nil
	}
	sec, err := r.file.GetSection(section)
	if err != nil {
		return nil
	}
	key, err := sec.GetKey(name)
	if err != nil {
		return nil
	}
	return key
}

func (r *reader) fail(section, name string, err error) {
	r.err = fmt.Errorf("invalid value for [%s] %s: %w", section, name, err)
}

func (r *reader) float(section, name string, dst *float64) {
	if key := r.key(section, name); key != nil {
		v, err := key.Float64()
		if err != nil {
			r.fail(section, name, err)
			return
		}
		*dst = v
	}
}

func (r *reader) int(section, name string, dst *int) {
	if key := r.key(section, name); key != nil {
		v, err := key.Int()
		if err != nil {
			r.fail(section, name, err)
			return
		}
		*dst = v
	}
}

func (r *reader) bool(section, name string, dst *bool) {
	if key := r.key(section, name); key != nil {
		v, err := key.Bool()
		if err != nil {
			r.fail(section, name, err)
			return
		}
		*dst = v
	}
}

func (r *reader) duration(section, name string, dst *time.Duration) {
	if key := r.key(section, name); key != nil {
		v, err := key.Duration()
		if err != nil {
			r.fail(section, name, err)
			return
		}
		*dst = v
	}
}
