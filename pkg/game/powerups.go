package game

import (
	"math"
	"time"

	"github.com/cbodonnell/pongd/pkg/kinematic"
	"github.com/cbodonnell/pongd/pkg/messages"
)

type PowerUpType string

const (
	PowerUpGiantPaddle PowerUpType = "GIANT_PADDLE"
	PowerUpQuickFeet   PowerUpType = "QUICK_FEET"
	PowerUpFrozenRival PowerUpType = "FROZEN_RIVAL"
	PowerUpHyperBall   PowerUpType = "HYPER_BALL"
)

var powerUpTypes = []PowerUpType{PowerUpGiantPaddle, PowerUpQuickFeet, PowerUpFrozenRival, PowerUpHyperBall}

type powerUpEffect struct {
	multiplier float64
	duration   time.Duration
}

var powerUpEffects = map[PowerUpType]powerUpEffect{
	PowerUpGiantPaddle: {multiplier: 1.5, duration: 8 * time.Second},
	PowerUpQuickFeet:   {multiplier: 1.35, duration: 7 * time.Second},
	PowerUpFrozenRival: {multiplier: 0.68, duration: 6 * time.Second},
	PowerUpHyperBall:   {multiplier: 1.28, duration: 6 * time.Second},
}

type PowerUp struct {
	ID       int
	Type     PowerUpType
	Position kinematic.Vector
	Radius   float64
}

type Effect struct {
	ID         int
	Type       PowerUpType
	TargetSlot int
	ExpiresAt  time.Time
}

func (m *Match) schedulePowerUpLocked(now time.Time) {
	s := m.settings.PowerUps
	delay := s.MinDelay
	if span := s.MaxDelay - s.MinDelay; span > 0 {
		delay += time.Duration(m.rng.Int63n(int64(span)))
	}
	m.nextPowerUpAt = now.Add(delay)
}

// spawnPowerUpLocked drops a power-up somewhere in the central area, away
// from the paddles' lanes.
func (m *Match) spawnPowerUpLocked(now time.Time) {
	marginX := math.Min(150, m.settings.MapWidth*0.2)
	marginY := math.Min(120, m.settings.MapHeight*0.2)
	spanX := math.Max(1, m.settings.MapWidth-marginX*2)
	spanY := math.Max(1, m.settings.MapHeight-marginY*2)

	m.powerUpSeq++
	m.powerUp = &PowerUp{
		ID:   m.powerUpSeq,
		Type: powerUpTypes[m.rng.Intn(len(powerUpTypes))],
		Position: kinematic.Vector{
			X: math.Floor(marginX + m.rng.Float64()*spanX),
			Y: math.Floor(marginY + m.rng.Float64()*spanY),
		},
		Radius: m.settings.PowerUps.Radius,
	}
	m.schedulePowerUpLocked(now)
	m.logger.Debug("Power-up %s spawned at (%v, %v)", m.powerUp.Type, m.powerUp.Position.X, m.powerUp.Position.Y)
}

func (m *Match) updatePowerUpsLocked(now time.Time) {
	if !m.settings.PowerUps.Enabled {
		return
	}

	active := m.effects[:0]
	for _, e := range m.effects {
		if now.Before(e.ExpiresAt) {
			active = append(active, e)
		}
	}
	m.effects = active

	if m.ball == nil {
		return
	}
	if m.powerUp == nil {
		if !now.Before(m.nextPowerUpAt) {
			m.spawnPowerUpLocked(now)
		}
		return
	}

	dx := m.ball.Position.X - m.powerUp.Position.X
	dy := m.ball.Position.Y - m.powerUp.Position.Y
	reach := m.ball.Radius() + m.powerUp.Radius
	if dx*dx+dy*dy > reach*reach {
		return
	}

	collector := m.lastTouchSlot
	if collector == 0 {
		// nobody touched this ball yet: credit the side it is flying away from
		collector = 2
		if m.ball.Direction.X >= 0 {
			collector = 1
		}
	}
	taken := m.powerUp.Type
	m.powerUp = nil
	m.applyPowerUpLocked(taken, collector, now)
	m.schedulePowerUpLocked(now)
	m.logger.Debug("Slot %d collected power-up %s", collector, taken)
}

func (m *Match) applyPowerUpLocked(t PowerUpType, collectorSlot int, now time.Time) {
	effect := powerUpEffects[t]
	collector := m.participant(collectorSlot)
	if collector == nil {
		return
	}

	switch t {
	case PowerUpGiantPaddle:
		collector.paddle.ApplyHeightMultiplier(effect.multiplier, now, effect.duration)
		m.registerEffectLocked(t, collectorSlot, now, effect.duration)
	case PowerUpQuickFeet:
		collector.paddle.ApplySpeedMultiplier(effect.multiplier, now, effect.duration)
		m.registerEffectLocked(t, collectorSlot, now, effect.duration)
	case PowerUpFrozenRival:
		for _, p := range m.participants {
			if p.Side != collector.Side {
				p.paddle.ApplySpeedMultiplier(effect.multiplier, now, effect.duration)
				m.registerEffectLocked(t, p.Slot, now, effect.duration)
			}
		}
	case PowerUpHyperBall:
		if m.ball != nil {
			m.ball.ApplySpeedMultiplier(effect.multiplier, now, effect.duration)
		}
		m.registerEffectLocked(t, collectorSlot, now, effect.duration)
	}
}

func (m *Match) registerEffectLocked(t PowerUpType, slot int, now time.Time, d time.Duration) {
	m.effectSeq++
	m.effects = append(m.effects, &Effect{
		ID:         m.effectSeq,
		Type:       t,
		TargetSlot: slot,
		ExpiresAt:  now.Add(d),
	})
}

func (m *Match) powerUpSnapshotLocked(now time.Time) (*messages.PowerUpSnapshot, []messages.EffectSnapshot) {
	effects := make([]messages.EffectSnapshot, 0, len(m.effects))
	for _, e := range m.effects {
		effects = append(effects, messages.EffectSnapshot{
			ID:          e.ID,
			Type:        string(e.Type),
			TargetSlot:  e.TargetSlot,
			RemainingMs: max(0, e.ExpiresAt.Sub(now).Milliseconds()),
		})
	}
	if m.powerUp == nil {
		return nil, effects
	}
	return &messages.PowerUpSnapshot{
		ID:       m.powerUp.ID,
		Type:     string(m.powerUp.Type),
		Position: m.powerUp.Position,
		Radius:   m.powerUp.Radius,
	}, effects
}
