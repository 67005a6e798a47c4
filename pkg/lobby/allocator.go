package lobby

import (
	"context"
	"fmt"
	"sync"

	"github.com/cbodonnell/pongd/pkg/game"
	"github.com/cbodonnell/pongd/pkg/game/types"
	"github.com/cbodonnell/pongd/pkg/idgen"
	"github.com/cbodonnell/pongd/pkg/log"
	"github.com/cbodonnell/pongd/pkg/metrics"
)

// DefaultMaxAttempts bounds the number of ids minted for one allocation.
const DefaultMaxAttempts = 8

type AllocationError struct {
	GameType types.GameType
	Err      error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("failed to allocate %s match: %v", e.GameType, e.Err)
}

func (e *AllocationError) Unwrap() error {
	return e.Err
}

// Allocator mints match ids, creates matches and keeps the registry of the
// live ones. Matches leave the registry once they close.
type Allocator struct {
	mu      sync.RWMutex
	matches map[uint32]*game.Match

	ctx         context.Context
	ids         *idgen.Generator
	settings    game.Settings
	reporter    game.Reporter
	metrics     *metrics.Metrics
	maxAttempts int
	// start runs a new match, tests replace it to drive matches by hand
	start func(ctx context.Context, m *game.Match)
}

type NewAllocatorOptions struct {
	// Context bounds the lifetime of every match
	Context     context.Context
	IDs         *idgen.Generator
	Settings    game.Settings
	Reporter    game.Reporter
	Metrics     *metrics.Metrics
	MaxAttempts int
}

func NewAllocator(opts NewAllocatorOptions) *Allocator {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	ids := opts.IDs
	if ids == nil {
		ids = idgen.New()
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Allocator{
		matches:     map[uint32]*game.Match{},
		ctx:         ctx,
		ids:         ids,
		settings:    opts.Settings,
		reporter:    opts.Reporter,
		metrics:     opts.Metrics,
		maxAttempts: maxAttempts,
		start:       func(ctx context.Context, m *game.Match) { go m.Run(ctx) },
	}
}

// Allocate creates and starts a match for players, in slot order.
func (a *Allocator) Allocate(gameType types.GameType, players []types.PlayerInfo) (*game.Match, error) {
	if len(players) < 2 {
		return nil, &AllocationError{GameType: gameType, Err: fmt.Errorf("need at least 2 players, got %d", len(players))}
	}
	first := idgen.ParticipantFragment(players[0].PlayerID)
	second := idgen.ParticipantFragment(players[1].PlayerID)

	a.mu.Lock()
	id, err := a.mintLocked(first, second)
	if err != nil {
		a.mu.Unlock()
		return nil, &AllocationError{GameType: gameType, Err: err}
	}

	match, err := game.NewMatch(game.NewMatchOptions{
		ID:           id,
		GameType:     gameType,
		Players:      players,
		Settings:     a.settings,
		Reporter:     a.reporter,
		OnClosed:     a.remove,
		TickObserver: a.metrics.ObserveTick,
	})
	if err != nil {
		a.mu.Unlock()
		return nil, &AllocationError{GameType: gameType, Err: err}
	}
	a.matches[id] = match
	a.mu.Unlock()

	a.metrics.MatchCreated(gameType)
	log.Info("Created %s match %d", gameType, id)
	a.start(a.ctx, match)
	return match, nil
}

// mintLocked returns an id no live match uses. Zero is never handed out.
func (a *Allocator) mintLocked(first, second uint32) (uint32, error) {
	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		id := a.ids.Next(first, second)
		if _, taken := a.matches[id]; !taken && id != 0 {
			return id, nil
		}
		log.Debug("Match id %d is in use, minting another", id)
	}
	return 0, fmt.Errorf("no free match id after %d attempts", a.maxAttempts)
}

func (a *Allocator) Get(id uint32) (*game.Match, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	m, ok := a.matches[id]
	return m, ok
}

// Count returns the number of live matches.
func (a *Allocator) Count() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.matches)
}

func (a *Allocator) remove(m *game.Match) {
	a.mu.Lock()
	current, ok := a.matches[m.ID()]
	if ok && current == m {
		delete(a.matches, m.ID())
	}
	a.mu.Unlock()

	if ok && current == m {
		a.metrics.MatchClosed()
		log.Info("Removed match %d", m.ID())
	}
}
