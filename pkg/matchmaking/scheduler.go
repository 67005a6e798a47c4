package matchmaking

import (
	"context"
	"sort"
	"time"

	"github.com/cbodonnell/pongd/pkg/game"
	"github.com/cbodonnell/pongd/pkg/game/types"
	"github.com/cbodonnell/pongd/pkg/log"
)

const (
	DefaultInterval      = 200 * time.Millisecond
	DefaultRankTolerance = 100
)

// Allocator turns a matched group of players into a running match.
type Allocator interface {
	Allocate(gameType types.GameType, players []types.PlayerInfo) (*game.Match, error)
}

// Scheduler periodically assembles matches out of the queued parties.
type Scheduler struct {
	queue     *Queue
	allocator Allocator
	interval  time.Duration
	tolerance int
}

type NewSchedulerOptions struct {
	Queue     *Queue
	Allocator Allocator
	Interval  time.Duration
	// RankTolerance is the largest rank gap to the lowest ranked party of a match
	RankTolerance int
}

func NewScheduler(opts NewSchedulerOptions) *Scheduler {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	tolerance := opts.RankTolerance
	if tolerance <= 0 {
		tolerance = DefaultRankTolerance
	}
	return &Scheduler{
		queue:     opts.Queue,
		allocator: opts.Allocator,
		interval:  interval,
		tolerance: tolerance,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

type placement struct {
	match   *game.Match
	parties []*Party
}

// Tick runs one scheduling pass over every game type. It forms at most one
// match per type.
func (s *Scheduler) Tick() {
	var placed []placement

	s.queue.mu.Lock()
	for _, gt := range types.GameTypes {
		if p, ok := s.scheduleLocked(gt); ok {
			placed = append(placed, p)
		}
	}
	s.queue.mu.Unlock()

	for _, p := range placed {
		for _, party := range p.parties {
			party.matched(p.match)
		}
	}
}

func (s *Scheduler) scheduleLocked(gt types.GameType) (placement, bool) {
	queued := s.queue.parties[gt]
	if len(queued) == 0 {
		return placement{}, false
	}
	sort.SliceStable(queued, func(i, j int) bool {
		return queued[i].Rank() < queued[j].Rank()
	})

	capacity := gt.MaxPlayers()
	base := queued[0].Rank()
	count := 0
	var collected []*Party
	for _, p := range queued {
		gap := p.Rank() - base
		if gap < 0 {
			gap = -gap
		}
		if gap > s.tolerance || count+p.Size() > capacity {
			continue
		}
		collected = append(collected, p)
		count += p.Size()
		if count == capacity {
			break
		}
	}
	if count != capacity {
		return placement{}, false
	}

	var players []types.PlayerInfo
	for _, p := range collected {
		s.queue.removeLocked(p)
		players = append(players, p.players()...)
	}

	match, err := s.allocator.Allocate(gt, players)
	if err != nil {
		// Put the group back where it was so it is retried next tick.
		s.queue.parties[gt] = append(append([]*Party{}, collected...), s.queue.parties[gt]...)
		log.Error("Failed to allocate %s match for %d parties: %v", gt, len(collected), err)
		return placement{}, false
	}

	for _, p := range collected {
		p.setState(PartyStateIdle)
	}
	s.queue.notifyLocked(gt)
	log.Info("Matched %d %s parties into match %d", len(collected), gt, match.ID())
	return placement{match: match, parties: collected}, true
}
