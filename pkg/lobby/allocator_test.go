package lobby

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cbodonnell/pongd/pkg/game"
	"github.com/cbodonnell/pongd/pkg/game/types"
	"github.com/cbodonnell/pongd/pkg/idgen"
	"github.com/cbodonnell/pongd/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rankedPlayers = []types.PlayerInfo{
	{PlayerID: "3", Name: "ana", Rank: 100},
	{PlayerID: "5", Name: "bo", Rank: 120},
}

// newManualAllocator returns an allocator that does not run its matches.
func newManualAllocator(opts NewAllocatorOptions) *Allocator {
	if opts.Settings == (game.Settings{}) {
		opts.Settings = game.DefaultSettings()
	}
	a := NewAllocator(opts)
	a.start = func(context.Context, *game.Match) {}
	return a
}

func TestAllocator_Allocate(t *testing.T) {
	m := metrics.New()
	a := newManualAllocator(NewAllocatorOptions{Metrics: m})

	match, err := a.Allocate(types.GameTypeRanked, rankedPlayers)
	require.NoError(t, err)
	assert.Equal(t, types.GameTypeRanked, match.GameType())
	assert.Len(t, match.Participants(), 2)

	fields := idgen.Unpack(match.ID())
	assert.Equal(t, uint32(3), fields.First)
	assert.Equal(t, uint32(5), fields.Second)

	got, ok := a.Get(match.ID())
	require.True(t, ok)
	assert.Same(t, match, got)
	assert.Equal(t, 1, a.Count())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveMatches))

	match.Close(1000, "test")
	_, ok = a.Get(match.ID())
	assert.False(t, ok)
	assert.Equal(t, 0, a.Count())
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ActiveMatches))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MatchesCreated.WithLabelValues("RANKED")))
}

func TestAllocator_Allocate_invalid(t *testing.T) {
	a := newManualAllocator(NewAllocatorOptions{})

	tests := []struct {
		name     string
		gameType types.GameType
		players  []types.PlayerInfo
	}{
		{name: "too few players", gameType: types.GameTypeRanked, players: rankedPlayers[:1]},
		{name: "tournament needs four", gameType: types.GameTypeTournament, players: rankedPlayers},
		{name: "unknown game type", gameType: "CASUAL", players: rankedPlayers},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Allocate(tt.gameType, tt.players)
			var allocErr *AllocationError
			require.True(t, errors.As(err, &allocErr))
			assert.Equal(t, tt.gameType, allocErr.GameType)
		})
	}
	assert.Equal(t, 0, a.Count())
}

func TestAllocator_Allocate_remintsOnCollision(t *testing.T) {
	// A frozen clock yields the same timestamp, so only the sequence differs.
	now := time.UnixMilli(1_700_000_000_123)
	ids := idgen.NewWithClock(func() time.Time { return now })
	a := newManualAllocator(NewAllocatorOptions{IDs: ids})

	taken := idgen.Pack(now.UnixMilli(), 3, 5, 1)
	a.matches[taken] = &game.Match{}

	// the first id uses sequence 0, the second one collides with taken
	first, err := a.Allocate(types.GameTypeRanked, rankedPlayers)
	require.NoError(t, err)
	second, err := a.Allocate(types.GameTypeRanked, rankedPlayers)
	require.NoError(t, err)

	assert.Equal(t, uint32(0), idgen.Unpack(first.ID()).Sequence)
	assert.Equal(t, uint32(2), idgen.Unpack(second.ID()).Sequence)
	assert.Equal(t, 3, a.Count())
}

func TestAllocator_Allocate_exhausted(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_123)
	ids := idgen.NewWithClock(func() time.Time { return now })
	a := newManualAllocator(NewAllocatorOptions{IDs: ids, MaxAttempts: 2})
	for seq := uint32(0); seq < 2; seq++ {
		a.matches[idgen.Pack(now.UnixMilli(), 3, 5, seq)] = &game.Match{}
	}

	_, err := a.Allocate(types.GameTypeRanked, rankedPlayers)
	var allocErr *AllocationError
	assert.True(t, errors.As(err, &allocErr))
}

func TestAllocator_runsMatches(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := NewAllocator(NewAllocatorOptions{Context: ctx, Settings: game.DefaultSettings()})

	match, err := a.Allocate(types.GameTypeRanked, rankedPlayers)
	require.NoError(t, err)

	cancel()
	select {
	case <-match.Done():
	case <-time.After(time.Second):
		t.Fatal("match did not stop with its context")
	}
	require.Eventually(t, func() bool { return a.Count() == 0 }, time.Second, 10*time.Millisecond)
}
