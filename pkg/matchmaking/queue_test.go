package matchmaking

import (
	"errors"
	"testing"

	"github.com/cbodonnell/pongd/pkg/game/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isInvalidParam(err error) bool {
	var paramErr *InvalidParamError
	return errors.As(err, &paramErr)
}

func TestQueue_EnqueueDequeue(t *testing.T) {
	q := NewQueue()
	p := newTestParty(t, types.GameTypeRanked, 50)

	require.NoError(t, q.Enqueue(p))
	assert.True(t, q.Contains(p))
	assert.Equal(t, 1, q.Size(types.GameTypeRanked))
	assert.Equal(t, 0, q.Size(types.GameTypeTournament))
	assert.Equal(t, PartyStateInQueue, p.State())

	require.NoError(t, q.Dequeue(p))
	assert.False(t, q.Contains(p))
	assert.Equal(t, 0, q.Size(types.GameTypeRanked))
	assert.Equal(t, PartyStateIdle, p.State())
}

func TestQueue_invalidParams(t *testing.T) {
	q := NewQueue()
	p := newTestParty(t, types.GameTypeRanked, 50)

	assert.True(t, isInvalidParam(q.Enqueue(nil)))
	assert.True(t, isInvalidParam(q.Dequeue(nil)))
	assert.True(t, isInvalidParam(q.Enqueue(&Party{gameType: types.GameTypeRanked})), "empty party")
	assert.True(t, isInvalidParam(q.Enqueue(&Party{gameType: "CASUAL", members: []Member{{PlayerID: "1"}}})))
	assert.True(t, isInvalidParam(q.Dequeue(p)), "party was never queued")

	require.NoError(t, q.Enqueue(p))
	assert.True(t, isInvalidParam(q.Enqueue(p)), "duplicate enqueue")
	assert.Equal(t, 1, q.Size(types.GameTypeRanked))
}

func TestQueue_dequeueByIdentity(t *testing.T) {
	q := NewQueue()
	a := newTestParty(t, types.GameTypeRanked, 50)
	b := &Party{gameType: a.gameType, members: a.Members(), leader: a.Leader()}

	require.NoError(t, q.Enqueue(a))
	assert.True(t, isInvalidParam(q.Dequeue(b)), "an equal party is not the queued one")
	assert.True(t, q.Contains(a))
}

func TestQueue_observer(t *testing.T) {
	q := NewQueue()
	var sizes []int
	q.SetObserver(func(gt types.GameType, n int) {
		assert.Equal(t, types.GameTypeRanked, gt)
		sizes = append(sizes, n)
	})
	a := newTestParty(t, types.GameTypeRanked, 50)
	require.NoError(t, q.Enqueue(a))
	require.NoError(t, q.Dequeue(a))
	assert.Equal(t, []int{1, 0}, sizes)
}
