package workers

import (
	"context"
	"errors"
	"testing"

	mocks "github.com/cbodonnell/pongd/mocks/github.com/cbodonnell/pongd/pkg/users"
	"github.com/cbodonnell/pongd/pkg/game"
	"github.com/cbodonnell/pongd/pkg/game/types"
	"github.com/cbodonnell/pongd/pkg/queue"
	"github.com/cbodonnell/pongd/pkg/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReportWorker_Flush(t *testing.T) {
	tests := []struct {
		name   string
		report func(w *ReportWorker)
		expect func(svc *mocks.Service)
	}{
		{
			name:   "in game",
			report: func(w *ReportWorker) { w.PlayerInGame("1", true) },
			expect: func(svc *mocks.Service) {
				svc.EXPECT().SetInGame(mock.Anything, "1", true).Return(nil).Once()
			},
		},
		{
			name:   "in queue",
			report: func(w *ReportWorker) { w.PlayerInQueue("2", false) },
			expect: func(svc *mocks.Service) {
				svc.EXPECT().SetInQueue(mock.Anything, "2", false).Return(nil).Once()
			},
		},
		{
			name: "ranked result",
			report: func(w *ReportWorker) {
				w.MatchEnded(game.Result{
					MatchID:     1,
					GameType:    types.GameTypeRanked,
					WinningSide: types.SideLeft,
					Players: []game.ResultPlayer{
						{Slot: 1, PlayerID: "1", Rank: 100, Winner: true},
						{Slot: 2, PlayerID: "2", Rank: 10},
					},
				})
			},
			expect: func(svc *mocks.Service) {
				svc.EXPECT().SetInGame(mock.Anything, "1", false).Return(nil).Once()
				svc.EXPECT().SetRank(mock.Anything, "1", 125).Return(nil).Once()
				svc.EXPECT().SetInGame(mock.Anything, "2", false).Return(nil).Once()
				svc.EXPECT().SetRank(mock.Anything, "2", 0).Return(nil).Once()
			},
		},
		{
			name: "tournament result keeps ranks",
			report: func(w *ReportWorker) {
				w.MatchEnded(game.Result{
					GameType:    types.GameTypeTournament,
					WinningSide: types.SideRight,
					Players: []game.ResultPlayer{
						{Slot: 1, PlayerID: "1"}, {Slot: 2, PlayerID: "2", Winner: true},
						{Slot: 3, PlayerID: "3"}, {Slot: 4, PlayerID: "4", Winner: true},
					},
				})
			},
			expect: func(svc *mocks.Service) {
				for _, id := range []string{"1", "2", "3", "4"} {
					svc.EXPECT().SetInGame(mock.Anything, id, false).Return(nil).Once()
				}
			},
		},
		{
			name: "abandoned ranked match keeps ranks",
			report: func(w *ReportWorker) {
				w.MatchEnded(game.Result{
					GameType: types.GameTypeRanked,
					Players:  []game.ResultPlayer{{Slot: 1, PlayerID: "1"}, {Slot: 2, PlayerID: "2"}},
				})
			},
			expect: func(svc *mocks.Service) {
				svc.EXPECT().SetInGame(mock.Anything, "1", false).Return(nil).Once()
				svc.EXPECT().SetInGame(mock.Anything, "2", false).Return(nil).Once()
			},
		},
		{
			name: "failures do not stop delivery",
			report: func(w *ReportWorker) {
				w.PlayerInGame("1", true)
				w.PlayerInGame("2", true)
			},
			expect: func(svc *mocks.Service) {
				svc.EXPECT().SetInGame(mock.Anything, "1", true).Return(&users.RequestError{Endpoint: "setInGame", StatusCode: 500}).Once()
				svc.EXPECT().SetInGame(mock.Anything, "2", true).Return(nil).Once()
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewService(t)
			tt.expect(svc)
			w := NewReportWorker(NewReportWorkerOptions{Users: svc})

			tt.report(w)
			w.Flush(context.Background())

			assert.Equal(t, 0, w.queue.Size())
		})
	}
}

func TestReportWorker_dropsWhenFull(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().SetInGame(mock.Anything, "1", true).Return(nil).Once()
	w := NewReportWorker(NewReportWorkerOptions{Users: svc, Queue: queue.NewInMemoryQueue[Report](1)})

	w.PlayerInGame("1", true)
	w.PlayerInGame("2", true)
	w.Flush(context.Background())
}

func TestReportWorker_StartFlushesOnShutdown(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().SetInQueue(mock.Anything, "1", true).Return(nil).Once()
	w := NewReportWorker(NewReportWorkerOptions{Users: svc})
	w.PlayerInQueue("1", true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Start(ctx)
}

func TestClearStaleQueue(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().GetQueue(mock.Anything).Return([]users.User{
		{ID: "1", InQueue: true},
		{ID: "2", InQueue: false},
		{ID: "3", InQueue: true},
	}, nil).Once()
	svc.EXPECT().SetInQueue(mock.Anything, "1", false).Return(nil).Once()
	svc.EXPECT().SetInQueue(mock.Anything, "3", false).Return(errors.New("boom")).Once()

	require.NoError(t, ClearStaleQueue(context.Background(), svc))
}

func TestClearStaleQueue_unavailable(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().GetQueue(mock.Anything).Return(nil, &users.RequestError{Endpoint: "getQueue"}).Once()

	assert.Error(t, ClearStaleQueue(context.Background(), svc))
}
