package workers

import (
	"context"
	"time"

	"github.com/cbodonnell/pongd/pkg/game"
	"github.com/cbodonnell/pongd/pkg/game/constants"
	"github.com/cbodonnell/pongd/pkg/game/types"
	"github.com/cbodonnell/pongd/pkg/log"
	"github.com/cbodonnell/pongd/pkg/queue"
	"github.com/cbodonnell/pongd/pkg/users"
)

type ReportKind int

const (
	ReportInGame ReportKind = iota
	ReportInQueue
	ReportMatchEnded
)

func (k ReportKind) String() string {
	switch k {
	case ReportInGame:
		return "in game"
	case ReportInQueue:
		return "in queue"
	case ReportMatchEnded:
		return "match ended"
	default:
		return "unknown"
	}
}

type Report struct {
	Kind     ReportKind
	PlayerID string
	Value    bool
	Result   *game.Result
}

// ReportWorker delivers player status and match results to the users
// service. Reports are queued by the callers and sent from the worker
// goroutine, so callers never wait on the network.
type ReportWorker struct {
	users     users.Service
	queue     queue.Queue[Report]
	interval  time.Duration
	timeout   time.Duration
	rankDelta int
}

type NewReportWorkerOptions struct {
	Users    users.Service
	Queue    queue.Queue[Report]
	Interval time.Duration
	// Timeout bounds every call to the users service
	Timeout   time.Duration
	RankDelta int
}

func NewReportWorker(opts NewReportWorkerOptions) *ReportWorker {
	q := opts.Queue
	if q == nil {
		q = queue.NewInMemoryQueue[Report](queue.DefaultBufferSize)
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = users.DefaultTimeout
	}
	rankDelta := opts.RankDelta
	if rankDelta <= 0 {
		rankDelta = constants.RankDelta
	}
	return &ReportWorker{
		users:     opts.Users,
		queue:     q,
		interval:  interval,
		timeout:   timeout,
		rankDelta: rankDelta,
	}
}

func (w *ReportWorker) PlayerInGame(playerID string, inGame bool) {
	w.enqueue(Report{Kind: ReportInGame, PlayerID: playerID, Value: inGame})
}

func (w *ReportWorker) PlayerInQueue(playerID string, inQueue bool) {
	w.enqueue(Report{Kind: ReportInQueue, PlayerID: playerID, Value: inQueue})
}

func (w *ReportWorker) MatchEnded(result game.Result) {
	w.enqueue(Report{Kind: ReportMatchEnded, Result: &result})
}

func (w *ReportWorker) enqueue(r Report) {
	if err := w.queue.Enqueue(r); err != nil {
		log.Warn("Dropping %s report for %s: %v", r.Kind, r.PlayerID, err)
	}
}

// Start delivers queued reports every interval until ctx is done. Pending
// reports are flushed once more before it returns.
func (w *ReportWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.Flush(context.Background())
			return
		case <-ticker.C:
			w.Flush(ctx)
		}
	}
}

// Flush sends every queued report in order. Failures are logged and the
// report is dropped.
func (w *ReportWorker) Flush(ctx context.Context) {
	for _, r := range w.queue.Drain() {
		switch r.Kind {
		case ReportInGame:
			w.call(ctx, r, func(ctx context.Context) error {
				return w.users.SetInGame(ctx, r.PlayerID, r.Value)
			})
		case ReportInQueue:
			w.call(ctx, r, func(ctx context.Context) error {
				return w.users.SetInQueue(ctx, r.PlayerID, r.Value)
			})
		case ReportMatchEnded:
			w.matchEnded(ctx, r)
		default:
			log.Warn("Unknown report kind %d", r.Kind)
		}
	}
}

func (w *ReportWorker) matchEnded(ctx context.Context, r Report) {
	result := r.Result
	if result == nil {
		return
	}
	ranked := result.GameType == types.GameTypeRanked && result.WinningSide != ""
	for _, p := range result.Players {
		p := p
		w.call(ctx, Report{Kind: ReportInGame, PlayerID: p.PlayerID}, func(ctx context.Context) error {
			return w.users.SetInGame(ctx, p.PlayerID, false)
		})
		if !ranked {
			continue
		}
		rank := users.NextRank(p.Rank, p.Winner, w.rankDelta)
		w.call(ctx, r, func(ctx context.Context) error {
			return w.users.SetRank(ctx, p.PlayerID, rank)
		})
	}
	log.WithFields(log.Fields{"match": result.MatchID}).Debug("Reported result of %s match: %s", result.GameType, result.Reason)
}

func (w *ReportWorker) call(ctx context.Context, r Report, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Error("Failed to deliver %s report: %v", r.Kind, err)
	}
}

// ClearStaleQueue resets the in-queue flag of every user the users service
// still lists as queued. Queues live in memory, so after a restart nobody is
// actually waiting.
func ClearStaleQueue(ctx context.Context, svc users.Service) error {
	queued, err := svc.GetQueue(ctx)
	if err != nil {
		return err
	}
	cleared := 0
	for _, u := range queued {
		if !u.InQueue {
			continue
		}
		if err := svc.SetInQueue(ctx, u.ID, false); err != nil {
			log.Warn("Failed to clear queue flag of %s: %v", u.ID, err)
			continue
		}
		cleared++
	}
	log.Info("Cleared %d stale queue entries", cleared)
	return nil
}
