package matchmaking

import (
	"fmt"
	"sync"

	"github.com/cbodonnell/pongd/pkg/game/types"
)

// InvalidParamError is returned for a party that cannot be queued or dequeued.
type InvalidParamError struct {
	Reason string
}

func (e *InvalidParamError) Error() string {
	return fmt.Sprintf("invalid parameter: %s", e.Reason)
}

// Queue holds the waiting parties of every game type. A party is a member
// of at most one queue at a time.
type Queue struct {
	mu      sync.Mutex
	parties map[types.GameType][]*Party
	// observer is told the new length of a queue after every change
	observer func(types.GameType, int)
}

func NewQueue() *Queue {
	q := &Queue{parties: map[types.GameType][]*Party{}}
	for _, gt := range types.GameTypes {
		q.parties[gt] = nil
	}
	return q
}

// SetObserver registers fn to receive queue lengths. It must not block.
func (q *Queue) SetObserver(fn func(types.GameType, int)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.observer = fn
}

func validateParty(p *Party) error {
	if p == nil {
		return &InvalidParamError{Reason: "party is nil"}
	}
	if !p.GameType().Valid() {
		return &InvalidParamError{Reason: fmt.Sprintf("unknown game type %q", p.GameType())}
	}
	if p.Size() == 0 {
		return &InvalidParamError{Reason: "party has no members"}
	}
	return nil
}

func (q *Queue) Enqueue(p *Party) error {
	if err := validateParty(p); err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.containsLocked(p) {
		return &InvalidParamError{Reason: fmt.Sprintf("party %s is already queued", p.ID())}
	}
	if p.Size() > p.GameType().MaxPlayers() {
		return &InvalidParamError{Reason: fmt.Sprintf("party %s exceeds %s capacity", p.ID(), p.GameType())}
	}
	gt := p.GameType()
	q.parties[gt] = append(q.parties[gt], p)
	p.setState(PartyStateInQueue)
	q.notifyLocked(gt)
	return nil
}

// Dequeue removes p, compared by identity, from its queue.
func (q *Queue) Dequeue(p *Party) error {
	if err := validateParty(p); err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.removeLocked(p) {
		return &InvalidParamError{Reason: fmt.Sprintf("party %s is not queued", p.ID())}
	}
	p.setState(PartyStateIdle)
	q.notifyLocked(p.GameType())
	return nil
}

func (q *Queue) Contains(p *Party) bool {
	if p == nil {
		return false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.containsLocked(p)
}

// Size returns the number of parties queued for gt.
func (q *Queue) Size(gt types.GameType) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.parties[gt])
}

// Parties returns the queue of gt in its current order.
func (q *Queue) Parties(gt types.GameType) []*Party {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]*Party, len(q.parties[gt]))
	copy(out, q.parties[gt])
	return out
}

func (q *Queue) containsLocked(p *Party) bool {
	for _, queued := range q.parties[p.GameType()] {
		if queued == p {
			return true
		}
	}
	return false
}

func (q *Queue) removeLocked(p *Party) bool {
	gt := p.GameType()
	for i, queued := range q.parties[gt] {
		if queued == p {
			q.parties[gt] = append(q.parties[gt][:i], q.parties[gt][i+1:]...)
			return true
		}
	}
	return false
}

func (q *Queue) notifyLocked(gt types.GameType) {
	if q.observer != nil {
		q.observer(gt, len(q.parties[gt]))
	}
}
