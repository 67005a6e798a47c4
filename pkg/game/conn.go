package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/cbodonnell/pongd/pkg/game/types"
)

// Conn is the socket of a connected participant.
type Conn interface {
	// Send queues an encoded frame. It must not block.
	Send(msg []byte) error
	// Close queues a close frame after any pending frames.
	Close(code int, reason string) error
}

// Reporter receives the events the users service has to learn about.
// Implementations must not block, they are called with the match lock held.
type Reporter interface {
	PlayerInGame(playerID string, inGame bool)
	MatchEnded(result Result)
}

// Result is the outcome of a match that reached a terminal state.
type Result struct {
	MatchID  uint32
	GameType types.GameType
	// WinningSide is empty when the match did not finish on score
	WinningSide types.Side
	Reason      string
	StartedAt   time.Time
	Duration    time.Duration
	Players     []ResultPlayer
}

type ResultPlayer struct {
	Slot     int
	PlayerID string
	Name     string
	Rank     int
	Score    int
	Winner   bool
}

type ConnectErrorKind int

const (
	// ConnectNotFound means no slot of the match belongs to the player.
	ConnectNotFound ConnectErrorKind = iota
	// ConnectDuplicate means the player's slot already has a live connection.
	ConnectDuplicate
)

func (k ConnectErrorKind) String() string {
	switch k {
	case ConnectNotFound:
		return "NOT_FOUND"
	case ConnectDuplicate:
		return "DUPLICATE"
	default:
		return "UNKNOWN"
	}
}

type ConnectError struct {
	Kind     ConnectErrorKind
	MatchID  uint32
	PlayerID string
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("cannot connect player %s to match %d: %s", e.PlayerID, e.MatchID, e.Kind)
}

func IsNotFound(err error) bool {
	var connectErr *ConnectError
	return errors.As(err, &connectErr) && connectErr.Kind == ConnectNotFound
}

func IsDuplicate(err error) bool {
	var connectErr *ConnectError
	return errors.As(err, &connectErr) && connectErr.Kind == ConnectDuplicate
}
