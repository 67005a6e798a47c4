package matchmaking

import (
	"fmt"
	"math"
	"sync"

	"github.com/cbodonnell/pongd/pkg/game"
	"github.com/cbodonnell/pongd/pkg/game/types"
	"github.com/cbodonnell/pongd/pkg/messages"
	"github.com/google/uuid"
)

type PartyState string

const (
	PartyStateIdle    PartyState = "IDLE"
	PartyStateInQueue PartyState = "IN_QUEUE"
)

// Member is one player of a party. Conn reaches the member's lobby socket.
type Member struct {
	PlayerID string
	Name     string
	Rank     int
	Conn     game.Conn
}

type PartyErrorKind int

const (
	PartyFull PartyErrorKind = iota
	AlreadyInParty
	NotInParty
	PermissionDenied
	InvalidFormat
)

func (k PartyErrorKind) String() string {
	return string(k.Code())
}

// Code is the error code reported to clients.
func (k PartyErrorKind) Code() messages.ErrorCode {
	switch k {
	case PartyFull:
		return messages.ErrorPartyFull
	case AlreadyInParty:
		return messages.ErrorAlreadyInParty
	case NotInParty:
		return messages.ErrorNotInParty
	case PermissionDenied:
		return messages.ErrorPermissionDenied
	default:
		return messages.ErrorInvalidData
	}
}

type PartyError struct {
	Kind    PartyErrorKind
	PartyID string
	Reason  string
}

func (e *PartyError) Error() string {
	return fmt.Sprintf("party %s: %s: %s", e.PartyID, e.Kind, e.Reason)
}

// Party is a group of players queued together. The roster of a queued party
// is frozen.
type Party struct {
	mu        sync.RWMutex
	id        uuid.UUID
	gameType  types.GameType
	members   []Member
	leader    string
	state     PartyState
	onMatched func(*Party, *game.Match)
}

// NewParty creates an idle party led by leader. onMatched runs once for
// every match the party is placed in.
func NewParty(gameType types.GameType, leader Member, onMatched func(*Party, *game.Match)) (*Party, error) {
	id := uuid.New()
	if !gameType.Valid() {
		return nil, &PartyError{Kind: InvalidFormat, PartyID: id.String(), Reason: fmt.Sprintf("unknown game type %q", gameType)}
	}
	if leader.PlayerID == "" {
		return nil, &PartyError{Kind: InvalidFormat, PartyID: id.String(), Reason: "leader has no player id"}
	}
	return &Party{
		id:        id,
		gameType:  gameType,
		members:   []Member{leader},
		leader:    leader.PlayerID,
		state:     PartyStateIdle,
		onMatched: onMatched,
	}, nil
}

func (p *Party) ID() string {
	return p.id.String()
}

func (p *Party) GameType() types.GameType {
	return p.gameType
}

func (p *Party) Leader() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.leader
}

func (p *Party) IsLeader(playerID string) bool {
	return p.Leader() == playerID
}

func (p *Party) State() PartyState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

func (p *Party) setState(s PartyState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = s
}

func (p *Party) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.members)
}

// Rank is the floored mean of the member ranks.
func (p *Party) Rank() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.members) == 0 {
		return 0
	}
	sum := 0
	for _, m := range p.members {
		sum += m.Rank
	}
	return int(math.Floor(float64(sum) / float64(len(p.members))))
}

// Members returns a copy of the roster, leader first.
func (p *Party) Members() []Member {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Member, len(p.members))
	copy(out, p.members)
	return out
}

func (p *Party) Has(playerID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.indexLocked(playerID) >= 0
}

func (p *Party) indexLocked(playerID string) int {
	for i, m := range p.members {
		if m.PlayerID == playerID {
			return i
		}
	}
	return -1
}

// AddMember adds m to an idle party with a free seat.
func (p *Party) AddMember(m Member) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case m.PlayerID == "":
		return p.errorLocked(InvalidFormat, "member has no player id")
	case p.indexLocked(m.PlayerID) >= 0:
		return p.errorLocked(AlreadyInParty, fmt.Sprintf("player %s is already a member", m.PlayerID))
	case p.state != PartyStateIdle:
		return p.errorLocked(PermissionDenied, "party is queued")
	case len(p.members) >= p.gameType.MaxPlayers():
		return p.errorLocked(PartyFull, fmt.Sprintf("party already has %d members", len(p.members)))
	}
	p.members = append(p.members, m)
	return nil
}

// RemoveMember removes a player from an idle party. When the leader leaves
// the longest standing member takes over. It reports whether the party is
// now empty.
func (p *Party) RemoveMember(playerID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.indexLocked(playerID)
	if i < 0 {
		return false, p.errorLocked(NotInParty, fmt.Sprintf("player %s is not a member", playerID))
	}
	if p.state != PartyStateIdle {
		return false, p.errorLocked(PermissionDenied, "party is queued")
	}
	p.members = append(p.members[:i], p.members[i+1:]...)
	if len(p.members) == 0 {
		p.leader = ""
		return true, nil
	}
	if p.leader == playerID {
		p.leader = p.members[0].PlayerID
	}
	return false, nil
}

func (p *Party) errorLocked(kind PartyErrorKind, reason string) error {
	return &PartyError{Kind: kind, PartyID: p.id.String(), Reason: reason}
}

// Update builds the PARTY_UPDATED frame describing the party.
func (p *Party) Update() *messages.PartyUpdated {
	p.mu.RLock()
	defer p.mu.RUnlock()
	members := make([]messages.PartyMember, 0, len(p.members))
	for _, m := range p.members {
		members = append(members, messages.PartyMember{ID: m.PlayerID, Name: m.Name, Rank: m.Rank})
	}
	return messages.NewPartyUpdated(p.id.String(), p.gameType, p.leader, members, string(p.state))
}

func (p *Party) players() []types.PlayerInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]types.PlayerInfo, 0, len(p.members))
	for _, m := range p.members {
		out = append(out, types.PlayerInfo{PlayerID: m.PlayerID, Name: m.Name, Rank: m.Rank})
	}
	return out
}

func (p *Party) matched(m *game.Match) {
	if p.onMatched != nil {
		p.onMatched(p, m)
	}
}
