package types

import "fmt"

// GameType selects the queue a party waits in and the size of the match it ends up in.
type GameType string

const (
	GameTypeRanked     GameType = "RANKED"
	GameTypeTournament GameType = "TOURNAMENT"
)

// GameTypes lists every game type in the order the matchmaker visits them.
var GameTypes = []GameType{GameTypeRanked, GameTypeTournament}

// MaxPlayers returns the exact participant count of a match of this type.
func (g GameType) MaxPlayers() int {
	switch g {
	case GameTypeRanked:
		return 2
	case GameTypeTournament:
		return 4
	default:
		return 0
	}
}

func (g GameType) Valid() bool {
	return g.MaxPlayers() > 0
}

func ParseGameType(s string) (GameType, error) {
	g := GameType(s)
	if !g.Valid() {
		return "", fmt.Errorf("unknown game type: %q", s)
	}
	return g, nil
}

// Side is the half of the map a paddle defends.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// SideForSlot puts odd slots on the left and even slots on the right.
func SideForSlot(slot int) Side {
	if slot%2 == 1 {
		return SideLeft
	}
	return SideRight
}

func (s Side) Opposite() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// Sign is -1 for the left side and 1 for the right side.
func (s Side) Sign() float64 {
	if s == SideLeft {
		return -1
	}
	return 1
}

// PlayerInfo identifies a player as known to the users service.
type PlayerInfo struct {
	PlayerID string `json:"id"`
	Name     string `json:"name"`
	Rank     int    `json:"rank"`
}

type MatchState int

const (
	MatchStateWaitingForPlayers MatchState = iota
	MatchStateActive
	MatchStateEnded
)

func (s MatchState) String() string {
	switch s {
	case MatchStateWaitingForPlayers:
		return "waiting_for_players"
	case MatchStateActive:
		return "active"
	case MatchStateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Direction is the paddle input held by a player.
type Direction struct {
	Up   bool `json:"up"`
	Down bool `json:"down"`
}

// Axis names the component of the ball direction flipped by a bounce.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

func (a Axis) Valid() bool {
	return a == AxisX || a == AxisY
}

const (
	CollisionSpaceTagPaddle = "paddle"
	CollisionSpaceTagBall   = "ball"
)
