package messages

import (
	"time"

	"github.com/cbodonnell/pongd/pkg/game/types"
	"github.com/cbodonnell/pongd/pkg/kinematic"
)

const (
	// MessageBufferSize represents the maximum size of an inbound frame
	MessageBufferSize = 4096
)

// Type is the value of the "type" tag carried by every frame.
type Type string

// Message types
const (
	TypeError              Type = "ERROR"
	TypePing               Type = "PING"
	TypePong               Type = "PONG"
	TypePlayerConnected    Type = "PLAYER_CONNECTED"
	TypeOpponentConnection Type = "OPPONENT_CONNECTION"
	TypeConnectPlayer      Type = "CONNECT_PLAYER"
	TypeInput              Type = "INPUT"
	TypeBounce             Type = "BOUNCE"
	TypeEndGame            Type = "END_GAME"
	TypeState              Type = "STATE"
	TypeCreateParty        Type = "CREATE_PARTY"
	TypeJoinParty          Type = "JOIN_PARTY"
	TypeLeaveParty         Type = "LEAVE_PARTY"
	TypePartyUpdated       Type = "PARTY_UPDATED"
	TypeEnqueue            Type = "ENQUEUE"
	TypeDequeue            Type = "DEQUEUE"
	TypeQueueUpdated       Type = "QUEUE_UPDATED"
	TypeMatchFound         Type = "MATCH_FOUND"
)

// ErrorCode is the value of the "error" field of an ERROR frame.
type ErrorCode string

const (
	ErrorNotConnected           ErrorCode = "NOT_CONNECTED"
	ErrorDuplicate              ErrorCode = "DUPLICATE"
	ErrorNotFound               ErrorCode = "NOT_FOUND"
	ErrorPlayerMissing          ErrorCode = "PLAYER_MISSING"
	ErrorInvalidData            ErrorCode = "INVALID_DATA"
	ErrorPermissionDenied       ErrorCode = "PERMISSION_DENIED"
	ErrorDDoSDetected           ErrorCode = "DDOS_DETECTED"
	ErrorUnknownType            ErrorCode = "UNKNOWN_TYPE"
	ErrorInvalidParam           ErrorCode = "INVALID_PARAM"
	ErrorPartyFull              ErrorCode = "PARTY_FULL"
	ErrorAlreadyInParty         ErrorCode = "ALREADY_IN_PARTY"
	ErrorNotInParty             ErrorCode = "NOT_IN_PARTY"
	ErrorCollaboratorUnavailable ErrorCode = "COLLABORATOR_UNAVAILABLE"
)

// Websocket close codes used by the server.
const (
	CloseNormal          = 1000
	ClosePolicyViolation = 1008
	CloseInternalError   = 1011
)

// Message is implemented by every frame of the catalog.
type Message interface {
	MessageType() Type
}

// Envelope holds the fields shared by every frame. It is embedded so the
// payload fields stay at the top level of the JSON object.
type Envelope struct {
	Type      Type  `json:"type"`
	Timestamp int64 `json:"timestamp,omitempty"`
}

func (e Envelope) MessageType() Type {
	return e.Type
}

func newEnvelope(t Type) Envelope {
	return Envelope{Type: t, Timestamp: time.Now().UnixMilli()}
}

// Client messages

type Ping struct {
	Envelope
	ID      int    `json:"id"`
	MatchID uint32 `json:"matchId"`
}

type ConnectPlayer struct {
	Envelope
	PlayerID PlayerID `json:"playerId"`
	Name     string   `json:"name"`
	MatchID  uint32   `json:"matchId"`
}

func (m *ConnectPlayer) Validate() error {
	if m.PlayerID == "" {
		return errMissingField("playerId")
	}
	return nil
}

type Input struct {
	Envelope
	ID       int    `json:"id"`
	MatchID  uint32 `json:"matchId"`
	Up       bool   `json:"up"`
	Down     bool   `json:"down"`
	InputSeq int    `json:"inputSeq"`
}

func (m *Input) Direction() types.Direction {
	return types.Direction{Up: m.Up, Down: m.Down}
}

type Bounce struct {
	Envelope
	ID      int        `json:"id"`
	MatchID uint32     `json:"matchId"`
	Axis    types.Axis `json:"axis"`
}

func (m *Bounce) Validate() error {
	if !m.Axis.Valid() {
		return errInvalidField("axis")
	}
	return nil
}

// EndGame travels in both directions. Clients send the winner they observed,
// the server sends the final result.
type EndGame struct {
	Envelope
	Winner  string               `json:"winner"`
	MatchID uint32               `json:"matchId"`
	ID      int                  `json:"id,omitempty"`
	Players map[int]ResultPlayer `json:"players,omitempty"`
	Time    *MatchTime           `json:"time,omitempty"`
}

type CreateParty struct {
	Envelope
	PlayerID PlayerID       `json:"playerId"`
	Name     string         `json:"name"`
	GameType types.GameType `json:"gameType"`
}

func (m *CreateParty) Validate() error {
	if m.PlayerID == "" {
		return errMissingField("playerId")
	}
	if !m.GameType.Valid() {
		return errInvalidField("gameType")
	}
	return nil
}

type JoinParty struct {
	Envelope
	PlayerID PlayerID `json:"playerId"`
	Name     string   `json:"name"`
	PartyID  string   `json:"partyId"`
}

func (m *JoinParty) Validate() error {
	if m.PlayerID == "" {
		return errMissingField("playerId")
	}
	if m.PartyID == "" {
		return errMissingField("partyId")
	}
	return nil
}

type LeaveParty struct {
	Envelope
}

type Enqueue struct {
	Envelope
}

type Dequeue struct {
	Envelope
}

// Server messages

type Error struct {
	Envelope
	Error ErrorCode `json:"error"`
}

func NewError(code ErrorCode) *Error {
	return &Error{Envelope: newEnvelope(TypeError), Error: code}
}

type Pong struct {
	Envelope
}

func NewPong() *Pong {
	return &Pong{Envelope: newEnvelope(TypePong)}
}

type PlayerConnected struct {
	Envelope
	ID      int    `json:"id"`
	MatchID uint32 `json:"matchId"`
}

func NewPlayerConnected(slot int, matchID uint32) *PlayerConnected {
	return &PlayerConnected{Envelope: newEnvelope(TypePlayerConnected), ID: slot, MatchID: matchID}
}

type OpponentConnection struct {
	Envelope
	ID        int  `json:"id"`
	Connected bool `json:"connected"`
}

func NewOpponentConnection(slot int, connected bool) *OpponentConnection {
	return &OpponentConnection{Envelope: newEnvelope(TypeOpponentConnection), ID: slot, Connected: connected}
}

// ResultPlayer is one slot of a finished match.
type ResultPlayer struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Winner bool   `json:"winner"`
}

type MatchTime struct {
	Duration  string `json:"duration"`
	StartedAt string `json:"startedAt,omitempty"`
}

func NewEndGame(matchID uint32, winner string, players map[int]ResultPlayer, t *MatchTime) *EndGame {
	return &EndGame{
		Envelope: newEnvelope(TypeEndGame),
		Winner:   winner,
		MatchID:  matchID,
		Players:  players,
		Time:     t,
	}
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type PlayerSnapshot struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Score        int              `json:"score"`
	Position     kinematic.Vector `json:"position"`
	Size         Size             `json:"size"`
	Connected    bool             `json:"connected"`
	LastInputSeq int              `json:"lastInputSeq"`
}

type BallSnapshot struct {
	Exists   bool              `json:"exists"`
	Position *kinematic.Vector `json:"position,omitempty"`
}

type GameSnapshot struct {
	Started bool   `json:"started"`
	Ended   bool   `json:"ended"`
	Time    string `json:"time"`
}

type PowerUpSnapshot struct {
	ID       int              `json:"id"`
	Type     string           `json:"type"`
	Position kinematic.Vector `json:"position"`
	Radius   float64          `json:"radius"`
}

type EffectSnapshot struct {
	ID          int    `json:"id"`
	Type        string `json:"type"`
	TargetSlot  int    `json:"targetSlot"`
	RemainingMs int64  `json:"remainingMs"`
}

// State is the authoritative snapshot broadcast at the network cadence.
type State struct {
	Envelope
	MatchID uint32                 `json:"matchId"`
	Players map[int]PlayerSnapshot `json:"players"`
	Ball    BallSnapshot           `json:"ball"`
	Game    GameSnapshot           `json:"game"`
	PowerUp *PowerUpSnapshot       `json:"powerUp"`
	Effects []EffectSnapshot       `json:"effects"`
}

func NewState(matchID uint32) *State {
	return &State{
		Envelope: newEnvelope(TypeState),
		MatchID:  matchID,
		Players:  map[int]PlayerSnapshot{},
		Effects:  []EffectSnapshot{},
	}
}

type PartyMember struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Rank int    `json:"rank"`
}

type PartyUpdated struct {
	Envelope
	PartyID  string         `json:"partyId"`
	GameType types.GameType `json:"gameType"`
	Leader   string         `json:"leader"`
	Members  []PartyMember  `json:"members"`
	State    string         `json:"state"`
}

func NewPartyUpdated(partyID string, gameType types.GameType, leader string, members []PartyMember, state string) *PartyUpdated {
	return &PartyUpdated{
		Envelope: newEnvelope(TypePartyUpdated),
		PartyID:  partyID,
		GameType: gameType,
		Leader:   leader,
		Members:  members,
		State:    state,
	}
}

type QueueUpdated struct {
	Envelope
	PartyID string `json:"partyId"`
	InQueue bool   `json:"inQueue"`
}

func NewQueueUpdated(partyID string, inQueue bool) *QueueUpdated {
	return &QueueUpdated{Envelope: newEnvelope(TypeQueueUpdated), PartyID: partyID, InQueue: inQueue}
}

type MatchPlayer struct {
	Slot int    `json:"slot"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

type MatchFound struct {
	Envelope
	MatchID  uint32         `json:"matchId"`
	GameType types.GameType `json:"gameType"`
	Players  []MatchPlayer  `json:"players"`
}

func NewMatchFound(matchID uint32, gameType types.GameType, players []MatchPlayer) *MatchFound {
	return &MatchFound{
		Envelope: newEnvelope(TypeMatchFound),
		MatchID:  matchID,
		GameType: gameType,
		Players:  players,
	}
}
