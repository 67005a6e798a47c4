package network

import (
	"context"
	"errors"

	"github.com/cbodonnell/pongd/pkg/game"
	"github.com/cbodonnell/pongd/pkg/matchmaking"
	"github.com/cbodonnell/pongd/pkg/messages"
)

const (
	reasonMatchNotFound    = "Match not found"
	reasonSlotNotFound     = "Match full or name/id not recognized"
	reasonAlreadyConnected = "Player already connected"
	reasonAddClientFailed  = "Error adding client"
	reasonClientEndGame    = "Match ended"
)

type handlerFunc func(ctx context.Context, s *Session, msg messages.Message)

func (g *Gateway) dispatchTable() map[messages.Type]handlerFunc {
	return map[messages.Type]handlerFunc{
		messages.TypePing:          g.handlePing,
		messages.TypeConnectPlayer: g.handleConnectPlayer,
		messages.TypeInput:         g.handleInput,
		messages.TypeBounce:        g.handleBounce,
		messages.TypeEndGame:       g.handleEndGame,
		messages.TypeCreateParty:   g.handleCreateParty,
		messages.TypeJoinParty:     g.handleJoinParty,
		messages.TypeLeaveParty:    g.handleLeaveParty,
		messages.TypeEnqueue:       g.handleEnqueue,
		messages.TypeDequeue:       g.handleDequeue,
	}
}

func (g *Gateway) handlePing(_ context.Context, s *Session, _ messages.Message) {
	if m, slot := s.binding(); m != nil {
		m.Pong(slot)
		return
	}
	s.sendMessage(messages.NewPong())
}

// handleConnectPlayer binds the session to its slot in a match.
func (g *Gateway) handleConnectPlayer(_ context.Context, s *Session, msg messages.Message) {
	req := msg.(*messages.ConnectPlayer)
	if m, _ := s.binding(); m != nil {
		s.sendError(messages.ErrorDuplicate)
		return
	}

	var match *game.Match
	if g.matches != nil {
		match, _ = g.matches.Get(req.MatchID)
	}
	if match == nil {
		s.logger.Info("Player %s asked for unknown match %d", req.PlayerID, req.MatchID)
		_ = s.Close(messages.ClosePolicyViolation, reasonMatchNotFound)
		return
	}

	slot, err := match.ConnectPlayer(req.PlayerID.String(), s, req.Name)
	switch {
	case err == nil:
		s.bind(match, slot, req.PlayerID.String())
	case game.IsNotFound(err):
		s.logger.Info("Rejected player %s: %v", req.PlayerID, err)
		_ = s.Close(messages.ClosePolicyViolation, reasonSlotNotFound)
	case game.IsDuplicate(err):
		s.logger.Info("Rejected player %s: %v", req.PlayerID, err)
		_ = s.Close(messages.ClosePolicyViolation, reasonAlreadyConnected)
	default:
		s.logger.Error("Failed to add player %s to match %d: %v", req.PlayerID, req.MatchID, err)
		_ = s.Close(messages.CloseInternalError, reasonAddClientFailed)
	}
}

func (g *Gateway) handleInput(_ context.Context, s *Session, msg messages.Message) {
	req := msg.(*messages.Input)
	m, slot := s.binding()
	if m == nil {
		s.sendError(messages.ErrorNotConnected)
		return
	}
	m.Input(slot, req.Direction(), req.InputSeq)
}

func (g *Gateway) handleBounce(_ context.Context, s *Session, msg messages.Message) {
	req := msg.(*messages.Bounce)
	m, slot := s.binding()
	if m == nil {
		s.sendError(messages.ErrorNotConnected)
		return
	}
	m.Bounce(slot, req.Axis)
}

// handleEndGame lets a client leave a match that is over. The server alone
// decides when a match ends, so the claim is ignored otherwise.
func (g *Gateway) handleEndGame(_ context.Context, s *Session, msg messages.Message) {
	req := msg.(*messages.EndGame)
	m, _ := s.binding()
	if m == nil {
		s.sendError(messages.ErrorNotConnected)
		return
	}
	if !m.Ended() {
		s.logger.Warn("Ignoring END_GAME (winner %q) for running match %d", req.Winner, m.ID())
		return
	}
	s.unbind()
	_ = s.Close(messages.CloseNormal, reasonClientEndGame)
}

func (g *Gateway) handleCreateParty(ctx context.Context, s *Session, msg messages.Message) {
	req := msg.(*messages.CreateParty)
	if party, _ := s.currentParty(); party != nil {
		s.sendError(messages.ErrorAlreadyInParty)
		return
	}
	member, err := g.member(ctx, s, req.PlayerID.String(), req.Name)
	if err != nil {
		s.logger.Error("Failed to look up player %s: %v", req.PlayerID, err)
		s.sendError(messages.ErrorCollaboratorUnavailable)
		return
	}

	party, err := matchmaking.NewParty(req.GameType, member, g.onMatched)
	if err != nil {
		g.sendPartyError(s, err)
		return
	}
	g.partiesLock.Lock()
	g.parties[party.ID()] = party
	g.partiesLock.Unlock()

	s.setParty(party, member.PlayerID)
	s.logger.Info("Player %s created %s party %s", member.PlayerID, party.GameType(), party.ID())
	g.broadcastParty(party, party.Update())
}

func (g *Gateway) handleJoinParty(ctx context.Context, s *Session, msg messages.Message) {
	req := msg.(*messages.JoinParty)
	if party, _ := s.currentParty(); party != nil {
		s.sendError(messages.ErrorAlreadyInParty)
		return
	}
	g.partiesLock.RLock()
	party, ok := g.parties[req.PartyID]
	g.partiesLock.RUnlock()
	if !ok {
		s.sendError(messages.ErrorNotFound)
		return
	}
	member, err := g.member(ctx, s, req.PlayerID.String(), req.Name)
	if err != nil {
		s.logger.Error("Failed to look up player %s: %v", req.PlayerID, err)
		s.sendError(messages.ErrorCollaboratorUnavailable)
		return
	}
	if err := party.AddMember(member); err != nil {
		g.sendPartyError(s, err)
		return
	}

	s.setParty(party, member.PlayerID)
	s.logger.Info("Player %s joined party %s", member.PlayerID, party.ID())
	g.broadcastParty(party, party.Update())
}

func (g *Gateway) handleLeaveParty(_ context.Context, s *Session, _ messages.Message) {
	party, playerID := s.currentParty()
	if party == nil {
		s.sendError(messages.ErrorNotInParty)
		return
	}
	g.leaveParty(s, party, playerID)
}

func (g *Gateway) handleEnqueue(_ context.Context, s *Session, _ messages.Message) {
	party, ok := g.leaderParty(s)
	if !ok {
		return
	}
	if err := g.queue.Enqueue(party); err != nil {
		s.logger.Warn("Failed to enqueue party %s: %v", party.ID(), err)
		s.sendError(messages.ErrorInvalidParam)
		return
	}
	g.reportQueued(party, true)
	g.broadcastParty(party, messages.NewQueueUpdated(party.ID(), true))
	g.broadcastParty(party, party.Update())
}

func (g *Gateway) handleDequeue(_ context.Context, s *Session, _ messages.Message) {
	party, ok := g.leaderParty(s)
	if !ok {
		return
	}
	if err := g.dequeue(party); err != nil {
		s.logger.Warn("Failed to dequeue party %s: %v", party.ID(), err)
		s.sendError(messages.ErrorInvalidParam)
	}
}

// leaderParty returns the party of s when s leads it, and reports the
// failure to the client otherwise.
func (g *Gateway) leaderParty(s *Session) (*matchmaking.Party, bool) {
	party, playerID := s.currentParty()
	if party == nil {
		s.sendError(messages.ErrorNotInParty)
		return nil, false
	}
	if !party.IsLeader(playerID) {
		s.sendError(messages.ErrorPermissionDenied)
		return nil, false
	}
	return party, true
}

// member builds the party member for playerID, with the rank known to the
// users service.
func (g *Gateway) member(ctx context.Context, s *Session, playerID, name string) (matchmaking.Member, error) {
	member := matchmaking.Member{PlayerID: playerID, Name: name, Conn: s}
	if g.users == nil {
		return member, nil
	}
	user, err := g.users.GetUser(ctx, playerID)
	if err != nil {
		return matchmaking.Member{}, err
	}
	member.Rank = user.Rank
	if member.Name == "" {
		member.Name = user.Name
	}
	return member, nil
}

func (g *Gateway) dequeue(party *matchmaking.Party) error {
	if err := g.queue.Dequeue(party); err != nil {
		return err
	}
	g.reportQueued(party, false)
	g.broadcastParty(party, messages.NewQueueUpdated(party.ID(), false))
	g.broadcastParty(party, party.Update())
	return nil
}

// leaveParty removes playerID from party. A queued party is withdrawn from
// the queue first.
func (g *Gateway) leaveParty(s *Session, party *matchmaking.Party, playerID string) {
	if g.queue.Contains(party) {
		if err := g.dequeue(party); err != nil {
			s.logger.Warn("Failed to dequeue party %s: %v", party.ID(), err)
		}
	}
	empty, err := party.RemoveMember(playerID)
	if err != nil {
		g.sendPartyError(s, err)
		return
	}
	s.setParty(nil, "")
	if empty {
		g.partiesLock.Lock()
		delete(g.parties, party.ID())
		g.partiesLock.Unlock()
		s.logger.Info("Party %s disbanded", party.ID())
		return
	}
	g.broadcastParty(party, party.Update())
}

// onMatched tells every member of party where to connect.
func (g *Gateway) onMatched(party *matchmaking.Party, m *game.Match) {
	var players []messages.MatchPlayer
	for _, p := range m.Participants() {
		players = append(players, messages.MatchPlayer{Slot: p.Slot, ID: p.PlayerID, Name: p.Name})
	}
	g.reportQueued(party, false)
	g.broadcastParty(party, messages.NewQueueUpdated(party.ID(), false))
	g.broadcastParty(party, messages.NewMatchFound(m.ID(), m.GameType(), players))
}

func (g *Gateway) reportQueued(party *matchmaking.Party, inQueue bool) {
	if g.reporter == nil {
		return
	}
	for _, member := range party.Members() {
		g.reporter.PlayerInQueue(member.PlayerID, inQueue)
	}
}

func (g *Gateway) broadcastParty(party *matchmaking.Party, msg messages.Message) {
	b, err := messages.Encode(msg)
	if err != nil {
		return
	}
	for _, member := range party.Members() {
		if member.Conn == nil {
			continue
		}
		_ = member.Conn.Send(b)
	}
}

func (g *Gateway) sendPartyError(s *Session, err error) {
	var partyErr *matchmaking.PartyError
	if errors.As(err, &partyErr) {
		s.sendError(partyErr.Kind.Code())
		return
	}
	s.logger.Error("Party operation failed: %v", err)
	s.sendError(messages.ErrorInvalidData)
}
