package network

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cbodonnell/pongd/pkg/log"
	"github.com/cbodonnell/pongd/pkg/messages"
	"github.com/gorilla/websocket"
)

const (
	reasonTooManyConnections = "Too many connections"
	reasonInvalidData        = "Invalid data"
)

// serveWS upgrades the request and runs the connection until it closes.
func (g *Gateway) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("Failed to upgrade to websocket: %v", err)
		return
	}
	addr := sourceAddress(r)

	if err := g.flood.Acquire(addr); err != nil {
		log.Warn("Rejecting connection: %v", err)
		g.metrics.FloodRejected()
		rejectConn(conn)
		return
	}

	s := newSession(conn, addr)
	g.metrics.ConnectionOpened()
	s.logger.Debug("Websocket connection opened")

	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("Connection handler panicked: %v", rec)
		}
		s.finish()
		g.onClose(s)
		g.flood.Release(addr)
		g.metrics.ConnectionClosed()
		conn.Close()
		s.logger.Debug("Websocket connection closed")
	}()

	go s.writePump()
	g.readLoop(r.Context(), s)
}

// rejectConn reports a flood to the peer and closes the socket.
func rejectConn(conn *websocket.Conn) {
	defer conn.Close()
	if b, err := messages.Encode(messages.NewError(messages.ErrorDDoSDetected)); err == nil {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteMessage(websocket.TextMessage, b)
	}
	msg := websocket.FormatCloseMessage(messages.ClosePolicyViolation, reasonTooManyConnections)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	// give the peer a moment to read the close frame before the socket goes away
	_ = conn.SetReadDeadline(time.Now().Add(closeWait))
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

func (g *Gateway) readLoop(ctx context.Context, s *Session) {
	s.conn.SetReadLimit(messages.MessageBufferSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, frame, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				s.logger.Debug("Connection read failed: %v", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			s.logger.Warn("Ignoring binary frame")
			s.sendError(messages.ErrorInvalidData)
			continue
		}
		g.handleFrame(ctx, s, frame)
	}
}

// handleFrame parses one client frame and runs its handler. Rejected
// frames are answered with an ERROR frame and the connection stays open.
func (g *Gateway) handleFrame(ctx context.Context, s *Session, frame []byte) {
	msg, err := messages.Parse(frame)
	if err != nil {
		var parseErr *messages.ParseError
		if !errors.As(err, &parseErr) {
			s.logger.Error("Failed to parse frame: %v", err)
			s.sendError(messages.ErrorInvalidData)
			return
		}
		s.logger.Warn("Rejected frame: %v", parseErr)
		if parseErr.Type == messages.TypeConnectPlayer && parseErr.Kind == messages.ParseInvalid {
			_ = s.Close(messages.ClosePolicyViolation, reasonInvalidData)
			return
		}
		s.sendError(parseErr.Code())
		return
	}

	g.metrics.MessageReceived(msg.MessageType())
	handler, ok := g.handlers[msg.MessageType()]
	if !ok {
		s.logger.Warn("No handler for %s", msg.MessageType())
		s.sendError(messages.ErrorUnknownType)
		return
	}
	handler(ctx, s, msg)
}

// onClose releases everything the session held: its match slot and its
// party membership.
func (g *Gateway) onClose(s *Session) {
	if m, slot := s.binding(); m != nil {
		m.DisconnectPlayer(slot)
		s.unbind()
	}
	if party, playerID := s.currentParty(); party != nil {
		g.leaveParty(s, party, playerID)
	}
}
