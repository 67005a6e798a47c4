package network

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cbodonnell/pongd/pkg/game"
	"github.com/cbodonnell/pongd/pkg/log"
	"github.com/cbodonnell/pongd/pkg/matchmaking"
	"github.com/cbodonnell/pongd/pkg/messages"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// SendBufferSize is the number of frames queued per session before frames are dropped
	SendBufferSize = 256

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	// closeWait is how long the peer gets to answer a close frame
	closeWait = time.Second
)

var (
	ErrSessionClosed   = errors.New("session is closed")
	ErrSendBufferFull  = errors.New("session send buffer is full")
	errInvalidCloseArg = errors.New("invalid close code")
)

type closeRequest struct {
	code   int
	reason string
}

// Session is one websocket connection. Frames are written by a dedicated
// pump goroutine, so Send and Close never block.
type Session struct {
	id      uuid.UUID
	conn    *websocket.Conn
	address string
	logger  *log.Logger

	send      chan []byte
	closeReq  chan closeRequest
	closing   atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
	doneOnce  sync.Once

	mu       sync.Mutex
	match    *game.Match
	slot     int
	playerID string
	party    *matchmaking.Party
}

func newSession(conn *websocket.Conn, address string) *Session {
	id := uuid.New()
	return &Session{
		id:       id,
		conn:     conn,
		address:  address,
		logger:   log.WithFields(log.Fields{"session": id.String(), "address": address}),
		send:     make(chan []byte, SendBufferSize),
		closeReq: make(chan closeRequest, 1),
		done:     make(chan struct{}),
	}
}

func (s *Session) ID() string {
	return s.id.String()
}

func (s *Session) Address() string {
	return s.address
}

// Send queues a text frame.
func (s *Session) Send(b []byte) error {
	if s.closing.Load() {
		return ErrSessionClosed
	}
	select {
	case s.send <- b:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close queues a close frame behind the pending frames. Only the first call
// has an effect.
func (s *Session) Close(code int, reason string) error {
	if code < messages.CloseNormal || code > 4999 {
		return errInvalidCloseArg
	}
	closed := false
	s.closeOnce.Do(func() {
		closed = true
		s.closing.Store(true)
		s.closeReq <- closeRequest{code: code, reason: reason}
	})
	if !closed {
		return ErrSessionClosed
	}
	return nil
}

func (s *Session) sendMessage(msg messages.Message) {
	b, err := messages.Encode(msg)
	if err != nil {
		s.logger.Error("Failed to encode %s: %v", msg.MessageType(), err)
		return
	}
	if err := s.Send(b); err != nil {
		s.logger.Debug("Dropping %s: %v", msg.MessageType(), err)
	}
}

func (s *Session) sendError(code messages.ErrorCode) {
	s.sendMessage(messages.NewError(code))
}

// finish stops the write pump once the read side is gone.
func (s *Session) finish() {
	s.doneOnce.Do(func() {
		s.closing.Store(true)
		close(s.done)
	})
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if r := recover(); r != nil {
			s.logger.Error("Write pump panicked: %v", r)
			s.conn.Close()
		}
	}()

	for {
		select {
		case <-s.done:
			return
		case b := <-s.send:
			if err := s.write(b); err != nil {
				s.logger.Debug("Failed to write frame: %v", err)
				s.conn.Close()
				return
			}
		case req := <-s.closeReq:
			s.drain()
			msg := websocket.FormatCloseMessage(req.code, req.reason)
			if err := s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
				s.logger.Debug("Failed to write close frame: %v", err)
				s.conn.Close()
				return
			}
			// the read loop ends when the peer answers or the deadline passes
			_ = s.conn.SetReadDeadline(time.Now().Add(closeWait))
			return
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				s.logger.Debug("Failed to write ping: %v", err)
				s.conn.Close()
				return
			}
		}
	}
}

// drain writes every frame queued before the close request.
func (s *Session) drain() {
	for {
		select {
		case b := <-s.send:
			if err := s.write(b); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (s *Session) write(b []byte) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, b)
}

func (s *Session) bind(m *game.Match, slot int, playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.match, s.slot, s.playerID = m, slot, playerID
}

func (s *Session) unbind() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.match, s.slot = nil, 0
}

// binding returns the match the session plays in and its slot.
func (s *Session) binding() (*game.Match, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.match, s.slot
}

func (s *Session) setParty(p *matchmaking.Party, playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.party = p
	if playerID != "" {
		s.playerID = playerID
	}
}

func (s *Session) currentParty() (*matchmaking.Party, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.party, s.playerID
}
