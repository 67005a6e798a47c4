package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/cbodonnell/pongd/pkg/collisions"
	"github.com/cbodonnell/pongd/pkg/game/constants"
	"github.com/cbodonnell/pongd/pkg/game/types"
	"github.com/cbodonnell/pongd/pkg/log"
	"github.com/cbodonnell/pongd/pkg/messages"
	"github.com/solarlune/resolv"
)

const (
	reasonMatchEnded   = "Match ended"
	reasonInactivity   = "Match removed due to inactivity"
	reasonAbandoned    = "All players disconnected"
	reasonShuttingDown = "Server shutting down"
)

// Participant is one slot of a match.
type Participant struct {
	Slot     int
	PlayerID string
	Name     string
	Rank     int
	Side     types.Side

	conn         Conn
	connected    bool
	score        int
	lastInputSeq int
	paddle       *Paddle
}

// Match is the authoritative simulation of one game. All methods are safe
// for concurrent use; Run drives the simulation from its own goroutine.
type Match struct {
	mu sync.Mutex

	id           uint32
	gameType     types.GameType
	settings     Settings
	participants []*Participant
	space        *resolv.Space
	ball         *Ball
	state        types.MatchState
	closed       bool
	done         chan struct{}

	createdAt      time.Time
	startedAt      time.Time
	pausedAt       time.Time
	lastSimulation time.Time
	lastBroadcast  time.Time
	elapsed        time.Duration

	lastScorer    types.Side
	lastTouchSlot int

	powerUp       *PowerUp
	powerUpSeq    int
	effects       []*Effect
	effectSeq     int
	nextPowerUpAt time.Time

	clock        func() time.Time
	rng          *rand.Rand
	reporter     Reporter
	onClosed     func(*Match)
	tickObserver func(time.Duration)
	logger       *log.Logger
}

type NewMatchOptions struct {
	ID       uint32
	GameType types.GameType
	// Players fills the slots in order, slot 1 first
	Players  []types.PlayerInfo
	Settings Settings
	Reporter Reporter
	// OnClosed runs once after the match reached a terminal state and released its connections
	OnClosed func(*Match)
	// TickObserver receives the duration of every simulation tick
	TickObserver func(time.Duration)
	Clock        func() time.Time
	Rand         *rand.Rand
}

// NewMatch creates a match waiting for its participants. It fails unless
// exactly GameType.MaxPlayers players are given.
func NewMatch(opts NewMatchOptions) (*Match, error) {
	if !opts.GameType.Valid() {
		return nil, fmt.Errorf("unknown game type %q", opts.GameType)
	}
	if len(opts.Players) != opts.GameType.MaxPlayers() {
		return nil, fmt.Errorf("%s match needs %d players, got %d", opts.GameType, opts.GameType.MaxPlayers(), len(opts.Players))
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(clock().UnixNano()))
	}

	m := &Match{
		id:           opts.ID,
		gameType:     opts.GameType,
		settings:     opts.Settings,
		space:        collisions.NewCollisionSpace(opts.Settings.MapWidth, opts.Settings.MapHeight),
		state:        types.MatchStateWaitingForPlayers,
		done:         make(chan struct{}),
		createdAt:    clock(),
		clock:        clock,
		rng:          rng,
		reporter:     opts.Reporter,
		onClosed:     opts.OnClosed,
		tickObserver: opts.TickObserver,
		logger:       log.WithFields(log.Fields{"match": opts.ID}),
	}

	seen := map[string]bool{}
	for i, info := range opts.Players {
		if info.PlayerID == "" {
			return nil, fmt.Errorf("player %d has no id", i+1)
		}
		if seen[info.PlayerID] {
			return nil, fmt.Errorf("player %s appears twice", info.PlayerID)
		}
		seen[info.PlayerID] = true

		slot := i + 1
		p := &Participant{
			Slot:     slot,
			PlayerID: info.PlayerID,
			Name:     info.Name,
			Rank:     info.Rank,
			Side:     types.SideForSlot(slot),
			paddle:   NewPaddle(slot, opts.Settings),
		}
		m.space.Add(p.paddle.Object())
		m.participants = append(m.participants, p)
	}

	return m, nil
}

func (m *Match) ID() uint32 {
	return m.id
}

func (m *Match) GameType() types.GameType {
	return m.gameType
}

func (m *Match) State() types.MatchState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Match) Ended() bool {
	return m.State() == types.MatchStateEnded
}

// Done is closed once the match reached a terminal state.
func (m *Match) Done() <-chan struct{} {
	return m.done
}

// Participants returns a copy of the slots in order.
func (m *Match) Participants() []Participant {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Participant, 0, len(m.participants))
	for _, p := range m.participants {
		out = append(out, *p)
	}
	return out
}

// Score returns the score of slot.
func (m *Match) Score(slot int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p := m.participant(slot); p != nil {
		return p.score
	}
	return 0
}

func (m *Match) participant(slot int) *Participant {
	if slot < 1 || slot > len(m.participants) {
		return nil
	}
	return m.participants[slot-1]
}

// ConnectPlayer binds conn to the slot reserved for playerID and returns the
// slot number. It returns a *ConnectError when the player has no slot in
// this match or is already connected.
func (m *Match) ConnectPlayer(playerID string, conn Conn, name string) (int, error) {
	if conn == nil {
		return 0, errors.New("connection is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var p *Participant
	for _, candidate := range m.participants {
		if candidate.PlayerID == playerID {
			p = candidate
			break
		}
	}
	if p == nil || m.closed || m.state == types.MatchStateEnded {
		return 0, &ConnectError{Kind: ConnectNotFound, MatchID: m.id, PlayerID: playerID}
	}
	if p.connected {
		return 0, &ConnectError{Kind: ConnectDuplicate, MatchID: m.id, PlayerID: playerID}
	}

	now := m.clock()
	p.conn = conn
	p.connected = true
	p.paddle.Stop()
	if name = strings.TrimSpace(name); name != "" {
		p.Name = name
	}

	m.sendLocked(p, messages.NewPlayerConnected(p.Slot, m.id))
	m.broadcastLocked(messages.NewOpponentConnection(p.Slot, true), p.Slot)
	if m.reporter != nil {
		m.reporter.PlayerInGame(p.PlayerID, true)
	}
	m.logger.Info("Player %s connected to slot %d", p.PlayerID, p.Slot)

	if m.allConnectedLocked() {
		m.pausedAt = time.Time{}
		m.lastSimulation = now
		if m.state == types.MatchStateWaitingForPlayers {
			m.state = types.MatchStateActive
			m.startedAt = now
			m.schedulePowerUpLocked(now)
			m.logger.Info("All players connected, match started")
		}
	}

	return p.Slot, nil
}

// DisconnectPlayer marks slot as disconnected. The match pauses until the
// player reconnects and is destroyed once nobody is left in a started match.
func (m *Match) DisconnectPlayer(slot int) {
	m.mu.Lock()
	p := m.participant(slot)
	if m.closed || p == nil || !p.connected {
		m.mu.Unlock()
		return
	}

	p.connected = false
	p.conn = nil
	p.paddle.Stop()
	if m.pausedAt.IsZero() {
		m.pausedAt = m.clock()
	}
	m.broadcastLocked(messages.NewOpponentConnection(p.Slot, false), p.Slot)
	if m.reporter != nil {
		m.reporter.PlayerInGame(p.PlayerID, false)
	}
	m.logger.Info("Player %s disconnected from slot %d", p.PlayerID, p.Slot)

	abandoned := m.state == types.MatchStateActive && m.connectedCountLocked() == 0
	if abandoned {
		m.reportWithoutWinnerLocked(reasonAbandoned)
	}
	m.mu.Unlock()

	if abandoned {
		m.Close(messages.CloseNormal, reasonAbandoned)
	}
}

// Input records the held direction of slot. Input is ignored once the match ended.
func (m *Match) Input(slot int, dir types.Direction, inputSeq int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.participant(slot)
	if p == nil || !p.connected || m.state == types.MatchStateEnded {
		return
	}
	p.paddle.SetDirection(dir)
	if inputSeq > p.lastInputSeq {
		p.lastInputSeq = inputSeq
	}
}

// Bounce applies a bounce reported by a client. It shares the debounce
// window with the bounces detected by the simulation.
func (m *Match) Bounce(slot int, axis types.Axis) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	if m.participant(slot) == nil || m.state != types.MatchStateActive || m.ball == nil || !m.ball.Started(now) {
		return false
	}
	return m.ball.Bounce(axis, now)
}

// Pong answers a latency probe from slot.
func (m *Match) Pong(slot int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p := m.participant(slot); p != nil {
		m.sendLocked(p, messages.NewPong())
	}
}

// Run ticks the simulation until the match is closed or ctx is done.
func (m *Match) Run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("Match loop panicked: %v", r)
			m.Close(messages.CloseInternalError, "Internal error")
		}
	}()

	ticker := time.NewTicker(m.settings.simulationInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.Close(messages.CloseNormal, reasonShuttingDown)
			return
		case <-m.done:
			return
		case t := <-ticker.C:
			m.Tick(t)
		}
	}
}

// Tick runs one simulation step at now, broadcasts state on the network
// cadence and closes the match when it reached a terminal state.
func (m *Match) Tick(now time.Time) {
	start := time.Now()
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}

	if m.expiredLocked(now) {
		m.logger.Info("Removing match after inactivity")
		m.reportWithoutWinnerLocked(reasonInactivity)
		m.broadcastLocked(messages.NewEndGame(m.id, "", m.resultPlayersLocked(""), m.matchTimeLocked()), 0)
		m.mu.Unlock()
		m.Close(messages.CloseNormal, reasonInactivity)
		return
	}

	dt := now.Sub(m.lastSimulation).Seconds()
	if m.lastSimulation.IsZero() || dt < 0 {
		dt = 0
	}
	if dt > constants.MaxDeltaSeconds {
		dt = constants.MaxDeltaSeconds
	}
	m.lastSimulation = now
	m.stepLocked(dt, now)

	ended := m.state == types.MatchStateEnded
	if ended || m.lastBroadcast.IsZero() || now.Sub(m.lastBroadcast) >= m.settings.networkInterval() {
		m.lastBroadcast = now
		m.broadcastLocked(m.snapshotLocked(now), 0)
	}
	m.mu.Unlock()

	if m.tickObserver != nil {
		m.tickObserver(time.Since(start))
	}
	if ended {
		m.Close(messages.CloseNormal, reasonMatchEnded)
	}
}

// Close releases every connection with code and reason and runs OnClosed.
// Only the first call has an effect.
func (m *Match) Close(code int, reason string) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	var conns []Conn
	for _, p := range m.participants {
		if p.connected && p.conn != nil {
			conns = append(conns, p.conn)
		}
		p.connected = false
		p.conn = nil
	}
	m.removeBallLocked()
	m.powerUp = nil
	m.mu.Unlock()

	for _, c := range conns {
		if err := c.Close(code, reason); err != nil {
			m.logger.Debug("Failed to close participant connection: %v", err)
		}
	}
	close(m.done)
	m.logger.Info("Match closed: %s", reason)
	if m.onClosed != nil {
		m.onClosed(m)
	}
}

func (m *Match) stepLocked(dt float64, now time.Time) {
	if m.state != types.MatchStateActive || !m.allConnectedLocked() {
		return
	}
	m.elapsed += time.Duration(dt * float64(time.Second))

	for _, p := range m.participants {
		p.paddle.Update(dt, now)
	}

	if m.ball == nil {
		m.spawnBallLocked(now)
	}

	scorer := m.ball.Move(dt, now)
	if m.paddleHitLocked() {
		m.ball.Bounce(types.AxisX, now)
	}
	if scorer != "" {
		m.scoreLocked(scorer, now)
		return
	}

	m.updatePowerUpsLocked(now)
}

func (m *Match) spawnBallLocked(now time.Time) {
	m.ball = NewBall(m.settings, m.lastScorer, now, m.rng)
	m.lastTouchSlot = 0
	m.space.Add(m.ball.Object())
}

func (m *Match) removeBallLocked() {
	if m.ball == nil {
		return
	}
	m.space.Remove(m.ball.Object())
	m.ball = nil
}

// paddleHitLocked reports whether the ball overlaps a paddle it is moving
// towards. Candidates come from the resolv cells the ball occupies.
func (m *Match) paddleHitLocked() bool {
	collision := m.ball.Object().Check(0, 0, types.CollisionSpaceTagPaddle)
	if collision == nil {
		return false
	}
	ballBox := m.ball.Hitbox()
	movingRight := m.ball.Direction.X > 0
	for _, obj := range collision.Objects {
		for _, p := range m.participants {
			if p.paddle.Object() != obj || !ballBox.Overlaps(p.paddle.Hitbox()) {
				continue
			}
			if (movingRight && p.Side == types.SideRight) || (!movingRight && p.Side == types.SideLeft) {
				m.lastTouchSlot = p.Slot
				return true
			}
		}
	}
	return false
}

func (m *Match) scoreLocked(side types.Side, now time.Time) {
	m.lastScorer = side
	m.removeBallLocked()
	m.powerUp = nil

	won := false
	for _, p := range m.participants {
		if p.Side == side {
			p.score++
			if p.score >= m.settings.MaxScore {
				won = true
			}
		}
	}
	m.logger.Debug("Side %s scored", side)
	if won {
		m.endLocked(side, now)
	}
}

// endLocked finishes the match in favour of side and notifies everyone.
func (m *Match) endLocked(side types.Side, now time.Time) {
	m.state = types.MatchStateEnded
	m.removeBallLocked()
	for _, p := range m.participants {
		p.paddle.Stop()
	}

	winner := ""
	for _, p := range m.participants {
		if p.Side == side {
			winner = p.Name
			break
		}
	}

	m.broadcastLocked(messages.NewEndGame(m.id, winner, m.resultPlayersLocked(side), m.matchTimeLocked()), 0)
	if m.reporter != nil {
		m.reporter.MatchEnded(m.resultLocked(side, reasonMatchEnded))
	}
	m.logger.Info("Match ended, winner %s (%s)", winner, side)
}

func (m *Match) reportWithoutWinnerLocked(reason string) {
	if m.reporter != nil {
		m.reporter.MatchEnded(m.resultLocked("", reason))
	}
}

func (m *Match) resultLocked(side types.Side, reason string) Result {
	r := Result{
		MatchID:     m.id,
		GameType:    m.gameType,
		WinningSide: side,
		Reason:      reason,
		StartedAt:   m.startedAt,
		Duration:    m.elapsed,
	}
	for _, p := range m.participants {
		r.Players = append(r.Players, ResultPlayer{
			Slot:     p.Slot,
			PlayerID: p.PlayerID,
			Name:     p.Name,
			Rank:     p.Rank,
			Score:    p.score,
			Winner:   side != "" && p.Side == side,
		})
	}
	return r
}

func (m *Match) resultPlayersLocked(side types.Side) map[int]messages.ResultPlayer {
	out := make(map[int]messages.ResultPlayer, len(m.participants))
	for _, p := range m.participants {
		out[p.Slot] = messages.ResultPlayer{
			ID:     p.PlayerID,
			Name:   p.Name,
			Score:  p.score,
			Winner: side != "" && p.Side == side,
		}
	}
	return out
}

func (m *Match) matchTimeLocked() *messages.MatchTime {
	t := &messages.MatchTime{Duration: formatElapsed(m.elapsed)}
	if !m.startedAt.IsZero() {
		t.StartedAt = m.startedAt.UTC().Format("02/01/2006 | 15:04:05")
	}
	return t
}

// expiredLocked reports whether the match waited too long for its players.
func (m *Match) expiredLocked(now time.Time) bool {
	switch m.state {
	case types.MatchStateWaitingForPlayers:
		return m.settings.ConnectTimeout > 0 && now.Sub(m.createdAt) >= m.settings.ConnectTimeout
	case types.MatchStateActive:
		return m.settings.ReconnectTimeout > 0 && !m.pausedAt.IsZero() && now.Sub(m.pausedAt) >= m.settings.ReconnectTimeout
	default:
		return false
	}
}

func (m *Match) allConnectedLocked() bool {
	return m.connectedCountLocked() == len(m.participants)
}

func (m *Match) connectedCountLocked() int {
	n := 0
	for _, p := range m.participants {
		if p.connected {
			n++
		}
	}
	return n
}

func (m *Match) snapshotLocked(now time.Time) *messages.State {
	state := messages.NewState(m.id)
	for _, p := range m.participants {
		state.Players[p.Slot] = messages.PlayerSnapshot{
			ID:           p.PlayerID,
			Name:         p.Name,
			Score:        p.score,
			Position:     p.paddle.Position,
			Size:         messages.Size{Width: p.paddle.Width(), Height: p.paddle.Height()},
			Connected:    p.connected,
			LastInputSeq: p.lastInputSeq,
		}
	}
	if m.ball != nil {
		pos := m.ball.Position
		state.Ball = messages.BallSnapshot{Exists: true, Position: &pos}
	}
	state.Game = messages.GameSnapshot{
		Started: m.state != types.MatchStateWaitingForPlayers,
		Ended:   m.state == types.MatchStateEnded,
		Time:    formatElapsed(m.elapsed),
	}
	state.PowerUp, state.Effects = m.powerUpSnapshotLocked(now)
	return state
}

func (m *Match) sendLocked(p *Participant, msg messages.Message) {
	if !p.connected || p.conn == nil {
		return
	}
	b, err := messages.Encode(msg)
	if err != nil {
		m.logger.Error("Failed to encode message: %v", err)
		return
	}
	if err := p.conn.Send(b); err != nil {
		m.logger.Debug("Failed to send %s to slot %d: %v", msg.MessageType(), p.Slot, err)
	}
}

// broadcastLocked sends msg to every connected participant except skipSlot.
func (m *Match) broadcastLocked(msg messages.Message, skipSlot int) {
	b, err := messages.Encode(msg)
	if err != nil {
		m.logger.Error("Failed to encode message: %v", err)
		return
	}
	for _, p := range m.participants {
		if p.Slot == skipSlot || !p.connected || p.conn == nil {
			continue
		}
		if err := p.conn.Send(b); err != nil {
			m.logger.Debug("Failed to send %s to slot %d: %v", msg.MessageType(), p.Slot, err)
		}
	}
}

// formatElapsed renders d as mm:ss.
func formatElapsed(d time.Duration) string {
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
