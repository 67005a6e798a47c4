// Package idgen mints 32-bit match identifiers.
//
// Layout, most significant bit first:
//
//	[31..20] low 12 bits of the unix millisecond timestamp
//	[19..15] low 5 bits of the first participant id
//	[14..10] low 5 bits of the second participant id
//	[ 9.. 0] per-millisecond sequence
//
// Identifiers repeat after 4096 ms for the same participant fragments, so
// callers that keep long lived matches must check for collisions.
package idgen

import (
	"hash/fnv"
	"strconv"
	"sync"
	"time"
)

const (
	timestampBits   = 12
	participantBits = 5
	sequenceBits    = 10

	timestampMask   = 1<<timestampBits - 1
	participantMask = 1<<participantBits - 1
	sequenceMask    = 1<<sequenceBits - 1
)

type Generator struct {
	mu         sync.Mutex
	now        func() time.Time
	lastMillis int64
	sequence   uint32
}

func New() *Generator {
	return NewWithClock(time.Now)
}

// NewWithClock returns a generator reading time from now.
func NewWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// Next returns a new identifier for a match between participants a and b.
// When the sequence is exhausted within one millisecond it spins until the
// clock moves on.
func (g *Generator) Next(a, b uint32) uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms == g.lastMillis {
		g.sequence = (g.sequence + 1) & sequenceMask
		if g.sequence == 0 {
			for ms == g.lastMillis {
				ms = g.now().UnixMilli()
			}
			g.lastMillis = ms
		}
	} else {
		g.sequence = 0
		g.lastMillis = ms
	}

	return Pack(ms, a, b, g.sequence)
}

// Pack assembles an identifier from its fields, truncating each one.
func Pack(millis int64, a, b, sequence uint32) uint32 {
	ts := uint32(millis) & timestampMask
	participants := (a&participantMask)<<participantBits | b&participantMask
	return ts<<(participantBits*2+sequenceBits) | participants<<sequenceBits | sequence&sequenceMask
}

// Fields is an identifier split back into its parts.
type Fields struct {
	Timestamp uint32
	First     uint32
	Second    uint32
	Sequence  uint32
}

func Unpack(id uint32) Fields {
	return Fields{
		Timestamp: id >> (participantBits*2 + sequenceBits),
		First:     (id >> (participantBits + sequenceBits)) & participantMask,
		Second:    (id >> sequenceBits) & participantMask,
		Sequence:  id & sequenceMask,
	}
}

// ParticipantFragment turns a player id into the number packed into an
// identifier. Decimal ids are used as is, anything else is hashed.
func ParticipantFragment(playerID string) uint32 {
	if n, err := strconv.ParseUint(playerID, 10, 64); err == nil {
		return uint32(n)
	}
	h := fnv.New32a()
	h.Write([]byte(playerID))
	return h.Sum32()
}
