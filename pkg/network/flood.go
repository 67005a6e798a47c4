package network

import (
	"fmt"
	"sync"
)

// DefaultMaxConnectionsPerAddress is the default ceiling of a FloodGuard.
const DefaultMaxConnectionsPerAddress = 10

// TooManyConnectionsError is returned when an address already holds the
// maximum number of open connections.
type TooManyConnectionsError struct {
	Address string
	Max     int
}

func (e *TooManyConnectionsError) Error() string {
	return fmt.Sprintf("address %s already has %d open connections", e.Address, e.Max)
}

// FloodGuard counts open connections per source address.
type FloodGuard struct {
	mu     sync.Mutex
	counts map[string]int
	max    int
}

func NewFloodGuard(max int) *FloodGuard {
	if max <= 0 {
		max = DefaultMaxConnectionsPerAddress
	}
	return &FloodGuard{
		counts: map[string]int{},
		max:    max,
	}
}

// Acquire registers a new connection from addr. It fails without counting
// the connection when addr is already at the ceiling.
func (g *FloodGuard) Acquire(addr string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.counts[addr] >= g.max {
		return &TooManyConnectionsError{Address: addr, Max: g.max}
	}
	g.counts[addr]++
	return nil
}

// Release forgets one connection of addr.
func (g *FloodGuard) Release(addr string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.counts[addr]
	if !ok {
		return
	}
	if n <= 1 {
		delete(g.counts, addr)
		return
	}
	g.counts[addr] = n - 1
}

func (g *FloodGuard) Count(addr string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.counts[addr]
}

// Addresses returns the number of addresses with open connections.
func (g *FloodGuard) Addresses() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.counts)
}
