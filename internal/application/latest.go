package application

import (
	"context"
	"sync"
)

// latestGate lets only the most recent load per key finish. Starting a new
// load for a key cancels the one before it.
type latestGate struct {
	mu         sync.Mutex
	maxEntries int
	entries    map[string]latestEntry
	// seq numbers every load across all keys, so a key that was evicted and
	// begun again never reuses a generation.
	seq uint64
}

type latestEntry struct {
	generation uint64
	cancel     context.CancelFunc
}

// latestTicket identifies one load. The zero ticket is never superseded.
type latestTicket struct {
	key        string
	generation uint64
}

func newLatestGate(maxEntries int) *latestGate {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	return &latestGate{
		maxEntries: maxEntries,
		entries:    make(map[string]latestEntry),
	}
}

// begin registers a load for key and cancels the previous one. An empty key
// opts out and yields the zero ticket.
func (g *latestGate) begin(key string, cancel context.CancelFunc) latestTicket {
	if g == nil || key == "" {
		return latestTicket{}
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	prev, ok := g.entries[key]
	if ok && prev.cancel != nil {
		prev.cancel()
	}
	if !ok && len(g.entries) >= g.maxEntries {
		g.evictOneLocked()
	}
	g.seq++
	next := g.seq
	g.entries[key] = latestEntry{generation: next, cancel: cancel}
	return latestTicket{key: key, generation: next}
}

// current reports whether t is still the newest load for its key.
func (g *latestGate) current(t latestTicket) bool {
	if g == nil || t.key == "" {
		return true
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	entry, ok := g.entries[t.key]
	return ok && entry.generation == t.generation
}

// done releases the key when t is still the newest load.
func (g *latestGate) done(t latestTicket) {
	if g == nil || t.key == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if entry, ok := g.entries[t.key]; ok && entry.generation == t.generation {
		entry.cancel = nil
		g.entries[t.key] = entry
	}
}

func (g *latestGate) evictOneLocked() {
	for key, entry := range g.entries {
		if entry.cancel == nil {
			delete(g.entries, key)
			return
		}
	}
	for key := range g.entries {
		delete(g.entries, key)
		return
	}
}
