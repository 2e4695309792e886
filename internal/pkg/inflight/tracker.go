// Package inflight sequences overlapping requests for the same operation so
// that only the most recently started one is allowed to apply its result.
package inflight

import (
	"context"
	"sync"
)

// Tracker hands out tickets per key. Beginning a new ticket for a key cancels
// the context of the ticket it replaces.
type Tracker struct {
	mu     sync.Mutex
	seq    uint64
	active map[string]*Ticket
}

// Ticket is one in-flight request for a key
type Ticket struct {
	tracker *Tracker
	key     string
	id      uint64
	cancel  context.CancelFunc
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{active: make(map[string]*Ticket)}
}

// Begin registers a new request for key and returns a context that is
// canceled when a later request for the same key begins, or when Done is called.
func (t *Tracker) Begin(parent context.Context, key string) (context.Context, *Ticket) {
	ctx, cancel := context.WithCancel(parent)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	ticket := &Ticket{tracker: t, key: key, id: t.seq, cancel: cancel}
	if prev, ok := t.active[key]; ok {
		prev.cancel()
	}
	t.active[key] = ticket
	return ctx, ticket
}

// InFlight reports whether a request for key is still running
func (t *Tracker) InFlight(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.active[key]
	return ok
}

// Current reports whether no later request for the same key has begun
func (tk *Ticket) Current() bool {
	tk.tracker.mu.Lock()
	defer tk.tracker.mu.Unlock()
	cur, ok := tk.tracker.active[tk.key]
	return ok && cur.id == tk.id
}

// Done releases the ticket. It is safe to call more than once.
func (tk *Ticket) Done() {
	tk.cancel()

	tk.tracker.mu.Lock()
	defer tk.tracker.mu.Unlock()
	if cur, ok := tk.tracker.active[tk.key]; ok && cur.id == tk.id {
		delete(tk.tracker.active, tk.key)
	}
}
