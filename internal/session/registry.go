package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 2 * time.Hour

type entry struct {
	mu       sync.Mutex
	session  *Session
	lastSeen time.Time
}

// Registry keeps sessions in memory. Actions on one session are serialized, separate
// sessions never share state.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Do runs fn against the session with the given ID while holding its lock.
// Unknown or expired IDs get a fresh session; the ID actually used is returned.
func (r *Registry) Do(id string, fn func(s *Session) error) (string, error) {
	e := r.acquire(id)
	defer e.mu.Unlock()

	return e.session.id, fn(e.session)
}

func (r *Registry) acquire(id string) *entry {
	r.mu.Lock()
	now := r.now()
	r.sweep(now)

	e, ok := r.entries[id]
	if !ok {
		id = uuid.NewString()
		e = &entry{session: New(id)}
		r.entries[id] = e
	}
	e.lastSeen = now
	r.mu.Unlock()

	e.mu.Lock()
	return e
}

// sweep drops idle sessions. Callers hold r.mu.
func (r *Registry) sweep(now time.Time) {
	for id, e := range r.entries {
		if now.Sub(e.lastSeen) > r.ttl {
			delete(r.entries, id)
		}
	}
}

// Reset discards the session so the next access starts over.
func (r *Registry) Reset(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, id)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}
