package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/execpartners/bpsim/internal/plan"
)

// Session is one user's working state. It is not safe for concurrent use;
// the HTTP layer serializes access per session.
type Session struct {
	Candidate plan.Candidate
	Prospects plan.ProspectList

	// EditIndex is the position currently being edited in the prospect list,
	// -1 when no edit is in progress.
	EditIndex int

	// LastSignature is the signature of the last record successfully
	// appended to the external store. Never persisted.
	LastSignature string

	// AutosaveFingerprint is the core-field fingerprint recorded at the last
	// change-triggered auto-save.
	AutosaveFingerprint string

	// Last evaluation, kept for the live snapshot stream.
	LastScore   int
	LastVerdict string
}

// NewSession returns an empty session with no edit in progress.
func NewSession() *Session {
	return &Session{EditIndex: -1}
}

// entry is a session together with the time it was last touched.
type entry struct {
	sess      *Session
	updatedAt time.Time
}

// Store is a thread-safe in-memory session registry keyed by session ID.
// A background goroutine (Run) periodically evicts sessions that have not
// been touched within the configured TTL.
type Store struct {
	mu   sync.Mutex
	data map[string]*entry
	ttl  time.Duration
	now  func() time.Time // injectable for deterministic tests
}

// New creates a Store with the given idle TTL.
func New(ttl time.Duration) *Store {
	return &Store{
		data: make(map[string]*entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Get returns the session for the given ID, creating it on first use.
// Every call refreshes the entry's idle timer.
func (s *Store) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[id]
	if !ok {
		e = &entry{sess: NewSession()}
		s.data[id] = e
	}
	e.updatedAt = s.now()
	return e.sess
}

// Lookup returns the session for the given ID without creating one. A hit
// refreshes the idle timer: a session kept alive only by an open live stream
// must not be evicted mid-stream.
func (s *Store) Lookup(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[id]
	if !ok {
		return nil, false
	}
	e.updatedAt = s.now()
	return e.sess, true
}

// Count returns the number of sessions currently held, including idle ones.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Evict removes sessions idle longer than the TTL as of now. It returns the
// number of sessions removed.
func (s *Store) Evict(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := now.Add(-s.ttl)
	removed := 0
	for id, e := range s.data {
		if !e.updatedAt.After(cutoff) {
			delete(s.data, id)
			removed++
		}
	}
	return removed
}

// Run starts the background eviction loop. It ticks at half the TTL interval
// (minimum 1 second). Run blocks until ctx is cancelled.
func (s *Store) Run(ctx context.Context) {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.Evict(now); n > 0 {
				slog.Debug("session: evicted idle sessions", "count", n)
			}
		}
	}
}
