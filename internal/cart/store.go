package cart

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-arot/internal/settlement"
)

// MemoryStore holds cart sessions in process memory. Carts are working state
// for a single market day; they are not persisted, and an idle cart expires
// after the TTL.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore constructs a store. A non-positive TTL defaults to 12 hours.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &MemoryStore{
		sessions: make(map[uuid.UUID]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *MemoryStore) expired(s Session) bool {
	return m.now().Sub(s.UpdatedAt) > m.ttl
}

// Get returns a deep copy of the session so callers can edit their snapshot
// without racing the stored one.
func (m *MemoryStore) Get(id uuid.UUID) (Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || m.expired(s) {
		return Session{}, false
	}
	return cloneSession(s), true
}

// Put stores the session snapshot, stamping UpdatedAt.
func (m *MemoryStore) Put(s Session) Session {
	s.UpdatedAt = m.now()
	m.mu.Lock()
	m.sessions[s.ID] = cloneSession(s)
	m.mu.Unlock()
	return s
}

// Delete removes the session. Deleting a missing session is a no-op.
func (m *MemoryStore) Delete(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len reports the number of live sessions, expired ones included until the
// next sweep.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops every expired session and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if m.expired(s) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper sweeps on the interval until the context is cancelled.
func (m *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Sweep()
			}
		}
	}()
}

func cloneSession(s Session) Session {
	out := s
	if s.Lines != nil {
		out.Lines = append([]settlement.Line(nil), s.Lines...)
	}
	if s.Batch != nil {
		batch := *s.Batch
		out.Batch = &batch
	}
	return out
}
