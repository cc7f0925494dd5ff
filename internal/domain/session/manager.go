package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/SamTheHermit/AlbumPhoto/internal/metrics"
	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/locale"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 2 * time.Hour

// Manager keeps live sessions in memory and evicts idle ones.
type Manager struct {
	deps Deps
	ttl  time.Duration

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	now      func() time.Time
}

// NewManager creates session manager
func NewManager(deps Deps, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		deps:     deps,
		ttl:      ttl,
		sessions: make(map[uuid.UUID]*Session),
		now:      time.Now,
	}
}

// Create starts a new session.
func (m *Manager) Create(loc locale.Locale) *Session {
	s := New(m.deps, loc)
	s.now = m.now
	s.lastSeen = m.now()

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	metrics.ActiveSessions.Inc()
	log.Info().Str("session_id", s.ID.String()).Str("locale", loc.Tag().String()).Msg("Session created")
	return s
}

// Get returns a live session.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete drops a session and disconnects its subscribers.
func (m *Manager) Delete(id uuid.UUID) {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return
	}
	metrics.ActiveSessions.Dec()
	if closer, ok := m.deps.Notifier.(SessionCloser); ok {
		closer.CloseSession(id)
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// EvictIdle drops sessions idle for longer than the TTL.
func (m *Manager) EvictIdle() int {
	cutoff := m.now().Add(-m.ttl)

	m.mu.RLock()
	var idle []uuid.UUID
	for id, s := range m.sessions {
		if s.IdleSince().Before(cutoff) {
			idle = append(idle, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range idle {
		m.Delete(id)
	}
	if len(idle) > 0 {
		log.Info().Int("evicted", len(idle)).Int("active", m.Len()).Msg("Evicted idle sessions")
	}
	return len(idle)
}

// Run evicts idle sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = m.ttl / 4
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.EvictIdle()
		}
	}
}
