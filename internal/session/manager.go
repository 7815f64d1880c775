package session

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"inflationdash/domain/core"
	"inflationdash/internal/reactive"
)

// GraphFactory creates the derived-value graph for a new session
type GraphFactory func() (*reactive.Graph, error)

// Session binds one client to its own graph
type Session struct {
	ID        core.SessionID
	Graph     *reactive.Graph
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// LastSeen returns when the session was last accessed
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Manager keeps live sessions in memory
type Manager struct {
	newGraph GraphFactory
	idleTTL  time.Duration
	now      func() time.Time

	sessions map[core.SessionID]*Session
	mu       sync.RWMutex
}

// NewManager creates a session manager. A zero idleTTL disables pruning on Create.
func NewManager(newGraph GraphFactory, idleTTL time.Duration) *Manager {
	return &Manager{
		newGraph: newGraph,
		idleTTL:  idleTTL,
		now:      time.Now,
		sessions: make(map[core.SessionID]*Session),
	}
}

// Create opens a new session with a fresh graph
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.idleTTL > 0 {
		if n := m.Prune(m.idleTTL); n > 0 {
			log.Printf("[Session] pruned %d idle sessions", n)
		}
	}

	g, err := m.newGraph()
	if err != nil {
		return nil, fmt.Errorf("create session graph: %w", err)
	}

	now := m.now()
	s := &Session{
		ID:        core.NewSessionID(),
		Graph:     g,
		CreatedAt: now,
		lastSeen:  now,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

// Get returns a live session and marks it as seen
func (m *Manager) Get(id core.SessionID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrSessionNotFound, id)
	}
	s.touch(m.now())
	return s, nil
}

// Close discards a session and its caches
func (m *Manager) Close(id core.SessionID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", core.ErrSessionNotFound, id)
	}
	delete(m.sessions, id)
	return nil
}

// Prune closes sessions idle for longer than idle and reports how many
func (m *Manager) Prune(idle time.Duration) int {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// IDs lists live session IDs, oldest first
func (m *Manager) IDs() []core.SessionID {
	m.mu.RLock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	ids := make([]core.SessionID, len(all))
	for i, s := range all {
		ids[i] = s.ID
	}
	return ids
}
