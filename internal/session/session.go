// Package session is the application context of the web client: who is
// signed in, the gateway client carrying their remote-API cookies, and the
// sale they are composing. Sessions are created on login and cleared on
// logout or expiry.
package session

import (
	"errors"
	"log"
	"sync"
	"time"

	"inventora/webclient/internal/cart"
	"inventora/webclient/internal/domain"
	"inventora/webclient/internal/gateway"
	"inventora/webclient/internal/xid"
)

var ErrExpired = errors.New("session expired or signed out")

type Session struct {
	ID        string
	User      domain.UserInfo
	Gateway   *gateway.Client
	CreatedAt time.Time
	ExpiresAt time.Time

	mu       sync.Mutex
	composer *cart.Composer
}

// WithComposer runs fn with exclusive access to the session's sale composer,
// creating it on first use. Requests from the same browser may overlap.
func (s *Session) WithComposer(fn func(c *cart.Composer) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.composer == nil {
		s.composer = cart.NewComposer(s.Gateway)
	}
	return fn(s.composer)
}

type Manager struct {
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*Session
}

func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &Manager{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Load registers a freshly authenticated user.
func (m *Manager) Load(user domain.UserInfo, client *gateway.Client) *Session {
	now := m.now().UTC()
	s := &Session{
		ID:        xid.New("sess"),
		User:      user,
		Gateway:   client,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrExpired
	}
	if !m.now().Before(s.ExpiresAt) {
		m.Clear(id)
		return nil, ErrExpired
	}
	return s, nil
}

// Clear forgets the session and returns it, or nil if it was not loaded.
func (m *Manager) Clear(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil
	}
	delete(m.sessions, id)
	return s
}

// Sweep drops every expired session and reports how many went.
func (m *Manager) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("[session] swept %d expired sessions", removed)
	}
	return removed
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
