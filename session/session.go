// Package session resolves "who is the current actor" and "where they left
// off in pagination" across stateless HTTP requests. Each logical session is
// isolated: operations on one session are serialized through the manager's
// lock and never observe another session's state.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MichaelGalloway404/BooksRead/book"
	"github.com/MichaelGalloway404/BooksRead/config"
	"github.com/MichaelGalloway404/BooksRead/logger"
	"github.com/MichaelGalloway404/BooksRead/pager"
)

var (
	// ErrNotAuthenticated is returned when an action requiring ownership is
	// attempted without a resolved identity
	ErrNotAuthenticated = errors.New("not logged in")
	// ErrNoSession is returned when a token does not resolve to a live session
	ErrNoSession = errors.New("no such session")
)

// state holds the per-actor resolved identity and pagination cursor.
// UserID == 0 means anonymous.
type state struct {
	userID     int64
	username   string
	pageOffset int
	expiresAt  time.Time
}

// Manager owns all live sessions. Zero shared state exists between sessions;
// everything goes through the manager's mutex.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*state
	ttl      time.Duration
	done     chan struct{}
	closed   sync.Once
}

// NewManager creates a session manager and starts its expiry sweep
func NewManager(cfg config.SessionConfig) *Manager {
	ttl := time.Duration(cfg.TTL) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}
	m := &Manager{
		sessions: make(map[string]*state),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	go m.sweep()
	return m
}

// Close stops the expiry sweep
func (m *Manager) Close() {
	m.closed.Do(func() { close(m.done) })
}

func (m *Manager) sweep() {
	interval := m.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.mu.Lock()
			now := time.Now()
			removed := 0
			for token, s := range m.sessions {
				if now.After(s.expiresAt) {
					delete(m.sessions, token)
					removed++
				}
			}
			m.mu.Unlock()
			if removed > 0 {
				logger.Debug("Expired sessions removed", "count", removed)
			}
		}
	}
}

// Begin creates a fresh anonymous session and returns its token
func (m *Manager) Begin() string {
	token := uuid.New().String()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = &state{expiresAt: time.Now().Add(m.ttl)}
	return token
}

// live returns the session for token, refreshing its expiry.
// Caller must hold m.mu.
func (m *Manager) live(token string) *state {
	s, ok := m.sessions[token]
	if !ok {
		return nil
	}
	if time.Now().After(s.expiresAt) {
		delete(m.sessions, token)
		return nil
	}
	s.expiresAt = time.Now().Add(m.ttl)
	return s
}

// Valid reports whether token resolves to a live session
func (m *Manager) Valid(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live(token) != nil
}

// Authenticate transitions the session from Anonymous to Authenticated.
// A failed login never calls this: the session stays anonymous.
func (m *Manager) Authenticate(token string, user book.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.live(token)
	if s == nil {
		return ErrNoSession
	}
	s.userID = user.ID
	s.username = user.Username
	return nil
}

// CurrentUser returns the resolved identity, if any
func (m *Manager) CurrentUser(token string) (book.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.live(token)
	if s == nil || s.userID == 0 {
		return book.User{}, false
	}
	return book.User{ID: s.userID, Username: s.username}, true
}

// RequireAuthenticated returns the owner's user ID or ErrNotAuthenticated.
// Callers must map the error to an explicit "not logged in" response.
func (m *Manager) RequireAuthenticated(token string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.live(token)
	if s == nil || s.userID == 0 {
		return 0, ErrNotAuthenticated
	}
	return s.userID, nil
}

// ResetForAnonymousView clears identity and page offset. Called whenever a
// view that does not require authentication is entered, so no stale identity
// leaks into an unauthenticated render.
func (m *Manager) ResetForAnonymousView(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s := m.live(token); s != nil {
		s.userID = 0
		s.username = ""
		s.pageOffset = 0
	}
}

// ResetOffset rewinds pagination to the first page, keeping identity
func (m *Manager) ResetOffset(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s := m.live(token); s != nil {
		s.pageOffset = 0
	}
}

// Offset returns the session's current page offset
func (m *Manager) Offset(token string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s := m.live(token); s != nil {
		return s.pageOffset
	}
	return 0
}

// AdvanceOffset advances the session's cumulative page offset by delta
// (clamped at zero) and returns the new value. The read-advance-store runs
// under the manager's lock, so the following page-slice within the same
// request always sees this value.
func (m *Manager) AdvanceOffset(token string, delta int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.live(token)
	if s == nil {
		return 0
	}
	s.pageOffset = pager.Advance(s.pageOffset, delta)
	return s.pageOffset
}

// End destroys the session (logout)
func (m *Manager) End(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}
