// Package session keeps the signed-in user of one device. The session is flat: it lasts
// until Logout or until the cache is cleared, and the token is never refreshed.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/ridloal/meoris-storefront/internal/platform/apperr"
	"github.com/ridloal/meoris-storefront/internal/platform/logger"
)

var (
	ErrInvalidCredentials = apperr.Unauthorized("Invalid email or password")
	ErrNotLoggedIn        = apperr.Unauthorized("not logged in")
)

// SessionUser is the device copy of the signed-in user.
type SessionUser struct {
	ID    string `yaml:"id" json:"id"`
	Email string `yaml:"email" json:"email"`
	Nama  string `yaml:"nama" json:"nama"`
	Token string `yaml:"token" json:"-"`
}

// Authenticator verifies credentials against the backend.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*SessionUser, error)
}

// Manager is the single source of who is acting. It is created once per process and handed
// to every consumer that needs identity.
type Manager struct {
	cache Cache
	auth  Authenticator

	mu      sync.RWMutex
	current *SessionUser
	loaded  bool
}

func NewManager(cache Cache, auth Authenticator) *Manager {
	return &Manager{cache: cache, auth: auth}
}

// CurrentUser returns the signed-in user. The cache is read once; an unreadable cache counts as
// signed out.
func (m *Manager) CurrentUser() (*SessionUser, bool) {
	m.mu.RLock()
	if m.loaded {
		u := m.current
		m.mu.RUnlock()
		return u, u != nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		u, err := m.cache.Load()
		if err != nil {
			logger.Warn("Session: cache unreadable, treating as signed out", logger.Fields{"error": err.Error()})
			u = nil
		}
		m.current, m.loaded = u, true
	}
	return m.current, m.current != nil
}

// Require returns the signed-in user or ErrNotLoggedIn.
func (m *Manager) Require() (*SessionUser, error) {
	u, ok := m.CurrentUser()
	if !ok {
		return nil, ErrNotLoggedIn
	}
	return u, nil
}

// Login verifies the credentials and persists the session. Unknown email and wrong password
// both fail with ErrInvalidCredentials.
func (m *Manager) Login(ctx context.Context, email, password string) (*SessionUser, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("email and password are required")
	}
	u, err := m.auth.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthorized) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := m.cache.Save(u); err != nil {
		logger.Error("Session: failed to persist session", err, logger.Fields{"user_id": u.ID})
		return nil, apperr.Backend(err)
	}

	m.mu.Lock()
	m.current, m.loaded = u, true
	m.mu.Unlock()
	logger.Info("Session: signed in", logger.Fields{"user_id": u.ID})
	return u, nil
}

// Logout forgets the user. It always succeeds; a cache that cannot be cleared is logged.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.current, m.loaded = nil, true
	m.mu.Unlock()
	if err := m.cache.Clear(); err != nil {
		logger.Warn("Session: failed to clear cache", logger.Fields{"error": err.Error()})
	}
}
