// Package session owns the client-side authentication lifecycle.
//
// A Manager is either Anonymous (no token) or Authenticated (token and
// profile set). It is the single writer of that state: login, explicit
// logout, expiry-timer logout and the API's unauthorized signal all funnel
// through it.
package session

import (
	"sync"
	"time"

	"github.com/deptdesk/deptdesk/internal/api"
	"github.com/deptdesk/deptdesk/internal/credentials"
	"github.com/deptdesk/deptdesk/internal/logging"
	"github.com/deptdesk/deptdesk/internal/roles"
	"github.com/deptdesk/deptdesk/internal/token"
)

// expiryGrace is added past the token's nominal expiry before the
// automatic logout fires, so a request issued right at the boundary is
// rejected by the server rather than raced locally.
const expiryGrace = time.Second

// Store is the persistence boundary for the session.
type Store interface {
	Token() string
	User() *credentials.Profile
	SetToken(token string)
	SetUser(p *credentials.Profile)
	Clear()
}

// Listener is notified after an authentication transition. It is called
// outside the manager's lock, so it may call back into the Manager.
type Listener func(authenticated bool)

// Manager holds the current session and schedules automatic logout.
type Manager struct {
	mu        sync.Mutex
	store     Store
	token     string
	user      *credentials.Profile
	timer     *time.Timer
	listeners []Listener
	grace     time.Duration
}

// Option configures a Manager.
type Option func(*Manager)

// WithExpiryGrace overrides the post-expiry grace interval. Used by tests.
func WithExpiryGrace(grace time.Duration) Option {
	return func(m *Manager) { m.grace = grace }
}

// NewManager creates a Manager initialized from the store. The session is
// Authenticated only if both token and profile were persisted; a persisted
// token with a decodable expiry gets its logout timer armed immediately.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{store: store, grace: expiryGrace}
	for _, opt := range opts {
		opt(m)
	}

	tok := store.Token()
	user := store.User()
	if tok != "" && user != nil {
		m.token = tok
		m.user = user
		m.armTimerLocked(tok)
	}
	return m
}

// Subscribe registers a listener for authentication transitions.
func (m *Manager) Subscribe(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// Token returns the current bearer token, or "" when Anonymous.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// User returns a copy of the current profile, or nil when Anonymous.
func (m *Manager) User() *credentials.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// IsAuthenticated reports whether a session is active.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != ""
}

// IsAdmin reports whether the current user has the administrator role.
func (m *Manager) IsAdmin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user != nil && m.user.Role == roles.Admin
}

// Login installs a fresh session from the Auth API's login response,
// persists it, and (re)arms the expiry timer. A timer pending from a
// previous session is cancelled first so a stale expiry cannot fire after
// a fresh login.
func (m *Manager) Login(resp *api.LoginResponse) {
	user := &credentials.Profile{
		Email:       resp.Email,
		Role:        roles.Parse(resp.Role),
		AccessLevel: resp.AccessLevelValue,
		TokenType:   resp.TokenType,
	}
	if user.TokenType == "" {
		user.TokenType = "bearer"
	}

	m.mu.Lock()
	m.token = resp.AccessToken
	m.user = user
	m.store.SetToken(resp.AccessToken)
	m.store.SetUser(user)
	m.armTimerLocked(resp.AccessToken)
	listeners := m.snapshotListenersLocked()
	m.mu.Unlock()

	logging.Info("session established", "email", user.Email, "role", string(user.Role))
	for _, l := range listeners {
		l(true)
	}
}

// Logout cancels any pending expiry timer, clears the persisted session,
// and returns to Anonymous. Calling it while already Anonymous is a no-op.
func (m *Manager) Logout() {
	m.mu.Lock()
	if m.token == "" {
		m.mu.Unlock()
		return
	}
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.token = ""
	m.user = nil
	m.store.Clear()
	listeners := m.snapshotListenersLocked()
	m.mu.Unlock()

	logging.Info("session cleared")
	for _, l := range listeners {
		l(false)
	}
}

// HandleUnauthorized is the process-wide unauthorized signal handler.
// Register it with the API client; concurrent signals collapse into a
// single Anonymous transition.
func (m *Manager) HandleUnauthorized() {
	logging.Warn("server reported unauthorized, clearing session")
	m.Logout()
}

// armTimerLocked schedules the automatic logout for the token's expiry.
// At most one timer is pending: arming replaces any prior timer. Tokens
// without a decodable expiry claim get no timer.
func (m *Manager) armTimerLocked(tok string) {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	expMs, ok := token.ExpiryMillis(tok)
	if !ok {
		return
	}
	delay := time.Until(time.UnixMilli(expMs))
	if delay < 0 {
		delay = 0
	}
	m.timer = time.AfterFunc(delay+m.grace, m.Logout)
}

func (m *Manager) snapshotListenersLocked() []Listener {
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	return listeners
}
