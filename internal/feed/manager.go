// Package feed manages the polled notification collection.
//
// The Manager holds the latest fetched batch (replaced wholesale on every
// refresh, never merged), a loading flag, and the derived unread count. It
// owns its poll loop: polling starts when the session becomes
// authenticated and stops when authentication is lost or the manager is
// closed.
package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/deptdesk/deptdesk/internal/logging"
	"github.com/deptdesk/deptdesk/internal/notification"
)

const (
	// DefaultLimit is the feed batch size requested per refresh.
	DefaultLimit = 50

	// DefaultPollInterval is the delay between automatic refreshes.
	DefaultPollInterval = 30 * time.Second
)

// Client is the API surface the feed needs.
type Client interface {
	ListNotifications(ctx context.Context, limit int) ([]notification.Notification, error)
	MarkNotificationRead(ctx context.Context, id notification.ID) error
	MarkAllNotificationsRead(ctx context.Context) error
}

// Session exposes the authentication state the feed gates on.
type Session interface {
	IsAuthenticated() bool
}

// Manager polls the feed endpoint and tracks read-state locally.
type Manager struct {
	client   Client
	session  Session
	limit    int
	interval time.Duration

	mu      sync.Mutex
	items   []notification.Notification
	loading bool
	stop    chan struct{}
}

// Option configures a Manager.
type Option func(*Manager)

// WithLimit sets the batch size requested per refresh.
func WithLimit(limit int) Option {
	return func(m *Manager) { m.limit = limit }
}

// WithPollInterval sets the automatic refresh interval.
func WithPollInterval(interval time.Duration) Option {
	return func(m *Manager) { m.interval = interval }
}

// NewManager creates a feed manager. It does not start polling; wire
// AuthChanged to the session manager or call Start explicitly.
func NewManager(client Client, session Session, opts ...Option) *Manager {
	m := &Manager{
		client:   client,
		session:  session,
		limit:    DefaultLimit,
		interval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AuthChanged reacts to a session transition: polling starts on
// became-authenticated and stops (clearing the collection) on lost
// authentication. Suitable as a session.Listener.
func (m *Manager) AuthChanged(authenticated bool) {
	if authenticated {
		m.Start()
		return
	}
	m.Stop()
	m.mu.Lock()
	m.items = nil
	m.mu.Unlock()
}

// Start launches the poll loop: one immediate refresh, then one per
// interval. Starting an already-started manager is a no-op.
func (m *Manager) Start() {
	m.mu.Lock()
	if m.stop != nil {
		m.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	m.stop = stop
	m.mu.Unlock()

	go m.poll(stop)
}

// Stop cancels the poll loop. In-flight requests are not cancelled; a
// response that lands after authentication is lost is discarded by
// Refresh's authenticated check.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stop != nil {
		close(m.stop)
		m.stop = nil
	}
}

// Close tears the manager down.
func (m *Manager) Close() {
	m.Stop()
}

func (m *Manager) poll(stop chan struct{}) {
	m.Refresh(context.Background())
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.Refresh(context.Background())
		}
	}
}

// Refresh replaces the held collection with a fresh batch. While
// Anonymous it clears the collection and issues no request. Fetch errors
// are logged and leave the collection unchanged. Overlapping refreshes
// are not sequenced; the later-arriving response wins.
func (m *Manager) Refresh(ctx context.Context) {
	if !m.session.IsAuthenticated() {
		m.mu.Lock()
		m.items = nil
		m.mu.Unlock()
		return
	}

	m.setLoading(true)
	defer m.setLoading(false)

	items, err := m.client.ListNotifications(ctx, m.limit)
	if err != nil {
		logging.Error("failed to load notifications", "error", err)
		return
	}
	// The session may have ended while the request was in flight; a
	// stale batch must not repopulate an anonymous client.
	if !m.session.IsAuthenticated() {
		return
	}

	m.mu.Lock()
	m.items = items
	m.mu.Unlock()
}

func (m *Manager) setLoading(loading bool) {
	m.mu.Lock()
	m.loading = loading
	m.mu.Unlock()
}

// Loading reports whether a refresh is in progress.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Notifications returns the held collection sorted newest first.
func (m *Manager) Notifications() []notification.Notification {
	m.mu.Lock()
	items := make([]notification.Notification, len(m.items))
	copy(items, m.items)
	m.mu.Unlock()

	notification.SortNewestFirst(items)
	return items
}

// UnreadCount returns the number of held notifications that count as
// unread (read-state false or absent).
func (m *Manager) UnreadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return notification.CountUnread(m.items)
}

// MarkRead marks one notification read on the server, then removes it
// from the held collection. On failure the collection is untouched; the
// local mutation only happens after server success.
func (m *Manager) MarkRead(ctx context.Context, id notification.ID) error {
	if err := m.client.MarkNotificationRead(ctx, id); err != nil {
		logging.Error("failed to mark notification read", "id", string(id), "error", err)
		return fmt.Errorf("mark read: %w", err)
	}

	m.mu.Lock()
	kept := m.items[:0]
	for _, n := range m.items {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	m.items = kept
	m.mu.Unlock()
	return nil
}

// MarkAllRead marks every notification read on the server, then clears
// the held collection. On failure the collection is untouched.
func (m *Manager) MarkAllRead(ctx context.Context) error {
	if err := m.client.MarkAllNotificationsRead(ctx); err != nil {
		logging.Error("failed to mark all notifications read", "error", err)
		return fmt.Errorf("mark all read: %w", err)
	}

	m.mu.Lock()
	m.items = nil
	m.mu.Unlock()
	return nil
}
