package feed

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/deptdesk/deptdesk/internal/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

// fakeClient is an in-memory feed Client.
type fakeClient struct {
	mu          sync.Mutex
	batch       []notification.Notification
	listErr     error
	markErr     error
	markAllErr  error
	listCalls   atomic.Int32
	markedIDs   []notification.ID
	markedAll   int
	beforeReply func()
}

func (c *fakeClient) ListNotifications(ctx context.Context, limit int) ([]notification.Notification, error) {
	c.listCalls.Add(1)
	if c.beforeReply != nil {
		c.beforeReply()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listErr != nil {
		return nil, c.listErr
	}
	out := make([]notification.Notification, len(c.batch))
	copy(out, c.batch)
	return out, nil
}

func (c *fakeClient) MarkNotificationRead(ctx context.Context, id notification.ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.markErr != nil {
		return c.markErr
	}
	c.markedIDs = append(c.markedIDs, id)
	return nil
}

func (c *fakeClient) MarkAllNotificationsRead(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.markAllErr != nil {
		return c.markAllErr
	}
	c.markedAll++
	return nil
}

// fakeSession is a toggleable Session.
type fakeSession struct {
	authenticated atomic.Bool
}

func (s *fakeSession) IsAuthenticated() bool { return s.authenticated.Load() }

func authenticated() *fakeSession {
	s := &fakeSession{}
	s.authenticated.Store(true)
	return s
}

func sampleBatch() []notification.Notification {
	return []notification.Notification{
		{ID: "1", Message: "a", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), IsRead: boolPtr(false)},
		{ID: "2", Message: "b", CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), IsRead: boolPtr(true)},
		{ID: "3", Message: "c", CreatedAt: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
	}
}

func TestRefreshWhileAnonymous(t *testing.T) {
	client := &fakeClient{batch: sampleBatch()}
	m := NewManager(client, &fakeSession{})

	m.Refresh(context.Background())

	assert.Empty(t, m.Notifications())
	assert.Equal(t, int32(0), client.listCalls.Load(), "anonymous refresh must not issue a request")
}

func TestRefreshReplacesCollection(t *testing.T) {
	client := &fakeClient{batch: sampleBatch()}
	m := NewManager(client, authenticated())

	m.Refresh(context.Background())

	assert.Len(t, m.Notifications(), 3)
	assert.Equal(t, 2, m.UnreadCount(), "false and absent read-state both count as unread")
	assert.False(t, m.Loading())
}

func TestRefreshErrorKeepsCollection(t *testing.T) {
	client := &fakeClient{batch: sampleBatch()}
	m := NewManager(client, authenticated())
	m.Refresh(context.Background())
	require.Len(t, m.Notifications(), 3)

	client.mu.Lock()
	client.listErr = errors.New("boom")
	client.mu.Unlock()
	m.Refresh(context.Background())

	assert.Len(t, m.Notifications(), 3, "failed refresh must leave the collection unchanged")
	assert.False(t, m.Loading(), "loading must be cleared even on failure")
}

func TestRefreshDiscardedAfterLogout(t *testing.T) {
	session := authenticated()
	client := &fakeClient{batch: sampleBatch()}
	// Authentication is lost while the request is in flight.
	client.beforeReply = func() { session.authenticated.Store(false) }
	m := NewManager(client, session)

	m.Refresh(context.Background())

	assert.Empty(t, m.Notifications(), "stale response after logout must be discarded")
}

func TestNotificationsSortedNewestFirst(t *testing.T) {
	client := &fakeClient{batch: []notification.Notification{
		{ID: "1", Message: "a", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), IsRead: boolPtr(false)},
		{ID: "2", Message: "b", CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), IsRead: boolPtr(true)},
	}}
	m := NewManager(client, authenticated())
	m.Refresh(context.Background())

	assert.Equal(t, 1, m.UnreadCount())
	ns := m.Notifications()
	require.Len(t, ns, 2)
	assert.Equal(t, notification.ID("2"), ns[0].ID)
	assert.Equal(t, notification.ID("1"), ns[1].ID)
}

func TestMarkRead(t *testing.T) {
	client := &fakeClient{batch: sampleBatch()}
	m := NewManager(client, authenticated())
	m.Refresh(context.Background())

	require.NoError(t, m.MarkRead(context.Background(), "1"))

	ns := m.Notifications()
	assert.Len(t, ns, 2)
	for _, n := range ns {
		assert.NotEqual(t, notification.ID("1"), n.ID)
	}
	assert.Equal(t, []notification.ID{"1"}, client.markedIDs)
}

func TestMarkReadFailureLeavesCollection(t *testing.T) {
	client := &fakeClient{batch: sampleBatch(), markErr: errors.New("boom")}
	m := NewManager(client, authenticated())
	m.Refresh(context.Background())

	err := m.MarkRead(context.Background(), "1")
	require.Error(t, err)
	assert.Len(t, m.Notifications(), 3, "failed mark-read must leave the collection untouched")
}

func TestMarkAllRead(t *testing.T) {
	client := &fakeClient{batch: sampleBatch()}
	m := NewManager(client, authenticated())
	m.Refresh(context.Background())

	require.NoError(t, m.MarkAllRead(context.Background()))
	assert.Empty(t, m.Notifications())
	assert.Zero(t, m.UnreadCount())
}

func TestMarkAllReadFailureLeavesCollection(t *testing.T) {
	client := &fakeClient{batch: sampleBatch(), markAllErr: errors.New("boom")}
	m := NewManager(client, authenticated())
	m.Refresh(context.Background())

	err := m.MarkAllRead(context.Background())
	require.Error(t, err)
	assert.Len(t, m.Notifications(), 3)
}

func TestPollLoopStartStop(t *testing.T) {
	client := &fakeClient{batch: sampleBatch()}
	m := NewManager(client, authenticated(), WithPollInterval(20*time.Millisecond))

	m.Start()
	defer m.Close()

	require.Eventually(t, func() bool { return client.listCalls.Load() >= 3 },
		time.Second, 5*time.Millisecond, "poll loop should refresh repeatedly")

	m.Stop()
	calls := client.listCalls.Load()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, calls, client.listCalls.Load(), "stopped loop must not refresh")
}

func TestStartIsIdempotent(t *testing.T) {
	client := &fakeClient{batch: sampleBatch()}
	m := NewManager(client, authenticated(), WithPollInterval(time.Hour))

	m.Start()
	m.Start()
	defer m.Close()

	// Only the immediate refresh of the single loop should have run.
	require.Eventually(t, func() bool { return client.listCalls.Load() == 1 },
		time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), client.listCalls.Load())
}

func TestAuthChanged(t *testing.T) {
	session := authenticated()
	client := &fakeClient{batch: sampleBatch()}
	m := NewManager(client, session, WithPollInterval(time.Hour))

	m.AuthChanged(true)
	defer m.Close()
	require.Eventually(t, func() bool { return len(m.Notifications()) == 3 },
		time.Second, 5*time.Millisecond)

	session.authenticated.Store(false)
	m.AuthChanged(false)
	assert.Empty(t, m.Notifications(), "losing authentication must clear the collection")
}
