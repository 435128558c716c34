package cmd

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/deptdesk/deptdesk/internal/api"
	"github.com/deptdesk/deptdesk/internal/colors"
	"github.com/deptdesk/deptdesk/internal/config"
	"github.com/deptdesk/deptdesk/internal/credentials"
	"github.com/deptdesk/deptdesk/internal/feed"
	"github.com/deptdesk/deptdesk/internal/guard"
	"github.com/deptdesk/deptdesk/internal/logging"
	"github.com/deptdesk/deptdesk/internal/session"
)

// runtime holds the shared dependencies the commands operate on.
// Everything is built lazily on first use so that commands that never
// touch the platform (help, version) stay free of side effects.
type runtime struct {
	once    sync.Once
	store   *credentials.Store
	session *session.Manager
	client  *api.Client
	feed    *feed.Manager
}

func newRuntime() *runtime {
	return &runtime{}
}

func (rt *runtime) init() {
	rt.once.Do(func() {
		config.Load()
		if err := logging.InitGlobal(); err != nil {
			// Logging is best effort; commands still work without it.
			colors.Debug(fmt.Sprintf("logging disabled: %v", err))
		}

		rt.store = credentials.Open()
		rt.session = session.NewManager(rt.store)

		timeout := time.Duration(config.GetInt("request_timeout_seconds", 30)) * time.Second
		rt.client = api.NewClient(
			config.Get("api_base_url", api.DefaultBaseURL),
			api.WithTimeout(timeout),
		)
		rt.client.SetTokenSource(rt.session.Token)
		rt.client.OnUnauthorized(rt.session.HandleUnauthorized)

		rt.feed = feed.NewManager(rt.client, rt.session,
			feed.WithLimit(config.GetInt("notifications_limit", feed.DefaultLimit)),
			feed.WithPollInterval(pollInterval()),
		)
		rt.session.Subscribe(rt.feed.AuthChanged)
	})
}

func pollInterval() time.Duration {
	secs := config.GetInt("poll_interval_seconds", 30)
	return time.Duration(secs) * time.Second
}

func (rt *runtime) shutdown() {
	if rt.feed != nil {
		rt.feed.Close()
	}
	_ = logging.ShutdownGlobal()
}

func (rt *runtime) Session() *session.Manager {
	rt.init()
	return rt.session
}

func (rt *runtime) Client() *api.Client {
	rt.init()
	return rt.client
}

func (rt *runtime) Feed() *feed.Manager {
	rt.init()
	return rt.feed
}

// errNotLoggedIn and errForbidden translate guard decisions into
// command errors.
var (
	errNotLoggedIn = errors.New("not logged in (run 'deptdesk login' first)")
	errForbidden   = errors.New("your role does not allow this command")
)

// guardError maps a guard decision to the error a command returns.
// Allow maps to nil.
func guardError(d guard.Decision) error {
	switch d {
	case guard.RedirectLogin:
		return errNotLoggedIn
	case guard.RedirectHome:
		return errForbidden
	default:
		return nil
	}
}
