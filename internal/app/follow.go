package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deptdesk/deptdesk/internal/colors"
	"github.com/deptdesk/deptdesk/internal/hooks"
	"github.com/deptdesk/deptdesk/internal/notification"
)

// FollowOptions holds all parameters for follow behavior.
type FollowOptions struct {
	Feed     Feed
	Interval time.Duration
	Output   io.Writer
	TickChan <-chan time.Time
}

// FollowUseCase coordinates follow behavior.
type FollowUseCase struct{}

// NewFollowUseCase creates a follow use-case.
func NewFollowUseCase() *FollowUseCase {
	return &FollowUseCase{}
}

// Execute polls the feed until interruption/cancellation, printing
// notifications it has not shown before.
func (u *FollowUseCase) Execute(ctx context.Context, opts FollowOptions) error {
	if opts.Feed == nil {
		return fmt.Errorf("follow: feed dependency cannot be nil")
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Second
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	colors.Info("Monitoring notifications (Ctrl+C to stop)...")
	_, _ = fmt.Fprintln(opts.Output)

	seen := make(map[notification.ID]bool)
	tickChan, cleanupTicker := setupFollowTickChan(opts)
	defer cleanupTicker()

	u.handleFollowTick(ctx, opts, seen)

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-sigChan:
			_, _ = fmt.Fprintf(opts.Output, "\nReceived signal %v, stopping...\n", sig)
			return nil
		case <-tickChan:
			u.handleFollowTick(ctx, opts, seen)
		}
	}
}

func setupFollowTickChan(opts FollowOptions) (<-chan time.Time, func()) {
	if opts.TickChan != nil {
		return opts.TickChan, func() {}
	}

	ticker := time.NewTicker(opts.Interval)
	return ticker.C, ticker.Stop
}

func (u *FollowUseCase) handleFollowTick(ctx context.Context, opts FollowOptions, seen map[notification.ID]bool) {
	opts.Feed.Refresh(ctx)
	printNewFollowNotifications(opts.Feed.Notifications(), seen, opts.Output)
}

func printNewFollowNotifications(notifications []notification.Notification, seen map[notification.ID]bool, output io.Writer) {
	for _, notif := range notifications {
		if seen[notif.ID] {
			continue
		}

		printFollowNotification(notif, output)
		seen[notif.ID] = true

		if err := hooks.Run(hooks.EventNotification, map[string]string{
			"DEPTDESK_NOTIFICATION_ID":       string(notif.ID),
			"DEPTDESK_NOTIFICATION_TITLE":    notif.Title,
			"DEPTDESK_NOTIFICATION_CATEGORY": notif.Category,
			"DEPTDESK_NOTIFICATION_MESSAGE":  notif.Message,
			"DEPTDESK_NOTIFICATION_LINK":     notif.Link,
		}); err != nil {
			colors.Warning(fmt.Sprintf("notification hook: %v", err))
		}
	}
}

func printFollowNotification(n notification.Notification, w io.Writer) {
	line := FormatNotificationLine(n)
	if n.Unread() {
		_, _ = fmt.Fprintf(w, "%s%s%s\n", colors.Yellow, line, colors.Reset)
		return
	}
	_, _ = fmt.Fprintln(w, line)
}
