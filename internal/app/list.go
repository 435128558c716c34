package app

import (
	"context"
	"fmt"
	"io"

	"github.com/deptdesk/deptdesk/internal/notification"
	"github.com/deptdesk/deptdesk/internal/search"
)

// Feed defines the feed operations the list command needs.
type Feed interface {
	Refresh(ctx context.Context)
	Notifications() []notification.Notification
}

// ListUseCase coordinates the one-shot feed listing.
type ListUseCase struct {
	feed Feed
}

// NewListUseCase creates a list use-case.
func NewListUseCase(feed Feed) *ListUseCase {
	if feed == nil {
		panic("NewListUseCase: feed dependency cannot be nil")
	}
	return &ListUseCase{feed: feed}
}

// ListOptions narrows the listing to notifications matching a search
// query. A nil provider with a non-empty query falls back to substring
// matching.
type ListOptions struct {
	Search   string
	Provider search.Provider
}

// Execute refreshes the feed once and writes it newest first.
func (u *ListUseCase) Execute(ctx context.Context, w io.Writer, opts ListOptions) error {
	u.feed.Refresh(ctx)

	ns := u.feed.Notifications()
	if opts.Search != "" {
		provider := opts.Provider
		if provider == nil {
			provider = search.NewSubstringProvider()
		}
		ns = search.Filter(ns, provider, opts.Search)
	}
	if len(ns) == 0 {
		_, _ = fmt.Fprintln(w, "No notifications")
		return nil
	}

	unread := 0
	for _, n := range ns {
		_, _ = fmt.Fprintln(w, FormatNotificationLine(n))
		if n.Unread() {
			unread++
		}
	}
	_, _ = fmt.Fprintf(w, "\n%d notification(s), %d unread\n", len(ns), unread)
	return nil
}

// FormatNotificationLine renders one notification as a single list line.
func FormatNotificationLine(n notification.Notification) string {
	marker := " "
	if n.Unread() {
		marker = "*"
	}
	label := n.Title
	if label == "" {
		label = n.Category
	}
	if label != "" {
		label = " [" + label + "]"
	}
	return fmt.Sprintf("%s %s  [%s]%s %s",
		marker, n.ID, n.CreatedAt.Format("2006-01-02 15:04:05"), label, n.Message)
}
