package app

import (
	"context"
	"fmt"

	"github.com/deptdesk/deptdesk/internal/colors"
	"github.com/deptdesk/deptdesk/internal/notification"
)

// MarkReadFeed defines dependencies required to mark notifications read.
type MarkReadFeed interface {
	MarkRead(ctx context.Context, id notification.ID) error
	MarkAllRead(ctx context.Context) error
}

// MarkReadUseCase coordinates mark-read behavior.
type MarkReadUseCase struct {
	feed MarkReadFeed
}

// NewMarkReadUseCase creates a new mark-read use-case.
func NewMarkReadUseCase(feed MarkReadFeed) *MarkReadUseCase {
	if feed == nil {
		panic("NewMarkReadUseCase: feed dependency cannot be nil")
	}
	return &MarkReadUseCase{feed: feed}
}

// Execute marks one notification as read.
func (u *MarkReadUseCase) Execute(ctx context.Context, id notification.ID) error {
	if err := u.feed.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("mark-read: %w", err)
	}

	colors.Success(fmt.Sprintf("Notification %s marked as read", id))
	return nil
}

// ExecuteAll marks every notification as read.
func (u *MarkReadUseCase) ExecuteAll(ctx context.Context) error {
	if err := u.feed.MarkAllRead(ctx); err != nil {
		return fmt.Errorf("mark-all-read: %w", err)
	}

	colors.Success("All notifications marked as read")
	return nil
}
