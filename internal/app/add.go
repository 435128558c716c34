package app

import (
	"context"
	"fmt"

	"github.com/deptdesk/deptdesk/internal/api"
	"github.com/deptdesk/deptdesk/internal/colors"
	"github.com/deptdesk/deptdesk/internal/notification"
)

// NotificationCreator defines dependencies required to create notifications.
type NotificationCreator interface {
	CreateNotification(ctx context.Context, req api.CreateNotificationRequest) (*notification.Notification, error)
}

// AddUseCase coordinates notification creation.
type AddUseCase struct {
	client NotificationCreator
}

// NewAddUseCase creates a new add use-case.
func NewAddUseCase(client NotificationCreator) *AddUseCase {
	if client == nil {
		panic("NewAddUseCase: client dependency cannot be nil")
	}
	return &AddUseCase{client: client}
}

// Execute creates a notification and reports its assigned id.
func (u *AddUseCase) Execute(ctx context.Context, title, message, category, link string) error {
	if message == "" {
		return fmt.Errorf("add: message cannot be empty")
	}

	created, err := u.client.CreateNotification(ctx, api.CreateNotificationRequest{
		Title:    title,
		Message:  message,
		Category: category,
		Link:     link,
	})
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}

	colors.Success(fmt.Sprintf("Notification %s created", created.ID))
	return nil
}
