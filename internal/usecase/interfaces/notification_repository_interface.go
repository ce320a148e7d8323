package interfaces

import (
	"context"

	"marketplace_api/internal/domain/entities"
)

// INotificationRepository abstracts DynamoDB persistence for Notification.
type INotificationRepository interface {
	Create(ctx context.Context, n entities.Notification) (entities.Notification, error)
	ListByUserID(ctx context.Context, userID string, filter entities.NotificationListFilter) ([]entities.Notification, error)
	CountUnreadByUserID(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, id, userID string) (entities.Notification, error)
	MarkAllAsRead(ctx context.Context, userID string) (int, error)
}

// INotifier records notifications on behalf of other use cases.
//
// Emit never fails the caller: delivery problems are logged by the
// implementation and swallowed.
type INotifier interface {
	Emit(ctx context.Context, n entities.Notification)
}
