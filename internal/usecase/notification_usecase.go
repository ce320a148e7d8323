package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"marketplace_api/internal/domain/entities"
	"marketplace_api/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNotificationNotFound   = errors.New("notification not found")
	ErrInvalidNotificationID  = errors.New("invalid notification id")
	ErrInvalidNotificationArg = errors.New("invalid notification")
)

// INotificationUseCase is the user inbox.
type INotificationUseCase interface {
	List(ctx context.Context, userID string, filter entities.NotificationListFilter) ([]entities.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, id, userID string) (entities.Notification, error)
	MarkAllAsRead(ctx context.Context, userID string) (int, error)
}

type NotificationUseCase struct {
	repo   interfaces.INotificationRepository
	logger *zap.Logger
}

var _ INotificationUseCase = (*NotificationUseCase)(nil)
var _ interfaces.INotifier = (*NotificationUseCase)(nil)

func NewNotificationUseCase(repo interfaces.INotificationRepository, logger *zap.Logger) *NotificationUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationUseCase{repo: repo, logger: logger.With(zap.String("component", "notification.usecase"))}
}

// Emit stores n for its recipient. Failures are logged and dropped.
func (u *NotificationUseCase) Emit(ctx context.Context, n entities.Notification) {
	if strings.TrimSpace(n.UserID) == "" {
		u.logger.Warn("[notification][usecase] emit skipped: empty recipient", zap.String("title", n.Title))
		return
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Type == "" {
		n.Type = entities.NotificationTypeInfo
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	n.IsRead = false

	if _, err := u.repo.Create(ctx, n); err != nil {
		u.logger.Error("[notification][usecase] emit failed",
			zap.String("user_id", n.UserID),
			zap.String("type", string(n.Type)),
			zap.String("related_id", n.RelatedID),
			zap.Error(err))
		return
	}
	u.logger.Info("[notification][usecase] emitted",
		zap.String("notification_id", n.ID),
		zap.String("user_id", n.UserID),
		zap.String("type", string(n.Type)))
}

func (u *NotificationUseCase) List(ctx context.Context, userID string, filter entities.NotificationListFilter) ([]entities.Notification, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidNotificationArg
	}
	return u.repo.ListByUserID(ctx, userID, filter)
}

func (u *NotificationUseCase) CountUnread(ctx context.Context, userID string) (int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, ErrInvalidNotificationArg
	}
	return u.repo.CountUnreadByUserID(ctx, userID)
}

func (u *NotificationUseCase) MarkAsRead(ctx context.Context, id, userID string) (entities.Notification, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Notification{}, ErrInvalidNotificationID
	}

	n, err := u.repo.MarkAsRead(ctx, id, userID)
	if err != nil {
		return entities.Notification{}, err
	}
	if n.ID == "" {
		return entities.Notification{}, ErrNotificationNotFound
	}
	return n, nil
}

func (u *NotificationUseCase) MarkAllAsRead(ctx context.Context, userID string) (int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, ErrInvalidNotificationArg
	}
	return u.repo.MarkAllAsRead(ctx, userID)
}
