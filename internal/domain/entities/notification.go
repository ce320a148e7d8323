package entities

import "time"

type NotificationType string

const (
	NotificationTypeProposal NotificationType = "proposal"
	NotificationTypeService  NotificationType = "service"
	NotificationTypeMessage  NotificationType = "message"
	NotificationTypeReview   NotificationType = "review"
	NotificationTypePayment  NotificationType = "payment"
	NotificationTypeReminder NotificationType = "reminder"
	NotificationTypeInfo     NotificationType = "info"
)

// Notification is an inbox entry for a user.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI user_id-index: user_id / created_at
//
// Data is an opaque payload; nothing in the backend interprets it.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	IsRead    bool             `json:"is_read"`
	RelatedID string           `json:"related_id,omitempty"`
	Data      map[string]any   `json:"data,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

type NotificationListFilter struct {
	UnreadOnly bool
	Limit      int
	Skip       int
}
