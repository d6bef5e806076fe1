package notification

import "context"

type Repository interface {
	Create(ctx context.Context, n Notification) (Notification, error)
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]Notification, error)
	// MarkAsRead returns ErrNotificationNotFound if the notification does not belong to recipientID.
	MarkAsRead(ctx context.Context, id, recipientID string) error
}
