package notification

import "context"

// Publisher is how the core emits events. Publishing never fails the caller's operation.
type Publisher interface {
	Publish(ctx context.Context, n Notification)
}

type Service interface {
	Publisher
	List(ctx context.Context, recipientID string, unreadOnly bool) ([]NotificationResponse, error)
	MarkAsRead(ctx context.Context, id, recipientID string) error

	// Stop flushes queued notifications and stops the background workers.
	Stop()
}
