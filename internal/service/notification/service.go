package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/utils"
)

// Config holds notification service configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
	ListLimit     int           // default: 50
}

type service struct {
	repo   notification.Repository
	hub    *sse.Hub
	config Config

	queue    chan notification.Notification
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewNotificationService creates a new notification service with background workers
func NewNotificationService(repo notification.Repository, hub *sse.Hub, cfg Config) notification.Service {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}
	if cfg.ListLimit == 0 {
		cfg.ListLimit = 50
	}

	s := &service{
		repo:   repo,
		hub:    hub,
		config: cfg,
		queue:  make(chan notification.Notification, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("notification service started",
		"workers", cfg.WorkerCount, "batch_size", cfg.BatchSize, "flush_interval", cfg.FlushInterval)

	return s
}

// worker persists queued notifications in batches and pushes them to the hub.
func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.Notification, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		inserted := 0
		for _, n := range batch {
			if err := s.deliver(ctx, n); err != nil {
				slog.Error("failed to persist notification", "worker", id, "type", n.Type, "recipient_id", n.RecipientID, "error", err)
				continue
			}
			inserted++
		}
		slog.Debug("notifications flushed", "worker", id, "count", inserted)

		batch = batch[:0]
	}

	for {
		select {
		case n := <-s.queue:
			batch = append(batch, n)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			for {
				select {
				case n := <-s.queue:
					batch = append(batch, n)
				default:
					flush()
					return
				}
			}
		}
	}
}

func (s *service) deliver(ctx context.Context, n notification.Notification) error {
	created, err := s.repo.Create(ctx, n)
	if err != nil {
		return err
	}
	s.hub.Publish(sse.Event{
		RecipientID: created.RecipientID,
		Type:        string(created.Type),
		Data:        notification.NewNotificationResponse(created),
	})
	return nil
}

// Publish queues a notification. It never fails the caller: when the queue
// is full the notification is written directly, and failures are logged.
func (s *service) Publish(ctx context.Context, n notification.Notification) {
	if n.ID == "" {
		n.ID = utils.NewID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	stopped := false
	select {
	case <-s.stopCh:
		stopped = true
	default:
	}
	if !stopped {
		select {
		case s.queue <- n:
			return
		default:
		}
	}

	if err := s.deliver(context.WithoutCancel(ctx), n); err != nil {
		slog.Error("failed to persist notification", "type", n.Type, "recipient_id", n.RecipientID, "error", err)
	}
}

// List implements notification.Service.
func (s *service) List(ctx context.Context, recipientID string, unreadOnly bool) ([]notification.NotificationResponse, error) {
	notifications, err := s.repo.ListByRecipient(ctx, recipientID, unreadOnly, s.config.ListLimit)
	if err != nil {
		return nil, err
	}

	responses := make([]notification.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = notification.NewNotificationResponse(n)
	}
	return responses, nil
}

// MarkAsRead implements notification.Service.
func (s *service) MarkAsRead(ctx context.Context, id, recipientID string) error {
	return s.repo.MarkAsRead(ctx, id, recipientID)
}

// Stop gracefully stops the notification service
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
		slog.Info("notification service stopped")
	})
}
