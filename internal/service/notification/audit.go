package notification

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/sse"
)

// RunAuditLog writes every event published on the hub to logger until ctx is done.
func RunAuditLog(ctx context.Context, hub *sse.Hub, logger *slog.Logger) {
	ch, cleanup := hub.Subscribe(sse.Wildcard)
	defer cleanup()

	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return
			}
			logger.Info("event published", "event", event.Type, "recipient_id", event.RecipientID)
		case <-ctx.Done():
			return
		}
	}
}
