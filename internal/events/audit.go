package events

import (
	"context"

	"go.uber.org/zap"
)

// RegisterAuditLog subscribes a structured audit logger to the auth-relevant
// event stream.
func RegisterAuditLog(d Dispatcher, logger *zap.Logger) {
	handler := func(_ context.Context, event Event) error {
		logger.Info("audit",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Int64("user_id", event.UserID),
			zap.Time("at", event.Timestamp),
		)
		return nil
	}

	for _, eventType := range []EventType{EventUserRegistered, EventUserLoggedIn, EventUserDeleted, EventOrderCreated} {
		d.Subscribe(eventType, handler)
	}
}
