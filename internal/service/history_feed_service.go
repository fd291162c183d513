package service

import (
	"context"
	"fmt"

	"symptom-checker-be/internal/pkg/logger"
	"symptom-checker-be/pkg/events"
	pktNats "symptom-checker-be/pkg/nats"

	"github.com/google/uuid"
)

// HistoryDelivery defines how to push real-time history updates.
// Implemented by the WebSocket Hub.
type HistoryDelivery interface {
	Send(userID uuid.UUID, eventType string, payload map[string]interface{})
}

// HistoryFeedService bridges the NATS event bus onto connected WebSocket
// clients so every record change reaches the owning user's open sessions.
type HistoryFeedService struct {
	subscriber *pktNats.Subscriber
	delivery   HistoryDelivery
	logger     logger.ILogger
}

func NewHistoryFeedService(sub *pktNats.Subscriber, delivery HistoryDelivery, log logger.ILogger) *HistoryFeedService {
	return &HistoryFeedService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *HistoryFeedService) Start() {
	err := s.subscriber.Subscribe("events.>", "history-feed-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("HistoryFeedService", "Failed to start history feed subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("HistoryFeedService", "History feed started, listening to events.>", nil)
}

func (s *HistoryFeedService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	userIDStr, ok := payload["user_id"].(string)
	if !ok {
		// Event without a target user is not a history event; skip it.
		s.logger.Warn("HistoryFeedService", "Event missing user_id, skipping", map[string]interface{}{"type": event.EventType()})
		return nil
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		s.logger.Warn("HistoryFeedService", fmt.Sprintf("Invalid user_id in event: %s", userIDStr), map[string]interface{}{"type": event.EventType()})
		return nil
	}

	record, _ := payload["record"].(map[string]interface{})

	if s.delivery != nil {
		s.delivery.Send(userID, event.EventType(), record)
	}

	s.logger.Info("HistoryFeedService", "History event delivered", map[string]interface{}{
		"type":    event.EventType(),
		"user_id": userID,
	})
	return nil
}
