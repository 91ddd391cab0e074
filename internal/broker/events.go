package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"storesync-service/internal/models"
	"storesync-service/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher publishes sync outcomes, keyed by store so all of one
// tenant's events land on the same partition in order.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishSyncCompleted publishes a SyncCompleted event
func (ep *EventPublisher) PublishSyncCompleted(ctx context.Context, event *models.SyncCompletedEvent) error {
	key := fmt.Sprintf("store-%d", event.StoreID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishSyncFailed publishes a SyncFailed event
func (ep *EventPublisher) PublishSyncFailed(ctx context.Context, event *models.SyncFailedEvent) error {
	key := fmt.Sprintf("store-%d", event.StoreID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes incoming sync events to registered handlers
type EventHandler struct {
	logger          *zap.Logger
	onSyncCompleted func(context.Context, *models.SyncCompletedEvent) error
	onSyncFailed    func(context.Context, *models.SyncFailedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnSyncCompleted registers a handler for SyncCompleted events
func (eh *EventHandler) OnSyncCompleted(handler func(context.Context, *models.SyncCompletedEvent) error) {
	eh.onSyncCompleted = handler
}

// OnSyncFailed registers a handler for SyncFailed events
func (eh *EventHandler) OnSyncFailed(handler func(context.Context, *models.SyncFailedEvent) error) {
	eh.onSyncFailed = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeSyncCompleted:
		if eh.onSyncCompleted != nil {
			var event models.SyncCompletedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal SyncCompleted event: %w", err)
			}
			return eh.onSyncCompleted(ctx, &event)
		}

	case models.EventTypeSyncFailed:
		if eh.onSyncFailed != nil {
			var event models.SyncFailedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal SyncFailed event: %w", err)
			}
			return eh.onSyncFailed(ctx, &event)
		}

	default:
		eh.logger.Warn("Unhandled event type", zap.String("event_type", baseEvent.EventType))
	}

	return nil
}
