package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/rinsrhq/console-backend/internal/realtime"
	"github.com/rinsrhq/console-backend/pkg/db/models"
	"github.com/rinsrhq/console-backend/pkg/enums"
	"github.com/rinsrhq/console-backend/pkg/logger"
	"github.com/rinsrhq/console-backend/pkg/metrics"
)

const orderEventsConsumerName = "order-events-worker"

// OrderEvent is the envelope published on the order events topic when a
// vendor decides an order. HubID scopes the fan-out; the order id lives in
// the payload under one of several historical field names.
type OrderEvent struct {
	EventID string         `json:"eventId"`
	Type    string         `json:"type"`
	HubID   string         `json:"hubId"`
	Message string         `json:"message"`
	Payload map[string]any `json:"payload"`
}

type notificationCreator interface {
	Create(ctx context.Context, notification *models.Notification) error
}

type hubAdminLister interface {
	ListByHub(ctx context.Context, hubID uuid.UUID) ([]models.Admin, error)
}

type hubBroadcaster interface {
	BroadcastToHub(ctx context.Context, channel string, event realtime.Event)
}

type unreadRecorder interface {
	OnEvent(adminID, orderID string)
}

type idempotencyChecker interface {
	CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error)
	Delete(ctx context.Context, consumer string, eventID uuid.UUID) error
}

// Consumer turns order decision events into notification rows for every
// admin of the hub, pushes the event into the hub's realtime room, and
// feeds the unread tracker. Redis idempotency keeps redeliveries from
// duplicating rows.
type Consumer struct {
	repo        notificationCreator
	admins      hubAdminLister
	broadcaster hubBroadcaster
	tracker     unreadRecorder
	manager     idempotencyChecker
	metrics     *metrics.RealtimeMetrics
	logg        *logger.Logger
}

// NewConsumer builds the order events consumer.
func NewConsumer(repo notificationCreator, admins hubAdminLister, broadcaster hubBroadcaster, tracker unreadRecorder, manager idempotencyChecker, m *metrics.RealtimeMetrics, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, errors.New("notifications repository required")
	}
	if admins == nil {
		return nil, errors.New("admins repository required")
	}
	if manager == nil {
		return nil, errors.New("idempotency manager required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &Consumer{
		repo:        repo,
		admins:      admins,
		broadcaster: broadcaster,
		tracker:     tracker,
		manager:     manager,
		metrics:     m,
		logg:        logg,
	}, nil
}

// Process handles one decoded event. Returning an error signals the caller
// to redeliver; the idempotency marker is cleared first so the retry is not
// swallowed.
func (c *Consumer) Process(ctx context.Context, event OrderEvent) error {
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"event_id":   event.EventID,
		"event_type": event.Type,
		"hub_id":     event.HubID,
	})

	eventType, err := enums.ParseOrderEventType(event.Type)
	if err != nil {
		c.logg.Info(logCtx, "event not handled by order events consumer")
		return nil
	}

	if strings.TrimSpace(event.EventID) == "" {
		return fmt.Errorf("event id missing")
	}
	eventID, err := uuid.Parse(event.EventID)
	if err != nil {
		return fmt.Errorf("parse event id: %w", err)
	}
	hubID, err := uuid.Parse(event.HubID)
	if err != nil {
		return fmt.Errorf("parse hub id: %w", err)
	}

	already, err := c.manager.CheckAndMarkProcessed(ctx, orderEventsConsumerName, eventID)
	if err != nil {
		return fmt.Errorf("idempotency check: %w", err)
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return nil
	}

	if err := c.fanOut(logCtx, eventType, hubID, event); err != nil {
		c.logg.Error(logCtx, "order event fan-out failed", err)
		_ = c.manager.Delete(ctx, orderEventsConsumerName, eventID)
		return err
	}

	c.broadcast(logCtx, eventType, event)
	c.logg.Info(logCtx, "order event processed")
	return nil
}

// fanOut persists one notification row per admin of the hub.
func (c *Consumer) fanOut(ctx context.Context, eventType enums.OrderEventType, hubID uuid.UUID, event OrderEvent) error {
	admins, err := c.admins.ListByHub(ctx, hubID)
	if err != nil {
		return fmt.Errorf("list hub admins: %w", err)
	}
	if len(admins) == 0 {
		c.logg.Warn(ctx, "no admins for hub, event dropped")
		return nil
	}

	orderID, hasOrderID := realtime.ResolveOrderID(event.Payload)
	var orderUUID *uuid.UUID
	if hasOrderID {
		if parsed, err := uuid.Parse(orderID); err == nil {
			orderUUID = &parsed
		}
	}

	notificationType := eventType.NotificationType()
	for _, admin := range admins {
		row := models.Notification{
			AdminID: admin.ID,
			HubID:   &hubID,
			OrderID: orderUUID,
			Type:    notificationType,
			Title:   titleFor(eventType),
			Body:    event.Message,
		}
		if err := c.repo.Create(ctx, &row); err != nil {
			return fmt.Errorf("create notification for admin %s: %w", admin.ID, err)
		}
		c.metrics.IncNotificationCreated(string(notificationType))
		if c.tracker != nil && hasOrderID {
			c.tracker.OnEvent(admin.ID.String(), orderID)
		}
	}
	return nil
}

// broadcast pushes the event into the hub's realtime room. Delivery is best
// effort; rows already exist, clients that missed the frame refetch.
func (c *Consumer) broadcast(ctx context.Context, eventType enums.OrderEventType, event OrderEvent) {
	if c.broadcaster == nil {
		return
	}
	c.broadcaster.BroadcastToHub(ctx, event.HubID, realtime.Event{
		Name:    string(eventType),
		Message: event.Message,
		Payload: event.Payload,
	})
}

func titleFor(eventType enums.OrderEventType) string {
	if eventType == enums.OrderEventDeclined {
		return "Vendor order declined"
	}
	return "Vendor order dispatched"
}

// Worker pulls order events off Pub/Sub and hands them to the consumer.
type Worker struct {
	subscription *gcppubsub.Subscriber
	consumer     *Consumer
	logg         *logger.Logger
}

// NewWorker binds the consumer to a subscription.
func NewWorker(subscription *gcppubsub.Subscriber, consumer *Consumer, logg *logger.Logger) (*Worker, error) {
	if subscription == nil {
		return nil, errors.New("order events subscription required")
	}
	if consumer == nil {
		return nil, errors.New("order events consumer required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &Worker{subscription: subscription, consumer: consumer, logg: logg}, nil
}

// Run consumes messages until the context is canceled. Malformed frames are
// acked and dropped; processing failures are nacked for redelivery.
func (w *Worker) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return w.subscription.Receive(ctx, func(innerCtx context.Context, msg *gcppubsub.Message) {
		logCtx := w.logg.WithField(innerCtx, "message_id", msg.ID)

		var event OrderEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			w.logg.Warn(logCtx, "invalid order event frame")
			msg.Ack()
			return
		}

		if err := w.consumer.Process(logCtx, event); err != nil {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}
