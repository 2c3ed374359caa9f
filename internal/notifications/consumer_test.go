package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/rinsrhq/console-backend/internal/realtime"
	"github.com/rinsrhq/console-backend/pkg/db/models"
	"github.com/rinsrhq/console-backend/pkg/logger"
)

type fakeCreator struct {
	rows []models.Notification
	err  error
}

func (f *fakeCreator) Create(ctx context.Context, notification *models.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, *notification)
	return nil
}

type fakeAdminLister struct {
	admins []models.Admin
	err    error
}

func (f *fakeAdminLister) ListByHub(ctx context.Context, hubID uuid.UUID) ([]models.Admin, error) {
	return f.admins, f.err
}

type fakeBroadcaster struct {
	channels []string
	events   []realtime.Event
}

func (f *fakeBroadcaster) BroadcastToHub(ctx context.Context, channel string, event realtime.Event) {
	f.channels = append(f.channels, channel)
	f.events = append(f.events, event)
}

type fakeUnread struct {
	events [][2]string
}

func (f *fakeUnread) OnEvent(adminID, orderID string) {
	f.events = append(f.events, [2]string{adminID, orderID})
}

type fakeIdempotency struct {
	processed map[uuid.UUID]bool
	checkErr  error
	deleted   []uuid.UUID
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{processed: map[uuid.UUID]bool{}}
}

func (f *fakeIdempotency) CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error) {
	if f.checkErr != nil {
		return false, f.checkErr
	}
	if f.processed[eventID] {
		return true, nil
	}
	f.processed[eventID] = true
	return false, nil
}

func (f *fakeIdempotency) Delete(ctx context.Context, consumer string, eventID uuid.UUID) error {
	f.deleted = append(f.deleted, eventID)
	delete(f.processed, eventID)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: discard{}})
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func dispatchedEvent(hubID uuid.UUID, orderID string) OrderEvent {
	return OrderEvent{
		EventID: uuid.NewString(),
		Type:    "vendor_order_dispatched",
		HubID:   hubID.String(),
		Message: "Order dispatched",
		Payload: map[string]any{"vendorOrderId": orderID},
	}
}

func TestConsumerFansOutToHubAdmins(t *testing.T) {
	hubID := uuid.New()
	orderID := uuid.New()
	adminA := models.Admin{ID: uuid.New()}
	adminB := models.Admin{ID: uuid.New()}

	creator := &fakeCreator{}
	broadcaster := &fakeBroadcaster{}
	tracker := &fakeUnread{}
	consumer, err := NewConsumer(creator, &fakeAdminLister{admins: []models.Admin{adminA, adminB}}, broadcaster, tracker, newFakeIdempotency(), nil, testLogger())
	if err != nil {
		t.Fatalf("new consumer: %v", err)
	}

	event := dispatchedEvent(hubID, orderID.String())
	if err := consumer.Process(context.Background(), event); err != nil {
		t.Fatalf("process: %v", err)
	}

	if len(creator.rows) != 2 {
		t.Fatalf("expected one notification per admin, got %d", len(creator.rows))
	}
	for _, row := range creator.rows {
		if row.OrderID == nil || *row.OrderID != orderID {
			t.Fatal("expected order id resolved from the payload")
		}
		if row.HubID == nil || *row.HubID != hubID {
			t.Fatal("expected hub id on the notification row")
		}
	}
	if len(broadcaster.events) != 1 {
		t.Fatalf("expected one broadcast, got %d", len(broadcaster.events))
	}
	if broadcaster.channels[0] != hubID.String() {
		t.Fatalf("expected broadcast to hub channel, got %q", broadcaster.channels[0])
	}
	if broadcaster.events[0].Name != "vendor_order_dispatched" {
		t.Fatalf("unexpected event name %q", broadcaster.events[0].Name)
	}
	if len(tracker.events) != 2 {
		t.Fatalf("expected tracker fed per admin, got %d", len(tracker.events))
	}
}

func TestConsumerSkipsAlreadyProcessedEvent(t *testing.T) {
	hubID := uuid.New()
	creator := &fakeCreator{}
	idem := newFakeIdempotency()
	consumer, err := NewConsumer(creator, &fakeAdminLister{admins: []models.Admin{{ID: uuid.New()}}}, nil, nil, idem, nil, testLogger())
	if err != nil {
		t.Fatalf("new consumer: %v", err)
	}

	event := dispatchedEvent(hubID, uuid.NewString())
	if err := consumer.Process(context.Background(), event); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if err := consumer.Process(context.Background(), event); err != nil {
		t.Fatalf("redelivery: %v", err)
	}

	if len(creator.rows) != 1 {
		t.Fatalf("redelivery must not duplicate rows, got %d", len(creator.rows))
	}
}

func TestConsumerClearsMarkerOnFailure(t *testing.T) {
	hubID := uuid.New()
	creator := &fakeCreator{err: errors.New("insert failed")}
	idem := newFakeIdempotency()
	consumer, err := NewConsumer(creator, &fakeAdminLister{admins: []models.Admin{{ID: uuid.New()}}}, nil, nil, idem, nil, testLogger())
	if err != nil {
		t.Fatalf("new consumer: %v", err)
	}

	event := dispatchedEvent(hubID, uuid.NewString())
	if err := consumer.Process(context.Background(), event); err == nil {
		t.Fatal("expected processing error")
	}
	if len(idem.deleted) != 1 {
		t.Fatal("expected the idempotency marker to be cleared so the retry runs")
	}
}

func TestConsumerIgnoresUnknownEventType(t *testing.T) {
	creator := &fakeCreator{}
	consumer, err := NewConsumer(creator, &fakeAdminLister{}, nil, nil, newFakeIdempotency(), nil, testLogger())
	if err != nil {
		t.Fatalf("new consumer: %v", err)
	}

	event := OrderEvent{
		EventID: uuid.NewString(),
		Type:    "order_paid",
		HubID:   uuid.NewString(),
	}
	if err := consumer.Process(context.Background(), event); err != nil {
		t.Fatalf("unknown types are skipped, not errors: %v", err)
	}
	if len(creator.rows) != 0 {
		t.Fatal("unknown event must not create rows")
	}
}

func TestConsumerDropsEventWithoutOrderIDFromTracker(t *testing.T) {
	hubID := uuid.New()
	creator := &fakeCreator{}
	tracker := &fakeUnread{}
	consumer, err := NewConsumer(creator, &fakeAdminLister{admins: []models.Admin{{ID: uuid.New()}}}, nil, tracker, newFakeIdempotency(), nil, testLogger())
	if err != nil {
		t.Fatalf("new consumer: %v", err)
	}

	event := OrderEvent{
		EventID: uuid.NewString(),
		Type:    "vendor_order_declined",
		HubID:   hubID.String(),
		Message: "Order declined",
		Payload: map[string]any{"reason": "out of stock"},
	}
	if err := consumer.Process(context.Background(), event); err != nil {
		t.Fatalf("process: %v", err)
	}

	if len(creator.rows) != 1 {
		t.Fatalf("row must still be created, got %d", len(creator.rows))
	}
	if creator.rows[0].OrderID != nil {
		t.Fatal("expected nil order id when the payload has none")
	}
	if len(tracker.events) != 0 {
		t.Fatal("tracker must not receive order-less events")
	}
}
