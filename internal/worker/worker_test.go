package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/airport/internal/kafka"
	"github.com/Domenick1991/airport/internal/logging"
	"github.com/Domenick1991/airport/internal/repository"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Create(ctx context.Context, event *repository.OutboxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockOutboxRepository) FetchBatch(ctx context.Context, limit int) ([]repository.OutboxEvent, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]repository.OutboxEvent), args.Error(1)
}

func (m *MockOutboxRepository) MarkProcessed(ctx context.Context, ids []string) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockOutboxRepository) MarkFailed(ctx context.Context, ids []string) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockOutboxRepository) RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic, key string, payload any) error {
	args := m.Called(ctx, topic, key, payload)
	return args.Error(0)
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, event kafka.OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func TestOutboxPoller_processBatch(t *testing.T) {
	outbox := &MockOutboxRepository{}
	publisher := &MockPublisher{}
	poller := NewOutboxPoller(outbox, publisher, "airport.orders", time.Second, 10, time.Minute, logging.Nop())

	events := []repository.OutboxEvent{
		{ID: "e1", EventType: kafka.EventOrderCreated, Payload: []byte(`{"order_id":1}`), CorrelationID: "1"},
		{ID: "e2", EventType: kafka.EventOrderCreated, Payload: []byte(`{"order_id":2}`), CorrelationID: "2"},
		{ID: "e3", EventType: kafka.EventOrderCreated, Payload: []byte(`{"order_id":3}`)},
	}
	outbox.On("RequeueStale", mock.Anything, time.Minute).Return(int64(0), nil)
	outbox.On("FetchBatch", mock.Anything, 10).Return(events, nil)
	publisher.On("Publish", mock.Anything, "airport.orders", "1", json.RawMessage(`{"order_id":1}`)).Return(nil)
	publisher.On("Publish", mock.Anything, "airport.orders", "2", json.RawMessage(`{"order_id":2}`)).Return(errors.New("broker down"))
	publisher.On("Publish", mock.Anything, "airport.orders", "e3", json.RawMessage(`{"order_id":3}`)).Return(nil)
	outbox.On("MarkProcessed", mock.Anything, []string{"e1", "e3"}).Return(nil)
	outbox.On("MarkFailed", mock.Anything, []string{"e2"}).Return(nil)

	require.NoError(t, poller.processBatch(context.Background()))

	outbox.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOutboxPoller_processBatchEmpty(t *testing.T) {
	outbox := &MockOutboxRepository{}
	publisher := &MockPublisher{}
	poller := NewOutboxPoller(outbox, publisher, "airport.orders", time.Second, 5, time.Minute, logging.Nop())

	outbox.On("RequeueStale", mock.Anything, time.Minute).Return(int64(0), nil)
	outbox.On("FetchBatch", mock.Anything, 5).Return([]repository.OutboxEvent{}, nil)

	require.NoError(t, poller.processBatch(context.Background()))
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	outbox.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything)
}

func TestOutboxPoller_fetchError(t *testing.T) {
	outbox := &MockOutboxRepository{}
	poller := NewOutboxPoller(outbox, &MockPublisher{}, "airport.orders", time.Second, 10, time.Minute, logging.Nop())

	outbox.On("RequeueStale", mock.Anything, time.Minute).Return(int64(0), nil)
	outbox.On("FetchBatch", mock.Anything, 10).Return([]repository.OutboxEvent(nil), errors.New("db gone"))

	assert.EqualError(t, poller.processBatch(context.Background()), "db gone")
}

func TestOutboxPoller_requeuesStaleClaims(t *testing.T) {
	outbox := &MockOutboxRepository{}
	publisher := &MockPublisher{}
	poller := NewOutboxPoller(outbox, publisher, "airport.orders", time.Second, 10, 30*time.Second, logging.Nop())

	stranded := repository.OutboxEvent{ID: "e7", EventType: kafka.EventOrderCreated, Payload: []byte(`{"order_id":7}`), CorrelationID: "7"}
	outbox.On("RequeueStale", mock.Anything, 30*time.Second).Return(int64(1), nil).Once()
	outbox.On("FetchBatch", mock.Anything, 10).Return([]repository.OutboxEvent{stranded}, nil).Once()
	publisher.On("Publish", mock.Anything, "airport.orders", "7", json.RawMessage(`{"order_id":7}`)).Return(nil)
	outbox.On("MarkProcessed", mock.Anything, []string{"e7"}).Return(nil)

	require.NoError(t, poller.processBatch(context.Background()))

	outbox.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOutboxPoller_requeueError(t *testing.T) {
	outbox := &MockOutboxRepository{}
	poller := NewOutboxPoller(outbox, &MockPublisher{}, "airport.orders", time.Second, 10, time.Minute, logging.Nop())

	outbox.On("RequeueStale", mock.Anything, time.Minute).Return(int64(0), errors.New("db gone"))

	assert.EqualError(t, poller.processBatch(context.Background()), "db gone")
	outbox.AssertNotCalled(t, "FetchBatch", mock.Anything, mock.Anything)
}

func TestOutboxPoller_RunStopsOnCancel(t *testing.T) {
	poller := NewOutboxPoller(&MockOutboxRepository{}, &MockPublisher{}, "airport.orders", time.Hour, 10, time.Minute, logging.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, poller.Run(ctx))
}

func TestNotifier_Handle(t *testing.T) {
	sender := &MockSender{}
	notifier := NewNotifier(sender, logging.Nop())

	event := kafka.OrderEvent{
		Type:      kafka.EventOrderCreated,
		OrderID:   4,
		UserID:    "user-1",
		CreatedAt: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
		Tickets:   []kafka.TicketEvent{{ID: 9, FlightID: 2, Row: 1, Seat: 1}},
	}
	value, err := json.Marshal(event)
	require.NoError(t, err)
	sender.On("Send", mock.Anything, event).Return(nil)

	require.NoError(t, notifier.Handle(context.Background(), kafkago.Message{Value: value}))
	sender.AssertExpectations(t)
}

func TestNotifier_HandleSkipsBadMessages(t *testing.T) {
	sender := &MockSender{}
	notifier := NewNotifier(sender, logging.Nop())

	assert.NoError(t, notifier.Handle(context.Background(), kafkago.Message{Value: []byte("not json")}))
	assert.NoError(t, notifier.Handle(context.Background(), kafkago.Message{Value: []byte(`{"type":"order_cancelled"}`)}))
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}
