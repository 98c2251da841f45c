package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/kafka"
	"github.com/Domenick1991/airport/internal/repository"
	"github.com/Domenick1991/airport/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *domain.Order) error {
	args := m.Called(ctx, o)
	o.ID = 1
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Order), args.Error(1)
}

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) Create(ctx context.Context, f *domain.Flight) error {
	return m.Called(ctx, f).Error(0)
}

func (m *MockFlightRepository) Update(ctx context.Context, f *domain.Flight) error {
	return m.Called(ctx, f).Error(0)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) List(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetAirplane(ctx context.Context, flightID int64) (*domain.Airplane, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airplane), args.Error(1)
}

func (m *MockFlightRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Create(ctx context.Context, e *repository.OutboxEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockOutboxRepository) FetchBatch(ctx context.Context, limit int) ([]repository.OutboxEvent, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]repository.OutboxEvent), args.Error(1)
}

func (m *MockOutboxRepository) MarkProcessed(ctx context.Context, ids []string) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *MockOutboxRepository) MarkFailed(ctx context.Context, ids []string) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *MockOutboxRepository) RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) InvalidateFlights(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// seatStore is an in-memory ticket table with transactional staging. It
// serves both as the ticket repository and as the engine's seat lookup, so
// tickets written earlier in a transaction are visible to later checks.
type seatStore struct {
	validation.Lookup

	committed []domain.Ticket
	pending   []domain.Ticket
	nextID    int64

	commits, rollbacks int
}

func (s *seatStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.pending = nil
	if err := fn(ctx); err != nil {
		s.pending = nil
		s.rollbacks++
		return err
	}
	s.committed = append(s.committed, s.pending...)
	s.pending = nil
	s.commits++
	return nil
}

func (s *seatStore) SeatTaken(_ context.Context, flightID int64, row, seat int, excludeID int64) (bool, error) {
	for _, t := range append(append([]domain.Ticket(nil), s.committed...), s.pending...) {
		if t.FlightID == flightID && t.Row == row && t.Seat == seat && t.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *seatStore) Create(_ context.Context, t *domain.Ticket) error {
	s.nextID++
	t.ID = s.nextID
	s.pending = append(s.pending, *t)
	return nil
}

func (s *seatStore) GetForUser(context.Context, int64, string) (*domain.Ticket, error) {
	return nil, domain.ErrNotFound
}

func (s *seatStore) ListByUser(context.Context, string) ([]domain.Ticket, error) {
	return append([]domain.Ticket(nil), s.committed...), nil
}

type fixture struct {
	store   *seatStore
	orders  *MockOrderRepository
	flights *MockFlightRepository
	outbox  *MockOutboxRepository
	cache   *MockCache
	service *OrderService
}

var (
	fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	airplane = &domain.Airplane{ID: 2, Name: "A320", Rows: 10, SeatsInRow: 6}
)

func newFixture() *fixture {
	f := &fixture{
		store:   new(seatStore),
		orders:  new(MockOrderRepository),
		flights: new(MockFlightRepository),
		outbox:  new(MockOutboxRepository),
		cache:   new(MockCache),
	}
	f.service = NewOrderService(
		f.store, f.orders, f.store, f.flights, f.outbox,
		validation.NewEngine(f.store),
		WithCache(f.cache),
		WithClock(func() time.Time { return fixedNow }),
	)
	return f
}

func TestOrderService_CreateOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.orders.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
	f.flights.On("GetAirplane", ctx, int64(3)).Return(airplane, nil).Twice()
	f.outbox.On("Create", ctx, mock.AnythingOfType("*repository.OutboxEvent")).Return(nil).Once()
	f.cache.On("InvalidateFlights", ctx).Return(nil).Once()

	order, err := f.service.CreateOrder(ctx, "user-1", []TicketInput{
		{FlightID: 3, Row: 1, Seat: 1},
		{FlightID: 3, Row: 1, Seat: 2},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), order.ID)
	assert.Equal(t, "user-1", order.UserID)
	assert.Equal(t, fixedNow, order.CreatedAt)
	require.Len(t, order.Tickets, 2)
	assert.Equal(t, int64(1), order.Tickets[0].OrderID)
	assert.Len(t, f.store.committed, 2)
	assert.Equal(t, 1, f.store.commits)

	event := f.outbox.Calls[0].Arguments.Get(1).(*repository.OutboxEvent)
	assert.Equal(t, kafka.EventOrderCreated, event.EventType)
	assert.Equal(t, "1", event.CorrelationID)
	var payload kafka.OrderEvent
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, "user-1", payload.UserID)
	assert.Len(t, payload.Tickets, 2)

	f.orders.AssertExpectations(t)
	f.flights.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestOrderService_CreateOrder_DuplicateSeatRollsBack(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.store.committed = []domain.Ticket{{ID: 100, FlightID: 3, Row: 4, Seat: 2, OrderID: 50}}
	f.store.nextID = 100

	f.orders.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
	f.flights.On("GetAirplane", ctx, int64(3)).Return(airplane, nil).Twice()

	order, err := f.service.CreateOrder(ctx, "user-1", []TicketInput{
		{FlightID: 3, Row: 1, Seat: 1},
		{FlightID: 3, Row: 4, Seat: 2},
	})

	assert.Nil(t, order)
	var cerr *domain.CompositionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 1, cerr.Index)
	assert.Equal(t, domain.KindPartialCompositionFailure, cerr.Kind())

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.KindDuplicateEntity, verr.Kind)
	assert.Equal(t, validation.MsgSeatTaken, verr.Message())

	assert.Equal(t, 1, f.store.rollbacks)
	assert.Zero(t, f.store.commits)
	assert.Len(t, f.store.committed, 1)
	f.outbox.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.cache.AssertNotCalled(t, "InvalidateFlights", mock.Anything)
}

func TestOrderService_CreateOrder_SameSeatTwiceInOneOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.orders.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
	f.flights.On("GetAirplane", ctx, int64(3)).Return(airplane, nil).Twice()

	_, err := f.service.CreateOrder(ctx, "user-1", []TicketInput{
		{FlightID: 3, Row: 2, Seat: 2},
		{FlightID: 3, Row: 2, Seat: 2},
	})

	var cerr *domain.CompositionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 1, cerr.Index)
	assert.Empty(t, f.store.committed)
}

func TestOrderService_CreateOrder_RowOutOfRange(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.orders.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
	f.flights.On("GetAirplane", ctx, int64(3)).Return(airplane, nil).Once()

	_, err := f.service.CreateOrder(ctx, "user-1", []TicketInput{{FlightID: 3, Row: 11, Seat: 1}})

	var cerr *domain.CompositionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 0, cerr.Index)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.KindOutOfRangeValue, verr.Kind)
	assert.Equal(t, map[string]string{"row": "row number must be in available range: (1, rows): (1, 10)"}, verr.FieldMap())
	assert.Equal(t, 1, f.store.rollbacks)
}

func TestOrderService_CreateOrder_UnknownFlight(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.orders.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
	f.flights.On("GetAirplane", ctx, int64(8)).Return(nil, fmt.Errorf("get flight airplane: %w", domain.ErrNotFound)).Once()

	_, err := f.service.CreateOrder(ctx, "user-1", []TicketInput{{FlightID: 8, Row: 1, Seat: 1}})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.KindInvalidReference, verr.Kind)
	assert.Equal(t, map[string]string{"flight": `Invalid pk "8" - object does not exist.`}, verr.FieldMap())
}

func TestOrderService_CreateOrder_StorageFailureIsNotAValidationError(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cause := errors.New("connection reset")

	f.orders.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
	f.flights.On("GetAirplane", ctx, int64(3)).Return(nil, cause).Once()

	_, err := f.service.CreateOrder(ctx, "user-1", []TicketInput{{FlightID: 3, Row: 1, Seat: 1}})

	assert.ErrorIs(t, err, cause)
	_, ok := domain.KindOf(err)
	assert.False(t, ok)
	assert.Equal(t, 1, f.store.rollbacks)
}

func TestOrderService_CreateOrder_Empty(t *testing.T) {
	f := newFixture()

	_, err := f.service.CreateOrder(context.Background(), "user-1", nil)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.KindInvalidValue, verr.Kind)
	assert.Equal(t, map[string]string{"tickets": MsgEmptyTickets}, verr.FieldMap())
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Zero(t, f.store.commits+f.store.rollbacks)
}

func TestOrderService_CreateTicket(t *testing.T) {
	ctx := context.Background()

	t.Run("into own order", func(t *testing.T) {
		f := newFixture()
		f.orders.On("GetByID", ctx, int64(7)).Return(&domain.Order{ID: 7, UserID: "user-1"}, nil).Once()
		f.flights.On("GetAirplane", ctx, int64(3)).Return(airplane, nil).Once()
		f.cache.On("InvalidateFlights", ctx).Return(nil).Once()

		ticket, err := f.service.CreateTicket(ctx, "user-1", TicketInput{FlightID: 3, Row: 5, Seat: 6, OrderID: 7})

		require.NoError(t, err)
		assert.Equal(t, int64(7), ticket.OrderID)
		assert.Len(t, f.store.committed, 1)
	})

	t.Run("into someone else's order", func(t *testing.T) {
		f := newFixture()
		f.orders.On("GetByID", ctx, int64(7)).Return(&domain.Order{ID: 7, UserID: "user-2"}, nil).Once()

		_, err := f.service.CreateTicket(ctx, "user-1", TicketInput{FlightID: 3, Row: 5, Seat: 6, OrderID: 7})

		kind, ok := domain.KindOf(err)
		require.True(t, ok)
		assert.Equal(t, domain.KindInvalidReference, kind)
		f.flights.AssertNotCalled(t, "GetAirplane", mock.Anything, mock.Anything)
	})

	t.Run("seat out of range", func(t *testing.T) {
		f := newFixture()
		f.orders.On("GetByID", ctx, int64(7)).Return(&domain.Order{ID: 7, UserID: "user-1"}, nil).Once()
		f.flights.On("GetAirplane", ctx, int64(3)).Return(airplane, nil).Once()

		_, err := f.service.CreateTicket(ctx, "user-1", TicketInput{FlightID: 3, Row: 5, Seat: 7, OrderID: 7})

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "seat number must be in available range: (1, seats_in_row): (1, 6)", verr.Message())
		assert.Equal(t, 1, f.store.rollbacks)
	})
}

func TestOrderService_GetTicket(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	tickets := new(MockTicketRepository)
	f.service.tickets = tickets

	flight := &domain.Flight{ID: 3}
	tickets.On("GetForUser", ctx, int64(9), "user-1").Return(&domain.Ticket{ID: 9, FlightID: 3}, nil).Once()
	f.flights.On("GetByID", ctx, int64(3)).Return(flight, nil).Once()

	ticket, err := f.service.GetTicket(ctx, "user-1", 9)

	require.NoError(t, err)
	assert.Equal(t, flight, ticket.Flight)
}

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTicketRepository) GetForUser(ctx context.Context, id int64, userID string) (*domain.Ticket, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) ListByUser(ctx context.Context, userID string) ([]domain.Ticket, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Ticket), args.Error(1)
}
