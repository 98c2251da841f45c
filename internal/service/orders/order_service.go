// Package orders books tickets. An order and all of its tickets are written
// in one transaction together with the order_created outbox event; either
// everything is committed or nothing is.
package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/kafka"
	"github.com/Domenick1991/airport/internal/metrics"
	"github.com/Domenick1991/airport/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const MsgEmptyTickets = "This list may not be empty."

type OrderUseCase interface {
	CreateOrder(ctx context.Context, userID string, tickets []TicketInput) (*domain.Order, error)
	CreateTicket(ctx context.Context, userID string, input TicketInput) (*domain.Ticket, error)
	ListOrders(ctx context.Context, userID string) ([]domain.Order, error)
	ListTickets(ctx context.Context, userID string) ([]domain.Ticket, error)
	GetTicket(ctx context.Context, userID string, id int64) (*domain.Ticket, error)
}

// TicketInput describes one seat to book. OrderID is only read by
// CreateTicket.
type TicketInput struct {
	FlightID int64
	Row      int
	Seat     int
	OrderID  int64
}

type Validator interface {
	ValidateTicket(ctx context.Context, t *domain.Ticket, airplane *domain.Airplane) error
}

type FlightsCache interface {
	InvalidateFlights(ctx context.Context) error
}

type OrderService struct {
	tx        repository.Transactor
	orders    repository.OrderRepository
	tickets   repository.TicketRepository
	flights   repository.FlightRepository
	outbox    repository.OutboxRepository
	validator Validator
	cache     FlightsCache
	log       *zap.SugaredLogger
	now       func() time.Time
}

type OrderServiceOption func(*OrderService)

func WithCache(cache FlightsCache) OrderServiceOption {
	return func(s *OrderService) {
		s.cache = cache
	}
}

func WithLogger(log *zap.SugaredLogger) OrderServiceOption {
	return func(s *OrderService) {
		s.log = log
	}
}

func WithClock(now func() time.Time) OrderServiceOption {
	return func(s *OrderService) {
		s.now = now
	}
}

func NewOrderService(
	tx repository.Transactor,
	orders repository.OrderRepository,
	tickets repository.TicketRepository,
	flights repository.FlightRepository,
	outbox repository.OutboxRepository,
	validator Validator,
	opts ...OrderServiceOption,
) *OrderService {
	service := &OrderService{
		tx:        tx,
		orders:    orders,
		tickets:   tickets,
		flights:   flights,
		outbox:    outbox,
		validator: validator,
		log:       zap.NewNop().Sugar(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateOrder books every ticket or none. The first failing ticket is
// reported as a *domain.CompositionError carrying its index.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, inputs []TicketInput) (*domain.Order, error) {
	if len(inputs) == 0 {
		return nil, domain.NewValidationError(domain.KindInvalidValue, "tickets", MsgEmptyTickets)
	}

	order := &domain.Order{UserID: userID, CreatedAt: s.now().UTC()}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.orders.Create(ctx, order); err != nil {
			return err
		}

		order.Tickets = make([]domain.Ticket, 0, len(inputs))
		for i, in := range inputs {
			ticket := domain.Ticket{FlightID: in.FlightID, Row: in.Row, Seat: in.Seat, OrderID: order.ID}
			if err := s.book(ctx, &ticket); err != nil {
				if _, ok := domain.KindOf(err); ok {
					return &domain.CompositionError{Index: i, Err: err}
				}
				return fmt.Errorf("book ticket %d: %w", i, err)
			}
			order.Tickets = append(order.Tickets, ticket)
		}

		return s.enqueueOrderCreated(ctx, order)
	})
	if err != nil {
		s.log.Warnw("order rejected", "user_id", userID, "tickets", len(inputs), "error", err)
		return nil, err
	}

	metrics.OrdersCreated.Inc()
	metrics.TicketsSold.Add(float64(len(order.Tickets)))
	s.log.Infow("order created", "order_id", order.ID, "user_id", userID, "tickets", len(order.Tickets))
	s.invalidate(ctx)
	return order, nil
}

// CreateTicket adds one ticket to an order the caller owns.
func (s *OrderService) CreateTicket(ctx context.Context, userID string, in TicketInput) (*domain.Ticket, error) {
	order, err := s.orders.GetByID(ctx, in.OrderID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if order == nil || order.UserID != userID {
		return nil, domain.InvalidPK("order", in.OrderID)
	}

	ticket := &domain.Ticket{FlightID: in.FlightID, Row: in.Row, Seat: in.Seat, OrderID: order.ID}
	if err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.book(ctx, ticket)
	}); err != nil {
		return nil, err
	}

	metrics.TicketsSold.Inc()
	s.log.Infow("ticket created", "ticket_id", ticket.ID, "order_id", order.ID, "flight_id", ticket.FlightID)
	s.invalidate(ctx)
	return ticket, nil
}

// book validates the ticket against its flight's airplane and the seats
// already taken, including those written earlier in the same transaction.
func (s *OrderService) book(ctx context.Context, t *domain.Ticket) error {
	airplane, err := s.flights.GetAirplane(ctx, t.FlightID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.InvalidPK("flight", t.FlightID)
		}
		return err
	}
	if err := s.validator.ValidateTicket(ctx, t, airplane); err != nil {
		return err
	}
	return s.tickets.Create(ctx, t)
}

func (s *OrderService) enqueueOrderCreated(ctx context.Context, order *domain.Order) error {
	payload, err := json.Marshal(kafka.NewOrderCreatedEvent(order))
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}
	return s.outbox.Create(ctx, &repository.OutboxEvent{
		ID:            uuid.NewString(),
		EventType:     kafka.EventOrderCreated,
		Payload:       payload,
		CorrelationID: strconv.FormatInt(order.ID, 10),
		CreatedAt:     order.CreatedAt,
	})
}

func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *OrderService) ListTickets(ctx context.Context, userID string) ([]domain.Ticket, error) {
	return s.tickets.ListByUser(ctx, userID)
}

// GetTicket returns the ticket with its flight detail attached.
func (s *OrderService) GetTicket(ctx context.Context, userID string, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	flight, err := s.flights.GetByID(ctx, ticket.FlightID)
	if err != nil {
		return nil, err
	}
	ticket.Flight = flight
	return ticket, nil
}

func (s *OrderService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.log.Warnw("failed to invalidate flights cache", "error", err)
	}
}

var _ OrderUseCase = (*OrderService)(nil)
