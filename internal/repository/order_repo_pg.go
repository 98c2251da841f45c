package repository

import (
	"context"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository interface {
	// Create sets ID and CreatedAt from the store.
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// ListByUser returns the user's orders newest first, tickets attached.
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	// GetForUser returns the ticket only when it belongs to one of the
	// user's orders.
	GetForUser(ctx context.Context, id int64, userID string) (*domain.Ticket, error)
	// ListByUser attaches a flight carrying departure and arrival times.
	ListByUser(ctx context.Context, userID string) ([]domain.Ticket, error)
}

type PGOrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) OrderRepository {
	return &PGOrderRepository{db: db}
}

func (r *PGOrderRepository) Create(ctx context.Context, o *domain.Order) error {
	err := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO orders (user_id, created_at) VALUES ($1, $2) RETURNING id, created_at`, o.UserID, o.CreatedAt).
		Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return translate("insert order", err)
	}
	o.CreatedAt = o.CreatedAt.UTC()
	return nil
}

func (r *PGOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	if err := conn(ctx, r.db).QueryRow(ctx, `SELECT id, user_id, created_at FROM orders WHERE id=$1`, id).Scan(&o.ID, &o.UserID, &o.CreatedAt); err != nil {
		return nil, translate("get order", err)
	}
	o.CreatedAt = o.CreatedAt.UTC()
	return &o, nil
}

func (r *PGOrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	q := conn(ctx, r.db)
	rows, err := q.Query(ctx, `SELECT o.id, o.user_id, o.created_at, t.id, t.row_num, t.seat_num, t.flight_id
		FROM orders o
		LEFT JOIN tickets t ON t.order_id = o.id
		WHERE o.user_id=$1
		ORDER BY o.created_at DESC, o.id DESC, t.row_num, t.seat_num`, userID)
	if err != nil {
		return nil, translate("list orders", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var (
			o         domain.Order
			ticketID  *int64
			row, seat *int
			flightID  *int64
		)
		if err := rows.Scan(&o.ID, &o.UserID, &o.CreatedAt, &ticketID, &row, &seat, &flightID); err != nil {
			return nil, translate("scan order", err)
		}
		if n := len(orders); n == 0 || orders[n-1].ID != o.ID {
			o.CreatedAt = o.CreatedAt.UTC()
			o.Tickets = make([]domain.Ticket, 0)
			orders = append(orders, o)
		}
		if ticketID != nil {
			last := &orders[len(orders)-1]
			last.Tickets = append(last.Tickets, domain.Ticket{ID: *ticketID, Row: *row, Seat: *seat, FlightID: *flightID, OrderID: o.ID})
		}
	}
	return orders, translate("list orders", rows.Err())
}

type PGTicketRepository struct {
	db *pgxpool.Pool
}

func NewTicketRepository(db *pgxpool.Pool) TicketRepository {
	return &PGTicketRepository{db: db}
}

func (r *PGTicketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	err := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO tickets (row_num, seat_num, flight_id, order_id) VALUES ($1, $2, $3, $4) RETURNING id`,
		t.Row, t.Seat, t.FlightID, t.OrderID).Scan(&t.ID)
	return translate("insert ticket", err)
}

func (r *PGTicketRepository) GetForUser(ctx context.Context, id int64, userID string) (*domain.Ticket, error) {
	var t domain.Ticket
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT t.id, t.row_num, t.seat_num, t.flight_id, t.order_id
		FROM tickets t
		JOIN orders o ON o.id = t.order_id
		WHERE t.id=$1 AND o.user_id=$2`, id, userID).
		Scan(&t.ID, &t.Row, &t.Seat, &t.FlightID, &t.OrderID)
	if err != nil {
		return nil, translate("get ticket", err)
	}
	return &t, nil
}

func (r *PGTicketRepository) ListByUser(ctx context.Context, userID string) ([]domain.Ticket, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT t.id, t.row_num, t.seat_num, t.flight_id, t.order_id, f.departure_time, f.arrival_time
		FROM tickets t
		JOIN orders o ON o.id = t.order_id
		JOIN flights f ON f.id = t.flight_id
		WHERE o.user_id=$1
		ORDER BY t.row_num, t.seat_num, t.id`, userID)
	if err != nil {
		return nil, translate("list tickets", err)
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		var (
			t domain.Ticket
			f domain.Flight
		)
		if err := rows.Scan(&t.ID, &t.Row, &t.Seat, &t.FlightID, &t.OrderID, &f.DepartureTime, &f.ArrivalTime); err != nil {
			return nil, translate("scan ticket", err)
		}
		f.ID = t.FlightID
		f.DepartureTime, f.ArrivalTime = f.DepartureTime.UTC(), f.ArrivalTime.UTC()
		t.Flight = &f
		tickets = append(tickets, t)
	}
	return tickets, translate("list tickets", rows.Err())
}

var (
	_ OrderRepository  = (*PGOrderRepository)(nil)
	_ TicketRepository = (*PGTicketRepository)(nil)
)
