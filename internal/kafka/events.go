package kafka

import (
	"time"

	"github.com/Domenick1991/airport/internal/domain"
)

const EventOrderCreated = "order_created"

type TicketEvent struct {
	ID       int64 `json:"id"`
	FlightID int64 `json:"flight_id"`
	Row      int   `json:"row"`
	Seat     int   `json:"seat"`
}

// OrderEvent is the payload stored in the outbox and relayed to the orders
// topic.
type OrderEvent struct {
	Type      string        `json:"type"`
	OrderID   int64         `json:"order_id"`
	UserID    string        `json:"user_id"`
	CreatedAt time.Time     `json:"created_at"`
	Tickets   []TicketEvent `json:"tickets"`
}

func NewOrderCreatedEvent(order *domain.Order) OrderEvent {
	tickets := make([]TicketEvent, 0, len(order.Tickets))
	for _, t := range order.Tickets {
		tickets = append(tickets, TicketEvent{ID: t.ID, FlightID: t.FlightID, Row: t.Row, Seat: t.Seat})
	}
	return OrderEvent{
		Type:      EventOrderCreated,
		OrderID:   order.ID,
		UserID:    order.UserID,
		CreatedAt: order.CreatedAt,
		Tickets:   tickets,
	}
}
