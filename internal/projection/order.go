package projection

import (
	"github.com/Domenick1991/airport/internal/domain"
)

type ticketBase struct {
	ID    int64 `json:"id"`
	Row   int   `json:"row"`
	Seat  int   `json:"seat"`
	Order int64 `json:"order"`
}

func newTicketBase(t domain.Ticket) ticketBase {
	return ticketBase{ID: t.ID, Row: t.Row, Seat: t.Seat, Order: t.OrderID}
}

type TicketView struct {
	ticketBase
	Flight int64 `json:"flight"`
}

func Ticket(t domain.Ticket) TicketView {
	return TicketView{ticketBase: newTicketBase(t), Flight: t.FlightID}
}

// TicketSummaryView renders the flight as its schedule.
type TicketSummaryView struct {
	ticketBase
	Flight string `json:"flight"`
}

func TicketSummary(t domain.Ticket) TicketSummaryView {
	v := TicketSummaryView{ticketBase: newTicketBase(t)}
	if t.Flight != nil {
		v.Flight = FlightSchedule(*t.Flight)
	}
	return v
}

func TicketSummaries(tickets []domain.Ticket) []TicketSummaryView {
	return mapAll(tickets, TicketSummary)
}

type TicketDetailView struct {
	ticketBase
	Flight *FlightDetailView `json:"flight"`
}

func TicketDetail(t domain.Ticket) TicketDetailView {
	v := TicketDetailView{ticketBase: newTicketBase(t)}
	if t.Flight != nil {
		detail := FlightDetail(*t.Flight)
		v.Flight = &detail
	}
	return v
}

type OrderView struct {
	ID        int64   `json:"id"`
	CreatedAt string  `json:"created_at"`
	Tickets   []int64 `json:"tickets"`
}

func Order(o domain.Order) OrderView {
	ids := mapAll(o.Tickets, func(t domain.Ticket) int64 { return t.ID })
	return OrderView{ID: o.ID, CreatedAt: FormatTime(o.CreatedAt), Tickets: ids}
}

// OrderSummaryView lists the booked places of each ticket.
type OrderSummaryView struct {
	ID        int64        `json:"id"`
	CreatedAt string       `json:"created_at"`
	Tickets   []TakenPlace `json:"tickets"`
}

func OrderSummary(o domain.Order) OrderSummaryView {
	return OrderSummaryView{ID: o.ID, CreatedAt: FormatTime(o.CreatedAt), Tickets: takenPlaces(o.Tickets)}
}

func OrderSummaries(orders []domain.Order) []OrderSummaryView {
	return mapAll(orders, OrderSummary)
}
