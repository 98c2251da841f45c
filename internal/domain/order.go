package domain

import (
	"fmt"
	"time"
)

type Order struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	Tickets   []Ticket  `json:"tickets,omitempty"`
}

type Ticket struct {
	ID       int64   `json:"id"`
	Row      int     `json:"row"`
	Seat     int     `json:"seat"`
	FlightID int64   `json:"flight_id"`
	OrderID  int64   `json:"order_id"`
	Flight   *Flight `json:"flight,omitempty"`
}

// Place renders the seat as "row: R, seat: S".
func (t Ticket) Place() string {
	return fmt.Sprintf("row: %d, seat: %d", t.Row, t.Seat)
}
