package domain

import "time"

type Flight struct {
	ID            int64     `json:"id"`
	RouteID       int64     `json:"route_id"`
	AirplaneID    int64     `json:"airplane_id"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	CrewIDs       []int64   `json:"crew_ids"`

	// Populated by read queries.
	Route       *Route    `json:"route,omitempty"`
	Airplane    *Airplane `json:"airplane,omitempty"`
	Crew        []Crew    `json:"crew,omitempty"`
	TakenPlaces []Ticket  `json:"taken_places,omitempty"`
	TicketsSold int       `json:"tickets_sold"`
}

// TicketsAvailable is the airplane capacity minus tickets already sold.
// It returns 0 when the airplane is not loaded.
func (f Flight) TicketsAvailable() int {
	if f.Airplane == nil {
		return 0
	}
	return f.Airplane.Capacity() - f.TicketsSold
}

// FlightFilter narrows flight listings. Zero values are ignored.
type FlightFilter struct {
	SourceID      int64
	DestinationID int64
	RouteID       int64
	AirplaneID    int64
	Date          time.Time
}

func (f FlightFilter) IsZero() bool {
	return f.SourceID == 0 && f.DestinationID == 0 && f.RouteID == 0 && f.AirplaneID == 0 && f.Date.IsZero()
}
