package projection

import (
	"github.com/Domenick1991/airport/internal/domain"
)

type flightBase struct {
	ID            int64  `json:"id"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	Route         string `json:"route"`
	Airplane      string `json:"airplane"`
}

func newFlightBase(f domain.Flight) flightBase {
	b := flightBase{
		ID:            f.ID,
		DepartureTime: FormatTime(f.DepartureTime),
		ArrivalTime:   FormatTime(f.ArrivalTime),
	}
	if f.Route != nil {
		b.Route = f.Route.AirportNames()
	}
	if f.Airplane != nil {
		b.Airplane = f.Airplane.Name
	}
	return b
}

// FlightView is returned from flight writes: crew as ids.
type FlightView struct {
	flightBase
	Crew []int64 `json:"crew"`
}

func Flight(f domain.Flight) FlightView {
	crew := f.CrewIDs
	if crew == nil {
		crew = []int64{}
	}
	return FlightView{flightBase: newFlightBase(f), Crew: crew}
}

// FlightSummaryView is the list shape: crew by full name.
type FlightSummaryView struct {
	flightBase
	Crew             []string `json:"crew"`
	TicketsAvailable int      `json:"tickets_available"`
}

func FlightSummary(f domain.Flight) FlightSummaryView {
	names := make([]string, 0, len(f.Crew))
	for _, c := range f.Crew {
		names = append(names, c.FullName())
	}
	return FlightSummaryView{flightBase: newFlightBase(f), Crew: names, TicketsAvailable: f.TicketsAvailable()}
}

func FlightSummaries(flights []domain.Flight) []FlightSummaryView {
	return mapAll(flights, FlightSummary)
}

type TakenPlace struct {
	ID    int64  `json:"id"`
	Place string `json:"place"`
}

func takenPlaces(tickets []domain.Ticket) []TakenPlace {
	return mapAll(tickets, func(t domain.Ticket) TakenPlace {
		return TakenPlace{ID: t.ID, Place: t.Place()}
	})
}

type FlightDetailView struct {
	flightBase
	Crew             []CrewView   `json:"crew"`
	TakenPlaces      []TakenPlace `json:"taken_places"`
	TicketsAvailable int          `json:"tickets_available"`
}

func FlightDetail(f domain.Flight) FlightDetailView {
	return FlightDetailView{
		flightBase:       newFlightBase(f),
		Crew:             CrewList(f.Crew),
		TakenPlaces:      takenPlaces(f.TakenPlaces),
		TicketsAvailable: f.TicketsAvailable(),
	}
}

// FlightSchedule renders "YYYY-MM-DD, HH:MM -> YYYY-MM-DD, HH:MM".
func FlightSchedule(f domain.Flight) string {
	const layout = "2006-01-02, 15:04"
	return f.DepartureTime.UTC().Format(layout) + " -> " + f.ArrivalTime.UTC().Format(layout)
}
