// Package projection renders domain records as the denormalized views served
// over HTTP. Foreign keys become display names; nothing here touches storage.
package projection

import (
	"time"

	"github.com/Domenick1991/airport/internal/domain"
)

// TimeLayout is the wire format for timestamps, always in UTC.
const TimeLayout = "2006-01-02 15:04"

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime accepts TimeLayout (read as UTC) or RFC 3339.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(TimeLayout, s, time.UTC); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func mapAll[T, V any](items []T, view func(T) V) []V {
	out := make([]V, 0, len(items))
	for _, item := range items {
		out = append(out, view(item))
	}
	return out
}

type AirportView struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	ClosestBigCity string `json:"closest_big_city"`
}

func Airport(a domain.Airport) AirportView {
	return AirportView{ID: a.ID, Name: a.Name, ClosestBigCity: a.ClosestBigCity}
}

func Airports(airports []domain.Airport) []AirportView {
	return mapAll(airports, Airport)
}

// RouteView names both ends of the route by their closest big city.
type RouteView struct {
	ID          int64  `json:"id"`
	Distance    int    `json:"distance"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

func Route(r domain.Route) RouteView {
	v := RouteView{ID: r.ID, Distance: r.Distance}
	if r.Source != nil {
		v.Source = r.Source.ClosestBigCity
	}
	if r.Destination != nil {
		v.Destination = r.Destination.ClosestBigCity
	}
	return v
}

func Routes(routes []domain.Route) []RouteView {
	return mapAll(routes, Route)
}

type AirplaneTypeView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func AirplaneType(t domain.AirplaneType) AirplaneTypeView {
	return AirplaneTypeView{ID: t.ID, Name: t.Name}
}

func AirplaneTypes(types []domain.AirplaneType) []AirplaneTypeView {
	return mapAll(types, AirplaneType)
}

type AirplaneView struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Rows         int    `json:"rows"`
	SeatsInRow   int    `json:"seats_in_row"`
	Capacity     int    `json:"capacity"`
	AirplaneType string `json:"airplane_type"`
}

func Airplane(a domain.Airplane) AirplaneView {
	v := AirplaneView{ID: a.ID, Name: a.Name, Rows: a.Rows, SeatsInRow: a.SeatsInRow, Capacity: a.Capacity()}
	if a.AirplaneType != nil {
		v.AirplaneType = a.AirplaneType.Name
	}
	return v
}

func Airplanes(airplanes []domain.Airplane) []AirplaneView {
	return mapAll(airplanes, Airplane)
}

type CrewView struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func Crew(c domain.Crew) CrewView {
	return CrewView{ID: c.ID, FirstName: c.FirstName, LastName: c.LastName}
}

func CrewList(crew []domain.Crew) []CrewView {
	return mapAll(crew, Crew)
}
