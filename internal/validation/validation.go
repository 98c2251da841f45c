// Package validation holds the pre-write checks run on every create and
// update. The checks are a fast-fail layer; the schema's unique constraints
// stay authoritative under concurrent writers.
package validation

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/metrics"
)

const (
	MsgAirportExists      = "This airport already exists."
	MsgRouteSameAirports  = "Source and destination airports must be different"
	MsgRouteExists        = "Route with these details already exists."
	MsgAirplaneTypeExists = "This type of airplane already exists."
	MsgAirplaneExists     = "Airplane with these details already exists."
	MsgCrewExists         = "This crew member already exists."
	MsgFlightSameTimes    = "Arrival time must be after departure time."
	MsgFlightExists       = "Flight with these details already exists."
	MsgFlightCrewExists   = "Flight with these details and crew already exists."
	MsgSeatTaken          = "The fields flight, row, seat must make a unique set."
	MsgMustBePositive     = "Ensure this value is greater than or equal to 1."
)

// FlightCollision is what the store knows about flights sharing
// (route, airplane, departure_time) with a candidate. SharedCrew implies
// SameSchedule: it narrows the same rows to those with a common crew member.
type FlightCollision struct {
	SameSchedule bool
	SharedCrew   bool
}

// BookedPlace is the highest row and the highest seat ticketed so far, zero
// when nothing is booked.
type BookedPlace struct {
	Row  int
	Seat int
}

func (p BookedPlace) fits(rows, seatsInRow int) bool {
	return p.Row <= rows && p.Seat <= seatsInRow
}

// Lookup answers existence questions for the engine. excludeID is the id of
// the record being updated, or 0 on create. Implementations must honour a
// transaction carried in ctx.
type Lookup interface {
	AirportNameTaken(ctx context.Context, name string, excludeID int64) (bool, error)
	RouteExists(ctx context.Context, distance int, sourceID, destinationID, excludeID int64) (bool, error)
	AirplaneTypeNameTaken(ctx context.Context, name string, excludeID int64) (bool, error)
	AirplaneExists(ctx context.Context, name string, rows, seatsInRow int, airplaneTypeID, excludeID int64) (bool, error)
	CrewExists(ctx context.Context, firstName, lastName string, excludeID int64) (bool, error)
	FlightCollision(ctx context.Context, routeID, airplaneID int64, departure time.Time, crewIDs []int64, excludeID int64) (FlightCollision, error)
	SeatTaken(ctx context.Context, flightID int64, row, seat int, excludeID int64) (bool, error)
	MaxBookedOnAirplane(ctx context.Context, airplaneID int64) (BookedPlace, error)
	MaxBookedOnFlight(ctx context.Context, flightID int64) (BookedPlace, error)
}

type Engine struct {
	lookup Lookup
}

func NewEngine(lookup Lookup) *Engine {
	return &Engine{lookup: lookup}
}

func (e *Engine) ValidateAirport(ctx context.Context, a *domain.Airport) error {
	taken, err := e.lookup.AirportNameTaken(ctx, a.Name, a.ID)
	if err != nil {
		return fmt.Errorf("check airport name: %w", err)
	}
	if taken {
		return reject("airport", domain.NewValidationError(domain.KindDuplicateEntity, domain.NonFieldErrors, MsgAirportExists))
	}
	return nil
}

func (e *Engine) ValidateRoute(ctx context.Context, r *domain.Route) error {
	if r.Distance < 1 {
		return reject("route", domain.NewValidationError(domain.KindInvalidValue, "distance", MsgMustBePositive))
	}
	if r.SourceID == r.DestinationID {
		return reject("route", domain.NewValidationError(domain.KindInvalidRelationship, domain.NonFieldErrors, MsgRouteSameAirports))
	}
	exists, err := e.lookup.RouteExists(ctx, r.Distance, r.SourceID, r.DestinationID, r.ID)
	if err != nil {
		return fmt.Errorf("check route: %w", err)
	}
	if exists {
		return reject("route", domain.NewValidationError(domain.KindDuplicateEntity, domain.NonFieldErrors, MsgRouteExists))
	}
	return nil
}

func (e *Engine) ValidateAirplaneType(ctx context.Context, t *domain.AirplaneType) error {
	taken, err := e.lookup.AirplaneTypeNameTaken(ctx, t.Name, t.ID)
	if err != nil {
		return fmt.Errorf("check airplane type name: %w", err)
	}
	if taken {
		return reject("airplane_type", domain.NewValidationError(domain.KindDuplicateEntity, domain.NonFieldErrors, MsgAirplaneTypeExists))
	}
	return nil
}

func (e *Engine) ValidateAirplane(ctx context.Context, a *domain.Airplane) error {
	var verr *domain.ValidationError
	for _, f := range []struct {
		name  string
		value int
	}{{"rows", a.Rows}, {"seats_in_row", a.SeatsInRow}} {
		if f.value >= 1 {
			continue
		}
		if verr == nil {
			verr = domain.NewValidationError(domain.KindInvalidValue, f.name, MsgMustBePositive)
		} else {
			verr.Add(f.name, MsgMustBePositive)
		}
	}
	if verr != nil {
		return reject("airplane", verr)
	}

	if a.ID != 0 {
		if err := e.checkAirplaneLayout(ctx, a); err != nil {
			return err
		}
	}

	exists, err := e.lookup.AirplaneExists(ctx, a.Name, a.Rows, a.SeatsInRow, a.AirplaneTypeID, a.ID)
	if err != nil {
		return fmt.Errorf("check airplane: %w", err)
	}
	if exists {
		return reject("airplane", domain.NewValidationError(domain.KindDuplicateEntity, domain.NonFieldErrors, MsgAirplaneExists))
	}
	return nil
}

// checkAirplaneLayout keeps an updated airplane large enough for the tickets
// already sold on its flights.
func (e *Engine) checkAirplaneLayout(ctx context.Context, a *domain.Airplane) error {
	booked, err := e.lookup.MaxBookedOnAirplane(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("check booked places: %w", err)
	}
	var verr *domain.ValidationError
	for _, f := range []struct {
		name  string
		label string
		value int
		max   int
	}{{"rows", "row", a.Rows, booked.Row}, {"seats_in_row", "seat", a.SeatsInRow, booked.Seat}} {
		if f.value >= f.max {
			continue
		}
		msg := fmt.Sprintf("Tickets are already booked up to %s %d.", f.label, f.max)
		if verr == nil {
			verr = domain.NewValidationError(domain.KindOutOfRangeValue, f.name, msg)
		} else {
			verr.Add(f.name, msg)
		}
	}
	if verr != nil {
		return reject("airplane", verr)
	}
	return nil
}

func (e *Engine) ValidateCrew(ctx context.Context, c *domain.Crew) error {
	exists, err := e.lookup.CrewExists(ctx, c.FirstName, c.LastName, c.ID)
	if err != nil {
		return fmt.Errorf("check crew: %w", err)
	}
	if exists {
		return reject("crew", domain.NewValidationError(domain.KindDuplicateEntity, domain.NonFieldErrors, MsgCrewExists))
	}
	return nil
}

// ValidateFlight evaluates the schedule and crew collisions together, before
// anything is written. On update the assigned airplane must also hold every
// ticket already sold on the flight.
func (e *Engine) ValidateFlight(ctx context.Context, f *domain.Flight, airplane *domain.Airplane) error {
	if f.ArrivalTime.Equal(f.DepartureTime) {
		return reject("flight", domain.NewValidationError(domain.KindInvalidRelationship, domain.NonFieldErrors, MsgFlightSameTimes))
	}
	collision, err := e.lookup.FlightCollision(ctx, f.RouteID, f.AirplaneID, f.DepartureTime, f.CrewIDs, f.ID)
	if err != nil {
		return fmt.Errorf("check flight: %w", err)
	}
	switch {
	case collision.SharedCrew:
		return reject("flight", domain.NewValidationError(domain.KindDuplicateEntity, domain.NonFieldErrors, MsgFlightCrewExists))
	case collision.SameSchedule:
		return reject("flight", domain.NewValidationError(domain.KindDuplicateEntity, domain.NonFieldErrors, MsgFlightExists))
	}

	if f.ID == 0 {
		return nil
	}
	booked, err := e.lookup.MaxBookedOnFlight(ctx, f.ID)
	if err != nil {
		return fmt.Errorf("check booked places: %w", err)
	}
	if !booked.fits(airplane.Rows, airplane.SeatsInRow) {
		msg := fmt.Sprintf("Airplane layout (1, %d) x (1, %d) does not cover booked tickets up to row %d, seat %d.",
			airplane.Rows, airplane.SeatsInRow, booked.Row, booked.Seat)
		return reject("flight", domain.NewValidationError(domain.KindOutOfRangeValue, "airplane", msg))
	}
	return nil
}

// ValidateTicket checks row and seat against the airplane layout. One entry
// is produced per offending field, row first.
func ValidateTicket(row, seat int, airplane *domain.Airplane) error {
	var verr *domain.ValidationError
	for _, f := range []struct {
		value     int
		name      string
		limitName string
		limit     int
	}{
		{row, "row", "rows", airplane.Rows},
		{seat, "seat", "seats_in_row", airplane.SeatsInRow},
	} {
		if 1 <= f.value && f.value <= f.limit {
			continue
		}
		msg := fmt.Sprintf("%s number must be in available range: (1, %s): (1, %d)", f.name, f.limitName, f.limit)
		if verr == nil {
			verr = domain.NewValidationError(domain.KindOutOfRangeValue, f.name, msg)
		} else {
			verr.Add(f.name, msg)
		}
	}
	if verr != nil {
		return reject("ticket", verr)
	}
	return nil
}

// ValidateTicket runs the range check and then the seat collision check.
func (e *Engine) ValidateTicket(ctx context.Context, t *domain.Ticket, airplane *domain.Airplane) error {
	if err := ValidateTicket(t.Row, t.Seat, airplane); err != nil {
		return err
	}
	taken, err := e.lookup.SeatTaken(ctx, t.FlightID, t.Row, t.Seat, t.ID)
	if err != nil {
		return fmt.Errorf("check seat: %w", err)
	}
	if taken {
		return reject("ticket", domain.NewValidationError(domain.KindDuplicateEntity, domain.NonFieldErrors, MsgSeatTaken))
	}
	return nil
}

func reject(entity string, err *domain.ValidationError) error {
	metrics.ValidationFailures.WithLabelValues(entity, string(err.Kind)).Inc()
	return err
}
