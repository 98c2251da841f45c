package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/airport/internal/validation"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	airportNameTakenSQL      = `SELECT 1 FROM airports WHERE name=$1 AND id<>$2`
	routeExistsSQL           = `SELECT 1 FROM routes WHERE distance=$1 AND source_id=$2 AND destination_id=$3 AND id<>$4`
	airplaneTypeNameTakenSQL = `SELECT 1 FROM airplane_types WHERE name=$1 AND id<>$2`
	airplaneExistsSQL        = `SELECT 1 FROM airplanes WHERE name=$1 AND rows=$2 AND seats_in_row=$3 AND airplane_type_id=$4 AND id<>$5`
	crewExistsSQL            = `SELECT 1 FROM crew WHERE first_name=$1 AND last_name=$2 AND id<>$3`
	seatTakenSQL             = `SELECT 1 FROM tickets WHERE flight_id=$1 AND row_num=$2 AND seat_num=$3 AND id<>$4`

	// $4 excludes the flight being updated from both checks.
	flightCollisionSQL = `SELECT
		EXISTS (SELECT 1 FROM flights
			WHERE route_id=$1 AND airplane_id=$2 AND departure_time=$3 AND id<>$4),
		EXISTS (SELECT 1 FROM flights f
			JOIN flight_crew fc ON fc.flight_id = f.id
			WHERE f.route_id=$1 AND f.airplane_id=$2 AND f.departure_time=$3 AND f.id<>$4
				AND fc.crew_id = ANY($5))`

	maxBookedOnFlightSQL = `SELECT COALESCE(MAX(row_num), 0), COALESCE(MAX(seat_num), 0)
		FROM tickets WHERE flight_id=$1`

	maxBookedOnAirplaneSQL = `SELECT COALESCE(MAX(t.row_num), 0), COALESCE(MAX(t.seat_num), 0)
		FROM tickets t JOIN flights f ON f.id = t.flight_id WHERE f.airplane_id=$1`
)

// PGLookup answers the validation engine's existence checks. Queries run in
// the caller's transaction when ctx carries one, so tickets inserted earlier
// in the same order are visible to SeatTaken.
type PGLookup struct {
	db *pgxpool.Pool
}

func NewLookup(db *pgxpool.Pool) *PGLookup {
	return &PGLookup{db: db}
}

func (l *PGLookup) exists(ctx context.Context, op, query string, args ...any) (bool, error) {
	var ok bool
	if err := conn(ctx, l.db).QueryRow(ctx, `SELECT EXISTS (`+query+`)`, args...).Scan(&ok); err != nil {
		return false, translate(op, err)
	}
	return ok, nil
}

func (l *PGLookup) AirportNameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	return l.exists(ctx, "airport name taken", airportNameTakenSQL, name, excludeID)
}

func (l *PGLookup) RouteExists(ctx context.Context, distance int, sourceID, destinationID, excludeID int64) (bool, error) {
	return l.exists(ctx, "route exists", routeExistsSQL, distance, sourceID, destinationID, excludeID)
}

func (l *PGLookup) AirplaneTypeNameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	return l.exists(ctx, "airplane type name taken", airplaneTypeNameTakenSQL, name, excludeID)
}

func (l *PGLookup) AirplaneExists(ctx context.Context, name string, rows, seatsInRow int, airplaneTypeID, excludeID int64) (bool, error) {
	return l.exists(ctx, "airplane exists", airplaneExistsSQL,
		name, rows, seatsInRow, airplaneTypeID, excludeID)
}

func (l *PGLookup) CrewExists(ctx context.Context, firstName, lastName string, excludeID int64) (bool, error) {
	return l.exists(ctx, "crew exists", crewExistsSQL, firstName, lastName, excludeID)
}

// FlightCollision checks the schedule and the crew overlap in one round trip.
func (l *PGLookup) FlightCollision(ctx context.Context, routeID, airplaneID int64, departure time.Time, crewIDs []int64, excludeID int64) (validation.FlightCollision, error) {
	if crewIDs == nil {
		crewIDs = []int64{}
	}
	var c validation.FlightCollision
	err := conn(ctx, l.db).QueryRow(ctx, flightCollisionSQL,
		routeID, airplaneID, departure, excludeID, crewIDs).Scan(&c.SameSchedule, &c.SharedCrew)
	if err != nil {
		return c, translate("flight collision", err)
	}
	return c, nil
}

func (l *PGLookup) SeatTaken(ctx context.Context, flightID int64, row, seat int, excludeID int64) (bool, error) {
	return l.exists(ctx, "seat taken", seatTakenSQL, flightID, row, seat, excludeID)
}

func (l *PGLookup) MaxBookedOnFlight(ctx context.Context, flightID int64) (validation.BookedPlace, error) {
	return l.maxBooked(ctx, "max booked on flight", maxBookedOnFlightSQL, flightID)
}

func (l *PGLookup) MaxBookedOnAirplane(ctx context.Context, airplaneID int64) (validation.BookedPlace, error) {
	return l.maxBooked(ctx, "max booked on airplane", maxBookedOnAirplaneSQL, airplaneID)
}

func (l *PGLookup) maxBooked(ctx context.Context, op, query string, id int64) (validation.BookedPlace, error) {
	var p validation.BookedPlace
	if err := conn(ctx, l.db).QueryRow(ctx, query, id).Scan(&p.Row, &p.Seat); err != nil {
		return p, translate(op, err)
	}
	return p, nil
}

var _ validation.Lookup = (*PGLookup)(nil)
