package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/airport/internal/domain"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	Create(ctx context.Context, flight *domain.Flight) error
	Update(ctx context.Context, flight *domain.Flight) error
	// GetByID loads the flight with route, airplane, crew, taken places and
	// the sold ticket count.
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	List(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	// GetAirplane returns the airplane assigned to the flight.
	GetAirplane(ctx context.Context, flightID int64) (*domain.Airplane, error)
	Delete(ctx context.Context, id int64) error
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func flightSelect() sq.SelectBuilder {
	return psql.Select(
		"f.id", "f.departure_time", "f.arrival_time",
		"r.id", "r.distance",
		"s.id", "s.name", "s.closest_big_city",
		"d.id", "d.name", "d.closest_big_city",
		"a.id", "a.name", "a.rows", "a.seats_in_row",
		"t.id", "t.name",
		"(SELECT count(*) FROM tickets tk WHERE tk.flight_id = f.id) AS tickets_sold",
	).
		From("flights f").
		Join("routes r ON r.id = f.route_id").
		Join("airports s ON s.id = r.source_id").
		Join("airports d ON d.id = r.destination_id").
		Join("airplanes a ON a.id = f.airplane_id").
		Join("airplane_types t ON t.id = a.airplane_type_id")
}

// buildFlightListQuery applies the non-zero filter fields. Date matches
// departures within that UTC day.
func buildFlightListQuery(filter domain.FlightFilter) (string, []any, error) {
	q := flightSelect()
	if filter.SourceID != 0 {
		q = q.Where(sq.Eq{"r.source_id": filter.SourceID})
	}
	if filter.DestinationID != 0 {
		q = q.Where(sq.Eq{"r.destination_id": filter.DestinationID})
	}
	if filter.RouteID != 0 {
		q = q.Where(sq.Eq{"f.route_id": filter.RouteID})
	}
	if filter.AirplaneID != 0 {
		q = q.Where(sq.Eq{"f.airplane_id": filter.AirplaneID})
	}
	if !filter.Date.IsZero() {
		day := time.Date(filter.Date.Year(), filter.Date.Month(), filter.Date.Day(), 0, 0, 0, 0, time.UTC)
		q = q.Where(sq.GtOrEq{"f.departure_time": day}).Where(sq.Lt{"f.departure_time": day.AddDate(0, 0, 1)})
	}
	return q.OrderBy("f.departure_time", "f.id").ToSql()
}

func (r *PGFlightRepository) Create(ctx context.Context, f *domain.Flight) error {
	q := conn(ctx, r.db)
	err := q.QueryRow(ctx, `INSERT INTO flights (departure_time, arrival_time, route_id, airplane_id) VALUES ($1, $2, $3, $4) RETURNING id`,
		f.DepartureTime, f.ArrivalTime, f.RouteID, f.AirplaneID).Scan(&f.ID)
	if err != nil {
		return translate("insert flight", err)
	}
	return r.setCrew(ctx, q, f.ID, f.CrewIDs)
}

func (r *PGFlightRepository) Update(ctx context.Context, f *domain.Flight) error {
	q := conn(ctx, r.db)
	cmd, err := q.Exec(ctx, `UPDATE flights SET departure_time=$1, arrival_time=$2, route_id=$3, airplane_id=$4 WHERE id=$5`,
		f.DepartureTime, f.ArrivalTime, f.RouteID, f.AirplaneID, f.ID)
	if err != nil {
		return translate("update flight", err)
	}
	if err := affected("update flight", cmd.RowsAffected()); err != nil {
		return err
	}
	if _, err := q.Exec(ctx, `DELETE FROM flight_crew WHERE flight_id=$1`, f.ID); err != nil {
		return translate("clear flight crew", err)
	}
	return r.setCrew(ctx, q, f.ID, f.CrewIDs)
}

func (r *PGFlightRepository) setCrew(ctx context.Context, q querier, flightID int64, crewIDs []int64) error {
	if len(crewIDs) == 0 {
		return nil
	}
	_, err := q.Exec(ctx, `INSERT INTO flight_crew (flight_id, crew_id) SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`, flightID, crewIDs)
	return translate("insert flight crew", err)
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	query, args, err := flightSelect().Where(sq.Eq{"f.id": id}).ToSql()
	if err != nil {
		return nil, translate("build flight query", err)
	}

	q := conn(ctx, r.db)
	f, err := scanFlight(q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate("get flight", err)
	}

	flights := []domain.Flight{*f}
	if err := r.attachCrew(ctx, q, flights); err != nil {
		return nil, err
	}
	*f = flights[0]

	rows, err := q.Query(ctx, `SELECT id, row_num, seat_num, order_id FROM tickets WHERE flight_id=$1 ORDER BY row_num, seat_num`, id)
	if err != nil {
		return nil, translate("list taken places", err)
	}
	defer rows.Close()

	f.TakenPlaces = make([]domain.Ticket, 0)
	for rows.Next() {
		t := domain.Ticket{FlightID: id}
		if err := rows.Scan(&t.ID, &t.Row, &t.Seat, &t.OrderID); err != nil {
			return nil, translate("scan taken place", err)
		}
		f.TakenPlaces = append(f.TakenPlaces, t)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list taken places", err)
	}
	return f, nil
}

func (r *PGFlightRepository) List(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	query, args, err := buildFlightListQuery(filter)
	if err != nil {
		return nil, translate("build flight query", err)
	}

	q := conn(ctx, r.db)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, translate("list flights", err)
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, translate("scan flight", err)
		}
		flights = append(flights, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list flights", err)
	}
	rows.Close()

	if err := r.attachCrew(ctx, q, flights); err != nil {
		return nil, err
	}
	return flights, nil
}

// attachCrew loads the crew of all flights in one query.
func (r *PGFlightRepository) attachCrew(ctx context.Context, q querier, flights []domain.Flight) error {
	if len(flights) == 0 {
		return nil
	}
	ids := make([]int64, len(flights))
	index := make(map[int64]int, len(flights))
	for i, f := range flights {
		ids[i] = f.ID
		index[f.ID] = i
		flights[i].Crew = make([]domain.Crew, 0)
		flights[i].CrewIDs = make([]int64, 0)
	}

	rows, err := q.Query(ctx, `SELECT fc.flight_id, c.id, c.first_name, c.last_name
		FROM flight_crew fc
		JOIN crew c ON c.id = fc.crew_id
		WHERE fc.flight_id = ANY($1)
		ORDER BY c.id`, ids)
	if err != nil {
		return translate("list flight crew", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			flightID int64
			c        domain.Crew
		)
		if err := rows.Scan(&flightID, &c.ID, &c.FirstName, &c.LastName); err != nil {
			return translate("scan flight crew", err)
		}
		i := index[flightID]
		flights[i].Crew = append(flights[i].Crew, c)
		flights[i].CrewIDs = append(flights[i].CrewIDs, c.ID)
	}
	return translate("list flight crew", rows.Err())
}

func (r *PGFlightRepository) GetAirplane(ctx context.Context, flightID int64) (*domain.Airplane, error) {
	a, err := scanAirplane(conn(ctx, r.db).QueryRow(ctx, selectAirplanes+` JOIN flights f ON f.airplane_id = a.id WHERE f.id=$1`, flightID))
	if err != nil {
		return nil, translate("get flight airplane", err)
	}
	return a, nil
}

func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, conn(ctx, r.db), "flights", id)
}

func scanFlight(row scanner) (*domain.Flight, error) {
	var (
		f         domain.Flight
		route     domain.Route
		src, dest domain.Airport
		airplane  domain.Airplane
		typ       domain.AirplaneType
	)
	if err := row.Scan(
		&f.ID, &f.DepartureTime, &f.ArrivalTime,
		&route.ID, &route.Distance,
		&src.ID, &src.Name, &src.ClosestBigCity,
		&dest.ID, &dest.Name, &dest.ClosestBigCity,
		&airplane.ID, &airplane.Name, &airplane.Rows, &airplane.SeatsInRow,
		&typ.ID, &typ.Name,
		&f.TicketsSold,
	); err != nil {
		return nil, err
	}
	route.SourceID, route.DestinationID = src.ID, dest.ID
	route.Source, route.Destination = &src, &dest
	airplane.AirplaneTypeID = typ.ID
	airplane.AirplaneType = &typ

	f.RouteID, f.AirplaneID = route.ID, airplane.ID
	f.Route, f.Airplane = &route, &airplane
	f.DepartureTime, f.ArrivalTime = f.DepartureTime.UTC(), f.ArrivalTime.UTC()
	return &f, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
