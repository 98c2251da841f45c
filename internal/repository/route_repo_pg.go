package repository

import (
	"context"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RouteRepository interface {
	Create(ctx context.Context, route *domain.Route) error
	Update(ctx context.Context, route *domain.Route) error
	GetByID(ctx context.Context, id int64) (*domain.Route, error)
	List(ctx context.Context) ([]domain.Route, error)
	Delete(ctx context.Context, id int64) error
}

type PGRouteRepository struct {
	db *pgxpool.Pool
}

func NewRouteRepository(db *pgxpool.Pool) RouteRepository {
	return &PGRouteRepository{db: db}
}

const selectRoutes = `SELECT r.id, r.distance,
		s.id, s.name, s.closest_big_city,
		d.id, d.name, d.closest_big_city
	FROM routes r
	JOIN airports s ON s.id = r.source_id
	JOIN airports d ON d.id = r.destination_id`

func (r *PGRouteRepository) Create(ctx context.Context, route *domain.Route) error {
	err := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO routes (distance, source_id, destination_id) VALUES ($1, $2, $3) RETURNING id`,
		route.Distance, route.SourceID, route.DestinationID).Scan(&route.ID)
	return translate("insert route", err)
}

func (r *PGRouteRepository) Update(ctx context.Context, route *domain.Route) error {
	cmd, err := conn(ctx, r.db).Exec(ctx, `UPDATE routes SET distance=$1, source_id=$2, destination_id=$3 WHERE id=$4`,
		route.Distance, route.SourceID, route.DestinationID, route.ID)
	if err != nil {
		return translate("update route", err)
	}
	return affected("update route", cmd.RowsAffected())
}

func (r *PGRouteRepository) GetByID(ctx context.Context, id int64) (*domain.Route, error) {
	route, err := scanRoute(conn(ctx, r.db).QueryRow(ctx, selectRoutes+` WHERE r.id=$1`, id))
	if err != nil {
		return nil, translate("get route", err)
	}
	return route, nil
}

func (r *PGRouteRepository) List(ctx context.Context) ([]domain.Route, error) {
	rows, err := conn(ctx, r.db).Query(ctx, selectRoutes+` ORDER BY r.id`)
	if err != nil {
		return nil, translate("list routes", err)
	}
	defer rows.Close()

	routes := make([]domain.Route, 0)
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, translate("scan route", err)
		}
		routes = append(routes, *route)
	}
	return routes, translate("list routes", rows.Err())
}

func (r *PGRouteRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, conn(ctx, r.db), "routes", id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRoute(row scanner) (*domain.Route, error) {
	var (
		route     domain.Route
		src, dest domain.Airport
	)
	if err := row.Scan(&route.ID, &route.Distance,
		&src.ID, &src.Name, &src.ClosestBigCity,
		&dest.ID, &dest.Name, &dest.ClosestBigCity); err != nil {
		return nil, err
	}
	route.SourceID, route.DestinationID = src.ID, dest.ID
	route.Source, route.Destination = &src, &dest
	return &route, nil
}

var _ RouteRepository = (*PGRouteRepository)(nil)
