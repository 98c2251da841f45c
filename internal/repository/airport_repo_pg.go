package repository

import (
	"context"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AirportRepository interface {
	Create(ctx context.Context, airport *domain.Airport) error
	Update(ctx context.Context, airport *domain.Airport) error
	GetByID(ctx context.Context, id int64) (*domain.Airport, error)
	List(ctx context.Context) ([]domain.Airport, error)
	Delete(ctx context.Context, id int64) error
}

type PGAirportRepository struct {
	db *pgxpool.Pool
}

func NewAirportRepository(db *pgxpool.Pool) AirportRepository {
	return &PGAirportRepository{db: db}
}

func (r *PGAirportRepository) Create(ctx context.Context, a *domain.Airport) error {
	err := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO airports (name, closest_big_city) VALUES ($1, $2) RETURNING id`, a.Name, a.ClosestBigCity).
		Scan(&a.ID)
	return translate("insert airport", err)
}

func (r *PGAirportRepository) Update(ctx context.Context, a *domain.Airport) error {
	cmd, err := conn(ctx, r.db).Exec(ctx, `UPDATE airports SET name=$1, closest_big_city=$2 WHERE id=$3`, a.Name, a.ClosestBigCity, a.ID)
	if err != nil {
		return translate("update airport", err)
	}
	return affected("update airport", cmd.RowsAffected())
}

func (r *PGAirportRepository) GetByID(ctx context.Context, id int64) (*domain.Airport, error) {
	var a domain.Airport
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT id, name, closest_big_city FROM airports WHERE id=$1`, id).
		Scan(&a.ID, &a.Name, &a.ClosestBigCity)
	if err != nil {
		return nil, translate("get airport", err)
	}
	return &a, nil
}

func (r *PGAirportRepository) List(ctx context.Context) ([]domain.Airport, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT id, name, closest_big_city FROM airports ORDER BY name`)
	if err != nil {
		return nil, translate("list airports", err)
	}
	defer rows.Close()

	airports := make([]domain.Airport, 0)
	for rows.Next() {
		var a domain.Airport
		if err := rows.Scan(&a.ID, &a.Name, &a.ClosestBigCity); err != nil {
			return nil, translate("scan airport", err)
		}
		airports = append(airports, a)
	}
	return airports, translate("list airports", rows.Err())
}

func (r *PGAirportRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, conn(ctx, r.db), "airports", id)
}

var _ AirportRepository = (*PGAirportRepository)(nil)
