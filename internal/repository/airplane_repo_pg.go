package repository

import (
	"context"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AirplaneTypeRepository interface {
	Create(ctx context.Context, t *domain.AirplaneType) error
	Update(ctx context.Context, t *domain.AirplaneType) error
	GetByID(ctx context.Context, id int64) (*domain.AirplaneType, error)
	List(ctx context.Context) ([]domain.AirplaneType, error)
	Delete(ctx context.Context, id int64) error
}

type AirplaneRepository interface {
	Create(ctx context.Context, a *domain.Airplane) error
	Update(ctx context.Context, a *domain.Airplane) error
	GetByID(ctx context.Context, id int64) (*domain.Airplane, error)
	List(ctx context.Context) ([]domain.Airplane, error)
	Delete(ctx context.Context, id int64) error
}

type PGAirplaneTypeRepository struct {
	db *pgxpool.Pool
}

func NewAirplaneTypeRepository(db *pgxpool.Pool) AirplaneTypeRepository {
	return &PGAirplaneTypeRepository{db: db}
}

func (r *PGAirplaneTypeRepository) Create(ctx context.Context, t *domain.AirplaneType) error {
	err := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO airplane_types (name) VALUES ($1) RETURNING id`, t.Name).Scan(&t.ID)
	return translate("insert airplane type", err)
}

func (r *PGAirplaneTypeRepository) Update(ctx context.Context, t *domain.AirplaneType) error {
	cmd, err := conn(ctx, r.db).Exec(ctx, `UPDATE airplane_types SET name=$1 WHERE id=$2`, t.Name, t.ID)
	if err != nil {
		return translate("update airplane type", err)
	}
	return affected("update airplane type", cmd.RowsAffected())
}

func (r *PGAirplaneTypeRepository) GetByID(ctx context.Context, id int64) (*domain.AirplaneType, error) {
	var t domain.AirplaneType
	if err := conn(ctx, r.db).QueryRow(ctx, `SELECT id, name FROM airplane_types WHERE id=$1`, id).Scan(&t.ID, &t.Name); err != nil {
		return nil, translate("get airplane type", err)
	}
	return &t, nil
}

func (r *PGAirplaneTypeRepository) List(ctx context.Context) ([]domain.AirplaneType, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT id, name FROM airplane_types ORDER BY name`)
	if err != nil {
		return nil, translate("list airplane types", err)
	}
	defer rows.Close()

	types := make([]domain.AirplaneType, 0)
	for rows.Next() {
		var t domain.AirplaneType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, translate("scan airplane type", err)
		}
		types = append(types, t)
	}
	return types, translate("list airplane types", rows.Err())
}

func (r *PGAirplaneTypeRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, conn(ctx, r.db), "airplane_types", id)
}

type PGAirplaneRepository struct {
	db *pgxpool.Pool
}

func NewAirplaneRepository(db *pgxpool.Pool) AirplaneRepository {
	return &PGAirplaneRepository{db: db}
}

const selectAirplanes = `SELECT a.id, a.name, a.rows, a.seats_in_row, t.id, t.name
	FROM airplanes a
	JOIN airplane_types t ON t.id = a.airplane_type_id`

func (r *PGAirplaneRepository) Create(ctx context.Context, a *domain.Airplane) error {
	err := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO airplanes (name, rows, seats_in_row, airplane_type_id) VALUES ($1, $2, $3, $4) RETURNING id`,
		a.Name, a.Rows, a.SeatsInRow, a.AirplaneTypeID).Scan(&a.ID)
	return translate("insert airplane", err)
}

func (r *PGAirplaneRepository) Update(ctx context.Context, a *domain.Airplane) error {
	cmd, err := conn(ctx, r.db).Exec(ctx, `UPDATE airplanes SET name=$1, rows=$2, seats_in_row=$3, airplane_type_id=$4 WHERE id=$5`,
		a.Name, a.Rows, a.SeatsInRow, a.AirplaneTypeID, a.ID)
	if err != nil {
		return translate("update airplane", err)
	}
	return affected("update airplane", cmd.RowsAffected())
}

func (r *PGAirplaneRepository) GetByID(ctx context.Context, id int64) (*domain.Airplane, error) {
	a, err := scanAirplane(conn(ctx, r.db).QueryRow(ctx, selectAirplanes+` WHERE a.id=$1`, id))
	if err != nil {
		return nil, translate("get airplane", err)
	}
	return a, nil
}

func (r *PGAirplaneRepository) List(ctx context.Context) ([]domain.Airplane, error) {
	rows, err := conn(ctx, r.db).Query(ctx, selectAirplanes+` ORDER BY a.name, a.id`)
	if err != nil {
		return nil, translate("list airplanes", err)
	}
	defer rows.Close()

	airplanes := make([]domain.Airplane, 0)
	for rows.Next() {
		a, err := scanAirplane(rows)
		if err != nil {
			return nil, translate("scan airplane", err)
		}
		airplanes = append(airplanes, *a)
	}
	return airplanes, translate("list airplanes", rows.Err())
}

func (r *PGAirplaneRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, conn(ctx, r.db), "airplanes", id)
}

func scanAirplane(row scanner) (*domain.Airplane, error) {
	var (
		a domain.Airplane
		t domain.AirplaneType
	)
	if err := row.Scan(&a.ID, &a.Name, &a.Rows, &a.SeatsInRow, &t.ID, &t.Name); err != nil {
		return nil, err
	}
	a.AirplaneTypeID = t.ID
	a.AirplaneType = &t
	return &a, nil
}

var (
	_ AirplaneTypeRepository = (*PGAirplaneTypeRepository)(nil)
	_ AirplaneRepository     = (*PGAirplaneRepository)(nil)
)
