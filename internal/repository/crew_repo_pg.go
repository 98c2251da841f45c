package repository

import (
	"context"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CrewRepository interface {
	Create(ctx context.Context, c *domain.Crew) error
	Update(ctx context.Context, c *domain.Crew) error
	GetByID(ctx context.Context, id int64) (*domain.Crew, error)
	List(ctx context.Context) ([]domain.Crew, error)
	// ExistingIDs returns the subset of ids present in the store.
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
	Delete(ctx context.Context, id int64) error
}

type PGCrewRepository struct {
	db *pgxpool.Pool
}

func NewCrewRepository(db *pgxpool.Pool) CrewRepository {
	return &PGCrewRepository{db: db}
}

func (r *PGCrewRepository) Create(ctx context.Context, c *domain.Crew) error {
	err := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO crew (first_name, last_name) VALUES ($1, $2) RETURNING id`, c.FirstName, c.LastName).
		Scan(&c.ID)
	return translate("insert crew", err)
}

func (r *PGCrewRepository) Update(ctx context.Context, c *domain.Crew) error {
	cmd, err := conn(ctx, r.db).Exec(ctx, `UPDATE crew SET first_name=$1, last_name=$2 WHERE id=$3`, c.FirstName, c.LastName, c.ID)
	if err != nil {
		return translate("update crew", err)
	}
	return affected("update crew", cmd.RowsAffected())
}

func (r *PGCrewRepository) GetByID(ctx context.Context, id int64) (*domain.Crew, error) {
	var c domain.Crew
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT id, first_name, last_name FROM crew WHERE id=$1`, id).
		Scan(&c.ID, &c.FirstName, &c.LastName)
	if err != nil {
		return nil, translate("get crew", err)
	}
	return &c, nil
}

func (r *PGCrewRepository) List(ctx context.Context) ([]domain.Crew, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT id, first_name, last_name FROM crew ORDER BY first_name, last_name`)
	if err != nil {
		return nil, translate("list crew", err)
	}
	defer rows.Close()

	crew := make([]domain.Crew, 0)
	for rows.Next() {
		var c domain.Crew
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName); err != nil {
			return nil, translate("scan crew", err)
		}
		crew = append(crew, c)
	}
	return crew, translate("list crew", rows.Err())
}

func (r *PGCrewRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT id FROM crew WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, translate("find crew ids", err)
	}
	defer rows.Close()

	existing := make([]int64, 0, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, translate("scan crew id", err)
		}
		existing = append(existing, id)
	}
	return existing, translate("find crew ids", rows.Err())
}

func (r *PGCrewRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, conn(ctx, r.db), "crew", id)
}

var _ CrewRepository = (*PGCrewRepository)(nil)
