package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/airport/internal/domain"
)

func affected(op string, n int64) error {
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

// deleteByID removes one row; dependents go with it through ON DELETE CASCADE.
// table is always a constant from this package.
func deleteByID(ctx context.Context, q querier, table string, id int64) error {
	cmd, err := q.Exec(ctx, "DELETE FROM "+table+" WHERE id=$1", id)
	if err != nil {
		return translate("delete from "+table, err)
	}
	return affected("delete from "+table, cmd.RowsAffected())
}
