package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// insert runs an INSERT written with ? placeholders and returns the new
// row id.  PostgreSQL has no LastInsertId, so the id is read back through
// RETURNING there.
func insert(ctx context.Context, db *sqlx.DB, query string, args ...any) (uint64, error) {
	if db.DriverName() == "postgres" {
		var id uint64
		if err := db.QueryRowxContext(ctx, db.Rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	res, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading insert id: %w", err)
	}
	return uint64(id), nil
}
