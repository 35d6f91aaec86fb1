package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/room-escape-reservation/internal/model"
)

// TimeRepo persists bookable start times.  start_at is written as HH:MM
// and normalized back to HH:MM on read because MySQL TIME columns come
// back with seconds.
type TimeRepo struct{ db *sqlx.DB }

func NewTimeRepo(db *sqlx.DB) *TimeRepo { return &TimeRepo{db: db} }

// Create inserts a time and populates its id.  ErrDuplicate signals that
// the start time already exists.
func (r *TimeRepo) Create(ctx context.Context, t *model.Time) error {
	id, err := insert(ctx, r.db, "INSERT INTO times (start_at) VALUES (?)", t.StartAt)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	t.ID = id
	return nil
}

// GetByID returns ErrNotFound when no time has the id.
func (r *TimeRepo) GetByID(ctx context.Context, id uint64) (model.Time, error) {
	var t model.Time
	if err := r.db.GetContext(ctx, &t, r.db.Rebind("SELECT id, start_at FROM times WHERE id = ?"), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Time{}, ErrNotFound
		}
		return model.Time{}, err
	}
	return normalizeTime(t)
}

// ListOrderByStartAt returns every time ordered by start ascending.
func (r *TimeRepo) ListOrderByStartAt(ctx context.Context) ([]model.Time, error) {
	var rows []model.Time
	if err := r.db.SelectContext(ctx, &rows, "SELECT id, start_at FROM times ORDER BY start_at, id"); err != nil {
		return nil, err
	}
	for i := range rows {
		t, err := normalizeTime(rows[i])
		if err != nil {
			return nil, err
		}
		rows[i] = t
	}
	return rows, nil
}

// CountByStartAt counts times starting at startAt (HH:MM).
func (r *TimeRepo) CountByStartAt(ctx context.Context, startAt string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, r.db.Rebind("SELECT COUNT(*) FROM times WHERE start_at = ?"), startAt)
	return n, err
}

// DeleteByID removes a time.  Deleting a missing id is not an error.
func (r *TimeRepo) DeleteByID(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM times WHERE id = ?"), id)
	return err
}

func normalizeTime(t model.Time) (model.Time, error) {
	clock, err := model.ParseClock(t.StartAt)
	if err != nil {
		return model.Time{}, fmt.Errorf("time %d: %w", t.ID, err)
	}
	t.StartAt = clock
	return t, nil
}
