package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/room-escape-reservation/internal/model"
)

// ThemeRepo persists themes.
type ThemeRepo struct{ db *sqlx.DB }

func NewThemeRepo(db *sqlx.DB) *ThemeRepo { return &ThemeRepo{db: db} }

// Create inserts a theme and populates its id.
func (r *ThemeRepo) Create(ctx context.Context, t *model.Theme) error {
	id, err := insert(ctx, r.db,
		"INSERT INTO themes (name, description, thumbnail) VALUES (?, ?, ?)",
		t.Name, t.Description, t.Thumbnail)
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

// GetByID returns ErrNotFound when no theme has the id.
func (r *ThemeRepo) GetByID(ctx context.Context, id uint64) (model.Theme, error) {
	var t model.Theme
	err := r.db.GetContext(ctx, &t,
		r.db.Rebind("SELECT id, name, description, thumbnail FROM themes WHERE id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Theme{}, ErrNotFound
		}
		return model.Theme{}, err
	}
	return t, nil
}

// List returns all themes ordered by id.
func (r *ThemeRepo) List(ctx context.Context) ([]model.Theme, error) {
	var out []model.Theme
	if err := r.db.SelectContext(ctx, &out, "SELECT id, name, description, thumbnail FROM themes ORDER BY id"); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByID removes a theme.  Deleting a missing id is not an error.
func (r *ThemeRepo) DeleteByID(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM themes WHERE id = ?"), id)
	return err
}
