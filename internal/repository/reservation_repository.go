package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/room-escape-reservation/internal/model"
)

// ReservationRepo provides create/read/delete operations for reservations.
// Rows store foreign-key ids only; reads join members, times and themes so
// callers always see the current state of the referenced records.
type ReservationRepo struct {
	db *sqlx.DB
}

func NewReservationRepo(db *sqlx.DB) *ReservationRepo {
	return &ReservationRepo{db: db}
}

// reservationRow is one reservation joined with its member, time and theme.
type reservationRow struct {
	ID               uint64 `db:"id"`
	Date             string `db:"date"`
	MemberID         uint64 `db:"member_id"`
	MemberName       string `db:"member_name"`
	TimeID           uint64 `db:"time_id"`
	StartAt          string `db:"start_at"`
	ThemeID          uint64 `db:"theme_id"`
	ThemeName        string `db:"theme_name"`
	ThemeDescription string `db:"theme_description"`
	ThemeThumbnail   string `db:"theme_thumbnail"`
}

const selectReservationDetail = `SELECT r.id, r.date,
		m.id AS member_id, m.name AS member_name,
		t.id AS time_id, t.start_at,
		th.id AS theme_id, th.name AS theme_name, th.description AS theme_description, th.thumbnail AS theme_thumbnail
	FROM reservations r
	JOIN members m ON m.id = r.member_id
	JOIN times t ON t.id = r.time_id
	JOIN themes th ON th.id = r.theme_id`

func (row reservationRow) detail() (model.ReservationDetail, error) {
	date, err := model.ParseDate(row.Date)
	if err != nil {
		return model.ReservationDetail{}, fmt.Errorf("reservation %d: %w", row.ID, err)
	}
	clock, err := model.ParseClock(row.StartAt)
	if err != nil {
		return model.ReservationDetail{}, fmt.Errorf("reservation %d: %w", row.ID, err)
	}
	return model.ReservationDetail{
		ID:     row.ID,
		Member: model.MemberSummary{ID: row.MemberID, Name: row.MemberName},
		Date:   date,
		Time:   model.Time{ID: row.TimeID, StartAt: clock},
		Theme: model.Theme{
			ID:          row.ThemeID,
			Name:        row.ThemeName,
			Description: row.ThemeDescription,
			Thumbnail:   row.ThemeThumbnail,
		},
	}, nil
}

// Create inserts a reservation and returns its id.  ErrDuplicate signals
// that the (theme, date, time) slot is already taken.
func (r *ReservationRepo) Create(ctx context.Context, res model.Reservation) (uint64, error) {
	id, err := insert(ctx, r.db,
		"INSERT INTO reservations (member_id, date, time_id, theme_id) VALUES (?, ?, ?, ?)",
		res.MemberID, model.FormatDate(res.Date), res.TimeID, res.ThemeID)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return id, nil
}

// GetByID returns the reservation detail or ErrNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.ReservationDetail, error) {
	var row reservationRow
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(selectReservationDetail+" WHERE r.id = ?"), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ReservationDetail{}, ErrNotFound
		}
		return model.ReservationDetail{}, err
	}
	return row.detail()
}

// ListOrderByDate returns all reservations, earliest date first.
func (r *ReservationRepo) ListOrderByDate(ctx context.Context) ([]model.ReservationDetail, error) {
	return r.list(ctx, selectReservationDetail+" ORDER BY r.date, r.id")
}

// ListByThemeAndDate returns the reservations booked for a theme on a date.
func (r *ReservationRepo) ListByThemeAndDate(ctx context.Context, themeID uint64, date time.Time) ([]model.ReservationDetail, error) {
	return r.list(ctx, selectReservationDetail+" WHERE r.theme_id = ? AND r.date = ? ORDER BY r.id",
		themeID, model.FormatDate(date))
}

// ListByMember returns a member's reservations, earliest date first.
func (r *ReservationRepo) ListByMember(ctx context.Context, memberID uint64) ([]model.ReservationDetail, error) {
	return r.list(ctx, selectReservationDetail+" WHERE r.member_id = ? ORDER BY r.date, r.id", memberID)
}

// IDsByMember returns the ids of a member's reservations in id order.
func (r *ReservationRepo) IDsByMember(ctx context.Context, memberID uint64) ([]uint64, error) {
	var ids []uint64
	if err := r.db.SelectContext(ctx, &ids,
		r.db.Rebind("SELECT id FROM reservations WHERE member_id = ? ORDER BY id"), memberID); err != nil {
		return nil, err
	}
	return ids, nil
}

// CountByTimeID counts reservations that use a time.
func (r *ReservationRepo) CountByTimeID(ctx context.Context, timeID uint64) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, r.db.Rebind("SELECT COUNT(*) FROM reservations WHERE time_id = ?"), timeID)
	return n, err
}

// CountByThemeID counts reservations for a theme.
func (r *ReservationRepo) CountByThemeID(ctx context.Context, themeID uint64) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, r.db.Rebind("SELECT COUNT(*) FROM reservations WHERE theme_id = ?"), themeID)
	return n, err
}

// DeleteByID removes a reservation and reports whether a row was removed.
// No existence check is made; deleting a missing id succeeds and changes
// nothing.
func (r *ReservationRepo) DeleteByID(ctx context.Context, id uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM reservations WHERE id = ?"), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *ReservationRepo) list(ctx context.Context, query string, args ...any) ([]model.ReservationDetail, error) {
	var rows []reservationRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	out := make([]model.ReservationDetail, 0, len(rows))
	for _, row := range rows {
		d, err := row.detail()
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
