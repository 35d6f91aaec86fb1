package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/room-escape-reservation/internal/model"
)

// MemberRepo persists members.
type MemberRepo struct{ db *sqlx.DB }

func NewMemberRepo(db *sqlx.DB) *MemberRepo { return &MemberRepo{db: db} }

const memberColumns = "id, name, email, password_hash, role"

// Create inserts a member and returns its id.  Emails are stored lower-cased
// and trimmed; ErrDuplicate signals the email is taken.
func (r *MemberRepo) Create(ctx context.Context, m model.Member) (uint64, error) {
	email := strings.ToLower(strings.TrimSpace(m.Email))
	id, err := insert(ctx, r.db,
		"INSERT INTO members (name, email, password_hash, role) VALUES (?, ?, ?, ?)",
		m.Name, email, m.PasswordHash, m.Role)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return id, nil
}

// GetByID fetches a member by id.
func (r *MemberRepo) GetByID(ctx context.Context, id uint64) (model.Member, error) {
	return r.getOne(ctx, "SELECT "+memberColumns+" FROM members WHERE id = ?", id)
}

// GetByEmail fetches a member by normalized email.
func (r *MemberRepo) GetByEmail(ctx context.Context, email string) (model.Member, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getOne(ctx, "SELECT "+memberColumns+" FROM members WHERE email = ?", email)
}

// List returns every member ordered by id.
func (r *MemberRepo) List(ctx context.Context) ([]model.Member, error) {
	var out []model.Member
	if err := r.db.SelectContext(ctx, &out, "SELECT "+memberColumns+" FROM members ORDER BY id"); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MemberRepo) getOne(ctx context.Context, query string, arg any) (model.Member, error) {
	var m model.Member
	if err := r.db.GetContext(ctx, &m, r.db.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Member{}, ErrNotFound
		}
		return model.Member{}, err
	}
	return m, nil
}
