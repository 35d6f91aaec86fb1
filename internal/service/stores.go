package service

import (
	"context"
	"time"

	"github.com/iliyamo/room-escape-reservation/internal/model"
)

// The interfaces below are the slices of the repositories each service
// needs.  The repository package satisfies them; tests use in-memory fakes.

type ReservationStore interface {
	Create(ctx context.Context, r model.Reservation) (uint64, error)
	GetByID(ctx context.Context, id uint64) (model.ReservationDetail, error)
	ListOrderByDate(ctx context.Context) ([]model.ReservationDetail, error)
	ListByThemeAndDate(ctx context.Context, themeID uint64, date time.Time) ([]model.ReservationDetail, error)
	ListByMember(ctx context.Context, memberID uint64) ([]model.ReservationDetail, error)
	IDsByMember(ctx context.Context, memberID uint64) ([]uint64, error)
	CountByTimeID(ctx context.Context, timeID uint64) (int, error)
	CountByThemeID(ctx context.Context, themeID uint64) (int, error)
	DeleteByID(ctx context.Context, id uint64) (bool, error)
}

type TimeStore interface {
	Create(ctx context.Context, t *model.Time) error
	GetByID(ctx context.Context, id uint64) (model.Time, error)
	ListOrderByStartAt(ctx context.Context) ([]model.Time, error)
	CountByStartAt(ctx context.Context, startAt string) (int, error)
	DeleteByID(ctx context.Context, id uint64) error
}

type ThemeStore interface {
	Create(ctx context.Context, t *model.Theme) error
	GetByID(ctx context.Context, id uint64) (model.Theme, error)
	List(ctx context.Context) ([]model.Theme, error)
	DeleteByID(ctx context.Context, id uint64) error
}

type MemberStore interface {
	Create(ctx context.Context, m model.Member) (uint64, error)
	GetByID(ctx context.Context, id uint64) (model.Member, error)
	GetByEmail(ctx context.Context, email string) (model.Member, error)
	List(ctx context.Context) ([]model.Member, error)
}
