package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/iliyamo/room-escape-reservation/internal/model"
	"github.com/iliyamo/room-escape-reservation/internal/queue"
	"github.com/iliyamo/room-escape-reservation/internal/repository"
)

// memDB is an in-memory record store shared by the fake repositories so
// reservation reads can join members, times and themes like the SQL ones.
type memDB struct {
	nextID       uint64
	members      map[uint64]model.Member
	times        map[uint64]model.Time
	themes       map[uint64]model.Theme
	reservations map[uint64]model.Reservation
}

func newMemDB() *memDB {
	return &memDB{
		members:      map[uint64]model.Member{},
		times:        map[uint64]model.Time{},
		themes:       map[uint64]model.Theme{},
		reservations: map[uint64]model.Reservation{},
	}
}

func (db *memDB) id() uint64 {
	db.nextID++
	return db.nextID
}

type fakeReservations struct{ db *memDB }
type fakeTimes struct{ db *memDB }
type fakeThemes struct{ db *memDB }
type fakeMembers struct{ db *memDB }

func (f fakeReservations) detail(r model.Reservation) model.ReservationDetail {
	m := f.db.members[r.MemberID]
	return model.ReservationDetail{
		ID:     r.ID,
		Member: model.MemberSummary{ID: m.ID, Name: m.Name},
		Date:   r.Date,
		Time:   f.db.times[r.TimeID],
		Theme:  f.db.themes[r.ThemeID],
	}
}

func (f fakeReservations) Create(_ context.Context, r model.Reservation) (uint64, error) {
	for _, other := range f.db.reservations {
		if other.ThemeID == r.ThemeID && other.TimeID == r.TimeID && other.Date.Equal(r.Date) {
			return 0, repository.ErrDuplicate
		}
	}
	r.ID = f.db.id()
	f.db.reservations[r.ID] = r
	return r.ID, nil
}

func (f fakeReservations) GetByID(_ context.Context, id uint64) (model.ReservationDetail, error) {
	r, ok := f.db.reservations[id]
	if !ok {
		return model.ReservationDetail{}, repository.ErrNotFound
	}
	return f.detail(r), nil
}

func (f fakeReservations) filter(keep func(model.Reservation) bool) []model.ReservationDetail {
	var out []model.ReservationDetail
	for _, r := range f.db.reservations {
		if keep(r) {
			out = append(out, f.detail(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (f fakeReservations) ListOrderByDate(context.Context) ([]model.ReservationDetail, error) {
	return f.filter(func(model.Reservation) bool { return true }), nil
}

func (f fakeReservations) ListByThemeAndDate(_ context.Context, themeID uint64, date time.Time) ([]model.ReservationDetail, error) {
	return f.filter(func(r model.Reservation) bool { return r.ThemeID == themeID && r.Date.Equal(date) }), nil
}

func (f fakeReservations) ListByMember(_ context.Context, memberID uint64) ([]model.ReservationDetail, error) {
	return f.filter(func(r model.Reservation) bool { return r.MemberID == memberID }), nil
}

func (f fakeReservations) IDsByMember(_ context.Context, memberID uint64) ([]uint64, error) {
	var ids []uint64
	for id, r := range f.db.reservations {
		if r.MemberID == memberID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f fakeReservations) CountByTimeID(_ context.Context, timeID uint64) (int, error) {
	return len(f.filter(func(r model.Reservation) bool { return r.TimeID == timeID })), nil
}

func (f fakeReservations) CountByThemeID(_ context.Context, themeID uint64) (int, error) {
	return len(f.filter(func(r model.Reservation) bool { return r.ThemeID == themeID })), nil
}

func (f fakeReservations) DeleteByID(_ context.Context, id uint64) (bool, error) {
	_, ok := f.db.reservations[id]
	delete(f.db.reservations, id)
	return ok, nil
}

func (f fakeTimes) Create(_ context.Context, t *model.Time) error {
	for _, other := range f.db.times {
		if other.StartAt == t.StartAt {
			return repository.ErrDuplicate
		}
	}
	t.ID = f.db.id()
	f.db.times[t.ID] = *t
	return nil
}

func (f fakeTimes) GetByID(_ context.Context, id uint64) (model.Time, error) {
	t, ok := f.db.times[id]
	if !ok {
		return model.Time{}, repository.ErrNotFound
	}
	return t, nil
}

func (f fakeTimes) ListOrderByStartAt(context.Context) ([]model.Time, error) {
	out := make([]model.Time, 0, len(f.db.times))
	for _, t := range f.db.times {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt < out[j].StartAt })
	return out, nil
}

func (f fakeTimes) CountByStartAt(_ context.Context, startAt string) (int, error) {
	n := 0
	for _, t := range f.db.times {
		if t.StartAt == startAt {
			n++
		}
	}
	return n, nil
}

func (f fakeTimes) DeleteByID(_ context.Context, id uint64) error {
	delete(f.db.times, id)
	return nil
}

func (f fakeThemes) Create(_ context.Context, t *model.Theme) error {
	t.ID = f.db.id()
	f.db.themes[t.ID] = *t
	return nil
}

func (f fakeThemes) GetByID(_ context.Context, id uint64) (model.Theme, error) {
	t, ok := f.db.themes[id]
	if !ok {
		return model.Theme{}, repository.ErrNotFound
	}
	return t, nil
}

func (f fakeThemes) List(context.Context) ([]model.Theme, error) {
	out := make([]model.Theme, 0, len(f.db.themes))
	for _, t := range f.db.themes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeThemes) DeleteByID(_ context.Context, id uint64) error {
	delete(f.db.themes, id)
	return nil
}

func (f fakeMembers) Create(_ context.Context, m model.Member) (uint64, error) {
	m.Email = strings.ToLower(strings.TrimSpace(m.Email))
	for _, other := range f.db.members {
		if other.Email == m.Email {
			return 0, repository.ErrDuplicate
		}
	}
	m.ID = f.db.id()
	f.db.members[m.ID] = m
	return m.ID, nil
}

func (f fakeMembers) GetByID(_ context.Context, id uint64) (model.Member, error) {
	m, ok := f.db.members[id]
	if !ok {
		return model.Member{}, repository.ErrNotFound
	}
	return m, nil
}

func (f fakeMembers) GetByEmail(_ context.Context, email string) (model.Member, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, m := range f.db.members {
		if m.Email == email {
			return m, nil
		}
	}
	return model.Member{}, repository.ErrNotFound
}

func (f fakeMembers) List(context.Context) ([]model.Member, error) {
	out := make([]model.Member, 0, len(f.db.members))
	for _, m := range f.db.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// recordingPublisher remembers published events and can be told to fail.
type recordingPublisher struct {
	created []queue.ReservationCreatedEvent
	deleted []queue.ReservationDeletedEvent
	fail    bool
}

var errBrokerDown = errors.New("broker down")

func (p *recordingPublisher) PublishReservationCreated(_ context.Context, ev queue.ReservationCreatedEvent) error {
	if p.fail {
		return errBrokerDown
	}
	p.created = append(p.created, ev)
	return nil
}

func (p *recordingPublisher) PublishReservationDeleted(_ context.Context, ev queue.ReservationDeletedEvent) error {
	if p.fail {
		return errBrokerDown
	}
	p.deleted = append(p.deleted, ev)
	return nil
}
