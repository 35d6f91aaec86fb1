package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/room-escape-reservation/internal/database"
	"github.com/iliyamo/room-escape-reservation/internal/model"
	"github.com/iliyamo/room-escape-reservation/internal/repository"
)

// openTestDB returns a fresh in-memory SQLite database with the schema applied.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.OpenDSN(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

type fixture struct {
	members      *repository.MemberRepo
	times        *repository.TimeRepo
	themes       *repository.ThemeRepo
	reservations *repository.ReservationRepo

	member model.Member
	noon   model.Time
	theme  model.Theme
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	db := openTestDB(t)
	f := fixture{
		members:      repository.NewMemberRepo(db),
		times:        repository.NewTimeRepo(db),
		themes:       repository.NewThemeRepo(db),
		reservations: repository.NewReservationRepo(db),
	}

	f.member = model.Member{Name: "bumblebee", Email: "aa@email.com", PasswordHash: "x", Role: model.RoleUser}
	id, err := f.members.Create(ctx, f.member)
	require.NoError(t, err)
	f.member.ID = id

	f.noon = model.Time{StartAt: "12:00"}
	require.NoError(t, f.times.Create(ctx, &f.noon))

	f.theme = model.Theme{Name: "Harry Potter", Description: "Harry and Dobby", Thumbnail: "thumbnail.jpg"}
	require.NoError(t, f.themes.Create(ctx, &f.theme))
	return f
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestReservationRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	id, err := f.reservations.Create(ctx, model.Reservation{
		MemberID: f.member.ID, Date: date(t, "2026-12-24"), TimeID: f.noon.ID, ThemeID: f.theme.ID,
	})
	require.NoError(t, err)

	got, err := f.reservations.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationDetail{
		ID:     id,
		Member: model.MemberSummary{ID: f.member.ID, Name: "bumblebee"},
		Date:   date(t, "2026-12-24"),
		Time:   f.noon,
		Theme:  f.theme,
	}, got)
}

func TestReservationRepo_DuplicateSlotRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	res := model.Reservation{MemberID: f.member.ID, Date: date(t, "2026-12-24"), TimeID: f.noon.ID, ThemeID: f.theme.ID}

	_, err := f.reservations.Create(ctx, res)
	require.NoError(t, err)

	_, err = f.reservations.Create(ctx, res)
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestReservationRepo_ListOrderByDate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for _, d := range []string{"2026-12-26", "2026-12-24", "2026-12-25"} {
		_, err := f.reservations.Create(ctx, model.Reservation{
			MemberID: f.member.ID, Date: date(t, d), TimeID: f.noon.ID, ThemeID: f.theme.ID,
		})
		require.NoError(t, err)
	}

	list, err := f.reservations.ListOrderByDate(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "2026-12-24", model.FormatDate(list[0].Date))
	assert.Equal(t, "2026-12-25", model.FormatDate(list[1].Date))
	assert.Equal(t, "2026-12-26", model.FormatDate(list[2].Date))
}

func TestReservationRepo_ListByThemeAndDate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	other := model.Theme{Name: "Sherlock", Description: "Baker Street", Thumbnail: "s.jpg"}
	require.NoError(t, f.themes.Create(ctx, &other))

	for _, r := range []model.Reservation{
		{MemberID: f.member.ID, Date: date(t, "2026-12-24"), TimeID: f.noon.ID, ThemeID: f.theme.ID},
		{MemberID: f.member.ID, Date: date(t, "2026-12-25"), TimeID: f.noon.ID, ThemeID: f.theme.ID},
		{MemberID: f.member.ID, Date: date(t, "2026-12-24"), TimeID: f.noon.ID, ThemeID: other.ID},
	} {
		_, err := f.reservations.Create(ctx, r)
		require.NoError(t, err)
	}

	list, err := f.reservations.ListByThemeAndDate(ctx, f.theme.ID, date(t, "2026-12-24"))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, f.theme.ID, list[0].Theme.ID)
	assert.Equal(t, f.noon, list[0].Time)
}

func TestReservationRepo_IDsByMember(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	otherID, err := f.members.Create(ctx, model.Member{Name: "optimus", Email: "bb@email.com", PasswordHash: "x", Role: model.RoleUser})
	require.NoError(t, err)

	mine1, err := f.reservations.Create(ctx, model.Reservation{MemberID: f.member.ID, Date: date(t, "2026-12-25"), TimeID: f.noon.ID, ThemeID: f.theme.ID})
	require.NoError(t, err)
	_, err = f.reservations.Create(ctx, model.Reservation{MemberID: otherID, Date: date(t, "2026-12-26"), TimeID: f.noon.ID, ThemeID: f.theme.ID})
	require.NoError(t, err)
	mine2, err := f.reservations.Create(ctx, model.Reservation{MemberID: f.member.ID, Date: date(t, "2026-12-24"), TimeID: f.noon.ID, ThemeID: f.theme.ID})
	require.NoError(t, err)

	ids, err := f.reservations.IDsByMember(ctx, f.member.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{mine1, mine2}, ids)

	mine, err := f.reservations.ListByMember(ctx, f.member.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, mine2, mine[0].ID, "member listing is date ordered")
}

func TestReservationRepo_DeleteByID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id, err := f.reservations.Create(ctx, model.Reservation{MemberID: f.member.ID, Date: date(t, "2026-12-24"), TimeID: f.noon.ID, ThemeID: f.theme.ID})
	require.NoError(t, err)

	removed, err := f.reservations.DeleteByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, removed)
	_, err = f.reservations.GetByID(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// A second delete of the same id is still a success.
	removed, err = f.reservations.DeleteByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestReservationRepo_Counts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.reservations.Create(ctx, model.Reservation{MemberID: f.member.ID, Date: date(t, "2026-12-24"), TimeID: f.noon.ID, ThemeID: f.theme.ID})
	require.NoError(t, err)

	n, err := f.reservations.CountByTimeID(ctx, f.noon.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = f.reservations.CountByThemeID(ctx, f.theme.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = f.reservations.CountByTimeID(ctx, f.noon.ID+100)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTimeRepo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	morning := model.Time{StartAt: "09:30"}
	require.NoError(t, f.times.Create(ctx, &morning))

	all, err := f.times.ListOrderByStartAt(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Time{morning, f.noon}, all)

	n, err := f.times.CountByStartAt(ctx, "12:00")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	dup := model.Time{StartAt: "12:00"}
	assert.ErrorIs(t, f.times.Create(ctx, &dup), repository.ErrDuplicate)

	require.NoError(t, f.times.DeleteByID(ctx, morning.ID))
	_, err = f.times.GetByID(ctx, morning.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestThemeRepo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	got, err := f.themes.GetByID(ctx, f.theme.ID)
	require.NoError(t, err)
	assert.Equal(t, f.theme, got)

	list, err := f.themes.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Theme{f.theme}, list)

	require.NoError(t, f.themes.DeleteByID(ctx, f.theme.ID))
	_, err = f.themes.GetByID(ctx, f.theme.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMemberRepo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	got, err := f.members.GetByEmail(ctx, "  AA@Email.com ")
	require.NoError(t, err)
	assert.Equal(t, f.member, got)

	_, err = f.members.Create(ctx, model.Member{Name: "copy", Email: "AA@email.com", PasswordHash: "y", Role: model.RoleUser})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = f.members.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	all, err := f.members.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
