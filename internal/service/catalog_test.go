package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeService(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := NewTimeService(fakeTimes{e.db}, fakeReservations{e.db})

	created, err := svc.Create(ctx, "09:30:00")
	require.NoError(t, err)
	assert.Equal(t, "09:30", created.StartAt)

	tests := []struct {
		name    string
		startAt string
		wantErr error
	}{
		{name: "not a time", startAt: "noon", wantErr: ErrInvalidTime},
		{name: "out of range", startAt: "25:00", wantErr: ErrInvalidTime},
		{name: "already exists", startAt: "12:00", wantErr: ErrDuplicateTime},
		{name: "already exists with seconds", startAt: "09:30:00", wantErr: ErrDuplicateTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.startAt)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []TimeResponse{created, {ID: e.noon.ID, StartAt: "12:00"}}, list)

	_, err = e.svc.Create(ctx, e.member.ID, day(1), e.noon.ID, e.theme.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(ctx, e.noon.ID), ErrTimeInUse)
	assert.NoError(t, svc.Delete(ctx, created.ID))
	assert.NoError(t, svc.Delete(ctx, created.ID), "missing id is a no-op")
	assert.Len(t, e.db.times, 1)
}

func TestThemeService(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := NewThemeService(fakeThemes{e.db}, fakeReservations{e.db})

	_, err := svc.Create(ctx, "   ", "d", "t")
	assert.ErrorIs(t, err, ErrInvalidTheme)

	created, err := svc.Create(ctx, " Sherlock ", "Baker Street", "s.jpg")
	require.NoError(t, err)
	assert.Equal(t, "Sherlock", created.Name)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = e.svc.Create(ctx, e.member.ID, day(1), e.noon.ID, e.theme.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(ctx, e.theme.ID), ErrThemeInUse)
	assert.NoError(t, svc.Delete(ctx, created.ID))
	_, ok := e.db.themes[created.ID]
	assert.False(t, ok)
}
