package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "hours and minutes", in: "12:00", want: "12:00"},
		{name: "mysql TIME with seconds", in: "09:30:00", want: "09:30"},
		{name: "surrounding spaces", in: " 18:45 ", want: "18:45"},
		{name: "out of range", in: "25:00", wantErr: true},
		{name: "garbage", in: "noon", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2026-10-19T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", FormatDate(d))

	_, err = ParseDate("19/10/2026")
	assert.Error(t, err)
}

func TestDateOf_UsesWallClockDate(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	// 23:30 UTC on the 18th is already the 19th in Seoul.
	instant := time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, "2026-10-18", FormatDate(DateOf(instant)))
	assert.Equal(t, "2026-10-19", FormatDate(DateOf(instant.In(seoul))))
}

func TestReservationDetail_IsReservedAtPeriod(t *testing.T) {
	day := func(s string) time.Time {
		d, err := ParseDate(s)
		require.NoError(t, err)
		return d
	}
	r := ReservationDetail{Date: day("2026-10-20")}

	assert.True(t, r.IsReservedAtPeriod(day("2026-10-20"), day("2026-10-20")), "single-day window")
	assert.True(t, r.IsReservedAtPeriod(day("2026-10-01"), day("2026-10-31")))
	assert.True(t, r.IsReservedAtPeriod(day("2026-10-20"), day("2026-10-25")), "from is inclusive")
	assert.True(t, r.IsReservedAtPeriod(day("2026-10-15"), day("2026-10-20")), "to is inclusive")
	assert.False(t, r.IsReservedAtPeriod(day("2026-10-21"), day("2026-10-31")))
	assert.False(t, r.IsReservedAtPeriod(day("2026-10-01"), day("2026-10-19")))
}

func TestMember_IsAdmin(t *testing.T) {
	assert.True(t, Member{Role: RoleAdmin}.IsAdmin())
	assert.False(t, Member{Role: RoleUser}.IsAdmin())
}
