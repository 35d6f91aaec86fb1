package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of a reservation date.
const DateLayout = "2006-01-02"

// Reservation is the persisted form of a booking.  It references its
// member, time and theme by id; ReservationDetail carries the resolved
// records.  Reservations are created and deleted, never updated.
type Reservation struct {
	ID       uint64    // reservations.id
	MemberID uint64    // reservations.member_id
	Date     time.Time // reservations.date, midnight UTC
	TimeID   uint64    // reservations.time_id
	ThemeID  uint64    // reservations.theme_id
}

// ReservationDetail is a reservation joined with the records it points at.
type ReservationDetail struct {
	ID     uint64
	Member MemberSummary
	Date   time.Time
	Time   Time
	Theme  Theme
}

// MemberSummary is the part of a member exposed alongside a reservation.
type MemberSummary struct {
	ID   uint64
	Name string
}

// IsReservedAtPeriod reports whether the reservation date falls within
// [from, to], both ends inclusive.
func (r ReservationDetail) IsReservedAtPeriod(from, to time.Time) bool {
	return !r.Date.Before(from) && !r.Date.After(to)
}

// ParseDate parses YYYY-MM-DD into a civil date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	// DATE columns read through some drivers carry a time suffix.
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return d, nil
}

// DateOf returns the civil date of t in t's own location as midnight UTC,
// so it can be compared with dates produced by ParseDate.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a civil date as YYYY-MM-DD.
func FormatDate(d time.Time) string { return d.Format(DateLayout) }
