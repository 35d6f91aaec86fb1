package service

import (
	"time"

	"github.com/iliyamo/room-escape-reservation/internal/model"
)

// ReservationValidator decides whether a member may book a slot.  It only
// reads the clock and the reservations it is handed.
type ReservationValidator struct {
	clock Clock
}

func NewReservationValidator(clock Clock) ReservationValidator {
	return ReservationValidator{clock: clock}
}

// Validate returns ErrPastDate when date is before today, ErrDuplicateBooking
// when one of existing already holds t, and nil otherwise.  existing is
// expected to be the reservations of the requested theme on date.
func (v ReservationValidator) Validate(date time.Time, t model.Time, existing []model.ReservationDetail) error {
	today := model.DateOf(v.clock.Now())
	if model.DateOf(date).Before(today) {
		return ErrPastDate
	}
	for _, r := range existing {
		if r.Time == t {
			return ErrDuplicateBooking
		}
	}
	return nil
}
