package service

import (
	"errors"
	"fmt"
)

// Error kinds.  Every error returned by this package wraps exactly one of
// them so the HTTP layer can pick a status code with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalid      = errors.New("invalid request")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

var (
	ErrTimeNotFound   = fmt.Errorf("%w: time does not exist", ErrNotFound)
	ErrThemeNotFound  = fmt.Errorf("%w: theme does not exist", ErrNotFound)
	ErrMemberNotFound = fmt.Errorf("%w: member does not exist", ErrNotFound)

	ErrPastDate     = fmt.Errorf("%w: cannot reserve a date in the past", ErrInvalid)
	ErrInvalidTime  = fmt.Errorf("%w: start time must be HH:MM", ErrInvalid)
	ErrInvalidTheme = fmt.Errorf("%w: theme name is required", ErrInvalid)
	ErrInvalidInput = fmt.Errorf("%w: name, email and password are required", ErrInvalid)
	ErrInvalidEmail = fmt.Errorf("%w: email address is malformed", ErrInvalid)

	ErrDuplicateBooking = fmt.Errorf("%w: the theme is already booked at that date and time", ErrConflict)
	ErrDuplicateTime    = fmt.Errorf("%w: a time with that start already exists", ErrConflict)
	ErrTimeInUse        = fmt.Errorf("%w: time is used by existing reservations", ErrConflict)
	ErrThemeInUse       = fmt.Errorf("%w: theme is used by existing reservations", ErrConflict)
	ErrEmailExists      = fmt.Errorf("%w: email already registered", ErrConflict)

	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	ErrNotOwner           = fmt.Errorf("%w: reservation belongs to another member", ErrForbidden)
)
