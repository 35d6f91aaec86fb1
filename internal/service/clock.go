package service

import "time"

// Clock supplies the current time.  Services take one so tests can pin
// "today".
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in Location, or in the process's local
// zone when Location is nil.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}
