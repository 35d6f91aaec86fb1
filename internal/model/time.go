package model

import (
	"fmt"
	"strings"
	"time"
)

// ClockLayout is the wire and storage format of a time-of-day.
const ClockLayout = "15:04"

// Time is a bookable start time shared by every theme.  Two Time values
// are the same slot when they are equal, which is what availability and
// duplicate checks compare.
type Time struct {
	ID      uint64 `db:"id"`       // times.id
	StartAt string `db:"start_at"` // times.start_at, normalized to HH:MM
}

// ParseClock validates s as HH:MM (seconds are accepted and dropped, which
// is how MySQL hands back TIME columns) and returns the normalized form.
func ParseClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{ClockLayout, "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(ClockLayout), nil
		}
	}
	return "", fmt.Errorf("invalid time of day %q", s)
}
