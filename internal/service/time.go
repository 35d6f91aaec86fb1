package service

import (
	"context"
	"errors"

	"github.com/iliyamo/room-escape-reservation/internal/model"
	"github.com/iliyamo/room-escape-reservation/internal/repository"
)

// TimeService manages the start times offered for every theme.
type TimeService struct {
	times        TimeStore
	reservations ReservationStore
}

func NewTimeService(times TimeStore, reservations ReservationStore) *TimeService {
	return &TimeService{times: times, reservations: reservations}
}

// Create adds a start time given as HH:MM.  Start times are unique.
func (s *TimeService) Create(ctx context.Context, startAt string) (TimeResponse, error) {
	clock, err := model.ParseClock(startAt)
	if err != nil {
		return TimeResponse{}, ErrInvalidTime
	}
	n, err := s.times.CountByStartAt(ctx, clock)
	if err != nil {
		return TimeResponse{}, err
	}
	if n > 0 {
		return TimeResponse{}, ErrDuplicateTime
	}

	t := model.Time{StartAt: clock}
	if err := s.times.Create(ctx, &t); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return TimeResponse{}, ErrDuplicateTime
		}
		return TimeResponse{}, err
	}
	return newTimeResponse(t), nil
}

// List returns all times, earliest first.
func (s *TimeService) List(ctx context.Context) ([]TimeResponse, error) {
	times, err := s.times.ListOrderByStartAt(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TimeResponse, 0, len(times))
	for _, t := range times {
		out = append(out, newTimeResponse(t))
	}
	return out, nil
}

// Delete removes a time no reservation uses.  A missing id is not an error.
func (s *TimeService) Delete(ctx context.Context, id uint64) error {
	n, err := s.reservations.CountByTimeID(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrTimeInUse
	}
	return s.times.DeleteByID(ctx, id)
}
