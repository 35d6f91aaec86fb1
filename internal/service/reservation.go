package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/room-escape-reservation/internal/model"
	"github.com/iliyamo/room-escape-reservation/internal/queue"
	"github.com/iliyamo/room-escape-reservation/internal/repository"
)

// EventPublisher emits reservation lifecycle events.  A nil publisher
// disables events.
type EventPublisher interface {
	PublishReservationCreated(ctx context.Context, ev queue.ReservationCreatedEvent) error
	PublishReservationDeleted(ctx context.Context, ev queue.ReservationDeletedEvent) error
}

// ReservationService resolves the records a booking refers to, runs the
// validator on the member path and persists the result.
type ReservationService struct {
	reservations ReservationStore
	times        TimeStore
	themes       ThemeStore
	members      MemberStore
	validator    ReservationValidator
	clock        Clock
	events       EventPublisher
	log          logrus.FieldLogger
}

func NewReservationService(
	reservations ReservationStore,
	times TimeStore,
	themes ThemeStore,
	members MemberStore,
	clock Clock,
	events EventPublisher,
) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		times:        times,
		themes:       themes,
		members:      members,
		validator:    NewReservationValidator(clock),
		clock:        clock,
		events:       events,
		log:          logrus.WithField("component", "reservation-service"),
	}
}

// Create books a slot for the authenticated member.  The date must not be
// in the past and the theme must not already be booked at that time.
func (s *ReservationService) Create(ctx context.Context, memberID uint64, date time.Time, timeID, themeID uint64) (ReservationResponse, error) {
	t, theme, err := s.resolveSlot(ctx, timeID, themeID)
	if err != nil {
		return ReservationResponse{}, err
	}
	member, err := s.findMember(ctx, memberID)
	if err != nil {
		return ReservationResponse{}, err
	}

	existing, err := s.reservations.ListByThemeAndDate(ctx, theme.ID, date)
	if err != nil {
		return ReservationResponse{}, err
	}
	if err := s.validator.Validate(date, t, existing); err != nil {
		return ReservationResponse{}, err
	}
	return s.save(ctx, member, date, t, theme, false)
}

// CreateAsAdmin books a slot on behalf of memberID.  Unlike Create it
// accepts past dates and does not look for an existing booking first; only
// the unique slot index can reject it.
func (s *ReservationService) CreateAsAdmin(ctx context.Context, date time.Time, timeID, themeID, memberID uint64) (ReservationResponse, error) {
	t, theme, err := s.resolveSlot(ctx, timeID, themeID)
	if err != nil {
		return ReservationResponse{}, err
	}
	member, err := s.findMember(ctx, memberID)
	if err != nil {
		return ReservationResponse{}, err
	}
	return s.save(ctx, member, date, t, theme, true)
}

// List returns every reservation, earliest date first.
func (s *ReservationService) List(ctx context.Context) ([]ReservationResponse, error) {
	list, err := s.reservations.ListOrderByDate(ctx)
	if err != nil {
		return nil, err
	}
	return newReservationResponses(list), nil
}

// ListMine returns the reservations held by memberID, earliest date first.
func (s *ReservationService) ListMine(ctx context.Context, memberID uint64) ([]ReservationResponse, error) {
	list, err := s.reservations.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return newReservationResponses(list), nil
}

// ListTimeAvailability returns one entry per time, ordered by start, with
// Booked set when the theme already has a reservation at that time on date.
func (s *ReservationService) ListTimeAvailability(ctx context.Context, themeID uint64, date time.Time) ([]TimeAvailability, error) {
	booked, err := s.reservations.ListByThemeAndDate(ctx, themeID, date)
	if err != nil {
		return nil, err
	}
	taken := make(map[model.Time]struct{}, len(booked))
	for _, r := range booked {
		taken[r.Time] = struct{}{}
	}

	times, err := s.times.ListOrderByStartAt(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TimeAvailability, 0, len(times))
	for _, t := range times {
		_, ok := taken[t]
		out = append(out, TimeAvailability{TimeID: t.ID, StartAt: t.StartAt, Booked: ok})
	}
	return out, nil
}

// Search returns memberID's reservations dated within [from, to].  Results
// follow reservation id order, not date order.
func (s *ReservationService) Search(ctx context.Context, memberID uint64, from, to time.Time) ([]ReservationResponse, error) {
	ids, err := s.reservations.IDsByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	out := make([]ReservationResponse, 0, len(ids))
	for _, id := range ids {
		r, err := s.reservations.GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			// deleted since the id list was read
			continue
		}
		if err != nil {
			return nil, err
		}
		if r.IsReservedAtPeriod(from, to) {
			out = append(out, newReservationResponse(r))
		}
	}
	return out, nil
}

// Delete removes a reservation.  A missing id is not an error.
func (s *ReservationService) Delete(ctx context.Context, id uint64) error {
	removed, err := s.reservations.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if removed && s.events != nil {
		ev := queue.ReservationDeletedEvent{
			ReservationID: id,
			DeletedAt:     s.clock.Now().UTC().Format(time.RFC3339),
		}
		if err := s.events.PublishReservationDeleted(ctx, ev); err != nil {
			s.log.WithError(err).WithField("reservation_id", id).Warn("publishing reservation.deleted failed")
		}
	}
	return nil
}

// DeleteOwned removes a reservation on behalf of memberID, who must hold
// it.  Like Delete, a missing id is not an error.
func (s *ReservationService) DeleteOwned(ctx context.Context, memberID, id uint64) error {
	r, err := s.reservations.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if r.Member.ID != memberID {
		return ErrNotOwner
	}
	return s.Delete(ctx, id)
}

func (s *ReservationService) resolveSlot(ctx context.Context, timeID, themeID uint64) (model.Time, model.Theme, error) {
	t, err := s.times.GetByID(ctx, timeID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Time{}, model.Theme{}, ErrTimeNotFound
	}
	if err != nil {
		return model.Time{}, model.Theme{}, err
	}
	theme, err := s.themes.GetByID(ctx, themeID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Time{}, model.Theme{}, ErrThemeNotFound
	}
	if err != nil {
		return model.Time{}, model.Theme{}, err
	}
	return t, theme, nil
}

func (s *ReservationService) findMember(ctx context.Context, id uint64) (model.Member, error) {
	m, err := s.members.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Member{}, ErrMemberNotFound
	}
	return m, err
}

func (s *ReservationService) save(ctx context.Context, member model.Member, date time.Time, t model.Time, theme model.Theme, byAdmin bool) (ReservationResponse, error) {
	id, err := s.reservations.Create(ctx, model.Reservation{
		MemberID: member.ID,
		Date:     date,
		TimeID:   t.ID,
		ThemeID:  theme.ID,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return ReservationResponse{}, ErrDuplicateBooking
	}
	if err != nil {
		return ReservationResponse{}, err
	}

	detail := model.ReservationDetail{
		ID:     id,
		Member: model.MemberSummary{ID: member.ID, Name: member.Name},
		Date:   date,
		Time:   t,
		Theme:  theme,
	}
	s.publishCreated(ctx, detail, byAdmin)
	return newReservationResponse(detail), nil
}

func (s *ReservationService) publishCreated(ctx context.Context, d model.ReservationDetail, byAdmin bool) {
	if s.events == nil {
		return
	}
	ev := queue.ReservationCreatedEvent{
		ReservationID: d.ID,
		MemberID:      d.Member.ID,
		MemberName:    d.Member.Name,
		ThemeID:       d.Theme.ID,
		ThemeName:     d.Theme.Name,
		Date:          model.FormatDate(d.Date),
		StartAt:       d.Time.StartAt,
		ByAdmin:       byAdmin,
		CreatedAt:     s.clock.Now().UTC().Format(time.RFC3339),
	}
	if err := s.events.PublishReservationCreated(ctx, ev); err != nil {
		s.log.WithError(err).WithField("reservation_id", d.ID).Warn("publishing reservation.created failed")
	}
}
