package service

import (
	"context"
	"strings"

	"github.com/iliyamo/room-escape-reservation/internal/model"
)

// ThemeService manages the bookable themes.
type ThemeService struct {
	themes       ThemeStore
	reservations ReservationStore
}

func NewThemeService(themes ThemeStore, reservations ReservationStore) *ThemeService {
	return &ThemeService{themes: themes, reservations: reservations}
}

// Create adds a theme.  Only the name is required.
func (s *ThemeService) Create(ctx context.Context, name, description, thumbnail string) (ThemeResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ThemeResponse{}, ErrInvalidTheme
	}
	t := model.Theme{
		Name:        name,
		Description: strings.TrimSpace(description),
		Thumbnail:   strings.TrimSpace(thumbnail),
	}
	if err := s.themes.Create(ctx, &t); err != nil {
		return ThemeResponse{}, err
	}
	return newThemeResponse(t), nil
}

func (s *ThemeService) List(ctx context.Context) ([]ThemeResponse, error) {
	themes, err := s.themes.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ThemeResponse, 0, len(themes))
	for _, t := range themes {
		out = append(out, newThemeResponse(t))
	}
	return out, nil
}

// Delete removes a theme that has no reservations.  A missing id is not an
// error.
func (s *ThemeService) Delete(ctx context.Context, id uint64) error {
	n, err := s.reservations.CountByThemeID(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrThemeInUse
	}
	return s.themes.DeleteByID(ctx, id)
}
