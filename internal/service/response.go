package service

import "github.com/iliyamo/room-escape-reservation/internal/model"

// ReservationResponse is the outward projection of a reservation.
type ReservationResponse struct {
	ID     uint64         `json:"id"`
	Member MemberResponse `json:"member"`
	Date   string         `json:"date"`
	Time   TimeResponse   `json:"time"`
	Theme  ThemeResponse  `json:"theme"`
}

// MemberResponse never carries the password hash.
type MemberResponse struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

type TimeResponse struct {
	ID      uint64 `json:"id"`
	StartAt string `json:"startAt"`
}

type ThemeResponse struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
}

// TimeAvailability pairs a time with whether it is taken for the theme
// and date that were asked about.
type TimeAvailability struct {
	TimeID  uint64 `json:"timeId"`
	StartAt string `json:"startAt"`
	Booked  bool   `json:"booked"`
}

func newReservationResponse(d model.ReservationDetail) ReservationResponse {
	return ReservationResponse{
		ID:     d.ID,
		Member: MemberResponse{ID: d.Member.ID, Name: d.Member.Name},
		Date:   model.FormatDate(d.Date),
		Time:   newTimeResponse(d.Time),
		Theme:  newThemeResponse(d.Theme),
	}
}

func newReservationResponses(ds []model.ReservationDetail) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(ds))
	for _, d := range ds {
		out = append(out, newReservationResponse(d))
	}
	return out
}

func newMemberResponse(m model.Member) MemberResponse {
	return MemberResponse{ID: m.ID, Name: m.Name, Email: m.Email, Role: m.Role}
}

func newTimeResponse(t model.Time) TimeResponse {
	return TimeResponse{ID: t.ID, StartAt: t.StartAt}
}

func newThemeResponse(t model.Theme) ThemeResponse {
	return ThemeResponse{ID: t.ID, Name: t.Name, Description: t.Description, Thumbnail: t.Thumbnail}
}
