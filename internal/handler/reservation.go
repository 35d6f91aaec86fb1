package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-escape-reservation/internal/service"
)

// ReservationHandler serves both the member and the admin reservation
// endpoints.
type ReservationHandler struct {
	Reservations *service.ReservationService
}

func NewReservationHandler(reservations *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{Reservations: reservations}
}

type createReservationReq struct {
	Date    string `json:"date"`
	TimeID  uint64 `json:"timeId"`
	ThemeID uint64 `json:"themeId"`
}

type adminReservationReq struct {
	Date     string `json:"date"`
	TimeID   uint64 `json:"timeId"`
	ThemeID  uint64 `json:"themeId"`
	MemberID uint64 `json:"memberId"`
}

// Create handles POST /reservations for the authenticated member.
func (h *ReservationHandler) Create(c echo.Context) error {
	memberID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	date, ok := parseDate(req.Date)
	if !ok {
		return badRequest(c, "date must be YYYY-MM-DD")
	}
	if req.TimeID == 0 || req.ThemeID == 0 {
		return badRequest(c, "timeId and themeId are required")
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	res, err := h.Reservations.Create(ctx, memberID, date, req.TimeID, req.ThemeID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// Mine handles GET /reservations/mine.
func (h *ReservationHandler) Mine(c echo.Context) error {
	memberID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.Reservations.ListMine(ctx, memberID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": list})
}

// Cancel handles DELETE /reservations/:id.  Members may only cancel their
// own reservations; an unknown id still answers 204.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	memberID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseID(c.Param("id"))
	if !ok {
		return badRequest(c, "invalid reservation id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Reservations.DeleteOwned(ctx, memberID, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Availability handles GET /reservations/availability?themeId=&date=.
func (h *ReservationHandler) Availability(c echo.Context) error {
	themeID, ok := parseID(c.QueryParam("themeId"))
	if !ok {
		return badRequest(c, "themeId is required")
	}
	date, ok := parseDate(c.QueryParam("date"))
	if !ok {
		return badRequest(c, "date must be YYYY-MM-DD")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.Reservations.ListTimeAvailability(ctx, themeID, date)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": list})
}

// AdminList handles GET /admin/reservations.
func (h *ReservationHandler) AdminList(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.Reservations.List(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": list})
}

// AdminCreate handles POST /admin/reservations.  The date may lie in the
// past.
func (h *ReservationHandler) AdminCreate(c echo.Context) error {
	var req adminReservationReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	date, ok := parseDate(req.Date)
	if !ok {
		return badRequest(c, "date must be YYYY-MM-DD")
	}
	if req.TimeID == 0 || req.ThemeID == 0 || req.MemberID == 0 {
		return badRequest(c, "timeId, themeId and memberId are required")
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	res, err := h.Reservations.CreateAsAdmin(ctx, date, req.TimeID, req.ThemeID, req.MemberID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// AdminSearch handles GET /admin/reservations/search?memberId=&dateFrom=&dateTo=.
func (h *ReservationHandler) AdminSearch(c echo.Context) error {
	memberID, ok := parseID(c.QueryParam("memberId"))
	if !ok {
		return badRequest(c, "memberId is required")
	}
	from, ok := parseDate(c.QueryParam("dateFrom"))
	if !ok {
		return badRequest(c, "dateFrom must be YYYY-MM-DD")
	}
	to, ok := parseDate(c.QueryParam("dateTo"))
	if !ok {
		return badRequest(c, "dateTo must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return badRequest(c, "dateTo is before dateFrom")
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	list, err := h.Reservations.Search(ctx, memberID, from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": list})
}

// AdminDelete handles DELETE /admin/reservations/:id.
func (h *ReservationHandler) AdminDelete(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return badRequest(c, "invalid reservation id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Reservations.Delete(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
