// Package handler exposes the HTTP endpoints.  Handlers bind and validate
// request input, call a service and translate service errors to status
// codes; they hold no business rules of their own.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/room-escape-reservation/internal/middleware"
	"github.com/iliyamo/room-escape-reservation/internal/model"
	"github.com/iliyamo/room-escape-reservation/internal/service"
)

// requestTimeout bounds the database work of a single request.
const requestTimeout = 5 * time.Second

var errNoMember = errors.New("invalid member_id in context")

// getUserID returns the member id placed in the context by JWTAuth.
func getUserID(c echo.Context) (uint64, error) {
	id, ok := middleware.MemberID(c)
	if !ok {
		return 0, errNoMember
	}
	return id, nil
}

// requestContext derives a context for service calls from the request.
func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// parseID reads a positive numeric path or query value.
func parseID(raw string) (uint64, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	return id, err == nil && id > 0
}

// parseDate reads a YYYY-MM-DD value, rejecting anything longer.
func parseDate(raw string) (time.Time, bool) {
	if len(raw) != len(model.DateLayout) {
		return time.Time{}, false
	}
	d, err := model.ParseDate(raw)
	return d, err == nil
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// writeError maps a service error to its status code.  Errors outside the
// service taxonomy are logged and hidden behind a 500.
func writeError(c echo.Context, err error) error {
	var status int
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "request timed out"})
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"path":       c.Path(),
			"request_id": c.Response().Header().Get(middleware.HeaderRequestID),
		}).Error("unexpected error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}
