package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-escape-reservation/internal/handler"
	"github.com/iliyamo/room-escape-reservation/internal/middleware"
	"github.com/iliyamo/room-escape-reservation/internal/model"
)

// RegisterMember registers the endpoints a signed-in member uses to book,
// list and cancel their own reservations.  Admins are members too and may
// use them.
func RegisterMember(e *echo.Echo, h *handler.ReservationHandler, opts Options) {
	g := e.Group(
		"/reservations",
		middleware.JWTAuth(opts.JWTSecret),
		middleware.RequireRole(model.RoleUser, model.RoleAdmin),
	)
	g.POST("", h.Create, optional(opts.RateLimiter)...)
	g.GET("/mine", h.Mine)
	g.DELETE("/:id", h.Cancel)
}
