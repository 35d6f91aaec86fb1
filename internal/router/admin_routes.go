package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-escape-reservation/internal/middleware"
)

// RegisterAdmin registers the /admin endpoints.  All of them require a
// valid JWT with the ADMIN role.  Writes to times and themes purge the
// listing cache.
func RegisterAdmin(e *echo.Echo, h Handlers, opts Options) {
	g := e.Group(
		"/admin",
		middleware.JWTAuth(opts.JWTSecret),
		middleware.RequireAdmin(),
	)

	g.GET("/reservations", h.Reservations.AdminList)
	g.POST("/reservations", h.Reservations.AdminCreate)
	g.GET("/reservations/search", h.Reservations.AdminSearch)
	g.DELETE("/reservations/:id", h.Reservations.AdminDelete)

	purge := optional(opts.Invalidate)
	g.POST("/times", h.Catalog.CreateTime, purge...)
	g.DELETE("/times/:id", h.Catalog.DeleteTime, purge...)
	g.POST("/themes", h.Catalog.CreateTheme, purge...)
	g.DELETE("/themes/:id", h.Catalog.DeleteTheme, purge...)

	g.GET("/members", h.Auth.ListMembers)
}
