package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/room-escape-reservation/internal/handler"    // import the handlers that implement the endpoints
	"github.com/iliyamo/room-escape-reservation/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// Handlers groups every handler the API exposes.
type Handlers struct {
	Auth         *handler.AuthHandler
	Reservations *handler.ReservationHandler
	Catalog      *handler.CatalogHandler
}

// Options carries the cross-cutting middleware.  Nil middlewares are
// skipped.
type Options struct {
	JWTSecret   string
	Cache       echo.MiddlewareFunc // caches public theme and time listings
	Invalidate  echo.MiddlewareFunc // purges those caches after admin writes
	RateLimiter echo.MiddlewareFunc // guards login and reservation creation
}

// Register wires every route group onto e.
func Register(e *echo.Echo, db *sqlx.DB, h Handlers, opts Options) {
	RegisterRoutes(e, db)
	RegisterAuth(e, h.Auth, opts)
	RegisterPublic(e, h.Catalog, h.Reservations, opts)
	RegisterMember(e, h.Reservations, opts)
	RegisterAdmin(e, h, opts)
}

// RegisterRoutes registers the probes used by load balancers and
// orchestration: /healthz for liveness and /readyz for database reachability.
func RegisterRoutes(e *echo.Echo, db *sqlx.DB) {
	e.GET("/healthz", handler.Health)
	if db != nil {
		e.GET("/readyz", handler.Ready(db))
	}
}

// RegisterAuth registers sign-up, login and the token check.  Sign-up and
// login need no session; /login/check requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, opts Options) {
	e.POST("/members", a.Signup)
	e.POST("/login", a.Login, optional(opts.RateLimiter)...)
	e.GET("/login/check", a.Check, middleware.JWTAuth(opts.JWTSecret))
}

// RegisterPublic registers unauthenticated browse endpoints.  The theme and
// time lists change rarely and are served through the response cache;
// availability always reads live reservation state.
func RegisterPublic(e *echo.Echo, cat *handler.CatalogHandler, res *handler.ReservationHandler, opts Options) {
	cached := optional(opts.Cache)
	e.GET("/themes", cat.ListThemes, cached...)
	e.GET("/times", cat.ListTimes, cached...)
	e.GET("/reservations/availability", res.Availability)
}

// optional drops a nil middleware so route registration can pass the
// result straight through.
func optional(m echo.MiddlewareFunc) []echo.MiddlewareFunc {
	if m == nil {
		return nil
	}
	return []echo.MiddlewareFunc{m}
}
