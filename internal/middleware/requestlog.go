package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/lithammer/shortuuid/v3"
	"github.com/sirupsen/logrus"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = echo.HeaderXRequestID

// Stack returns the middleware every route runs behind, outermost first.
// Recover sits inside RequestLogger so a panic is still logged as a 500
// with its request id.
func Stack(log logrus.FieldLogger) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		RequestLogger(log),
		echomw.Recover(),
		echomw.BodyLimit("1M"),
	}
}

// RequestLogger tags every request with an id (reusing the client's
// X-Request-ID when sent) and logs one line per request once the handler
// has finished.
func RequestLogger(log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			id := req.Header.Get(HeaderRequestID)
			if id == "" {
				id = shortuuid.New()
			}
			c.Response().Header().Set(HeaderRequestID, id)

			err := next(c)
			if err != nil {
				// Let echo render the error so the logged status is final.
				c.Error(err)
			}

			entry := log.WithFields(logrus.Fields{
				"request_id": id,
				"method":     req.Method,
				"path":       c.Path(),
				"uri":        req.RequestURI,
				"status":     c.Response().Status,
				"latency_ms": time.Since(start).Milliseconds(),
				"remote_ip":  c.RealIP(),
			})
			if id, ok := MemberID(c); ok {
				entry = entry.WithField("member_id", id)
			}
			if err != nil {
				entry = entry.WithError(err)
			}
			switch {
			case c.Response().Status >= 500:
				entry.Error("request failed")
			case c.Response().Status >= 400:
				entry.Warn("request rejected")
			default:
				entry.Info("request handled")
			}
			return nil
		}
	}
}
