package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// Context keys set by JWTAuth.
const (
	ContextMemberID = "member_id" // uint64
	ContextRole     = "role"      // string, model.RoleUser or model.RoleAdmin
	ContextName     = "name"      // string, member display name
)

// MemberID returns the authenticated member's id, or false on a route
// that JWTAuth did not guard.
func MemberID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(ContextMemberID).(uint64)
	return id, ok
}

// subject identifies the caller for rate-limit keys: the member id when
// authenticated, "anon" otherwise.
func subject(c echo.Context) string {
	if id, ok := MemberID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
