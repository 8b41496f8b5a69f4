package middleware

// identity.go holds helpers shared across middleware files: extracting the
// authenticated user id from the context for rate-limit key building.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user id as a string, or "anon"
// when the request carries no identity (e.g. pre-auth endpoints).
func currentUserID(c echo.Context) string {
	if v, ok := c.Get("user_id").(uint64); ok && v != 0 {
		return strconv.FormatUint(v, 10)
	}
	return "anon"
}
