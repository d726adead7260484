package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// AdminKeyHeader carries the static admin API key for operational endpoints.
const AdminKeyHeader = "X-Admin-Key"

// RequireAdminKey guards operational endpoints (path regeneration) with a
// static key. Full authentication lives in a separate subsystem.
func RequireAdminKey(apiKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if apiKey == "" {
			return c.Status(http.StatusForbidden).JSON(ErrorResponse{
				Code:    "ADMIN_DISABLED",
				Message: "Admin endpoints are not configured",
				Status:  http.StatusForbidden,
			})
		}
		provided := c.Get(AdminKeyHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "Invalid admin key",
				Status:  http.StatusUnauthorized,
			})
		}
		return c.Next()
	}
}
