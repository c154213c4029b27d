package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tablekeeper/floorplan/internal/utils"
)

// RequireServiceKey guards internal callback endpoints (the billing-settled
// signal from the payment system) with a static service key instead of a
// staff JWT.  The caller sends the plaintext key in X-Service-Key; only its
// bcrypt hash is configured on this side.
func RequireServiceKey(keyHash string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Request().Header.Get("X-Service-Key")
			if key == "" || !utils.VerifyServiceKey(keyHash, key) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid service key"})
			}
			return next(c)
		}
	}
}
