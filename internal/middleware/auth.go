// Package middleware provides the reusable HTTP middleware: bearer-token
// authentication, the Redis response cache and the Redis rate limiter.
package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticketing-api/internal/auth"
)

// BearerAuth validates the Authorization bearer token against the trust
// configuration and injects the token's subject and name claims into the
// request context as "user_id" and "user_name".
//
// Every validation failure produces the same generic body. Which check
// failed (signature, issuer, expiry, ...) is logged server-side only, so
// the endpoint gives an attacker no oracle to probe.
func BearerAuth(trust auth.TrustConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := auth.Validate(raw, trust, time.Now().UTC())
			if err != nil {
				c.Logger().Debugf("token rejected: %v", err)
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set("user_id", claims.Subject)
			c.Set("user_name", claims.Name)
			return next(c)
		}
	}
}
