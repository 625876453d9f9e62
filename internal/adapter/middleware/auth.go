package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// TokenVerifier is satisfied by the session usecase.
type TokenVerifier interface {
	Enabled() bool
	Verify(token string) error
}

// Auth requires a bearer token from the Authorization header, or the token
// query parameter for plain links such as attachment downloads.
func Auth(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !v.Enabled() {
				return next(c)
			}

			var token string
			if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
				parts := strings.SplitN(h, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
					token = strings.TrimSpace(parts[1])
				}
			}
			if token == "" {
				token = c.QueryParam("token")
			}
			if token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authorization is required"})
			}
			if err := v.Verify(token); err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			}
			return next(c)
		}
	}
}
