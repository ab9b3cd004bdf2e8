package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// userIDKey is the echo context key the middleware stores the authenticated
// user ID under.
const userIDKey = "user_id"

// Middleware returns an echo middleware that requires a valid Bearer access
// token and stores the token's user ID in the request context.
func (ts *TokenService) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get("Authorization"))
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed authorization header")
			}

			claims, err := ts.ValidateAccessToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(userIDKey, claims.UserID)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// GetUserID returns the authenticated user ID set by Middleware. Calling it
// on an unauthenticated route is a programming error and panics.
func GetUserID(c echo.Context) int64 {
	return c.Get(userIDKey).(int64)
}
