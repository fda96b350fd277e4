package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"biblioteca-backend/internal/domain/access"
	infraauth "biblioteca-backend/internal/infrastructure/auth"
)

const actorContextKey = "auth.actor"

// Authenticate validates the Bearer token and stores the resulting Actor in
// the echo context for this request only.
func Authenticate(tokens *infraauth.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing Authorization header"})
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")
			if tokenString == header {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authorization must be a Bearer token"})
			}

			actor, err := tokens.Verify(tokenString)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			}
			c.Set(actorContextKey, actor)
			return next(c)
		}
	}
}

// ActorFrom retrieves the authenticated actor placed by Authenticate.
func ActorFrom(c echo.Context) (access.Actor, bool) {
	actor, ok := c.Get(actorContextKey).(access.Actor)
	return actor, ok
}

// SetActor is a test hook for handler tests that bypass Authenticate.
func SetActor(c echo.Context, actor access.Actor) {
	c.Set(actorContextKey, actor)
}

// Require guards a route with one capability from the central matrix.
func Require(action access.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := ActorFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
			}
			if !access.Authorize(actor, action) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "insufficient permissions"})
			}
			return next(c)
		}
	}
}
