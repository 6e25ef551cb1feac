package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ecotour-booking/internal/utils"
)

// bearerToken extracts the raw token from "Authorization: Bearer <jwt>".
func bearerToken(c echo.Context) (string, bool) {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	return raw, raw != ""
}

func storeSession(c echo.Context, claims *utils.SessionClaims) {
	c.Set(CtxSession, claims)
}

// JWTAuth validates a Bearer access token and stores the session claims in
// the context.  A missing or invalid token ends the request with 401.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
			}
			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			storeSession(c, claims)
			return next(c)
		}
	}
}

// OptionalJWT stores the session when a valid token is present and lets
// anonymous or badly-authenticated requests through untouched.  Analytics
// tracking uses it to attribute events to a user when possible.
func OptionalJWT(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw, ok := bearerToken(c); ok {
				if claims, err := utils.ParseAccessToken(secret, raw); err == nil {
					storeSession(c, claims)
				}
			}
			return next(c)
		}
	}
}
