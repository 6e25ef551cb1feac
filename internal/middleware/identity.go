package middleware

// identity.go holds the context keys written by JWTAuth and the helpers that
// read them back.  Handlers use SessionFrom; the rate limiter uses userKey.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ecotour-booking/internal/utils"
)

// CtxSession is the context key under which JWTAuth stores the claims.
const CtxSession = "session"

// SessionFrom returns the claims stored by JWTAuth, or nil for anonymous
// requests.
func SessionFrom(c echo.Context) *utils.SessionClaims {
	if s, ok := c.Get(CtxSession).(*utils.SessionClaims); ok {
		return s
	}
	return nil
}

// userKey identifies the caller for rate-limit keys: the session subject
// when present, otherwise "anon".
func userKey(c echo.Context) string {
	if s := SessionFrom(c); s != nil && s.Subject != "" {
		return s.Subject
	}
	return "anon"
}
