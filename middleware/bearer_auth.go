package middleware

import (
	"net/http"
	"strings"

	"wallet-bridge/internal/domain"

	"github.com/labstack/echo/v4"
)

const subjectContextKey = "auth.subject"

// SubjectFrom returns the authenticated subject stashed by BearerAuth.
func SubjectFrom(c echo.Context) (string, bool) {
	subject, ok := c.Get(subjectContextKey).(string)
	return subject, ok && subject != ""
}

// BearerAuth verifies the application session token from the Authorization
// header and stashes its subject in the request context. Requests without
// a valid token are rejected with 401.
func BearerAuth(verifier domain.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			subject, err := verifier.VerifySessionToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			c.Set(subjectContextKey, subject)
			return next(c)
		}
	}
}

// OptionalBearerAuth verifies the token when one is supplied but lets
// anonymous requests through. Handlers that need a subject still enforce
// its presence themselves.
func OptionalBearerAuth(verifier domain.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token, ok := bearerToken(c); ok {
				if subject, err := verifier.VerifySessionToken(token); err == nil {
					c.Set(subjectContextKey, subject)
				}
			}
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}
