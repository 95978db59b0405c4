package middleware

import (
	stdErrors "errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/voice-receptionist/errors"
	pkgjwt "github.com/johnquangdev/voice-receptionist/pkg/jwt"
	pkgmw "github.com/johnquangdev/voice-receptionist/pkg/middleware"
)

const (
	// SubscriberEmailKey holds the authenticated subscriber email in echo context
	SubscriberEmailKey = "subscriber_email"
	// SubscriberIDKey holds the authenticated subscriber ID in echo context
	SubscriberIDKey = "subscriber_id"
)

// TokenValidator validates bearer tokens
type TokenValidator interface {
	ValidateAccessToken(token string) (*pkgjwt.Claims, error)
}

// EchoAuth returns an Echo middleware that validates JWT and sets
// "subscriber_email" (string) and "subscriber_id" (uuid.UUID) into Echo context
func EchoAuth(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractToken(c.Request())
			if token == "" {
				return pkgmw.AppHTTPError(errors.ErrUnauthenticated())
			}

			claims, err := validator.ValidateAccessToken(token)
			if err != nil {
				if stdErrors.Is(err, pkgjwt.ErrTokenExpired) {
					return pkgmw.AppHTTPError(errors.ErrTokenExpired())
				}
				return pkgmw.AppHTTPError(errors.ErrInvalidToken())
			}

			c.Set(SubscriberEmailKey, claims.Email)
			c.Set(SubscriberIDKey, claims.SubscriberID)

			return next(c)
		}
	}
}

// GetSubscriberEmail returns the authenticated subscriber email
func GetSubscriberEmail(c echo.Context) (string, bool) {
	email, ok := c.Get(SubscriberEmailKey).(string)
	return email, ok && email != ""
}

// GetSubscriberID returns the authenticated subscriber ID
func GetSubscriberID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(SubscriberIDKey).(uuid.UUID)
	return id, ok
}

// ExtractToken reads a bearer token from the Authorization header, falling
// back to the access_token cookie
func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return strings.TrimSpace(parts[1])
		}
	}

	cookie, err := r.Cookie("access_token")
	if err == nil {
		return cookie.Value
	}

	return ""
}
