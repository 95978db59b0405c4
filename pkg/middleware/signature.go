package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-receptionist/errors"
	"github.com/johnquangdev/voice-receptionist/pkg/ai"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw request body
const SignatureHeader = "X-Signature"

// MaxSignedBodyBytes bounds the body read for verification
const MaxSignedBodyBytes = 1 << 20

// RequireSignature rejects requests whose X-Signature does not match the
// body. An empty secret disables the check. The body is restored for the
// next handler.
func RequireSignature(secret string, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if secret == "" {
			return next
		}
		return func(c echo.Context) error {
			req := c.Request()
			body, err := io.ReadAll(io.LimitReader(req.Body, MaxSignedBodyBytes+1))
			if err != nil {
				return AppHTTPError(errors.ErrInvalidPayload())
			}
			if len(body) > MaxSignedBodyBytes {
				return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Request body too large")
			}
			req.Body = io.NopCloser(bytes.NewReader(body))

			sig := strings.TrimPrefix(strings.TrimSpace(req.Header.Get(SignatureHeader)), "sha256=")
			if !ai.VerifyHMAC(secret, body, sig) {
				if logger != nil {
					logger.Warn("⚠️ Rejected request with invalid signature",
						zap.String("path", c.Path()),
						zap.String("remote_ip", c.RealIP()),
					)
				}
				return AppHTTPError(errors.ErrInvalidSignature())
			}

			return next(c)
		}
	}
}
