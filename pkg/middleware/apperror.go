package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/voice-receptionist/errors"
)

// AppHTTPError converts an AppError into an echo.HTTPError with the same
// status and the handler error body, so middleware rejections look like
// handler rejections under echo's default error handler.
func AppHTTPError(appErr errors.AppError) *echo.HTTPError {
	body := map[string]interface{}{
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}
	return echo.NewHTTPError(appErr.HTTPCode, body).SetInternal(appErr)
}
