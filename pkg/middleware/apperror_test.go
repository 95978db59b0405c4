package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/voice-receptionist/errors"
)

func TestAppHTTPError(t *testing.T) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return AppHTTPError(errors.ErrInvalidSignature())
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Code != int(errors.ErrorCode_AUTH_INVALID_SIGNATURE) || body.Message != "Invalid webhook signature" {
		t.Fatalf("body = %+v", body)
	}
}
