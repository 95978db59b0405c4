package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestRequireSignature(t *testing.T) {
	const body = `{"phoneNumber":"+15550102030"}`

	tests := []struct {
		name       string
		secret     string
		signature  string
		wantStatus int
	}{
		{"disabled without secret", "", "", http.StatusOK},
		{"valid", "s3cret", sign("s3cret", body), http.StatusOK},
		{"valid with prefix", "s3cret", "sha256=" + sign("s3cret", body), http.StatusOK},
		{"missing", "s3cret", "", http.StatusUnauthorized},
		{"wrong", "s3cret", sign("other", body), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.POST("/turn", func(c echo.Context) error {
				got, _ := io.ReadAll(c.Request().Body)
				if string(got) != body {
					t.Errorf("body not restored: %q", got)
				}
				return c.NoContent(http.StatusOK)
			}, RequireSignature(tt.secret, nil))

			req := httptest.NewRequest(http.MethodPost, "/turn", strings.NewReader(body))
			if tt.signature != "" {
				req.Header.Set(SignatureHeader, tt.signature)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
