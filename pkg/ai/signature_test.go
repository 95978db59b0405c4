package ai

import (
	"strings"
	"testing"
)

func TestVerifyHMAC(t *testing.T) {
	payload := []byte(`{"phoneNumber":"+15550100"}`)
	good := SignHMAC("s3cret", payload)

	tests := []struct {
		name   string
		secret string
		sig    string
		want   bool
	}{
		{"valid", "s3cret", good, true},
		{"upper case hex", "s3cret", strings.ToUpper(good), true},
		{"wrong secret", "other", good, false},
		{"tampered", "s3cret", SignHMAC("s3cret", []byte("x")), false},
		{"not hex", "s3cret", "zz" + good[2:], false},
		{"empty signature", "s3cret", "", false},
		{"empty secret", "", good, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyHMAC(tt.secret, payload, tt.sig); got != tt.want {
				t.Errorf("VerifyHMAC() = %v, want %v", got, tt.want)
			}
		})
	}
}
