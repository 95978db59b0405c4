package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "")
	t.Setenv("SENTIMENT_PROVIDER", "")
	t.Setenv("ENVIRONMENT", "development")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Booking.DurationMinutes != 30 {
		t.Errorf("DurationMinutes = %d, want 30", cfg.Booking.DurationMinutes)
	}
	if cfg.Booking.Duration() != 30*time.Minute {
		t.Errorf("Duration() = %v, want 30m", cfg.Booking.Duration())
	}
	if cfg.Booking.DefaultLanguage != "en" {
		t.Errorf("DefaultLanguage = %q, want en", cfg.Booking.DefaultLanguage)
	}
	if cfg.Timeouts.Scheduling != 8*time.Second {
		t.Errorf("Timeouts.Scheduling = %v, want 8s", cfg.Timeouts.Scheduling)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("Cache.Backend = %q, want memory", cfg.Cache.Backend)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BOOKING_DURATION_MINUTES", "45")
	t.Setenv("BOOKING_TIMEZONE", "Europe/Berlin")
	t.Setenv("TIMEOUT_DETECTION", "750ms")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Booking.Duration() != 45*time.Minute {
		t.Errorf("Duration() = %v, want 45m", cfg.Booking.Duration())
	}
	if cfg.Booking.Location().String() != "Europe/Berlin" {
		t.Errorf("Location() = %v, want Europe/Berlin", cfg.Booking.Location())
	}
	if cfg.Timeouts.Detection != 750*time.Millisecond {
		t.Errorf("Timeouts.Detection = %v, want 750ms", cfg.Timeouts.Detection)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:    ServerConfig{Environment: "development"},
			Cache:     CacheConfig{Backend: "memory"},
			Sentiment: SentimentConfig{Provider: "none"},
			Booking: BookingConfig{
				DurationMinutes:   30,
				DefaultLanguage:   "en",
				CanonicalLanguage: "en",
				Timezone:          "UTC",
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "zero duration", mutate: func(c *Config) { c.Booking.DurationMinutes = 0 }, wantErr: true},
		{name: "bad timezone", mutate: func(c *Config) { c.Booking.Timezone = "Mars/Olympus" }, wantErr: true},
		{name: "bad cache backend", mutate: func(c *Config) { c.Cache.Backend = "memcached" }, wantErr: true},
		{name: "bad sentiment provider", mutate: func(c *Config) { c.Sentiment.Provider = "vader" }, wantErr: true},
		{name: "production without webhook secret", mutate: func(c *Config) { c.Server.Environment = "production" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
