package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Redis     RedisConfig
	Storage   StorageConfig
	OpenAI    OpenAIConfig
	Assembly  AssemblyAIConfig
	Sentiment SentimentConfig
	Security  SecurityConfig
	JWT       JWTConfig
	Booking   BookingConfig
	Timeouts  TimeoutConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// CacheConfig selects the backend for the language cache and the summary store
type CacheConfig struct {
	Backend    string // "memory" or "redis"
	MaxEntries int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// StorageConfig holds storage configuration for synthesized audio
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
	PublicURL       string
}

// OpenAIConfig configures detection, translation, sentiment and speech
type OpenAIConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	TTSModel string
	TTSVoice string
}

// AssemblyAIConfig configures the LeMUR based sentiment scorer
type AssemblyAIConfig struct {
	APIKey string
}

// SentimentConfig selects the sentiment scorer: "openai", "assemblyai" or "none"
type SentimentConfig struct {
	Provider    string
	MaxInFlight int
}

// SecurityConfig holds webhook verification settings
type SecurityConfig struct {
	WebhookSecret string
}

// JWTConfig holds JWT configuration for the analytics API
type JWTConfig struct {
	AccessSecret string
	AccessExpiry time.Duration
}

// BookingConfig holds the booking policy. Loaded with envconfig (prefix BOOKING).
type BookingConfig struct {
	ServiceID         string `envconfig:"SERVICE_ID" default:"general-service"`
	ProviderID        string `envconfig:"PROVIDER_ID" default:"default-provider"`
	DurationMinutes   int    `envconfig:"DURATION_MINUTES" default:"30"`
	DefaultLanguage   string `envconfig:"DEFAULT_LANGUAGE" default:"en"`
	CanonicalLanguage string `envconfig:"CANONICAL_LANGUAGE" default:"en"`
	Timezone          string `envconfig:"TIMEZONE" default:"UTC"`
}

// Duration returns the appointment length
func (b BookingConfig) Duration() time.Duration {
	return time.Duration(b.DurationMinutes) * time.Minute
}

// Location returns the configured booking time zone, UTC when unknown
func (b BookingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TimeoutConfig holds independent timeouts per external call. Loaded with envconfig (prefix TIMEOUT).
type TimeoutConfig struct {
	Detection   time.Duration `envconfig:"DETECTION" default:"3s"`
	Translation time.Duration `envconfig:"TRANSLATION" default:"4s"`
	Scheduling  time.Duration `envconfig:"SCHEDULING" default:"8s"`
	Synthesis   time.Duration `envconfig:"SYNTHESIS" default:"8s"`
	Sentiment   time.Duration `envconfig:"SENTIMENT" default:"5s"`
	Lookup      time.Duration `envconfig:"LOOKUP" default:"3s"`
	Analytics   time.Duration `envconfig:"ANALYTICS" default:"10s"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  getEnvAsSlice("ALLOWED_ORIGINS", "http://localhost:3000"),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "voice_receptionist"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Cache: CacheConfig{
			Backend:    getEnv("CACHE_BACKEND", "memory"),
			MaxEntries: getEnvAsInt("CACHE_MAX_ENTRIES", 10000),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("STORAGE_ENDPOINT", ""),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "voice-responses"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
			PublicURL:       getEnv("STORAGE_PUBLIC_URL", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey:   getEnv("OPENAI_API_KEY", ""),
			BaseURL:  getEnv("OPENAI_BASE_URL", ""),
			Model:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			TTSModel: getEnv("OPENAI_TTS_MODEL", "tts-1"),
			TTSVoice: getEnv("OPENAI_TTS_VOICE", "alloy"),
		},
		Assembly: AssemblyAIConfig{
			APIKey: getEnv("ASSEMBLYAI_API_KEY", ""),
		},
		Sentiment: SentimentConfig{
			Provider:    getEnv("SENTIMENT_PROVIDER", "openai"),
			MaxInFlight: getEnvAsInt("SENTIMENT_MAX_IN_FLIGHT", 0),
		},
		Security: SecurityConfig{
			WebhookSecret: getEnv("WEBHOOK_SECRET", ""),
		},
		JWT: JWTConfig{
			AccessSecret: getEnv("JWT_ACCESS_SECRET", "your-access-secret-change-in-production"),
			AccessExpiry: getEnvAsDuration("JWT_ACCESS_EXPIRY", "24h"),
		},
	}

	if err := envconfig.Process("BOOKING", &config.Booking); err != nil {
		return nil, fmt.Errorf("failed to load booking config: %w", err)
	}
	if err := envconfig.Process("TIMEOUT", &config.Timeouts); err != nil {
		return nil, fmt.Errorf("failed to load timeout config: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Booking.DurationMinutes <= 0 {
		return fmt.Errorf("BOOKING_DURATION_MINUTES must be positive")
	}
	if c.Booking.DefaultLanguage == "" {
		return fmt.Errorf("BOOKING_DEFAULT_LANGUAGE is required")
	}
	if c.Booking.CanonicalLanguage == "" {
		return fmt.Errorf("BOOKING_CANONICAL_LANGUAGE is required")
	}
	if _, err := time.LoadLocation(c.Booking.Timezone); err != nil {
		return fmt.Errorf("BOOKING_TIMEZONE is invalid: %w", err)
	}
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("CACHE_BACKEND must be memory or redis, got %q", c.Cache.Backend)
	}
	switch c.Sentiment.Provider {
	case "openai", "assemblyai", "none":
	default:
		return fmt.Errorf("SENTIMENT_PROVIDER must be openai, assemblyai or none, got %q", c.Sentiment.Provider)
	}
	if c.Server.Environment == "production" && c.Security.WebhookSecret == "" {
		return fmt.Errorf("WEBHOOK_SECRET is required in production")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}

func getEnvAsSlice(key string, defaultValue string) []string {
	parts := strings.Split(getEnv(key, defaultValue), ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}
