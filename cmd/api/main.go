package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "github.com/johnquangdev/voice-receptionist/docs"
	pkgvalidator "github.com/johnquangdev/voice-receptionist/pkg/validator"

	"github.com/johnquangdev/voice-receptionist/internal/adapter/handler"
	"github.com/johnquangdev/voice-receptionist/internal/adapter/repository"
	"github.com/johnquangdev/voice-receptionist/internal/infrastructure/cache"
	"github.com/johnquangdev/voice-receptionist/internal/infrastructure/database"
	"github.com/johnquangdev/voice-receptionist/internal/infrastructure/metrics"
	"github.com/johnquangdev/voice-receptionist/internal/infrastructure/storage"
	"github.com/johnquangdev/voice-receptionist/internal/usecase/analytics"
	"github.com/johnquangdev/voice-receptionist/internal/usecase/booking"
	"github.com/johnquangdev/voice-receptionist/internal/usecase/language"
	"github.com/johnquangdev/voice-receptionist/internal/usecase/pipeline"
	"github.com/johnquangdev/voice-receptionist/internal/usecase/session"
	"github.com/johnquangdev/voice-receptionist/internal/usecase/speech"
	"github.com/johnquangdev/voice-receptionist/internal/usecase/temporal"
	pkgai "github.com/johnquangdev/voice-receptionist/pkg/ai"
	"github.com/johnquangdev/voice-receptionist/pkg/config"
	"github.com/johnquangdev/voice-receptionist/pkg/jwt"
)

// @title           Voice Receptionist API
// @version         1.0
// @description     Multilingual voice receptionist: books appointments from caller speech, aggregates call interaction streams and serves call analytics.

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.RequestID())

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${id} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Signature"},
		AllowCredentials: true,
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), time.Minute)
	defer cancelStartup()

	m := metrics.New("receptionist")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(startupCtx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Apply migrations only when explicitly enabled in config.
	// Production deployments run scripts/migrate.go in CI/CD.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("DB_AUTO_MIGRATE is enabled in production. Disable it and manage schema with sql-migrate.")
		}
		if _, err := database.Migrate(db, database.MigrationsDir, logger); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; use scripts/migrate.go in CI/CD/production")
	}

	// Initialize cache backend for the language cache and summary store
	var store cache.Store
	switch cfg.Cache.Backend {
	case "redis":
		log.Println("📦 Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		store = cache.NewRedisStore(redisClient, "receptionist:")
	default:
		log.Printf("🧠 Using in-memory cache (max %d entries)", cfg.Cache.MaxEntries)
		memStore := cache.NewMemoryStore(
			cache.WithMaxEntries(cfg.Cache.MaxEntries),
			cache.WithCleanupInterval(time.Minute),
		)
		defer memStore.Close()
		store = memStore
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	customerRepo := repository.NewCustomerRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// Initialize audio storage for synthesized responses
	var audio pkgai.AudioStore
	if cfg.Storage.Endpoint != "" {
		log.Println("🗄️  Connecting to object storage...")
		minioClient, err := storage.NewMinIOClient(startupCtx, &cfg.Storage)
		if err != nil {
			log.Printf("⚠️  Object storage unavailable, voice responses fall back to placeholders: %v", err)
		} else {
			audio = minioClient
		}
	} else {
		log.Println("⚠️  STORAGE_ENDPOINT not set, voice responses fall back to placeholders")
	}

	// Initialize AI providers
	log.Println("🤖 Initializing AI providers...")
	var (
		detector   language.Detector
		translator language.Translator
		synth      speech.Synthesizer
		scorer     session.SentimentScorer
	)
	if cfg.OpenAI.APIKey != "" {
		openaiClient := pkgai.NewOpenAIClient(&cfg.OpenAI, audio, logger)
		detector = openaiClient
		translator = openaiClient
		if audio != nil {
			synth = openaiClient
		}
		if cfg.Sentiment.Provider == "openai" {
			scorer = openaiClient
		}
	} else {
		log.Println("⚠️  OPENAI_API_KEY not set, using default language without translation")
	}
	if cfg.Sentiment.Provider == "assemblyai" {
		if cfg.Assembly.APIKey == "" {
			log.Println("⚠️  ASSEMBLYAI_API_KEY not set, sentiment scoring disabled")
		} else {
			scorer = pkgai.NewAssemblyAIClient(&cfg.Assembly)
		}
	}

	// Initialize voice pipeline
	log.Println("📞 Initializing voice pipeline...")
	resolver := language.NewResolver(detector, store, language.ResolverConfig{
		DefaultLanguage: cfg.Booking.DefaultLanguage,
		Timeout:         cfg.Timeouts.Detection,
		TTL:             language.CacheTTL,
	}, logger, m)
	translate := language.NewAdapter(translator, cfg.Timeouts.Translation, logger)
	orchestrator := booking.NewOrchestrator(
		customerRepo,
		appointmentRepo,
		temporal.NewExtractor(logger),
		translate,
		booking.Policy{
			ServiceID:         cfg.Booking.ServiceID,
			ProviderID:        cfg.Booking.ProviderID,
			Duration:          cfg.Booking.Duration(),
			CanonicalLanguage: cfg.Booking.CanonicalLanguage,
			Location:          cfg.Booking.Location(),
			LookupTimeout:     cfg.Timeouts.Lookup,
			SchedulingTimeout: cfg.Timeouts.Scheduling,
		},
		logger,
		m,
	)
	speaker := speech.NewSpeaker(synth, cfg.Timeouts.Synthesis, logger)
	summaries := session.NewSummaryStore(store, session.SummaryTTL)
	controller := pipeline.NewController(resolver, orchestrator, speaker, summaries, logger, m)

	sessions := session.NewService(scorer, session.Config{
		ScoreTimeout: cfg.Timeouts.Sentiment,
		MaxInFlight:  cfg.Sentiment.MaxInFlight,
	}, summaries, logger, m)

	recorder := analytics.NewRecorder(analyticsRepo, analytics.Config{
		Timeout: cfg.Timeouts.Analytics,
	}, logger, m)

	// Initialize JWT manager
	log.Println("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry)

	if cfg.Security.WebhookSecret == "" {
		log.Println("⚠️  WEBHOOK_SECRET not set, voice turn signatures are not verified")
	}

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(
		cfg,
		handler.NewVoice(controller, recorder, logger),
		handler.NewStream(sessions, originPatterns(cfg.Server.AllowedOrigins), logger),
		handler.NewAnalytics(analyticsRepo, logger),
		jwtManager,
		m.Handler(),
		logger,
	)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("⏳ Flushing analytics writes...")
	if err := recorder.Close(ctx); err != nil {
		log.Printf("⚠️  Analytics writes still pending at shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

// originPatterns turns allowed origins into websocket host patterns
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		if o == "*" {
			patterns = append(patterns, "*")
			continue
		}
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			continue
		}
		patterns = append(patterns, u.Host)
	}
	return patterns
}
