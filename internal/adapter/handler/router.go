package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	httpmw "github.com/johnquangdev/voice-receptionist/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/voice-receptionist/pkg/config"
	pkgmw "github.com/johnquangdev/voice-receptionist/pkg/middleware"
)

// Router holds all handlers
type Router struct {
	cfg              *config.Config
	voiceHandler     *Voice
	streamHandler    *Stream
	analyticsHandler *Analytics
	tokens           httpmw.TokenValidator
	metrics          http.Handler
	signature        echo.MiddlewareFunc
}

// NewRouter creates a new router with all handlers. Nil handlers are
// served as 501 Not Implemented.
func NewRouter(cfg *config.Config, voice *Voice, stream *Stream, analytics *Analytics, tokens httpmw.TokenValidator, metrics http.Handler, logger *zap.Logger) *Router {
	return &Router{
		cfg:              cfg,
		voiceHandler:     voice,
		streamHandler:    stream,
		analyticsHandler: analytics,
		tokens:           tokens,
		metrics:          metrics,
		signature:        pkgmw.RequireSignature(cfg.Security.WebhookSecret, logger),
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	if rt.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(rt.metrics))
	}

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupVoiceRoutes(v1)
	rt.setupAnalyticsRoutes(v1)
}

// setupVoiceRoutes configures the telephony and voice agent routes
func (rt *Router) setupVoiceRoutes(g *echo.Group) {
	if rt.voiceHandler != nil {
		g.POST("/voice/turn", rt.voiceHandler.HandleTurn, rt.signature)
	} else {
		g.POST("/voice/turn", rt.notImplemented)
	}

	if rt.streamHandler != nil {
		g.GET("/calls/:callId/events", rt.streamHandler.Events)
	} else {
		g.GET("/calls/:callId/events", rt.notImplemented)
	}
}

// setupAnalyticsRoutes configures the subscriber analytics routes
func (rt *Router) setupAnalyticsRoutes(g *echo.Group) {
	if rt.analyticsHandler != nil && rt.tokens != nil {
		g.GET("/analytics", rt.analyticsHandler.List, httpmw.EchoAuth(rt.tokens))
	} else {
		g.GET("/analytics", rt.notImplemented)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint is not yet implemented",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "Please initialize the required handler in main.go",
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
