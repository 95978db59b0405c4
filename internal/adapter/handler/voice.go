package handler

import (
	"context"
	stdErrors "errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-receptionist/errors"
	"github.com/johnquangdev/voice-receptionist/internal/adapter/dto/voice"
	"github.com/johnquangdev/voice-receptionist/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/voice-receptionist/internal/usecase/errors"
	"github.com/johnquangdev/voice-receptionist/internal/usecase/pipeline"
	"github.com/johnquangdev/voice-receptionist/pkg/callcontext"
)

const maxTurnBodyBytes = 1 << 20

// TurnHandler runs the voice pipeline for one turn
type TurnHandler interface {
	Handle(ctx context.Context, turn pipeline.VoiceTurn) pipeline.Result
	Reject(ctx context.Context, err error) pipeline.Result
}

// AnalyticsSink accepts records for asynchronous persistence
type AnalyticsSink interface {
	Record(ctx context.Context, rec *entities.AnalyticsRecord)
}

// Voice handles inbound voice turns from the telephony provider
type Voice struct {
	pipeline  TurnHandler
	analytics AnalyticsSink
	logger    *zap.Logger
}

// NewVoice creates a new voice handler. analytics may be nil.
func NewVoice(p TurnHandler, analytics AnalyticsSink, logger *zap.Logger) *Voice {
	return &Voice{pipeline: p, analytics: analytics, logger: logger}
}

// HandleTurn runs one voice turn
// @Summary      Handle a voice turn
// @Description  Resolves the caller language, attempts to book an appointment from the spoken text and returns a synthesized voice response. Accepts JSON or form bodies using vendor-specific field names.
// @Tags         Voice
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        X-Signature  header    string               false  "Hex HMAC-SHA256 of the body, required when a webhook secret is configured"
// @Param        request      body      object{phoneNumber=string,callId=string,duration=int,speechText=string}  true  "Voice turn"
// @Success      200          {object}  voice.TurnResponse   "Booked, customer not found or date not understood"
// @Failure      400          {object}  voice.TurnResponse   "Missing caller identity or undecodable request"
// @Failure      401          {object}  map[string]interface{}  "Invalid signature"
// @Failure      500          {object}  voice.TurnResponse   "Internal or operational failure"
// @Router       /voice/turn [post]
func (h *Voice) HandleTurn(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxTurnBodyBytes+1))
	if err != nil {
		return h.reject(c, errors.ErrInvalidPayload())
	}
	if len(body) > maxTurnBodyBytes {
		return h.reject(c, errors.ErrInvalidArgument(usecaseErrors.ErrBodyTooLarge.Error()))
	}

	req, err := voice.ParseTurn(c.Request().Header.Get(echo.HeaderContentType), body)
	if err != nil {
		if stdErrors.Is(err, usecaseErrors.ErrUnsupportedContentType) {
			return h.reject(c, errors.ErrInvalidArgument(err.Error()))
		}
		return h.reject(c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(req); err != nil {
		return h.reject(c, errors.ErrInvalidArgument(err.Error()))
	}
	if req.SummaryDropped && h.logger != nil {
		h.logger.Warn("⚠️ Dropped undecodable interaction summary", zap.String("call_id", req.CallID))
	}

	ctx := callcontext.Begin(c.Request().Context(), req.CallID, getRequestID(c))
	res := h.pipeline.Handle(ctx, req.ToTurn())
	if res.Err != nil && h.logger != nil {
		fields := []zap.Field{
			zap.String("request_id", getRequestID(c)),
			zap.String("call_id", req.CallID),
			zap.Int("status", res.Status),
			zap.Error(res.Err),
		}
		if res.Status >= http.StatusInternalServerError {
			h.logger.Error("❌ Voice turn failed", fields...)
		} else {
			h.logger.Warn("⚠️ Voice turn rejected", fields...)
		}
	}

	writeErr := c.JSON(res.Status, voice.TurnResponse{VoiceResponse: res.VoiceResponse})

	// recorded after the response is written
	if res.Analytics != nil && h.analytics != nil {
		h.analytics.Record(ctx, res.Analytics)
	}
	return writeErr
}

// reject answers an undecodable turn with the generic voice message
func (h *Voice) reject(c echo.Context, appErr errors.AppError) error {
	res := h.pipeline.Reject(c.Request().Context(), appErr)
	if h.logger != nil {
		h.logger.Warn("⚠️ Voice turn request rejected",
			zap.String("request_id", getRequestID(c)),
			zap.Int("code", int(appErr.Code)),
			zap.String("reason", appErr.Message),
		)
	}
	return c.JSON(res.Status, voice.TurnResponse{VoiceResponse: res.VoiceResponse})
}
