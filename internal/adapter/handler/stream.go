package handler

import (
	"context"
	"iter"
	"strings"

	"github.com/coder/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-receptionist/errors"
	"github.com/johnquangdev/voice-receptionist/internal/domain/entities"
	"github.com/johnquangdev/voice-receptionist/internal/infrastructure/external/voiceagent"
	usecaseErrors "github.com/johnquangdev/voice-receptionist/internal/usecase/errors"
	"github.com/johnquangdev/voice-receptionist/internal/usecase/session"
)

// SessionConsumer folds one connection's frames into a stored summary
type SessionConsumer interface {
	Consume(ctx context.Context, callID string, frames iter.Seq[session.Frame]) (entities.InteractionSummary, error)
}

// Stream receives interaction events from the voice agent over a websocket
type Stream struct {
	sessions       SessionConsumer
	originPatterns []string
	logger         *zap.Logger
}

// NewStream creates a new stream handler. originPatterns restricts browser
// origins; agents that send no Origin header are always accepted.
func NewStream(sessions SessionConsumer, originPatterns []string, logger *zap.Logger) *Stream {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Stream{sessions: sessions, originPatterns: originPatterns, logger: logger}
}

// Events consumes the interaction event stream of one call
// @Summary      Stream interaction events
// @Description  Websocket endpoint receiving transcript and language events for a call. The connection close ends the session; the aggregated summary is stored for one hour under the call ID.
// @Tags         Voice
// @Param        callId  path  string  true  "Call ID"
// @Success      101     "Switching protocols"
// @Failure      400     {object}  map[string]interface{}  "Missing call ID or not a websocket request"
// @Router       /calls/{callId}/events [get]
func (h *Stream) Events(c echo.Context) error {
	callID := strings.TrimSpace(c.Param("callId"))
	if callID == "" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(usecaseErrors.ErrMissingCallID.Error()))
	}

	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		// Accept has already written the handshake error
		h.logger.Warn("⚠️ Websocket upgrade failed", zap.String("call_id", callID), zap.Error(err))
		return nil
	}
	defer conn.CloseNow()
	conn.SetReadLimit(voiceagent.MaxMessageBytes)

	ctx := c.Request().Context()
	frames := voiceagent.Frames(ctx, conn, h.logger)
	if _, err := h.sessions.Consume(ctx, callID, frames); err != nil {
		appErr := errors.ErrSessionStreamFailed(callID, err)
		h.logger.Error("❌ Interaction stream failed", zap.Error(appErr))
		conn.Close(websocket.StatusInternalError, "session failed")
		return nil
	}

	conn.Close(websocket.StatusNormalClosure, "summary stored")
	return nil
}
