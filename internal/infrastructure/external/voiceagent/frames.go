// Package voiceagent adapts the voice agent's event websocket to the
// ordered frame sequence consumed by the session aggregator.
package voiceagent

import (
	"context"
	"errors"
	"iter"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-receptionist/internal/domain/entities"
	"github.com/johnquangdev/voice-receptionist/internal/usecase/session"
)

// MaxMessageBytes bounds a single event message
const MaxMessageBytes = 64 << 10

// Conn is the subset of *websocket.Conn the adapter reads from
type Conn interface {
	Read(ctx context.Context) (websocket.MessageType, []byte, error)
}

// Frames yields every text message of conn in arrival order, then exactly
// one close frame. A close handshake carries the peer's code and reason;
// any other read error ends the stream as an abnormal closure.
func Frames(ctx context.Context, conn Conn, logger *zap.Logger) iter.Seq[session.Frame] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(yield func(session.Frame) bool) {
		for {
			typ, data, err := conn.Read(ctx)
			if err != nil {
				yield(closeFrame(err))
				return
			}
			if typ != websocket.MessageText {
				logger.Debug("Skipping non-text message", zap.Int("bytes", len(data)))
				continue
			}
			if !yield(session.DataFrame(data)) {
				return
			}
		}
	}
}

func closeFrame(err error) session.Frame {
	var ce websocket.CloseError
	if errors.As(err, &ce) {
		return session.CloseFrame(int(ce.Code), ce.Reason)
	}
	return session.CloseFrame(entities.CloseAbnormal, err.Error())
}
