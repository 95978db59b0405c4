package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/johnquangdev/voice-receptionist/internal/domain/entities"
)

// Frame is one raw element of a transport stream: either a payload or the
// closure that ends the stream.
type Frame struct {
	Payload []byte
	Closed  bool
	Code    int
	Reason  string
}

// DataFrame wraps a payload received from the transport
func DataFrame(payload []byte) Frame {
	return Frame{Payload: payload}
}

// CloseFrame marks the end of a stream
func CloseFrame(code int, reason string) Frame {
	return Frame{Closed: true, Code: code, Reason: reason}
}

// errIgnoredFrame marks frames that are well formed but carry nothing the
// reducer folds (partial transcripts, unknown message types).
var errIgnoredFrame = errors.New("ignored frame")

// wireMessage is the JSON shape emitted by the voice agent
type wireMessage struct {
	Type     string `json:"type"`
	Role     string `json:"role"`
	Text     string `json:"text"`
	Final    *bool  `json:"final"`
	Language string `json:"language"`
}

// DecodeFrame turns a raw frame into an interaction event.
// Corrupt payloads return an error wrapping entities.ErrMalformedEvent.
func DecodeFrame(f Frame) (entities.InteractionEvent, error) {
	if f.Closed {
		return entities.ConnectionClosed(f.Code, f.Reason), nil
	}

	var msg wireMessage
	if err := json.Unmarshal(f.Payload, &msg); err != nil {
		return entities.InteractionEvent{}, fmt.Errorf("%w: %v", entities.ErrMalformedEvent, err)
	}

	var ev entities.InteractionEvent
	switch msg.Type {
	case "transcript":
		if msg.Final != nil && !*msg.Final {
			return entities.InteractionEvent{}, errIgnoredFrame
		}
		switch strings.ToLower(msg.Role) {
		case "user", "caller":
			ev = entities.CallerUtterance(strings.TrimSpace(msg.Text))
		case "agent", "assistant":
			ev = entities.AgentUtterance(strings.TrimSpace(msg.Text))
		default:
			return entities.InteractionEvent{}, fmt.Errorf("%w: unknown role %q", entities.ErrMalformedEvent, msg.Role)
		}
	case "language":
		ev = entities.LanguageHint(strings.TrimSpace(msg.Language))
	case "":
		return entities.InteractionEvent{}, fmt.Errorf("%w: missing type", entities.ErrMalformedEvent)
	default:
		return entities.InteractionEvent{}, errIgnoredFrame
	}

	if err := ev.Validate(); err != nil {
		return entities.InteractionEvent{}, fmt.Errorf("%w: missing fields for %s", err, msg.Type)
	}
	return ev, nil
}
