package voice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"mime"
	"net/url"
	"strconv"
	"strings"

	"github.com/johnquangdev/voice-receptionist/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/voice-receptionist/internal/usecase/errors"
	"github.com/johnquangdev/voice-receptionist/internal/usecase/pipeline"
)

// Accepted source names per logical field, highest precedence first.
// Telephony vendors post the same data under different keys.
var (
	PhoneNumberFields = []string{"phoneNumber", "phone_number", "caller_id", "From", "from"}
	CallIDFields      = []string{"callId", "call_id", "CallSid"}
	DurationFields    = []string{"duration", "CallDuration", "call_duration"}
	SpeechTextFields  = []string{"speechText", "speech_text", "SpeechResult"}
)

const summaryField = "summary"

// TurnRequest is a normalized inbound voice turn
type TurnRequest struct {
	PhoneNumber string `validate:"max=64"`
	CallID      string `validate:"max=255"`
	Duration    int    `validate:"gte=0"`
	SpeechText  string `validate:"max=8000"`
	Summary     *entities.InteractionSummary

	// SummaryDropped is set when a summary was posted but could not be decoded
	SummaryDropped bool
}

// ToTurn converts the request into a pipeline turn
func (r *TurnRequest) ToTurn() pipeline.VoiceTurn {
	return pipeline.VoiceTurn{
		PhoneNumber:     r.PhoneNumber,
		CallID:          r.CallID,
		DurationSeconds: r.Duration,
		SpeechText:      r.SpeechText,
		Summary:         r.Summary,
	}
}

// ParseTurn decodes a JSON or form encoded body
func ParseTurn(contentType string, body []byte) (*TurnRequest, error) {
	mediaType := ""
	if contentType != "" {
		mt, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", usecaseErrors.ErrUnsupportedContentType, contentType)
		}
		mediaType = mt
	}

	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		return parseJSON(body)
	case mediaType == "application/x-www-form-urlencoded":
		return parseForm(body)
	case mediaType == "" || mediaType == "text/plain":
		trimmed := bytes.TrimSpace(body)
		if len(trimmed) == 0 {
			return &TurnRequest{}, nil
		}
		if trimmed[0] == '{' {
			return parseJSON(trimmed)
		}
		return parseForm(trimmed)
	default:
		return nil, fmt.Errorf("%w: %q", usecaseErrors.ErrUnsupportedContentType, mediaType)
	}
}

func parseJSON(body []byte) (*TurnRequest, error) {
	req := &TurnRequest{}
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrInvalidInput, err)
	}
	lookup := func(name string) string { return scalar(fields[name]) }

	req.PhoneNumber = first(lookup, PhoneNumberFields)
	req.CallID = first(lookup, CallIDFields)
	req.Duration = parseDuration(first(lookup, DurationFields))
	req.SpeechText = first(lookup, SpeechTextFields)

	if raw, ok := fields[summaryField]; ok && !isNull(raw) {
		var summary entities.InteractionSummary
		if err := json.Unmarshal(raw, &summary); err != nil {
			req.SummaryDropped = true
		} else {
			req.Summary = &summary
		}
	}
	return req, nil
}

func parseForm(body []byte) (*TurnRequest, error) {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrInvalidInput, err)
	}
	lookup := values.Get
	return &TurnRequest{
		PhoneNumber: first(lookup, PhoneNumberFields),
		CallID:      first(lookup, CallIDFields),
		Duration:    parseDuration(first(lookup, DurationFields)),
		SpeechText:  first(lookup, SpeechTextFields),
	}, nil
}

// first returns the first non-blank value among names
func first(lookup func(string) string, names []string) string {
	for _, name := range names {
		if v := strings.TrimSpace(lookup(name)); v != "" {
			return v
		}
	}
	return ""
}

// scalar renders a JSON string or number as text; anything else is empty
func scalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return string(raw)
	}
	return ""
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// parseDuration reads whole seconds. Unparsable, negative and out of range
// values (beyond MaxInt32 seconds) are 0.
func parseDuration(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n > math.MaxInt32 {
			return 0
		}
		return max(n, 0)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 && f <= math.MaxInt32 {
		return int(f)
	}
	return 0
}
