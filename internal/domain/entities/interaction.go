package entities

// EventKind discriminates the variants of an InteractionEvent
type EventKind string

const (
	EventCallerUtterance  EventKind = "caller_utterance"
	EventAgentUtterance   EventKind = "agent_utterance"
	EventLanguageHint     EventKind = "language_hint"
	EventConnectionClosed EventKind = "connection_closed"
)

// Close codes reported on ConnectionClosed events (websocket numbering)
const (
	CloseNormal   = 1000
	CloseAbnormal = 1006
)

// InteractionEvent is one discrete signal from a live voice session.
// Only the fields relevant to Kind are set.
type InteractionEvent struct {
	Kind      EventKind `json:"kind"`
	Text      string    `json:"text,omitempty"`
	Language  string    `json:"language,omitempty"`
	CloseCode int       `json:"closeCode,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// CallerUtterance creates a caller speech event
func CallerUtterance(text string) InteractionEvent {
	return InteractionEvent{Kind: EventCallerUtterance, Text: text}
}

// AgentUtterance creates an agent reply event
func AgentUtterance(text string) InteractionEvent {
	return InteractionEvent{Kind: EventAgentUtterance, Text: text}
}

// LanguageHint creates a detected-language event
func LanguageHint(code string) InteractionEvent {
	return InteractionEvent{Kind: EventLanguageHint, Language: code}
}

// ConnectionClosed creates the terminal event of a session
func ConnectionClosed(code int, reason string) InteractionEvent {
	return InteractionEvent{Kind: EventConnectionClosed, CloseCode: code, Reason: reason}
}

// IsTerminal reports whether the event ends the session
func (e InteractionEvent) IsTerminal() bool {
	return e.Kind == EventConnectionClosed
}

// Validate checks that the fields required by the event kind are present
func (e InteractionEvent) Validate() error {
	switch e.Kind {
	case EventCallerUtterance, EventAgentUtterance:
		if e.Text == "" {
			return ErrMalformedEvent
		}
	case EventLanguageHint:
		if e.Language == "" {
			return ErrMalformedEvent
		}
	case EventConnectionClosed:
	default:
		return ErrMalformedEvent
	}
	return nil
}

// Transcript line labels
const (
	CallerLabel       = "Caller"
	ReceptionistLabel = "Receptionist"
)

// InteractionSummary is the reduced record of one voice session.
// It is immutable once the session has closed.
type InteractionSummary struct {
	CallID           string    `json:"callId,omitempty"`
	Transcript       []string  `json:"transcript"`
	DetectedLanguage string    `json:"detectedLanguage,omitempty"`
	Sentiment        Sentiment `json:"sentiment"`
	LastAgentLine    string    `json:"lastAgentLine,omitempty"`
	LastCallerLine   string    `json:"lastCallerLine,omitempty"`
	CloseCode        int       `json:"closeCode,omitempty"`
	CloseReason      string    `json:"closeReason,omitempty"`
}

// TranscriptOrEmpty never returns nil so the JSON column is always an array
func (s *InteractionSummary) TranscriptOrEmpty() []string {
	if s == nil || s.Transcript == nil {
		return []string{}
	}
	return s.Transcript
}
