package speech

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

const placeholderPrefixRunes = 32

// Synthesizer turns text into a deliverable audio handle (URL or id)
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang string) (string, error)
}

// Speaker always yields a response handle, falling back to deterministic
// handles when synthesis is unavailable or fails.
type Speaker struct {
	synth   Synthesizer
	timeout time.Duration
	logger  *zap.Logger
}

// NewSpeaker creates a speaker. synth may be nil.
func NewSpeaker(synth Synthesizer, timeout time.Duration, logger *zap.Logger) *Speaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Speaker{synth: synth, timeout: timeout, logger: logger}
}

// Speak returns a handle for text spoken in lang
func (s *Speaker) Speak(ctx context.Context, text, lang string) string {
	if s == nil || s.synth == nil {
		return Placeholder(lang, text)
	}

	sctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	handle, err := s.synth.Synthesize(sctx, text, lang)
	if err != nil || strings.TrimSpace(handle) == "" {
		s.logger.Warn("⚠️ Speech synthesis failed, returning error handle",
			zap.String("language", lang),
			zap.Error(err),
		)
		return ErrorHandle(lang)
	}
	return handle
}

// Placeholder is the handle used when no synthesizer is configured
func Placeholder(lang, text string) string {
	runes := []rune(text)
	if len(runes) > placeholderPrefixRunes {
		runes = runes[:placeholderPrefixRunes]
	}
	return "placeholder:" + lang + ":" + string(runes)
}

// ErrorHandle is the handle used when synthesis failed
func ErrorHandle(lang string) string {
	return "error:" + lang
}
