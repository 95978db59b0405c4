package language

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Translator converts text between languages
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// Adapter wraps a Translator with the best-effort contract: the result is
// either the translation or the original text, never an error.
type Adapter struct {
	translator Translator
	timeout    time.Duration
	logger     *zap.Logger
}

// NewAdapter creates a translation adapter. translator may be nil.
func NewAdapter(translator Translator, timeout time.Duration, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	return &Adapter{translator: translator, timeout: timeout, logger: logger}
}

// Translate returns text in language to, or text unchanged when no
// translation is needed or possible.
func (a *Adapter) Translate(ctx context.Context, text, from, to string) string {
	if a == nil || a.translator == nil || strings.TrimSpace(text) == "" || Same(from, to) {
		return text
	}

	tctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	out, err := a.translator.Translate(tctx, text, from, to)
	if err != nil {
		a.logger.Warn("⚠️ Translation failed, keeping original text",
			zap.String("from", from),
			zap.String("to", to),
			zap.Error(err),
		)
		return text
	}
	if strings.TrimSpace(out) == "" {
		return text
	}
	return out
}

// Same reports whether two language codes share a primary subtag,
// so "en" and "en-US" are treated as the same language.
func Same(a, b string) bool {
	return Base(a) == Base(b)
}

// Base returns the lower-cased primary subtag of a language code
func Base(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i >= 0 {
		code = code[:i]
	}
	return code
}
