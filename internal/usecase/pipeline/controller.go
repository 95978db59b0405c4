package pipeline

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/voice-receptionist/errors"
	"github.com/johnquangdev/voice-receptionist/internal/domain/entities"
	"github.com/johnquangdev/voice-receptionist/internal/infrastructure/metrics"
	"github.com/johnquangdev/voice-receptionist/internal/usecase/booking"
	"github.com/johnquangdev/voice-receptionist/internal/usecase/speech"
)

// LanguageResolver picks the language of a turn
type LanguageResolver interface {
	Resolve(ctx context.Context, text, hint string) string
	Default() string
}

// Booker runs the booking state machine and localizes messages
type Booker interface {
	Run(ctx context.Context, req booking.Request) *entities.BookingOutcome
	Localize(ctx context.Context, text, lang string) string
}

// Speaker turns localized text into a response handle
type Speaker interface {
	Speak(ctx context.Context, text, lang string) string
}

// SummaryLoader finds the summary of a previously streamed session
type SummaryLoader interface {
	Load(ctx context.Context, callID string) (*entities.InteractionSummary, bool, error)
}

// VoiceTurn is one inbound request
type VoiceTurn struct {
	PhoneNumber     string
	CallID          string
	DurationSeconds int
	SpeechText      string
	Summary         *entities.InteractionSummary
}

// Result is the single response of one turn plus what analytics needs
type Result struct {
	Status        int
	VoiceResponse string
	Language      string
	Outcome       *entities.BookingOutcome
	// Analytics is nil when there is no customer context to attribute it to
	Analytics *entities.AnalyticsRecord
	Err       error
}

// Controller sequences resolve → book → speak for one turn
type Controller struct {
	resolver  LanguageResolver
	booker    Booker
	speaker   Speaker
	summaries SummaryLoader
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewController creates a controller. summaries may be nil.
func NewController(resolver LanguageResolver, booker Booker, speaker Speaker, summaries SummaryLoader, logger *zap.Logger, m *metrics.Metrics) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		resolver:  resolver,
		booker:    booker,
		speaker:   speaker,
		summaries: summaries,
		logger:    logger,
		metrics:   m,
	}
}

// Handle runs one turn. It always returns exactly one voice response;
// a panic in any stage becomes a 500 with the localized generic message.
func (c *Controller) Handle(ctx context.Context, turn VoiceTurn) (res Result) {
	started := time.Now()
	lang := c.resolver.Default()

	defer func() {
		if p := recover(); p != nil {
			res = c.recovered(ctx, turn, lang, p)
		}
		c.metrics.RecordPipeline(res.Status, time.Since(started))
	}()

	// 1. summary: inline, else stored by call ID
	summary := turn.Summary
	if summary == nil && c.summaries != nil && turn.CallID != "" {
		stored, ok, err := c.summaries.Load(ctx, turn.CallID)
		if err != nil {
			c.logger.Warn("⚠️ Failed to load interaction summary", zap.String("call_id", turn.CallID), zap.Error(err))
		}
		if ok {
			summary = stored
		}
	}

	// 2. language
	text := turn.SpeechText
	hint := ""
	if summary != nil {
		if text == "" {
			text = summary.LastCallerLine
		}
		hint = summary.DetectedLanguage
	}
	lang = c.resolver.Resolve(ctx, text, hint)

	// 3. caller identity
	phone := entities.NormalizePhone(turn.PhoneNumber)
	if phone == "" {
		msg := c.booker.Localize(ctx, booking.MessageMissingCaller, lang)
		c.logger.Warn("⚠️ Voice turn without caller identity", zap.String("call_id", turn.CallID))
		return Result{
			Status:        http.StatusBadRequest,
			VoiceResponse: c.speaker.Speak(ctx, msg, lang),
			Language:      lang,
			Err:           apperrors.ErrMissingCallerIdentity(),
		}
	}

	// 4. booking
	outcome := c.booker.Run(ctx, booking.Request{
		PhoneNumber: phone,
		SpeechText:  text,
		Language:    lang,
		CallID:      turn.CallID,
	})

	// 5. status
	status := http.StatusOK
	if outcome.State == entities.BookingFailed {
		status = http.StatusInternalServerError
	}

	// 6. voice response, after the scheduling result is known
	voice := c.speaker.Speak(ctx, outcome.Message, lang)

	// 7. analytics, only with a customer to attribute it to
	var rec *entities.AnalyticsRecord
	if outcome.Customer != nil {
		rec = entities.NewAnalyticsRecord(outcome.Customer.Email, turn.CallID, turn.DurationSeconds, summary, lang, outcome)
	}

	c.logger.Info("📞 Voice turn handled",
		zap.String("call_id", turn.CallID),
		zap.String("state", string(outcome.State)),
		zap.String("language", lang),
		zap.Int("status", status),
	)

	return Result{
		Status:        status,
		VoiceResponse: voice,
		Language:      lang,
		Outcome:       outcome,
		Analytics:     rec,
		Err:           outcome.Err,
	}
}

// Reject answers a turn whose request could not be decoded. The caller still
// hears the generic message, in the default language.
func (c *Controller) Reject(ctx context.Context, err error) Result {
	lang := c.resolver.Default()
	res := Result{
		Status:        http.StatusBadRequest,
		VoiceResponse: c.speaker.Speak(ctx, c.booker.Localize(ctx, booking.MessageGenericError, lang), lang),
		Language:      lang,
		Err:           err,
	}
	c.metrics.RecordPipeline(res.Status, 0)
	return res
}

func (c *Controller) recovered(ctx context.Context, turn VoiceTurn, lang string, p any) Result {
	appErr := apperrors.ErrPipelinePanic(p)
	c.logger.Error("❌ Voice pipeline panicked",
		zap.String("call_id", turn.CallID),
		zap.Any("panic", p),
	)

	voice := speech.ErrorHandle(lang)
	func() {
		defer func() {
			if p := recover(); p != nil {
				c.logger.Error("❌ Panic while building fallback response", zap.Any("panic", p))
			}
		}()
		voice = c.speaker.Speak(ctx, c.booker.Localize(ctx, booking.MessageGenericError, lang), lang)
	}()

	return Result{
		Status:        http.StatusInternalServerError,
		VoiceResponse: voice,
		Language:      lang,
		Err:           appErr,
	}
}
