package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/voice-receptionist/errors"
	"github.com/johnquangdev/voice-receptionist/internal/domain/entities"
	"github.com/johnquangdev/voice-receptionist/internal/infrastructure/metrics"
)

// CustomerDirectory looks customers up by phone number
type CustomerDirectory interface {
	FindByPhone(ctx context.Context, phone string) (*entities.Customer, error)
}

// Scheduler creates appointments. It is called at most once per run.
type Scheduler interface {
	CreateAppointment(ctx context.Context, req entities.AppointmentRequest) (string, error)
}

// TimeExtractor finds a start instant in canonical-language text
type TimeExtractor interface {
	Extract(text string, ref time.Time) (time.Time, bool)
}

// Translator is the best-effort translation contract
type Translator interface {
	Translate(ctx context.Context, text, from, to string) string
}

// Policy holds the booking settings
type Policy struct {
	ServiceID         string
	ProviderID        string
	Duration          time.Duration
	CanonicalLanguage string
	Location          *time.Location
	LookupTimeout     time.Duration
	SchedulingTimeout time.Duration
}

// Request is the input of one orchestrator run
type Request struct {
	PhoneNumber string
	SpeechText  string
	Language    string
	CallID      string
	// Reference is the instant relative dates resolve against; zero means now
	Reference time.Time
}

// Orchestrator runs the booking state machine
type Orchestrator struct {
	directory  CustomerDirectory
	scheduler  Scheduler
	extractor  TimeExtractor
	translator Translator
	policy     Policy
	logger     *zap.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewOrchestrator creates an orchestrator. translator may be nil.
func NewOrchestrator(
	directory CustomerDirectory,
	scheduler Scheduler,
	extractor TimeExtractor,
	translator Translator,
	policy Policy,
	logger *zap.Logger,
	m *metrics.Metrics,
) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy.Duration <= 0 {
		policy.Duration = entities.DefaultAppointmentDuration
	}
	if policy.CanonicalLanguage == "" {
		policy.CanonicalLanguage = "en"
	}
	if policy.Location == nil {
		policy.Location = time.UTC
	}
	if policy.LookupTimeout <= 0 {
		policy.LookupTimeout = 3 * time.Second
	}
	if policy.SchedulingTimeout <= 0 {
		policy.SchedulingTimeout = 8 * time.Second
	}
	return &Orchestrator{
		directory:  directory,
		scheduler:  scheduler,
		extractor:  extractor,
		translator: translator,
		policy:     policy,
		logger:     logger,
		metrics:    m,
		now:        time.Now,
	}
}

// SetClock replaces time.Now as the default reference instant
func (o *Orchestrator) SetClock(now func() time.Time) {
	if now != nil {
		o.now = now
	}
}

// Localize translates a canonical-language message into lang
func (o *Orchestrator) Localize(ctx context.Context, text, lang string) string {
	if o.translator == nil {
		return text
	}
	return o.translator.Translate(ctx, text, o.policy.CanonicalLanguage, lang)
}

// Run drives one request to exactly one terminal state. Message on the
// returned outcome is already localized.
func (o *Orchestrator) Run(ctx context.Context, req Request) *entities.BookingOutcome {
	out := &entities.BookingOutcome{}
	out.Enter(entities.BookingStart)
	defer func() {
		o.metrics.RecordBookingOutcome(string(out.State))
	}()

	// CustomerLookup
	out.Enter(entities.BookingCustomerLookup)
	customer, err := o.lookup(ctx, req.PhoneNumber)
	switch {
	case errors.Is(err, entities.ErrCustomerNotFound):
		out.Enter(entities.BookingCustomerMissing)
		out.Reason = "Customer not found"
		out.Message = o.Localize(ctx, MessageCustomerNotFound, req.Language)
		o.logger.Info("Customer not found for caller", zap.String("call_id", req.CallID))
		return out
	case err != nil:
		return o.fail(ctx, out, req, apperrors.ErrCustomerLookupFailed(req.PhoneNumber, err))
	}
	out.Customer = customer
	out.Enter(entities.BookingCustomerFound)

	// TimeExtraction
	out.Enter(entities.BookingTimeExtraction)
	canonical := req.SpeechText
	if o.translator != nil {
		canonical = o.translator.Translate(ctx, req.SpeechText, req.Language, o.policy.CanonicalLanguage)
	}
	ref := req.Reference
	if ref.IsZero() {
		ref = o.now()
	}
	ref = ref.In(o.policy.Location)

	start, ok := o.extractor.Extract(canonical, ref)
	if !ok {
		out.Enter(entities.BookingNotParsed)
		out.Reason = entities.ParsingFailedReason
		out.Message = o.Localize(ctx, MessageNotParsed, req.Language)
		o.logger.Info("📅 No date/time found in caller speech",
			zap.String("call_id", req.CallID),
			zap.String("text", canonical),
		)
		return out
	}
	out.Enter(entities.BookingParsed)

	// Booking
	out.Enter(entities.BookingScheduling)
	apptReq := entities.NewAppointmentRequest(
		customer.ID,
		o.policy.ServiceID,
		o.policy.ProviderID,
		start,
		o.policy.Duration,
		fmt.Sprintf("Booked by voice receptionist (call %s): %s", req.CallID, req.SpeechText),
	)
	out.Start, out.End = apptReq.Start, apptReq.End

	id, err := o.schedule(ctx, apptReq)
	if err != nil {
		return o.fail(ctx, out, req, apperrors.ErrSchedulingFailed(customer.ID.String(), err))
	}

	out.Enter(entities.BookingBooked)
	out.AppointmentID = id
	out.ConfirmationText = o.Localize(ctx, Confirmation(start, o.policy.Location), req.Language)
	out.Message = out.ConfirmationText
	o.logger.Info("✅ Appointment booked",
		zap.String("call_id", req.CallID),
		zap.String("appointment_id", id),
		zap.Time("start", apptReq.Start),
		zap.Time("end", apptReq.End),
	)
	return out
}

func (o *Orchestrator) lookup(ctx context.Context, phone string) (*entities.Customer, error) {
	if o.directory == nil {
		return nil, errors.New("customer directory not configured")
	}
	lctx, cancel := context.WithTimeout(ctx, o.policy.LookupTimeout)
	defer cancel()

	customer, err := o.directory.FindByPhone(lctx, phone)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, entities.ErrCustomerNotFound
	}
	return customer, nil
}

// schedule makes the single scheduling attempt
func (o *Orchestrator) schedule(ctx context.Context, req entities.AppointmentRequest) (string, error) {
	if o.scheduler == nil {
		return "", errors.New("scheduler not configured")
	}
	if err := req.Validate(); err != nil {
		return "", err
	}
	sctx, cancel := context.WithTimeout(ctx, o.policy.SchedulingTimeout)
	defer cancel()

	return o.scheduler.CreateAppointment(sctx, req)
}

func (o *Orchestrator) fail(ctx context.Context, out *entities.BookingOutcome, req Request, appErr apperrors.AppError) *entities.BookingOutcome {
	out.Enter(entities.BookingFailed)
	out.Err = appErr
	if appErr.Raw != nil {
		out.Reason = appErr.Raw.Error()
	} else {
		out.Reason = appErr.Message
	}
	out.Message = o.Localize(ctx, MessageGenericError, req.Language)
	o.logger.Error("❌ Booking failed",
		zap.String("call_id", req.CallID),
		zap.String("code", appErr.Code.String()),
		zap.Error(appErr.Raw),
	)
	return out
}
