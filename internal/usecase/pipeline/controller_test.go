package pipeline

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/voice-receptionist/internal/domain/entities"
	"github.com/johnquangdev/voice-receptionist/internal/infrastructure/cache"
	"github.com/johnquangdev/voice-receptionist/internal/usecase/booking"
	"github.com/johnquangdev/voice-receptionist/internal/usecase/language"
	"github.com/johnquangdev/voice-receptionist/internal/usecase/session"
	"github.com/johnquangdev/voice-receptionist/internal/usecase/speech"
	"github.com/johnquangdev/voice-receptionist/internal/usecase/temporal"
)

type directory struct {
	customers map[string]*entities.Customer
}

func (d *directory) FindByPhone(ctx context.Context, phone string) (*entities.Customer, error) {
	if c, ok := d.customers[phone]; ok {
		return c, nil
	}
	return nil, entities.ErrCustomerNotFound
}

type scheduler struct {
	err   error
	calls int
	last  entities.AppointmentRequest
}

func (s *scheduler) CreateAppointment(ctx context.Context, req entities.AppointmentRequest) (string, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return "", s.err
	}
	return "appt-" + req.CustomerID.String()[:8], nil
}

type detector struct {
	code  string
	calls int
}

func (d *detector) Detect(ctx context.Context, text string) (entities.LanguageDetection, error) {
	d.calls++
	return entities.LanguageDetection{Code: d.code, Confidence: 1}, nil
}

type panickingBooker struct{ *booking.Orchestrator }

func (panickingBooker) Run(ctx context.Context, req booking.Request) *entities.BookingOutcome {
	panic("scheduler client nil map")
}

var (
	monday   = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	customer = &entities.Customer{ID: uuid.New(), Email: "ana@example.com", PhoneNumber: "+15550100"}
)

type harness struct {
	controller *Controller
	scheduler  *scheduler
	detector   *detector
	summaries  *session.SummaryStore
	booker     *booking.Orchestrator
}

func newHarness(t *testing.T, schedErr error) *harness {
	t.Helper()
	mem := cache.NewMemoryStore()
	t.Cleanup(func() { mem.Close() })

	det := &detector{code: "en"}
	sched := &scheduler{err: schedErr}
	resolver := language.NewResolver(det, mem, language.ResolverConfig{DefaultLanguage: "en"}, nil, nil)
	translator := language.NewAdapter(nil, 0, nil)

	booker := booking.NewOrchestrator(
		&directory{customers: map[string]*entities.Customer{customer.PhoneNumber: customer}},
		sched,
		temporal.NewExtractor(nil),
		translator,
		booking.Policy{ServiceID: "svc", ProviderID: "prov", Duration: 30 * time.Minute},
		nil, nil,
	)
	booker.SetClock(func() time.Time { return monday })

	summaries := session.NewSummaryStore(mem, 0)
	ctrl := NewController(resolver, booker, speech.NewSpeaker(nil, 0, nil), summaries, nil, nil)
	return &harness{controller: ctrl, scheduler: sched, detector: det, summaries: summaries, booker: booker}
}

func TestHandle_BookedScenario(t *testing.T) {
	h := newHarness(t, nil)
	summary := &entities.InteractionSummary{
		Transcript: []string{"Caller: book me for tomorrow at 10am"},
		Sentiment:  entities.SentimentPositive,
	}

	res := h.controller.Handle(context.Background(), VoiceTurn{
		PhoneNumber:     "+1 555-0100",
		CallID:          "CA1",
		DurationSeconds: 64,
		SpeechText:      "book me for tomorrow at 10am",
		Summary:         summary,
	})

	if res.Status != http.StatusOK {
		t.Fatalf("Status = %d, want 200", res.Status)
	}
	if res.Outcome.State != entities.BookingBooked {
		t.Fatalf("State = %s, want booked", res.Outcome.State)
	}
	if !res.Outcome.End.Equal(res.Outcome.Start.Add(30 * time.Minute)) {
		t.Errorf("End = %v, want Start+30m (%v)", res.Outcome.End, res.Outcome.Start)
	}
	wantStart := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
	if !h.scheduler.last.Start.Equal(wantStart) {
		t.Errorf("scheduled Start = %v, want %v", h.scheduler.last.Start, wantStart)
	}
	if res.VoiceResponse != speech.Placeholder("en", res.Outcome.ConfirmationText) {
		t.Errorf("VoiceResponse = %q", res.VoiceResponse)
	}

	rec := res.Analytics
	if rec == nil {
		t.Fatal("analytics record missing")
	}
	if !rec.AppointmentBooked || rec.AppointmentID == nil || *rec.AppointmentID != res.Outcome.AppointmentID {
		t.Errorf("analytics = %+v", rec)
	}
	if rec.SubscriberEmail != customer.Email || rec.CallID != "CA1" || rec.DurationSeconds != 64 {
		t.Errorf("analytics identity = %+v", rec)
	}
	if rec.Sentiment != entities.SentimentPositive || rec.DetectedLanguage != "en" {
		t.Errorf("analytics summary fields = %+v", rec)
	}
}

func TestHandle_UnknownCallerScenario(t *testing.T) {
	h := newHarness(t, nil)

	res := h.controller.Handle(context.Background(), VoiceTurn{
		PhoneNumber: "+19998887777",
		CallID:      "CA2",
		SpeechText:  "book me for tomorrow at 10am",
	})

	if res.Status != http.StatusOK {
		t.Fatalf("Status = %d, want 200", res.Status)
	}
	if res.Outcome.State != entities.BookingCustomerMissing {
		t.Fatalf("State = %s, want customer_missing", res.Outcome.State)
	}
	if res.Language != "en" {
		t.Errorf("Language = %q, want default en", res.Language)
	}
	if res.VoiceResponse != speech.Placeholder("en", booking.MessageCustomerNotFound) {
		t.Errorf("VoiceResponse = %q", res.VoiceResponse)
	}
	if h.scheduler.calls != 0 {
		t.Errorf("scheduler called %d times", h.scheduler.calls)
	}
	if res.Analytics != nil {
		t.Errorf("analytics should be skipped without customer context")
	}
}

func TestHandle_NotParsedScenario(t *testing.T) {
	h := newHarness(t, nil)

	res := h.controller.Handle(context.Background(), VoiceTurn{
		PhoneNumber: customer.PhoneNumber,
		CallID:      "CA3",
		SpeechText:  "call me later",
	})

	if res.Status != http.StatusOK {
		t.Fatalf("Status = %d, want 200", res.Status)
	}
	if res.Outcome.State != entities.BookingNotParsed {
		t.Fatalf("State = %s, want not_parsed", res.Outcome.State)
	}
	rec := res.Analytics
	if rec == nil {
		t.Fatal("analytics record missing")
	}
	if rec.AppointmentBooked {
		t.Errorf("AppointmentBooked = true")
	}
	if rec.FailureReason == nil || *rec.FailureReason != "Parsing failed" {
		t.Errorf("FailureReason = %v, want Parsing failed", rec.FailureReason)
	}
	if h.scheduler.calls != 0 {
		t.Errorf("scheduler called for unparsed speech")
	}
}

func TestHandle_SchedulerFailureScenario(t *testing.T) {
	h := newHarness(t, errors.New("calendar API returned 503"))

	res := h.controller.Handle(context.Background(), VoiceTurn{
		PhoneNumber: customer.PhoneNumber,
		CallID:      "CA4",
		SpeechText:  "Friday at 3pm",
	})

	if res.Status != http.StatusInternalServerError {
		t.Fatalf("Status = %d, want 500", res.Status)
	}
	if res.Outcome.State != entities.BookingFailed {
		t.Fatalf("State = %s, want booking_failed", res.Outcome.State)
	}
	if res.VoiceResponse != speech.Placeholder("en", booking.MessageGenericError) {
		t.Errorf("VoiceResponse = %q", res.VoiceResponse)
	}
	if h.scheduler.calls != 1 {
		t.Errorf("scheduler called %d times, want exactly 1", h.scheduler.calls)
	}
	rec := res.Analytics
	if rec == nil || rec.FailureReason == nil || *rec.FailureReason != "calendar API returned 503" {
		t.Errorf("analytics = %+v, want verbatim scheduler error", rec)
	}
	if rec != nil && rec.AppointmentBooked {
		t.Errorf("AppointmentBooked = true on failure")
	}
}

func TestHandle_MissingCallerIdentity(t *testing.T) {
	h := newHarness(t, nil)

	res := h.controller.Handle(context.Background(), VoiceTurn{CallID: "CA5", SpeechText: "tomorrow at 10am"})

	if res.Status != http.StatusBadRequest {
		t.Fatalf("Status = %d, want 400", res.Status)
	}
	if res.VoiceResponse != speech.Placeholder("en", booking.MessageMissingCaller) {
		t.Errorf("VoiceResponse = %q", res.VoiceResponse)
	}
	if res.Err == nil || res.Analytics != nil {
		t.Errorf("Err = %v, Analytics = %+v", res.Err, res.Analytics)
	}
}

func TestReject_SpeaksGenericMessage(t *testing.T) {
	h := newHarness(t, nil)

	res := h.controller.Reject(context.Background(), errors.New("undecodable body"))

	if res.Status != http.StatusBadRequest {
		t.Fatalf("Status = %d, want 400", res.Status)
	}
	if res.VoiceResponse != speech.Placeholder("en", booking.MessageGenericError) {
		t.Errorf("VoiceResponse = %q", res.VoiceResponse)
	}
	if res.Err == nil || res.Analytics != nil {
		t.Errorf("Err = %v, Analytics = %+v", res.Err, res.Analytics)
	}
	if h.scheduler.calls != 0 {
		t.Errorf("scheduler called %d times for a rejected turn", h.scheduler.calls)
	}
}

func TestHandle_UsesStoredSummaryLanguage(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	err := h.summaries.Save(ctx, "CA6", entities.InteractionSummary{
		Transcript:       []string{"Caller: call me later"},
		DetectedLanguage: "es",
		LastCallerLine:   "call me later",
		Sentiment:        entities.SentimentNegative,
	})
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	res := h.controller.Handle(ctx, VoiceTurn{PhoneNumber: customer.PhoneNumber, CallID: "CA6"})

	if res.Language != "es" {
		t.Errorf("Language = %q, want es from stored summary", res.Language)
	}
	if h.detector.calls != 0 {
		t.Errorf("detector called %d times despite summary language", h.detector.calls)
	}
	if res.Outcome.State != entities.BookingNotParsed {
		t.Errorf("State = %s, want not_parsed from last caller line", res.Outcome.State)
	}
	if res.Analytics == nil || res.Analytics.Sentiment != entities.SentimentNegative || len(res.Analytics.Transcript) != 1 {
		t.Errorf("analytics = %+v", res.Analytics)
	}
}

func TestHandle_PanicBecomes500(t *testing.T) {
	h := newHarness(t, nil)
	ctrl := NewController(
		language.NewResolver(nil, nil, language.ResolverConfig{DefaultLanguage: "en"}, nil, nil),
		panickingBooker{h.booker},
		speech.NewSpeaker(nil, 0, nil),
		nil, nil, nil,
	)

	res := ctrl.Handle(context.Background(), VoiceTurn{PhoneNumber: customer.PhoneNumber, SpeechText: "tomorrow"})

	if res.Status != http.StatusInternalServerError {
		t.Fatalf("Status = %d, want 500", res.Status)
	}
	if res.VoiceResponse != speech.Placeholder("en", booking.MessageGenericError) {
		t.Errorf("VoiceResponse = %q", res.VoiceResponse)
	}
	if res.Err == nil {
		t.Errorf("Err should describe the panic")
	}
}
