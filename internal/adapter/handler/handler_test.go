package handler

import (
	"context"
	"encoding/json"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-receptionist/internal/domain/entities"
	"github.com/johnquangdev/voice-receptionist/internal/usecase/pipeline"
	"github.com/johnquangdev/voice-receptionist/internal/usecase/session"
	"github.com/johnquangdev/voice-receptionist/pkg/ai"
	"github.com/johnquangdev/voice-receptionist/pkg/config"
	pkgjwt "github.com/johnquangdev/voice-receptionist/pkg/jwt"
	pkgvalidator "github.com/johnquangdev/voice-receptionist/pkg/validator"
)

type fakePipeline struct {
	mu    sync.Mutex
	turns []pipeline.VoiceTurn
	res   pipeline.Result
}

func (f *fakePipeline) Handle(_ context.Context, turn pipeline.VoiceTurn) pipeline.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.turns = append(f.turns, turn)
	return f.res
}

func (f *fakePipeline) Reject(_ context.Context, err error) pipeline.Result {
	return pipeline.Result{Status: http.StatusBadRequest, VoiceResponse: "placeholder:en:generic", Err: err}
}

type fakeSink struct {
	mu   sync.Mutex
	recs []*entities.AnalyticsRecord
}

func (f *fakeSink) Record(_ context.Context, rec *entities.AnalyticsRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs = append(f.recs, rec)
}

type fakeReader struct {
	records   []*entities.AnalyticsRecord
	gotEmail  string
	gotLimit  int
	gotOffset int
}

func (f *fakeReader) ListBySubscriber(_ context.Context, email string, limit, offset int) ([]*entities.AnalyticsRecord, error) {
	f.gotEmail, f.gotLimit, f.gotOffset = email, limit, offset
	return f.records, nil
}

func (f *fakeReader) CountBySubscriber(_ context.Context, email string) (int64, error) {
	return int64(len(f.records)), nil
}

type fakeConsumer struct {
	done chan []session.Frame
}

func (f *fakeConsumer) Consume(_ context.Context, callID string, frames iter.Seq[session.Frame]) (entities.InteractionSummary, error) {
	var got []session.Frame
	for fr := range frames {
		got = append(got, fr)
	}
	f.done <- got
	return entities.InteractionSummary{CallID: callID}, nil
}

type testServer struct {
	echo     *echo.Echo
	pipeline *fakePipeline
	sink     *fakeSink
	reader   *fakeReader
	consumer *fakeConsumer
	jwt      *pkgjwt.Manager
}

func newTestServer(t *testing.T, secret string) *testServer {
	t.Helper()
	cfg := &config.Config{
		Server:   config.ServerConfig{Environment: "test"},
		Security: config.SecurityConfig{WebhookSecret: secret},
	}
	ts := &testServer{
		echo:     echo.New(),
		pipeline: &fakePipeline{},
		sink:     &fakeSink{},
		reader:   &fakeReader{},
		consumer: &fakeConsumer{done: make(chan []session.Frame, 1)},
		jwt:      pkgjwt.NewManager("test-secret", time.Hour),
	}
	ts.echo.Validator = pkgvalidator.New()
	logger := zap.NewNop()
	NewRouter(cfg,
		NewVoice(ts.pipeline, ts.sink, logger),
		NewStream(ts.consumer, nil, logger),
		NewAnalytics(ts.reader, logger),
		ts.jwt,
		http.NotFoundHandler(),
		logger,
	).Setup(ts.echo)
	return ts
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.echo.ServeHTTP(rec, req)
	return rec
}

func decodeVoice(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body %q: %v", rec.Body.String(), err)
	}
	return body["voiceResponse"]
}

func TestVoiceTurn_JSONBooked(t *testing.T) {
	ts := newTestServer(t, "")
	analytics := &entities.AnalyticsRecord{ID: uuid.New(), SubscriberEmail: "ana@example.com"}
	ts.pipeline.res = pipeline.Result{Status: http.StatusOK, VoiceResponse: "https://cdn.test/tts/en/a.mp3", Analytics: analytics}

	body := `{"phoneNumber":"+15550102030","callId":"call-1","duration":42,"speechText":"tomorrow at 10am"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/voice/turn", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := ts.do(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := decodeVoice(t, rec); got != "https://cdn.test/tts/en/a.mp3" {
		t.Fatalf("voiceResponse = %q", got)
	}
	if len(ts.pipeline.turns) != 1 {
		t.Fatalf("pipeline calls = %d", len(ts.pipeline.turns))
	}
	turn := ts.pipeline.turns[0]
	if turn.PhoneNumber != "+15550102030" || turn.CallID != "call-1" || turn.DurationSeconds != 42 || turn.SpeechText != "tomorrow at 10am" {
		t.Fatalf("turn = %+v", turn)
	}
	if len(ts.sink.recs) != 1 || ts.sink.recs[0] != analytics {
		t.Fatalf("analytics records = %d", len(ts.sink.recs))
	}
}

func TestVoiceTurn_FormBody(t *testing.T) {
	ts := newTestServer(t, "")
	ts.pipeline.res = pipeline.Result{Status: http.StatusOK, VoiceResponse: "placeholder:en:x"}

	req := httptest.NewRequest(http.MethodPost, "/v1/voice/turn", strings.NewReader("From=%2B15550102030&CallSid=CA1&SpeechResult=hello"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := ts.do(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if turn := ts.pipeline.turns[0]; turn.PhoneNumber != "+15550102030" || turn.CallID != "CA1" {
		t.Fatalf("turn = %+v", turn)
	}
	if len(ts.sink.recs) != 0 {
		t.Fatal("no analytics expected without a record")
	}
}

func TestVoiceTurn_PipelineStatusIsPassedThrough(t *testing.T) {
	ts := newTestServer(t, "")
	ts.pipeline.res = pipeline.Result{Status: http.StatusBadRequest, VoiceResponse: "placeholder:en:Sorry"}

	req := httptest.NewRequest(http.MethodPost, "/v1/voice/turn", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := ts.do(req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeVoice(t, rec); got != "placeholder:en:Sorry" {
		t.Fatalf("voiceResponse = %q", got)
	}
}

func TestVoiceTurn_BadBodies(t *testing.T) {
	ts := newTestServer(t, "")

	tests := []struct {
		name, contentType, body string
	}{
		{"malformed json", echo.MIMEApplicationJSON, `{"phoneNumber":`},
		{"unsupported type", echo.MIMEApplicationXML, `<turn/>`},
		{"phone number too long", echo.MIMEApplicationJSON, `{"phoneNumber":"` + strings.Repeat("5", 65) + `"}`},
		{"body too large", echo.MIMEApplicationJSON, `{"speechText":"` + strings.Repeat("a", maxTurnBodyBytes) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/voice/turn", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, tt.contentType)
			rec := ts.do(req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", rec.Code)
			}
			if got := decodeVoice(t, rec); got != "placeholder:en:generic" {
				t.Errorf("voiceResponse = %q, want the generic message", got)
			}
		})
	}
	if len(ts.pipeline.turns) != 0 {
		t.Fatal("pipeline must not run for bad bodies")
	}
}

func TestVoiceTurn_Signature(t *testing.T) {
	ts := newTestServer(t, "hook-secret")
	ts.pipeline.res = pipeline.Result{Status: http.StatusOK, VoiceResponse: "ok"}
	body := `{"phoneNumber":"+15550102030"}`

	req := httptest.NewRequest(http.MethodPost, "/v1/voice/turn", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if rec := ts.do(req); rec.Code != http.StatusUnauthorized {
		t.Fatalf("unsigned status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/voice/turn", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Signature", ai.SignHMAC("hook-secret", []byte(body)))
	if rec := ts.do(req); rec.Code != http.StatusOK {
		t.Fatalf("signed status = %d, want 200", rec.Code)
	}
	if len(ts.pipeline.turns) != 1 || ts.pipeline.turns[0].PhoneNumber != "+15550102030" {
		t.Fatalf("turns = %+v", ts.pipeline.turns)
	}
}

func TestAnalytics_List(t *testing.T) {
	ts := newTestServer(t, "")
	id := "appt-1"
	ts.reader.records = []*entities.AnalyticsRecord{{
		ID:                uuid.New(),
		SubscriberEmail:   "owner@clinic.test",
		Timestamp:         time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
		Sentiment:         entities.SentimentPositive,
		AppointmentBooked: true,
		AppointmentID:     &id,
	}}
	token, _ := ts.jwt.GenerateAccessToken(uuid.New(), "owner@clinic.test")

	req := httptest.NewRequest(http.MethodGet, "/v1/analytics?limit=5&offset=10", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := ts.do(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ts.reader.gotEmail != "owner@clinic.test" || ts.reader.gotLimit != 5 || ts.reader.gotOffset != 10 {
		t.Fatalf("query = %q %d %d", ts.reader.gotEmail, ts.reader.gotLimit, ts.reader.gotOffset)
	}

	var body struct {
		Data struct {
			Records []struct {
				Sentiment     string   `json:"sentiment"`
				AppointmentID string   `json:"appointmentId"`
				Transcript    []string `json:"transcript"`
				Timestamp     string   `json:"timestamp"`
			} `json:"records"`
			Total int `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Total != 1 || len(body.Data.Records) != 1 {
		t.Fatalf("body = %s", rec.Body.String())
	}
	r := body.Data.Records[0]
	if r.Sentiment != "positive" || r.AppointmentID != "appt-1" || r.Transcript == nil || r.Timestamp != "2025-06-02T09:00:00Z" {
		t.Fatalf("record = %+v", r)
	}
}

func TestAnalytics_Errors(t *testing.T) {
	ts := newTestServer(t, "")
	token, _ := ts.jwt.GenerateAccessToken(uuid.New(), "owner@clinic.test")

	tests := []struct {
		name       string
		url        string
		auth       bool
		wantStatus int
	}{
		{"no token", "/v1/analytics", false, http.StatusUnauthorized},
		{"limit too large", "/v1/analytics?limit=500", true, http.StatusBadRequest},
		{"negative offset", "/v1/analytics?offset=-1", true, http.StatusBadRequest},
		{"non numeric", "/v1/analytics?limit=ten", true, http.StatusBadRequest},
		{"defaults", "/v1/analytics", true, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.auth {
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
			}
			if rec := ts.do(req); rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, "")
	rec := ts.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"environment":"test"`) {
		t.Fatalf("health = %d %s", rec.Code, rec.Body.String())
	}
}

func TestStream_EventsEndWithClose(t *testing.T) {
	ts := newTestServer(t, "")
	srv := httptest.NewServer(ts.echo)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/calls/call-9/events"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	msgs := []string{
		`{"type":"transcript","role":"agent","text":"How can I help?"}`,
		`{"type":"transcript","role":"user","text":"Book me for Friday"}`,
	}
	for _, m := range msgs {
		if err := conn.Write(ctx, websocket.MessageText, []byte(m)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	conn.Close(websocket.StatusNormalClosure, "call ended")

	select {
	case frames := <-ts.consumer.done:
		if len(frames) != 3 {
			t.Fatalf("frames = %d, want 3", len(frames))
		}
		last := frames[2]
		if !last.Closed || last.Code != entities.CloseNormal || last.Reason != "call ended" {
			t.Fatalf("close frame = %+v", last)
		}
	case <-ctx.Done():
		t.Fatal("stream was not consumed")
	}
}
