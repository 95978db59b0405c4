package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordBookingOutcome("booked")
	m.RecordPipeline(200, time.Second)
	m.RecordLanguageCache(true)
	m.RecordSessionClosed(false)
	m.RecordDroppedFrame("malformed")
	m.RecordSentimentError()
	m.RecordSentimentSkipped()
	m.RecordAnalyticsWrite(false)
}

func TestHandlerExposesRecordedMetrics(t *testing.T) {
	m := New("test")
	m.RecordBookingOutcome("booked")
	m.RecordLanguageCache(false)
	m.RecordPipeline(500, 250*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`test_booking_outcomes_total{state="booked"} 1`,
		`test_language_cache_total{result="miss"} 1`,
		`test_pipeline_duration_seconds_count{status="5xx"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
