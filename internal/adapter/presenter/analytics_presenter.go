package presenter

import (
	"time"

	"github.com/johnquangdev/voice-receptionist/internal/adapter/dto/analytics"
	"github.com/johnquangdev/voice-receptionist/internal/domain/entities"
)

// ToAnalyticsRecordResponse converts an analytics record to its API shape
func ToAnalyticsRecordResponse(rec *entities.AnalyticsRecord) analytics.RecordResponse {
	transcript := []string(rec.Transcript)
	if transcript == nil {
		transcript = []string{}
	}
	return analytics.RecordResponse{
		ID:                rec.ID.String(),
		CallID:            rec.CallID,
		Timestamp:         rec.Timestamp.UTC().Format(time.RFC3339),
		DurationSeconds:   rec.DurationSeconds,
		Sentiment:         string(rec.Sentiment),
		Transcript:        transcript,
		DetectedLanguage:  rec.DetectedLanguage,
		AppointmentBooked: rec.AppointmentBooked,
		AppointmentID:     rec.AppointmentID,
		FailureReason:     rec.FailureReason,
	}
}

// ToAnalyticsListResponse converts a page of records
func ToAnalyticsListResponse(records []*entities.AnalyticsRecord, total int64, limit, offset int) analytics.ListResponse {
	items := make([]analytics.RecordResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, ToAnalyticsRecordResponse(rec))
	}
	return analytics.ListResponse{
		Records: items,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}
}
