package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AnalyticsRecord is the append-only outcome of one completed voice turn
type AnalyticsRecord struct {
	ID                uuid.UUID                   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SubscriberEmail   string                      `json:"subscriber_email" gorm:"type:varchar(255);not null;index"`
	CallID            string                      `json:"call_id" gorm:"type:varchar(255);index"`
	Timestamp         time.Time                   `json:"timestamp" gorm:"not null;index"`
	DurationSeconds   int                         `json:"duration_seconds"`
	Sentiment         Sentiment                   `json:"sentiment" gorm:"type:varchar(20);not null"`
	Transcript        datatypes.JSONSlice[string] `json:"transcript" gorm:"type:jsonb"`
	DetectedLanguage  string                      `json:"detected_language" gorm:"type:varchar(20)"`
	AppointmentBooked bool                        `json:"appointment_booked" gorm:"not null;default:false"`
	AppointmentID     *string                     `json:"appointment_id,omitempty" gorm:"type:varchar(255)"`
	FailureReason     *string                     `json:"failure_reason,omitempty" gorm:"type:text"`
}

// TableName specifies the table name for GORM
func (AnalyticsRecord) TableName() string {
	return "call_analytics"
}

// NewAnalyticsRecord builds a record from a finished booking attempt.
// Timestamp is left zero; it is stamped at write time.
func NewAnalyticsRecord(email, callID string, durationSeconds int, summary *InteractionSummary, language string, outcome *BookingOutcome) *AnalyticsRecord {
	rec := &AnalyticsRecord{
		ID:               uuid.New(),
		SubscriberEmail:  email,
		CallID:           callID,
		DurationSeconds:  durationSeconds,
		Sentiment:        SentimentNeutral,
		Transcript:       datatypes.JSONSlice[string](summary.TranscriptOrEmpty()),
		DetectedLanguage: language,
	}
	if summary != nil && summary.Sentiment.IsValid() {
		rec.Sentiment = summary.Sentiment
	}
	if outcome.Booked() {
		rec.AppointmentBooked = true
		id := outcome.AppointmentID
		rec.AppointmentID = &id
	} else if outcome != nil && outcome.Reason != "" {
		reason := outcome.Reason
		rec.FailureReason = &reason
	}
	return rec
}
