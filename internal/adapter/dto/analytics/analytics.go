package analytics

// ListRequest is the analytics query
type ListRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// RecordResponse represents one call in the analytics API
type RecordResponse struct {
	ID                string   `json:"id"`
	CallID            string   `json:"callId,omitempty"`
	Timestamp         string   `json:"timestamp"`
	DurationSeconds   int      `json:"durationSeconds"`
	Sentiment         string   `json:"sentiment"`
	Transcript        []string `json:"transcript"`
	DetectedLanguage  string   `json:"detectedLanguage"`
	AppointmentBooked bool     `json:"appointmentBooked"`
	AppointmentID     *string  `json:"appointmentId,omitempty"`
	FailureReason     *string  `json:"failureReason,omitempty"`
}

// ListResponse is a page of analytics records, newest first
type ListResponse struct {
	Records []RecordResponse `json:"records"`
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}
