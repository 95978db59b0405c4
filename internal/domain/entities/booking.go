package entities

import "time"

// BookingState is a node of the booking state machine
type BookingState string

const (
	BookingStart           BookingState = "start"
	BookingCustomerLookup  BookingState = "customer_lookup"
	BookingCustomerMissing BookingState = "customer_missing"
	BookingCustomerFound   BookingState = "customer_found"
	BookingTimeExtraction  BookingState = "time_extraction"
	BookingNotParsed       BookingState = "not_parsed"
	BookingParsed          BookingState = "parsed"
	BookingScheduling      BookingState = "booking"
	BookingBooked          BookingState = "booked"
	BookingFailed          BookingState = "booking_failed"
)

// IsTerminal reports whether the state ends the state machine
func (s BookingState) IsTerminal() bool {
	switch s {
	case BookingCustomerMissing, BookingNotParsed, BookingBooked, BookingFailed:
		return true
	}
	return false
}

// ParsingFailedReason is recorded when no start instant could be extracted
const ParsingFailedReason = "Parsing failed"

// BookingOutcome is the result of one orchestrator run
type BookingOutcome struct {
	State            BookingState   `json:"state"`
	Path             []BookingState `json:"path"`
	Customer         *Customer      `json:"-"`
	AppointmentID    string         `json:"appointmentId,omitempty"`
	ConfirmationText string         `json:"confirmationText,omitempty"`
	Message          string         `json:"message"`
	Reason           string         `json:"reason,omitempty"`
	Start            time.Time      `json:"start,omitempty"`
	End              time.Time      `json:"end,omitempty"`
	Err              error          `json:"-"`
}

// Booked reports whether an appointment was created
func (o *BookingOutcome) Booked() bool {
	return o != nil && o.State == BookingBooked
}

// Enter records a state transition
func (o *BookingOutcome) Enter(state BookingState) {
	o.State = state
	o.Path = append(o.Path, state)
}
