package booking

import (
	"fmt"
	"time"
)

// Caller-facing messages in the canonical language. They are translated
// into the resolved language before synthesis.
const (
	MessageCustomerNotFound = "Sorry, we could not find your record."
	MessageNotParsed        = "Sorry, I could not understand the date and time. Please try again."
	MessageGenericError     = "Sorry, something went wrong while booking your appointment. Please try again later."
	MessageMissingCaller    = "Sorry, we could not identify your phone number."
)

// Confirmation builds the booked sentence from the start instant in loc
func Confirmation(start time.Time, loc *time.Location) string {
	if loc != nil {
		start = start.In(loc)
	}
	return fmt.Sprintf("Your appointment is confirmed for %s at %s.",
		start.Format("Monday, January 2"),
		start.Format("3:04 PM"),
	)
}
