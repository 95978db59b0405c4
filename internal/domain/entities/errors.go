package entities

import "errors"

// Domain errors
var (
	// Customer errors
	ErrCustomerNotFound = errors.New("customer not found")
	ErrInvalidPhone     = errors.New("invalid phone number")
	ErrInvalidEmail     = errors.New("invalid email")

	// Appointment errors
	ErrInvalidAppointmentWindow = errors.New("appointment end must be after start")

	// Interaction session errors
	ErrSessionClosed  = errors.New("interaction session already closed")
	ErrMalformedEvent = errors.New("malformed interaction event")
)
