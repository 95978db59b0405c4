package entities

import (
	"time"

	"github.com/google/uuid"
)

// DefaultAppointmentDuration is used when no duration policy is configured
const DefaultAppointmentDuration = 30 * time.Minute

// AppointmentRequest is what the orchestrator hands to the scheduler
type AppointmentRequest struct {
	CustomerID uuid.UUID `json:"customerId"`
	ServiceID  string    `json:"serviceId"`
	ProviderID string    `json:"providerId"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Notes      string    `json:"notes,omitempty"`
}

// NewAppointmentRequest computes End from Start and the duration policy
func NewAppointmentRequest(customerID uuid.UUID, serviceID, providerID string, start time.Time, duration time.Duration, notes string) AppointmentRequest {
	if duration <= 0 {
		duration = DefaultAppointmentDuration
	}
	return AppointmentRequest{
		CustomerID: customerID,
		ServiceID:  serviceID,
		ProviderID: providerID,
		Start:      start,
		End:        start.Add(duration),
		Notes:      notes,
	}
}

// Validate validates the request window
func (r AppointmentRequest) Validate() error {
	if !r.End.After(r.Start) {
		return ErrInvalidAppointmentWindow
	}
	return nil
}

// AppointmentStatus defines appointment status
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Appointment is a booked slot, persisted by the bundled scheduler
type Appointment struct {
	ID         uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CustomerID uuid.UUID         `json:"customer_id" gorm:"type:uuid;not null;index"`
	ServiceID  string            `json:"service_id" gorm:"type:varchar(255);not null"`
	ProviderID string            `json:"provider_id" gorm:"type:varchar(255);not null;index"`
	StartAt    time.Time         `json:"start_at" gorm:"not null;index"`
	EndAt      time.Time         `json:"end_at" gorm:"not null"`
	Notes      string            `json:"notes,omitempty" gorm:"type:text"`
	Status     AppointmentStatus `json:"status" gorm:"type:varchar(20);default:'scheduled';not null"`
	CreatedAt  time.Time         `json:"created_at" gorm:"autoCreateTime"`

	Customer *Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
}

// TableName specifies the table name for GORM
func (Appointment) TableName() string {
	return "appointments"
}

// NewAppointment creates an appointment row from a request
func NewAppointment(req AppointmentRequest) *Appointment {
	return &Appointment{
		ID:         uuid.New(),
		CustomerID: req.CustomerID,
		ServiceID:  req.ServiceID,
		ProviderID: req.ProviderID,
		StartAt:    req.Start,
		EndAt:      req.End,
		Notes:      req.Notes,
		Status:     AppointmentScheduled,
		CreatedAt:  time.Now(),
	}
}
