package repositories

import (
	"context"

	"github.com/johnquangdev/voice-receptionist/internal/domain/entities"
)

// AppointmentRepository is the scheduling backend. CreateAppointment is
// attempted once per request; callers must not retry it.
type AppointmentRepository interface {
	CreateAppointment(ctx context.Context, req entities.AppointmentRequest) (string, error)
}
