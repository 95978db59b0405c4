package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/johnquangdev/voice-receptionist/internal/domain/entities"
	"github.com/johnquangdev/voice-receptionist/internal/domain/repositories"
)

// ErrSlotUnavailable is returned when the requested slot overlaps a booking
var ErrSlotUnavailable = errors.New("requested slot is not available")

// AppointmentRepository is the bundled scheduling backend
type AppointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository creates a new appointment repository
func NewAppointmentRepository(db *gorm.DB) repositories.AppointmentRepository {
	return &AppointmentRepository{
		db: db,
	}
}

// CreateAppointment books the requested slot and returns the appointment ID.
// A slot overlapping another scheduled appointment of the same provider is
// rejected.
func (r *AppointmentRepository) CreateAppointment(ctx context.Context, req entities.AppointmentRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	appt := entities.NewAppointment(req)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conflicts int64
		if err := tx.Model(&entities.Appointment{}).
			Where("provider_id = ? AND status = ? AND start_at < ? AND end_at > ?",
				req.ProviderID, entities.AppointmentScheduled, req.End, req.Start).
			Count(&conflicts).Error; err != nil {
			return fmt.Errorf("failed to check availability: %w", err)
		}
		if conflicts > 0 {
			return fmt.Errorf("slot %s is not available: %w", req.Start.Format("2006-01-02 15:04"), ErrSlotUnavailable)
		}
		if err := tx.Create(appt).Error; err != nil {
			return fmt.Errorf("failed to create appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return appt.ID.String(), nil
}
