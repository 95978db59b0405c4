package repositories

import (
	"context"

	"github.com/johnquangdev/voice-receptionist/internal/domain/entities"
)

// CustomerRepository defines the interface for customer data access
type CustomerRepository interface {
	// FindByPhone finds a customer by normalized phone number.
	// Returns entities.ErrCustomerNotFound when no customer matches.
	FindByPhone(ctx context.Context, phone string) (*entities.Customer, error)

	// Create creates a new customer
	Create(ctx context.Context, customer *entities.Customer) error
}
