package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/johnquangdev/voice-receptionist/internal/domain/entities"
	"github.com/johnquangdev/voice-receptionist/internal/domain/repositories"
)

// CustomerRepository implements the customer repository interface using GORM
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) repositories.CustomerRepository {
	return &CustomerRepository{
		db: db,
	}
}

// Create creates a new customer
func (r *CustomerRepository) Create(ctx context.Context, customer *entities.Customer) error {
	if err := customer.Validate(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// FindByPhone finds a customer by phone number, ignoring formatting
func (r *CustomerRepository) FindByPhone(ctx context.Context, phone string) (*entities.Customer, error) {
	normalized := entities.NormalizePhone(phone)
	if normalized == "" {
		return nil, entities.ErrInvalidPhone
	}

	var customer entities.Customer
	if err := r.db.WithContext(ctx).Where("phone_number = ?", normalized).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer by phone: %w", err)
	}
	return &customer, nil
}
