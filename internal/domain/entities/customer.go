package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Customer is a subscriber that can be identified by phone number
type Customer struct {
	ID                uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email             string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PhoneNumber       string    `json:"phone_number" gorm:"type:varchar(32);uniqueIndex;not null"`
	Name              string    `json:"name" gorm:"type:varchar(255)"`
	PreferredLanguage string    `json:"preferred_language" gorm:"type:varchar(10);default:'en';not null"`
	CreatedAt         time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer with default values
func NewCustomer(email, phoneNumber, name string) *Customer {
	now := time.Now()
	return &Customer{
		ID:                uuid.New(),
		Email:             strings.TrimSpace(email),
		PhoneNumber:       NormalizePhone(phoneNumber),
		Name:              name,
		PreferredLanguage: "en",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Validate validates customer data
func (c *Customer) Validate() error {
	if c.Email == "" || !strings.Contains(c.Email, "@") {
		return ErrInvalidEmail
	}
	if c.PhoneNumber == "" {
		return ErrInvalidPhone
	}
	return nil
}

// NormalizePhone strips formatting so "+1 (555) 010-2030" and "+15550102030"
// match the same record. A leading "+" is preserved.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	for i, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
