package customer

import (
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Address is a postal address owned by a customer
type Address struct {
	shared.BaseEntity
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Street     string    `gorm:"type:varchar(255);not null"`
	City       string    `gorm:"type:varchar(255);not null"`
	Zipcode    string    `gorm:"type:varchar(30);not null"`
}

// TableName returns the table name for GORM
func (Address) TableName() string {
	return "addresses"
}

// NewAddress creates an address for the given customer
func NewAddress(customerID uuid.UUID, street, city, zipcode string) (*Address, error) {
	street = strings.TrimSpace(street)
	city = strings.TrimSpace(city)
	zipcode = strings.TrimSpace(zipcode)

	if err := requireMax("street", street, 255); err != nil {
		return nil, err
	}
	if err := requireMax("city", city, 255); err != nil {
		return nil, err
	}
	if err := requireMax("zipcode", zipcode, 30); err != nil {
		return nil, err
	}

	return &Address{
		BaseEntity: shared.NewBaseEntity(),
		CustomerID: customerID,
		Street:     street,
		City:       city,
		Zipcode:    zipcode,
	}, nil
}

func requireMax(field, value string, max int) error {
	if value == "" {
		return shared.NewValidationError(field, "This field may not be blank.")
	}
	if len(value) > max {
		return shared.NewValidationError(field, "Ensure this field is not too long.")
	}
	return nil
}
