package catalog

import (
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// Promotion is a discount campaign that can be attached to many products
type Promotion struct {
	shared.BaseEntity
	Description string  `gorm:"type:varchar(255);not null"`
	Discount    float64 `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Promotion) TableName() string {
	return "promotions"
}

// NewPromotion creates a new promotion
func NewPromotion(description string, discount float64) (*Promotion, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, shared.NewValidationError("description", "This field may not be blank.")
	}
	if len(description) > 255 {
		return nil, shared.NewValidationError("description", "Ensure this field has no more than 255 characters.")
	}
	if discount < 0 {
		return nil, shared.NewValidationError("discount", "Discount cannot be negative.")
	}

	return &Promotion{
		BaseEntity:  shared.NewBaseEntity(),
		Description: description,
		Discount:    discount,
	}, nil
}
