package customer

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customer"
)

// dateLayout is the wire format of birth dates
const dateLayout = "2006-01-02"

// CreateCustomerRequest represents a request to create a customer profile
type CreateCustomerRequest struct {
	UserID     uuid.UUID `json:"user" binding:"required"`
	Phone      string    `json:"phone" binding:"required,min=1,max=20"`
	BirthDate  *string   `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
	Membership string    `json:"membership" binding:"omitempty,oneof=B S G"`
}

// UpdateCustomerRequest represents a request to update a customer profile.
// Nil fields are left unchanged.
type UpdateCustomerRequest struct {
	Phone      *string `json:"phone" binding:"omitempty,min=1,max=20"`
	BirthDate  *string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
	Membership *string `json:"membership" binding:"omitempty,oneof=B S G"`
}

// AddAddressRequest represents a request to add an address
type AddAddressRequest struct {
	Street  string `json:"street" binding:"required,max=255"`
	City    string `json:"city" binding:"required,max=255"`
	Zipcode string `json:"zipcode" binding:"required,max=30"`
}

// AddressResponse represents an address in API responses
type AddressResponse struct {
	ID      uuid.UUID `json:"id"`
	Street  string    `json:"street"`
	City    string    `json:"city"`
	Zipcode string    `json:"zipcode"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID         uuid.UUID         `json:"id"`
	UserID     uuid.UUID         `json:"user"`
	Phone      string            `json:"phone"`
	BirthDate  *string           `json:"birth_date"`
	Membership string            `json:"membership"`
	Addresses  []AddressResponse `json:"addresses"`
	CreatedAt  time.Time         `json:"created_at"`
}

// ToCustomerResponse converts a domain Customer to a response
func ToCustomerResponse(c *customer.Customer) CustomerResponse {
	var birthDate *string
	if c.BirthDate != nil {
		formatted := c.BirthDate.Format(dateLayout)
		birthDate = &formatted
	}

	addresses := make([]AddressResponse, len(c.Addresses))
	for i, a := range c.Addresses {
		addresses[i] = AddressResponse{
			ID:      a.ID,
			Street:  a.Street,
			City:    a.City,
			Zipcode: a.Zipcode,
		}
	}

	return CustomerResponse{
		ID:         c.ID,
		UserID:     c.UserID,
		Phone:      c.Phone,
		BirthDate:  birthDate,
		Membership: string(c.Membership),
		Addresses:  addresses,
		CreatedAt:  c.CreatedAt,
	}
}
