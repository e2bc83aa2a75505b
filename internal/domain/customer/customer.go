package customer

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Membership is the loyalty tier of a customer
type Membership string

const (
	MembershipBronze Membership = "B"
	MembershipSilver Membership = "S"
	MembershipGold   Membership = "G"
)

// IsValid returns true if the membership is a known tier
func (m Membership) IsValid() bool {
	switch m {
	case MembershipBronze, MembershipSilver, MembershipGold:
		return true
	}
	return false
}

// Label returns the display name of the tier
func (m Membership) Label() string {
	switch m {
	case MembershipGold:
		return "Gold"
	case MembershipSilver:
		return "Silver"
	case MembershipBronze:
		return "Bronze"
	}
	return string(m)
}

// Customer is the shopper profile attached one-to-one to an authenticated user
type Customer struct {
	shared.BaseAggregateRoot
	UserID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	Phone      string     `gorm:"type:varchar(20);not null"`
	BirthDate  *time.Time `gorm:"type:date"`
	Membership Membership `gorm:"type:varchar(1);not null;default:'B'"`
	Addresses  []Address  `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a customer profile for a user with bronze membership
func NewCustomer(userID uuid.UUID, phone string) (*Customer, error) {
	if userID == uuid.Nil {
		return nil, shared.NewValidationError("user", "This field is required.")
	}
	phone = strings.TrimSpace(phone)
	if err := validatePhone(phone); err != nil {
		return nil, err
	}

	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Phone:             phone,
		Membership:        MembershipBronze,
	}, nil
}

// UpdatePhone changes the contact phone number
func (c *Customer) UpdatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if err := validatePhone(phone); err != nil {
		return err
	}
	c.Phone = phone
	c.Touch()
	return nil
}

// SetBirthDate sets or clears the birth date
func (c *Customer) SetBirthDate(birthDate *time.Time) error {
	if birthDate != nil && birthDate.After(time.Now()) {
		return shared.NewValidationError("birth_date", "Birth date cannot be in the future.")
	}
	c.BirthDate = birthDate
	c.Touch()
	return nil
}

// ChangeMembership moves the customer to another tier
func (c *Customer) ChangeMembership(membership Membership) error {
	if !membership.IsValid() {
		return shared.NewValidationError("membership", "\""+string(membership)+"\" is not a valid choice.")
	}
	c.Membership = membership
	c.Touch()
	return nil
}

// AddAddress attaches a postal address to the customer
func (c *Customer) AddAddress(street, city, zipcode string) (*Address, error) {
	address, err := NewAddress(c.ID, street, city, zipcode)
	if err != nil {
		return nil, err
	}
	c.Addresses = append(c.Addresses, *address)
	c.Touch()
	return address, nil
}

func validatePhone(phone string) error {
	if phone == "" {
		return shared.NewValidationError("phone", "This field may not be blank.")
	}
	if len(phone) > 20 {
		return shared.NewValidationError("phone", "Ensure this field has no more than 20 characters.")
	}
	return nil
}
