package customer

import (
	"context"

	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByUserID resolves the customer owned by an authenticated user
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Customer, error)

	// FindAll returns all customers
	FindAll(ctx context.Context) ([]Customer, error)

	// ExistsByUserID checks whether the user already has a customer profile
	ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error)

	// Save creates or updates a customer together with its addresses
	Save(ctx context.Context, customer *Customer) error
}
