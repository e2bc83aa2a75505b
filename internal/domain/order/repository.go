package order

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindAll returns every order, oldest first
	FindAll(ctx context.Context) ([]Order, error)

	// FindByCustomer returns the orders of one customer, oldest first
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]Order, error)

	// Create inserts an order and bulk-inserts its items
	Create(ctx context.Context, order *Order) error

	// UpdatePaymentStatus persists the payment status of an order
	UpdatePaymentStatus(ctx context.Context, order *Order) error

	// Delete deletes an order that has no items
	Delete(ctx context.Context, id uuid.UUID) error

	// SaveItem creates or updates a single order item
	SaveItem(ctx context.Context, item *OrderItem) error

	// DeleteItem deletes an order item
	DeleteItem(ctx context.Context, orderID, itemID uuid.UUID) error

	// CountItemsByProduct counts order items that reference a product
	CountItemsByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}
