package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// FindByID finds a cart with its items and their products
	FindByID(ctx context.Context, id uuid.UUID) (*Cart, error)

	// Exists checks whether a cart exists
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// Create persists a new cart
	Create(ctx context.Context, cart *Cart) error

	// Delete removes a cart and its items.
	// Returns shared.ErrNotFound when no cart row was removed.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindItem finds a single line of a cart by line ID, product loaded
	FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*CartItem, error)

	// FindItemByProduct finds the line holding productID, if any
	FindItemByProduct(ctx context.Context, cartID, productID uuid.UUID) (*CartItem, error)

	// FindItems returns every line of a cart, products loaded
	FindItems(ctx context.Context, cartID uuid.UUID) ([]CartItem, error)

	// SaveItem creates or updates a line.
	// Returns shared.ErrAlreadyExists if a concurrent insert took the (cart, product) slot.
	SaveItem(ctx context.Context, item *CartItem) error

	// IncreaseItemQuantity adds delta to the stored quantity of a line in a
	// single UPDATE and refreshes item with the result.
	// Returns shared.ErrNotFound when the line no longer exists.
	IncreaseItemQuantity(ctx context.Context, item *CartItem, delta int) error

	// DeleteItem removes a line from a cart
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error
}
