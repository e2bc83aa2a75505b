package catalog

import (
	"context"

	"github.com/google/uuid"
)

// CollectionRepository defines the interface for collection persistence
type CollectionRepository interface {
	// FindByID finds a collection by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Collection, error)

	// FindAll returns all collections ordered by title
	FindAll(ctx context.Context) ([]Collection, error)

	// Save creates or updates a collection
	Save(ctx context.Context, collection *Collection) error

	// Delete deletes a collection
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID, promotions included
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll returns all products ordered by title
	FindAll(ctx context.Context) ([]Product, error)

	// ExistsByID checks whether a product exists
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product, removes it from carts and clears it as a featured product
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByCollection counts products in a collection
	CountByCollection(ctx context.Context, collectionID uuid.UUID) (int64, error)

	// CountByCollections counts products for each of the given collections
	CountByCollections(ctx context.Context, collectionIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

// PromotionRepository defines the interface for promotion persistence
type PromotionRepository interface {
	// FindByID finds a promotion by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Promotion, error)

	// FindByIDs finds multiple promotions by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Promotion, error)

	// FindAll returns all promotions
	FindAll(ctx context.Context) ([]Promotion, error)

	// Save creates or updates a promotion
	Save(ctx context.Context, promotion *Promotion) error
}
