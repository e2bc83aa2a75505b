package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// CollectionService handles collection business operations
type CollectionService struct {
	collectionRepo catalog.CollectionRepository
	productRepo    catalog.ProductRepository
}

// NewCollectionService creates a new CollectionService
func NewCollectionService(collectionRepo catalog.CollectionRepository, productRepo catalog.ProductRepository) *CollectionService {
	return &CollectionService{
		collectionRepo: collectionRepo,
		productRepo:    productRepo,
	}
}

// List returns all collections with their product counts
func (s *CollectionService) List(ctx context.Context) ([]CollectionResponse, error) {
	collections, err := s.collectionRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(collections))
	for i := range collections {
		ids[i] = collections[i].ID
	}
	counts, err := s.productRepo.CountByCollections(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]CollectionResponse, len(collections))
	for i := range collections {
		responses[i] = ToCollectionResponse(&collections[i], counts[collections[i].ID])
	}
	return responses, nil
}

// GetByID retrieves a collection
func (s *CollectionService) GetByID(ctx context.Context, id uuid.UUID) (*CollectionResponse, error) {
	collection, err := s.collectionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, collection)
}

// Create creates a new collection
func (s *CollectionService) Create(ctx context.Context, req CreateCollectionRequest) (*CollectionResponse, error) {
	collection, err := catalog.NewCollection(req.Title)
	if err != nil {
		return nil, err
	}

	if req.FeaturedProductID != nil {
		if err := s.ensureProductExists(ctx, *req.FeaturedProductID); err != nil {
			return nil, err
		}
		collection.SetFeaturedProduct(req.FeaturedProductID)
	}

	if err := s.collectionRepo.Save(ctx, collection); err != nil {
		return nil, err
	}

	response := ToCollectionResponse(collection, 0)
	return &response, nil
}

// Update updates a collection
func (s *CollectionService) Update(ctx context.Context, id uuid.UUID, req UpdateCollectionRequest) (*CollectionResponse, error) {
	collection, err := s.collectionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if err := collection.Rename(*req.Title); err != nil {
			return nil, err
		}
	}

	switch {
	case req.ClearFeaturedProduct:
		collection.SetFeaturedProduct(nil)
	case req.FeaturedProductID != nil:
		if err := s.ensureProductExists(ctx, *req.FeaturedProductID); err != nil {
			return nil, err
		}
		collection.SetFeaturedProduct(req.FeaturedProductID)
	}

	if err := s.collectionRepo.Save(ctx, collection); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, collection)
}

// Delete deletes a collection that no product belongs to
func (s *CollectionService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.collectionRepo.FindByID(ctx, id); err != nil {
		return err
	}

	count, err := s.productRepo.CountByCollection(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewValidationError("collection", "Can't delete the collection as it has products associated with it.")
	}

	return s.collectionRepo.Delete(ctx, id)
}

func (s *CollectionService) toResponse(ctx context.Context, collection *catalog.Collection) (*CollectionResponse, error) {
	count, err := s.productRepo.CountByCollection(ctx, collection.ID)
	if err != nil {
		return nil, err
	}
	response := ToCollectionResponse(collection, count)
	return &response, nil
}

func (s *CollectionService) ensureProductExists(ctx context.Context, productID uuid.UUID) error {
	exists, err := s.productRepo.ExistsByID(ctx, productID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NewValidationError("featured_product", "Invalid pk \""+productID.String()+"\" - object does not exist.")
	}
	return nil
}
