package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderItemReferenceCounter reports how many order items point at a product.
// Orders keep their products, so a referenced product cannot be deleted.
type OrderItemReferenceCounter interface {
	CountItemsByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}

// ProductService handles product business operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	collectionRepo catalog.CollectionRepository
	promotionRepo  catalog.PromotionRepository
	references     OrderItemReferenceCounter
	taxRate        decimal.Decimal
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewProductService creates a new ProductService.
// taxRate is applied to price_with_tax in responses.
func NewProductService(
	productRepo catalog.ProductRepository,
	collectionRepo catalog.CollectionRepository,
	promotionRepo catalog.PromotionRepository,
	references OrderItemReferenceCounter,
	taxRate decimal.Decimal,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:    productRepo,
		collectionRepo: collectionRepo,
		promotionRepo:  promotionRepo,
		references:     references,
		taxRate:        taxRate,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for price change notifications
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// List returns all products ordered by title
func (s *ProductService) List(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i], s.taxRate)
	}
	return responses, nil
}

// GetByID retrieves a product
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product, s.taxRate)
	return &response, nil
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if err := s.ensureCollectionExists(ctx, req.CollectionID); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(req.CollectionID, req.Title, req.Slug, req.UnitPrice, req.Inventory)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description

	if len(req.PromotionIDs) > 0 {
		promotions, err := s.loadPromotions(ctx, req.PromotionIDs)
		if err != nil {
			return nil, err
		}
		product.SetPromotions(promotions)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, product)

	response := ToProductResponse(product, s.taxRate)
	return &response, nil
}

// Update applies the non-nil fields of req to a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil || req.Slug != nil || req.Description != nil {
		title, slug, description := product.Title, product.Slug, product.Description
		if req.Title != nil {
			title = *req.Title
			if req.Slug == nil {
				slug = ""
			}
		}
		if req.Slug != nil {
			slug = *req.Slug
		}
		if req.Description != nil {
			description = *req.Description
		}
		if err := product.Update(title, slug, description); err != nil {
			return nil, err
		}
	}

	if req.UnitPrice != nil {
		if err := product.ChangePrice(*req.UnitPrice); err != nil {
			return nil, err
		}
	}

	if req.Inventory != nil {
		if err := product.SetInventory(*req.Inventory); err != nil {
			return nil, err
		}
	}

	if req.CollectionID != nil && *req.CollectionID != product.CollectionID {
		if err := s.ensureCollectionExists(ctx, *req.CollectionID); err != nil {
			return nil, err
		}
		if err := product.MoveToCollection(*req.CollectionID); err != nil {
			return nil, err
		}
	}

	if req.PromotionIDs != nil {
		promotions, err := s.loadPromotions(ctx, *req.PromotionIDs)
		if err != nil {
			return nil, err
		}
		product.SetPromotions(promotions)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, product)

	response := ToProductResponse(product, s.taxRate)
	return &response, nil
}

// Delete deletes a product unless an order item references it
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}

	count, err := s.references.CountItemsByProduct(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewReferencedError("Product cannot be deleted because it is associated with an order item.")
	}

	return s.productRepo.Delete(ctx, id)
}

func (s *ProductService) ensureCollectionExists(ctx context.Context, collectionID uuid.UUID) error {
	if _, err := s.collectionRepo.FindByID(ctx, collectionID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewValidationError("collection", "Invalid pk \""+collectionID.String()+"\" - object does not exist.")
		}
		return err
	}
	return nil
}

func (s *ProductService) loadPromotions(ctx context.Context, ids []uuid.UUID) ([]catalog.Promotion, error) {
	if len(ids) == 0 {
		return []catalog.Promotion{}, nil
	}
	promotions, err := s.promotionRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	found := make(map[uuid.UUID]bool, len(promotions))
	for _, p := range promotions {
		found[p.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, shared.NewValidationError("promotions", "Invalid pk \""+id.String()+"\" - object does not exist.")
		}
	}
	return promotions, nil
}

func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	events := product.PullEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish product events",
			zap.String("product_id", product.ID.String()),
			zap.Error(err),
		)
	}
}
