package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductChecker tells whether a product exists in the catalog
type ProductChecker interface {
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}

// CartService handles cart and cart line operations
type CartService struct {
	cartRepo cart.CartRepository
	products ProductChecker
	logger   *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(cartRepo cart.CartRepository, products ProductChecker, logger *zap.Logger) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		products: products,
		logger:   logger,
	}
}

// Create creates an empty cart
func (s *CartService) Create(ctx context.Context) (*CartResponse, error) {
	c := cart.NewCart()
	if err := s.cartRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	response := ToCartResponse(c)
	return &response, nil
}

// GetByID retrieves a cart with its lines and live total
func (s *CartService) GetByID(ctx context.Context, id uuid.UUID) (*CartResponse, error) {
	c, err := s.cartRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCartResponse(c)
	return &response, nil
}

// Delete deletes an empty cart
func (s *CartService) Delete(ctx context.Context, id uuid.UUID) error {
	c, err := s.cartRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := c.EnsureDeletable(); err != nil {
		return err
	}
	return s.cartRepo.Delete(ctx, id)
}

// ListItems returns the lines of a cart
func (s *CartService) ListItems(ctx context.Context, cartID uuid.UUID) ([]CartItemResponse, error) {
	if err := s.ensureCartExists(ctx, cartID); err != nil {
		return nil, err
	}
	items, err := s.cartRepo.FindItems(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return ToCartItemResponses(items), nil
}

// GetItem returns one line of a cart
func (s *CartService) GetItem(ctx context.Context, cartID, itemID uuid.UUID) (*CartItemResponse, error) {
	item, err := s.cartRepo.FindItem(ctx, cartID, itemID)
	if err != nil {
		return nil, err
	}
	response := ToCartItemResponse(item)
	return &response, nil
}

// AddItem puts a product into a cart. Adding a product the cart already holds
// increases the quantity of the existing line instead of creating a second one.
func (s *CartService) AddItem(ctx context.Context, cartID uuid.UUID, req AddCartItemRequest) (*AddCartItemResponse, error) {
	exists, err := s.products.ExistsByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewValidationError("product_id", "No product with the given ID was found.")
	}
	if err := cart.ValidateQuantity(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.ensureCartExists(ctx, cartID); err != nil {
		return nil, err
	}

	item, err := s.upsertItem(ctx, cartID, req)
	if errors.Is(err, shared.ErrAlreadyExists) {
		// a concurrent request inserted the line first; accumulate onto it
		s.logger.Debug("cart line inserted concurrently, retrying as increment",
			zap.String("cart_id", cartID.String()),
			zap.String("product_id", req.ProductID.String()),
		)
		item, err = s.upsertItem(ctx, cartID, req)
	}
	if err != nil {
		return nil, err
	}

	response := ToAddCartItemResponse(item)
	return &response, nil
}

// UpdateItem replaces the quantity of a cart line
func (s *CartService) UpdateItem(ctx context.Context, cartID, itemID uuid.UUID, req UpdateCartItemRequest) (*CartItemResponse, error) {
	item, err := s.cartRepo.FindItem(ctx, cartID, itemID)
	if err != nil {
		return nil, err
	}
	if err := item.SetQuantity(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.cartRepo.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	response := ToCartItemResponse(item)
	return &response, nil
}

// RemoveItem removes a line from a cart
func (s *CartService) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	if _, err := s.cartRepo.FindItem(ctx, cartID, itemID); err != nil {
		return err
	}
	return s.cartRepo.DeleteItem(ctx, cartID, itemID)
}

func (s *CartService) upsertItem(ctx context.Context, cartID uuid.UUID, req AddCartItemRequest) (*cart.CartItem, error) {
	item, err := s.cartRepo.FindItemByProduct(ctx, cartID, req.ProductID)
	if err == nil {
		if err := s.cartRepo.IncreaseItemQuantity(ctx, item, req.Quantity); err != nil {
			return nil, err
		}
		return item, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	item, err = cart.NewCartItem(cartID, req.ProductID, req.Quantity)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CartService) ensureCartExists(ctx context.Context, cartID uuid.UUID) error {
	exists, err := s.cartRepo.Exists(ctx, cartID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NewNotFoundError("Cart")
	}
	return nil
}
