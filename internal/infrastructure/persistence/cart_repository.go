package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

func orderItems(db *gorm.DB) *gorm.DB {
	return db.Order("created_at, id")
}

// FindByID finds a cart with its items and their products
func (r *GormCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	var c cart.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items", orderItems).
		Preload("Items.Product").
		First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Exists checks whether a cart exists
func (r *GormCartRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&cart.Cart{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create persists a new cart
func (r *GormCartRepository) Create(ctx context.Context, c *cart.Cart) error {
	return translateError(r.db.WithContext(ctx).Omit("Items").Create(c).Error)
}

// Delete removes a cart and its items.
// Returns shared.ErrNotFound when no cart row was removed, which inside a
// checkout means a concurrent transaction already consumed the cart.
func (r *GormCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&cart.Cart{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("cart_id = ?", id).Delete(&cart.CartItem{}).Error
	})
}

// FindItem finds a single line of a cart by line ID, product loaded
func (r *GormCartRepository) FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*cart.CartItem, error) {
	var item cart.CartItem
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ? AND id = ?", cartID, itemID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindItemByProduct finds the line holding productID
func (r *GormCartRepository) FindItemByProduct(ctx context.Context, cartID, productID uuid.UUID) (*cart.CartItem, error) {
	var item cart.CartItem
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindItems returns every line of a cart, products loaded
func (r *GormCartRepository) FindItems(ctx context.Context, cartID uuid.UUID) ([]cart.CartItem, error) {
	var items []cart.CartItem
	if err := orderItems(r.db.WithContext(ctx)).
		Preload("Product").
		Where("cart_id = ?", cartID).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SaveItem updates the quantity of an existing line or inserts a new one.
// An insert racing another for the same (cart, product) pair fails with
// shared.ErrAlreadyExists through the unique index.
func (r *GormCartRepository) SaveItem(ctx context.Context, item *cart.CartItem) error {
	db := r.db.WithContext(ctx)
	result := db.Model(&cart.CartItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{"quantity": item.Quantity, "updated_at": item.UpdatedAt})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	return translateError(db.Omit("Product").Create(item).Error)
}

// IncreaseItemQuantity adds delta to a line with quantity = quantity + delta,
// so concurrent adds of the same product never overwrite each other
func (r *GormCartRepository) IncreaseItemQuantity(ctx context.Context, item *cart.CartItem, delta int) error {
	if err := cart.ValidateQuantity(delta); err != nil {
		return err
	}
	now := time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&cart.CartItem{}).
			Where("id = ?", item.ID).
			Updates(map[string]any{
				"quantity":   gorm.Expr("quantity + ?", delta),
				"updated_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		var quantity int
		if err := tx.Model(&cart.CartItem{}).
			Where("id = ?", item.ID).
			Select("quantity").
			Scan(&quantity).Error; err != nil {
			return err
		}
		item.Quantity = quantity
		item.UpdatedAt = now
		return nil
	})
}

// DeleteItem removes a line from a cart
func (r *GormCartRepository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("cart_id = ? AND id = ?", cartID, itemID).Delete(&cart.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ cart.CartRepository = (*GormCartRepository)(nil)
