package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// orderItemBatchSize bounds the rows per INSERT when materializing order items
const orderItemBatchSize = 100

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", orderItems)
}

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.withItems(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindAll returns every order, oldest first
func (r *GormOrderRepository) FindAll(ctx context.Context) ([]order.Order, error) {
	var orders []order.Order
	if err := r.withItems(ctx).Order("placed_at, id").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByCustomer returns the orders of one customer, oldest first
func (r *GormOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]order.Order, error) {
	var orders []order.Order
	if err := r.withItems(ctx).
		Where("customer_id = ?", customerID).
		Order("placed_at, id").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Create inserts an order and bulk-inserts its items
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(o).Error; err != nil {
			return translateError(err)
		}
		if len(o.Items) == 0 {
			return nil
		}
		return translateError(tx.CreateInBatches(&o.Items, orderItemBatchSize).Error)
	})
}

// UpdatePaymentStatus persists the payment status of an order
func (r *GormOrderRepository) UpdatePaymentStatus(ctx context.Context, o *order.Order) error {
	result := r.db.WithContext(ctx).Model(&order.Order{}).
		Where("id = ?", o.ID).
		Updates(map[string]any{"payment_status": o.PaymentStatus, "updated_at": o.UpdatedAt})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes an order that has no items
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&order.Order{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SaveItem updates the quantity of an existing order item or inserts a new one
func (r *GormOrderRepository) SaveItem(ctx context.Context, item *order.OrderItem) error {
	db := r.db.WithContext(ctx)
	result := db.Model(&order.OrderItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{"quantity": item.Quantity, "updated_at": item.UpdatedAt})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	return translateError(db.Create(item).Error)
}

// DeleteItem deletes an order item
func (r *GormOrderRepository) DeleteItem(ctx context.Context, orderID, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("order_id = ? AND id = ?", orderID, itemID).Delete(&order.OrderItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountItemsByProduct counts order items that reference a product
func (r *GormOrderRepository) CountItemsByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&order.OrderItem{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

var _ order.OrderRepository = (*GormOrderRepository)(nil)
