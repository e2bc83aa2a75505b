package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCustomerRepository loads customers with their addresses preloaded
type GormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Addresses", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at, id")
	})
}

func (r *GormCustomerRepository) findOne(ctx context.Context, column string, value uuid.UUID) (*customer.Customer, error) {
	c := new(customer.Customer)
	if err := r.query(ctx).Where(column+" = ?", value).First(c).Error; err != nil {
		return nil, translateError(err)
	}
	return c, nil
}

func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	return r.findOne(ctx, "id", id)
}

// FindByUserID maps an authenticated user to their customer profile
func (r *GormCustomerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*customer.Customer, error) {
	return r.findOne(ctx, "user_id", userID)
}

func (r *GormCustomerRepository) FindAll(ctx context.Context) ([]customer.Customer, error) {
	var out []customer.Customer
	err := r.query(ctx).Order("created_at, id").Find(&out).Error
	return out, err
}

func (r *GormCustomerRepository) ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error) {
	_, err := r.findOne(ctx, "user_id", userID)
	switch {
	case err == nil:
		return true, nil
	case shared.IsNotFound(err):
		return false, nil
	}
	return false, err
}

// Save upserts the customer; addresses ride along through GORM associations
func (r *GormCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	return translateError(r.db.WithContext(ctx).Save(c).Error)
}

var _ customer.CustomerRepository = (*GormCustomerRepository)(nil)
