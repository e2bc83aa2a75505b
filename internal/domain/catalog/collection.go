package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Collection groups products for browsing. Collections are listed by title.
type Collection struct {
	shared.BaseAggregateRoot
	Title string `gorm:"type:varchar(255);not null;index"`
	// FeaturedProductID is cleared when the featured product is deleted
	FeaturedProductID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Collection) TableName() string {
	return "collections"
}

// NewCollection creates a new collection
func NewCollection(title string) (*Collection, error) {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	collection := &Collection{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
	}
	collection.Record(NewCollectionCreatedEvent(collection))

	return collection, nil
}

// Rename changes the collection title
func (c *Collection) Rename(title string) error {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return err
	}

	c.Title = title
	c.Touch()
	return nil
}

// SetFeaturedProduct sets or clears the featured product
func (c *Collection) SetFeaturedProduct(productID *uuid.UUID) {
	c.FeaturedProductID = productID
	c.Touch()
}

// HasFeaturedProduct returns true if a featured product is set
func (c *Collection) HasFeaturedProduct() bool {
	return c.FeaturedProductID != nil
}

func validateTitle(title string) error {
	if title == "" {
		return shared.NewValidationError("title", "This field may not be blank.")
	}
	if len(title) > 255 {
		return shared.NewValidationError("title", "Ensure this field has no more than 255 characters.")
	}
	return nil
}
