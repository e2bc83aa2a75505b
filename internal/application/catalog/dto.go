package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// ==================== Collection DTOs ====================

// CreateCollectionRequest represents a request to create a collection
type CreateCollectionRequest struct {
	Title             string     `json:"title" binding:"required,min=1,max=255"`
	FeaturedProductID *uuid.UUID `json:"featured_product"`
}

// UpdateCollectionRequest represents a request to update a collection
type UpdateCollectionRequest struct {
	Title                *string    `json:"title" binding:"omitempty,min=1,max=255"`
	FeaturedProductID    *uuid.UUID `json:"featured_product"`
	ClearFeaturedProduct bool       `json:"clear_featured_product"`
}

// CollectionResponse represents a collection in API responses
type CollectionResponse struct {
	ID                uuid.UUID  `json:"id"`
	Title             string     `json:"title"`
	FeaturedProductID *uuid.UUID `json:"featured_product"`
	ProductsCount     int64      `json:"products_count"`
}

// ToCollectionResponse converts a domain Collection to a response
func ToCollectionResponse(c *catalog.Collection, productsCount int64) CollectionResponse {
	return CollectionResponse{
		ID:                c.ID,
		Title:             c.Title,
		FeaturedProductID: c.FeaturedProductID,
		ProductsCount:     productsCount,
	}
}

// ==================== Product DTOs ====================

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Title        string          `json:"title" binding:"required,min=1,max=255"`
	Slug         string          `json:"slug" binding:"max=255"`
	Description  string          `json:"description"`
	UnitPrice    decimal.Decimal `json:"unit_price" binding:"required"`
	Inventory    int             `json:"inventory" binding:"min=0"`
	CollectionID uuid.UUID       `json:"collection" binding:"required"`
	PromotionIDs []uuid.UUID     `json:"promotions"`
}

// UpdateProductRequest represents a request to update a product.
// Nil fields are left unchanged, so the same request serves PUT and PATCH.
type UpdateProductRequest struct {
	Title        *string          `json:"title" binding:"omitempty,min=1,max=255"`
	Slug         *string          `json:"slug" binding:"omitempty,max=255"`
	Description  *string          `json:"description"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	Inventory    *int             `json:"inventory" binding:"omitempty,min=0"`
	CollectionID *uuid.UUID       `json:"collection"`
	PromotionIDs *[]uuid.UUID     `json:"promotions"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID              uuid.UUID           `json:"id"`
	Title           string              `json:"title"`
	Slug            string              `json:"slug"`
	Description     string              `json:"description"`
	UnitPrice       decimal.Decimal     `json:"unit_price"`
	PriceWithTax    decimal.Decimal     `json:"price_with_tax"`
	Inventory       int                 `json:"inventory"`
	InventoryStatus string              `json:"inventory_status"`
	CollectionID    uuid.UUID           `json:"collection"`
	Promotions      []PromotionResponse `json:"promotions"`
	LastUpdate      time.Time           `json:"last_update"`
}

// ToProductResponse converts a domain Product to a response
func ToProductResponse(p *catalog.Product, taxRate decimal.Decimal) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		Title:           p.Title,
		Slug:            p.Slug,
		Description:     p.Description,
		UnitPrice:       p.UnitPrice,
		PriceWithTax:    p.PriceWithTax(taxRate),
		Inventory:       p.Inventory,
		InventoryStatus: p.InventoryStatus(),
		CollectionID:    p.CollectionID,
		Promotions:      ToPromotionResponses(p.Promotions),
		LastUpdate:      p.UpdatedAt,
	}
}

// ==================== Promotion DTOs ====================

// CreatePromotionRequest represents a request to create a promotion
type CreatePromotionRequest struct {
	Description string  `json:"description" binding:"required,min=1,max=255"`
	Discount    float64 `json:"discount" binding:"min=0"`
}

// PromotionResponse represents a promotion in API responses
type PromotionResponse struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Discount    float64   `json:"discount"`
}

// ToPromotionResponses converts domain promotions to responses
func ToPromotionResponses(promotions []catalog.Promotion) []PromotionResponse {
	responses := make([]PromotionResponse, len(promotions))
	for i, p := range promotions {
		responses[i] = PromotionResponse{
			ID:          p.ID,
			Description: p.Description,
			Discount:    p.Discount,
		}
	}
	return responses
}
