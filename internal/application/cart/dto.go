package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
)

// AddCartItemRequest represents a request to put a product into a cart
type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest represents a request to change the quantity of a cart line
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CartProductResponse is the product summary embedded in cart lines
type CartProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	Title        string          `json:"title"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	CollectionID uuid.UUID       `json:"collection"`
}

// CartItemResponse represents a cart line in API responses
type CartItemResponse struct {
	ID         uuid.UUID            `json:"id"`
	Product    *CartProductResponse `json:"product"`
	Quantity   int                  `json:"quantity"`
	TotalPrice decimal.Decimal      `json:"total_price"`
}

// AddCartItemResponse is returned after an upsert
type AddCartItemResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// CartResponse represents a cart in API responses
type CartResponse struct {
	ID         uuid.UUID          `json:"id"`
	CreatedAt  time.Time          `json:"created_at"`
	Items      []CartItemResponse `json:"items"`
	TotalPrice decimal.Decimal    `json:"total_price"`
}

// ToCartItemResponse converts a domain CartItem to a response
func ToCartItemResponse(item *cart.CartItem) CartItemResponse {
	response := CartItemResponse{
		ID:         item.ID,
		Quantity:   item.Quantity,
		TotalPrice: item.TotalPrice(),
	}
	if item.Product != nil {
		response.Product = &CartProductResponse{
			ID:           item.Product.ID,
			Title:        item.Product.Title,
			UnitPrice:    item.Product.UnitPrice,
			CollectionID: item.Product.CollectionID,
		}
	}
	return response
}

// ToCartItemResponses converts domain cart items to responses
func ToCartItemResponses(items []cart.CartItem) []CartItemResponse {
	responses := make([]CartItemResponse, len(items))
	for i := range items {
		responses[i] = ToCartItemResponse(&items[i])
	}
	return responses
}

// ToCartResponse converts a domain Cart to a response
func ToCartResponse(c *cart.Cart) CartResponse {
	return CartResponse{
		ID:         c.ID,
		CreatedAt:  c.CreatedAt,
		Items:      ToCartItemResponses(c.Items),
		TotalPrice: c.TotalPrice(),
	}
}

// ToAddCartItemResponse converts a domain CartItem to an upsert response
func ToAddCartItemResponse(item *cart.CartItem) AddCartItemResponse {
	return AddCartItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	}
}
