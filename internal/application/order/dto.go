package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
)

// Requester identifies the authenticated caller of an order operation
type Requester struct {
	UserID  uuid.UUID
	IsStaff bool
}

// PlaceOrderRequest represents a request to check out a cart; the cart is
// addressed by its own id
type PlaceOrderRequest struct {
	CartID uuid.UUID `json:"id" binding:"required"`
}

// UpdateOrderRequest represents an administrator's payment status change
type UpdateOrderRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required,oneof=P F C"`
}

// AddOrderItemRequest represents an administrator adding a product to an order
type AddOrderItemRequest struct {
	ProductID uuid.UUID `json:"product" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpdateOrderItemRequest represents an administrator changing an item quantity
type UpdateOrderItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// OrderItemResponse represents an order item in API responses
type OrderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   uuid.UUID       `json:"order_id"`
	ProductID uuid.UUID       `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	CustomerID    uuid.UUID           `json:"customer"`
	PlacedAt      time.Time           `json:"placed_at"`
	PaymentStatus string              `json:"payment_status"`
	Items         []OrderItemResponse `json:"items"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
}

// ToOrderItemResponse converts a domain OrderItem to a response
func ToOrderItemResponse(item *order.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:        item.ID,
		OrderID:   item.OrderID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
	}
}

// ToOrderItemResponses converts domain order items to responses
func ToOrderItemResponses(items []order.OrderItem) []OrderItemResponse {
	responses := make([]OrderItemResponse, len(items))
	for i := range items {
		responses[i] = ToOrderItemResponse(&items[i])
	}
	return responses
}

// ToOrderResponse converts a domain Order to a response
func ToOrderResponse(o *order.Order) OrderResponse {
	return OrderResponse{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		PlacedAt:      o.PlacedAt,
		PaymentStatus: string(o.PaymentStatus),
		Items:         ToOrderItemResponses(o.Items),
		TotalAmount:   o.TotalAmount(),
	}
}
