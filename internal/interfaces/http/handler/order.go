package handler

import (
	"github.com/gin-gonic/gin"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order and order item endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// requester identifies the caller for order visibility checks
func (h *OrderHandler) requester(c *gin.Context) (orderapp.Requester, bool) {
	userID, ok := h.CurrentUser(c)
	if !ok {
		return orderapp.Requester{}, false
	}
	return orderapp.Requester{UserID: userID, IsStaff: middleware.IsStaff(c)}, true
}

// List handles GET /orders. Staff see every order, customers their own.
func (h *OrderHandler) List(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}
	orders, err := h.orderService.List(c.Request.Context(), requester)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "Order")
	if !ok {
		return
	}
	order, err := h.orderService.GetByID(c.Request.Context(), id, requester)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Place handles POST /orders: the caller's cart becomes an order
func (h *OrderHandler) Place(c *gin.Context) {
	userID, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	var req orderapp.PlaceOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orderService.PlaceOrder(c.Request.Context(), req, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Update handles PATCH /orders/:id (payment status only)
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := h.ParamID(c, "Order")
	if !ok {
		return
	}
	var req orderapp.UpdateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orderService.UpdatePaymentStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete handles DELETE /orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := h.ParamID(c, "Order")
	if !ok {
		return
	}
	if err := h.orderService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListItems handles GET /orders/:id/items
func (h *OrderHandler) ListItems(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "Order")
	if !ok {
		return
	}
	items, err := h.orderService.ListItems(c.Request.Context(), id, requester)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// GetItem handles GET /orders/:id/items/:item_id
func (h *OrderHandler) GetItem(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "Order")
	if !ok {
		return
	}
	itemID, ok := h.ParamItemID(c, "Order item")
	if !ok {
		return
	}
	item, err := h.orderService.GetItem(c.Request.Context(), id, itemID, requester)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// AddItem handles POST /orders/:id/items
func (h *OrderHandler) AddItem(c *gin.Context) {
	id, ok := h.ParamID(c, "Order")
	if !ok {
		return
	}
	var req orderapp.AddOrderItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.orderService.AddItem(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// UpdateItem handles PATCH /orders/:id/items/:item_id
func (h *OrderHandler) UpdateItem(c *gin.Context) {
	id, ok := h.ParamID(c, "Order")
	if !ok {
		return
	}
	itemID, ok := h.ParamItemID(c, "Order item")
	if !ok {
		return
	}
	var req orderapp.UpdateOrderItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.orderService.UpdateItem(c.Request.Context(), id, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// RemoveItem handles DELETE /orders/:id/items/:item_id
func (h *OrderHandler) RemoveItem(c *gin.Context) {
	id, ok := h.ParamID(c, "Order")
	if !ok {
		return
	}
	itemID, ok := h.ParamItemID(c, "Order item")
	if !ok {
		return
	}
	if err := h.orderService.RemoveItem(c.Request.Context(), id, itemID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
