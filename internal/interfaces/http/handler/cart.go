package handler

import (
	"github.com/gin-gonic/gin"
	cartapp "github.com/storefront/backend/internal/application/cart"
)

// CartHandler handles cart and cart item endpoints. Carts are anonymous:
// whoever holds the cart ID may use it.
type CartHandler struct {
	BaseHandler
	cartService *cartapp.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cartapp.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Create handles POST /carts
func (h *CartHandler) Create(c *gin.Context) {
	cart, err := h.cartService.Create(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, cart)
}

// Get handles GET /carts/:id
func (h *CartHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c, "Cart")
	if !ok {
		return
	}
	cart, err := h.cartService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// Delete handles DELETE /carts/:id. Only an empty cart may be deleted.
func (h *CartHandler) Delete(c *gin.Context) {
	id, ok := h.ParamID(c, "Cart")
	if !ok {
		return
	}
	if err := h.cartService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListItems handles GET /carts/:id/items
func (h *CartHandler) ListItems(c *gin.Context) {
	id, ok := h.ParamID(c, "Cart")
	if !ok {
		return
	}
	items, err := h.cartService.ListItems(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// GetItem handles GET /carts/:id/items/:item_id
func (h *CartHandler) GetItem(c *gin.Context) {
	id, ok := h.ParamID(c, "Cart")
	if !ok {
		return
	}
	itemID, ok := h.ParamItemID(c, "Cart item")
	if !ok {
		return
	}
	item, err := h.cartService.GetItem(c.Request.Context(), id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// AddItem handles POST /carts/:id/items. Adding a product already in the
// cart increases its quantity instead of creating a second line.
func (h *CartHandler) AddItem(c *gin.Context) {
	id, ok := h.ParamID(c, "Cart")
	if !ok {
		return
	}
	var req cartapp.AddCartItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.cartService.AddItem(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// UpdateItem handles PATCH /carts/:id/items/:item_id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	id, ok := h.ParamID(c, "Cart")
	if !ok {
		return
	}
	itemID, ok := h.ParamItemID(c, "Cart item")
	if !ok {
		return
	}
	var req cartapp.UpdateCartItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.cartService.UpdateItem(c.Request.Context(), id, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// RemoveItem handles DELETE /carts/:id/items/:item_id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	id, ok := h.ParamID(c, "Cart")
	if !ok {
		return
	}
	itemID, ok := h.ParamItemID(c, "Cart item")
	if !ok {
		return
	}
	if err := h.cartService.RemoveItem(c.Request.Context(), id, itemID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
