package router

import (
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the API handlers mounted by APIRoutes
type Handlers struct {
	Collections *handler.CollectionHandler
	Products    *handler.ProductHandler
	Promotions  *handler.PromotionHandler
	Customers   *handler.CustomerHandler
	Carts       *handler.CartHandler
	Orders      *handler.OrderHandler
}

// APIRoutes returns the storefront resource groups. Catalog reads and carts
// are public; customers and order administration need staff; orders need a
// signed-in caller.
func APIRoutes(h Handlers) []*ResourceGroup {
	collections := NewResourceGroup("collections", "/collections").
		Use(middleware.StaffOrReadOnly()).
		CRUD(h.Collections)

	products := NewResourceGroup("products", "/products").
		Use(middleware.StaffOrReadOnly()).
		CRUD(h.Products)

	promotions := NewResourceGroup("promotions", "/promotions").
		Use(middleware.StaffOrReadOnly()).
		GET("", h.Promotions.List).
		POST("", h.Promotions.Create)

	me := NewResourceGroup("customer-profile", "/customers/me").
		Use(middleware.RequireAuth()).
		GET("", h.Customers.Me).
		PATCH("", h.Customers.UpdateMe)

	customers := NewResourceGroup("customers", "/customers").
		Use(middleware.RequireStaff()).
		GET("", h.Customers.List).
		POST("", h.Customers.Create).
		GET("/:id", h.Customers.Get).
		PUT("/:id", h.Customers.Update).
		PATCH("/:id", h.Customers.Update).
		POST("/:id/addresses", h.Customers.AddAddress)

	carts := NewResourceGroup("carts", "/carts").
		POST("", h.Carts.Create).
		GET("/:id", h.Carts.Get).
		DELETE("/:id", h.Carts.Delete)
	carts.Nested("cart-items", "/:id/items").
		GET("", h.Carts.ListItems).
		POST("", h.Carts.AddItem).
		GET("/:item_id", h.Carts.GetItem).
		PATCH("/:item_id", h.Carts.UpdateItem).
		DELETE("/:item_id", h.Carts.RemoveItem)

	staff := middleware.RequireStaff()
	orders := NewResourceGroup("orders", "/orders").
		Use(middleware.RequireAuth()).
		GET("", h.Orders.List).
		POST("", h.Orders.Place).
		GET("/:id", h.Orders.Get).
		PATCH("/:id", staff, h.Orders.Update).
		DELETE("/:id", staff, h.Orders.Delete)
	orders.Nested("order-items", "/:id/items").
		GET("", h.Orders.ListItems).
		POST("", staff, h.Orders.AddItem).
		GET("/:item_id", h.Orders.GetItem).
		PATCH("/:item_id", staff, h.Orders.UpdateItem).
		DELETE("/:item_id", staff, h.Orders.RemoveItem)

	return []*ResourceGroup{collections, products, promotions, me, customers, carts, orders}
}
