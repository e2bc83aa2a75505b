package order

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// OrderService handles checkout and order administration
type OrderService struct {
	txScope        TransactionScope
	orderRepo      order.OrderRepository
	customerRepo   customer.CustomerRepository
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	txScope TransactionScope,
	orderRepo order.OrderRepository,
	customerRepo customer.CustomerRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		txScope:      txScope,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for order notifications
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// PlaceOrder converts the cart into an order for the customer owned by userID.
//
// The cart must exist and hold at least one item. The order, its items (priced
// at the products' current unit prices) and the removal of the cart are
// committed in one transaction. order_created is published only after the
// commit; a failing listener never undoes or hides the placed order.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest, userID uuid.UUID) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "place",
		attribute.String("cart_id", req.CartID.String()),
		attribute.String("user_id", userID.String()),
	)
	defer span.End()

	var placed *order.Order

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		c, err := repos.CartRepo().FindByID(ctx, req.CartID)
		if err != nil {
			if shared.IsNotFound(err) {
				return shared.NewNotFoundError("Cart")
			}
			return err
		}
		if c.IsEmpty() {
			return shared.ErrEmptyCart
		}

		buyer, err := repos.CustomerRepo().FindByUserID(ctx, userID)
		if err != nil {
			if shared.IsNotFound(err) {
				return shared.NewNotFoundError("Customer")
			}
			return err
		}

		lines, err := s.snapshotLines(ctx, repos.ProductRepo(), c)
		if err != nil {
			return err
		}

		o, err := order.Place(buyer.ID, lines)
		if err != nil {
			return err
		}

		if err := repos.OrderRepo().Create(ctx, o); err != nil {
			return err
		}

		// The cart was read above; if it is gone now another checkout consumed it.
		if err := repos.CartRepo().Delete(ctx, c.ID); err != nil {
			if shared.IsNotFound(err) {
				return shared.ErrConcurrencyConflict
			}
			return err
		}

		placed = o
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("order_id", placed.ID.String()),
		attribute.Int("items_count", len(placed.Items)),
	)

	s.logger.Info("Order placed",
		zap.String("order_id", placed.ID.String()),
		zap.String("customer_id", placed.CustomerID.String()),
		zap.String("cart_id", req.CartID.String()),
		zap.Int("item_count", len(placed.Items)),
	)

	s.publishEvents(ctx, placed)

	response := ToOrderResponse(placed)
	return &response, nil
}

// snapshotLines turns cart items into order lines priced at the products' current unit price
func (s *OrderService) snapshotLines(ctx context.Context, products catalog.ProductRepository, c *cart.Cart) ([]order.Line, error) {
	lines := make([]order.Line, 0, len(c.Items))
	for i := range c.Items {
		item := &c.Items[i]
		product := item.Product
		if product == nil {
			p, err := products.FindByID(ctx, item.ProductID)
			if err != nil {
				return nil, err
			}
			product = p
		}
		lines = append(lines, order.Line{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.UnitPrice,
		})
	}
	return lines, nil
}

// List returns every order for staff, otherwise the caller's own orders
func (s *OrderService) List(ctx context.Context, requester Requester) ([]OrderResponse, error) {
	var (
		orders []order.Order
		err    error
	)
	if requester.IsStaff {
		orders, err = s.orderRepo.FindAll(ctx)
	} else {
		var buyer *customer.Customer
		buyer, err = s.resolveCustomer(ctx, requester.UserID)
		if err != nil {
			return nil, err
		}
		orders, err = s.orderRepo.FindByCustomer(ctx, buyer.ID)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses, nil
}

// GetByID retrieves an order visible to the requester
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID, requester Requester) (*OrderResponse, error) {
	o, err := s.findVisible(ctx, id, requester)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// UpdatePaymentStatus changes the payment status of an order
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	o, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := o.UpdatePaymentStatus(order.PaymentStatus(req.PaymentStatus)); err != nil {
		return nil, err
	}

	if err := s.orderRepo.UpdatePaymentStatus(ctx, o); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

// Delete removes an order that no longer has items
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	o, err := s.findOrder(ctx, id)
	if err != nil {
		return err
	}
	if err := o.EnsureDeletable(); err != nil {
		return err
	}
	return s.orderRepo.Delete(ctx, id)
}

// ListItems returns the items of an order visible to the requester
func (s *OrderService) ListItems(ctx context.Context, orderID uuid.UUID, requester Requester) ([]OrderItemResponse, error) {
	o, err := s.findVisible(ctx, orderID, requester)
	if err != nil {
		return nil, err
	}
	return ToOrderItemResponses(o.Items), nil
}

// GetItem returns one item of an order visible to the requester
func (s *OrderService) GetItem(ctx context.Context, orderID, itemID uuid.UUID, requester Requester) (*OrderItemResponse, error) {
	o, err := s.findVisible(ctx, orderID, requester)
	if err != nil {
		return nil, err
	}
	item := o.FindItem(itemID)
	if item == nil {
		return nil, shared.NewNotFoundError("Order item")
	}
	response := ToOrderItemResponse(item)
	return &response, nil
}

// AddItem adds a product to an existing order, priced at the product's current unit price
func (s *OrderService) AddItem(ctx context.Context, orderID uuid.UUID, req AddOrderItemRequest) (*OrderItemResponse, error) {
	o, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewValidationError("product", "Invalid pk \""+req.ProductID.String()+"\" - object does not exist.")
		}
		return nil, err
	}

	item, err := o.AddItem(product.ID, req.Quantity, product.UnitPrice)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveItem(ctx, item); err != nil {
		return nil, err
	}

	response := ToOrderItemResponse(item)
	return &response, nil
}

// UpdateItem changes the quantity of an order item; its price stays as snapshotted
func (s *OrderService) UpdateItem(ctx context.Context, orderID, itemID uuid.UUID, req UpdateOrderItemRequest) (*OrderItemResponse, error) {
	o, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	item := o.FindItem(itemID)
	if item == nil {
		return nil, shared.NewNotFoundError("Order item")
	}

	if err := item.SetQuantity(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveItem(ctx, item); err != nil {
		return nil, err
	}

	response := ToOrderItemResponse(item)
	return &response, nil
}

// RemoveItem deletes an item from an order
func (s *OrderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) error {
	o, err := s.findOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if o.FindItem(itemID) == nil {
		return shared.NewNotFoundError("Order item")
	}
	return s.orderRepo.DeleteItem(ctx, orderID, itemID)
}

func (s *OrderService) findOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError("Order")
		}
		return nil, err
	}
	return o, nil
}

// findVisible hides other customers' orders behind NOT_FOUND
func (s *OrderService) findVisible(ctx context.Context, id uuid.UUID, requester Requester) (*order.Order, error) {
	o, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if requester.IsStaff {
		return o, nil
	}

	buyer, err := s.resolveCustomer(ctx, requester.UserID)
	if err != nil {
		return nil, err
	}
	if !o.IsOwnedBy(buyer.ID) {
		return nil, shared.NewNotFoundError("Order")
	}
	return o, nil
}

func (s *OrderService) resolveCustomer(ctx context.Context, userID uuid.UUID) (*customer.Customer, error) {
	buyer, err := s.customerRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Customer")
		}
		return nil, err
	}
	return buyer, nil
}

func (s *OrderService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	events := aggregate.PullEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish order events",
			zap.String("order_id", aggregate.GetID().String()),
			zap.Error(err),
		)
	}
}
