package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// PaymentStatus is the payment state of an order
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "P"
	PaymentStatusFailed   PaymentStatus = "F"
	PaymentStatusComplete PaymentStatus = "C"
)

// IsValid returns true if the status is a known payment status
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusFailed, PaymentStatusComplete:
		return true
	}
	return false
}

// Label returns the display name of the status
func (s PaymentStatus) Label() string {
	switch s {
	case PaymentStatusPending:
		return "Pending"
	case PaymentStatusFailed:
		return "Failed"
	case PaymentStatusComplete:
		return "Complete"
	}
	return string(s)
}

// Line is a product and quantity to be turned into an order item, priced at placement time
type Line struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// Order is the durable record of a checkout. Apart from its payment status it
// never changes after placement, and its items carry their own prices.
type Order struct {
	shared.BaseAggregateRoot
	CustomerID    uuid.UUID     `gorm:"type:uuid;not null;index"`
	PlacedAt      time.Time     `gorm:"not null;index"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(1);not null;default:'P'"`
	Items         []OrderItem   `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// Place creates a pending order for the customer with one item per line.
// Each item keeps the unit price given in its line, so later catalog price
// changes never reach the order.
func Place(customerID uuid.UUID, lines []Line) (*Order, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("customer", "This field is required.")
	}
	if len(lines) == 0 {
		return nil, shared.ErrEmptyCart
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		PaymentStatus:     PaymentStatusPending,
		Items:             make([]OrderItem, 0, len(lines)),
	}
	order.PlacedAt = order.CreatedAt

	for _, line := range lines {
		if _, err := order.AddItem(line.ProductID, line.Quantity, line.UnitPrice); err != nil {
			return nil, err
		}
	}

	order.Record(NewOrderCreatedEvent(order))

	return order, nil
}

// AddItem appends an item priced at unitPrice
func (o *Order) AddItem(productID uuid.UUID, quantity int, unitPrice decimal.Decimal) (*OrderItem, error) {
	item, err := NewOrderItem(o.ID, productID, quantity, unitPrice)
	if err != nil {
		return nil, err
	}
	o.Items = append(o.Items, *item)
	o.Touch()
	return item, nil
}

// FindItem returns the item with the given ID, or nil
func (o *Order) FindItem(itemID uuid.UUID) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

// UpdatePaymentStatus sets any valid payment status; staff may correct a
// completed payment back to pending or failed
func (o *Order) UpdatePaymentStatus(status PaymentStatus) error {
	if !status.IsValid() {
		return shared.NewValidationError("payment_status", "\""+string(status)+"\" is not a valid choice.")
	}
	if o.PaymentStatus == status {
		return nil
	}
	old := o.PaymentStatus
	o.PaymentStatus = status
	o.Touch()

	o.Record(NewOrderPaymentStatusChangedEvent(o, old))

	return nil
}

// EnsureDeletable refuses deletion while items still reference the order
func (o *Order) EnsureDeletable() error {
	if len(o.Items) > 0 {
		return shared.NewReferencedError("Order cannot be deleted because it has order items.")
	}
	return nil
}

// TotalAmount sums the snapshotted item totals
func (o *Order) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Amount())
	}
	return total
}

// IsOwnedBy returns true if the order belongs to the customer
func (o *Order) IsOwnedBy(customerID uuid.UUID) bool {
	return o.CustomerID == customerID
}

// OrderItem is a product line of an order with its price frozen at placement
type OrderItem struct {
	shared.BaseEntity
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(8,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates an order item
func NewOrderItem(orderID, productID uuid.UUID, quantity int, unitPrice decimal.Decimal) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("product", "This field is required.")
	}
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("unit_price", "Ensure this value is greater than or equal to 0.")
	}
	return &OrderItem{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    orderID,
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice.Round(2),
	}, nil
}

// SetQuantity replaces the quantity of the item
func (i *OrderItem) SetQuantity(quantity int) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}
	i.Quantity = quantity
	i.Touch()
	return nil
}

// Amount returns quantity times the snapshotted unit price
func (i *OrderItem) Amount() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ValidateQuantity rejects quantities below one
func ValidateQuantity(quantity int) error {
	if quantity < 1 {
		return shared.NewValidationError("quantity", "Ensure this value is greater than or equal to 1.")
	}
	return nil
}
