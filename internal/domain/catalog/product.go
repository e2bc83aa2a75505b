package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// LowInventoryThreshold is the stock level under which inventory is reported as low
const LowInventoryThreshold = 10

// MaxUnitPrice is the largest price a decimal(8,2) column can hold
var MaxUnitPrice = decimal.RequireFromString("999999.99")

// Product is a sellable item in the catalog.
// Its UnitPrice is the live price; orders copy it at placement time.
type Product struct {
	shared.BaseAggregateRoot
	Title        string          `gorm:"type:varchar(255);not null;index"`
	Slug         string          `gorm:"type:varchar(255);not null;index"`
	Description  string          `gorm:"type:text"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(8,2);not null"`
	Inventory    int             `gorm:"not null;default:0"`
	CollectionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Promotions   []Promotion     `gorm:"many2many:product_promotions;"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product in the given collection
func NewProduct(collectionID uuid.UUID, title, slug string, unitPrice decimal.Decimal, inventory int) (*Product, error) {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if collectionID == uuid.Nil {
		return nil, shared.NewValidationError("collection", "This field is required.")
	}
	slug, err := normalizeSlug(slug, title)
	if err != nil {
		return nil, err
	}
	if err := validateUnitPrice(unitPrice); err != nil {
		return nil, err
	}
	if err := validateInventory(inventory); err != nil {
		return nil, err
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		Slug:              slug,
		UnitPrice:         unitPrice.Round(2),
		Inventory:         inventory,
		CollectionID:      collectionID,
	}
	product.Record(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's descriptive fields
func (p *Product) Update(title, slug, description string) error {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return err
	}
	slug, err := normalizeSlug(slug, title)
	if err != nil {
		return err
	}

	p.Title = title
	p.Slug = slug
	p.Description = description
	p.Touch()
	return nil
}

// ChangePrice sets a new live price. Existing order items keep their own copy.
func (p *Product) ChangePrice(price decimal.Decimal) error {
	if err := validateUnitPrice(price); err != nil {
		return err
	}

	oldPrice := p.UnitPrice
	p.UnitPrice = price.Round(2)
	p.Touch()

	if !oldPrice.Equal(p.UnitPrice) {
		p.Record(NewProductPriceChangedEvent(p, oldPrice))
	}
	return nil
}

// SetInventory sets the stock on hand
func (p *Product) SetInventory(inventory int) error {
	if err := validateInventory(inventory); err != nil {
		return err
	}
	p.Inventory = inventory
	p.Touch()
	return nil
}

// MoveToCollection moves the product to another collection
func (p *Product) MoveToCollection(collectionID uuid.UUID) error {
	if collectionID == uuid.Nil {
		return shared.NewValidationError("collection", "This field is required.")
	}
	p.CollectionID = collectionID
	p.Touch()
	return nil
}

// SetPromotions replaces the promotions attached to the product
func (p *Product) SetPromotions(promotions []Promotion) {
	p.Promotions = promotions
	p.Touch()
}

// PriceWithTax returns the unit price including the given tax rate (0.1 for 10%)
func (p *Product) PriceWithTax(taxRate decimal.Decimal) decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(1).Add(taxRate)).Round(2)
}

// InventoryStatus reports "Low" below LowInventoryThreshold, otherwise "Adequate"
func (p *Product) InventoryStatus() string {
	if p.Inventory < LowInventoryThreshold {
		return "Low"
	}
	return "Adequate"
}

// Slugify turns a title into a URL slug
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_':
			b.WriteRune(r)
			dash = false
		case r == '-' || r == ' ':
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func normalizeSlug(slug, title string) (string, error) {
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" || Slugify(slug) != slug {
		return "", shared.NewValidationError("slug", "Enter a valid slug consisting of letters, numbers, underscores or hyphens.")
	}
	return slug, nil
}

func validateUnitPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewValidationError("unit_price", "Ensure this value is greater than or equal to 0.")
	}
	if price.GreaterThan(MaxUnitPrice) {
		return shared.NewValidationError("unit_price", "Ensure that there are no more than 8 digits in total.")
	}
	return nil
}

func validateInventory(inventory int) error {
	if inventory < 0 {
		return shared.NewValidationError("inventory", "Ensure this value is greater than or equal to 0.")
	}
	return nil
}
