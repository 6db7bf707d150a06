package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// ProductVariant is a purchasable option of a product (e.g. Color/Red)
// with optional overrides to price, stock, or the 3D asset.
type ProductVariant struct {
	Name     string           `bson:"name" json:"name"`
	Value    string           `bson:"value" json:"value"`
	Price    *decimal.Decimal `bson:"price,omitempty" json:"price,omitempty"`
	Stock    *int64           `bson:"stock,omitempty" json:"stock,omitempty"`
	ModelURL string           `bson:"model_url,omitempty" json:"modelUrl,omitempty"`
}

// Matches reports whether the variant has the given name/value pair
func (v ProductVariant) Matches(name, value string) bool {
	return strings.EqualFold(v.Name, name) && strings.EqualFold(v.Value, value)
}

// Product represents a catalog product with its 3D preview assets.
// It is the aggregate root for catalog operations.
type Product struct {
	shared.BaseAggregateRoot `bson:",inline"`
	Title                    string           `bson:"title"`
	Slug                     string           `bson:"slug"`
	Description              string           `bson:"description"`
	Price                    decimal.Decimal  `bson:"price"`
	Currency                 string           `bson:"currency"`
	Images                   []string         `bson:"images"`
	ModelURLs                []string         `bson:"model_urls"`
	Variants                 []ProductVariant `bson:"variants"`
	Stock                    int64            `bson:"stock"`
	Tags                     []string         `bson:"tags"`
}

// CollectionName returns the backing collection name
func (Product) CollectionName() string {
	return "products"
}

// NewProduct creates a new product. When slug is empty it is derived from
// the title; a supplied slug is normalized to canonical form. Slug
// uniqueness is enforced by the persistence layer, not here.
func NewProduct(title, slug, description string, price valueobject.Money) (*Product, error) {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Product description cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}

	if slug == "" {
		slug = Slugify(title)
	} else {
		slug = Slugify(slug)
	}
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_SLUG", "Cannot derive a slug from the title")
	}

	currency := string(price.Currency())
	if currency == "" {
		currency = string(valueobject.DefaultCurrency)
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		Slug:              slug,
		Description:       description,
		Price:             price.Amount(),
		Currency:          currency,
		Images:            make([]string, 0),
		ModelURLs:         make([]string, 0),
		Variants:          make([]ProductVariant, 0),
		Tags:              make([]string, 0),
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's title and description. The slug is kept
// stable so existing links do not break.
func (p *Product) Update(title, description string) error {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return err
	}
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Product description cannot be empty")
	}

	p.Title = title
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetPrice updates the base price
func (p *Product) SetPrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}

	oldPrice := p.Price
	p.Price = price.Amount()
	p.Currency = string(price.Currency())
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))

	return nil
}

// SetStock sets the aggregate stock level
func (p *Product) SetStock(stock int64) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	p.Stock = stock
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetMedia replaces the image and 3D model URL lists
func (p *Product) SetMedia(images, modelURLs []string) {
	p.Images = append([]string(nil), images...)
	p.ModelURLs = append([]string(nil), modelURLs...)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetTags replaces the tag list, trimming blanks
func (p *Product) SetTags(tags []string) {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	p.Tags = cleaned
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// AddVariant adds a purchasable variant. Duplicate name/value pairs are
// rejected.
func (p *Product) AddVariant(variant ProductVariant) error {
	if variant.Name == "" || variant.Value == "" {
		return shared.NewDomainError("INVALID_VARIANT", "Variant name and value are required")
	}
	if variant.Price != nil && variant.Price.IsNegative() {
		return shared.NewDomainError("INVALID_VARIANT", "Variant price override cannot be negative")
	}
	if variant.Stock != nil && *variant.Stock < 0 {
		return shared.NewDomainError("INVALID_VARIANT", "Variant stock override cannot be negative")
	}
	for _, existing := range p.Variants {
		if existing.Matches(variant.Name, variant.Value) {
			return shared.NewDomainError("ALREADY_EXISTS", "Variant already exists on this product")
		}
	}

	p.Variants = append(p.Variants, variant)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// RemoveVariant removes a variant by name/value pair
func (p *Product) RemoveVariant(name, value string) error {
	for i, v := range p.Variants {
		if v.Matches(name, value) {
			p.Variants = append(p.Variants[:i], p.Variants[i+1:]...)
			p.UpdatedAt = time.Now()
			p.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// FindVariant returns the variant with the given name/value pair, if any
func (p *Product) FindVariant(name, value string) (ProductVariant, bool) {
	for _, v := range p.Variants {
		if v.Matches(name, value) {
			return v, true
		}
	}
	return ProductVariant{}, false
}

// EffectivePrice returns the variant price override when present,
// otherwise the base price.
func (p *Product) EffectivePrice(variant *ProductVariant) decimal.Decimal {
	if variant != nil && variant.Price != nil {
		return *variant.Price
	}
	return p.Price
}

// EffectiveStock returns the variant stock override when present,
// otherwise the aggregate stock.
func (p *Product) EffectiveStock(variant *ProductVariant) int64 {
	if variant != nil && variant.Stock != nil {
		return *variant.Stock
	}
	return p.Stock
}

// EffectiveModelURL returns the variant 3D asset override when present,
// otherwise the first base model URL.
func (p *Product) EffectiveModelURL(variant *ProductVariant) string {
	if variant != nil && variant.ModelURL != "" {
		return variant.ModelURL
	}
	if len(p.ModelURLs) > 0 {
		return p.ModelURLs[0]
	}
	return ""
}

// InStock reports whether any stock remains
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// PriceMoney returns the base price as a Money value object
func (p *Product) PriceMoney() valueobject.Money {
	money, err := valueobject.NewMoney(p.Price, valueobject.Currency(p.Currency))
	if err != nil {
		return valueobject.NewMoneyUSD(p.Price)
	}
	return money
}

// HasTag reports whether the product carries the given tag
func (p *Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func validateTitle(title string) error {
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Product title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Product title cannot exceed 200 characters")
	}
	return nil
}
