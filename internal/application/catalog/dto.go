package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/catalog"
)

// VariantPayload carries a product variant in requests and responses
type VariantPayload struct {
	Name     string           `json:"name" binding:"required,min=1,max=50"`
	Value    string           `json:"value" binding:"required,min=1,max=100"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Stock    *int64           `json:"stock,omitempty"`
	ModelURL string           `json:"modelUrl,omitempty" binding:"omitempty,url"`
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Title       string           `json:"title" binding:"required,min=1,max=200"`
	Slug        string           `json:"slug" binding:"max=200"`
	Description string           `json:"description" binding:"required,max=5000"`
	Price       decimal.Decimal  `json:"price" binding:"required"`
	Currency    string           `json:"currency" binding:"omitempty,oneof=USD EUR GBP JPY CAD"`
	Images      []string         `json:"images" binding:"omitempty,dive,url"`
	ModelURLs   []string         `json:"modelUrls" binding:"omitempty,dive,url"`
	Variants    []VariantPayload `json:"variants"`
	Stock       *int64           `json:"stock"`
	Tags        []string         `json:"tags"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Title       *string          `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=5000"`
	Price       *decimal.Decimal `json:"price"`
	Currency    *string          `json:"currency" binding:"omitempty,oneof=USD EUR GBP JPY CAD"`
	Images      []string         `json:"images" binding:"omitempty,dive,url"`
	ModelURLs   []string         `json:"modelUrls" binding:"omitempty,dive,url"`
	Stock       *int64           `json:"stock"`
	Tags        []string         `json:"tags"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Slug        string           `json:"slug"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	Currency    string           `json:"currency"`
	Images      []string         `json:"images"`
	ModelURLs   []string         `json:"modelUrls"`
	Variants    []VariantPayload `json:"variants"`
	Stock       int64            `json:"stock"`
	InStock     bool             `json:"inStock"`
	Tags        []string         `json:"tags"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	Version     int              `json:"version"`
}

// ProductListResponse represents a list item for products
type ProductListResponse struct {
	ID        uuid.UUID       `json:"id"`
	Title     string          `json:"title"`
	Slug      string          `json:"slug"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	Image     string          `json:"image,omitempty"`
	ModelURL  string          `json:"modelUrl,omitempty"`
	InStock   bool            `json:"inStock"`
	Tags      []string        `json:"tags"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search   string   `form:"search"`
	Tag      string   `form:"tag"`
	InStock  *bool    `form:"inStock"`
	MinPrice *float64 `form:"minPrice" binding:"omitempty,gte=0"`
	MaxPrice *float64 `form:"maxPrice" binding:"omitempty,gte=0"`
	Page     int      `form:"page" binding:"omitempty,min=1"`
	PageSize int      `form:"pageSize" binding:"omitempty,min=1,max=100"`
	OrderBy  string   `form:"orderBy" binding:"omitempty,oneof=title price created_at"`
	OrderDir string   `form:"orderDir" binding:"omitempty,oneof=asc desc"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	variants := make([]VariantPayload, len(p.Variants))
	for i, v := range p.Variants {
		variants[i] = VariantPayload{
			Name:     v.Name,
			Value:    v.Value,
			Price:    v.Price,
			Stock:    v.Stock,
			ModelURL: v.ModelURL,
		}
	}

	return ProductResponse{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Currency:    p.Currency,
		Images:      p.Images,
		ModelURLs:   p.ModelURLs,
		Variants:    variants,
		Stock:       p.Stock,
		InStock:     p.InStock(),
		Tags:        p.Tags,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Version:     p.Version,
	}
}

// ToProductListResponse converts a domain Product to ProductListResponse
func ToProductListResponse(p *catalog.Product) ProductListResponse {
	resp := ProductListResponse{
		ID:        p.ID,
		Title:     p.Title,
		Slug:      p.Slug,
		Price:     p.Price,
		Currency:  p.Currency,
		InStock:   p.InStock(),
		Tags:      p.Tags,
		CreatedAt: p.CreatedAt,
	}
	if len(p.Images) > 0 {
		resp.Image = p.Images[0]
	}
	if len(p.ModelURLs) > 0 {
		resp.ModelURL = p.ModelURLs[0]
	}
	return resp
}

// ToProductListResponses converts a slice of domain Products
func ToProductListResponses(products []*catalog.Product) []ProductListResponse {
	responses := make([]ProductListResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductListResponse(p)
	}
	return responses
}
