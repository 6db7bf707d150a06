package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// ProductService handles catalog business operations
type ProductService struct {
	productRepo catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	slug := req.Slug
	if slug == "" {
		slug = catalog.Slugify(req.Title)
	}
	exists, err := s.productRepo.ExistsBySlug(ctx, catalog.Slugify(slug))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this slug already exists")
	}

	price, err := s.toMoney(req.Price, req.Currency)
	if err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(req.Title, req.Slug, req.Description, price)
	if err != nil {
		return nil, err
	}

	if len(req.Images) > 0 || len(req.ModelURLs) > 0 {
		product.SetMedia(req.Images, req.ModelURLs)
	}
	if len(req.Tags) > 0 {
		product.SetTags(req.Tags)
	}
	if req.Stock != nil {
		if err := product.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}
	for _, v := range req.Variants {
		variant := catalog.ProductVariant{
			Name:     v.Name,
			Value:    v.Value,
			Price:    v.Price,
			Stock:    v.Stock,
			ModelURL: v.ModelURL,
		}
		if err := product.AddVariant(variant); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetBySlug retrieves a product by its slug
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductListResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Tag != "" {
		domainFilter.Filters["tag"] = filter.Tag
	}
	if filter.InStock != nil {
		domainFilter.Filters["in_stock"] = *filter.InStock
	}
	if filter.MinPrice != nil {
		domainFilter.Filters["min_price"] = decimal.NewFromFloat(*filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		domainFilter.Filters["max_price"] = decimal.NewFromFloat(*filter.MaxPrice)
	}

	page, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductListResponses(page.Items), page.Total, nil
}

// Update updates a product's core fields. The slug stays stable.
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil || req.Description != nil {
		title := product.Title
		if req.Title != nil {
			title = *req.Title
		}
		description := product.Description
		if req.Description != nil {
			description = *req.Description
		}
		if err := product.Update(title, description); err != nil {
			return nil, err
		}
	}

	if req.Price != nil {
		currency := product.Currency
		if req.Currency != nil {
			currency = *req.Currency
		}
		price, err := s.toMoney(*req.Price, currency)
		if err != nil {
			return nil, err
		}
		if err := product.SetPrice(price); err != nil {
			return nil, err
		}
	}

	if req.Images != nil || req.ModelURLs != nil {
		images := product.Images
		if req.Images != nil {
			images = req.Images
		}
		modelURLs := product.ModelURLs
		if req.ModelURLs != nil {
			modelURLs = req.ModelURLs
		}
		product.SetMedia(images, modelURLs)
	}

	if req.Stock != nil {
		if err := product.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}
	if req.Tags != nil {
		product.SetTags(req.Tags)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// AddVariant adds a variant to a product
func (s *ProductService) AddVariant(ctx context.Context, productID uuid.UUID, req VariantPayload) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	variant := catalog.ProductVariant{
		Name:     req.Name,
		Value:    req.Value,
		Price:    req.Price,
		Stock:    req.Stock,
		ModelURL: req.ModelURL,
	}
	if err := product.AddVariant(variant); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// RemoveVariant removes a variant from a product
func (s *ProductService) RemoveVariant(ctx context.Context, productID uuid.UUID, name, value string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := product.RemoveVariant(name, value); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product from the catalog
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, productID)
}

func (s *ProductService) toMoney(amount decimal.Decimal, currency string) (valueobject.Money, error) {
	if currency == "" {
		return valueobject.NewMoneyUSD(amount), nil
	}
	money, err := valueobject.NewMoney(amount, valueobject.Currency(currency))
	if err != nil {
		return valueobject.Money{}, shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}
	return money, nil
}
