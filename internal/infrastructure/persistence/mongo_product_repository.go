package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// productDoc is the persisted shape of a catalog product. IDs are stored
// as strings; prices as Decimal128 so range queries and sorts compare
// numerically.
type productDoc struct {
	ID          string               `bson:"_id"`
	Title       string               `bson:"title"`
	Slug        string               `bson:"slug"`
	Description string               `bson:"description"`
	Price       primitive.Decimal128 `bson:"price"`
	Currency    string               `bson:"currency"`
	Images      []string             `bson:"images"`
	ModelURLs   []string             `bson:"model_urls"`
	Variants    []variantDoc         `bson:"variants"`
	Stock       int64                `bson:"stock"`
	Tags        []string             `bson:"tags"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
	Version     int                  `bson:"version"`
}

type variantDoc struct {
	Name     string                `bson:"name"`
	Value    string                `bson:"value"`
	Price    *primitive.Decimal128 `bson:"price,omitempty"`
	Stock    *int64                `bson:"stock,omitempty"`
	ModelURL string                `bson:"model_url,omitempty"`
}

// toDecimal128 converts a shopspring decimal to mongo's Decimal128. The
// string form of a valid decimal always parses, so conversion cannot fail.
func toDecimal128(d decimal.Decimal) primitive.Decimal128 {
	out, _ := primitive.ParseDecimal128(d.String())
	return out
}

func toProductDoc(p *catalog.Product) productDoc {
	variants := make([]variantDoc, len(p.Variants))
	for i, v := range p.Variants {
		doc := variantDoc{
			Name:     v.Name,
			Value:    v.Value,
			Stock:    v.Stock,
			ModelURL: v.ModelURL,
		}
		if v.Price != nil {
			p := toDecimal128(*v.Price)
			doc.Price = &p
		}
		variants[i] = doc
	}

	return productDoc{
		ID:          p.ID.String(),
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       toDecimal128(p.Price),
		Currency:    p.Currency,
		Images:      p.Images,
		ModelURLs:   p.ModelURLs,
		Variants:    variants,
		Stock:       p.Stock,
		Tags:        p.Tags,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Version:     p.Version,
	}
}

func (d productDoc) toDomain() (*catalog.Product, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	price, err := decimal.NewFromString(d.Price.String())
	if err != nil {
		return nil, err
	}

	variants := make([]catalog.ProductVariant, len(d.Variants))
	for i, v := range d.Variants {
		variant := catalog.ProductVariant{
			Name:     v.Name,
			Value:    v.Value,
			Stock:    v.Stock,
			ModelURL: v.ModelURL,
		}
		if v.Price != nil {
			p, err := decimal.NewFromString(v.Price.String())
			if err != nil {
				return nil, err
			}
			variant.Price = &p
		}
		variants[i] = variant
	}

	product := &catalog.Product{
		Title:       d.Title,
		Slug:        d.Slug,
		Description: d.Description,
		Price:       price,
		Currency:    d.Currency,
		Images:      d.Images,
		ModelURLs:   d.ModelURLs,
		Variants:    variants,
		Stock:       d.Stock,
		Tags:        d.Tags,
	}
	product.ID = id
	product.CreatedAt = d.CreatedAt
	product.UpdatedAt = d.UpdatedAt
	product.Version = d.Version
	return product, nil
}

// MongoProductRepository implements catalog.ProductRepository on MongoDB
type MongoProductRepository struct {
	collection *mongo.Collection
}

var _ catalog.ProductRepository = (*MongoProductRepository)(nil)

// NewMongoProductRepository creates a product repository bound to the
// products collection
func NewMongoProductRepository(database *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{
		collection: database.Collection(catalog.Product{}.CollectionName()),
	}
}

// FindByID finds a product by its ID
func (r *MongoProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

// FindBySlug finds a product by its slug
func (r *MongoProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

// FindByIDs finds all products with the given IDs
func (r *MongoProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": strIDs}})
	if err != nil {
		return nil, err
	}
	return decodeProducts(ctx, cursor)
}

// FindAll returns a page of products matching the filter
func (r *MongoProductRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*catalog.Product], error) {
	query := bson.M{}
	if filter.Search != "" {
		query["title"] = bson.M{"$regex": primitive.Regex{Pattern: filter.Search, Options: "i"}}
	}
	if tag, ok := filter.Filters["tag"].(string); ok && tag != "" {
		query["tags"] = tag
	}
	if inStock, ok := filter.Filters["in_stock"].(bool); ok {
		if inStock {
			query["stock"] = bson.M{"$gt": 0}
		} else {
			query["stock"] = bson.M{"$lte": 0}
		}
	}
	priceRange := bson.M{}
	if minPrice, ok := filter.Filters["min_price"].(decimal.Decimal); ok {
		priceRange["$gte"] = toDecimal128(minPrice)
	}
	if maxPrice, ok := filter.Filters["max_price"].(decimal.Decimal); ok {
		priceRange["$lte"] = toDecimal128(maxPrice)
	}
	if len(priceRange) > 0 {
		query["price"] = priceRange
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(sortSpec(filter, map[string]string{"title": "title", "price": "price", "created_at": "created_at"})).
		SetSkip(int64(filter.Offset())).
		SetLimit(int64(filter.PageSize))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	products, err := decodeProducts(ctx, cursor)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(products, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Save upserts a product. A slug collision surfaces as ErrAlreadyExists.
func (r *MongoProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	doc := toProductDoc(product)
	opts := options.Replace().SetUpsert(true)

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	if isDuplicateKey(err) {
		return shared.ErrAlreadyExists
	}
	return err
}

// Delete removes a product
func (r *MongoProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count returns the total number of products
func (r *MongoProductRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// ExistsBySlug reports whether a product with the slug exists
func (r *MongoProductRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
	return count > 0, err
}

func (r *MongoProductRepository) findOne(ctx context.Context, query bson.M) (*catalog.Product, error) {
	var doc productDoc
	err := r.collection.FindOne(ctx, query).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain()
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]*catalog.Product, error) {
	defer cursor.Close(ctx)

	var products []*catalog.Product
	for cursor.Next(ctx) {
		var doc productDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		product, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, cursor.Err()
}

// sortSpec maps an order-by field through an allowlist, falling back to
// created_at descending.
func sortSpec(filter shared.Filter, allowed map[string]string) bson.D {
	field, ok := allowed[filter.OrderBy]
	if !ok {
		field = "created_at"
	}
	dir := -1
	if filter.OrderDir == "asc" {
		dir = 1
	}
	return bson.D{{Key: field, Value: dir}}
}
