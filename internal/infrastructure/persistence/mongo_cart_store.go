package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storefront/backend/internal/domain/cart"
)

const cartCollection = "carts"

type cartDoc struct {
	UserID    string        `bson:"_id"`
	Lines     []cartLineDoc `bson:"lines"`
	UpdatedAt time.Time     `bson:"updated_at"`
}

type cartLineDoc struct {
	ProductID    string `bson:"product_id"`
	ProductTitle string `bson:"product_title"`
	ProductSlug  string `bson:"product_slug"`
	VariantName  string `bson:"variant_name,omitempty"`
	VariantValue string `bson:"variant_value,omitempty"`
	Quantity     int64  `bson:"quantity"`
	UnitPrice    string `bson:"unit_price"`
}

func toCartDoc(c *cart.Cart) cartDoc {
	lines := make([]cartLineDoc, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = cartLineDoc{
			ProductID:    l.ProductID.String(),
			ProductTitle: l.ProductTitle,
			ProductSlug:  l.ProductSlug,
			VariantName:  l.VariantName,
			VariantValue: l.VariantValue,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice.String(),
		}
	}
	return cartDoc{
		UserID:    c.UserID.String(),
		Lines:     lines,
		UpdatedAt: c.UpdatedAt,
	}
}

func (d cartDoc) toDomain() (*cart.Cart, error) {
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, err
	}

	lines := make([]cart.Line, len(d.Lines))
	for i, l := range d.Lines {
		productID, err := uuid.Parse(l.ProductID)
		if err != nil {
			return nil, err
		}
		price, err := decimal.NewFromString(l.UnitPrice)
		if err != nil {
			return nil, err
		}
		lines[i] = cart.Line{
			ProductID:    productID,
			ProductTitle: l.ProductTitle,
			ProductSlug:  l.ProductSlug,
			VariantName:  l.VariantName,
			VariantValue: l.VariantValue,
			Quantity:     l.Quantity,
			UnitPrice:    price,
		}
	}

	return &cart.Cart{
		UserID:    userID,
		Lines:     lines,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

// MongoCartStore holds one cart document per user
type MongoCartStore struct {
	collection *mongo.Collection
}

var _ cart.Store = (*MongoCartStore)(nil)

// NewMongoCartStore creates a cart store bound to the carts collection
func NewMongoCartStore(database *mongo.Database) *MongoCartStore {
	return &MongoCartStore{collection: database.Collection(cartCollection)}
}

// Get returns the user's cart, or a fresh empty cart when none is stored
func (s *MongoCartStore) Get(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	var doc cartDoc
	err := s.collection.FindOne(ctx, bson.M{"_id": userID.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return cart.New(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain()
}

// Save upserts the user's cart
func (s *MongoCartStore) Save(ctx context.Context, c *cart.Cart) error {
	doc := toCartDoc(c)
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": doc.UserID}, doc, opts)
	return err
}

// Delete removes the user's cart. Deleting an absent cart is a no-op.
func (s *MongoCartStore) Delete(ctx context.Context, userID uuid.UUID) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"_id": userID.String()})
	return err
}
