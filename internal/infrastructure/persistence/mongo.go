package persistence

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// MongoStore is the MongoDB-backed document store
type MongoStore struct {
	client   *mongo.Client
	database *mongo.Database
	logger   *zap.Logger

	products *MongoProductRepository
	users    *MongoUserRepository
	orders   *MongoOrderRepository
	carts    *MongoCartStore
}

var _ Store = (*MongoStore)(nil)

// NewMongoStore connects to MongoDB, verifies the connection, and
// ensures the unique indexes the domain relies on.
func NewMongoStore(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (*MongoStore, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetConnectTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	database := client.Database(cfg.Database)
	store := &MongoStore{
		client:   client,
		database: database,
		logger:   logger,
	}
	store.products = NewMongoProductRepository(database)
	store.users = NewMongoUserRepository(database)
	store.orders = NewMongoOrderRepository(database)
	store.carts = NewMongoCartStore(database)

	if err := store.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ensuring indexes: %w", err)
	}

	return store, nil
}

// ensureIndexes creates the indexes backing the domain's uniqueness
// contracts: product slugs and user emails.
func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	_, err := s.database.Collection(catalog.Product{}.CollectionName()).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = s.database.Collection(identity.User{}.CollectionName()).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
	})
	if err != nil {
		return err
	}

	_, err = s.database.Collection(order.Order{}.CollectionName()).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = s.database.Collection(cartCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "updated_at", Value: 1}}},
	})
	return err
}

// Products returns the product repository
func (s *MongoStore) Products() catalog.ProductRepository {
	return s.products
}

// Users returns the user repository
func (s *MongoStore) Users() identity.UserRepository {
	return s.users
}

// Orders returns the order repository
func (s *MongoStore) Orders() order.OrderRepository {
	return s.orders
}

// Carts returns the cart store
func (s *MongoStore) Carts() cart.Store {
	return s.carts
}

// Ping verifies the connection is still healthy
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Backend returns the backend name
func (s *MongoStore) Backend() string {
	return config.StoreBackendMongo
}

// Close disconnects from MongoDB
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// isDuplicateKey reports whether err is a unique index violation
func isDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
