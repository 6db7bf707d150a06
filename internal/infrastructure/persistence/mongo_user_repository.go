package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

type userDoc struct {
	ID           string       `bson:"_id"`
	Name         string       `bson:"name"`
	Email        string       `bson:"email"`
	PasswordHash string       `bson:"password_hash"`
	Role         string       `bson:"role"`
	Addresses    []addressDoc `bson:"addresses"`
	CreatedAt    time.Time    `bson:"created_at"`
	UpdatedAt    time.Time    `bson:"updated_at"`
	Version      int          `bson:"version"`
}

type addressDoc struct {
	Name      string `bson:"name"`
	Street    string `bson:"street"`
	City      string `bson:"city"`
	State     string `bson:"state"`
	Zip       string `bson:"zip"`
	Country   string `bson:"country"`
	IsDefault bool   `bson:"is_default"`
}

func toAddressDoc(a valueobject.Address) addressDoc {
	return addressDoc{
		Name:      a.Name,
		Street:    a.Street,
		City:      a.City,
		State:     a.State,
		Zip:       a.Zip,
		Country:   a.Country,
		IsDefault: a.IsDefault,
	}
}

func (d addressDoc) toDomain() valueobject.Address {
	return valueobject.Address{
		Name:      d.Name,
		Street:    d.Street,
		City:      d.City,
		State:     d.State,
		Zip:       d.Zip,
		Country:   d.Country,
		IsDefault: d.IsDefault,
	}
}

func toUserDoc(u *identity.User) userDoc {
	addresses := make([]addressDoc, len(u.Addresses))
	for i, a := range u.Addresses {
		addresses[i] = toAddressDoc(a)
	}

	return userDoc{
		ID:           u.ID.String(),
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Addresses:    addresses,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
		Version:      u.Version,
	}
}

func (d userDoc) toDomain() (*identity.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}

	addresses := make([]valueobject.Address, len(d.Addresses))
	for i, a := range d.Addresses {
		addresses[i] = a.toDomain()
	}

	user := &identity.User{
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         identity.Role(d.Role),
		Addresses:    addresses,
	}
	user.ID = id
	user.CreatedAt = d.CreatedAt
	user.UpdatedAt = d.UpdatedAt
	user.Version = d.Version
	return user, nil
}

// MongoUserRepository implements identity.UserRepository on MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

var _ identity.UserRepository = (*MongoUserRepository)(nil)

// NewMongoUserRepository creates a user repository bound to the users
// collection
func NewMongoUserRepository(database *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		collection: database.Collection(identity.User{}.CollectionName()),
	}
}

// FindByID finds a user by ID
func (r *MongoUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

// FindByEmail finds a user by normalized email
func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindAll returns a page of users matching the filter
func (r *MongoUserRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*identity.User], error) {
	query := bson.M{}
	if filter.Search != "" {
		regex := primitive.Regex{Pattern: filter.Search, Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": regex}},
			bson.M{"email": bson.M{"$regex": regex}},
		}
	}
	if role, ok := filter.Filters["role"].(string); ok && role != "" {
		query["role"] = role
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(sortSpec(filter, map[string]string{"name": "name", "email": "email", "created_at": "created_at"})).
		SetSkip(int64(filter.Offset())).
		SetLimit(int64(filter.PageSize))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*identity.User
	for cursor.Next(ctx) {
		var doc userDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		user, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	page := shared.NewPaginated(users, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Save upserts a user. An email collision surfaces as ErrAlreadyExists.
func (r *MongoUserRepository) Save(ctx context.Context, user *identity.User) error {
	doc := toUserDoc(user)
	opts := options.Replace().SetUpsert(true)

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	if isDuplicateKey(err) {
		return shared.ErrAlreadyExists
	}
	return err
}

// Delete removes a user
func (r *MongoUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count returns the total number of users
func (r *MongoUserRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// ExistsByEmail reports whether a user with the email exists
func (r *MongoUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	return count > 0, err
}

func (r *MongoUserRepository) findOne(ctx context.Context, query bson.M) (*identity.User, error) {
	var doc userDoc
	err := r.collection.FindOne(ctx, query).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain()
}
