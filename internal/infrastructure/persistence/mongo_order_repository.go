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

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

type orderDoc struct {
	ID              string         `bson:"_id"`
	Number          string         `bson:"number"`
	UserID          string         `bson:"user_id"`
	Items           []orderItemDoc `bson:"items"`
	Total           string         `bson:"total"`
	Currency        string         `bson:"currency"`
	Status          string         `bson:"status"`
	ShippingAddress addressDoc     `bson:"shipping_address"`
	TrackingNumber  string         `bson:"tracking_number,omitempty"`
	PaymentIntentID string         `bson:"payment_intent_id,omitempty"`
	ConfirmedAt     *time.Time     `bson:"confirmed_at,omitempty"`
	ShippedAt       *time.Time     `bson:"shipped_at,omitempty"`
	DeliveredAt     *time.Time     `bson:"delivered_at,omitempty"`
	CanceledAt      *time.Time     `bson:"canceled_at,omitempty"`
	CancelReason    string         `bson:"cancel_reason,omitempty"`
	CreatedAt       time.Time      `bson:"created_at"`
	UpdatedAt       time.Time      `bson:"updated_at"`
	Version         int            `bson:"version"`
}

type orderItemDoc struct {
	ProductID    string      `bson:"product_id"`
	ProductTitle string      `bson:"product_title"`
	ProductSlug  string      `bson:"product_slug"`
	Variant      *variantDoc `bson:"variant,omitempty"`
	Quantity     int64       `bson:"quantity"`
	UnitPrice    string      `bson:"unit_price"`
	Amount       string      `bson:"amount"`
}

func toOrderDoc(o *order.Order) orderDoc {
	items := make([]orderItemDoc, len(o.Items))
	for i, item := range o.Items {
		doc := orderItemDoc{
			ProductID:    item.ProductID.String(),
			ProductTitle: item.ProductTitle,
			ProductSlug:  item.ProductSlug,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice.String(),
			Amount:       item.Amount.String(),
		}
		if item.Variant != nil {
			v := variantDoc{Name: item.Variant.Name, Value: item.Variant.Value, ModelURL: item.Variant.ModelURL}
			doc.Variant = &v
		}
		items[i] = doc
	}

	return orderDoc{
		ID:              o.ID.String(),
		Number:          o.Number,
		UserID:          o.UserID.String(),
		Items:           items,
		Total:           o.Total.String(),
		Currency:        o.Currency,
		Status:          string(o.Status),
		ShippingAddress: toAddressDoc(o.ShippingAddress),
		TrackingNumber:  o.TrackingNumber,
		PaymentIntentID: o.PaymentIntentID,
		ConfirmedAt:     o.ConfirmedAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CanceledAt:      o.CanceledAt,
		CancelReason:    o.CancelReason,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Version:         o.Version,
	}
}

func (d orderDoc) toDomain() (*order.Order, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, err
	}
	total, err := decimal.NewFromString(d.Total)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, len(d.Items))
	for i, item := range d.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, err
		}
		unitPrice, err := decimal.NewFromString(item.UnitPrice)
		if err != nil {
			return nil, err
		}
		amount, err := decimal.NewFromString(item.Amount)
		if err != nil {
			return nil, err
		}

		domainItem := order.Item{
			ProductID:    productID,
			ProductTitle: item.ProductTitle,
			ProductSlug:  item.ProductSlug,
			Quantity:     item.Quantity,
			UnitPrice:    unitPrice,
			Amount:       amount,
		}
		if item.Variant != nil {
			domainItem.Variant = &catalog.ProductVariant{
				Name:     item.Variant.Name,
				Value:    item.Variant.Value,
				ModelURL: item.Variant.ModelURL,
			}
		}
		items[i] = domainItem
	}

	o := &order.Order{
		Number:          d.Number,
		UserID:          userID,
		Items:           items,
		Total:           total,
		Currency:        d.Currency,
		Status:          order.Status(d.Status),
		ShippingAddress: d.ShippingAddress.toDomain(),
		TrackingNumber:  d.TrackingNumber,
		PaymentIntentID: d.PaymentIntentID,
		ConfirmedAt:     d.ConfirmedAt,
		ShippedAt:       d.ShippedAt,
		DeliveredAt:     d.DeliveredAt,
		CanceledAt:      d.CanceledAt,
		CancelReason:    d.CancelReason,
	}
	o.ID = id
	o.CreatedAt = d.CreatedAt
	o.UpdatedAt = d.UpdatedAt
	o.Version = d.Version
	return o, nil
}

// MongoOrderRepository implements order.OrderRepository on MongoDB
type MongoOrderRepository struct {
	collection *mongo.Collection
}

var _ order.OrderRepository = (*MongoOrderRepository)(nil)

// NewMongoOrderRepository creates an order repository bound to the
// orders collection
func NewMongoOrderRepository(database *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{
		collection: database.Collection(order.Order{}.CollectionName()),
	}
}

// FindByID finds an order by ID
func (r *MongoOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

// FindByNumber finds an order by its human-readable number
func (r *MongoOrderRepository) FindByNumber(ctx context.Context, number string) (*order.Order, error) {
	return r.findOne(ctx, bson.M{"number": number})
}

// FindByUserID returns a page of the user's orders
func (r *MongoOrderRepository) FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[*order.Order], error) {
	query := bson.M{"user_id": userID.String()}
	return r.findPage(ctx, query, filter)
}

// FindAll returns a page of orders matching the filter
func (r *MongoOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*order.Order], error) {
	return r.findPage(ctx, bson.M{}, filter)
}

// Save upserts an order
func (r *MongoOrderRepository) Save(ctx context.Context, o *order.Order) error {
	doc := toOrderDoc(o)
	opts := options.Replace().SetUpsert(true)

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	if isDuplicateKey(err) {
		return shared.ErrAlreadyExists
	}
	return err
}

// Delete removes an order
func (r *MongoOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count returns the total number of orders
func (r *MongoOrderRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *MongoOrderRepository) findPage(ctx context.Context, query bson.M, filter shared.Filter) (*shared.Paginated[*order.Order], error) {
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query["status"] = status
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(sortSpec(filter, map[string]string{"created_at": "created_at", "total": "total", "status": "status"})).
		SetSkip(int64(filter.Offset())).
		SetLimit(int64(filter.PageSize))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []*order.Order
	for cursor.Next(ctx) {
		var doc orderDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		o, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	page := shared.NewPaginated(orders, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (r *MongoOrderRepository) findOne(ctx context.Context, query bson.M) (*order.Order, error) {
	var doc orderDoc
	err := r.collection.FindOne(ctx, query).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain()
}
