package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/satyajeet03/rentApp/domain"
	"github.com/satyajeet03/rentApp/errors"
)

const PROPERTY_COLLECTION = "properties"

type PropertyMongoDBStore struct {
	properties *mongo.Collection
	tracer     trace.Tracer
}

func NewPropertyMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.PropertyStore {
	properties := client.Database(DATABASE).Collection(PROPERTY_COLLECTION)
	return &PropertyMongoDBStore{
		properties: properties,
		tracer:     tracer,
	}
}

// EnsurePropertyIndexes creates the text index backing free-text search.
func EnsurePropertyIndexes(ctx context.Context, client *mongo.Client) error {
	properties := client.Database(DATABASE).Collection(PROPERTY_COLLECTION)
	_, err := properties.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "title", Value: "text"},
			{Key: "description", Value: "text"},
			{Key: "address.city", Value: "text"},
			{Key: "address.state", Value: "text"},
		},
	})
	return err
}

func (store *PropertyMongoDBStore) Insert(ctx context.Context, property *domain.Property) (*domain.Property, error) {
	ctx, span := store.tracer.Start(ctx, "PropertyStore.Insert")
	defer span.End()

	property.ID = primitive.NewObjectID()
	now := time.Now()
	property.CreatedAt = now
	property.UpdatedAt = now

	result, err := store.properties.InsertOne(ctx, property)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	property.ID = result.InsertedID.(primitive.ObjectID)
	return property, nil
}

func (store *PropertyMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Property, error) {
	ctx, span := store.tracer.Start(ctx, "PropertyStore.Get")
	defer span.End()

	result := store.properties.FindOne(ctx, bson.M{"_id": id})

	var property domain.Property
	if err := result.Decode(&property); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.ErrPropertyNotFound
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &property, nil
}

// GetPage builds the conjunctive filter query and applies sort plus
// offset/limit pagination. No match is an empty page, not an error.
func (store *PropertyMongoDBStore) GetPage(ctx context.Context, filter *domain.PropertyFilter) ([]*domain.Property, int64, error) {
	ctx, span := store.tracer.Start(ctx, "PropertyStore.GetPage")
	defer span.End()

	query := bson.M{}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.City != "" {
		query["address.city"] = filter.City
	}
	if filter.State != "" {
		query["address.state"] = filter.State
	}
	if filter.Available != nil {
		query["available"] = *filter.Available
	}
	if filter.MinPrice != nil || filter.MaxPrice != nil {
		price := bson.M{}
		if filter.MinPrice != nil {
			price["$gte"] = *filter.MinPrice
		}
		if filter.MaxPrice != nil {
			price["$lte"] = *filter.MaxPrice
		}
		query["price"] = price
	}

	order := -1
	if filter.SortOrder == "asc" {
		order = 1
	}
	skip := (filter.Page - 1) * filter.Limit

	opts := options.Find().
		SetSort(bson.D{{Key: filter.SortBy, Value: order}}).
		SetSkip(skip).
		SetLimit(filter.Limit)

	cursor, err := store.properties.Find(ctx, query, opts)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}
	properties, err := decodeProperties(ctx, cursor)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	total, err := store.properties.CountDocuments(ctx, query)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	return properties, total, nil
}

func (store *PropertyMongoDBStore) GetByOwner(ctx context.Context, owner primitive.ObjectID) ([]*domain.Property, error) {
	ctx, span := store.tracer.Start(ctx, "PropertyStore.GetByOwner")
	defer span.End()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := store.properties.Find(ctx, bson.M{"owner": owner}, opts)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return decodeProperties(ctx, cursor)
}

func (store *PropertyMongoDBStore) Update(ctx context.Context, property *domain.Property) error {
	ctx, span := store.tracer.Start(ctx, "PropertyStore.Update")
	defer span.End()

	property.UpdatedAt = time.Now()
	result, err := store.properties.ReplaceOne(ctx, bson.M{"_id": property.ID}, property)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if result.MatchedCount == 0 {
		return errors.ErrPropertyNotFound
	}
	return nil
}

func (store *PropertyMongoDBStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "PropertyStore.Delete")
	defer span.End()

	result, err := store.properties.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if result.DeletedCount == 0 {
		return errors.ErrPropertyNotFound
	}
	return nil
}

// Search runs a $text query ranked by match score, best first.
func (store *PropertyMongoDBStore) Search(ctx context.Context, query string) ([]*domain.Property, error) {
	ctx, span := store.tracer.Start(ctx, "PropertyStore.Search")
	defer span.End()

	filter := bson.M{"$text": bson.M{"$search": query}}
	opts := options.Find().
		SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSort(bson.M{"score": bson.M{"$meta": "textScore"}})

	cursor, err := store.properties.Find(ctx, filter, opts)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return decodeProperties(ctx, cursor)
}

func decodeProperties(ctx context.Context, cursor *mongo.Cursor) (properties []*domain.Property, err error) {
	defer cursor.Close(ctx)
	for cursor.Next(ctx) {
		var property domain.Property
		err = cursor.Decode(&property)
		if err != nil {
			return
		}
		properties = append(properties, &property)
	}
	err = cursor.Err()
	return
}
