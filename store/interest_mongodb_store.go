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

const INTEREST_COLLECTION = "interests"

type InterestMongoDBStore struct {
	interests *mongo.Collection
	tracer    trace.Tracer
}

func NewInterestMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.InterestStore {
	interests := client.Database(DATABASE).Collection(INTEREST_COLLECTION)
	return &InterestMongoDBStore{
		interests: interests,
		tracer:    tracer,
	}
}

// EnsureInterestIndexes creates the unique (user, property) index. The index
// is the single source of truth for duplicates; there is no read-then-write
// pre-check anywhere.
func EnsureInterestIndexes(ctx context.Context, client *mongo.Client) error {
	interests := client.Database(DATABASE).Collection(INTEREST_COLLECTION)
	_, err := interests.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user", Value: 1},
			{Key: "property", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (store *InterestMongoDBStore) Insert(ctx context.Context, interest *domain.Interest) (*domain.Interest, error) {
	ctx, span := store.tracer.Start(ctx, "InterestStore.Insert")
	defer span.End()

	interest.ID = primitive.NewObjectID()
	interest.CreatedAt = time.Now()

	result, err := store.interests.InsertOne(ctx, interest)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, errors.ErrAlreadyInterested
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	interest.ID = result.InsertedID.(primitive.ObjectID)
	return interest, nil
}

func (store *InterestMongoDBStore) Delete(ctx context.Context, user, property primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "InterestStore.Delete")
	defer span.End()

	result, err := store.interests.DeleteOne(ctx, bson.M{"user": user, "property": property})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if result.DeletedCount == 0 {
		return errors.ErrInterestNotFound
	}
	return nil
}

func (store *InterestMongoDBStore) Exists(ctx context.Context, user, property primitive.ObjectID) (bool, error) {
	ctx, span := store.tracer.Start(ctx, "InterestStore.Exists")
	defer span.End()

	count, err := store.interests.CountDocuments(ctx, bson.M{"user": user, "property": property})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	return count > 0, nil
}

func (store *InterestMongoDBStore) GetByUser(ctx context.Context, user primitive.ObjectID) ([]*domain.Interest, error) {
	ctx, span := store.tracer.Start(ctx, "InterestStore.GetByUser")
	defer span.End()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := store.interests.Find(ctx, bson.M{"user": user}, opts)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	defer cursor.Close(ctx)
	var interests []*domain.Interest
	for cursor.Next(ctx) {
		var interest domain.Interest
		if err := cursor.Decode(&interest); err != nil {
			return nil, err
		}
		interests = append(interests, &interest)
	}
	return interests, cursor.Err()
}
