package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InterestStore persists wishlist markers. Uniqueness of the (user, property)
// pair is enforced by a unique compound index; Insert reports a duplicate as
// errors.ErrAlreadyInterested.
type InterestStore interface {
	Insert(ctx context.Context, interest *Interest) (*Interest, error)
	Delete(ctx context.Context, user, property primitive.ObjectID) error
	Exists(ctx context.Context, user, property primitive.ObjectID) (bool, error)
	GetByUser(ctx context.Context, user primitive.ObjectID) ([]*Interest, error)
}
