package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PropertyStore interface {
	Insert(ctx context.Context, property *Property) (*Property, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Property, error)
	GetPage(ctx context.Context, filter *PropertyFilter) ([]*Property, int64, error)
	GetByOwner(ctx context.Context, owner primitive.ObjectID) ([]*Property, error)
	Update(ctx context.Context, property *Property) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Search(ctx context.Context, query string) ([]*Property, error)
}
