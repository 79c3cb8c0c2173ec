package domain

import "context"

// ListingCache holds the default listing page and per-property image URL
// sets so repeated browse requests skip the database.
type ListingCache interface {
	PostPage(ctx context.Context, page *PropertyPage) error
	GetPage(ctx context.Context) (*PropertyPage, error)
	DelPage(ctx context.Context) error
	PostUrls(ctx context.Context, propertyID string, urls []string) error
	GetUrls(ctx context.Context, propertyID string) ([]string, error)
	DelUrls(ctx context.Context, propertyID string) error
}
