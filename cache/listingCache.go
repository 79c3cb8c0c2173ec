package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/satyajeet03/rentApp/domain"
)

const cacheTTL = 30 * time.Minute

// ListingCache keeps the default browse page and per-property image URL
// sets in redis so repeat reads skip Mongo. Entries expire on their own and
// are dropped eagerly after any property mutation.
type ListingCache struct {
	cli    *redis.Client
	logger *logrus.Logger
	tracer trace.Tracer
}

func New(client *redis.Client, logger *logrus.Logger, tracer trace.Tracer) *ListingCache {
	return &ListingCache{
		cli:    client,
		logger: logger,
		tracer: tracer,
	}
}

func (pc *ListingCache) Ping() {
	val, _ := pc.cli.Ping().Result()
	pc.logger.Println(val)
}

func (pc *ListingCache) PostPage(ctx context.Context, page *domain.PropertyPage) error {
	_, span := pc.tracer.Start(ctx, "ListingCache.PostPage")
	defer span.End()

	jsonValue, err := json.Marshal(page)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	err = pc.cli.Set(constructPageKey(), jsonValue, cacheTTL).Err()
	if err == nil {
		pc.logger.Println("Cache set - listing page")
	}
	return err
}

func (pc *ListingCache) GetPage(ctx context.Context) (*domain.PropertyPage, error) {
	_, span := pc.tracer.Start(ctx, "ListingCache.GetPage")
	defer span.End()

	jsonValue, err := pc.cli.Get(constructPageKey()).Result()
	if err != nil {
		return nil, err
	}

	var page domain.PropertyPage
	if err := json.Unmarshal([]byte(jsonValue), &page); err != nil {
		span.SetStatus(codes.Error, err.Error())
		pc.logger.Println(err)
		return nil, err
	}

	pc.logger.Println("Cache hit - listing page")
	return &page, nil
}

func (pc *ListingCache) DelPage(ctx context.Context) error {
	_, span := pc.tracer.Start(ctx, "ListingCache.DelPage")
	defer span.End()

	return pc.cli.Del(constructPageKey()).Err()
}

func (pc *ListingCache) PostUrls(ctx context.Context, propertyID string, urls []string) error {
	_, span := pc.tracer.Start(ctx, "ListingCache.PostUrls")
	defer span.End()

	jsonValue, err := json.Marshal(urls)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	err = pc.cli.Set(constructUrlsKey(propertyID), jsonValue, cacheTTL).Err()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		pc.logger.Println(err)
		return err
	}

	pc.logger.Println("Cache set - image urls")
	return nil
}

func (pc *ListingCache) GetUrls(ctx context.Context, propertyID string) ([]string, error) {
	_, span := pc.tracer.Start(ctx, "ListingCache.GetUrls")
	defer span.End()

	jsonValue, err := pc.cli.Get(constructUrlsKey(propertyID)).Result()
	if err != nil {
		return nil, err
	}

	var urls []string
	if err := json.Unmarshal([]byte(jsonValue), &urls); err != nil {
		span.SetStatus(codes.Error, err.Error())
		pc.logger.Println(err)
		return nil, err
	}

	pc.logger.Println("Cache hit - image urls")
	return urls, nil
}

func (pc *ListingCache) DelUrls(ctx context.Context, propertyID string) error {
	_, span := pc.tracer.Start(ctx, "ListingCache.DelUrls")
	defer span.End()

	return pc.cli.Del(constructUrlsKey(propertyID)).Err()
}
