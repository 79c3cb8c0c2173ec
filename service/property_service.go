package application

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"

	"github.com/satyajeet03/rentApp/domain"
	"github.com/satyajeet03/rentApp/errors"
)

type PropertyService struct {
	properties domain.PropertyStore
	users      domain.UserStore
	cache      domain.ListingCache
	tracer     trace.Tracer
	logger     *logrus.Logger
}

func NewPropertyService(properties domain.PropertyStore, users domain.UserStore, cache domain.ListingCache, tracer trace.Tracer, logger *logrus.Logger) *PropertyService {
	return &PropertyService{
		properties: properties,
		users:      users,
		cache:      cache,
		tracer:     tracer,
		logger:     logger,
	}
}

// GetPage serves the filtered listing page. The unfiltered first page is the
// hot path, so it is answered from the cache when possible.
func (service *PropertyService) GetPage(ctx context.Context, filter *domain.PropertyFilter) (*domain.PropertyPage, error) {
	ctx, span := service.tracer.Start(ctx, "PropertyService.GetPage")
	defer span.End()

	filter.Normalize()

	if filter.IsDefault() {
		if page, err := service.cache.GetPage(ctx); err == nil {
			return page, nil
		}
	}

	properties, total, err := service.properties.GetPage(ctx, filter)
	if err != nil {
		return nil, err
	}
	service.populateOwners(ctx, properties)

	pages := total / filter.Limit
	if total%filter.Limit != 0 {
		pages++
	}

	page := &domain.PropertyPage{
		Properties: properties,
		Pagination: domain.Pagination{
			Total: total,
			Page:  filter.Page,
			Pages: pages,
		},
	}
	if page.Properties == nil {
		page.Properties = []*domain.Property{}
	}

	if filter.IsDefault() {
		if err := service.cache.PostPage(ctx, page); err != nil {
			service.logger.Printf("listing cache set failed: %s", err)
		}
	}

	return page, nil
}

func (service *PropertyService) Get(ctx context.Context, idHex string) (*domain.Property, error) {
	ctx, span := service.tracer.Start(ctx, "PropertyService.Get")
	defer span.End()

	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, errors.ErrPropertyNotFound
	}

	property, err := service.properties.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	service.populateOwners(ctx, []*domain.Property{property})
	return property, nil
}

// GetImages serves a property's image URL set from the cache, falling back
// to the listing record and refilling the cache on a miss.
func (service *PropertyService) GetImages(ctx context.Context, idHex string) ([]string, error) {
	ctx, span := service.tracer.Start(ctx, "PropertyService.GetImages")
	defer span.End()

	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, errors.ErrPropertyNotFound
	}

	if urls, err := service.cache.GetUrls(ctx, idHex); err == nil {
		return urls, nil
	}

	property, err := service.properties.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := service.cache.PostUrls(ctx, idHex, property.Images); err != nil {
		service.logger.Printf("image url cache set failed: %s", err)
	}
	return property.Images, nil
}

func (service *PropertyService) GetByOwner(ctx context.Context, owner primitive.ObjectID) ([]*domain.Property, error) {
	ctx, span := service.tracer.Start(ctx, "PropertyService.GetByOwner")
	defer span.End()

	properties, err := service.properties.GetByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	service.populateOwners(ctx, properties)
	return properties, nil
}

// Create persists a new listing for the caller. Whatever owner the payload
// carried is discarded; only users with the owner role may create.
func (service *PropertyService) Create(ctx context.Context, caller *domain.User, property *domain.Property) (*domain.Property, error) {
	ctx, span := service.tracer.Start(ctx, "PropertyService.Create")
	defer span.End()

	if caller.Role != domain.RoleOwner {
		return nil, errors.ErrOnlyOwners
	}

	property.Owner = caller.ID
	if err := property.Validate(); err != nil {
		return nil, err
	}

	created, err := service.properties.Insert(ctx, property)
	if err != nil {
		return nil, err
	}

	service.invalidate(ctx, created.ID.Hex())
	if err := service.cache.PostUrls(ctx, created.ID.Hex(), created.Images); err != nil {
		service.logger.Printf("image url cache set failed: %s", err)
	}

	created.OwnerInfo = caller.Summary()
	return created, nil
}

func (service *PropertyService) Update(ctx context.Context, idHex string, caller *domain.User, patch *domain.PropertyPatch) (*domain.Property, error) {
	ctx, span := service.tracer.Start(ctx, "PropertyService.Update")
	defer span.End()

	property, err := service.loadOwned(ctx, idHex, caller)
	if err != nil {
		return nil, err
	}

	patch.Apply(property)
	if err := property.Validate(); err != nil {
		return nil, err
	}

	if err := service.properties.Update(ctx, property); err != nil {
		return nil, err
	}

	service.invalidate(ctx, property.ID.Hex())
	property.OwnerInfo = caller.Summary()
	return property, nil
}

func (service *PropertyService) Delete(ctx context.Context, idHex string, caller *domain.User) error {
	ctx, span := service.tracer.Start(ctx, "PropertyService.Delete")
	defer span.End()

	property, err := service.loadOwned(ctx, idHex, caller)
	if err != nil {
		return err
	}

	if err := service.properties.Delete(ctx, property.ID); err != nil {
		return err
	}

	service.invalidate(ctx, property.ID.Hex())
	return nil
}

func (service *PropertyService) Search(ctx context.Context, query string) ([]*domain.Property, error) {
	ctx, span := service.tracer.Start(ctx, "PropertyService.Search")
	defer span.End()

	properties, err := service.properties.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	service.populateOwners(ctx, properties)
	return properties, nil
}

// loadOwned fetches the property and rejects callers that do not own it.
func (service *PropertyService) loadOwned(ctx context.Context, idHex string, caller *domain.User) (*domain.Property, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, errors.ErrPropertyNotFound
	}

	property, err := service.properties.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if property.Owner != caller.ID {
		return nil, errors.ErrNotAuthorized
	}
	return property, nil
}

func (service *PropertyService) invalidate(ctx context.Context, propertyID string) {
	if err := service.cache.DelPage(ctx); err != nil {
		service.logger.Printf("listing cache invalidation failed: %s", err)
	}
	if err := service.cache.DelUrls(ctx, propertyID); err != nil {
		service.logger.Printf("image url cache invalidation failed: %s", err)
	}
}

func (service *PropertyService) populateOwners(ctx context.Context, properties []*domain.Property) {
	owners := make(map[primitive.ObjectID]*domain.OwnerSummary)
	for _, property := range properties {
		summary, seen := owners[property.Owner]
		if !seen {
			user, err := service.users.Get(ctx, property.Owner)
			if err != nil || user == nil {
				owners[property.Owner] = nil
				continue
			}
			summary = user.Summary()
			owners[property.Owner] = summary
		}
		property.OwnerInfo = summary
	}
}
