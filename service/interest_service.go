package application

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"

	"github.com/satyajeet03/rentApp/domain"
	"github.com/satyajeet03/rentApp/errors"
)

type InterestService struct {
	interests  domain.InterestStore
	properties domain.PropertyStore
	tracer     trace.Tracer
	logger     *logrus.Logger
}

func NewInterestService(interests domain.InterestStore, properties domain.PropertyStore, tracer trace.Tracer, logger *logrus.Logger) *InterestService {
	return &InterestService{
		interests:  interests,
		properties: properties,
		tracer:     tracer,
		logger:     logger,
	}
}

// Add marks interest. A duplicate pair surfaces as ErrAlreadyInterested
// straight from the store's unique index.
func (service *InterestService) Add(ctx context.Context, user *domain.User, propertyIDHex string) (*domain.Interest, error) {
	ctx, span := service.tracer.Start(ctx, "InterestService.Add")
	defer span.End()

	propertyID, err := primitive.ObjectIDFromHex(propertyIDHex)
	if err != nil {
		return nil, errors.ErrPropertyNotFound
	}

	interest := &domain.Interest{
		User:     user.ID,
		Property: propertyID,
	}
	return service.interests.Insert(ctx, interest)
}

func (service *InterestService) Remove(ctx context.Context, user *domain.User, propertyIDHex string) error {
	ctx, span := service.tracer.Start(ctx, "InterestService.Remove")
	defer span.End()

	propertyID, err := primitive.ObjectIDFromHex(propertyIDHex)
	if err != nil {
		return errors.ErrInterestNotFound
	}

	return service.interests.Delete(ctx, user.ID, propertyID)
}

func (service *InterestService) Check(ctx context.Context, user *domain.User, propertyIDHex string) (bool, error) {
	ctx, span := service.tracer.Start(ctx, "InterestService.Check")
	defer span.End()

	propertyID, err := primitive.ObjectIDFromHex(propertyIDHex)
	if err != nil {
		return false, nil
	}

	return service.interests.Exists(ctx, user.ID, propertyID)
}

// GetMine lists the caller's interests with each referenced property
// resolved. A listing deleted since stays in the result with a nil property.
func (service *InterestService) GetMine(ctx context.Context, user *domain.User) ([]*domain.ResolvedInterest, error) {
	ctx, span := service.tracer.Start(ctx, "InterestService.GetMine")
	defer span.End()

	interests, err := service.interests.GetByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	resolved := make([]*domain.ResolvedInterest, 0, len(interests))
	for _, interest := range interests {
		entry := &domain.ResolvedInterest{Interest: *interest}
		property, err := service.properties.Get(ctx, interest.Property)
		if err == nil {
			entry.PropertyDetails = property
		} else if err != errors.ErrPropertyNotFound {
			return nil, err
		}
		resolved = append(resolved, entry)
	}

	return resolved, nil
}
