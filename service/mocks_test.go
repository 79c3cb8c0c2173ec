package application

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/satyajeet03/rentApp/domain"
)

// MockUserStore is a mock implementation of domain.UserStore.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Register(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockPropertyStore is a mock implementation of domain.PropertyStore.
type MockPropertyStore struct {
	mock.Mock
}

func (m *MockPropertyStore) Insert(ctx context.Context, property *domain.Property) (*domain.Property, error) {
	args := m.Called(ctx, property)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockPropertyStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockPropertyStore) GetPage(ctx context.Context, filter *domain.PropertyFilter) ([]*domain.Property, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Property), args.Get(1).(int64), args.Error(2)
}

func (m *MockPropertyStore) GetByOwner(ctx context.Context, owner primitive.ObjectID) ([]*domain.Property, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Property), args.Error(1)
}

func (m *MockPropertyStore) Update(ctx context.Context, property *domain.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPropertyStore) Search(ctx context.Context, query string) ([]*domain.Property, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Property), args.Error(1)
}

// MockInterestStore is a mock implementation of domain.InterestStore.
type MockInterestStore struct {
	mock.Mock
}

func (m *MockInterestStore) Insert(ctx context.Context, interest *domain.Interest) (*domain.Interest, error) {
	args := m.Called(ctx, interest)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Interest), args.Error(1)
}

func (m *MockInterestStore) Delete(ctx context.Context, user, property primitive.ObjectID) error {
	args := m.Called(ctx, user, property)
	return args.Error(0)
}

func (m *MockInterestStore) Exists(ctx context.Context, user, property primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, user, property)
	return args.Bool(0), args.Error(1)
}

func (m *MockInterestStore) GetByUser(ctx context.Context, user primitive.ObjectID) ([]*domain.Interest, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Interest), args.Error(1)
}

// MockListingCache is a mock implementation of domain.ListingCache.
type MockListingCache struct {
	mock.Mock
}

func (m *MockListingCache) PostPage(ctx context.Context, page *domain.PropertyPage) error {
	args := m.Called(ctx, page)
	return args.Error(0)
}

func (m *MockListingCache) GetPage(ctx context.Context) (*domain.PropertyPage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PropertyPage), args.Error(1)
}

func (m *MockListingCache) DelPage(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockListingCache) PostUrls(ctx context.Context, propertyID string, urls []string) error {
	args := m.Called(ctx, propertyID, urls)
	return args.Error(0)
}

func (m *MockListingCache) GetUrls(ctx context.Context, propertyID string) ([]string, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockListingCache) DelUrls(ctx context.Context, propertyID string) error {
	args := m.Called(ctx, propertyID)
	return args.Error(0)
}

// MockImageStorage is a mock implementation of domain.ImageStorage.
type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) SaveImage(ctx context.Context, folder, name, contentType string, content []byte) (string, error) {
	args := m.Called(ctx, folder, name, contentType, content)
	return args.String(0), args.Error(1)
}
