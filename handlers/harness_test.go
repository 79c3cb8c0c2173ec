package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"

	"github.com/satyajeet03/rentApp/authorization"
	"github.com/satyajeet03/rentApp/casbinAuthorization"
	"github.com/satyajeet03/rentApp/domain"
	"github.com/satyajeet03/rentApp/errors"
	application "github.com/satyajeet03/rentApp/service"
)

type memUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[primitive.ObjectID]*domain.User)}
}

func (s *memUserStore) Register(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return nil, errors.ErrEmailExists
		}
	}
	stored := *user
	stored.ID = primitive.NewObjectID()
	stored.CreatedAt = time.Now()
	s.users[stored.ID] = &stored
	return &stored, nil
}

func (s *memUserStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (s *memUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

type memPropertyStore struct {
	mu         sync.Mutex
	properties []*domain.Property
}

func newMemPropertyStore() *memPropertyStore {
	return &memPropertyStore{}
}

func (s *memPropertyStore) Insert(ctx context.Context, property *domain.Property) (*domain.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *property
	stored.ID = primitive.NewObjectID()
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.properties = append(s.properties, &stored)
	copied := stored
	return &copied, nil
}

func (s *memPropertyStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, property := range s.properties {
		if property.ID == id {
			copied := *property
			return &copied, nil
		}
	}
	return nil, errors.ErrPropertyNotFound
}

func (s *memPropertyStore) matches(property *domain.Property, filter *domain.PropertyFilter) bool {
	if filter.Type != "" && string(property.Type) != filter.Type {
		return false
	}
	if filter.City != "" && property.Address.City != filter.City {
		return false
	}
	if filter.State != "" && property.Address.State != filter.State {
		return false
	}
	if filter.Available != nil && property.Available != *filter.Available {
		return false
	}
	if filter.MinPrice != nil && property.Price < *filter.MinPrice {
		return false
	}
	if filter.MaxPrice != nil && property.Price > *filter.MaxPrice {
		return false
	}
	return true
}

// GetPage filters and pages newest-first, mirroring the mongo store's
// default sort.
func (s *memPropertyStore) GetPage(ctx context.Context, filter *domain.PropertyFilter) ([]*domain.Property, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*domain.Property
	for i := len(s.properties) - 1; i >= 0; i-- {
		if s.matches(s.properties[i], filter) {
			copied := *s.properties[i]
			matched = append(matched, &copied)
		}
	}

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *memPropertyStore) GetByOwner(ctx context.Context, owner primitive.ObjectID) ([]*domain.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var owned []*domain.Property
	for _, property := range s.properties {
		if property.Owner == owner {
			copied := *property
			owned = append(owned, &copied)
		}
	}
	return owned, nil
}

func (s *memPropertyStore) Update(ctx context.Context, property *domain.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.properties {
		if existing.ID == property.ID {
			copied := *property
			copied.UpdatedAt = time.Now()
			s.properties[i] = &copied
			return nil
		}
	}
	return errors.ErrPropertyNotFound
}

func (s *memPropertyStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.properties {
		if existing.ID == id {
			s.properties = append(s.properties[:i], s.properties[i+1:]...)
			return nil
		}
	}
	return errors.ErrPropertyNotFound
}

func (s *memPropertyStore) Search(ctx context.Context, query string) ([]*domain.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	needle := strings.ToLower(query)
	var found []*domain.Property
	for _, property := range s.properties {
		haystack := strings.ToLower(property.Title + " " + property.Description)
		if strings.Contains(haystack, needle) {
			copied := *property
			found = append(found, &copied)
		}
	}
	return found, nil
}

func (s *memPropertyStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.properties)
}

type memInterestStore struct {
	mu        sync.Mutex
	interests []*domain.Interest
}

func newMemInterestStore() *memInterestStore {
	return &memInterestStore{}
}

func (s *memInterestStore) Insert(ctx context.Context, interest *domain.Interest) (*domain.Interest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.interests {
		if existing.User == interest.User && existing.Property == interest.Property {
			return nil, errors.ErrAlreadyInterested
		}
	}
	stored := *interest
	stored.ID = primitive.NewObjectID()
	stored.CreatedAt = time.Now()
	s.interests = append(s.interests, &stored)
	copied := stored
	return &copied, nil
}

func (s *memInterestStore) Delete(ctx context.Context, user, property primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.interests {
		if existing.User == user && existing.Property == property {
			s.interests = append(s.interests[:i], s.interests[i+1:]...)
			return nil
		}
	}
	return errors.ErrInterestNotFound
}

func (s *memInterestStore) Exists(ctx context.Context, user, property primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.interests {
		if existing.User == user && existing.Property == property {
			return true, nil
		}
	}
	return false, nil
}

func (s *memInterestStore) GetByUser(ctx context.Context, user primitive.ObjectID) ([]*domain.Interest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var mine []*domain.Interest
	for _, existing := range s.interests {
		if existing.User == user {
			copied := *existing
			mine = append(mine, &copied)
		}
	}
	return mine, nil
}

func (s *memInterestStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.interests)
}

// missListingCache always misses so reads fall through to the store.
type missListingCache struct{}

func (missListingCache) PostPage(ctx context.Context, page *domain.PropertyPage) error {
	return nil
}

func (missListingCache) GetPage(ctx context.Context) (*domain.PropertyPage, error) {
	return nil, fmt.Errorf("cache miss")
}

func (missListingCache) DelPage(ctx context.Context) error { return nil }

func (missListingCache) PostUrls(ctx context.Context, propertyID string, urls []string) error {
	return nil
}

func (missListingCache) GetUrls(ctx context.Context, propertyID string) ([]string, error) {
	return nil, fmt.Errorf("cache miss")
}

func (missListingCache) DelUrls(ctx context.Context, propertyID string) error { return nil }

type fakeImageStorage struct{}

func (fakeImageStorage) SaveImage(ctx context.Context, folder, name, contentType string, content []byte) (string, error) {
	return "https://img.example.com/" + path.Join(folder, name), nil
}

// testEnv wires the full router the way startup does: auth middleware plus
// role policy on the protected subrouters, in-memory stores underneath.
type testEnv struct {
	router     *mux.Router
	tokens     *authorization.TokenService
	users      *memUserStore
	properties *memPropertyStore
	interests  *memInterestStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	tracer := trace.NewNoopTracerProvider().Tracer("test")

	tokens, err := authorization.NewTokenService([]byte("test-secret"), time.Hour)
	if err != nil {
		t.Fatalf("token service: %s", err)
	}

	enforcer, err := casbinAuthorization.InitializeEnforcer("../rbac_model.conf", "../policy.csv")
	if err != nil {
		t.Fatalf("enforcer: %s", err)
	}

	users := newMemUserStore()
	properties := newMemPropertyStore()
	interests := newMemInterestStore()

	authService := application.NewAuthService(users, tokens, tracer, logger)
	propertyService := application.NewPropertyService(properties, users, missListingCache{}, tracer, logger)
	interestService := application.NewInterestService(interests, properties, tracer, logger)
	uploadService := application.NewUploadService(fakeImageStorage{}, tracer, logger)

	protect := []mux.MiddlewareFunc{
		authorization.Middleware(tokens, users, logger),
		casbinAuthorization.CasbinMiddleware(enforcer, logger),
	}

	router := mux.NewRouter()
	NewAuthHandler(authService, tracer, logger).Init(router.PathPrefix("/auth").Subrouter())
	NewPropertyHandler(propertyService, tracer, logger).Init(router.PathPrefix("/properties").Subrouter(), protect...)
	NewInterestHandler(interestService, tracer, logger).Init(router.PathPrefix("/interests").Subrouter(), protect...)
	NewUploadHandler(uploadService, tracer, logger).Init(router.PathPrefix("/upload-images").Subrouter(), protect...)

	return &testEnv{
		router:     router,
		tokens:     tokens,
		users:      users,
		properties: properties,
		interests:  interests,
	}
}

func (env *testEnv) do(t *testing.T, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encoding body: %s", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("decoding response: %s", err)
	}
}

type session struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

func (env *testEnv) register(t *testing.T, name, email string, role domain.UserRole) session {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"name":     name,
		"email":    email,
		"password": "password123",
		"role":     role,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", email, rec.Code, rec.Body.String())
	}

	var s session
	decodeBody(t, rec, &s)
	return s
}

func propertyPayload() map[string]interface{} {
	return map[string]interface{}{
		"title":       "Sea View Flat",
		"description": "Two rooms facing the bay",
		"type":        "flats",
		"price":       25000,
		"address": map[string]string{
			"street":  "12 Marine Drive",
			"city":    "Mumbai",
			"state":   "Maharashtra",
			"zipCode": "400001",
			"country": "India",
		},
		"images": []string{"https://img.example.com/a.jpg"},
	}
}

func (env *testEnv) createProperty(t *testing.T, token string) *domain.Property {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/properties/createProperties", token, propertyPayload())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create property: status %d, body %s", rec.Code, rec.Body.String())
	}

	var created domain.Property
	decodeBody(t, rec, &created)
	return &created
}

func (env *testEnv) expiredToken(t *testing.T, userID string) string {
	t.Helper()

	shortLived, err := authorization.NewTokenService([]byte("test-secret"), time.Nanosecond)
	if err != nil {
		t.Fatalf("token service: %s", err)
	}
	token, err := shortLived.Issue(userID)
	if err != nil {
		t.Fatalf("issuing token: %s", err)
	}
	time.Sleep(5 * time.Millisecond)
	return token
}
