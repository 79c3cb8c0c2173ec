package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/satyajeet03/rentApp/domain"
)

// ErrLoginRequired is returned when an operation needs authentication but no
// token is set. Callers should prompt for login instead of retrying.
var ErrLoginRequired = errors.New("login required")

// APIError carries the status and message of a non-2xx server response.
type APIError struct {
	Status  int               `json:"-"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// Filter mirrors the listing query parameters. The zero value lists the
// first page with server defaults.
type Filter struct {
	Type      string
	City      string
	State     string
	MinPrice  float64
	MaxPrice  float64
	Available *bool
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// Key produces a stable cache key for the filter.
func (f Filter) Key() string {
	available := ""
	if f.Available != nil {
		available = strconv.FormatBool(*f.Available)
	}
	return fmt.Sprintf("%s|%s|%s|%g|%g|%s|%s|%s|%s|%d|%d",
		f.Type, f.City, f.State, f.MinPrice, f.MaxPrice, available,
		f.Search, f.SortBy, f.SortOrder, f.Page, f.Limit)
}

func (f Filter) values() url.Values {
	values := url.Values{}
	if f.Type != "" {
		values.Set("type", f.Type)
	}
	if f.City != "" {
		values.Set("city", f.City)
	}
	if f.State != "" {
		values.Set("state", f.State)
	}
	if f.MinPrice > 0 {
		values.Set("minPrice", strconv.FormatFloat(f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice > 0 {
		values.Set("maxPrice", strconv.FormatFloat(f.MaxPrice, 'f', -1, 64))
	}
	if f.Available != nil {
		values.Set("available", strconv.FormatBool(*f.Available))
	}
	if f.Search != "" {
		values.Set("search", f.Search)
	}
	if f.SortBy != "" {
		values.Set("sortBy", f.SortBy)
	}
	if f.SortOrder != "" {
		values.Set("sortOrder", f.SortOrder)
	}
	if f.Page > 0 {
		values.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		values.Set("limit", strconv.Itoa(f.Limit))
	}
	return values
}

// Client is a typed API client backed by a shared QueryCache.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *QueryCache

	mu    sync.RWMutex
	token string
	user  *domain.User
}

func New(baseURL string, httpClient *http.Client, cache *QueryCache) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		cache:      cache,
	}
}

// Cache exposes the shared query cache instance.
func (c *Client) Cache() *QueryCache {
	return c.cache
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken installs a previously obtained token, e.g. from persisted session
// state.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

type authResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

func (c *Client) Register(ctx context.Context, name, email, password, role, phone string) (*domain.User, error) {
	body := map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
		"role":     role,
		"phone":    phone,
	}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", body, &resp); err != nil {
		return nil, err
	}
	c.setSession(resp.User, resp.Token)
	return resp.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	body := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, err
	}
	c.setSession(resp.User, resp.Token)
	return resp.User, nil
}

func (c *Client) setSession(user *domain.User, token string) {
	c.mu.Lock()
	c.user = user
	c.token = token
	c.mu.Unlock()
	c.cache.InvalidatePrefix("interests:")
}

// CurrentUser returns the user from the last register/login, if any.
func (c *Client) CurrentUser() *domain.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

func (c *Client) ListProperties(ctx context.Context, filter Filter) (*domain.PropertyPage, error) {
	key := "properties:list:" + filter.Key()
	value, err := c.cache.Do(key, func() (interface{}, error) {
		var page domain.PropertyPage
		path := "/properties"
		if query := filter.values().Encode(); query != "" {
			path += "?" + query
		}
		if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
			return nil, err
		}
		return &page, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*domain.PropertyPage), nil
}

func (c *Client) SearchProperties(ctx context.Context, query string) ([]*domain.Property, error) {
	key := "properties:search:" + query
	value, err := c.cache.Do(key, func() (interface{}, error) {
		var results []*domain.Property
		path := "/properties/search?q=" + url.QueryEscape(query)
		if err := c.do(ctx, http.MethodGet, path, nil, &results); err != nil {
			return nil, err
		}
		return results, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]*domain.Property), nil
}

func (c *Client) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	key := "properties:id:" + id
	value, err := c.cache.Do(key, func() (interface{}, error) {
		var property domain.Property
		if err := c.do(ctx, http.MethodGet, "/properties/"+id, nil, &property); err != nil {
			return nil, err
		}
		return &property, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*domain.Property), nil
}

func (c *Client) MyProperties(ctx context.Context) ([]*domain.Property, error) {
	if !c.authenticated() {
		return nil, ErrLoginRequired
	}
	value, err := c.cache.Do("properties:owner", func() (interface{}, error) {
		var properties []*domain.Property
		if err := c.do(ctx, http.MethodGet, "/properties/owner/properties", nil, &properties); err != nil {
			return nil, err
		}
		return properties, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]*domain.Property), nil
}

func (c *Client) CreateProperty(ctx context.Context, property *domain.Property) (*domain.Property, error) {
	if !c.authenticated() {
		return nil, ErrLoginRequired
	}
	var created domain.Property
	if err := c.do(ctx, http.MethodPost, "/properties/createProperties", property, &created); err != nil {
		return nil, err
	}
	c.cache.InvalidatePrefix("properties:")
	return &created, nil
}

func (c *Client) UpdateProperty(ctx context.Context, id string, property *domain.Property) (*domain.Property, error) {
	if !c.authenticated() {
		return nil, ErrLoginRequired
	}
	var updated domain.Property
	if err := c.do(ctx, http.MethodPut, "/properties/"+id, property, &updated); err != nil {
		return nil, err
	}
	c.cache.InvalidatePrefix("properties:")
	return &updated, nil
}

func (c *Client) DeleteProperty(ctx context.Context, id string) error {
	if !c.authenticated() {
		return ErrLoginRequired
	}
	if err := c.do(ctx, http.MethodDelete, "/properties/"+id, nil, nil); err != nil {
		return err
	}
	c.cache.InvalidatePrefix("properties:")
	return nil
}

func (c *Client) AddInterest(ctx context.Context, propertyID string) error {
	if !c.authenticated() {
		return ErrLoginRequired
	}
	body := map[string]string{"propertyId": propertyID}
	if err := c.do(ctx, http.MethodPost, "/interests/add", body, nil); err != nil {
		return err
	}
	c.cache.InvalidatePrefix("interests:")
	return nil
}

func (c *Client) RemoveInterest(ctx context.Context, propertyID string) error {
	if !c.authenticated() {
		return ErrLoginRequired
	}
	body := map[string]string{"propertyId": propertyID}
	if err := c.do(ctx, http.MethodDelete, "/interests/remove", body, nil); err != nil {
		return err
	}
	c.cache.InvalidatePrefix("interests:")
	return nil
}

func (c *Client) CheckInterest(ctx context.Context, propertyID string) (bool, error) {
	if !c.authenticated() {
		return false, ErrLoginRequired
	}
	key := "interests:check:" + propertyID
	value, err := c.cache.Do(key, func() (interface{}, error) {
		var resp struct {
			Interested bool `json:"interested"`
		}
		if err := c.do(ctx, http.MethodGet, "/interests/check/"+propertyID, nil, &resp); err != nil {
			return nil, err
		}
		return resp.Interested, nil
	})
	if err != nil {
		return false, err
	}
	return value.(bool), nil
}

func (c *Client) MyInterests(ctx context.Context) ([]*domain.ResolvedInterest, error) {
	if !c.authenticated() {
		return nil, ErrLoginRequired
	}
	value, err := c.cache.Do("interests:mine", func() (interface{}, error) {
		var interests []*domain.ResolvedInterest
		if err := c.do(ctx, http.MethodGet, "/interests", nil, &interests); err != nil {
			return nil, err
		}
		return interests, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]*domain.ResolvedInterest), nil
}

// UploadImages sends the given files as multipart form data and returns the
// URLs the image host assigned to the accepted ones.
func (c *Client) UploadImages(ctx context.Context, files []UploadFile) ([]string, error) {
	if !c.authenticated() {
		return nil, ErrLoginRequired
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, file := range files {
		part, err := writer.CreateFormFile("images", file.Name)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload-images", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.setAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp)
	}

	var result struct {
		Urls []string `json:"urls"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return result.Urls, nil
}

// UploadFile is one file selected for upload.
type UploadFile struct {
	Name    string
	Content []byte
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) setAuthHeader(req *http.Request) {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: "Server error"}
	_ = json.NewDecoder(resp.Body).Decode(apiErr)
	return apiErr
}
