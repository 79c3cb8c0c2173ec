package domain

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/satyajeet03/rentApp/errors"
)

type UserRole string

const (
	RoleTenant UserRole = "tenant"
	RoleOwner  UserRole = "owner"
	RoleUser   UserRole = "user"
	RoleAdmin  UserRole = "admin"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Role      UserRole           `bson:"role" json:"role"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// OwnerSummary is the trimmed owner shape embedded in property responses.
type OwnerSummary struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Phone string             `json:"phone,omitempty"`
}

func (user *User) Summary() *OwnerSummary {
	return &OwnerSummary{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Phone: user.Phone,
	}
}

type PropertyType string

const (
	TypeFlats      PropertyType = "flats"
	TypeHouse      PropertyType = "house"
	TypePG         PropertyType = "pg"
	TypeCommercial PropertyType = "commercial"
)

type Address struct {
	Street  string `bson:"street" json:"street" validate:"required"`
	City    string `bson:"city" json:"city" validate:"required"`
	State   string `bson:"state" json:"state" validate:"required"`
	ZipCode string `bson:"zipCode" json:"zipCode" validate:"required"`
	Country string `bson:"country" json:"country" validate:"required"`
}

type Property struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title" validate:"required"`
	Description string             `bson:"description" json:"description" validate:"required"`
	Type        PropertyType       `bson:"type" json:"type" validate:"required,oneof=flats house pg commercial"`
	Price       float64            `bson:"price" json:"price" validate:"gte=0"`
	Address     Address            `bson:"address" json:"address"`
	Images      []string           `bson:"images" json:"images" validate:"min=1"`
	Amenities   []string           `bson:"amenities" json:"amenities"`
	Bedrooms    *int               `bson:"bedrooms,omitempty" json:"bedrooms,omitempty" validate:"omitempty,gte=0"`
	Bathrooms   *int               `bson:"bathrooms,omitempty" json:"bathrooms,omitempty" validate:"omitempty,gte=0"`
	Area        float64            `bson:"area" json:"area" validate:"gte=0"`
	Available   bool               `bson:"available" json:"available"`
	Owner       primitive.ObjectID `bson:"owner" json:"-"`
	OwnerInfo   *OwnerSummary      `bson:"-" json:"owner,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (property *Property) FromJSON(reader io.Reader) error {
	d := json.NewDecoder(reader)
	return d.Decode(property)
}

var validate = validator.New()

// Validate checks the required listing fields and reports every offending
// field at once.
func (property *Property) Validate() *errors.ValidationError {
	err := validate.Struct(property)
	if err == nil {
		return nil
	}

	invalid, ok := err.(validator.ValidationErrors)
	if !ok {
		return &errors.ValidationError{Message: err.Error()}
	}

	fields := make(map[string]string)
	for _, fieldErr := range invalid {
		name := fieldName(fieldErr)
		switch fieldErr.Tag() {
		case "required":
			fields[name] = fmt.Sprintf("Please provide %s", name)
		case "min":
			fields[name] = "Please provide at least one image"
		case "gte":
			fields[name] = fmt.Sprintf("%s cannot be negative", name)
		case "oneof":
			fields[name] = "Please specify property type"
		default:
			fields[name] = fieldErr.Tag()
		}
	}

	return &errors.ValidationError{
		Message: "Property validation failed",
		Fields:  fields,
	}
}

func fieldName(fieldErr validator.FieldError) string {
	// StructNamespace looks like Property.Address.City
	parts := strings.Split(fieldErr.StructNamespace(), ".")
	name := parts[len(parts)-1]
	return strings.ToLower(name[:1]) + name[1:]
}

// PropertyPatch is a partial update. Nil fields are left untouched; the
// owner reference is never part of a patch.
type PropertyPatch struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	Type        *PropertyType `json:"type,omitempty"`
	Price       *float64      `json:"price,omitempty"`
	Address     *Address      `json:"address,omitempty"`
	Images      *[]string     `json:"images,omitempty"`
	Amenities   *[]string     `json:"amenities,omitempty"`
	Bedrooms    *int          `json:"bedrooms,omitempty"`
	Bathrooms   *int          `json:"bathrooms,omitempty"`
	Area        *float64      `json:"area,omitempty"`
	Available   *bool         `json:"available,omitempty"`
}

func (patch *PropertyPatch) Apply(property *Property) {
	if patch.Title != nil {
		property.Title = *patch.Title
	}
	if patch.Description != nil {
		property.Description = *patch.Description
	}
	if patch.Type != nil {
		property.Type = *patch.Type
	}
	if patch.Price != nil {
		property.Price = *patch.Price
	}
	if patch.Address != nil {
		property.Address = *patch.Address
	}
	if patch.Images != nil {
		property.Images = *patch.Images
	}
	if patch.Amenities != nil {
		property.Amenities = *patch.Amenities
	}
	if patch.Bedrooms != nil {
		property.Bedrooms = patch.Bedrooms
	}
	if patch.Bathrooms != nil {
		property.Bathrooms = patch.Bathrooms
	}
	if patch.Area != nil {
		property.Area = *patch.Area
	}
	if patch.Available != nil {
		property.Available = *patch.Available
	}
}

type Interest struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Property  primitive.ObjectID `bson:"property" json:"property"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// ResolvedInterest pairs an interest with its referenced property. The
// property is nil when the listing has been deleted since.
type ResolvedInterest struct {
	Interest
	PropertyDetails *Property `json:"propertyDetails"`
}

// PropertyFilter drives the conjunctive listing query. Zero values mean
// "not filtered".
type PropertyFilter struct {
	Type      string
	City      string
	State     string
	Available *bool
	MinPrice  *float64
	MaxPrice  *float64
	SortBy    string
	SortOrder string
	Page      int64
	Limit     int64
}

func (filter *PropertyFilter) Normalize() {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	if filter.SortBy == "" {
		filter.SortBy = "createdAt"
	}
	if filter.SortOrder != "asc" {
		filter.SortOrder = "desc"
	}
}

// IsDefault reports whether the filter is the plain first page with no
// conditions, the only page worth caching.
func (filter *PropertyFilter) IsDefault() bool {
	return filter.Type == "" && filter.City == "" && filter.State == "" &&
		filter.Available == nil && filter.MinPrice == nil && filter.MaxPrice == nil &&
		filter.SortBy == "createdAt" && filter.SortOrder == "desc" &&
		filter.Page == 1 && filter.Limit == 10
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int64 `json:"page"`
	Pages int64 `json:"pages"`
}

type PropertyPage struct {
	Properties []*Property `json:"properties"`
	Pagination Pagination  `json:"pagination"`
}
