package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Property types accepted on create and update.
const (
	TypeHouse      = "house"
	TypeApartment  = "apartment"
	TypeCommercial = "commercial"
)

// Listing statuses. Any of the four values is accepted on update; there is
// no transition table.
const (
	StatusAvailable = "available"
	StatusSold      = "sold"
	StatusRented    = "rented"
	StatusPending   = "pending"
)

// GeoPoint is a GeoJSON point. Coordinates are [longitude, latitude] —
// Mongo's 2dsphere order, not the lat/lng order clients send.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

func NewGeoPoint(lng, lat float64) *GeoPoint {
	return &GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// ImageRef points at an object in external image storage.
type ImageRef struct {
	PublicID string `bson:"public_id" json:"public_id"`
	URL      string `bson:"url" json:"url"`
}

type Address struct {
	Street  string `bson:"street,omitempty" json:"street,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	ZipCode string `bson:"zipCode,omitempty" json:"zipCode,omitempty"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`
}

type Amenity struct {
	Name     string  `bson:"name" json:"name"`
	Distance float64 `bson:"distance" json:"distance"`
}

type Property struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Address      Address            `bson:"address" json:"address"`
	Location     *GeoPoint          `bson:"location,omitempty" json:"location,omitempty"`
	Price        float64            `bson:"price" json:"price"`
	PropertyType string             `bson:"propertyType" json:"propertyType"`
	Status       string             `bson:"status" json:"status"`
	Bedrooms     int                `bson:"bedrooms" json:"bedrooms"`
	Bathrooms    int                `bson:"bathrooms" json:"bathrooms"`
	Area         float64            `bson:"area,omitempty" json:"area,omitempty"`
	Images       []ImageRef         `bson:"images" json:"images"`
	Features     []string           `bson:"features,omitempty" json:"features,omitempty"`
	Amenities    []Amenity          `bson:"amenities,omitempty" json:"amenities,omitempty"`
	Agent        primitive.ObjectID `bson:"agent" json:"agent"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// CreatePropertyInput is the propertyData JSON field of the multipart
// create request. Latitude/longitude are pointers so "not sent" is
// distinguishable from zero; location is only built when both are present.
type CreatePropertyInput struct {
	Title        string    `json:"title" validate:"required"`
	Description  string    `json:"description"`
	Address      Address   `json:"address"`
	Price        *float64  `json:"price" validate:"required,gte=0"`
	PropertyType string    `json:"propertyType" validate:"required,oneof=house apartment commercial"`
	Status       string    `json:"status" validate:"omitempty,oneof=available sold rented pending"`
	Bedrooms     int       `json:"bedrooms" validate:"gte=0"`
	Bathrooms    int       `json:"bathrooms" validate:"gte=0"`
	Area         float64   `json:"area" validate:"gte=0"`
	Features     []string  `json:"features"`
	Amenities    []Amenity `json:"amenities"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
}

// UpdatePropertyInput is the allow-list of mutable fields for update.
// Anything else in the request body is ignored; agent, images and
// createdAt are never patched through this path.
type UpdatePropertyInput struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Address      *Address  `json:"address"`
	Price        *float64  `json:"price" validate:"omitempty,gte=0"`
	PropertyType *string   `json:"propertyType" validate:"omitempty,oneof=house apartment commercial"`
	Status       *string   `json:"status" validate:"omitempty,oneof=available sold rented pending"`
	Bedrooms     *int      `json:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms    *int      `json:"bathrooms" validate:"omitempty,gte=0"`
	Area         *float64  `json:"area" validate:"omitempty,gte=0"`
	Features     []string  `json:"features"`
	Amenities    []Amenity `json:"amenities"`
	Coordinates  string    `json:"coordinates"` // "lng,lat"
}

// TypeStat is one row of the group-by-propertyType aggregation.
type TypeStat struct {
	PropertyType string  `bson:"_id" json:"propertyType"`
	Count        int64   `bson:"count" json:"count"`
	AvgPrice     float64 `bson:"avgPrice" json:"avgPrice"`
	MinPrice     float64 `bson:"minPrice" json:"minPrice"`
	MaxPrice     float64 `bson:"maxPrice" json:"maxPrice"`
}
