package query

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// DefaultMaxDistanceMeters is the canonical search radius applied when a
// proximity query does not carry an explicit distance: 10 km.
const DefaultMaxDistanceMeters = 10000

// Earth radius Mongo assumes when converting $centerSphere radians.
const earthRadiusMeters = 6378100

var ErrInvalidGeo = errors.New("invalid geo parameter")

// GeoFilter is a proximity predicate around a point. MaxDistance is in
// meters and the boundary is inclusive ($maxDistance semantics).
type GeoFilter struct {
	Lat         float64
	Lng         float64
	MaxDistance float64
}

// NewGeoFilter validates raw coordinates into a GeoFilter. A
// non-positive distance falls back to the default radius.
func NewGeoFilter(lat, lng, distance float64) (*GeoFilter, error) {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return nil, fmt.Errorf("%w: coordinates must be finite", ErrInvalidGeo)
	}
	if lat < -90 || lat > 90 {
		return nil, fmt.Errorf("%w: latitude %v out of range", ErrInvalidGeo, lat)
	}
	if lng < -180 || lng > 180 {
		return nil, fmt.Errorf("%w: longitude %v out of range", ErrInvalidGeo, lng)
	}
	if distance <= 0 {
		distance = DefaultMaxDistanceMeters
	}
	return &GeoFilter{Lat: lat, Lng: lng, MaxDistance: distance}, nil
}

// ParseNearLocation parses the "lat,lng[,distanceMeters]" form of the
// nearLocation query parameter. Unlike attribute filters, malformed geo
// input is an error: a silently wrong radius returning zero results is
// worse than a 400.
func ParseNearLocation(raw string) (*GeoFilter, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 && len(parts) != 3 {
		return nil, fmt.Errorf("%w: nearLocation wants lat,lng[,distance], got %q", ErrInvalidGeo, raw)
	}

	nums := make([]float64, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: nearLocation part %q is not numeric", ErrInvalidGeo, p)
		}
		nums[i] = n
	}

	distance := float64(0)
	if len(nums) == 3 {
		distance = nums[2]
	}
	return NewGeoFilter(nums[0], nums[1], distance)
}

// Near is the find-time predicate: results come back nearest first.
func (g *GeoFilter) Near() bson.M {
	return bson.M{
		"$near": bson.M{
			"$geometry": bson.M{
				"type":        "Point",
				"coordinates": []float64{g.Lng, g.Lat},
			},
			"$maxDistance": g.MaxDistance,
		},
	}
}

// Within is the count-time predicate. $near is not allowed inside
// countDocuments, so totals use an equivalent $geoWithin sphere.
func (g *GeoFilter) Within() bson.M {
	return bson.M{
		"$geoWithin": bson.M{
			"$centerSphere": []interface{}{
				[]float64{g.Lng, g.Lat},
				g.MaxDistance / earthRadiusMeters,
			},
		},
	}
}
