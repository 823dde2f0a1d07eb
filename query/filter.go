package query

import (
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// BuildAttributeFilter turns recognized query parameters into a Mongo
// filter document. Unrecognized keys are ignored and numeric values that
// fail to parse drop that filter instead of erroring; an empty parameter
// set yields an empty filter that matches everything.
func BuildAttributeFilter(params url.Values) bson.M {
	filter := bson.M{}

	if propertyType := params.Get("propertyType"); propertyType != "" {
		types := strings.Split(propertyType, ",")
		filter["propertyType"] = bson.M{"$in": types}
	}
	if status := params.Get("status"); status != "" {
		filter["status"] = status
	}

	price := bson.M{}
	if minPrice := params.Get("minPrice"); minPrice != "" {
		if min, err := strconv.ParseFloat(minPrice, 64); err == nil {
			price["$gte"] = min
		}
	}
	if maxPrice := params.Get("maxPrice"); maxPrice != "" {
		if max, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			price["$lte"] = max
		}
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	if city := params.Get("city"); city != "" {
		filter["address.city"] = bson.M{"$regex": city, "$options": "i"}
	}
	if state := params.Get("state"); state != "" {
		filter["address.state"] = bson.M{"$regex": state, "$options": "i"}
	}

	bedrooms := bson.M{}
	if minBedrooms := params.Get("minBedrooms"); minBedrooms != "" {
		if min, err := strconv.Atoi(minBedrooms); err == nil {
			bedrooms["$gte"] = min
		}
	}
	if maxBedrooms := params.Get("maxBedrooms"); maxBedrooms != "" {
		if max, err := strconv.Atoi(maxBedrooms); err == nil {
			bedrooms["$lte"] = max
		}
	}
	// The frontend's "2+" style shorthand wins over minBedrooms.
	if shorthand := params.Get("bedrooms"); shorthand != "" {
		if n, err := strconv.Atoi(shorthand); err == nil {
			bedrooms["$gte"] = n
		}
	}
	if len(bedrooms) > 0 {
		filter["bedrooms"] = bedrooms
	}

	if bathrooms := params.Get("bathrooms"); bathrooms != "" {
		if n, err := strconv.Atoi(bathrooms); err == nil {
			filter["bathrooms"] = bson.M{"$gte": n}
		}
	}

	return filter
}
