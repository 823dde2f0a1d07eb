package query

import (
	"net/url"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildAttributeFilter(t *testing.T) {
	t.Run("empty params match everything", func(t *testing.T) {
		filter := BuildAttributeFilter(url.Values{})
		if len(filter) != 0 {
			t.Fatalf("expected empty filter, got %v", filter)
		}
	})

	t.Run("unrecognized keys are ignored", func(t *testing.T) {
		params := url.Values{}
		params.Set("color", "blue")
		params.Set("unknown", "42")
		filter := BuildAttributeFilter(params)
		if len(filter) != 0 {
			t.Fatalf("expected empty filter, got %v", filter)
		}
	})

	t.Run("comma separated propertyType becomes membership test", func(t *testing.T) {
		params := url.Values{}
		params.Set("propertyType", "house,apartment")
		filter := BuildAttributeFilter(params)
		want := bson.M{"$in": []string{"house", "apartment"}}
		if !reflect.DeepEqual(filter["propertyType"], want) {
			t.Fatalf("expected %v, got %v", want, filter["propertyType"])
		}
	})

	t.Run("status is exact match", func(t *testing.T) {
		params := url.Values{}
		params.Set("status", "available")
		filter := BuildAttributeFilter(params)
		if filter["status"] != "available" {
			t.Fatalf("expected available, got %v", filter["status"])
		}
	})

	t.Run("price range is inclusive on both ends", func(t *testing.T) {
		params := url.Values{}
		params.Set("minPrice", "100000")
		params.Set("maxPrice", "300000")
		filter := BuildAttributeFilter(params)
		want := bson.M{"$gte": 100000.0, "$lte": 300000.0}
		if !reflect.DeepEqual(filter["price"], want) {
			t.Fatalf("expected %v, got %v", want, filter["price"])
		}
	})

	t.Run("unparseable numbers silently drop the filter", func(t *testing.T) {
		params := url.Values{}
		params.Set("minPrice", "cheap")
		params.Set("bedrooms", "many")
		params.Set("bathrooms", "1.5ish")
		filter := BuildAttributeFilter(params)
		if len(filter) != 0 {
			t.Fatalf("expected empty filter, got %v", filter)
		}
	})

	t.Run("city is case-insensitive substring match", func(t *testing.T) {
		params := url.Values{}
		params.Set("city", "Lahore")
		filter := BuildAttributeFilter(params)
		want := bson.M{"$regex": "Lahore", "$options": "i"}
		if !reflect.DeepEqual(filter["address.city"], want) {
			t.Fatalf("expected %v, got %v", want, filter["address.city"])
		}
	})

	t.Run("state is case-insensitive substring match", func(t *testing.T) {
		params := url.Values{}
		params.Set("state", "punjab")
		filter := BuildAttributeFilter(params)
		want := bson.M{"$regex": "punjab", "$options": "i"}
		if !reflect.DeepEqual(filter["address.state"], want) {
			t.Fatalf("expected %v, got %v", want, filter["address.state"])
		}
	})

	t.Run("bedroom range merges min and max", func(t *testing.T) {
		params := url.Values{}
		params.Set("minBedrooms", "2")
		params.Set("maxBedrooms", "4")
		filter := BuildAttributeFilter(params)
		want := bson.M{"$gte": 2, "$lte": 4}
		if !reflect.DeepEqual(filter["bedrooms"], want) {
			t.Fatalf("expected %v, got %v", want, filter["bedrooms"])
		}
	})

	t.Run("bedrooms shorthand means at least N and wins over minBedrooms", func(t *testing.T) {
		params := url.Values{}
		params.Set("minBedrooms", "1")
		params.Set("bedrooms", "3")
		filter := BuildAttributeFilter(params)
		want := bson.M{"$gte": 3}
		if !reflect.DeepEqual(filter["bedrooms"], want) {
			t.Fatalf("expected %v, got %v", want, filter["bedrooms"])
		}
	})

	t.Run("bathrooms means at least N", func(t *testing.T) {
		params := url.Values{}
		params.Set("bathrooms", "2")
		filter := BuildAttributeFilter(params)
		want := bson.M{"$gte": 2}
		if !reflect.DeepEqual(filter["bathrooms"], want) {
			t.Fatalf("expected %v, got %v", want, filter["bathrooms"])
		}
	})
}
