package query

import (
	"net/url"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestParsePage(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p := ParsePage(url.Values{})
		if p.Page != 1 || p.Limit != 10 {
			t.Fatalf("expected 1/10, got %d/%d", p.Page, p.Limit)
		}
	})

	t.Run("coerces non-positive and garbage to defaults", func(t *testing.T) {
		params := url.Values{}
		params.Set("page", "0")
		params.Set("limit", "-5")
		p := ParsePage(params)
		if p.Page != 1 || p.Limit != 10 {
			t.Fatalf("expected 1/10, got %d/%d", p.Page, p.Limit)
		}

		params.Set("page", "two")
		params.Set("limit", "ten")
		p = ParsePage(params)
		if p.Page != 1 || p.Limit != 10 {
			t.Fatalf("expected 1/10, got %d/%d", p.Page, p.Limit)
		}
	})

	t.Run("skip is (page-1)*limit", func(t *testing.T) {
		params := url.Values{}
		params.Set("page", "2")
		params.Set("limit", "5")
		p := ParsePage(params)
		if p.Skip() != 5 {
			t.Fatalf("expected skip 5, got %d", p.Skip())
		}
	})
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		want  int64
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{49, 5, 10},
		{50, 5, 10},
		{51, 5, 11},
	}
	for _, tc := range cases {
		if got := TotalPages(tc.total, tc.limit); got != tc.want {
			t.Fatalf("TotalPages(%d, %d) = %d, want %d", tc.total, tc.limit, got, tc.want)
		}
	}
}

func TestParseSort(t *testing.T) {
	t.Run("default is newest first", func(t *testing.T) {
		want := bson.D{{Key: "createdAt", Value: -1}}
		if got := ParseSort(""); !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	})

	t.Run("leading dash means descending", func(t *testing.T) {
		want := bson.D{{Key: "price", Value: -1}}
		if got := ParseSort("-price"); !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	})

	t.Run("bare field means ascending", func(t *testing.T) {
		want := bson.D{{Key: "price", Value: 1}}
		if got := ParseSort("price"); !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	})
}

func TestAssemble(t *testing.T) {
	t.Run("attribute and geo predicates are ANDed", func(t *testing.T) {
		params := url.Values{}
		params.Set("city", "Lahore")
		params.Set("nearLocation", "40,-70,5000")

		q, err := Assemble(params)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := q.Filter["address.city"]; !ok {
			t.Fatalf("expected city predicate in %v", q.Filter)
		}
		location := q.Filter["location"].(bson.M)
		if _, ok := location["$near"]; !ok {
			t.Fatalf("expected $near in find filter, got %v", location)
		}
	})

	t.Run("count filter uses geoWithin instead of near", func(t *testing.T) {
		params := url.Values{}
		params.Set("nearLocation", "40,-70,5000")

		q, err := Assemble(params)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		location := q.CountFilter["location"].(bson.M)
		if _, ok := location["$geoWithin"]; !ok {
			t.Fatalf("expected $geoWithin in count filter, got %v", location)
		}
	})

	t.Run("count filter otherwise matches find filter", func(t *testing.T) {
		params := url.Values{}
		params.Set("status", "available")
		params.Set("minPrice", "100000")

		q, err := Assemble(params)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(q.Filter, q.CountFilter) {
			t.Fatalf("filters diverged: %v vs %v", q.Filter, q.CountFilter)
		}
	})

	t.Run("malformed nearLocation errors", func(t *testing.T) {
		params := url.Values{}
		params.Set("nearLocation", "not,geo")
		if _, err := Assemble(params); err == nil {
			t.Fatal("expected error for malformed nearLocation")
		}
	})

	t.Run("pagination lands in find options", func(t *testing.T) {
		params := url.Values{}
		params.Set("page", "3")
		params.Set("limit", "20")

		q, err := Assemble(params)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *q.Opts.Skip != 40 || *q.Opts.Limit != 20 {
			t.Fatalf("expected skip 40 limit 20, got %d/%d", *q.Opts.Skip, *q.Opts.Limit)
		}
	})

	t.Run("geo queries keep the store's nearest-first order", func(t *testing.T) {
		params := url.Values{}
		params.Set("nearLocation", "40,-70")
		params.Set("sort", "price")

		q, err := Assemble(params)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.Opts.Sort != nil {
			t.Fatalf("expected no sort with geo predicate, got %v", q.Opts.Sort)
		}
	})
}
