package query

import (
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	DefaultSort  = "-createdAt"
)

// Page is a coerced pagination request: both values are always >= 1.
type Page struct {
	Page  int
	Limit int
}

func ParsePage(params url.Values) Page {
	p := Page{Page: DefaultPage, Limit: DefaultLimit}
	if raw := params.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			p.Page = n
		}
	}
	if raw := params.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			p.Limit = n
		}
	}
	return p
}

func (p Page) Skip() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages is ceil(total/limit).
func TotalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}

// ParseSort turns a "-field" / "field" spec into a Mongo sort document,
// defaulting to newest first.
func ParseSort(raw string) bson.D {
	if raw == "" {
		raw = DefaultSort
	}
	order := 1
	field := raw
	if strings.HasPrefix(raw, "-") {
		order = -1
		field = strings.TrimPrefix(raw, "-")
	}
	if field == "" {
		field = "createdAt"
		order = -1
	}
	return bson.D{{Key: field, Value: order}}
}

// Assembled is one executable search: the find filter, the matching count
// filter, find options with pagination applied, and the coerced page.
type Assembled struct {
	Filter      bson.M
	CountFilter bson.M
	Opts        *options.FindOptions
	Page        Page
}

// Assemble merges the attribute and geo predicates (logical AND), applies
// sort and pagination, and prepares an equivalent count predicate. Only a
// malformed nearLocation errors; everything else degrades to "no
// constraint". When a geo predicate is present the store's nearest-first
// ordering is kept and the sort parameter is ignored.
func Assemble(params url.Values) (*Assembled, error) {
	filter := BuildAttributeFilter(params)
	count := BuildAttributeFilter(params)

	page := ParsePage(params)
	opts := options.Find().
		SetSkip(int64(page.Skip())).
		SetLimit(int64(page.Limit))

	if raw := params.Get("nearLocation"); raw != "" {
		geo, err := ParseNearLocation(raw)
		if err != nil {
			return nil, err
		}
		filter["location"] = geo.Near()
		count["location"] = geo.Within()
	} else {
		opts.SetSort(ParseSort(params.Get("sort")))
	}

	return &Assembled{
		Filter:      filter,
		CountFilter: count,
		Opts:        opts,
		Page:        page,
	}, nil
}
