package jsonapi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultLimit  = 20
	DefaultOffset = 0
)

// Page holds the paging window of a collection request.
type Page struct {
	Limit  int
	Offset int
}

/*
Query describes how a request filters, paginates and side-loads resources.

IsPublic and Path never reach the wire: IsPublic switches the Authorization
header to "Public" and Path overrides the URL of collection requests.
*/
type Query struct {
	Page     Page
	Filters  map[string]string
	Include  string
	Sort     string
	Extras   map[string]string
	IsPublic *bool
	Path     string
}

// NewQuery returns a Query with the default page (limit 20, offset 0).
func NewQuery() Query {
	return Query{Page: Page{Limit: DefaultLimit, Offset: DefaultOffset}}
}

// Public reports whether the request should use the public Authorization.
func (q Query) Public() bool {
	return q.IsPublic != nil && *q.IsPublic
}

/*
Values
Converts a Query object to GET variables. The page is always present; filters,
include and sort only when they are non-empty. A filter key containing "__" is
expanded into nested brackets:

	Query{Filters: map[string]string{"age__gt": "15"}}  // filter[age][gt]=15
*/
func (q Query) Values() url.Values {
	result := make(url.Values)
	result.Set("page[limit]", strconv.Itoa(nonNegative(q.Page.Limit)))
	result.Set("page[offset]", strconv.Itoa(nonNegative(q.Page.Offset)))
	if len(q.Filters) > 0 {
		for key, value := range q.Filters {
			finalKey := "filter"
			for _, part := range strings.Split(key, "__") {
				finalKey = finalKey + fmt.Sprintf("[%s]", part)
			}
			result.Add(finalKey, value)
		}
	}
	if q.Include != "" {
		result.Set("include", q.Include)
	}
	if q.Sort != "" {
		result.Set("sort", q.Sort)
	}
	for key, value := range q.Extras {
		result.Set(key, value)
	}
	return result
}

/*
Encode
Converts a Query object to a string that's ready to be used as GET variables
for {json:api} requests.
*/
func (q Query) Encode() string {
	return q.Values().Encode()
}

/*
Merge overlays 'other' on top of q. The page is always taken from 'other';
every other field only when it is set there (non-nil filters and IsPublic,
non-empty strings), so unset overrides never clobber the base.
*/
func (q *Query) Merge(other Query) {
	q.Page = other.Page

	if other.Filters != nil {
		q.Filters = other.Filters
	}
	if other.Sort != "" {
		q.Sort = other.Sort
	}
	if other.Path != "" {
		q.Path = other.Path
	}
	if other.Include != "" {
		q.Include = other.Include
	}
	if other.IsPublic != nil {
		isPublic := *other.IsPublic
		q.IsPublic = &isPublic
	}
	if len(other.Extras) > 0 {
		extras := make(map[string]string, len(q.Extras)+len(other.Extras))
		for key, value := range q.Extras {
			extras[key] = value
		}
		for key, value := range other.Extras {
			extras[key] = value
		}
		q.Extras = extras
	}
}

func nonNegative(value int) int {
	if value < 0 {
		return 0
	}
	return value
}
