// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// Defaults for the listing core. Non-positive values fall back silently.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ListOptions carries the optional query parameters of a listing request.
// Zero values mean "use the default".
type ListOptions struct {
	Page     int
	Limit    int
	Sort     string // "field" ascending or "-field" descending; default "-createdAt"
	Search   string
	Category string
	Tag      string
	Author   string // hex ObjectID of the author
	Status   string // defaults to "published"
}

// page returns the requested page coerced to >= 1.
func (o ListOptions) page() int {
	if o.Page < 1 {
		return DefaultPage
	}
	return o.Page
}

// limit returns the requested page size coerced to >= 1.
func (o ListOptions) limit() int {
	if o.Limit < 1 {
		return DefaultLimit
	}
	return o.Limit
}

// skip returns the document offset of the requested page.
func (o ListOptions) skip() int64 {
	return int64(o.page()-1) * int64(o.limit())
}

// sortDoc translates the sort expression into a driver sort document.
func (o ListOptions) sortDoc() bson.D {
	sort := o.Sort
	if sort == "" {
		sort = "-createdAt"
	}
	if field, ok := strings.CutPrefix(sort, "-"); ok {
		return bson.D{{Key: field, Value: -1}}
	}
	return bson.D{{Key: sort, Value: 1}}
}

// Pagination is the metadata block accompanying a page of list results.
type Pagination struct {
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int64 `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// Page is one page of results plus its pagination envelope.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// newPagination computes the metadata for a result set of the given size.
// Pages beyond the end are reported faithfully (empty data, accurate totals),
// never clamped.
func newPagination(total int64, page, limit int) Pagination {
	totalPages := (total + int64(limit) - 1) / int64(limit)
	return Pagination{
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		HasNextPage: int64(page) < totalPages,
		HasPrevPage: page > 1,
	}
}
