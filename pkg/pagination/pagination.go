// Package pagination provides page-based pagination utilities for list
// endpoints. Pages are 1-based; invalid or missing parameters fall back to
// defaults silently rather than erroring.
package pagination

import (
	"strconv"
)

const (
	// DefaultPage is the first page, used when the parameter is absent or invalid
	DefaultPage = 1
	// DefaultLimit is the default page size if not specified
	DefaultLimit = 10
	// MaxLimit is the maximum allowed page size
	MaxLimit = 100
)

// Params holds parsed page/limit parameters.
type Params struct {
	Page  int
	Limit int
}

// Meta is the pagination metadata attached to every list response.
type Meta struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	Pages   int64 `json:"pages"`
	HasMore bool  `json:"hasMore"`
}

// Parse interprets raw page/limit query values. Anything unparseable or
// out of range falls back to the defaults.
func Parse(pageStr, limitStr string) Params {
	page := DefaultPage
	if v, err := strconv.Atoi(pageStr); err == nil && v >= 1 {
		page = v
	}

	limit := DefaultLimit
	if v, err := strconv.Atoi(limitStr); err == nil && v >= 1 {
		limit = v
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{Page: page, Limit: limit}
}

// Offset returns the number of items to skip for this page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// MetaFor builds response metadata for a total item count.
// Pages = ceil(total/limit); HasMore = page*limit < total.
// A zero-valued receiver falls back to the default limit.
func (p Params) MetaFor(total int64) Meta {
	limit := int64(p.Limit)
	if limit <= 0 {
		limit = DefaultLimit
	}
	pages := (total + limit - 1) / limit
	return Meta{
		Page:    p.Page,
		Limit:   int(limit),
		Total:   total,
		Pages:   pages,
		HasMore: int64(p.Page)*limit < total,
	}
}

// Slice returns the in-memory page window [offset, offset+limit) of n items.
// A page past the end yields an empty window rather than an error.
func (p Params) Slice(n int) (start, end int) {
	start = p.Offset()
	if start >= n {
		return n, n
	}
	end = start + p.Limit
	if end > n {
		end = n
	}
	return start, end
}
