package pagination

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// Params carries the list-query parameters shared by every list endpoint.
// Out-of-range values are clamped by Normalize, never rejected.
type Params struct {
	PageNumber     int    `json:"pageNumber"`
	PageSize       int    `json:"pageSize"`
	SearchTerm     string `json:"searchTerm,omitempty"`
	SortBy         string `json:"sortBy,omitempty"`
	SortDescending bool   `json:"sortDescending,omitempty"`
	Status         string `json:"status,omitempty"`
}

// Normalize clamps page size into [1, MaxPageSize] and page number to >= 1.
func (p Params) Normalize() Params {
	if p.PageNumber < 1 {
		p.PageNumber = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	p.SearchTerm = strings.TrimSpace(p.SearchTerm)
	return p
}

// Offset returns the row offset for the normalized parameters.
func (p Params) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}

// FromRequest reads list-query parameters from the request query string.
// Unparseable values fall back to defaults; the result is already normalized.
func FromRequest(r *http.Request) Params {
	q := r.URL.Query()

	p := Params{
		SearchTerm:     q.Get("searchTerm"),
		SortBy:         q.Get("sortBy"),
		SortDescending: q.Get("sortDescending") == "true",
		Status:         q.Get("status"),
	}
	if p.Status == "" {
		p.Status = q.Get("reviewStatus")
	}
	if n, err := strconv.Atoi(q.Get("pageNumber")); err == nil {
		p.PageNumber = n
	}
	if n, err := strconv.Atoi(q.Get("pageSize")); err == nil {
		p.PageSize = n
	}

	return p.Normalize()
}

// Result is the paginated envelope returned by every list endpoint.
type Result[T any] struct {
	Data            []T   `json:"data"`
	PageNumber      int   `json:"pageNumber"`
	PageSize        int   `json:"pageSize"`
	TotalCount      int64 `json:"totalCount"`
	TotalPages      int   `json:"totalPages"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
	HasNextPage     bool  `json:"hasNextPage"`
}

// NewResult builds the envelope for a data slice plus total count.
// TotalPages is ceil(totalCount/pageSize) and 0 for an empty set.
func NewResult[T any](items []T, params Params, totalCount int64) Result[T] {
	params = params.Normalize()

	totalPages := 0
	if totalCount > 0 {
		totalPages = int((totalCount + int64(params.PageSize) - 1) / int64(params.PageSize))
	}

	if items == nil {
		items = []T{}
	}

	return Result[T]{
		Data:            items,
		PageNumber:      params.PageNumber,
		PageSize:        params.PageSize,
		TotalCount:      totalCount,
		TotalPages:      totalPages,
		HasPreviousPage: params.PageNumber > 1,
		HasNextPage:     params.PageNumber < totalPages,
	}
}
