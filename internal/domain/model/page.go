package model

import "go.mongodb.org/mongo-driver/bson"

// Document is a listing row, including any populated relations.
type Document = bson.M

// Page is the paginated listing envelope returned by every list endpoint.
type Page[T any] struct {
	Docs          []T   `json:"docs"`
	TotalDocs     int64 `json:"totalDocs"`
	Limit         int   `json:"limit"`
	TotalPages    int   `json:"totalPages"`
	Page          int   `json:"page"`
	PagingCounter int64 `json:"pagingCounter"`
	HasPrevPage   bool  `json:"hasPrevPage"`
	HasNextPage   bool  `json:"hasNextPage"`
	PrevPage      *int  `json:"prevPage"`
	NextPage      *int  `json:"nextPage"`
}

// NewPage computes the paging metadata for docs fetched at page/limit out of total.
// A nil docs slice is rendered as an empty list.
func NewPage[T any](docs []T, total int64, page, limit int) *Page[T] {
	if docs == nil {
		docs = []T{}
	}
	if limit < 1 {
		limit = 1
	}
	if page < 1 {
		page = 1
	}

	// An empty result has zero pages.
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	p := &Page[T]{
		Docs:          docs,
		TotalDocs:     total,
		Limit:         limit,
		TotalPages:    totalPages,
		Page:          page,
		PagingCounter: int64(page-1)*int64(limit) + 1,
		HasPrevPage:   page > 1,
		HasNextPage:   page < totalPages,
	}
	if p.HasPrevPage {
		prev := page - 1
		p.PrevPage = &prev
	}
	if p.HasNextPage {
		next := page + 1
		p.NextPage = &next
	}
	return p
}
