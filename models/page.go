package models

import "math"

// MaxPerPage bounds the page size a caller may ask for.
const MaxPerPage = 100

// PageMeta describes the position of a page inside a result set.
type PageMeta struct {
	Total       int  `json:"total"`
	LastPage    int  `json:"lastPage"`
	CurrentPage int  `json:"currentPage"`
	PerPage     int  `json:"perPage"`
	Prev        *int `json:"prev"`
	Next        *int `json:"next"`
}

type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// NormalizePage clamps page to >= 1, perPage to the given default when unset
// and to MaxPerPage otherwise.
func NormalizePage(page, perPage, defaultPerPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

// Offset returns the row offset of a 1-based page. It saturates at
// math.MaxInt, so a page far past the end reads as empty.
func Offset(page, perPage int) int {
	if page < 1 || perPage < 1 {
		return 0
	}
	if page-1 > math.MaxInt/perPage {
		return math.MaxInt
	}
	return (page - 1) * perPage
}

func NewPage[T any](data []T, total, page, perPage int) Page[T] {
	if data == nil {
		data = []T{}
	}
	lastPage := 0
	if perPage > 0 {
		lastPage = (total + perPage - 1) / perPage
	}
	meta := PageMeta{
		Total:       total,
		LastPage:    lastPage,
		CurrentPage: page,
		PerPage:     perPage,
	}
	if page > 1 {
		prev := page - 1
		meta.Prev = &prev
	}
	if page < lastPage {
		next := page + 1
		meta.Next = &next
	}
	return Page[T]{Data: data, Meta: meta}
}
