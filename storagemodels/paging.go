/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

// Sort orders results by a single property.
type Sort struct {
	Property   string
	Descending bool
}

// Pageable is a paging request. The zero value is unpaged.
type Pageable struct {
	Page int
	Size int
	Sort []Sort
}

// PageRequest returns a paged request for the zero-based page number.
func PageRequest(page, size int, sort ...Sort) Pageable {
	return Pageable{Page: page, Size: size, Sort: sort}
}

// Unpaged returns a request for all results.
func Unpaged() Pageable {
	return Pageable{}
}

// IsPaged reports whether the request restricts results to a page.
func (p Pageable) IsPaged() bool {
	return p.Size > 0
}

// IsSorted reports whether any sort order was requested.
func (p Pageable) IsSorted() bool {
	return len(p.Sort) > 0
}

// Offset is the number of results preceding the requested page.
func (p Pageable) Offset() int64 {
	if !p.IsPaged() || p.Page < 0 {
		return 0
	}
	return int64(p.Page) * int64(p.Size)
}

// Page is one slice of a larger result together with the total number of results.
type Page[T any] struct {
	Content  []T
	Pageable Pageable
	Total    int64
}

// NewPage creates a page of content.
func NewPage[T any](content []T, pageable Pageable, total int64) *Page[T] {
	if content == nil {
		content = []T{}
	}
	return &Page[T]{Content: content, Pageable: pageable, Total: total}
}

// TotalPages returns the number of pages available with the page size of the request.
func (p *Page[T]) TotalPages() int {
	if !p.Pageable.IsPaged() {
		return 1
	}
	size := int64(p.Pageable.Size)
	return int((p.Total + size - 1) / size)
}

// HasNext reports whether a further page exists.
func (p *Page[T]) HasNext() bool {
	return p.Pageable.IsPaged() && p.Pageable.Page+1 < p.TotalPages()
}
