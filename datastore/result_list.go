/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"iter"
)

// ResultList is a lazy sequence of entities. Every call to All starts a fresh
// iteration. A single iteration must not be shared between goroutines.
type ResultList[T any] interface {
	All(ctx context.Context) iter.Seq2[T, error]
}

// SliceList is a materialized ResultList.
type SliceList[T any] []T

func (l SliceList[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, item := range l {
			if err := ctx.Err(); err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}

// PageFetcher fetches the page following cursor. A nil cursor requests the first page,
// a nil next cursor marks the last page.
type PageFetcher[T any, C any] func(ctx context.Context, cursor *C) (items []T, next *C, err error)

// PaginatedList pulls pages from the store as the iteration advances.
type PaginatedList[T any, C any] struct {
	fetch PageFetcher[T, C]
	limit int
}

// NewPaginatedList creates a list over fetch. A positive limit caps the number of yielded items.
func NewPaginatedList[T any, C any](fetch PageFetcher[T, C], limit int) *PaginatedList[T, C] {
	return &PaginatedList[T, C]{fetch: fetch, limit: limit}
}

func (l *PaginatedList[T, C]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var (
			cursor  *C
			yielded int
		)
		for {
			items, next, err := l.fetch(ctx, cursor)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, item := range items {
				if !yield(item, nil) {
					return
				}
				yielded++
				if l.limit > 0 && yielded >= l.limit {
					return
				}
			}
			if next == nil {
				return
			}
			cursor = next
		}
	}
}

// ErrorList is a ResultList whose iteration fails immediately.
type ErrorList[T any] struct {
	Err error
}

func (l ErrorList[T]) All(context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		yield(zero, l.Err)
	}
}

// Collect materializes a ResultList.
func Collect[T any](ctx context.Context, list ResultList[T]) ([]T, error) {
	var out []T
	for item, err := range list.All(ctx) {
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
