/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"context"

	"github.com/suparena/dynarepo/datastore"
	"github.com/suparena/dynarepo/errors"
	"github.com/suparena/dynarepo/storagemodels"
)

// Query is one logical read against the store.
type Query[R any] interface {
	// SingleResult returns the only result, nil if there is none. More than one result
	// is an IncorrectResultSizeError. Every call re-runs the query.
	SingleResult(ctx context.Context) (*R, error)
	// ResultList returns the lazy result sequence.
	ResultList(ctx context.Context) (datastore.ResultList[R], error)
}

// singleResultOf iterates list once, counting every result.
func singleResultOf[R any](ctx context.Context, list datastore.ResultList[R]) (*R, error) {
	var (
		first R
		n     int
	)
	for item, err := range list.All(ctx) {
		if err != nil {
			return nil, err
		}
		if n == 0 {
			first = item
		}
		n++
	}

	switch n {
	case 0:
		return nil, nil
	case 1:
		return &first, nil
	}
	return nil, errors.NewIncorrectResultSizeError(1, n)
}

// multipleEntityQuery derives the single result from the result list.
type multipleEntityQuery[R any] struct {
	list func(ctx context.Context) (datastore.ResultList[R], error)
}

func (q multipleEntityQuery[R]) ResultList(ctx context.Context) (datastore.ResultList[R], error) {
	return q.list(ctx)
}

func (q multipleEntityQuery[R]) SingleResult(ctx context.Context) (*R, error) {
	list, err := q.list(ctx)
	if err != nil {
		return nil, err
	}
	return singleResultOf(ctx, list)
}

// StaticQuery serves results that are already materialized.
type StaticQuery[R any] struct {
	multipleEntityQuery[R]
}

func NewStaticQuery[R any](results ...R) *StaticQuery[R] {
	list := datastore.SliceList[R](results)
	return &StaticQuery[R]{multipleEntityQuery[R]{
		list: func(context.Context) (datastore.ResultList[R], error) { return list, nil },
	}}
}

// LoadByKeyQuery loads one entity by its full key.
type LoadByKeyQuery[T any] struct {
	store datastore.DataStore[T]
	key   storagemodels.Key
}

func NewLoadByKeyQuery[T any](store datastore.DataStore[T], key storagemodels.Key) *LoadByKeyQuery[T] {
	return &LoadByKeyQuery[T]{store: store, key: key}
}

func (q *LoadByKeyQuery[T]) SingleResult(ctx context.Context) (*T, error) {
	return q.store.Load(ctx, q.key)
}

func (q *LoadByKeyQuery[T]) ResultList(ctx context.Context) (datastore.ResultList[T], error) {
	entity, err := q.store.Load(ctx, q.key)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return datastore.SliceList[T](nil), nil
	}
	return datastore.SliceList[T]{*entity}, nil
}

// QueryExpressionQuery runs a key condition query.
type QueryExpressionQuery[T any] struct {
	multipleEntityQuery[T]
	Expression *storagemodels.QueryExpression
}

func NewQueryExpressionQuery[T any](store datastore.DataStore[T], expr *storagemodels.QueryExpression) *QueryExpressionQuery[T] {
	return &QueryExpressionQuery[T]{
		multipleEntityQuery: multipleEntityQuery[T]{
			list: func(ctx context.Context) (datastore.ResultList[T], error) {
				return store.Query(ctx, expr), nil
			},
		},
		Expression: expr,
	}
}

// ScanExpressionQuery runs a scan.
type ScanExpressionQuery[T any] struct {
	multipleEntityQuery[T]
	Expression *storagemodels.ScanExpression
}

func NewScanExpressionQuery[T any](store datastore.DataStore[T], expr *storagemodels.ScanExpression) *ScanExpressionQuery[T] {
	return &ScanExpressionQuery[T]{
		multipleEntityQuery: multipleEntityQuery[T]{
			list: func(ctx context.Context) (datastore.ResultList[T], error) {
				return store.Scan(ctx, expr), nil
			},
		},
		Expression: expr,
	}
}
