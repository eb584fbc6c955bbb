/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"context"

	"github.com/suparena/dynarepo/datastore"
	"github.com/suparena/dynarepo/storagemodels"
)

// countQuery adapts a counting function to Query[int64]. The result list holds the count.
type countQuery struct {
	count func(ctx context.Context) (int64, error)
}

func (q countQuery) SingleResult(ctx context.Context) (*int64, error) {
	n, err := q.count(ctx)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (q countQuery) ResultList(ctx context.Context) (datastore.ResultList[int64], error) {
	n, err := q.count(ctx)
	if err != nil {
		return nil, err
	}
	return datastore.SliceList[int64]{n}, nil
}

// NewStaticCountQuery returns a query always counting n.
func NewStaticCountQuery(n int64) Query[int64] {
	return countQuery{count: func(context.Context) (int64, error) { return n, nil }}
}

// NewCountByKeyQuery counts 1 if the entity with key exists, 0 otherwise.
func NewCountByKeyQuery[T any](store datastore.DataStore[T], key storagemodels.Key) Query[int64] {
	return countQuery{count: func(ctx context.Context) (int64, error) {
		entity, err := store.Load(ctx, key)
		if err != nil {
			return 0, err
		}
		if entity == nil {
			return 0, nil
		}
		return 1, nil
	}}
}

// NewQueryCountQuery counts the items matching a key condition query.
func NewQueryCountQuery[T any](store datastore.DataStore[T], expr *storagemodels.QueryExpression) Query[int64] {
	return countQuery{count: func(ctx context.Context) (int64, error) {
		return store.CountQuery(ctx, expr)
	}}
}

// NewScanCountQuery counts the items matching a scan.
func NewScanCountQuery[T any](store datastore.DataStore[T], expr *storagemodels.ScanExpression) Query[int64] {
	return countQuery{count: func(ctx context.Context) (int64, error) {
		return store.CountScan(ctx, expr)
	}}
}
