/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import (
	"context"
	"math"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/suparena/dynarepo/datastore"
	"github.com/suparena/dynarepo/errors"
	"github.com/suparena/dynarepo/storagemodels"
)

// PagingAndSortingRepository adds paged reads of the whole table to CrudRepository.
type PagingAndSortingRepository[T any, ID any] struct {
	*CrudRepository[T, ID]
}

// NewPagingAndSortingRepository creates a paging repository from cfg.
func NewPagingAndSortingRepository[T any, ID any](cfg Config[T, ID]) (*PagingAndSortingRepository[T, ID], error) {
	crud, err := NewCrudRepository(cfg)
	if err != nil {
		return nil, err
	}
	return &PagingAndSortingRepository[T, ID]{CrudRepository: crud}, nil
}

// FindAllPage scans for one page of entities. Scans have no order, so sorting is
// rejected. The total is counted with a second scan when unpaginated counts are enabled,
// otherwise it only covers the entities read so far.
func (r *PagingAndSortingRepository[T, ID]) FindAllPage(ctx context.Context, pageable storagemodels.Pageable) (*storagemodels.Page[T], error) {
	if !r.permissions.FindAllPaginatedScanEnabled {
		return nil, errors.NewScanDisabledError("findAll "+r.entityName()+" with paging", "FindAllPaginatedScanEnabled")
	}
	if pageable.IsSorted() {
		return nil, errors.NewIllegalArgumentError("", "Sorting not supported for find all scan operations")
	}

	expr := &storagemodels.ScanExpression{}
	if pageable.IsPaged() {
		if end := pageable.Offset() + int64(pageable.Size); end <= math.MaxInt32 {
			expr.Limit = aws.Int32(int32(end))
		}
	}
	list := r.store.Scan(ctx, expr)

	var content []T
	if pageable.IsPaged() {
		page, err := readPage(ctx, list, pageable)
		if err != nil {
			return nil, err
		}
		content = page
	} else {
		all, err := datastore.Collect(ctx, list)
		if err != nil {
			return nil, err
		}
		content = all
	}

	total := pageable.Offset() + int64(len(content))
	if r.permissions.CountUnpaginatedScanEnabled {
		n, err := r.store.CountScan(ctx, &storagemodels.ScanExpression{})
		if err != nil {
			return nil, err
		}
		total = n
	}
	return storagemodels.NewPage(content, pageable, total), nil
}
