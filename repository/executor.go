/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import (
	"context"
	"fmt"

	"github.com/suparena/dynarepo/datastore"
	"github.com/suparena/dynarepo/entityinfo"
	"github.com/suparena/dynarepo/errors"
	"github.com/suparena/dynarepo/observability"
	"github.com/suparena/dynarepo/query"
	"github.com/suparena/dynarepo/storagemodels"
	"go.uber.org/zap"
)

// OutcomeKind tells which field of an Outcome holds the result.
type OutcomeKind int

const (
	OutcomeAbsent OutcomeKind = iota
	OutcomeEntity
	OutcomeList
	OutcomePage
	OutcomeCount
	OutcomeExists
	OutcomeDeleted
)

// Outcome is the result of a query method in its declared shape.
type Outcome[T any] struct {
	Kind   OutcomeKind
	Entity *T
	// List holds found entities, or the deleted ones for delete methods.
	List   []T
	Page   *storagemodels.Page[T]
	Count  int64
	Exists bool
}

type execution[T any, ID any] func(ctx context.Context, e *Executor[T, ID], p *query.Predicate, pageable storagemodels.Pageable) (Outcome[T], error)

// Executor runs one query method. The execution is chosen once from the method
// declaration and replayed on every call.
type Executor[T any, ID any] struct {
	method  QueryMethod
	info    entityinfo.Information[T, ID]
	creator *query.Creator[T, ID]
	store   datastore.DataStore[T]
	logger  *zap.Logger
	run     execution[T, ID]
}

// NewExecutor validates method and selects its execution.
func NewExecutor[T any, ID any](method QueryMethod, info entityinfo.Information[T, ID], store datastore.DataStore[T], logger *zap.Logger) (*Executor[T, ID], error) {
	if err := method.Validate(); err != nil {
		return nil, err
	}
	if info == nil {
		return nil, errors.NewIllegalArgumentError("info", "entity information must not be nil")
	}
	if store == nil {
		return nil, errors.NewIllegalArgumentError("store", "store must not be nil")
	}

	e := &Executor[T, ID]{
		method:  method,
		info:    info,
		creator: query.NewCreator(info, store),
		store:   store,
		logger:  observability.OrNop(logger),
	}
	switch {
	case method.Kind == KindDelete:
		e.run = deleteExecution[T, ID]
	case method.Kind == KindExists:
		e.run = existsExecution[T, ID]
	case method.Kind == KindCount:
		e.run = countExecution[T, ID]
	case method.Returns == ReturnsSingle:
		e.run = singleEntityExecution[T, ID]
	case method.Returns == ReturnsPage:
		e.run = pagedExecution[T, ID]
	default:
		e.run = collectionExecution[T, ID]
	}
	return e, nil
}

func (e *Executor[T, ID]) Method() QueryMethod {
	return e.method
}

// Execute runs the method with the invocation arguments.
func (e *Executor[T, ID]) Execute(ctx context.Context, args ...any) (Outcome[T], error) {
	p, err := e.method.Predicate(args)
	if err != nil {
		return Outcome[T]{}, err
	}
	if p == nil {
		p = &query.Predicate{}
	} else {
		cp := *p
		p = &cp
	}
	if limit := e.method.ResultLimit; limit > 0 && (p.Limit == 0 || p.Limit > limit) {
		p.Limit = limit
	}

	pageable, _ := pageableOf(args)
	outcome, err := e.run(ctx, e, p, pageable)
	if err != nil {
		return Outcome[T]{}, err
	}

	e.logger.Debug("Executed query method",
		zap.String("method", e.method.Name),
		zap.String("kind", e.method.Kind.String()),
		zap.String("table", e.info.TableName()))
	return outcome, nil
}

func singleEntityExecution[T any, ID any](ctx context.Context, e *Executor[T, ID], p *query.Predicate, _ storagemodels.Pageable) (Outcome[T], error) {
	q, err := e.creator.CreateQuery(p, e.method.ScanEnabled)
	if err != nil {
		return Outcome[T]{}, err
	}
	entity, err := q.SingleResult(ctx)
	if err != nil {
		return Outcome[T]{}, err
	}
	if entity == nil {
		return Outcome[T]{Kind: OutcomeAbsent}, nil
	}
	return Outcome[T]{Kind: OutcomeEntity, Entity: entity}, nil
}

func collectionExecution[T any, ID any](ctx context.Context, e *Executor[T, ID], p *query.Predicate, _ storagemodels.Pageable) (Outcome[T], error) {
	list, err := e.find(ctx, p)
	if err != nil {
		return Outcome[T]{}, err
	}
	return Outcome[T]{Kind: OutcomeList, List: list}, nil
}

// pagedExecution reads the requested page and then counts all matches with a second,
// independent query. Writes between the two round trips can make the total disagree
// with the content.
func pagedExecution[T any, ID any](ctx context.Context, e *Executor[T, ID], p *query.Predicate, pageable storagemodels.Pageable) (Outcome[T], error) {
	if err := e.applySort(p, pageable); err != nil {
		return Outcome[T]{}, err
	}

	if !pageable.IsPaged() {
		content, err := e.find(ctx, p)
		if err != nil {
			return Outcome[T]{}, err
		}
		page := storagemodels.NewPage(content, pageable, int64(len(content)))
		return Outcome[T]{Kind: OutcomePage, Page: page}, nil
	}

	q, err := e.creator.CreateQuery(p, e.method.ScanEnabled)
	if err != nil {
		return Outcome[T]{}, err
	}
	list, err := q.ResultList(ctx)
	if err != nil {
		return Outcome[T]{}, err
	}
	content, err := readPage(ctx, list, pageable)
	if err != nil {
		return Outcome[T]{}, err
	}

	countQuery, err := e.creator.CreateCountQuery(p, e.method.ScanCountEnabled)
	if err != nil {
		return Outcome[T]{}, err
	}
	total, err := countQuery.SingleResult(ctx)
	if err != nil {
		return Outcome[T]{}, err
	}

	page := storagemodels.NewPage(content, pageable, *total)
	return Outcome[T]{Kind: OutcomePage, Page: page}, nil
}

func countExecution[T any, ID any](ctx context.Context, e *Executor[T, ID], p *query.Predicate, _ storagemodels.Pageable) (Outcome[T], error) {
	n, err := e.count(ctx, p)
	if err != nil {
		return Outcome[T]{}, err
	}
	return Outcome[T]{Kind: OutcomeCount, Count: n}, nil
}

func existsExecution[T any, ID any](ctx context.Context, e *Executor[T, ID], p *query.Predicate, _ storagemodels.Pageable) (Outcome[T], error) {
	n, err := e.count(ctx, p)
	if err != nil {
		return Outcome[T]{}, err
	}
	return Outcome[T]{Kind: OutcomeExists, Exists: n > 0, Count: n}, nil
}

func deleteExecution[T any, ID any](ctx context.Context, e *Executor[T, ID], p *query.Predicate, _ storagemodels.Pageable) (Outcome[T], error) {
	found, err := e.find(ctx, p)
	if err != nil {
		return Outcome[T]{}, err
	}
	if len(found) > 0 {
		failed, err := e.store.BatchDelete(ctx, found)
		if err != nil {
			return Outcome[T]{}, err
		}
		if err := batchWriteError(failed); err != nil {
			return Outcome[T]{}, err
		}
	}

	e.logger.Debug("Deleted entities",
		zap.String("method", e.method.Name),
		zap.String("table", e.info.TableName()),
		zap.Int("count", len(found)))
	return Outcome[T]{Kind: OutcomeDeleted, List: found, Count: int64(len(found))}, nil
}

func (e *Executor[T, ID]) find(ctx context.Context, p *query.Predicate) ([]T, error) {
	q, err := e.creator.CreateQuery(p, e.method.ScanEnabled)
	if err != nil {
		return nil, err
	}
	list, err := q.ResultList(ctx)
	if err != nil {
		return nil, err
	}
	return datastore.Collect(ctx, list)
}

func (e *Executor[T, ID]) count(ctx context.Context, p *query.Predicate) (int64, error) {
	q, err := e.creator.CreateCountQuery(p, e.method.ScanCountEnabled || e.method.ScanEnabled)
	if err != nil {
		return 0, err
	}
	n, err := q.SingleResult(ctx)
	if err != nil {
		return 0, err
	}
	return *n, nil
}

// applySort maps a sort request onto the key condition. Only the range key can be
// sorted on, in either direction.
func (e *Executor[T, ID]) applySort(p *query.Predicate, pageable storagemodels.Pageable) error {
	if !pageable.IsSorted() {
		return nil
	}
	md := e.info.Metadata()
	if len(pageable.Sort) > 1 || !md.IsRangeKeyProperty(pageable.Sort[0].Property) {
		return errors.NewIllegalArgumentError("sort",
			fmt.Sprintf("sorting is only supported on the range key of %s", md.EntityName()))
	}
	p.Descending = pageable.Sort[0].Descending
	return nil
}

// readPage skips the offset of pageable and reads at most one page, by iteration only.
func readPage[T any](ctx context.Context, list datastore.ResultList[T], pageable storagemodels.Pageable) ([]T, error) {
	offset := pageable.Offset()
	content := make([]T, 0, pageable.Size)

	var n int64
	for item, err := range list.All(ctx) {
		if err != nil {
			return nil, err
		}
		n++
		if n <= offset {
			continue
		}
		content = append(content, item)
		if len(content) == pageable.Size {
			break
		}
	}
	return content, nil
}

// batchWriteError aggregates failed batches into one error, nil when none failed.
func batchWriteError(failed []storagemodels.FailedBatch) error {
	if len(failed) == 0 {
		return nil
	}
	causes := make([]error, len(failed))
	for i, f := range failed {
		causes[i] = f.Err
		if causes[i] == nil {
			causes[i] = fmt.Errorf("%d unprocessed items for table %s", f.Unprocessed, f.Table)
		}
	}
	return errors.NewBatchWriteError(causes)
}
