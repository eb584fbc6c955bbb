/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides in-memory implementations of the datastore interfaces for testing
package mock

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/suparena/dynarepo/datastore"
	"github.com/suparena/dynarepo/errors"
	"github.com/suparena/dynarepo/mapping"
	"github.com/suparena/dynarepo/storagemodels"
	"golang.org/x/exp/constraints"
)

// Operation names recorded by DataStore.
const (
	OpLoad        = "Load"
	OpSave        = "Save"
	OpBatchSave   = "BatchSave"
	OpDelete      = "Delete"
	OpBatchDelete = "BatchDelete"
	OpQuery       = "Query"
	OpScan        = "Scan"
	OpCountQuery  = "CountQuery"
	OpCountScan   = "CountScan"
)

// DataStore is an in-memory datastore.DataStore[T]. Items are keyed by the entity
// metadata and iterated in hash then range key order. Query and Scan evaluate the
// Conditions of their expression; the expression strings are not parsed.
type DataStore[T any] struct {
	mu    sync.RWMutex
	md    *mapping.EntityMetadata[T]
	data  map[string]T
	calls []string

	queryFunc     func(ctx context.Context, expr *storagemodels.QueryExpression) ([]T, error)
	scanFunc      func(ctx context.Context, expr *storagemodels.ScanExpression) ([]T, error)
	batchSaveFunc func(ctx context.Context, entities []T) ([]storagemodels.FailedBatch, error)
	loadError     error
	saveError     error
	deleteError   error
	scanError     error
}

var _ datastore.DataStore[struct{}] = (*DataStore[struct{}])(nil)

// New creates a new mock DataStore for the entity described by md
func New[T any](md *mapping.EntityMetadata[T]) *DataStore[T] {
	return &DataStore[T]{
		md:   md,
		data: make(map[string]T),
	}
}

// WithQueryFunc replaces the default hash key and condition match of Query and CountQuery
func (m *DataStore[T]) WithQueryFunc(f func(ctx context.Context, expr *storagemodels.QueryExpression) ([]T, error)) *DataStore[T] {
	m.queryFunc = f
	return m
}

// WithScanFunc replaces the default condition match of Scan and CountScan
func (m *DataStore[T]) WithScanFunc(f func(ctx context.Context, expr *storagemodels.ScanExpression) ([]T, error)) *DataStore[T] {
	m.scanFunc = f
	return m
}

// WithBatchSaveFunc replaces BatchSave, typically to report failed batches
func (m *DataStore[T]) WithBatchSaveFunc(f func(ctx context.Context, entities []T) ([]storagemodels.FailedBatch, error)) *DataStore[T] {
	m.batchSaveFunc = f
	return m
}

// WithLoadError makes Load operations return an error
func (m *DataStore[T]) WithLoadError(err error) *DataStore[T] {
	m.loadError = err
	return m
}

// WithSaveError makes Save and BatchSave operations return an error
func (m *DataStore[T]) WithSaveError(err error) *DataStore[T] {
	m.saveError = err
	return m
}

// WithDeleteError makes Delete and BatchDelete operations return an error
func (m *DataStore[T]) WithDeleteError(err error) *DataStore[T] {
	m.deleteError = err
	return m
}

// WithScanError makes Scan and CountScan operations return an error
func (m *DataStore[T]) WithScanError(err error) *DataStore[T] {
	m.scanError = err
	return m
}

func (m *DataStore[T]) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, op)
}

func (m *DataStore[T]) TableName() string {
	return m.md.TableName()
}

// Load retrieves an entity by key
func (m *DataStore[T]) Load(ctx context.Context, key storagemodels.Key) (*T, error) {
	m.record(OpLoad)
	if m.loadError != nil {
		return nil, m.loadError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if entity, exists := m.data[key.String()]; exists {
		return &entity, nil
	}
	return nil, nil
}

// Save stores an entity
func (m *DataStore[T]) Save(ctx context.Context, entity T) error {
	m.record(OpSave)
	if m.saveError != nil {
		return m.saveError
	}
	m.put(entity)
	return nil
}

func (m *DataStore[T]) put(entity T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[m.md.KeyOf(entity).String()] = entity
}

// BatchSave stores all entities and reports no failures unless configured otherwise
func (m *DataStore[T]) BatchSave(ctx context.Context, entities []T) ([]storagemodels.FailedBatch, error) {
	m.record(OpBatchSave)
	if m.batchSaveFunc != nil {
		return m.batchSaveFunc(ctx, entities)
	}
	if m.saveError != nil {
		return nil, m.saveError
	}
	for _, e := range entities {
		m.put(e)
	}
	return nil, nil
}

// Delete removes an entity
func (m *DataStore[T]) Delete(ctx context.Context, entity T) error {
	m.record(OpDelete)
	if m.deleteError != nil {
		return m.deleteError
	}
	return m.remove(entity)
}

func (m *DataStore[T]) remove(entity T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := m.md.KeyOf(entity).String()
	if _, exists := m.data[key]; !exists {
		return errors.NewNotFoundError(m.md.EntityName(), key)
	}
	delete(m.data, key)
	return nil
}

// BatchDelete removes all entities. Missing entities are reported as failed batches.
func (m *DataStore[T]) BatchDelete(ctx context.Context, entities []T) ([]storagemodels.FailedBatch, error) {
	m.record(OpBatchDelete)
	if m.deleteError != nil {
		return nil, m.deleteError
	}
	var failed []storagemodels.FailedBatch
	for _, e := range entities {
		if err := m.remove(e); err != nil {
			failed = append(failed, storagemodels.FailedBatch{Table: m.md.TableName(), Unprocessed: 1, Err: err})
		}
	}
	return failed, nil
}

// Query returns the entities whose hash key equals expr.HashKey
func (m *DataStore[T]) Query(ctx context.Context, expr *storagemodels.QueryExpression) datastore.ResultList[T] {
	m.record(OpQuery)
	items, err := m.query(ctx, expr)
	if err != nil {
		return datastore.ErrorList[T]{Err: err}
	}
	return datastore.SliceList[T](items)
}

func (m *DataStore[T]) query(ctx context.Context, expr *storagemodels.QueryExpression) ([]T, error) {
	var items []T
	if m.queryFunc != nil {
		var err error
		if items, err = m.queryFunc(ctx, expr); err != nil {
			return nil, err
		}
	} else {
		hashProp := m.md.HashKeyProperty()
		for _, e := range m.sorted() {
			if compareKeys(hashProp.Value(e), expr.HashKey) == 0 && m.matches(e, expr.Conditions) {
				items = append(items, e)
			}
		}
	}
	if expr.ScanIndexForward != nil && !*expr.ScanIndexForward {
		slices.Reverse(items)
	}
	return limit(items, expr.Limit), nil
}

// Scan returns the stored entities matching the expression conditions
func (m *DataStore[T]) Scan(ctx context.Context, expr *storagemodels.ScanExpression) datastore.ResultList[T] {
	m.record(OpScan)
	items, err := m.scan(ctx, expr)
	if err != nil {
		return datastore.ErrorList[T]{Err: err}
	}
	return datastore.SliceList[T](items)
}

func (m *DataStore[T]) scan(ctx context.Context, expr *storagemodels.ScanExpression) ([]T, error) {
	if m.scanError != nil {
		return nil, m.scanError
	}
	if m.scanFunc != nil {
		items, err := m.scanFunc(ctx, expr)
		if err != nil {
			return nil, err
		}
		return limit(items, expr.Limit), nil
	}
	var items []T
	for _, e := range m.sorted() {
		if m.matches(e, expr.Conditions) {
			items = append(items, e)
		}
	}
	return limit(items, expr.Limit), nil
}

func (m *DataStore[T]) CountQuery(ctx context.Context, expr *storagemodels.QueryExpression) (int64, error) {
	m.record(OpCountQuery)
	items, err := m.query(ctx, expr)
	if err != nil {
		return 0, err
	}
	return int64(len(items)), nil
}

func (m *DataStore[T]) CountScan(ctx context.Context, expr *storagemodels.ScanExpression) (int64, error) {
	m.record(OpCountScan)
	items, err := m.scan(ctx, expr)
	if err != nil {
		return 0, err
	}
	return int64(len(items)), nil
}

func limit[T any](items []T, max *int32) []T {
	if max != nil && *max > 0 && int(*max) < len(items) {
		return items[:*max]
	}
	return items
}

// sorted returns the stored entities ordered by hash key, then range key
func (m *DataStore[T]) sorted() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]T, 0, len(m.data))
	for _, v := range m.data {
		items = append(items, v)
	}
	slices.SortFunc(items, func(a, b T) int {
		ka, kb := m.md.KeyOf(a), m.md.KeyOf(b)
		if c := compareKeys(ka.Hash, kb.Hash); c != 0 {
			return c
		}
		return compareKeys(ka.Range, kb.Range)
	})
	return items
}

func compareOrdered[V constraints.Ordered](a, b V) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareKeys(a, b any) int {
	if af, ok := number(a); ok {
		if bf, ok := number(b); ok {
			return compareOrdered(af, bf)
		}
	}
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return compareOrdered(av, bv)
		}
	}
	return compareOrdered(fmt.Sprint(a), fmt.Sprint(b))
}

// number widens the numeric kinds so that int and int64 values compare equal.
func number(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// Helper methods for testing

// SetData replaces the stored entities (for testing)
func (m *DataStore[T]) SetData(entities ...T) {
	m.mu.Lock()
	m.data = make(map[string]T, len(entities))
	m.mu.Unlock()
	for _, e := range entities {
		m.put(e)
	}
}

// GetData returns the stored entities in key order (for testing)
func (m *DataStore[T]) GetData() []T {
	return m.sorted()
}

// Count returns the number of stored entities
func (m *DataStore[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Calls returns the recorded operations in call order
func (m *DataStore[T]) Calls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.calls)
}

// CallCount returns how often op was called
func (m *DataStore[T]) CallCount(op string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, c := range m.calls {
		if c == op {
			n++
		}
	}
	return n
}

// ResetCalls forgets the recorded operations
func (m *DataStore[T]) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Clear removes all data
func (m *DataStore[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]T)
}
