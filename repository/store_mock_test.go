/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/suparena/dynarepo/datastore"
	"github.com/suparena/dynarepo/storagemodels"
)

// storeMock verifies store interactions and their order.
type storeMock[T any] struct {
	mock.Mock
}

var _ datastore.DataStore[struct{}] = (*storeMock[struct{}])(nil)

func (m *storeMock[T]) Load(ctx context.Context, key storagemodels.Key) (*T, error) {
	args := m.Called(ctx, key)
	entity, _ := args.Get(0).(*T)
	return entity, args.Error(1)
}

func (m *storeMock[T]) Save(ctx context.Context, entity T) error {
	return m.Called(ctx, entity).Error(0)
}

func (m *storeMock[T]) BatchSave(ctx context.Context, entities []T) ([]storagemodels.FailedBatch, error) {
	args := m.Called(ctx, entities)
	failed, _ := args.Get(0).([]storagemodels.FailedBatch)
	return failed, args.Error(1)
}

func (m *storeMock[T]) Delete(ctx context.Context, entity T) error {
	return m.Called(ctx, entity).Error(0)
}

func (m *storeMock[T]) BatchDelete(ctx context.Context, entities []T) ([]storagemodels.FailedBatch, error) {
	args := m.Called(ctx, entities)
	failed, _ := args.Get(0).([]storagemodels.FailedBatch)
	return failed, args.Error(1)
}

func (m *storeMock[T]) Query(ctx context.Context, expr *storagemodels.QueryExpression) datastore.ResultList[T] {
	return m.Called(ctx, expr).Get(0).(datastore.ResultList[T])
}

func (m *storeMock[T]) Scan(ctx context.Context, expr *storagemodels.ScanExpression) datastore.ResultList[T] {
	return m.Called(ctx, expr).Get(0).(datastore.ResultList[T])
}

func (m *storeMock[T]) CountQuery(ctx context.Context, expr *storagemodels.QueryExpression) (int64, error) {
	args := m.Called(ctx, expr)
	return args.Get(0).(int64), args.Error(1)
}

func (m *storeMock[T]) CountScan(ctx context.Context, expr *storagemodels.ScanExpression) (int64, error) {
	args := m.Called(ctx, expr)
	return args.Get(0).(int64), args.Error(1)
}

func (m *storeMock[T]) TableName() string {
	return "Users"
}
