/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/dynarepo/storagemodels"
)

// DataStore is the store client used by repositories for one entity type.
type DataStore[T any] interface {
	// Load returns nil and no error when no item exists for key.
	Load(ctx context.Context, key storagemodels.Key) (*T, error)

	Save(ctx context.Context, entity T) error

	// BatchSave reports the chunks the store did not process. An error is returned only
	// when the request could not be issued at all.
	BatchSave(ctx context.Context, entities []T) ([]storagemodels.FailedBatch, error)

	Delete(ctx context.Context, entity T) error

	BatchDelete(ctx context.Context, entities []T) ([]storagemodels.FailedBatch, error)

	Query(ctx context.Context, expr *storagemodels.QueryExpression) ResultList[T]

	Scan(ctx context.Context, expr *storagemodels.ScanExpression) ResultList[T]

	CountQuery(ctx context.Context, expr *storagemodels.QueryExpression) (int64, error)

	CountScan(ctx context.Context, expr *storagemodels.ScanExpression) (int64, error)

	TableName() string
}

// TableAdmin manages tables.
type TableAdmin interface {
	// CreateTable returns an AlreadyExists error when the table exists.
	CreateTable(ctx context.Context, schema storagemodels.TableSchema) error

	// DeleteTable returns a NotFound error when the table does not exist.
	DeleteTable(ctx context.Context, tableName string) error

	// DescribeTable reports TableStatusNotFound for missing tables.
	DescribeTable(ctx context.Context, tableName string) (storagemodels.TableStatus, error)
}
