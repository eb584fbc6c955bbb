/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock

import (
	"context"
	"slices"
	"sync"

	"github.com/suparena/dynarepo/datastore"
	"github.com/suparena/dynarepo/errors"
	"github.com/suparena/dynarepo/storagemodels"
)

type table struct {
	schema    storagemodels.TableSchema
	describes int
}

// TableAdmin is an in-memory datastore.TableAdmin. New tables report CREATING for a
// configurable number of DescribeTable calls before turning ACTIVE.
type TableAdmin struct {
	mu            sync.Mutex
	tables        map[string]*table
	calls         []string
	creatingPolls int
	createError   error
}

var _ datastore.TableAdmin = (*TableAdmin)(nil)

// NewTableAdmin creates an admin without tables
func NewTableAdmin() *TableAdmin {
	return &TableAdmin{tables: make(map[string]*table)}
}

// WithCreatingPolls sets how many DescribeTable calls report CREATING after a create
func (a *TableAdmin) WithCreatingPolls(n int) *TableAdmin {
	a.creatingPolls = n
	return a
}

// WithCreateError makes CreateTable return an error
func (a *TableAdmin) WithCreateError(err error) *TableAdmin {
	a.createError = err
	return a
}

func (a *TableAdmin) CreateTable(ctx context.Context, schema storagemodels.TableSchema) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, "CreateTable:"+schema.TableName)

	if a.createError != nil {
		return a.createError
	}
	if _, exists := a.tables[schema.TableName]; exists {
		return errors.NewAlreadyExistsError("table", schema.TableName)
	}
	a.tables[schema.TableName] = &table{schema: schema}
	return nil
}

func (a *TableAdmin) DeleteTable(ctx context.Context, tableName string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, "DeleteTable:"+tableName)

	if _, exists := a.tables[tableName]; !exists {
		return errors.NewNotFoundError("table", tableName)
	}
	delete(a.tables, tableName)
	return nil
}

func (a *TableAdmin) DescribeTable(ctx context.Context, tableName string) (storagemodels.TableStatus, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, "DescribeTable:"+tableName)

	t, exists := a.tables[tableName]
	if !exists {
		return storagemodels.TableStatusNotFound, nil
	}
	t.describes++
	if t.describes <= a.creatingPolls {
		return storagemodels.TableStatusCreating, nil
	}
	return storagemodels.TableStatusActive, nil
}

// SetTable registers an existing active table (for testing)
func (a *TableAdmin) SetTable(schema storagemodels.TableSchema) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tables[schema.TableName] = &table{schema: schema, describes: a.creatingPolls}
}

// Schema returns the schema a table was created with
func (a *TableAdmin) Schema(tableName string) (storagemodels.TableSchema, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.tables[tableName]
	if !ok {
		return storagemodels.TableSchema{}, false
	}
	return t.schema, true
}

// Calls returns the recorded operations as "Operation:table" in call order
func (a *TableAdmin) Calls() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.calls)
}
