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
	"github.com/suparena/dynarepo/storagemodels"
	"go.uber.org/zap"
)

// CrudRepository provides create, read and delete operations for one entity type.
// Operations that need a full table scan must be enabled through ScanPermissions.
type CrudRepository[T any, ID any] struct {
	info        entityinfo.Information[T, ID]
	store       datastore.DataStore[T]
	permissions ScanPermissions
	listeners   []BeforeSaveListener[T]
	lookup      LookupStrategy
	logger      *zap.Logger
}

// NewCrudRepository creates a CRUD repository from cfg.
func NewCrudRepository[T any, ID any](cfg Config[T, ID]) (*CrudRepository[T, ID], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &CrudRepository[T, ID]{
		info:        cfg.Information,
		store:       cfg.Store,
		permissions: cfg.ScanPermissions,
		listeners:   cfg.Listeners,
		lookup:      cfg.LookupStrategy,
		logger:      cfg.logger(),
	}, nil
}

func (r *CrudRepository[T, ID]) EntityInformation() entityinfo.Information[T, ID] {
	return r.info
}

func (r *CrudRepository[T, ID]) entityName() string {
	return r.info.Metadata().EntityName()
}

// prepare runs the save listeners and fills generated keys.
func (r *CrudRepository[T, ID]) prepare(ctx context.Context, entity *T) error {
	for _, l := range r.listeners {
		if err := l.BeforeSave(ctx, entity); err != nil {
			return fmt.Errorf("before save of %s: %w", r.entityName(), err)
		}
	}
	r.info.Metadata().AssignGeneratedKeys(entity)
	return nil
}

// Save writes entity and returns it as stored, with listener changes and generated keys.
func (r *CrudRepository[T, ID]) Save(ctx context.Context, entity T) (T, error) {
	if err := r.prepare(ctx, &entity); err != nil {
		return entity, err
	}
	if err := r.store.Save(ctx, entity); err != nil {
		return entity, fmt.Errorf("failed to save %s: %w", r.entityName(), err)
	}

	r.logger.Debug("Saved entity",
		zap.String("entity", r.entityName()),
		zap.String("table", r.store.TableName()),
		zap.Stringer("key", r.info.Metadata().KeyOf(entity)))
	return entity, nil
}

// SaveAll writes entities in batches. Unprocessed batches are reported as one
// BatchWriteError after all batches were attempted.
func (r *CrudRepository[T, ID]) SaveAll(ctx context.Context, entities []T) ([]T, error) {
	saved := make([]T, len(entities))
	for i := range entities {
		saved[i] = entities[i]
		if err := r.prepare(ctx, &saved[i]); err != nil {
			return nil, err
		}
	}
	if len(saved) == 0 {
		return saved, nil
	}

	failed, err := r.store.BatchSave(ctx, saved)
	if err != nil {
		return nil, fmt.Errorf("failed to save %s entities: %w", r.entityName(), err)
	}
	if err := batchWriteError(failed); err != nil {
		return nil, err
	}

	r.logger.Debug("Saved entities",
		zap.String("entity", r.entityName()),
		zap.String("table", r.store.TableName()),
		zap.Int("count", len(saved)))
	return saved, nil
}

// FindByID returns nil when no entity has the id.
func (r *CrudRepository[T, ID]) FindByID(ctx context.Context, id ID) (*T, error) {
	key, err := r.info.Key(id)
	if err != nil {
		return nil, err
	}
	return r.store.Load(ctx, key)
}

func (r *CrudRepository[T, ID]) ExistsByID(ctx context.Context, id ID) (bool, error) {
	entity, err := r.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	return entity != nil, nil
}

// FindAllByID loads every id and skips those without an entity.
func (r *CrudRepository[T, ID]) FindAllByID(ctx context.Context, ids []ID) ([]T, error) {
	found := make([]T, 0, len(ids))
	for _, id := range ids {
		entity, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if entity != nil {
			found = append(found, *entity)
		}
	}
	return found, nil
}

// FindAll scans the whole table.
func (r *CrudRepository[T, ID]) FindAll(ctx context.Context) ([]T, error) {
	if !r.permissions.FindAllUnpaginatedScanEnabled {
		return nil, errors.NewScanDisabledError("findAll "+r.entityName(), "FindAllUnpaginatedScanEnabled")
	}
	return datastore.Collect(ctx, r.store.Scan(ctx, &storagemodels.ScanExpression{}))
}

// Count counts all entities with a scan.
func (r *CrudRepository[T, ID]) Count(ctx context.Context) (int64, error) {
	if !r.permissions.CountUnpaginatedScanEnabled {
		return 0, errors.NewScanDisabledError("count "+r.entityName(), "CountUnpaginatedScanEnabled")
	}
	return r.store.CountScan(ctx, &storagemodels.ScanExpression{})
}

// DeleteByID loads the entity and deletes it. An EmptyResultError is returned when
// no entity has the id.
func (r *CrudRepository[T, ID]) DeleteByID(ctx context.Context, id ID) error {
	key, err := r.info.Key(id)
	if err != nil {
		return err
	}
	entity, err := r.store.Load(ctx, key)
	if err != nil {
		return err
	}
	if entity == nil {
		return errors.NewEmptyResultError(r.entityName(), fmt.Sprint(id))
	}
	return r.Delete(ctx, *entity)
}

func (r *CrudRepository[T, ID]) Delete(ctx context.Context, entity T) error {
	if err := r.store.Delete(ctx, entity); err != nil {
		return fmt.Errorf("failed to delete %s: %w", r.entityName(), err)
	}

	r.logger.Debug("Deleted entity",
		zap.String("entity", r.entityName()),
		zap.String("table", r.store.TableName()),
		zap.Stringer("key", r.info.Metadata().KeyOf(entity)))
	return nil
}

// DeleteEntities deletes entities in batches.
func (r *CrudRepository[T, ID]) DeleteEntities(ctx context.Context, entities []T) error {
	if len(entities) == 0 {
		return nil
	}
	failed, err := r.store.BatchDelete(ctx, entities)
	if err != nil {
		return fmt.Errorf("failed to delete %s entities: %w", r.entityName(), err)
	}
	if err := batchWriteError(failed); err != nil {
		return err
	}

	r.logger.Debug("Deleted entities",
		zap.String("entity", r.entityName()),
		zap.String("table", r.store.TableName()),
		zap.Int("count", len(entities)))
	return nil
}

// DeleteAll scans the table and deletes everything found.
func (r *CrudRepository[T, ID]) DeleteAll(ctx context.Context) error {
	if !r.permissions.DeleteAllUnpaginatedScanEnabled {
		return errors.NewScanDisabledError("deleteAll "+r.entityName(), "DeleteAllUnpaginatedScanEnabled")
	}
	all, err := datastore.Collect(ctx, r.store.Scan(ctx, &storagemodels.ScanExpression{}))
	if err != nil {
		return err
	}
	return r.DeleteEntities(ctx, all)
}

// QueryMethod creates the executor of a derived query method.
func (r *CrudRepository[T, ID]) QueryMethod(method QueryMethod) (*Executor[T, ID], error) {
	if err := r.lookup.check(); err != nil {
		return nil, err
	}
	return NewExecutor(method, r.info, r.store, r.logger)
}
