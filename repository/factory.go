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
	"go.uber.org/zap"
)

// Capability is the set of operations a created repository offers.
type Capability int

const (
	CapabilityCrud Capability = iota
	CapabilityPagingAndSorting
)

func (c Capability) String() string {
	switch c {
	case CapabilityCrud:
		return "crud"
	case CapabilityPagingAndSorting:
		return "paging-and-sorting"
	}
	return fmt.Sprintf("Capability(%d)", int(c))
}

// Config holds the collaborators of a repository.
type Config[T any, ID any] struct {
	Store           datastore.DataStore[T]
	Information     entityinfo.Information[T, ID]
	ScanPermissions ScanPermissions
	Listeners       []BeforeSaveListener[T]
	LookupStrategy  LookupStrategy
	Logger          *zap.Logger
}

func (c Config[T, ID]) validate() error {
	if c.Store == nil {
		return errors.NewIllegalArgumentError("", "store must not be nil")
	}
	if c.Information == nil {
		return errors.NewIllegalArgumentError("", "entity information must not be nil")
	}
	for i, l := range c.Listeners {
		if l == nil {
			return errors.NewIllegalArgumentError("", fmt.Sprintf("listener %d must not be nil", i))
		}
	}
	return c.LookupStrategy.check()
}

func (c Config[T, ID]) logger() *zap.Logger {
	return observability.OrNop(c.Logger)
}

// Repository is the operation set every capability offers.
type Repository[T any, ID any] interface {
	Save(ctx context.Context, entity T) (T, error)
	SaveAll(ctx context.Context, entities []T) ([]T, error)
	FindByID(ctx context.Context, id ID) (*T, error)
	ExistsByID(ctx context.Context, id ID) (bool, error)
	FindAllByID(ctx context.Context, ids []ID) ([]T, error)
	FindAll(ctx context.Context) ([]T, error)
	Count(ctx context.Context) (int64, error)
	DeleteByID(ctx context.Context, id ID) error
	Delete(ctx context.Context, entity T) error
	DeleteEntities(ctx context.Context, entities []T) error
	DeleteAll(ctx context.Context) error
	EntityInformation() entityinfo.Information[T, ID]
	QueryMethod(method QueryMethod) (*Executor[T, ID], error)
}

var (
	_ Repository[struct{}, string] = (*CrudRepository[struct{}, string])(nil)
	_ Repository[struct{}, string] = (*PagingAndSortingRepository[struct{}, string])(nil)
)

// NewRepository creates the repository implementation for capability. Paging
// repositories are returned as *PagingAndSortingRepository.
func NewRepository[T any, ID any](capability Capability, cfg Config[T, ID]) (Repository[T, ID], error) {
	switch capability {
	case CapabilityCrud:
		repo, err := NewCrudRepository(cfg)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case CapabilityPagingAndSorting:
		repo, err := NewPagingAndSortingRepository(cfg)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}
	return nil, errors.NewIllegalArgumentError("capability", fmt.Sprintf("unsupported repository capability %s", capability))
}
