/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dynarepo

import (
	"reflect"
	"slices"
	"sync"

	"github.com/suparena/dynarepo/errors"
	"github.com/suparena/dynarepo/repository"
)

// TypedRepositories holds the repositories of entity type T by name.
type TypedRepositories[T any, ID any] struct {
	mu    sync.RWMutex
	repos map[string]repository.Repository[T, ID]
}

// NewTypedRepositories creates an empty registry for T.
func NewTypedRepositories[T any, ID any]() *TypedRepositories[T, ID] {
	return &TypedRepositories[T, ID]{
		repos: make(map[string]repository.Repository[T, ID]),
	}
}

// Register adds a repository under key.
func (r *TypedRepositories[T, ID]) Register(key string, repo repository.Repository[T, ID]) error {
	if isNil(repo) {
		return errors.NewIllegalArgumentError("repo", "repository must not be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.repos[key]; exists {
		return errors.NewAlreadyExistsError("repository", key)
	}
	r.repos[key] = repo
	return nil
}

// Get retrieves a repository by key.
func (r *TypedRepositories[T, ID]) Get(key string) (repository.Repository[T, ID], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	repo, exists := r.repos[key]
	if !exists {
		return nil, errors.NewNotFoundError("repository", key)
	}
	return repo, nil
}

// Remove deletes a repository by key.
func (r *TypedRepositories[T, ID]) Remove(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.repos[key]; !exists {
		return errors.NewNotFoundError("repository", key)
	}
	delete(r.repos, key)
	return nil
}

// List returns the registered keys in sorted order.
func (r *TypedRepositories[T, ID]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.repos))
	for k := range r.repos {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// isNil also catches a nil pointer stored in the interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

type registryKey struct {
	entity reflect.Type
	id     reflect.Type
}

// Repositories manages TypedRepositories for different entity types.
type Repositories struct {
	mu         sync.Mutex
	registries map[registryKey]any
}

func NewRepositories() *Repositories {
	return &Repositories{registries: make(map[registryKey]any)}
}

// TypedRepositoriesOf returns the registry for T and ID, creating it if necessary.
func TypedRepositoriesOf[T any, ID any](r *Repositories) *TypedRepositories[T, ID] {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := registryKey{entity: reflect.TypeFor[T](), id: reflect.TypeFor[ID]()}
	if typed, exists := r.registries[key]; exists {
		return typed.(*TypedRepositories[T, ID])
	}
	typed := NewTypedRepositories[T, ID]()
	r.registries[key] = typed
	return typed
}

// RegisterRepository registers repo for T under key.
func RegisterRepository[T any, ID any](r *Repositories, key string, repo repository.Repository[T, ID]) error {
	return TypedRepositoriesOf[T, ID](r).Register(key, repo)
}

// GetRepository returns the repository for T registered under key.
func GetRepository[T any, ID any](r *Repositories, key string) (repository.Repository[T, ID], error) {
	return TypedRepositoriesOf[T, ID](r).Get(key)
}

func RemoveRepository[T any, ID any](r *Repositories, key string) error {
	return TypedRepositoriesOf[T, ID](r).Remove(key)
}

func ListRepositories[T any, ID any](r *Repositories) []string {
	return TypedRepositoriesOf[T, ID](r).List()
}
