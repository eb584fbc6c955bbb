/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/suparena/dynarepo/errors"
	"github.com/suparena/dynarepo/mapping"
)

// entry builds the metadata of one type on first access.
type entry struct {
	once  sync.Once
	build func() (any, error)
	md    any
	err   error
}

func (e *entry) resolve() (any, error) {
	e.once.Do(func() {
		e.md, e.err = e.build()
	})
	return e.md, e.err
}

var (
	metadataRegistry = make(map[reflect.Type]*entry)
	mu               sync.RWMutex
)

// Register associates a Go type T with its schema. The schema is resolved lazily on
// the first Metadata call and the result is cached for the life of the process.
// Registering T again replaces the previous schema.
func Register[T any](schema *mapping.Schema[T]) {
	t := reflect.TypeFor[T]()

	mu.Lock()
	defer mu.Unlock()
	metadataRegistry[t] = &entry{
		build: func() (any, error) { return schema.Build() },
	}
}

// Metadata returns the resolved metadata for type T.
func Metadata[T any]() (*mapping.EntityMetadata[T], error) {
	t := reflect.TypeFor[T]()

	mu.RLock()
	e, ok := metadataRegistry[t]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrNoMetadata, t)
	}

	md, err := e.resolve()
	if err != nil {
		return nil, err
	}
	return md.(*mapping.EntityMetadata[T]), nil
}

// IsRegistered reports whether a schema was registered for T.
func IsRegistered[T any]() bool {
	t := reflect.TypeFor[T]()

	mu.RLock()
	defer mu.RUnlock()
	_, ok := metadataRegistry[t]
	return ok
}

// Unregister removes the schema of T.
func Unregister[T any]() {
	t := reflect.TypeFor[T]()

	mu.Lock()
	defer mu.Unlock()
	delete(metadataRegistry, t)
}
