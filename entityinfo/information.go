/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entityinfo

import (
	"fmt"
	"reflect"

	"github.com/suparena/dynarepo/errors"
	"github.com/suparena/dynarepo/mapping"
	"github.com/suparena/dynarepo/registry"
	"github.com/suparena/dynarepo/storagemodels"
)

// Information answers the identity questions of entity type T whose identifier is of type ID.
type Information[T any, ID any] interface {
	// ID returns the identifier of entity.
	ID(entity T) (ID, error)
	// HashKey returns the hash key value addressed by id.
	HashKey(id ID) (any, error)
	// RangeKey returns the range key value addressed by id, false for hash-only entities.
	RangeKey(id ID) (any, bool, error)
	// Key returns the store key addressed by id.
	Key(id ID) (storagemodels.Key, error)

	IsRangeKeyAware() bool
	HashKeyPropertyName() string
	MarshallerForProperty(name string) (mapping.Marshaller, bool)
	IsHashKeyProperty(name string) bool
	IsCompositeHashAndRangeKeyProperty(name string) bool
	OverriddenAttributeName(name string) (string, bool)
	AttributeName(name string) string
	TableName() string
	Metadata() *mapping.EntityMetadata[T]
}

// New returns the Information implementation matching the key layout of md.
func New[T any, ID any](md *mapping.EntityMetadata[T]) (Information[T, ID], error) {
	if md == nil {
		return nil, errors.NewIllegalArgumentError("metadata", "entity metadata must not be nil")
	}
	if md.IsRangeKeyAware() {
		return NewCompositeInformation[T, ID](md), nil
	}
	return NewHashKeyInformation[T, ID](md), nil
}

// For returns the Information of T using the metadata registered for T.
func For[T any, ID any]() (Information[T, ID], error) {
	md, err := registry.Metadata[T]()
	if err != nil {
		return nil, err
	}
	return New[T, ID](md)
}

// metadataDelegate implements the lookups that behave the same for every key layout.
type metadataDelegate[T any] struct {
	md *mapping.EntityMetadata[T]
}

func (d metadataDelegate[T]) IsRangeKeyAware() bool { return d.md.IsRangeKeyAware() }

func (d metadataDelegate[T]) HashKeyPropertyName() string { return d.md.HashKeyPropertyName() }

func (d metadataDelegate[T]) MarshallerForProperty(name string) (mapping.Marshaller, bool) {
	return d.md.MarshallerForProperty(name)
}

func (d metadataDelegate[T]) IsHashKeyProperty(name string) bool { return d.md.IsHashKeyProperty(name) }

func (d metadataDelegate[T]) IsCompositeHashAndRangeKeyProperty(name string) bool {
	return d.md.IsCompositeIDProperty(name)
}

func (d metadataDelegate[T]) OverriddenAttributeName(name string) (string, bool) {
	return d.md.OverriddenAttributeName(name)
}

func (d metadataDelegate[T]) AttributeName(name string) string { return d.md.AttributeName(name) }

func (d metadataDelegate[T]) TableName() string { return d.md.TableName() }

func (d metadataDelegate[T]) Metadata() *mapping.EntityMetadata[T] { return d.md }

func typeName[V any]() string {
	return reflect.TypeFor[V]().String()
}

// HashKeyInformation serves entities identified by their hash key alone.
type HashKeyInformation[T any, ID any] struct {
	metadataDelegate[T]
}

var _ Information[struct{}, string] = (*HashKeyInformation[struct{}, string])(nil)

func NewHashKeyInformation[T any, ID any](md *mapping.EntityMetadata[T]) *HashKeyInformation[T, ID] {
	return &HashKeyInformation[T, ID]{metadataDelegate: metadataDelegate[T]{md: md}}
}

// ID returns the hash key of entity. A hash key property whose values are not of type ID
// is a configuration error and is reported as a type mismatch.
func (h *HashKeyInformation[T, ID]) ID(entity T) (ID, error) {
	p := h.md.HashKeyProperty()
	v := p.Value(entity)
	id, ok := v.(ID)
	if !ok {
		var zero ID
		return zero, errors.NewTypeMismatchError(p.Name(), typeName[ID](), fmt.Sprintf("%T", v))
	}
	return id, nil
}

// HashKey returns id unchanged.
func (h *HashKeyInformation[T, ID]) HashKey(id ID) (any, error) {
	p := h.md.HashKeyProperty()
	if !p.Accepts(any(id)) {
		return nil, errors.NewIllegalArgumentError("id",
			fmt.Sprintf("expected %s for hash key %s, got %T", p.TypeName(), p.Name(), any(id)))
	}
	return any(id), nil
}

func (h *HashKeyInformation[T, ID]) RangeKey(ID) (any, bool, error) {
	return nil, false, nil
}

func (h *HashKeyInformation[T, ID]) Key(id ID) (storagemodels.Key, error) {
	hash, err := h.HashKey(id)
	if err != nil {
		return storagemodels.Key{}, err
	}
	return storagemodels.HashKey(hash), nil
}

// CompositeInformation serves entities identified by a hash and range key pair.
type CompositeInformation[T any, ID any] struct {
	metadataDelegate[T]
}

var _ Information[struct{}, mapping.CompositeKey] = (*CompositeInformation[struct{}, mapping.CompositeKey])(nil)

func NewCompositeInformation[T any, ID any](md *mapping.EntityMetadata[T]) *CompositeInformation[T, ID] {
	return &CompositeInformation[T, ID]{metadataDelegate: metadataDelegate[T]{md: md}}
}

// ID returns the composite identifier of entity. When ID is mapping.CompositeKey the key
// is assembled from the hash and range key properties.
func (c *CompositeInformation[T, ID]) ID(entity T) (ID, error) {
	var zero ID
	if p := c.md.IDProperty(); p != nil && p.IsCompositeID() {
		v := p.Value(entity)
		if id, ok := v.(ID); ok {
			return id, nil
		}
	}

	key := mapping.CompositeKey{
		Hash:  c.md.HashKeyProperty().Value(entity),
		Range: c.md.RangeKeyProperty().Value(entity),
	}
	if id, ok := any(key).(ID); ok {
		return id, nil
	}

	p := c.md.IDProperty()
	return zero, errors.NewTypeMismatchError(p.Name(), typeName[ID](), p.TypeName())
}

func (c *CompositeInformation[T, ID]) composite(id ID) (mapping.HashAndRangeKey, error) {
	k, ok := any(id).(mapping.HashAndRangeKey)
	if !ok {
		return nil, errors.NewIllegalArgumentError("id",
			fmt.Sprintf("expected a hash and range key identifier, got %T", any(id)))
	}
	return k, nil
}

// HashKey extracts the hash component of id.
func (c *CompositeInformation[T, ID]) HashKey(id ID) (any, error) {
	k, err := c.composite(id)
	if err != nil {
		return nil, err
	}
	return k.HashKey(), nil
}

// RangeKey extracts the range component of id.
func (c *CompositeInformation[T, ID]) RangeKey(id ID) (any, bool, error) {
	k, err := c.composite(id)
	if err != nil {
		return nil, false, err
	}
	return k.RangeKey(), true, nil
}

func (c *CompositeInformation[T, ID]) Key(id ID) (storagemodels.Key, error) {
	k, err := c.composite(id)
	if err != nil {
		return storagemodels.Key{}, err
	}
	if k.HashKey() == nil || k.RangeKey() == nil {
		return storagemodels.Key{}, errors.NewIllegalArgumentError("id", "hash and range key components must not be nil")
	}
	return storagemodels.HashRangeKey(k.HashKey(), k.RangeKey()), nil
}
