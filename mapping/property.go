/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"reflect"

	"github.com/google/uuid"
	"github.com/suparena/dynarepo/storagemodels"
)

// Role is the part a property plays in the identity of an entity.
type Role int

const (
	RolePlain Role = iota
	RoleHashKey
	RoleRangeKey
	// RoleID marks a composite identifier holding both the hash and the range key.
	RoleID
)

func (r Role) String() string {
	switch r {
	case RoleHashKey:
		return "hash key"
	case RoleRangeKey:
		return "range key"
	case RoleID:
		return "id"
	}
	return "plain"
}

var hashAndRangeKeyType = reflect.TypeFor[HashAndRangeKey]()

// Property declares one logical property of T. The name is the attribute name the
// attributevalue encoder produces for the struct field, usually the field name.
type Property[T any] struct {
	name          string
	role          Role
	attributeName string
	marshaller    Marshaller
	typeName      string
	kind          storagemodels.KeyKind
	composite     bool

	get      func(T) any
	accepts  func(any) bool
	isZero   func(any) bool
	generate func(*T) any
}

// HashKey declares the hash key property.
func HashKey[T any, V comparable](name string, get func(T) V) *Property[T] {
	p := newProperty(name, RoleHashKey, get)
	p.isZero = zeroCheck[V]()
	return p
}

// RangeKey declares the range key property.
func RangeKey[T any, V comparable](name string, get func(T) V) *Property[T] {
	p := newProperty(name, RoleRangeKey, get)
	p.isZero = zeroCheck[V]()
	return p
}

// ID declares the identifier property. A V implementing HashAndRangeKey makes it the
// composite identifier of a hash and range key entity; any other V is a hash key.
func ID[T any, V comparable](name string, get func(T) V) *Property[T] {
	t := reflect.TypeFor[V]()
	if t.Implements(hashAndRangeKeyType) {
		p := newProperty(name, RoleID, get)
		p.composite = true
		return p
	}
	p := newProperty(name, RoleHashKey, get)
	p.isZero = zeroCheck[V]()
	return p
}

// Attribute declares a plain property. Plain properties only need declaring when they
// carry an attribute name override or a marshaller, or are used in query conditions.
func Attribute[T any, V any](name string, get func(T) V) *Property[T] {
	return newProperty(name, RolePlain, get)
}

func newProperty[T any, V any](name string, role Role, get func(T) V) *Property[T] {
	return &Property[T]{
		name:     name,
		role:     role,
		typeName: reflect.TypeFor[V]().String(),
		kind:     kindOf[V](),
		get:      func(entity T) any { return get(entity) },
		accepts: func(v any) bool {
			_, ok := v.(V)
			return ok
		},
	}
}

func zeroCheck[V comparable]() func(any) bool {
	return func(v any) bool {
		var zero V
		tv, ok := v.(V)
		return !ok || tv == zero
	}
}

func kindOf[V any]() storagemodels.KeyKind {
	var zero V
	switch any(zero).(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return storagemodels.KeyKindN
	case []byte:
		return storagemodels.KeyKindB
	}
	return storagemodels.KeyKindS
}

// WithAttributeName overrides the store attribute name of the property.
func (p *Property[T]) WithAttributeName(attributeName string) *Property[T] {
	p.attributeName = attributeName
	return p
}

// WithMarshaller stores the property as the string produced by m.
func (p *Property[T]) WithMarshaller(m Marshaller) *Property[T] {
	p.marshaller = m
	return p
}

// WithGeneratedKey assigns a random UUID through set when the key is empty on save.
func (p *Property[T]) WithGeneratedKey(set func(entity *T, key string)) *Property[T] {
	p.generate = func(entity *T) any {
		key := uuid.NewString()
		set(entity, key)
		return key
	}
	return p
}

func (p *Property[T]) Name() string { return p.name }

func (p *Property[T]) Role() Role { return p.role }

// TypeName is the Go type of the property value.
func (p *Property[T]) TypeName() string { return p.typeName }

func (p *Property[T]) IsHashKey() bool { return p.role == RoleHashKey }

func (p *Property[T]) IsRangeKey() bool { return p.role == RoleRangeKey }

// IsCompositeID reports whether the property is a composite hash and range identifier.
func (p *Property[T]) IsCompositeID() bool { return p.composite }

// AttributeName returns the override if one was declared, otherwise the property name.
func (p *Property[T]) AttributeName() string {
	if p.attributeName != "" {
		return p.attributeName
	}
	return p.name
}

// OverriddenAttributeName returns the declared override, if any.
func (p *Property[T]) OverriddenAttributeName() (string, bool) {
	return p.attributeName, p.attributeName != ""
}

// Marshaller returns the custom marshaller, if any.
func (p *Property[T]) Marshaller() (Marshaller, bool) {
	return p.marshaller, p.marshaller != nil
}

// Kind is the scalar type the property is stored as.
func (p *Property[T]) Kind() storagemodels.KeyKind {
	if p.marshaller != nil {
		return storagemodels.KeyKindS
	}
	return p.kind
}

// Value reads the property from entity.
func (p *Property[T]) Value(entity T) any {
	return p.get(entity)
}

// Accepts reports whether v has the declared type of the property.
func (p *Property[T]) Accepts(v any) bool {
	return p.accepts(v)
}

// StoreValue converts v into the value written to the store, applying the marshaller.
func (p *Property[T]) StoreValue(v any) (any, error) {
	if p.marshaller == nil {
		return v, nil
	}
	return p.marshaller.Marshal(v)
}
