/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"fmt"
	"reflect"

	"github.com/suparena/dynarepo/errors"
	"github.com/suparena/dynarepo/storagemodels"
)

// Schema is the static declaration of an entity type.
type Schema[T any] struct {
	tableName  string
	properties []*Property[T]
}

// NewSchema starts a declaration for T. An empty table name defaults to the type name.
func NewSchema[T any](tableName string, properties ...*Property[T]) *Schema[T] {
	return &Schema[T]{tableName: tableName, properties: properties}
}

// With appends property declarations.
func (s *Schema[T]) With(properties ...*Property[T]) *Schema[T] {
	s.properties = append(s.properties, properties...)
	return s
}

// EntityMetadata is the resolved, immutable mapping of an entity type.
type EntityMetadata[T any] struct {
	entityName  string
	tableName   string
	properties  []*Property[T]
	byName      map[string]*Property[T]
	hashKey     *Property[T]
	rangeKey    *Property[T]
	compositeID *Property[T]
	id          *Property[T]
}

// BetterIDCandidate returns p when it should replace current as the identifier of the
// entity, or nil when it should not. Hash key properties are candidates, a composite
// identifier supersedes a plain hash key, and any other property never is.
func BetterIDCandidate[T any](current, p *Property[T]) *Property[T] {
	if p == nil || (!p.IsHashKey() && !p.IsCompositeID()) {
		return nil
	}
	if current == nil {
		return p
	}
	if p.IsCompositeID() && !current.IsCompositeID() {
		return p
	}
	return nil
}

// Build resolves the declaration. Ambiguous or incomplete identities are reported as
// configuration errors.
func (s *Schema[T]) Build() (*EntityMetadata[T], error) {
	entityName := reflect.TypeFor[T]().Name()
	md := &EntityMetadata[T]{
		entityName: entityName,
		tableName:  s.tableName,
		properties: make([]*Property[T], 0, len(s.properties)),
		byName:     make(map[string]*Property[T], len(s.properties)),
	}
	if md.tableName == "" {
		md.tableName = entityName
	}
	if md.tableName == "" {
		return nil, errors.NewConfigurationError(entityName, "table name must not be empty")
	}

	for _, p := range s.properties {
		if p == nil || p.name == "" {
			return nil, errors.NewConfigurationError(entityName, "property without name")
		}
		if _, dup := md.byName[p.name]; dup {
			return nil, errors.NewConfigurationError(entityName, fmt.Sprintf("property %q declared twice", p.name))
		}
		md.byName[p.name] = p
		md.properties = append(md.properties, p)

		switch {
		case p.IsHashKey():
			if md.hashKey != nil {
				return nil, errors.NewConfigurationError(entityName,
					fmt.Sprintf("more than one hash key property: %q and %q", md.hashKey.name, p.name))
			}
			md.hashKey = p
		case p.IsRangeKey():
			if md.rangeKey != nil {
				return nil, errors.NewConfigurationError(entityName,
					fmt.Sprintf("more than one range key property: %q and %q", md.rangeKey.name, p.name))
			}
			md.rangeKey = p
		case p.IsCompositeID():
			if md.compositeID != nil {
				return nil, errors.NewConfigurationError(entityName,
					fmt.Sprintf("more than one id property: %q and %q", md.compositeID.name, p.name))
			}
			md.compositeID = p
		}

		if c := BetterIDCandidate(md.id, p); c != nil {
			md.id = c
		}
	}

	if md.hashKey == nil {
		return nil, errors.NewConfigurationError(entityName, "no hash key property declared")
	}
	if md.rangeKey != nil && md.compositeID == nil {
		return nil, errors.NewConfigurationError(entityName,
			fmt.Sprintf("range key %q requires a composite id property", md.rangeKey.name))
	}
	if md.compositeID != nil && md.rangeKey == nil {
		return nil, errors.NewConfigurationError(entityName,
			fmt.Sprintf("composite id %q requires a range key property", md.compositeID.name))
	}
	return md, nil
}

// MustBuild is like Build but panics on error. Intended for package level declarations.
func (s *Schema[T]) MustBuild() *EntityMetadata[T] {
	md, err := s.Build()
	if err != nil {
		panic(err)
	}
	return md
}

func (m *EntityMetadata[T]) EntityName() string { return m.entityName }

func (m *EntityMetadata[T]) TableName() string { return m.tableName }

func (m *EntityMetadata[T]) HashKeyPropertyName() string { return m.hashKey.name }

// RangeKeyPropertyName returns the range key property name, if any.
func (m *EntityMetadata[T]) RangeKeyPropertyName() (string, bool) {
	if m.rangeKey == nil {
		return "", false
	}
	return m.rangeKey.name, true
}

func (m *EntityMetadata[T]) HashKeyProperty() *Property[T] { return m.hashKey }

// RangeKeyProperty returns nil for hash-only entities.
func (m *EntityMetadata[T]) RangeKeyProperty() *Property[T] { return m.rangeKey }

// IDProperty is the identifier: the composite id for hash and range entities, otherwise the hash key.
func (m *EntityMetadata[T]) IDProperty() *Property[T] { return m.id }

func (m *EntityMetadata[T]) IsRangeKeyAware() bool { return m.rangeKey != nil }

// Property looks up a declared property by name.
func (m *EntityMetadata[T]) Property(name string) (*Property[T], bool) {
	p, ok := m.byName[name]
	return p, ok
}

// Properties returns the declared properties in declaration order.
func (m *EntityMetadata[T]) Properties() []*Property[T] {
	out := make([]*Property[T], len(m.properties))
	copy(out, m.properties)
	return out
}

func (m *EntityMetadata[T]) IsHashKeyProperty(name string) bool {
	return m.hashKey.name == name
}

func (m *EntityMetadata[T]) IsRangeKeyProperty(name string) bool {
	return m.rangeKey != nil && m.rangeKey.name == name
}

func (m *EntityMetadata[T]) IsCompositeIDProperty(name string) bool {
	return m.compositeID != nil && m.compositeID.name == name
}

// OverriddenAttributeName returns the declared attribute name override for a property.
func (m *EntityMetadata[T]) OverriddenAttributeName(name string) (string, bool) {
	p, ok := m.byName[name]
	if !ok {
		return "", false
	}
	return p.OverriddenAttributeName()
}

// AttributeName maps a logical property name to its store attribute name.
func (m *EntityMetadata[T]) AttributeName(name string) string {
	if override, ok := m.OverriddenAttributeName(name); ok {
		return override
	}
	return name
}

// MarshallerForProperty returns the custom marshaller declared for a property.
func (m *EntityMetadata[T]) MarshallerForProperty(name string) (Marshaller, bool) {
	p, ok := m.byName[name]
	if !ok {
		return nil, false
	}
	return p.Marshaller()
}

// KeyOf reads the store key of an entity.
func (m *EntityMetadata[T]) KeyOf(entity T) storagemodels.Key {
	if m.rangeKey != nil {
		return storagemodels.HashRangeKey(m.hashKey.Value(entity), m.rangeKey.Value(entity))
	}
	return storagemodels.HashKey(m.hashKey.Value(entity))
}

// AssignGeneratedKeys fills empty key properties that declare a generator.
func (m *EntityMetadata[T]) AssignGeneratedKeys(entity *T) bool {
	assigned := false
	for _, p := range []*Property[T]{m.hashKey, m.rangeKey} {
		if p == nil || p.generate == nil || p.isZero == nil {
			continue
		}
		if p.isZero(p.Value(*entity)) {
			p.generate(entity)
			assigned = true
		}
	}
	return assigned
}

// TableSchema describes the table backing the entity.
func (m *EntityMetadata[T]) TableSchema() storagemodels.TableSchema {
	schema := storagemodels.TableSchema{
		TableName: m.tableName,
		HashKey:   storagemodels.KeyDefinition{Name: m.hashKey.AttributeName(), Kind: m.hashKey.Kind()},
	}
	if m.rangeKey != nil {
		schema.RangeKey = &storagemodels.KeyDefinition{Name: m.rangeKey.AttributeName(), Kind: m.rangeKey.Kind()}
	}
	return schema
}

// WithTableName returns a copy of the metadata bound to another table.
func (m *EntityMetadata[T]) WithTableName(tableName string) *EntityMetadata[T] {
	cp := *m
	cp.tableName = tableName
	return &cp
}
