/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

// KeyKind is the scalar attribute type of a key attribute.
type KeyKind string

const (
	KeyKindS KeyKind = "S"
	KeyKindN KeyKind = "N"
	KeyKindB KeyKind = "B"
)

// KeyDefinition names a key attribute and its type.
type KeyDefinition struct {
	Name string
	Kind KeyKind
}

// TableSchema is the part of an entity declaration needed to create its table.
type TableSchema struct {
	TableName string
	HashKey   KeyDefinition
	// RangeKey is nil for hash-only tables.
	RangeKey *KeyDefinition
	// ReadCapacity and WriteCapacity select provisioned billing when both are positive,
	// otherwise tables are created on demand.
	ReadCapacity  int64
	WriteCapacity int64
}

// IsRangeKeyAware reports whether the table has a range key.
func (s TableSchema) IsRangeKeyAware() bool {
	return s.RangeKey != nil
}

// TableStatus mirrors the lifecycle states a table reports.
type TableStatus string

const (
	TableStatusCreating TableStatus = "CREATING"
	TableStatusUpdating TableStatus = "UPDATING"
	TableStatusDeleting TableStatus = "DELETING"
	TableStatusActive   TableStatus = "ACTIVE"
	// TableStatusNotFound is reported for tables that do not exist.
	TableStatusNotFound TableStatus = "NOT_FOUND"
)
