/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when an entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyExists is returned when attempting to create something that already exists
	ErrAlreadyExists = errors.New("entity already exists")

	// ErrInvalidInput is returned when an argument is not acceptable
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoMetadata is returned when no schema is registered for a type
	ErrNoMetadata = errors.New("no entity metadata found for type")

	// ErrConfiguration is returned for mapping or wiring mistakes detected at construction
	ErrConfiguration = errors.New("invalid configuration")

	// ErrTypeMismatch is returned when a key value cannot be assigned to the declared identifier type
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrIncorrectResultSize is returned when a query yields an unexpected number of results
	ErrIncorrectResultSize = errors.New("incorrect result size")

	// ErrEmptyResult is returned when at least one result was expected but none was found
	ErrEmptyResult = errors.New("empty result")

	// ErrBatchWrite is returned when one or more items of a batch write failed
	ErrBatchWrite = errors.New("batch write failed")

	// ErrScanDisabled is returned when a full table scan was attempted without permission
	ErrScanDisabled = errors.New("scan disabled")

	// ErrTableTimeout is returned when a table did not become active in time
	ErrTableTimeout = errors.New("table not active")
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError represents an error when an entity or table already exists
type AlreadyExistsError struct {
	Type string
	Key  string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with key %q already exists", e.Type, e.Key)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// IllegalArgumentError represents an argument of the wrong shape or value
type IllegalArgumentError struct {
	Argument string
	Message  string
}

func (e *IllegalArgumentError) Error() string {
	if e.Argument != "" {
		return fmt.Sprintf("illegal argument %q: %s", e.Argument, e.Message)
	}
	return e.Message
}

func (e *IllegalArgumentError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ConfigurationError represents a mapping declaration that cannot be used
type ConfigurationError struct {
	Type    string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("invalid configuration for %s: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("invalid configuration: %s", e.Message)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// TypeMismatchError is raised when a property value cannot be converted to the expected type
type TypeMismatchError struct {
	Property string
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("property %q holds %s which cannot be used as %s", e.Property, e.Actual, e.Expected)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch || target == ErrConfiguration
}

// IncorrectResultSizeError reports the expected and actual cardinality of a result
type IncorrectResultSizeError struct {
	Expected int
	Actual   int
}

func (e *IncorrectResultSizeError) Error() string {
	return fmt.Sprintf("incorrect result size: expected %d, actual %d", e.Expected, e.Actual)
}

func (e *IncorrectResultSizeError) Is(target error) bool {
	return target == ErrIncorrectResultSize
}

// EmptyResultError is an IncorrectResultSizeError with no results at all
type EmptyResultError struct {
	Type     string
	Key      string
	Expected int
}

func (e *EmptyResultError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("no %s entity with id %s found", e.Type, e.Key)
	}
	return fmt.Sprintf("incorrect result size: expected %d, actual 0", e.Expected)
}

func (e *EmptyResultError) Is(target error) bool {
	return target == ErrEmptyResult || target == ErrIncorrectResultSize
}

// BatchWriteError aggregates the failures of a batch write into one error.
// The first cause is exposed through Unwrap, the rest through Causes.
type BatchWriteError struct {
	Causes []error
}

func (e *BatchWriteError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Processing of entities failed! (%d failed batches)", len(e.Causes))
	for i, c := range e.Causes {
		if c == nil {
			continue
		}
		fmt.Fprintf(&sb, "; [%d] %v", i, c)
	}
	return sb.String()
}

func (e *BatchWriteError) Is(target error) bool {
	return target == ErrBatchWrite
}

func (e *BatchWriteError) Unwrap() error {
	if len(e.Causes) == 0 {
		return nil
	}
	return e.Causes[0]
}

// Suppressed returns the failure causes after the first one.
func (e *BatchWriteError) Suppressed() []error {
	if len(e.Causes) < 2 {
		return nil
	}
	return e.Causes[1:]
}

// ScanDisabledError is returned before any store call when an operation would need a scan
type ScanDisabledError struct {
	Operation string
	Flag      string
}

func (e *ScanDisabledError) Error() string {
	if e.Flag != "" {
		return fmt.Sprintf("scanning for %s has not been enabled through %s", e.Operation, e.Flag)
	}
	return fmt.Sprintf("scanning for %s has not been enabled", e.Operation)
}

func (e *ScanDisabledError) Is(target error) bool {
	return target == ErrScanDisabled
}

// TableTimeoutError is returned when waiting for a table exceeded its deadline
type TableTimeoutError struct {
	Table      string
	LastStatus string
}

func (e *TableTimeoutError) Error() string {
	return fmt.Sprintf("table %q did not become active in time (last status %s)", e.Table, e.LastStatus)
}

func (e *TableTimeoutError) Is(target error) bool {
	return target == ErrTableTimeout
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType, key string) error {
	return &NotFoundError{Type: entityType, Key: key}
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(entityType, key string) error {
	return &AlreadyExistsError{Type: entityType, Key: key}
}

// NewIllegalArgumentError creates a new IllegalArgumentError
func NewIllegalArgumentError(argument, message string) error {
	return &IllegalArgumentError{Argument: argument, Message: message}
}

// NewConfigurationError creates a new ConfigurationError
func NewConfigurationError(entityType, message string) error {
	return &ConfigurationError{Type: entityType, Message: message}
}

// NewTypeMismatchError creates a new TypeMismatchError
func NewTypeMismatchError(property, expected, actual string) error {
	return &TypeMismatchError{Property: property, Expected: expected, Actual: actual}
}

// NewIncorrectResultSizeError creates a new IncorrectResultSizeError
func NewIncorrectResultSizeError(expected, actual int) error {
	return &IncorrectResultSizeError{Expected: expected, Actual: actual}
}

// NewEmptyResultError creates a new EmptyResultError for a missing entity id
func NewEmptyResultError(entityType, key string) error {
	return &EmptyResultError{Type: entityType, Key: key, Expected: 1}
}

// NewBatchWriteError creates a new BatchWriteError
func NewBatchWriteError(causes []error) error {
	return &BatchWriteError{Causes: causes}
}

// NewScanDisabledError creates a new ScanDisabledError
func NewScanDisabledError(operation, flag string) error {
	return &ScanDisabledError{Operation: operation, Flag: flag}
}

// NewTableTimeoutError creates a new TableTimeoutError
func NewTableTimeoutError(table, lastStatus string) error {
	return &TableTimeoutError{Table: table, LastStatus: lastStatus}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsIllegalArgument checks if an error is an illegal argument error
func IsIllegalArgument(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConfiguration checks if an error is a configuration error
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsTypeMismatch checks if an error is a type mismatch error
func IsTypeMismatch(err error) bool {
	return errors.Is(err, ErrTypeMismatch)
}

// IsIncorrectResultSize checks if an error is a cardinality error, including empty results
func IsIncorrectResultSize(err error) bool {
	return errors.Is(err, ErrIncorrectResultSize)
}

// IsEmptyResult checks if an error is an empty result error
func IsEmptyResult(err error) bool {
	return errors.Is(err, ErrEmptyResult)
}

// IsBatchWrite checks if an error is an aggregated batch write error
func IsBatchWrite(err error) bool {
	return errors.Is(err, ErrBatchWrite)
}

// IsScanDisabled checks if an error is a scan disabled error
func IsScanDisabled(err error) bool {
	return errors.Is(err, ErrScanDisabled)
}

// IsTableTimeout checks if an error is a table timeout error
func IsTableTimeout(err error) bool {
	return errors.Is(err, ErrTableTimeout)
}
