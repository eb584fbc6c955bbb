/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("User", "123")

	expected := `User with key "123" not found`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFoundError should match ErrNotFound")
	}

	if !IsNotFound(err) {
		t.Error("IsNotFound should return true for NotFoundError")
	}
}

func TestAlreadyExistsError(t *testing.T) {
	err := NewAlreadyExistsError("table", "Users")

	expected := `table with key "Users" already exists`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !IsAlreadyExists(err) {
		t.Error("IsAlreadyExists should return true for AlreadyExistsError")
	}
}

func TestIllegalArgumentError(t *testing.T) {
	tests := []struct {
		name     string
		argument string
		message  string
		expected string
	}{
		{
			name:     "with argument",
			argument: "id",
			message:  "expected a composite key",
			expected: `illegal argument "id": expected a composite key`,
		},
		{
			name:     "without argument",
			message:  "Unsupported query lookup strategy USE_DECLARED_QUERY!",
			expected: "Unsupported query lookup strategy USE_DECLARED_QUERY!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewIllegalArgumentError(tt.argument, tt.message)

			if err.Error() != tt.expected {
				t.Errorf("Expected error message %q, got %q", tt.expected, err.Error())
			}
			if !IsIllegalArgument(err) {
				t.Error("IsIllegalArgument should return true")
			}
		})
	}
}

func TestTypeMismatchIsConfiguration(t *testing.T) {
	err := NewTypeMismatchError("ID", "int64", "string")

	if !IsTypeMismatch(err) {
		t.Error("IsTypeMismatch should return true for TypeMismatchError")
	}
	if !IsConfiguration(err) {
		t.Error("a type mismatch is a configuration problem")
	}
	if !strings.Contains(err.Error(), `"ID"`) {
		t.Errorf("message should name the property, got %q", err.Error())
	}
}

func TestCardinalityErrors(t *testing.T) {
	tooMany := NewIncorrectResultSizeError(1, 2)
	if !IsIncorrectResultSize(tooMany) {
		t.Error("IncorrectResultSizeError should match ErrIncorrectResultSize")
	}
	if IsEmptyResult(tooMany) {
		t.Error("IncorrectResultSizeError should not match ErrEmptyResult")
	}
	if !strings.Contains(tooMany.Error(), "actual 2") {
		t.Errorf("message should report the actual count, got %q", tooMany.Error())
	}

	empty := NewEmptyResultError("User", "4711")
	if !IsEmptyResult(empty) {
		t.Error("EmptyResultError should match ErrEmptyResult")
	}
	if !IsIncorrectResultSize(empty) {
		t.Error("EmptyResultError should also match ErrIncorrectResultSize")
	}
}

func TestBatchWriteError(t *testing.T) {
	first := fmt.Errorf("first")
	second := fmt.Errorf("second")
	err := NewBatchWriteError([]error{first, second})

	if !IsBatchWrite(err) {
		t.Error("BatchWriteError should match ErrBatchWrite")
	}
	if !strings.Contains(err.Error(), "Processing of entities failed!") {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, first) {
		t.Error("the first cause should be reachable through Unwrap")
	}

	var bwe *BatchWriteError
	if !errors.As(err, &bwe) {
		t.Fatal("errors.As should find BatchWriteError")
	}
	if len(bwe.Suppressed()) != 1 || bwe.Suppressed()[0] != second {
		t.Errorf("expected the second cause to be suppressed, got %v", bwe.Suppressed())
	}
}

func TestWrappedErrors(t *testing.T) {
	baseErr := NewScanDisabledError("findAll", "FindAllUnpaginatedScanEnabled")
	wrappedErr := fmt.Errorf("repository call failed: %w", baseErr)

	if !errors.Is(wrappedErr, ErrScanDisabled) {
		t.Error("Wrapped ScanDisabledError should match ErrScanDisabled")
	}
	if !IsScanDisabled(wrappedErr) {
		t.Error("IsScanDisabled should work with wrapped errors")
	}
}

func TestErrorTypeChecking(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		checkFn func(error) bool
		want    bool
	}{
		{"NotFound matches IsNotFound", NewNotFoundError("T", "1"), IsNotFound, true},
		{"NotFound doesn't match IsAlreadyExists", NewNotFoundError("T", "1"), IsAlreadyExists, false},
		{"Configuration matches IsConfiguration", NewConfigurationError("T", "no hash key"), IsConfiguration, true},
		{"Configuration doesn't match IsIllegalArgument", NewConfigurationError("T", "x"), IsIllegalArgument, false},
		{"TableTimeout matches IsTableTimeout", NewTableTimeoutError("Users", "CREATING"), IsTableTimeout, true},
		{"nil error", nil, IsNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.checkFn(tt.err); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
