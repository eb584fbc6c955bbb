/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import (
	"fmt"
	"strings"

	"github.com/suparena/dynarepo/errors"
	"github.com/suparena/dynarepo/query"
	"github.com/suparena/dynarepo/storagemodels"
)

// Kind is what a query method does with the matching entities.
type Kind int

const (
	KindFind Kind = iota
	KindCount
	KindExists
	KindDelete
)

func (k Kind) String() string {
	switch k {
	case KindFind:
		return "find"
	case KindCount:
		return "count"
	case KindExists:
		return "exists"
	case KindDelete:
		return "delete"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Returns is the declared result shape of a find method.
type Returns int

const (
	ReturnsCollection Returns = iota
	// ReturnsSingle declares a single entity; more than one match is an error.
	ReturnsSingle
	ReturnsPage
)

// PredicateFunc turns the invocation arguments into a predicate. It stands for the
// parsed method name.
type PredicateFunc func(args []any) (*query.Predicate, error)

// QueryMethod is the static declaration of a derived query method.
type QueryMethod struct {
	Name    string
	Kind    Kind
	Returns Returns
	// ResultLimit restricts the number of results, as in findFirst3By. 0 means none.
	ResultLimit int
	// ScanEnabled permits predicates that cannot use a key condition.
	ScanEnabled bool
	// ScanCountEnabled permits counting paged scans.
	ScanCountEnabled bool
	Predicate        PredicateFunc
}

// Validate checks the declaration.
func (m QueryMethod) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return errors.NewIllegalArgumentError("name", "query method name must not be empty")
	}
	if m.Predicate == nil {
		return errors.NewIllegalArgumentError("predicate", fmt.Sprintf("query method %s has no predicate", m.Name))
	}
	if m.Kind < KindFind || m.Kind > KindDelete {
		return errors.NewIllegalArgumentError("kind", fmt.Sprintf("query method %s has unknown kind %d", m.Name, m.Kind))
	}
	if m.Returns < ReturnsCollection || m.Returns > ReturnsPage {
		return errors.NewIllegalArgumentError("returns", fmt.Sprintf("query method %s has unknown result shape %d", m.Name, m.Returns))
	}
	if m.Returns == ReturnsPage && m.Kind != KindFind {
		return errors.NewIllegalArgumentError("returns", fmt.Sprintf("%s query method %s cannot return a page", m.Kind, m.Name))
	}
	if m.ResultLimit < 0 {
		return errors.NewIllegalArgumentError("resultLimit", fmt.Sprintf("query method %s has a negative result limit", m.Name))
	}
	return nil
}

// pageableOf returns the first Pageable argument.
func pageableOf(args []any) (storagemodels.Pageable, bool) {
	for _, arg := range args {
		switch p := arg.(type) {
		case storagemodels.Pageable:
			return p, true
		case *storagemodels.Pageable:
			if p != nil {
				return *p, true
			}
		}
	}
	return storagemodels.Pageable{}, false
}

// LookupStrategy selects how query methods are resolved.
type LookupStrategy string

const (
	LookupCreate           LookupStrategy = "CREATE"
	LookupCreateIfNotFound LookupStrategy = "CREATE_IF_NOT_FOUND"
	LookupUseDeclaredQuery LookupStrategy = "USE_DECLARED_QUERY"
)

// ParseLookupStrategy accepts the strategy names case-insensitively. The empty string
// selects CREATE_IF_NOT_FOUND.
func ParseLookupStrategy(s string) (LookupStrategy, error) {
	if s == "" {
		return LookupCreateIfNotFound, nil
	}
	strategy := LookupStrategy(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	switch strategy {
	case LookupCreate, LookupCreateIfNotFound, LookupUseDeclaredQuery:
		return strategy, nil
	}
	return "", errors.NewIllegalArgumentError("lookupStrategy", fmt.Sprintf("unknown query lookup strategy %q", s))
}

// check reports strategies that cannot be served. Declared queries are not supported,
// every method is derived from its predicate.
func (s LookupStrategy) check() error {
	switch s {
	case "", LookupCreate, LookupCreateIfNotFound:
		return nil
	case LookupUseDeclaredQuery:
		return errors.NewIllegalArgumentError("", "Unsupported query lookup strategy USE_DECLARED_QUERY!")
	}
	return errors.NewIllegalArgumentError("lookupStrategy", fmt.Sprintf("unknown query lookup strategy %q", string(s)))
}
