/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"fmt"

	"github.com/suparena/dynarepo/errors"
)

// Operator compares a property with the condition values.
type Operator string

const (
	OpEQ          Operator = "EQ"
	OpNE          Operator = "NE"
	OpLT          Operator = "LT"
	OpLE          Operator = "LE"
	OpGT          Operator = "GT"
	OpGE          Operator = "GE"
	OpBetween     Operator = "BETWEEN"
	OpBeginsWith  Operator = "BEGINS_WITH"
	OpContains    Operator = "CONTAINS"
	OpNotContains Operator = "NOT_CONTAINS"
	OpIn          Operator = "IN"
	OpNotNull     Operator = "NOT_NULL"
	OpNull        Operator = "NULL"
)

// arity returns the number of values the operator takes, -1 for one or more.
func (o Operator) arity() (int, bool) {
	switch o {
	case OpEQ, OpNE, OpLT, OpLE, OpGT, OpGE, OpBeginsWith, OpContains, OpNotContains:
		return 1, true
	case OpBetween:
		return 2, true
	case OpIn:
		return -1, true
	case OpNotNull, OpNull:
		return 0, true
	}
	return 0, false
}

// keyOperator reports whether the operator may appear in a range key condition.
func (o Operator) keyOperator() bool {
	switch o {
	case OpEQ, OpLT, OpLE, OpGT, OpGE, OpBetween, OpBeginsWith:
		return true
	}
	return false
}

// Condition restricts one logical property.
type Condition struct {
	Property string
	Operator Operator
	Values   []any
}

// Where builds a condition.
func Where(property string, op Operator, values ...any) Condition {
	return Condition{Property: property, Operator: op, Values: values}
}

func (c Condition) validate() error {
	want, ok := c.Operator.arity()
	if !ok {
		return errors.NewIllegalArgumentError("operator", fmt.Sprintf("unsupported operator %q", c.Operator))
	}
	if (want < 0 && len(c.Values) == 0) || (want >= 0 && len(c.Values) != want) {
		return errors.NewIllegalArgumentError(c.Property,
			fmt.Sprintf("operator %s takes %s, got %d", c.Operator, arityText(want), len(c.Values)))
	}
	for _, v := range c.Values {
		if v == nil {
			return errors.NewIllegalArgumentError(c.Property, fmt.Sprintf("operator %s does not take nil values", c.Operator))
		}
	}
	return nil
}

func arityText(n int) string {
	switch n {
	case -1:
		return "at least one value"
	case 1:
		return "one value"
	}
	return fmt.Sprintf("%d values", n)
}

// Predicate is the parsed form of a query method: a conjunction of conditions plus
// result shaping.
type Predicate struct {
	Conditions []Condition
	// Limit caps the number of results, 0 means unlimited.
	Limit          int
	IndexName      string
	Descending     bool
	ConsistentRead bool
}

// NewPredicate returns a predicate over the given conditions.
func NewPredicate(conditions ...Condition) *Predicate {
	return &Predicate{Conditions: conditions}
}
