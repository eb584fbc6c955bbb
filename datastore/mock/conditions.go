/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock

import (
	"reflect"
	"slices"
	"strings"

	"github.com/suparena/dynarepo/storagemodels"
)

// matches reports whether entity satisfies every condition.
func (m *DataStore[T]) matches(entity T, conditions []storagemodels.Condition) bool {
	for _, c := range conditions {
		if !m.matchCondition(entity, c) {
			return false
		}
	}
	return true
}

func (m *DataStore[T]) matchCondition(entity T, c storagemodels.Condition) bool {
	p, ok := m.md.Property(c.Property)
	if !ok {
		// undeclared properties are never stored
		return c.Operator == "NULL"
	}
	v := p.Value(entity)

	switch c.Operator {
	case "NULL":
		return isNull(v)
	case "NOT_NULL":
		return !isNull(v)
	case "EQ":
		return compareKeys(v, c.Values[0]) == 0
	case "NE":
		return compareKeys(v, c.Values[0]) != 0
	case "LT":
		return compareKeys(v, c.Values[0]) < 0
	case "LE":
		return compareKeys(v, c.Values[0]) <= 0
	case "GT":
		return compareKeys(v, c.Values[0]) > 0
	case "GE":
		return compareKeys(v, c.Values[0]) >= 0
	case "BETWEEN":
		return compareKeys(v, c.Values[0]) >= 0 && compareKeys(v, c.Values[1]) <= 0
	case "BEGINS_WITH":
		s, ok := v.(string)
		prefix, _ := c.Values[0].(string)
		return ok && strings.HasPrefix(s, prefix)
	case "CONTAINS":
		return contains(v, c.Values[0])
	case "NOT_CONTAINS":
		return !contains(v, c.Values[0])
	case "IN":
		return slices.ContainsFunc(c.Values, func(candidate any) bool {
			return compareKeys(v, candidate) == 0
		})
	}
	return false
}

// isNull treats nil values and empty strings as absent attributes, the way omitempty
// fields are written.
func isNull(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// contains is substring match for strings and element match for sets and lists.
func contains(v, operand any) bool {
	if s, ok := v.(string); ok {
		sub, _ := operand.(string)
		return strings.Contains(s, sub)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return false
	}
	for i := range rv.Len() {
		if compareKeys(rv.Index(i).Interface(), operand) == 0 {
			return true
		}
	}
	return false
}
