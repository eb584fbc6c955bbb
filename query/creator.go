/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"fmt"
	"math"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/suparena/dynarepo/datastore"
	"github.com/suparena/dynarepo/entityinfo"
	"github.com/suparena/dynarepo/errors"
	"github.com/suparena/dynarepo/mapping"
	"github.com/suparena/dynarepo/storagemodels"
)

// Creator turns predicates into queries against one store. Full key equality becomes a
// load, hash key equality a key condition query and anything else a scan.
type Creator[T any, ID any] struct {
	info  entityinfo.Information[T, ID]
	store datastore.DataStore[T]
}

func NewCreator[T any, ID any](info entityinfo.Information[T, ID], store datastore.DataStore[T]) *Creator[T, ID] {
	return &Creator[T, ID]{info: info, store: store}
}

// plan splits the conditions of a predicate into key and filter conditions.
type plan struct {
	hash *Condition
	rng  *Condition
	rest []Condition
}

func (c *Creator[T, ID]) plan(p *Predicate) (plan, error) {
	var pl plan
	md := c.info.Metadata()

	conditions := make([]Condition, 0, len(p.Conditions))
	for _, cond := range p.Conditions {
		if err := cond.validate(); err != nil {
			return pl, err
		}
		// an equality on the composite id is an equality on both keys
		if c.info.IsCompositeHashAndRangeKeyProperty(cond.Property) {
			var k mapping.HashAndRangeKey
			ok := cond.Operator == OpEQ
			if ok {
				k, ok = cond.Values[0].(mapping.HashAndRangeKey)
			}
			if !ok {
				return pl, errors.NewIllegalArgumentError(cond.Property,
					"composite id properties only support equality with a hash and range key value")
			}
			rangeName, _ := md.RangeKeyPropertyName()
			conditions = append(conditions,
				Where(md.HashKeyPropertyName(), OpEQ, k.HashKey()),
				Where(rangeName, OpEQ, k.RangeKey()))
			continue
		}
		conditions = append(conditions, cond)
	}

	for i := range conditions {
		cond := conditions[i]
		switch {
		case pl.hash == nil && cond.Operator == OpEQ && c.info.IsHashKeyProperty(cond.Property):
			if !md.HashKeyProperty().Accepts(cond.Values[0]) {
				return pl, errors.NewIllegalArgumentError(cond.Property,
					fmt.Sprintf("expected %s, got %T", md.HashKeyProperty().TypeName(), cond.Values[0]))
			}
			pl.hash = &cond
		case pl.rng == nil && cond.Operator.keyOperator() && md.IsRangeKeyProperty(cond.Property):
			pl.rng = &cond
		default:
			pl.rest = append(pl.rest, cond)
		}
	}

	// a range condition without a hash key equality can only filter
	if pl.hash == nil && pl.rng != nil {
		pl.rest = append(pl.rest, *pl.rng)
		pl.rng = nil
	}
	return pl, nil
}

// conditions returns the planned conditions, key conditions first.
func (pl plan) conditions() []Condition {
	all := make([]Condition, 0, len(pl.rest)+2)
	if pl.hash != nil {
		all = append(all, *pl.hash)
	}
	if pl.rng != nil {
		all = append(all, *pl.rng)
	}
	return append(all, pl.rest...)
}

func storeConditions(conditions []Condition) []storagemodels.Condition {
	out := make([]storagemodels.Condition, len(conditions))
	for i, cond := range conditions {
		out[i] = storagemodels.Condition{Property: cond.Property, Operator: string(cond.Operator), Values: cond.Values}
	}
	return out
}

// storeLimit clamps a predicate limit to the int32 range of the store API.
func storeLimit(limit int) *int32 {
	return aws.Int32(int32(min(limit, math.MaxInt32)))
}

func (c *Creator[T, ID]) isLoad(p *Predicate, pl plan) bool {
	if pl.hash == nil || len(pl.rest) > 0 || p.IndexName != "" {
		return false
	}
	if !c.info.IsRangeKeyAware() {
		return pl.rng == nil
	}
	return pl.rng != nil && pl.rng.Operator == OpEQ
}

func (c *Creator[T, ID]) loadKey(pl plan) storagemodels.Key {
	if pl.rng != nil {
		return storagemodels.HashRangeKey(pl.hash.Values[0], pl.rng.Values[0])
	}
	return storagemodels.HashKey(pl.hash.Values[0])
}

// CreateQuery builds the query for p. A predicate that needs a scan fails with
// ScanDisabledError unless scanEnabled is set; no store call is made in that case.
func (c *Creator[T, ID]) CreateQuery(p *Predicate, scanEnabled bool) (Query[T], error) {
	if p == nil {
		p = &Predicate{}
	}
	pl, err := c.plan(p)
	if err != nil {
		return nil, err
	}

	switch {
	case c.isLoad(p, pl):
		return NewLoadByKeyQuery(c.store, c.loadKey(pl)), nil
	case pl.hash != nil:
		expr, err := c.queryExpression(p, pl)
		if err != nil {
			return nil, err
		}
		return NewQueryExpressionQuery(c.store, expr), nil
	}

	if !scanEnabled {
		return nil, errors.NewScanDisabledError("find "+c.info.Metadata().EntityName(), "ScanEnabled")
	}
	expr, err := c.scanExpression(p)
	if err != nil {
		return nil, err
	}
	return NewScanExpressionQuery(c.store, expr), nil
}

// CreateCountQuery builds the count query for p.
func (c *Creator[T, ID]) CreateCountQuery(p *Predicate, scanCountEnabled bool) (Query[int64], error) {
	if p == nil {
		p = &Predicate{}
	}
	pl, err := c.plan(p)
	if err != nil {
		return nil, err
	}

	switch {
	case c.isLoad(p, pl):
		return NewCountByKeyQuery(c.store, c.loadKey(pl)), nil
	case pl.hash != nil:
		expr, err := c.queryExpression(p, pl)
		if err != nil {
			return nil, err
		}
		return NewQueryCountQuery(c.store, expr), nil
	}

	if !scanCountEnabled {
		return nil, errors.NewScanDisabledError("count "+c.info.Metadata().EntityName(), "ScanCountEnabled")
	}
	expr, err := c.scanExpression(p)
	if err != nil {
		return nil, err
	}
	return NewScanCountQuery(c.store, expr), nil
}

func (c *Creator[T, ID]) queryExpression(p *Predicate, pl plan) (*storagemodels.QueryExpression, error) {
	hashValue, err := c.storeValue(pl.hash.Property, pl.hash.Values[0])
	if err != nil {
		return nil, err
	}
	kc := expression.Key(c.info.AttributeName(pl.hash.Property)).Equal(expression.Value(hashValue))
	if pl.rng != nil {
		rc, err := c.rangeKeyCondition(*pl.rng)
		if err != nil {
			return nil, err
		}
		kc = kc.And(rc)
	}

	builder := expression.NewBuilder().WithKeyCondition(kc)
	if filter, ok, err := c.filter(pl.rest); err != nil {
		return nil, err
	} else if ok {
		builder = builder.WithFilter(filter)
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query expression: %w", err)
	}

	out := &storagemodels.QueryExpression{
		HashKey:                   pl.hash.Values[0],
		KeyConditionExpression:    aws.ToString(expr.KeyCondition()),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Conditions:                storeConditions(pl.conditions()),
	}
	if p.IndexName != "" {
		out.IndexName = aws.String(p.IndexName)
	}
	if p.Limit > 0 {
		out.Limit = storeLimit(p.Limit)
	}
	if p.Descending {
		out.ScanIndexForward = aws.Bool(false)
	}
	if p.ConsistentRead {
		out.ConsistentRead = aws.Bool(true)
	}
	return out, nil
}

func (c *Creator[T, ID]) scanExpression(p *Predicate) (*storagemodels.ScanExpression, error) {
	pl, err := c.plan(p)
	if err != nil {
		return nil, err
	}
	// scans filter on every condition, key conditions included
	all := pl.conditions()
	out := &storagemodels.ScanExpression{Conditions: storeConditions(all)}

	filter, ok, err := c.filter(all)
	if err != nil {
		return nil, err
	}
	if ok {
		expr, err := expression.NewBuilder().WithFilter(filter).Build()
		if err != nil {
			return nil, fmt.Errorf("failed to build scan expression: %w", err)
		}
		out.FilterExpression = expr.Filter()
		out.ExpressionAttributeNames = expr.Names()
		out.ExpressionAttributeValues = expr.Values()
	}
	if p.IndexName != "" {
		out.IndexName = aws.String(p.IndexName)
	}
	if p.Limit > 0 {
		out.Limit = storeLimit(p.Limit)
	}
	if p.ConsistentRead {
		out.ConsistentRead = aws.Bool(true)
	}
	return out, nil
}

// storeValue applies the marshaller of a declared property.
func (c *Creator[T, ID]) storeValue(property string, v any) (any, error) {
	p, ok := c.info.Metadata().Property(property)
	if !ok {
		return v, nil
	}
	return p.StoreValue(v)
}

func (c *Creator[T, ID]) storeValues(cond Condition) ([]any, error) {
	out := make([]any, len(cond.Values))
	for i, v := range cond.Values {
		sv, err := c.storeValue(cond.Property, v)
		if err != nil {
			return nil, err
		}
		out[i] = sv
	}
	return out, nil
}

func stringValue(cond Condition, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errors.NewIllegalArgumentError(cond.Property,
			fmt.Sprintf("operator %s requires a string value, got %T", cond.Operator, v))
	}
	return s, nil
}

func (c *Creator[T, ID]) rangeKeyCondition(cond Condition) (expression.KeyConditionBuilder, error) {
	var kc expression.KeyConditionBuilder
	values, err := c.storeValues(cond)
	if err != nil {
		return kc, err
	}

	key := expression.Key(c.info.AttributeName(cond.Property))
	switch cond.Operator {
	case OpEQ:
		return key.Equal(expression.Value(values[0])), nil
	case OpLT:
		return key.LessThan(expression.Value(values[0])), nil
	case OpLE:
		return key.LessThanEqual(expression.Value(values[0])), nil
	case OpGT:
		return key.GreaterThan(expression.Value(values[0])), nil
	case OpGE:
		return key.GreaterThanEqual(expression.Value(values[0])), nil
	case OpBetween:
		return key.Between(expression.Value(values[0]), expression.Value(values[1])), nil
	case OpBeginsWith:
		prefix, err := stringValue(cond, values[0])
		if err != nil {
			return kc, err
		}
		return key.BeginsWith(prefix), nil
	}
	return kc, errors.NewIllegalArgumentError(cond.Property,
		fmt.Sprintf("operator %s is not supported in key conditions", cond.Operator))
}

// filter joins conditions with AND. ok is false when there is nothing to filter.
func (c *Creator[T, ID]) filter(conditions []Condition) (cb expression.ConditionBuilder, ok bool, err error) {
	for i, cond := range conditions {
		next, err := c.filterCondition(cond)
		if err != nil {
			return cb, false, err
		}
		if i == 0 {
			cb = next
		} else {
			cb = cb.And(next)
		}
	}
	return cb, len(conditions) > 0, nil
}

func (c *Creator[T, ID]) filterCondition(cond Condition) (expression.ConditionBuilder, error) {
	var cb expression.ConditionBuilder
	values, err := c.storeValues(cond)
	if err != nil {
		return cb, err
	}

	name := expression.Name(c.info.AttributeName(cond.Property))
	switch cond.Operator {
	case OpEQ:
		return name.Equal(expression.Value(values[0])), nil
	case OpNE:
		return name.NotEqual(expression.Value(values[0])), nil
	case OpLT:
		return name.LessThan(expression.Value(values[0])), nil
	case OpLE:
		return name.LessThanEqual(expression.Value(values[0])), nil
	case OpGT:
		return name.GreaterThan(expression.Value(values[0])), nil
	case OpGE:
		return name.GreaterThanEqual(expression.Value(values[0])), nil
	case OpBetween:
		return name.Between(expression.Value(values[0]), expression.Value(values[1])), nil
	case OpBeginsWith:
		prefix, err := stringValue(cond, values[0])
		if err != nil {
			return cb, err
		}
		return name.BeginsWith(prefix), nil
	case OpContains, OpNotContains:
		substr, err := stringValue(cond, values[0])
		if err != nil {
			return cb, err
		}
		if cond.Operator == OpNotContains {
			return expression.Not(name.Contains(substr)), nil
		}
		return name.Contains(substr), nil
	case OpIn:
		operands := make([]expression.OperandBuilder, len(values))
		for i, v := range values {
			operands[i] = expression.Value(v)
		}
		return name.In(operands[0], operands[1:]...), nil
	case OpNotNull:
		return name.AttributeExists(), nil
	case OpNull:
		return name.AttributeNotExists(), nil
	}
	return cb, errors.NewIllegalArgumentError(cond.Property, fmt.Sprintf("unsupported operator %q", cond.Operator))
}
