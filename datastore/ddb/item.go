/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"
	"maps"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/suparena/dynarepo/errors"
	"github.com/suparena/dynarepo/mapping"
	"github.com/suparena/dynarepo/storagemodels"
)

// itemMapper converts between entities and items. The attributevalue encoder does the
// bulk of the work; declared attribute name overrides and marshallers are applied on top.
type itemMapper[T any] struct {
	md *mapping.EntityMetadata[T]
}

func (m itemMapper[T]) toItem(entity T) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}

	for _, p := range m.md.Properties() {
		if p.IsCompositeID() {
			delete(item, p.Name())
			continue
		}
		attr := p.AttributeName()
		if marshaller, ok := p.Marshaller(); ok {
			s, err := marshaller.Marshal(p.Value(entity))
			if err != nil {
				return nil, fmt.Errorf("failed to marshal property %q: %w", p.Name(), err)
			}
			delete(item, p.Name())
			item[attr] = &types.AttributeValueMemberS{Value: s}
			continue
		}
		if attr != p.Name() {
			if av, ok := item[p.Name()]; ok {
				delete(item, p.Name())
				item[attr] = av
			}
		}
	}
	return item, nil
}

func (m itemMapper[T]) fromItem(item map[string]types.AttributeValue) (T, error) {
	var result T
	renamed := maps.Clone(item)

	for _, p := range m.md.Properties() {
		if p.IsCompositeID() {
			continue
		}
		attr := p.AttributeName()
		av, ok := renamed[attr]
		if !ok {
			continue
		}
		if marshaller, ok := p.Marshaller(); ok {
			var s string
			if err := attributevalue.Unmarshal(av, &s); err != nil {
				return result, fmt.Errorf("failed to read attribute %q: %w", attr, err)
			}
			v, err := marshaller.Unmarshal(s)
			if err != nil {
				return result, fmt.Errorf("failed to unmarshal property %q: %w", p.Name(), err)
			}
			if av, err = attributevalue.Marshal(v); err != nil {
				return result, fmt.Errorf("failed to convert property %q: %w", p.Name(), err)
			}
		}
		delete(renamed, attr)
		renamed[p.Name()] = av
	}

	if err := attributevalue.UnmarshalMap(renamed, &result); err != nil {
		return result, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return result, nil
}

func (m itemMapper[T]) fromItems(items []map[string]types.AttributeValue) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, item := range items {
		e, err := m.fromItem(item)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// keyAttributes builds the primary key of key.
func (m itemMapper[T]) keyAttributes(key storagemodels.Key) (map[string]types.AttributeValue, error) {
	hashProp := m.md.HashKeyProperty()
	hash, err := attributeValue(hashProp, key.Hash)
	if err != nil {
		return nil, err
	}
	out := map[string]types.AttributeValue{hashProp.AttributeName(): hash}

	rangeProp := m.md.RangeKeyProperty()
	switch {
	case rangeProp != nil && !key.HasRange:
		return nil, errors.NewIllegalArgumentError("key",
			fmt.Sprintf("table %s requires a range key", m.md.TableName()))
	case rangeProp == nil && key.HasRange:
		return nil, errors.NewIllegalArgumentError("key",
			fmt.Sprintf("table %s has no range key", m.md.TableName()))
	case rangeProp != nil:
		rng, err := attributeValue(rangeProp, key.Range)
		if err != nil {
			return nil, err
		}
		out[rangeProp.AttributeName()] = rng
	}
	return out, nil
}

func attributeValue[T any](p *mapping.Property[T], v any) (types.AttributeValue, error) {
	stored, err := p.StoreValue(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal property %q: %w", p.Name(), err)
	}
	av, err := attributevalue.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to convert property %q: %w", p.Name(), err)
	}
	return av, nil
}
