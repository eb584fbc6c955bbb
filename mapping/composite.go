/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"github.com/suparena/dynarepo/errors"
)

// HashAndRangeKey is implemented by composite identifiers.
type HashAndRangeKey interface {
	HashKey() any
	RangeKey() any
}

// CompositeKey is a ready-made composite identifier.
type CompositeKey struct {
	Hash  any
	Range any
}

// NewCompositeKey returns a key holding both components. Neither may be nil.
func NewCompositeKey(hash, rng any) (CompositeKey, error) {
	if hash == nil {
		return CompositeKey{}, errors.NewIllegalArgumentError("hash", "hash key component must not be nil")
	}
	if rng == nil {
		return CompositeKey{}, errors.NewIllegalArgumentError("range", "range key component must not be nil")
	}
	return CompositeKey{Hash: hash, Range: rng}, nil
}

func (k CompositeKey) HashKey() any { return k.Hash }

func (k CompositeKey) RangeKey() any { return k.Range }
