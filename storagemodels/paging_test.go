/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageable(t *testing.T) {
	assert.False(t, Unpaged().IsPaged())
	assert.Equal(t, int64(0), Unpaged().Offset())

	p := PageRequest(2, 10)
	assert.True(t, p.IsPaged())
	assert.False(t, p.IsSorted())
	assert.Equal(t, int64(20), p.Offset())

	sorted := PageRequest(0, 5, Sort{Property: "name"})
	assert.True(t, sorted.IsSorted())
}

func TestPageNavigation(t *testing.T) {
	tests := []struct {
		name       string
		page       *Page[int]
		totalPages int
		hasNext    bool
	}{
		{"first of three", NewPage([]int{1, 2}, PageRequest(0, 2), 5), 3, true},
		{"last page", NewPage([]int{5}, PageRequest(2, 2), 5), 3, false},
		{"unpaged", NewPage([]int{1, 2, 3}, Unpaged(), 3), 1, false},
		{"empty", NewPage[int](nil, PageRequest(0, 10), 0), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.totalPages, tt.page.TotalPages())
			assert.Equal(t, tt.hasNext, tt.page.HasNext())
			assert.NotNil(t, tt.page.Content)
		})
	}
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "42", HashKey(42).String())
	assert.Equal(t, "michael|playlist1", HashRangeKey("michael", "playlist1").String())
	assert.False(t, HashKey("a").HasRange)
	assert.True(t, HashRangeKey("a", "b").HasRange)
}
