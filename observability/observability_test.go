/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorObserveDB(t *testing.T) {
	c := NewCollector("test")

	c.ObserveDB("GetItem", "Users", nil, 10*time.Millisecond)
	c.ObserveDB("GetItem", "Users", nil, 10*time.Millisecond)
	c.ObserveDB("GetItem", "Users", errors.New("boom"), time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.DBOperations.WithLabelValues("GetItem", "Users", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.DBOperations.WithLabelValues("GetItem", "Users", "error")))
}

func TestCollectorsDoNotClash(t *testing.T) {
	a := NewCollector("test")
	b := NewCollector("test")

	a.RecordBatchFailures("Users", 2)
	b.RecordBatchFailures("Users", 0)
	b.RecordTableTransition("Users", "create")

	assert.Equal(t, 2.0, testutil.ToFloat64(a.BatchFailures.WithLabelValues("Users")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.BatchFailures.WithLabelValues("Users")))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.TableTransitions.WithLabelValues("Users", "create")))

	families, err := a.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))

	_, err = NewLogger("loud")
	assert.Error(t, err)

	assert.NotNil(t, OrNop(nil))
}
