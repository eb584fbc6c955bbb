/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the Prometheus metrics of the store and table lifecycle.
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// Store metrics
	DBOperations *prometheus.CounterVec
	DBDuration   *prometheus.HistogramVec

	// Batch metrics
	BatchFailures *prometheus.CounterVec

	// Table lifecycle metrics
	TableTransitions *prometheus.CounterVec
}

// NewCollector creates a new metrics collector with the given namespace.
// Metrics are registered on a private registry, so collectors never clash.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	dbOperations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_operations_total",
			Help:      "Total number of DynamoDB operations",
		},
		[]string{"operation", "table", "status"},
	)

	dbDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_operation_duration_seconds",
			Help:      "DynamoDB operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	batchFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_failures_total",
			Help:      "Total number of batch write chunks left unprocessed",
		},
		[]string{"table"},
	)

	tableTransitions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "table_transitions_total",
			Help:      "Table create and drop actions issued by the table lifecycle",
		},
		[]string{"table", "action"},
	)

	registry.MustRegister(dbOperations, dbDuration, batchFailures, tableTransitions)

	return &Collector{
		registry:         registry,
		DBOperations:     dbOperations,
		DBDuration:       dbDuration,
		BatchFailures:    batchFailures,
		TableTransitions: tableTransitions,
	}
}

// Registry returns the registry the metrics are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveDB records one store operation.
func (c *Collector) ObserveDB(operation, table string, err error, took time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.DBOperations.WithLabelValues(operation, table, status).Inc()
	c.DBDuration.WithLabelValues(operation, table).Observe(took.Seconds())
}

// RecordBatchFailures adds unprocessed batch chunks for a table.
func (c *Collector) RecordBatchFailures(table string, n int) {
	if n > 0 {
		c.BatchFailures.WithLabelValues(table).Add(float64(n))
	}
}

// RecordTableTransition counts a create or drop issued for a table.
func (c *Collector) RecordTableTransition(table, action string) {
	c.TableTransitions.WithLabelValues(table, action).Inc()
}
