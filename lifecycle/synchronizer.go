/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/suparena/dynarepo/datastore"
	"github.com/suparena/dynarepo/errors"
	"github.com/suparena/dynarepo/observability"
	"github.com/suparena/dynarepo/storagemodels"
	"go.uber.org/zap"
)

const (
	DefaultPollInterval  = time.Second
	DefaultActiveTimeout = 2 * time.Minute
)

// Event is a lifecycle signal of the owning process. Started and Refreshed both run the
// start policy; Stopped runs the stop policy.
type Event int

const (
	EventContextStarted Event = iota
	EventContextStopped
	EventContextRefreshed
	EventContextClosed
)

// ActiveWaiter is implemented by admins that can wait for a table themselves.
type ActiveWaiter interface {
	WaitForActive(ctx context.Context, tableName string, timeout time.Duration) error
}

type state int

const (
	stateIdle state = iota
	stateStarted
	stateStopped
)

// Synchronizer applies a Mode to the table of one entity.
type Synchronizer struct {
	admin        datastore.TableAdmin
	schema       storagemodels.TableSchema
	mode         Mode
	pollInterval time.Duration
	timeout      time.Duration
	metrics      *observability.Collector
	logger       *zap.Logger

	mu    sync.Mutex
	state state
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

func WithPollInterval(d time.Duration) Option {
	return func(s *Synchronizer) { s.pollInterval = d }
}

// WithActiveTimeout bounds the wait for a created table to become active.
func WithActiveTimeout(d time.Duration) Option {
	return func(s *Synchronizer) { s.timeout = d }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Synchronizer) { s.logger = logger }
}

func WithMetrics(metrics *observability.Collector) Option {
	return func(s *Synchronizer) { s.metrics = metrics }
}

// NewSynchronizer binds a synchronizer to schema and mode.
func NewSynchronizer(admin datastore.TableAdmin, schema storagemodels.TableSchema, mode Mode, opts ...Option) (*Synchronizer, error) {
	if admin == nil {
		return nil, errors.NewIllegalArgumentError("", "table admin must not be nil")
	}
	if schema.TableName == "" || schema.HashKey.Name == "" {
		return nil, errors.NewIllegalArgumentError("schema", "table schema needs a table name and a hash key")
	}
	mode, err := ParseMode(string(mode))
	if err != nil {
		return nil, err
	}

	s := &Synchronizer{
		admin:        admin,
		schema:       schema,
		mode:         mode,
		pollInterval: DefaultPollInterval,
		timeout:      DefaultActiveTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pollInterval <= 0 || s.timeout <= 0 {
		return nil, errors.NewIllegalArgumentError("", "poll interval and active timeout must be positive")
	}
	s.logger = observability.OrNop(s.logger).With(
		zap.String("table", schema.TableName),
		zap.String("mode", mode.String()))
	return s, nil
}

func (s *Synchronizer) Mode() Mode { return s.mode }

func (s *Synchronizer) TableName() string { return s.schema.TableName }

// OnEvent dispatches started, refreshed and stopped signals. Other events are ignored.
func (s *Synchronizer) OnEvent(ctx context.Context, event Event) error {
	switch event {
	case EventContextStarted, EventContextRefreshed:
		return s.Start(ctx)
	case EventContextStopped:
		return s.Stop(ctx)
	}
	return nil
}

// Start applies the start policy of the mode and blocks until a created table is
// active. A TableTimeoutError means the table is not usable. A failed start leaves the
// synchronizer idle, so a later Start runs the whole policy again.
func (s *Synchronizer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateIdle {
		return nil
	}

	if s.mode == ModeCreate {
		if err := s.drop(ctx, true); err != nil {
			return err
		}
	}
	if s.mode.createsOnStart() {
		if err := s.create(ctx); err != nil {
			return err
		}
	}
	s.state = stateStarted
	return nil
}

// Stop applies the stop policy of the mode. The synchronizer ignores every later
// signal.
func (s *Synchronizer) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == stateStopped {
		return nil
	}
	s.state = stateStopped

	if s.mode.dropsOnStop() {
		return s.drop(ctx, false)
	}
	return nil
}

func (s *Synchronizer) create(ctx context.Context) error {
	err := s.admin.CreateTable(ctx, s.schema)
	switch {
	case errors.IsAlreadyExists(err):
		s.logger.Info("Table already exists")
	case err != nil:
		return fmt.Errorf("failed to create table %s: %w", s.schema.TableName, err)
	default:
		s.logger.Info("Created table")
		if s.metrics != nil {
			s.metrics.RecordTableTransition(s.schema.TableName, "create")
		}
	}
	return s.waitForActive(ctx)
}

// drop deletes the table. A missing table is fine when dropping before a create.
func (s *Synchronizer) drop(ctx context.Context, beforeCreate bool) error {
	err := s.admin.DeleteTable(ctx, s.schema.TableName)
	if errors.IsNotFound(err) {
		if beforeCreate {
			s.logger.Warn("No table to drop before create")
		} else {
			s.logger.Info("Table already dropped")
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to drop table %s: %w", s.schema.TableName, err)
	}

	s.logger.Info("Dropped table")
	if s.metrics != nil {
		s.metrics.RecordTableTransition(s.schema.TableName, "drop")
	}
	return nil
}

func (s *Synchronizer) waitForActive(ctx context.Context) error {
	if w, ok := s.admin.(ActiveWaiter); ok {
		return w.WaitForActive(ctx, s.schema.TableName, s.timeout)
	}

	deadline := time.Now().Add(s.timeout)
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		status, err := s.admin.DescribeTable(ctx, s.schema.TableName)
		if err != nil {
			return fmt.Errorf("failed to describe table %s: %w", s.schema.TableName, err)
		}
		if status == storagemodels.TableStatusActive {
			s.logger.Info("Table is active")
			return nil
		}
		if !time.Now().Before(deadline) {
			return errors.NewTableTimeoutError(s.schema.TableName, string(status))
		}

		s.logger.Debug("Waiting for table", zap.String("status", string(status)))
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", errors.NewTableTimeoutError(s.schema.TableName, string(status)), ctx.Err())
		case <-ticker.C:
		}
	}
}
