/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dynarepo

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/suparena/dynarepo/errors"
	"github.com/suparena/dynarepo/lifecycle"
	"github.com/suparena/dynarepo/observability"
	"go.uber.org/zap"
)

// Lifecycle groups the table synchronizers of a process. Tables are started in
// registration order and stopped in reverse.
type Lifecycle struct {
	mu     sync.Mutex
	syncs  []*lifecycle.Synchronizer
	tables map[string]struct{}
	logger *zap.Logger
}

// NewLifecycle creates an empty Lifecycle.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{
		tables: make(map[string]struct{}),
		logger: observability.OrNop(logger),
	}
}

// Register adds a synchronizer. Each table can be registered once.
func (l *Lifecycle) Register(s *lifecycle.Synchronizer) error {
	if s == nil {
		return errors.NewIllegalArgumentError("", "synchronizer must not be nil")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.tables[s.TableName()]; exists {
		return errors.NewAlreadyExistsError("synchronizer", s.TableName())
	}
	l.tables[s.TableName()] = struct{}{}
	l.syncs = append(l.syncs, s)
	return nil
}

// Start starts every synchronizer and stops at the first failure.
func (l *Lifecycle) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, s := range l.syncs {
		if err := s.Start(ctx); err != nil {
			return fmt.Errorf("failed to start table %s: %w", s.TableName(), err)
		}
	}
	l.logger.Info("Tables started", zap.Int("count", len(l.syncs)))
	return nil
}

// Stop stops every synchronizer, also after failures, and returns all errors.
func (l *Lifecycle) Stop(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var errs []error
	for i := len(l.syncs) - 1; i >= 0; i-- {
		s := l.syncs[i]
		if err := s.Stop(ctx); err != nil {
			l.logger.Error("Failed to stop table", zap.String("table", s.TableName()), zap.Error(err))
			errs = append(errs, fmt.Errorf("failed to stop table %s: %w", s.TableName(), err))
		}
	}
	l.logger.Info("Tables stopped", zap.Int("count", len(l.syncs)))
	return stderrors.Join(errs...)
}

// Tables returns the registered table names in registration order.
func (l *Lifecycle) Tables() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	names := make([]string, len(l.syncs))
	for i, s := range l.syncs {
		names[i] = s.TableName()
	}
	return names
}
