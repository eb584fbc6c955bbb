/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package auditing

import (
	"context"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/suparena/dynarepo/errors"
	"github.com/suparena/dynarepo/observability"
	"go.uber.org/zap"
)

// Auditable entities record who created and last modified them, and when.
type Auditable interface {
	SetCreatedBy(auditor string)
	SetCreatedAt(at time.Time)
	SetLastModifiedBy(auditor string)
	SetLastModifiedAt(at time.Time)
	IsNew() bool
}

// AuditorAware supplies the current auditor. ok is false when nobody is known.
type AuditorAware interface {
	CurrentAuditor(ctx context.Context) (auditor string, ok bool)
}

// AuditorFunc adapts a function to AuditorAware.
type AuditorFunc func(ctx context.Context) (string, bool)

func (f AuditorFunc) CurrentAuditor(ctx context.Context) (string, bool) {
	return f(ctx)
}

// DateTimeProvider is the clock used for audit dates.
type DateTimeProvider interface {
	Now() strfmt.DateTime
}

type systemClock struct{}

func (systemClock) Now() strfmt.DateTime {
	return strfmt.DateTime(time.Now().UTC())
}

// FixedDateTime always reports the same instant.
type FixedDateTime strfmt.DateTime

func (f FixedDateTime) Now() strfmt.DateTime {
	return strfmt.DateTime(f)
}

// Handler stamps audit data on entities before they are saved. Entities that do not
// implement Auditable through their pointer are left untouched.
type Handler[T any] struct {
	auditor          AuditorAware
	clock            DateTimeProvider
	modifyOnCreation bool
	logger           *zap.Logger
}

// Option configures a Handler.
type Option func(*options)

type options struct {
	clock            DateTimeProvider
	modifyOnCreation bool
	logger           *zap.Logger
}

// WithDateTimeProvider replaces the UTC system clock.
func WithDateTimeProvider(p DateTimeProvider) Option {
	return func(o *options) { o.clock = p }
}

// WithModifyOnCreation controls whether new entities also get last-modified data.
// It is on by default.
func WithModifyOnCreation(enabled bool) Option {
	return func(o *options) { o.modifyOnCreation = enabled }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// NewHandler creates an audit handler for T.
func NewHandler[T any](auditor AuditorAware, opts ...Option) (*Handler[T], error) {
	if auditor == nil {
		return nil, errors.NewIllegalArgumentError("auditor", "auditor aware must not be nil")
	}
	o := options{clock: systemClock{}, modifyOnCreation: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		return nil, errors.NewIllegalArgumentError("clock", "date time provider must not be nil")
	}
	return &Handler[T]{
		auditor:          auditor,
		clock:            o.clock,
		modifyOnCreation: o.modifyOnCreation,
		logger:           observability.OrNop(o.logger),
	}, nil
}

// BeforeSave marks entity as created when it is new, and as modified otherwise.
func (h *Handler[T]) BeforeSave(ctx context.Context, entity *T) error {
	a, ok := any(entity).(Auditable)
	if !ok || entity == nil {
		return nil
	}

	now := time.Time(h.clock.Now())
	auditor, known := h.auditor.CurrentAuditor(ctx)

	isNew := a.IsNew()
	if isNew {
		a.SetCreatedAt(now)
		if known {
			a.SetCreatedBy(auditor)
		}
	}
	if !isNew || h.modifyOnCreation {
		a.SetLastModifiedAt(now)
		if known {
			a.SetLastModifiedBy(auditor)
		}
	}

	h.logger.Debug("Audited entity",
		zap.Bool("new", isNew),
		zap.String("auditor", auditor),
		zap.String("at", strfmt.DateTime(now).String()))
	return nil
}
