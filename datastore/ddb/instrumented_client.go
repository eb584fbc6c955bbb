/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/sony/gobreaker"
	"github.com/suparena/dynarepo/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/suparena/dynarepo/datastore/ddb"

// BreakerConfig holds configuration for the circuit breaker guarding the client.
type BreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// Trip once FailureThreshold of at least MinRequests requests failed.
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns a default configuration for the circuit breaker.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// NewCircuitBreaker creates a circuit breaker. Client faults such as a missing table
// count as successful requests.
func NewCircuitBreaker(config BreakerConfig, logger *zap.Logger) *gobreaker.CircuitBreaker {
	logger = observability.OrNop(logger)
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		IsSuccessful: func(err error) bool {
			return err == nil || isClientFault(err)
		},
	})
}

// InstrumentedClient decorates a Client with tracing, metrics and an optional circuit breaker.
type InstrumentedClient struct {
	next    Client
	tracer  trace.Tracer
	metrics *observability.Collector
	breaker *gobreaker.CircuitBreaker
}

var _ Client = (*InstrumentedClient)(nil)

// InstrumentOption configures an InstrumentedClient.
type InstrumentOption func(*InstrumentedClient)

// WithClientMetrics records every call on c.
func WithClientMetrics(c *observability.Collector) InstrumentOption {
	return func(ic *InstrumentedClient) {
		ic.metrics = c
	}
}

// WithBreaker routes every call through cb.
func WithBreaker(cb *gobreaker.CircuitBreaker) InstrumentOption {
	return func(ic *InstrumentedClient) {
		ic.breaker = cb
	}
}

// WithTracer replaces the global tracer.
func WithTracer(tracer trace.Tracer) InstrumentOption {
	return func(ic *InstrumentedClient) {
		ic.tracer = tracer
	}
}

// NewInstrumentedClient wraps next.
func NewInstrumentedClient(next Client, opts ...InstrumentOption) *InstrumentedClient {
	ic := &InstrumentedClient{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(ic)
	}
	return ic
}

func invoke[Out any](ctx context.Context, ic *InstrumentedClient, operation, table string, call func(context.Context) (*Out, error)) (*Out, error) {
	ctx, span := ic.tracer.Start(ctx, "dynamodb."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "dynamodb"),
			attribute.String("db.operation", operation),
			attribute.String("aws.dynamodb.table_names", table),
		))
	defer span.End()

	startTime := time.Now()
	var (
		out *Out
		err error
	)
	if ic.breaker != nil {
		var res interface{}
		res, err = ic.breaker.Execute(func() (interface{}, error) {
			return call(ctx)
		})
		if err == nil {
			out = res.(*Out)
		}
	} else {
		out, err = call(ctx)
	}

	if ic.metrics != nil {
		ic.metrics.ObserveDB(operation, table, err, time.Since(startTime))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return out, nil
}

func (ic *InstrumentedClient) GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error) {
	return invoke(ctx, ic, "GetItem", aws.ToString(params.TableName), func(ctx context.Context) (*sdk.GetItemOutput, error) {
		return ic.next.GetItem(ctx, params, optFns...)
	})
}

func (ic *InstrumentedClient) PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error) {
	return invoke(ctx, ic, "PutItem", aws.ToString(params.TableName), func(ctx context.Context) (*sdk.PutItemOutput, error) {
		return ic.next.PutItem(ctx, params, optFns...)
	})
}

func (ic *InstrumentedClient) DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error) {
	return invoke(ctx, ic, "DeleteItem", aws.ToString(params.TableName), func(ctx context.Context) (*sdk.DeleteItemOutput, error) {
		return ic.next.DeleteItem(ctx, params, optFns...)
	})
}

func (ic *InstrumentedClient) BatchWriteItem(ctx context.Context, params *sdk.BatchWriteItemInput, optFns ...func(*sdk.Options)) (*sdk.BatchWriteItemOutput, error) {
	var table string
	for name := range params.RequestItems {
		table = name
		break
	}
	return invoke(ctx, ic, "BatchWriteItem", table, func(ctx context.Context) (*sdk.BatchWriteItemOutput, error) {
		return ic.next.BatchWriteItem(ctx, params, optFns...)
	})
}

func (ic *InstrumentedClient) Query(ctx context.Context, params *sdk.QueryInput, optFns ...func(*sdk.Options)) (*sdk.QueryOutput, error) {
	return invoke(ctx, ic, "Query", aws.ToString(params.TableName), func(ctx context.Context) (*sdk.QueryOutput, error) {
		return ic.next.Query(ctx, params, optFns...)
	})
}

func (ic *InstrumentedClient) Scan(ctx context.Context, params *sdk.ScanInput, optFns ...func(*sdk.Options)) (*sdk.ScanOutput, error) {
	return invoke(ctx, ic, "Scan", aws.ToString(params.TableName), func(ctx context.Context) (*sdk.ScanOutput, error) {
		return ic.next.Scan(ctx, params, optFns...)
	})
}

func (ic *InstrumentedClient) CreateTable(ctx context.Context, params *sdk.CreateTableInput, optFns ...func(*sdk.Options)) (*sdk.CreateTableOutput, error) {
	return invoke(ctx, ic, "CreateTable", aws.ToString(params.TableName), func(ctx context.Context) (*sdk.CreateTableOutput, error) {
		return ic.next.CreateTable(ctx, params, optFns...)
	})
}

func (ic *InstrumentedClient) DeleteTable(ctx context.Context, params *sdk.DeleteTableInput, optFns ...func(*sdk.Options)) (*sdk.DeleteTableOutput, error) {
	return invoke(ctx, ic, "DeleteTable", aws.ToString(params.TableName), func(ctx context.Context) (*sdk.DeleteTableOutput, error) {
		return ic.next.DeleteTable(ctx, params, optFns...)
	})
}

func (ic *InstrumentedClient) DescribeTable(ctx context.Context, params *sdk.DescribeTableInput, optFns ...func(*sdk.Options)) (*sdk.DescribeTableOutput, error) {
	return invoke(ctx, ic, "DescribeTable", aws.ToString(params.TableName), func(ctx context.Context) (*sdk.DescribeTableOutput, error) {
		return ic.next.DescribeTable(ctx, params, optFns...)
	})
}
