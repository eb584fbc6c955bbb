/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/suparena/dynarepo/datastore"
	"github.com/suparena/dynarepo/mapping"
	"github.com/suparena/dynarepo/observability"
	"github.com/suparena/dynarepo/storagemodels"
	"go.uber.org/zap"
)

// DynamodbDataStore implements datastore.DataStore[T] by using AWS DynamoDB as the underlying data store.
type DynamodbDataStore[T any] struct {
	client    Client
	md        *mapping.EntityMetadata[T]
	tableName string
	items     itemMapper[T]
	options   storagemodels.FetchOptions
	metrics   *observability.Collector
	logger    *zap.Logger
}

var _ datastore.DataStore[struct{}] = (*DynamodbDataStore[struct{}])(nil)

type storeSettings struct {
	tableName    string
	tablePrefix  string
	fetchOptions []storagemodels.FetchOption
	metrics      *observability.Collector
	logger       *zap.Logger
}

// StoreOption configures a DynamodbDataStore.
type StoreOption func(*storeSettings)

// WithTableName overrides the table name declared by the entity metadata.
func WithTableName(name string) StoreOption {
	return func(s *storeSettings) {
		s.tableName = name
	}
}

// WithTablePrefix prefixes the table name, e.g. per environment.
func WithTablePrefix(prefix string) StoreOption {
	return func(s *storeSettings) {
		s.tablePrefix = prefix
	}
}

// WithFetchOptions configures paging of queries and scans.
func WithFetchOptions(opts ...storagemodels.FetchOption) StoreOption {
	return func(s *storeSettings) {
		s.fetchOptions = append(s.fetchOptions, opts...)
	}
}

// WithMetrics records unprocessed batch chunks on c.
func WithMetrics(c *observability.Collector) StoreOption {
	return func(s *storeSettings) {
		s.metrics = c
	}
}

// WithLogger sets the logger. Writes are logged at debug level.
func WithLogger(logger *zap.Logger) StoreOption {
	return func(s *storeSettings) {
		s.logger = logger
	}
}

// ResolveTableName applies an override and prefix to a declared table name.
func ResolveTableName(declared, override, prefix string) string {
	name := declared
	if override != "" {
		name = override
	}
	return prefix + name
}

// NewDynamodbDataStore constructs a new DynamodbDataStore for the entity described by md.
func NewDynamodbDataStore[T any](client Client, md *mapping.EntityMetadata[T], opts ...StoreOption) *DynamodbDataStore[T] {
	var settings storeSettings
	for _, opt := range opts {
		opt(&settings)
	}

	options := storagemodels.DefaultFetchOptions()
	for _, opt := range settings.fetchOptions {
		opt(&options)
	}

	tableName := ResolveTableName(md.TableName(), settings.tableName, settings.tablePrefix)
	if tableName != md.TableName() {
		md = md.WithTableName(tableName)
	}

	return &DynamodbDataStore[T]{
		client:    client,
		md:        md,
		tableName: tableName,
		items:     itemMapper[T]{md: md},
		options:   options,
		metrics:   settings.metrics,
		logger:    observability.OrNop(settings.logger),
	}
}

func (d *DynamodbDataStore[T]) TableName() string {
	return d.tableName
}

// Metadata returns the entity metadata bound to the resolved table name.
func (d *DynamodbDataStore[T]) Metadata() *mapping.EntityMetadata[T] {
	return d.md
}

// Load retrieves a single item by its primary key.
// It returns nil and no error if no item is found.
func (d *DynamodbDataStore[T]) Load(ctx context.Context, key storagemodels.Key) (*T, error) {
	keyMap, err := d.items.keyAttributes(key)
	if err != nil {
		return nil, fmt.Errorf("failed to build key: %w", err)
	}

	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: &d.tableName,
		Key:       keyMap,
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	result, err := d.items.fromItem(out.Item)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Save stores the given entity, replacing any item with the same key.
func (d *DynamodbDataStore[T]) Save(ctx context.Context, entity T) error {
	av, err := d.items.toItem(entity)
	if err != nil {
		return err
	}

	_, err = d.client.PutItem(ctx, &sdk.PutItemInput{
		TableName: &d.tableName,
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("PutItem failed: %w", err)
	}

	d.logger.Debug("Saved entity",
		zap.String("table", d.tableName),
		zap.String("key", d.md.KeyOf(entity).String()))
	return nil
}

// Delete removes the item with the key of entity.
func (d *DynamodbDataStore[T]) Delete(ctx context.Context, entity T) error {
	keyMap, err := d.items.keyAttributes(d.md.KeyOf(entity))
	if err != nil {
		return fmt.Errorf("failed to build key for Delete: %w", err)
	}

	_, err = d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName: &d.tableName,
		Key:       keyMap,
	})
	if err != nil {
		return fmt.Errorf("failed to delete item in DynamoDB: %w", err)
	}

	d.logger.Debug("Deleted entity",
		zap.String("table", d.tableName),
		zap.String("key", d.md.KeyOf(entity).String()))
	return nil
}
