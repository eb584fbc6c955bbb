/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"slices"
	"time"

	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/suparena/dynarepo/storagemodels"
	"go.uber.org/zap"
)

// MaxBatchSize is the maximum number of write requests DynamoDB accepts per BatchWriteItem.
const MaxBatchSize = 25

// BatchSave puts all entities in chunks of MaxBatchSize. Chunks that still hold
// unprocessed items after the configured retries are reported as failed batches.
func (d *DynamodbDataStore[T]) BatchSave(ctx context.Context, entities []T) ([]storagemodels.FailedBatch, error) {
	requests := make([]types.WriteRequest, 0, len(entities))
	for _, e := range entities {
		item, err := d.items.toItem(e)
		if err != nil {
			return nil, err
		}
		requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
	}
	return d.batchWrite(ctx, "BatchSave", requests)
}

// BatchDelete deletes all entities by key in chunks of MaxBatchSize.
func (d *DynamodbDataStore[T]) BatchDelete(ctx context.Context, entities []T) ([]storagemodels.FailedBatch, error) {
	requests := make([]types.WriteRequest, 0, len(entities))
	for _, e := range entities {
		key, err := d.items.keyAttributes(d.md.KeyOf(e))
		if err != nil {
			return nil, fmt.Errorf("failed to build key for BatchDelete: %w", err)
		}
		requests = append(requests, types.WriteRequest{DeleteRequest: &types.DeleteRequest{Key: key}})
	}
	return d.batchWrite(ctx, "BatchDelete", requests)
}

func (d *DynamodbDataStore[T]) batchWrite(ctx context.Context, op string, requests []types.WriteRequest) ([]storagemodels.FailedBatch, error) {
	var failed []storagemodels.FailedBatch

	for chunk := range slices.Chunk(requests, MaxBatchSize) {
		if err := ctx.Err(); err != nil {
			return failed, err
		}
		if fb := d.writeChunk(ctx, chunk); fb != nil {
			failed = append(failed, *fb)
		}
	}

	if len(failed) > 0 {
		d.logger.Warn("BatchWriteItem had unprocessed items",
			zap.String("operation", op),
			zap.String("table", d.tableName),
			zap.Int("failedBatches", len(failed)))
		if d.metrics != nil {
			d.metrics.RecordBatchFailures(d.tableName, len(failed))
		}
	}
	d.logger.Debug("Batch write completed",
		zap.String("operation", op),
		zap.String("table", d.tableName),
		zap.Int("count", len(requests)),
		zap.Int("failedBatches", len(failed)))
	return failed, nil
}

// writeChunk writes one chunk, resubmitting unprocessed items with backoff.
func (d *DynamodbDataStore[T]) writeChunk(ctx context.Context, chunk []types.WriteRequest) *storagemodels.FailedBatch {
	pending := chunk
	for attempt := 0; ; attempt++ {
		out, err := d.client.BatchWriteItem(ctx, &sdk.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{d.tableName: pending},
		})
		if err != nil {
			return &storagemodels.FailedBatch{
				Table:       d.tableName,
				Unprocessed: len(pending),
				Err:         fmt.Errorf("BatchWriteItem failed: %w", err),
			}
		}

		pending = out.UnprocessedItems[d.tableName]
		if len(pending) == 0 {
			return nil
		}
		if attempt >= d.options.MaxRetries {
			return &storagemodels.FailedBatch{
				Table:       d.tableName,
				Unprocessed: len(pending),
				Err:         fmt.Errorf("%d items left unprocessed after %d retries", len(pending), attempt),
			}
		}

		select {
		case <-ctx.Done():
			return &storagemodels.FailedBatch{Table: d.tableName, Unprocessed: len(pending), Err: ctx.Err()}
		case <-time.After(time.Duration(attempt+1) * d.options.RetryBackoff):
		}
	}
}
