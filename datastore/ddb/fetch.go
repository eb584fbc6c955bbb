/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/suparena/dynarepo/datastore"
	"github.com/suparena/dynarepo/storagemodels"
)

// cursor is the LastEvaluatedKey of a page.
type cursor = map[string]types.AttributeValue

// Query returns a lazy list over all pages of the query. Each iteration re-issues the
// query from the first page.
func (d *DynamodbDataStore[T]) Query(ctx context.Context, expr *storagemodels.QueryExpression) datastore.ResultList[T] {
	input := &sdk.QueryInput{
		TableName:                 &d.tableName,
		KeyConditionExpression:    aws.String(expr.KeyConditionExpression),
		FilterExpression:          expr.FilterExpression,
		ExpressionAttributeNames:  expr.ExpressionAttributeNames,
		ExpressionAttributeValues: expr.ExpressionAttributeValues,
		IndexName:                 expr.IndexName,
		ScanIndexForward:          expr.ScanIndexForward,
		ConsistentRead:            expr.ConsistentRead,
		Limit:                     aws.Int32(d.pageSize(expr.Limit)),
	}

	progress := newProgressTracker(d.options.ProgressHandler)
	return datastore.NewPaginatedList(func(ctx context.Context, start *cursor) ([]T, *cursor, error) {
		in := *input
		if start == nil {
			progress.reset()
		} else {
			in.ExclusiveStartKey = *start
		}

		out, err := withRetry(ctx, d.options, func(ctx context.Context) (*sdk.QueryOutput, error) {
			return d.client.Query(ctx, &in)
		})
		if err != nil {
			return nil, nil, fmt.Errorf("query failed: %w", err)
		}
		return d.page(out.Items, out.LastEvaluatedKey, progress)
	}, limitOf(expr.Limit))
}

// Scan returns a lazy list over all pages of the scan.
func (d *DynamodbDataStore[T]) Scan(ctx context.Context, expr *storagemodels.ScanExpression) datastore.ResultList[T] {
	input := &sdk.ScanInput{
		TableName:                 &d.tableName,
		FilterExpression:          expr.FilterExpression,
		ExpressionAttributeNames:  expr.ExpressionAttributeNames,
		ExpressionAttributeValues: expr.ExpressionAttributeValues,
		IndexName:                 expr.IndexName,
		ConsistentRead:            expr.ConsistentRead,
		Limit:                     aws.Int32(d.pageSize(expr.Limit)),
	}

	progress := newProgressTracker(d.options.ProgressHandler)
	return datastore.NewPaginatedList(func(ctx context.Context, start *cursor) ([]T, *cursor, error) {
		in := *input
		if start == nil {
			progress.reset()
		} else {
			in.ExclusiveStartKey = *start
		}

		out, err := withRetry(ctx, d.options, func(ctx context.Context) (*sdk.ScanOutput, error) {
			return d.client.Scan(ctx, &in)
		})
		if err != nil {
			return nil, nil, fmt.Errorf("scan failed: %w", err)
		}
		return d.page(out.Items, out.LastEvaluatedKey, progress)
	}, limitOf(expr.Limit))
}

func (d *DynamodbDataStore[T]) page(items []map[string]types.AttributeValue, lastKey cursor, progress *progressTracker) ([]T, *cursor, error) {
	entities, err := d.items.fromItems(items)
	if err != nil {
		return nil, nil, err
	}
	progress.page(len(entities))

	if len(lastKey) == 0 {
		return entities, nil, nil
	}
	return entities, &lastKey, nil
}

// CountQuery counts the items matching the query without transferring them.
func (d *DynamodbDataStore[T]) CountQuery(ctx context.Context, expr *storagemodels.QueryExpression) (int64, error) {
	paginator := sdk.NewQueryPaginator(d.client, &sdk.QueryInput{
		TableName:                 &d.tableName,
		KeyConditionExpression:    aws.String(expr.KeyConditionExpression),
		FilterExpression:          expr.FilterExpression,
		ExpressionAttributeNames:  expr.ExpressionAttributeNames,
		ExpressionAttributeValues: expr.ExpressionAttributeValues,
		IndexName:                 expr.IndexName,
		ConsistentRead:            expr.ConsistentRead,
		Select:                    types.SelectCount,
	})

	var total int64
	for paginator.HasMorePages() {
		out, err := withRetry(ctx, d.options, func(ctx context.Context) (*sdk.QueryOutput, error) {
			return paginator.NextPage(ctx)
		})
		if err != nil {
			return 0, fmt.Errorf("count query failed: %w", err)
		}
		total += int64(out.Count)
	}
	return capCount(total, expr.Limit), nil
}

// CountScan counts the items matching the scan without transferring them.
func (d *DynamodbDataStore[T]) CountScan(ctx context.Context, expr *storagemodels.ScanExpression) (int64, error) {
	paginator := sdk.NewScanPaginator(d.client, &sdk.ScanInput{
		TableName:                 &d.tableName,
		FilterExpression:          expr.FilterExpression,
		ExpressionAttributeNames:  expr.ExpressionAttributeNames,
		ExpressionAttributeValues: expr.ExpressionAttributeValues,
		IndexName:                 expr.IndexName,
		ConsistentRead:            expr.ConsistentRead,
		Select:                    types.SelectCount,
	})

	var total int64
	for paginator.HasMorePages() {
		out, err := withRetry(ctx, d.options, func(ctx context.Context) (*sdk.ScanOutput, error) {
			return paginator.NextPage(ctx)
		})
		if err != nil {
			return 0, fmt.Errorf("count scan failed: %w", err)
		}
		total += int64(out.Count)
	}
	return capCount(total, expr.Limit), nil
}

func (d *DynamodbDataStore[T]) pageSize(limit *int32) int32 {
	if limit != nil && *limit > 0 && *limit < d.options.PageSize {
		return *limit
	}
	return d.options.PageSize
}

func limitOf(limit *int32) int {
	if limit == nil {
		return 0
	}
	return int(*limit)
}

func capCount(total int64, limit *int32) int64 {
	if limit != nil && *limit > 0 && total > int64(*limit) {
		return int64(*limit)
	}
	return total
}

// withRetry executes a call with configurable retry logic
func withRetry[Out any](ctx context.Context, options storagemodels.FetchOptions, call func(context.Context) (Out, error)) (Out, error) {
	var (
		zero    Out
		lastErr error
	)

	for attempt := 0; attempt <= options.MaxRetries; attempt++ {
		// Check context before retry
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		out, err := call(ctx)
		if err == nil {
			return out, nil
		}

		lastErr = err

		if !isRetryableError(err) {
			return zero, err
		}

		// Don't sleep after last attempt
		if attempt < options.MaxRetries {
			backoff := time.Duration(attempt+1) * options.RetryBackoff
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return zero, fmt.Errorf("failed after %d retries: %w", options.MaxRetries, lastErr)
}

// progressTracker reports paging progress of one iteration.
type progressTracker struct {
	handler   func(storagemodels.FetchProgress)
	items     int64
	pages     int
	startTime time.Time
}

func newProgressTracker(handler func(storagemodels.FetchProgress)) *progressTracker {
	return &progressTracker{handler: handler, startTime: time.Now()}
}

func (p *progressTracker) reset() {
	p.items, p.pages, p.startTime = 0, 0, time.Now()
}

func (p *progressTracker) page(items int) {
	if p.handler == nil {
		return
	}
	p.items += int64(items)
	p.pages++

	progress := storagemodels.FetchProgress{
		ItemsProcessed: p.items,
		PagesProcessed: p.pages,
		StartTime:      p.startTime,
	}
	if elapsed := time.Since(p.startTime).Seconds(); elapsed > 0 {
		progress.CurrentRate = float64(progress.ItemsProcessed) / elapsed
	}
	p.handler(progress)
}
