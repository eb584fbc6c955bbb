/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"time"
)

// FetchOptions configures how stores page through query and scan results.
type FetchOptions struct {
	MaxRetries      int                 // Retry attempts for throttled pages (default: 3)
	RetryBackoff    time.Duration       // Backoff between retries, multiplied by the attempt (default: 1s)
	PageSize        int32               // Items per DynamoDB page (default: 100)
	ProgressHandler func(FetchProgress) // Optional progress callback, invoked after each page
}

// FetchProgress tracks paging progress of a single iteration.
type FetchProgress struct {
	ItemsProcessed int64     // Total items yielded so far
	PagesProcessed int       // Total pages fetched so far
	StartTime      time.Time // When the iteration started
	CurrentRate    float64   // Items per second
}

// FetchOption is a functional option for configuring fetching
type FetchOption func(*FetchOptions)

// DefaultFetchOptions returns default fetch options
func DefaultFetchOptions() FetchOptions {
	return FetchOptions{
		MaxRetries:   3,
		RetryBackoff: time.Second,
		PageSize:     100,
	}
}

// WithMaxRetries sets the maximum retry attempts
func WithMaxRetries(retries int) FetchOption {
	return func(opts *FetchOptions) {
		opts.MaxRetries = retries
	}
}

// WithRetryBackoff sets the retry backoff duration
func WithRetryBackoff(backoff time.Duration) FetchOption {
	return func(opts *FetchOptions) {
		opts.RetryBackoff = backoff
	}
}

// WithPageSize sets the DynamoDB page size
func WithPageSize(size int32) FetchOption {
	return func(opts *FetchOptions) {
		opts.PageSize = size
	}
}

// WithProgressHandler sets a progress callback
func WithProgressHandler(handler func(FetchProgress)) FetchOption {
	return func(opts *FetchOptions) {
		opts.ProgressHandler = handler
	}
}
