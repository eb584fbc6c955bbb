/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import "context"

// BeforeSaveListener is called with every entity before it is written. Returning an
// error aborts the save.
type BeforeSaveListener[T any] interface {
	BeforeSave(ctx context.Context, entity *T) error
}

// BeforeSaveFunc adapts a function to BeforeSaveListener.
type BeforeSaveFunc[T any] func(ctx context.Context, entity *T) error

func (f BeforeSaveFunc[T]) BeforeSave(ctx context.Context, entity *T) error {
	return f(ctx, entity)
}
