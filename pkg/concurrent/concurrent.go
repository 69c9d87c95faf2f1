package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Concurrent runs action for each element in a separate goroutine and waits
// for all of them. It returns the first error encountered; the context passed
// to action is cancelled as soon as any action fails.
func Concurrent[T any](ctx context.Context, items []T, action func(context.Context, T) error) error {
	errGroup, groupCtx := errgroup.WithContext(ctx)

	for _, value := range items {
		errGroup.Go(func() error {
			return action(groupCtx, value)
		})
	}

	return errGroup.Wait()
}

// Throttle is Concurrent with at most limit goroutines running at once.
// A non-positive limit means no limit.
func Throttle[T any](ctx context.Context, items []T, limit int, action func(context.Context, T) error) error {
	errGroup, groupCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		errGroup.SetLimit(limit)
	}

	for _, value := range items {
		if groupCtx.Err() != nil {
			break
		}
		errGroup.Go(func() error {
			return action(groupCtx, value)
		})
	}

	return errGroup.Wait()
}
