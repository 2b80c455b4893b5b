package util

import (
	"context"
	"errors"
	"time"
)

// RetryOptions controls RetryWithContext. Delay is the pause after the
// first failed attempt and doubles after every further failure, capped at
// MaxDelay when it is set.
type RetryOptions struct {
	MaxTries int
	Delay    time.Duration
	MaxDelay time.Duration
}

func (o RetryOptions) tries() int {
	if o.MaxTries <= 0 {
		return 1
	}
	return o.MaxTries
}

func (o RetryOptions) delay(attempt int) time.Duration {
	d := o.Delay
	for i := 0; i < attempt && d > 0; i++ {
		d *= 2
		if o.MaxDelay > 0 && d >= o.MaxDelay {
			return o.MaxDelay
		}
	}
	return d
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// RetryWithContext calls fn until it returns a nil error, opts.MaxTries is
// reached, or ctx is done. If MaxTries <= 0, fn is called once.
// Returns ctx.Err() if the context is canceled, otherwise the last error.
func RetryWithContext[T any](ctx context.Context, opts RetryOptions, fn func(context.Context) (T, error)) (T, error) {
	var lastErr error
	var zero T
	for i := 0; i < opts.tries(); i++ {
		if i > 0 {
			if err := sleep(ctx, opts.delay(i-1)); err != nil {
				return zero, err
			}
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if isContextErr(err) {
			return zero, err
		}
		lastErr = err
	}
	return zero, lastErr
}

// RetryErrWithContext is RetryWithContext for functions without a result.
func RetryErrWithContext(ctx context.Context, opts RetryOptions, fn func(context.Context) error) error {
	_, err := RetryWithContext(ctx, opts, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
