package engine

import (
	"context"
	"fmt"
)

// Watch polls Status every req.Interval and calls onChange with the first
// result and with every result whose classification differs from the
// previous one. Each check fetches afresh.
//
// Watch returns nil when ctx is canceled or after req.Count checks, and the
// error of onChange if it fails.
func (e *Engine) Watch(ctx context.Context, req *WatchRequest, onChange func(*StatusResult) error) error {
	if req.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrValidation)
	}
	if req.Count < 0 {
		return fmt.Errorf("%w: count must not be negative", ErrValidation)
	}

	var last *StatusResult
	for checks := 1; ; checks++ {
		result := e.Status(ctx, &req.StatusRequest)
		if ctx.Err() != nil {
			return nil
		}

		if last == nil || !last.Same(result.Classification) {
			if err := onChange(result); err != nil {
				return err
			}
		}
		last = result

		if req.Count > 0 && checks >= req.Count {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-e.clock.After(req.Interval):
		}
	}
}
