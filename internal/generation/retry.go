package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/phrazzld/spelldeck-api/internal/redact"
)

// RetryPolicy controls how transient backend failures are retried.
type RetryPolicy struct {
	// MaxRetries is the number of additional attempts after the first one
	MaxRetries int
	// BaseDelay is the delay before the first retry; later retries double it
	BaseDelay time.Duration
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransientFailure)
}

// WithRetry calls fn until it succeeds, returns a permanent error, exhausts
// the policy, or ctx is done. Only errors wrapping ErrTransientFailure are
// retried. The delay between attempts is BaseDelay * 2^attempt scaled by a
// random jitter factor in [0.5, 1.0).
func WithRetry(ctx context.Context, logger *slog.Logger, policy RetryPolicy, fn func(ctx context.Context) error) error {
	maxRetries := policy.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		logger.WarnContext(ctx, "language model call failed",
			"attempt", attempt+1,
			"max_attempts", maxRetries+1,
			"error", redact.Error(err))

		if !IsTransient(err) {
			return err
		}
		if attempt >= maxRetries {
			return fmt.Errorf("%w (after %d attempts)", err, attempt+1)
		}

		backoff := float64(policy.BaseDelay) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + rng.Float64()*0.5))

		logger.DebugContext(ctx, "retrying after delay",
			"attempt", attempt+1,
			"delay", delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrTransientFailure, ctx.Err())
		}
	}
}
