package cli

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/fckoffmw/replay-service/internal/gateway"
)

const maxReadRetries = 2

// retryRead repeats an idempotent read while it fails on the network level.
// The gateway itself never retries; this is caller policy, and mutations are
// excluded so a timed-out write is never replayed blindly.
func retryRead(ctx context.Context, op func() error) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(newExponentialBackOff(), maxReadRetries),
		ctx,
	)

	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}

		var networkErr *gateway.NetworkError
		if errors.As(err, &networkErr) {
			return err
		}
		return backoff.Permanent(err)
	}, policy)
}

func newExponentialBackOff() *backoff.ExponentialBackOff {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxInterval = 2 * time.Second
	return policy
}
