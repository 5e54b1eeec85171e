package xero

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/iho/ledgersync/internal/domain"
	"github.com/iho/ledgersync/internal/infrastructure/metrics"
)

// Retrier implements usecase.Retrier with exponential backoff for retryable
// target API errors (rate limits, transient network and server failures).
type Retrier struct {
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
	metrics         *metrics.Metrics
	log             zerolog.Logger
}

// NewRetrier creates a retrier with defaults sized for the Xero rate limit
// (60 calls/minute).
func NewRetrier(m *metrics.Metrics, log zerolog.Logger) *Retrier {
	return &Retrier{
		maxRetries:      5,
		initialInterval: 2 * time.Second,
		maxInterval:     30 * time.Second,
		maxElapsedTime:  2 * time.Minute,
		metrics:         m,
		log:             log.With().Str("component", "retrier").Logger(),
	}
}

// WithIntervals overrides the backoff timings. Used by tests.
func (r *Retrier) WithIntervals(initial, max, elapsed time.Duration) *Retrier {
	r.initialInterval = initial
	r.maxInterval = max
	r.maxElapsedTime = elapsed
	return r
}

// Retry executes an operation with exponential backoff on retryable errors.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.MaxElapsedTime = r.maxElapsedTime

	retryCount := 0

	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}

		if !domain.IsRetryable(err) {
			return backoff.Permanent(err)
		}

		retryCount++
		if retryCount > r.maxRetries {
			return backoff.Permanent(err)
		}

		if r.metrics != nil {
			r.metrics.APIRetries.Inc()
		}
		r.log.Warn().
			Err(err).
			Int("retry", retryCount).
			Msg("retryable target api error, retrying")

		return err
	}, backoff.WithContext(b, ctx))
}
