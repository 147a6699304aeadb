package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Retrying wraps a Client and retries failed queries with exponential backoff
type Retrying struct {
	client     Client
	maxRetries int
	delay      time.Duration
	logger     zerolog.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

// WithRetry makes up to maxRetries attempts, waiting delay x 2^attempt between
// them. The error of the final attempt is returned.
func WithRetry(client Client, maxRetries int, delay time.Duration, logger zerolog.Logger) *Retrying {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Retrying{
		client:     client,
		maxRetries: maxRetries,
		delay:      delay,
		logger:     logger,
		sleep:      sleepContext,
	}
}

// Query implements Client
func (r *Retrying) Query(ctx context.Context, prompt Prompt) (string, error) {
	var lastErr error
	for attempt := 0; attempt < r.maxRetries; attempt++ {
		text, err := r.client.Query(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err

		r.logger.Warn().Err(err).
			Int("attempt", attempt+1).
			Int("maxRetries", r.maxRetries).
			Msg("Model query failed")

		if attempt < r.maxRetries-1 {
			if err := r.sleep(ctx, r.delay*time.Duration(1<<attempt)); err != nil {
				return "", fmt.Errorf("model query cancelled: %w", err)
			}
		}
	}

	r.logger.Error().Err(lastErr).Msg("All model query attempts failed")
	return "", lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
