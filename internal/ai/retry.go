package ai

import (
	"context"
	"log"
	"time"
)

type retryProvider struct {
	next     LLMProvider
	attempts int
	backoff  time.Duration
}

// WithRetry re-invokes next up to attempts times, doubling the wait after each
// failure. The last error is returned unchanged. attempts <= 1 returns next.
func WithRetry(next LLMProvider, attempts int, backoff time.Duration) LLMProvider {
	if attempts <= 1 {
		return next
	}
	return &retryProvider{next: next, attempts: attempts, backoff: backoff}
}

func (r *retryProvider) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	wait := r.backoff
	for i := 1; i <= r.attempts; i++ {
		out, err := r.next.Generate(ctx, prompt)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if i == r.attempts || ctx.Err() != nil {
			break
		}
		log.Printf("ai: attempt %d/%d failed: %v", i, r.attempts, err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", lastErr
		case <-timer.C:
		}
		wait *= 2
	}
	return "", lastErr
}
