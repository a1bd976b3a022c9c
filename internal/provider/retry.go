package provider

import (
	"context"

	"github.com/sells-group/matching-cli/internal/resilience"
)

// retrying decorates a Client with transient-failure retries. Permanent
// errors pass through on the first attempt.
type retrying struct {
	inner Client
	cfg   resilience.RetryConfig
}

// WithRetry wraps client so Complete and Embed retry transient failures.
func WithRetry(client Client, cfg resilience.RetryConfig) Client {
	return &retrying{inner: client, cfg: cfg}
}

func (r *retrying) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return resilience.Do(ctx, r.cfg, "complete", func(ctx context.Context) (string, error) {
		return r.inner.Complete(ctx, systemPrompt, userPrompt)
	})
}

func (r *retrying) Embed(ctx context.Context, text string) ([]float64, error) {
	return resilience.Do(ctx, r.cfg, "embed", func(ctx context.Context) ([]float64, error) {
		return r.inner.Embed(ctx, text)
	})
}
