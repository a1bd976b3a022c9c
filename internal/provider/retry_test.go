package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/matching-cli/internal/resilience"
)

type flakyClient struct {
	failures  int
	completes int
	embeds    int
}

func (c *flakyClient) Complete(context.Context, string, string) (string, error) {
	c.completes++
	if c.completes <= c.failures {
		return "", resilience.NewTransientError(errors.New("overloaded"), 503)
	}
	return "done", nil
}

func (c *flakyClient) Embed(context.Context, string) ([]float64, error) {
	c.embeds++
	if c.embeds <= c.failures {
		return nil, resilience.NewTransientError(errors.New("overloaded"), 503)
	}
	return []float64{1, 2, 3}, nil
}

func retryConfig() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}
}

func TestWithRetry_RecoversTransientFailures(t *testing.T) {
	inner := &flakyClient{failures: 2}
	client := WithRetry(inner, retryConfig())

	got, err := client.Complete(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "done", got)
	assert.Equal(t, 3, inner.completes)

	vec, err := client.Embed(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, vec)
}

func TestWithRetry_PermanentErrorNotRetried(t *testing.T) {
	calls := 0
	client := WithRetry(clientFunc(func() error {
		calls++
		return errors.New("invalid api key")
	}), retryConfig())

	_, err := client.Complete(context.Background(), "sys", "user")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

// clientFunc adapts a plain error source into a Client for failure tests.
type clientFunc func() error

func (f clientFunc) Complete(context.Context, string, string) (string, error) {
	return "", f()
}

func (f clientFunc) Embed(context.Context, string) ([]float64, error) {
	return nil, f()
}
