// Package match implements the matching-score pipeline: query expansion,
// hypothetical document generation, embedding similarity, score blending,
// and report assembly.
package match

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/sells-group/matching-cli/internal/model"
	"github.com/sells-group/matching-cli/internal/provider"
)

// Weights blends the three pairwise similarities into the final score.
// Direct company-to-company alignment is weighted heaviest.
type Weights struct {
	AHyde  float64
	BHyde  float64
	Direct float64
}

// DefaultWeights returns the standard 0.3 / 0.3 / 0.4 blend.
func DefaultWeights() Weights {
	return Weights{AHyde: 0.3, BHyde: 0.3, Direct: 0.4}
}

// Engine runs the matching pipeline over an injected provider. Every
// provider-backed step degrades to local content on failure instead of
// propagating an error; the degradation is reported to the caller.
type Engine struct {
	provider      provider.Client
	weights       Weights
	fallbackScore int
	dims          int
	maxConcurrent int
	timeout       time.Duration
	precedentTopK int

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures the engine.
type Option func(*Engine)

// WithWeights overrides the blend weights.
func WithWeights(w Weights) Option {
	return func(e *Engine) { e.weights = w }
}

// WithFallbackScore overrides the score returned when the blend itself
// cannot be computed.
func WithFallbackScore(score int) Option {
	return func(e *Engine) { e.fallbackScore = score }
}

// WithEmbeddingDims sets the length of fallback embedding vectors. It should
// match the provider's embedding dimensionality.
func WithEmbeddingDims(dims int) Option {
	return func(e *Engine) {
		if dims > 0 {
			e.dims = dims
		}
	}
}

// WithFallbackSeed seeds the pseudo-random source used for fallback
// embeddings, making degraded output reproducible.
func WithFallbackSeed(seed int64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewSource(seed)) }
}

// WithMaxConcurrentCalls bounds parallel leaf provider calls.
func WithMaxConcurrentCalls(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxConcurrent = n
		}
	}
}

// WithCallTimeout sets a per-provider-call timeout. Zero disables it.
func WithCallTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithPrecedentTopK sets how many past cases are attached to a report.
func WithPrecedentTopK(k int) Option {
	return func(e *Engine) {
		if k > 0 {
			e.precedentTopK = k
		}
	}
}

// NewEngine creates a matching engine over the given provider.
func NewEngine(p provider.Client, opts ...Option) *Engine {
	e := &Engine{
		provider:      p,
		weights:       DefaultWeights(),
		fallbackScore: 85,
		dims:          1536,
		maxConcurrent: 3,
		timeout:       60 * time.Second,
		precedentTopK: 2,
		rng:           rand.New(rand.NewSource(1)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// callCtx derives a per-call context honoring the engine timeout.
func (e *Engine) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.timeout)
}

// expandedText builds the embedding input for one company: raw fields plus
// expansion keywords.
func expandedText(p model.CompanyProfile, keywords string) string {
	return p.Name + " " + p.Industry + " " + p.Description + " " + keywords
}
