package match

import (
	"context"
	"math"

	"go.uber.org/zap"
)

// Cosine computes the cosine similarity between two vectors. It returns 0
// when the vectors differ in length or either has zero norm, since an
// all-zero embedding is a plausible degraded input.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// embed converts text into a vector via the provider. On failure it returns
// a vector drawn from the engine's seeded pseudo-random source, which keeps
// the pipeline numerically well-defined at the cost of a meaningless
// similarity; degraded reports that.
func (e *Engine) embed(ctx context.Context, text string) (vec []float64, degraded bool) {
	callCtx, cancel := e.callCtx(ctx)
	defer cancel()

	vec, err := e.provider.Embed(callCtx, text)
	if err == nil && len(vec) > 0 {
		return vec, false
	}

	zap.L().Warn("match: embedding degraded to random vector",
		zap.Int("text_len", len(text)),
		zap.Error(err),
	)
	return e.fallbackVector(), true
}

// fallbackVector draws a uniform random vector from the seeded source.
func (e *Engine) fallbackVector() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	vec := make([]float64, e.dims)
	for i := range vec {
		vec[i] = e.rng.Float64()
	}
	return vec
}
