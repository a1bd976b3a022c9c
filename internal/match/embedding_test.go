package match

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1.0},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0.0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1.0},
		{"zero vector", []float64{0, 0, 0}, []float64{1, 2, 3}, 0.0},
		{"both zero", []float64{0, 0}, []float64{0, 0}, 0.0},
		{"length mismatch", []float64{1, 2}, []float64{1, 2, 3}, 0.0},
		{"empty", nil, nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func TestCosine_Symmetry(t *testing.T) {
	vecs := [][]float64{
		{0.5, -0.2, 0.9, 1.3},
		{1, 1, 1, 1},
		{-0.4, 0.0, 2.5, -1.1},
	}
	for _, a := range vecs {
		for _, b := range vecs {
			assert.InDelta(t, Cosine(a, b), Cosine(b, a), 1e-12)
		}
	}
	for _, a := range vecs {
		assert.InDelta(t, 1.0, Cosine(a, a), 1e-12)
	}
}

func TestEmbed_FallbackSeeded(t *testing.T) {
	e1 := NewEngine(failingProvider(), WithEmbeddingDims(16), WithFallbackSeed(7))
	e2 := NewEngine(failingProvider(), WithEmbeddingDims(16), WithFallbackSeed(7))

	v1, degraded := e1.embed(context.Background(), "some text")
	require.True(t, degraded)
	v2, degraded := e2.embed(context.Background(), "some text")
	require.True(t, degraded)

	// Same seed, same draw order: reproducible degraded output.
	assert.Equal(t, v1, v2)
	assert.Len(t, v1, 16)

	// Values drawn uniformly from [0, 1).
	for _, x := range v1 {
		assert.GreaterOrEqual(t, x, 0.0)
		assert.Less(t, x, 1.0)
	}
}

func TestEmbed_ProviderSuccessNotDegraded(t *testing.T) {
	p := &stubProvider{
		embedFn: func(_ context.Context, _ string) ([]float64, error) {
			return []float64{1, 2, 3}, nil
		},
	}
	e := NewEngine(p)
	vec, degraded := e.embed(context.Background(), "text")
	assert.False(t, degraded)
	assert.Equal(t, []float64{1, 2, 3}, vec)
}
