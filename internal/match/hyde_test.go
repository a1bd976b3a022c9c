package match

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateHyde_ProviderSuccess(t *testing.T) {
	a, b := testProfiles()
	p := &stubProvider{
		completeFn: func(_ context.Context, systemPrompt, userPrompt string) (string, error) {
			assert.Contains(t, userPrompt, a.Name)
			assert.Contains(t, userPrompt, b.Name)
			assert.Contains(t, userPrompt, "Success probability")
			return "Generated collaboration report.", nil
		},
	}
	e := NewEngine(p)

	doc, degraded := e.GenerateHyde(context.Background(), a, b)
	assert.False(t, degraded)
	assert.Equal(t, "Generated collaboration report.", doc)
}

func TestGenerateHyde_FallbackTemplate(t *testing.T) {
	a, b := testProfiles()
	e := NewEngine(failingProvider())

	doc, degraded := e.GenerateHyde(context.Background(), a, b)
	require.True(t, degraded)
	require.NotEmpty(t, doc)

	// All five mandated section labels must be present.
	for _, section := range hydeSections {
		assert.Contains(t, doc, section)
	}

	// Populated with the profiles' field values and the fixed probability.
	assert.Contains(t, doc, a.Name)
	assert.Contains(t, doc, b.Name)
	assert.Contains(t, doc, a.Industry)
	assert.Contains(t, doc, b.Description)
	assert.Contains(t, doc, fallbackSuccessProbability)
}

func TestGenerateHyde_FallbackDeterministic(t *testing.T) {
	a, b := testProfiles()
	e := NewEngine(failingProvider())

	doc1, _ := e.GenerateHyde(context.Background(), a, b)
	doc2, _ := e.GenerateHyde(context.Background(), a, b)
	assert.Equal(t, doc1, doc2)
}
