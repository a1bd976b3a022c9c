package match

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandQuery_ProviderSuccess(t *testing.T) {
	p := &stubProvider{
		completeFn: func(_ context.Context, systemPrompt, userPrompt string) (string, error) {
			assert.Contains(t, userPrompt, "Food")
			assert.Contains(t, userPrompt, "snack production")
			return "  snacks, wholesale, retail  ", nil
		},
	}
	e := NewEngine(p)

	keywords, degraded := e.ExpandQuery(context.Background(), "Food", "snack production")
	assert.False(t, degraded)
	assert.Equal(t, "snacks, wholesale, retail", keywords)
}

func TestExpandQuery_FallbackRuleTable(t *testing.T) {
	tests := []struct {
		name        string
		industry    string
		description string
		wantContain string
	}{
		{"food trigger in industry", "Food", "we make things", "food production"},
		{"software trigger in description", "Services", "custom software development shop", "software development"},
		{"manufacturing trigger", "Industrial Manufacturing", "metal parts", "manufacturing"},
		{"healthcare trigger", "Healthcare", "clinics", "healthcare"},
		{"tourism trigger", "Travel", "guided tours", "tourism"},
		{"no trigger falls back to generic", "Finance", "asset management", "business matching"},
	}

	e := NewEngine(failingProvider())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keywords, degraded := e.ExpandQuery(context.Background(), tt.industry, tt.description)
			assert.True(t, degraded)
			assert.NotEmpty(t, keywords)
			assert.Contains(t, keywords, tt.wantContain)
		})
	}
}

func TestExpandQuery_EmptyCompletionDegrades(t *testing.T) {
	p := &stubProvider{
		completeFn: func(_ context.Context, _, _ string) (string, error) {
			return "   ", nil
		},
	}
	e := NewEngine(p)
	keywords, degraded := e.ExpandQuery(context.Background(), "Food", "snacks")
	assert.True(t, degraded)
	assert.NotEmpty(t, keywords)
}
