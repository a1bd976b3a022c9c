package match

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare_ProviderSuccess(t *testing.T) {
	a, b := testProfiles()
	p := &stubProvider{
		completeFn: func(_ context.Context, _, userPrompt string) (string, error) {
			if strings.Contains(userPrompt, a.Description) {
				return "snacks, wholesale", nil
			}
			return "automation, packaging", nil
		},
	}
	e := NewEngine(p)

	summary, degraded := e.Compare(context.Background(), a, b)
	assert.False(t, degraded)
	assert.Contains(t, summary.SearchQuery, "snacks, wholesale")
	assert.Contains(t, summary.SearchQuery, "automation, packaging")
	assert.Contains(t, summary.IndustryAnalysis, a.Industry)
	assert.Contains(t, summary.DataAnalysis, b.Name)
	assert.NotEmpty(t, summary.CaseReference)
	assert.NotEmpty(t, summary.MatchingPatterns)
	assert.NotEmpty(t, summary.CandidateSelection)
}

func TestCompare_DegradedStillPopulated(t *testing.T) {
	a, b := testProfiles()
	e := NewEngine(failingProvider())

	summary, degraded := e.Compare(context.Background(), a, b)
	assert.True(t, degraded)
	assert.NotEmpty(t, summary.SearchQuery)
	assert.NotEmpty(t, summary.IndustryAnalysis)
	assert.NotEmpty(t, summary.MatchingPatterns)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 50))
	long := strings.Repeat("a", 60)
	got := truncate(long, 50)
	assert.Equal(t, strings.Repeat("a", 50)+"...", got)
}
