package precedent

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "precedents.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSeed_Idempotent(t *testing.T) {
	s := newTestStore(t)

	inserted, err := s.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, inserted)

	// Second seed inserts nothing.
	inserted, err = s.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
}

func TestIndex_EmbedsOnlyMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Seed(context.Background())
	require.NoError(t, err)

	calls := 0
	embed := func(_ context.Context, text string) ([]float64, error) {
		calls++
		return []float64{float64(len(text)), 1}, nil
	}

	indexed, err := s.Index(context.Background(), embed)
	require.NoError(t, err)
	assert.Equal(t, 8, indexed)
	assert.Equal(t, 8, calls)

	// Already indexed: no further embedding calls.
	indexed, err = s.Index(context.Background(), embed)
	require.NoError(t, err)
	assert.Equal(t, 0, indexed)
	assert.Equal(t, 8, calls)

	cases, err := s.Indexed(context.Background())
	require.NoError(t, err)
	assert.Len(t, cases, 8)
	for _, c := range cases {
		assert.Len(t, c.Embedding, 2)
		assert.NotEmpty(t, c.Case.Title)
		assert.NotEmpty(t, c.Case.ROI)
	}
}

func TestIndex_EmbedFailureStops(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Seed(context.Background())
	require.NoError(t, err)

	embed := func(_ context.Context, _ string) ([]float64, error) {
		return nil, errors.New("provider down")
	}
	indexed, err := s.Index(context.Background(), embed)
	require.Error(t, err)
	assert.Equal(t, 0, indexed)
}

func TestFindSimilar_RanksByCosine(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Seed(context.Background())
	require.NoError(t, err)

	// Give the first corpus case (cross-industry alliance) a distinctive
	// direction; everything else points elsewhere.
	embed := func(_ context.Context, text string) ([]float64, error) {
		if text == fallbackCases[0].Description {
			return []float64{1, 0, 0}, nil
		}
		return []float64{0, 1, float64(len(text)) / 1000}, nil
	}
	_, err = s.Index(context.Background(), embed)
	require.NoError(t, err)

	finder := NewFinder(s)
	cases, degraded := finder.FindSimilar(context.Background(), []float64{1, 0, 0}, 2)
	assert.False(t, degraded)
	require.Len(t, cases, 2)
	assert.Equal(t, fallbackCases[0].Title, cases[0].Title)
}

func TestFindSimilar_FallbackWhenUnindexed(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Seed(context.Background())
	require.NoError(t, err)

	finder := NewFinder(s)
	cases, degraded := finder.FindSimilar(context.Background(), []float64{1, 0}, 2)
	assert.True(t, degraded)
	assert.Equal(t, FallbackCases(), cases)
}

func TestFindSimilar_FallbackOnNilStoreOrEmptyQuery(t *testing.T) {
	finder := NewFinder(nil)
	cases, degraded := finder.FindSimilar(context.Background(), []float64{1}, 2)
	assert.True(t, degraded)
	assert.Len(t, cases, 2)

	s := newTestStore(t)
	finder = NewFinder(s)
	cases, degraded = finder.FindSimilar(context.Background(), nil, 2)
	assert.True(t, degraded)
	assert.Len(t, cases, 2)
}

func TestFindSimilar_KSmallerThanFallback(t *testing.T) {
	finder := NewFinder(nil)
	cases, degraded := finder.FindSimilar(context.Background(), []float64{1}, 1)
	assert.True(t, degraded)
	assert.Len(t, cases, 1)
}
