package precedent

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/matching-cli/internal/match"
	"github.com/sells-group/matching-cli/internal/model"
)

// fallbackCases is the static illustrative pair served when the corpus is
// empty, unindexed, or unreachable.
var fallbackCases = []model.PrecedentCase{
	{
		Title:       "Strategic cross-industry alliance for new product development",
		Date:        "2024-02-15",
		Description: "A food manufacturer and a cosmetics company jointly developed a cosmetics line using food-derived natural ingredients. Combining both companies' strengths won new customer segments and expanded market share.",
		ROI:         "150%",
	},
	{
		Title:       "Regional business partnership for tourism promotion",
		Date:        "2023-11-08",
		Description: "Local food producers and tourism facilities teamed up to build experience-based tourism programs. Pairing regional specialty products with tourism assets lifted both visitor numbers and sales.",
		ROI:         "130%",
	},
}

// FallbackCases returns a copy of the static illustrative pair.
func FallbackCases() []model.PrecedentCase {
	out := make([]model.PrecedentCase, len(fallbackCases))
	copy(out, fallbackCases)
	return out
}

// Finder retrieves the corpus cases nearest to a query embedding. It
// implements the report assembler's precedent lookup and never fails: any
// problem degrades to the static pair.
type Finder struct {
	store *Store
}

// NewFinder creates a Finder over the given store. A nil store always serves
// the static fallback.
func NewFinder(store *Store) *Finder {
	return &Finder{store: store}
}

// FindSimilar returns up to k cases ranked by cosine similarity to queryVec.
// The second return reports degradation to the static fallback.
func (f *Finder) FindSimilar(ctx context.Context, queryVec []float64, k int) ([]model.PrecedentCase, bool) {
	if k <= 0 {
		k = 2
	}
	if f.store == nil || len(queryVec) == 0 {
		return fallbackTopK(k), true
	}

	indexed, err := f.store.Indexed(ctx)
	if err != nil || len(indexed) == 0 {
		zap.L().Warn("precedent: search degraded to static cases",
			zap.Int("indexed", len(indexed)),
			zap.Error(err),
		)
		return fallbackTopK(k), true
	}

	type scored struct {
		c   model.PrecedentCase
		sim float64
	}
	ranked := make([]scored, 0, len(indexed))
	for _, ic := range indexed {
		ranked = append(ranked, scored{c: ic.Case, sim: match.Cosine(queryVec, ic.Embedding)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].sim > ranked[j].sim })

	if k > len(ranked) {
		k = len(ranked)
	}
	out := make([]model.PrecedentCase, 0, k)
	for _, r := range ranked[:k] {
		out = append(out, r.c)
	}
	return out, false
}

func fallbackTopK(k int) []model.PrecedentCase {
	cases := FallbackCases()
	if k < len(cases) {
		return cases[:k]
	}
	return cases
}
