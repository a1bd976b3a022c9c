package match

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sells-group/matching-cli/internal/model"
)

// Compare produces the analysis-narrative fields shown while a matching
// request is in flight. The two query expansions run in parallel; everything
// else is templated from the profiles, so the summary is always populated.
func (e *Engine) Compare(ctx context.Context, a, b model.CompanyProfile) (model.AnalysisSummary, bool) {
	var (
		keywordsA, keywordsB string
		degA, degB           bool
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxConcurrent)
	g.Go(func() error {
		keywordsA, degA = e.ExpandQuery(gCtx, a.Industry, a.Description)
		return nil
	})
	g.Go(func() error {
		keywordsB, degB = e.ExpandQuery(gCtx, b.Industry, b.Description)
		return nil
	})
	_ = g.Wait()

	summary := model.AnalysisSummary{
		SearchQuery: fmt.Sprintf("Collaboration potential between %s and %s: %s, %s",
			a.Industry, b.Industry, keywordsA, keywordsB),
		IndustryAnalysis: fmt.Sprintf("Comparing the characteristics of %s and %s to assess complementarity and market opportunity.",
			a.Industry, b.Industry),
		CaseReference: "Referencing past collaborations between similar industries to extract success factors and pitfalls.",
		DataAnalysis: fmt.Sprintf("Analyzing business data for %s and %s to evaluate partnership potential.",
			a.Name, b.Name),
		MatchingPatterns: fmt.Sprintf("Detecting collaboration patterns from the business descriptions %q and %q.",
			truncate(a.Description, 50), truncate(b.Description, 50)),
		CandidateSelection: "Scoring the pairing with hypothetical-document embeddings and query expansion.",
	}

	return summary, degA || degB
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
