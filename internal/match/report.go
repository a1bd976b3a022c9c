package match

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/sells-group/matching-cli/internal/model"
)

// maxStrategies caps the strategy list attached to a report.
const maxStrategies = 4

// PrecedentFinder retrieves illustrative past cases similar to a HyDE
// document embedding.
type PrecedentFinder interface {
	// FindSimilar returns up to k cases ranked by similarity to the query
	// vector. Implementations fall back to a static set rather than failing.
	FindSimilar(ctx context.Context, queryVec []float64, k int) ([]model.PrecedentCase, bool)
}

const detailsSystemPrompt = "You are a business matching expert."

const strategySystemPrompt = "You are an expert in business strategy and collaboration."

// AssembleReport produces the full matching report for two profiles. It never
// returns an error: every sub-call degrades independently to static content,
// and the aggregate degradation is recorded on the report.
func (e *Engine) AssembleReport(ctx context.Context, a, b model.CompanyProfile, finder PrecedentFinder) *model.MatchingReport {
	scored := e.CalculateScore(ctx, a, b)

	cases, degCases := finder.FindSimilar(ctx, scored.HydeVec, e.precedentTopK)

	details, degDetails := e.matchingDetails(ctx, a, b, scored.Score)
	strategies, degStrategies := e.strategyRecommendations(ctx, a, b, scored.Score)

	report := &model.MatchingReport{
		CompanyA:        a,
		CompanyB:        b,
		MatchingScore:   scored.Score,
		MatchingDetails: details,
		PastCases:       cases,
		Strategies:      strategies,
		Degraded:        scored.Degraded || degCases || degDetails || degStrategies,
	}

	zap.L().Info("match: report assembled",
		zap.String("company_a", a.Name),
		zap.String("company_b", b.Name),
		zap.Int("score", report.MatchingScore),
		zap.Int("past_cases", len(report.PastCases)),
		zap.Int("strategies", len(report.Strategies)),
		zap.Bool("degraded", report.Degraded),
	)

	return report
}

// matchingDetails asks for a short narrative conditioned on both profiles and
// the score, with a templated fallback.
func (e *Engine) matchingDetails(ctx context.Context, a, b model.CompanyProfile, score int) (string, bool) {
	callCtx, cancel := e.callCtx(ctx)
	defer cancel()

	var sb strings.Builder
	sb.WriteString("Based on the following two companies and their matching score, explain the match in three to four concise sentences.\n\n")
	writeProfile(&sb, "Company A", a)
	writeProfile(&sb, "Company B", b)
	fmt.Fprintf(&sb, "Matching score: %d%%\n", score)

	out, err := e.provider.Complete(callCtx, detailsSystemPrompt, sb.String())
	if err == nil && strings.TrimSpace(out) != "" {
		return strings.TrimSpace(out), false
	}

	zap.L().Warn("match: matching details degraded to template", zap.Error(err))
	return fmt.Sprintf(
		"%s (%s) and %s (%s) scored %d%% for partnership compatibility. The score reflects the alignment of their business profiles and the projected value of a joint offering. Complementary capabilities suggest concrete room for collaboration.",
		a.Name, a.Industry, b.Name, b.Industry, score,
	), true
}

// fallbackStrategies is the static degraded-mode strategy set.
var fallbackStrategies = []string{
	"Launch a limited joint pilot to validate demand before committing shared resources.",
	"Cross-promote each company's flagship offering to the other's customer base.",
	"Pool distribution channels in regions where the two companies overlap.",
	"Set up a joint working group to scope one co-developed product for next year.",
}

// strategyRecommendations asks for up to four single-sentence strategies and
// parses them out of the completion text.
func (e *Engine) strategyRecommendations(ctx context.Context, a, b model.CompanyProfile, score int) ([]string, bool) {
	callCtx, cancel := e.callCtx(ctx)
	defer cancel()

	var sb strings.Builder
	sb.WriteString("Based on the following two companies and their matching score, propose four concrete collaboration strategies. Each strategy must be a single concise, actionable sentence.\n\n")
	writeProfile(&sb, "Company A", a)
	writeProfile(&sb, "Company B", b)
	fmt.Fprintf(&sb, "Matching score: %d%%\n", score)

	out, err := e.provider.Complete(callCtx, strategySystemPrompt, sb.String())
	if err != nil || strings.TrimSpace(out) == "" {
		zap.L().Warn("match: strategy generation degraded to static set", zap.Error(err))
		return fallbackStrategies, true
	}

	strategies := ParseStrategies(out)
	if len(strategies) == 0 {
		return fallbackStrategies, true
	}
	return strategies, false
}

// ParseStrategies extracts strategy lines from raw completion text. Lines
// carrying an enumeration marker (digit plus separator) are kept with the
// marker stripped; bare lines are kept only when longer than ten characters.
// Blank lines are dropped and the first four survivors are returned.
func ParseStrategies(raw string) []string {
	var strategies []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		stripped, enumerated := stripEnumerationPrefix(line)
		if enumerated {
			if stripped == "" {
				continue
			}
			line = stripped
		} else if len(line) <= 10 {
			continue
		}
		strategies = append(strategies, line)
		if len(strategies) == maxStrategies {
			break
		}
	}
	return strategies
}

// stripEnumerationPrefix removes a leading "1. ", "2) ", "3: " style marker.
// The second return reports whether a marker was present.
func stripEnumerationPrefix(line string) (string, bool) {
	runes := []rune(line)
	i := 0
	for i < len(runes) && unicode.IsDigit(runes[i]) {
		i++
	}
	if i == 0 || i >= len(runes) {
		return line, false
	}
	switch runes[i] {
	case '.', ')', ':', '-':
		return strings.TrimSpace(string(runes[i+1:])), true
	}
	return line, false
}
