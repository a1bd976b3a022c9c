package match

import (
	"context"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/matching-cli/internal/model"
)

// ScoreResult carries the blended matching score plus the intermediate
// artifacts the report assembler reuses.
type ScoreResult struct {
	Score    int
	HydeDoc  string
	HydeVec  []float64
	Degraded bool
}

// CalculateScore runs the full scoring sequence for two profiles: expand both
// companies, generate the HyDE document, embed all three texts, blend the
// three pairwise cosine similarities, and clamp to [0, 100].
//
// The two expansions run in parallel with the HyDE generation; the three
// embeddings run in parallel once their source texts exist. HyDE generation
// always completes before its embedding starts, and all three embeddings
// complete before the blend.
func (e *Engine) CalculateScore(ctx context.Context, a, b model.CompanyProfile) ScoreResult {
	var (
		keywordsA, keywordsB string
		hydeDoc              string
		degA, degB, degHyde  bool
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
	g.Go(func() error {
		hydeDoc, degHyde = e.GenerateHyde(gCtx, a, b)
		return nil
	})
	_ = g.Wait() // every step absorbs its own failure

	var (
		vecA, vecB, vecHyde          []float64
		degVecA, degVecB, degVecHyde bool
	)

	g, gCtx = errgroup.WithContext(ctx)
	g.SetLimit(e.maxConcurrent)
	g.Go(func() error {
		vecA, degVecA = e.embed(gCtx, expandedText(a, keywordsA))
		return nil
	})
	g.Go(func() error {
		vecB, degVecB = e.embed(gCtx, expandedText(b, keywordsB))
		return nil
	})
	g.Go(func() error {
		vecHyde, degVecHyde = e.embed(gCtx, hydeDoc)
		return nil
	})
	_ = g.Wait()

	simAHyde := Cosine(vecA, vecHyde)
	simBHyde := Cosine(vecB, vecHyde)
	simAB := Cosine(vecA, vecB)

	score := e.BlendScore(simAHyde, simBHyde, simAB)
	degraded := degA || degB || degHyde || degVecA || degVecB || degVecHyde

	zap.L().Info("match: score calculated",
		zap.String("company_a", a.Name),
		zap.String("company_b", b.Name),
		zap.Float64("sim_a_hyde", simAHyde),
		zap.Float64("sim_b_hyde", simBHyde),
		zap.Float64("sim_a_b", simAB),
		zap.Int("score", score),
		zap.Bool("degraded", degraded),
	)

	return ScoreResult{
		Score:    score,
		HydeDoc:  hydeDoc,
		HydeVec:  vecHyde,
		Degraded: degraded,
	}
}

// BlendScore combines the three similarities into the bounded integer score.
// Non-finite blend input falls back to the configured illustrative score so
// callers always receive a usable integer.
func (e *Engine) BlendScore(simAHyde, simBHyde, simAB float64) int {
	raw := (simAHyde*e.weights.AHyde + simBHyde*e.weights.BHyde + simAB*e.weights.Direct) * 100
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		zap.L().Warn("match: blend not computable, using fallback score",
			zap.Int("fallback_score", e.fallbackScore),
		)
		return e.fallbackScore
	}

	score := int(math.Round(raw))
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}
