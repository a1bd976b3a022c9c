package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/matching-cli/internal/match"
	"github.com/sells-group/matching-cli/internal/precedent"
	"github.com/sells-group/matching-cli/internal/provider"
	"github.com/sells-group/matching-cli/internal/resilience"
	anthropicpkg "github.com/sells-group/matching-cli/pkg/anthropic"
	openaipkg "github.com/sells-group/matching-cli/pkg/openai"
)

// matchEnv holds the initialized provider, engine and precedent corpus
// shared by the serve/match/precedent commands.
type matchEnv struct {
	Provider  provider.Client
	Engine    *match.Engine
	Precedent *precedent.Store
	Finder    *precedent.Finder
}

// Close releases resources held by the environment.
func (me *matchEnv) Close() {
	if me.Precedent != nil {
		_ = me.Precedent.Close()
	}
}

// initEnv builds the provider selected by config, the matching engine on top
// of it, and the seeded precedent corpus. Callers should defer env.Close().
func initEnv(ctx context.Context) (*matchEnv, error) {
	p, err := buildProvider()
	if err != nil {
		return nil, err
	}

	engine := match.NewEngine(p,
		match.WithWeights(match.Weights{
			AHyde:  cfg.Match.WeightAHyde,
			BHyde:  cfg.Match.WeightBHyde,
			Direct: cfg.Match.WeightDirect,
		}),
		match.WithFallbackScore(cfg.Match.FallbackScore),
		match.WithFallbackSeed(cfg.Match.FallbackSeed),
		match.WithEmbeddingDims(cfg.Match.EmbeddingDims),
		match.WithMaxConcurrentCalls(cfg.Match.MaxConcurrentCalls),
		match.WithCallTimeout(time.Duration(cfg.Provider.TimeoutSecs)*time.Second),
		match.WithPrecedentTopK(cfg.Precedent.TopK),
	)

	store, err := precedent.NewStore(cfg.Precedent.DBPath)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, eris.Wrap(err, "migrate precedent store")
	}
	seeded, err := store.Seed(ctx)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if seeded > 0 {
		zap.L().Info("seeded precedent corpus", zap.Int("cases", seeded))
	}

	return &matchEnv{
		Provider:  p,
		Engine:    engine,
		Precedent: store,
		Finder:    precedent.NewFinder(store),
	}, nil
}

// buildProvider selects the completion/embedding provider from config.
// Embeddings are always served by OpenAI; Anthropic only replaces the
// completion side.
func buildProvider() (provider.Client, error) {
	openaiOpts := []openaipkg.Option{
		openaipkg.WithChatModel(cfg.OpenAI.ChatModel),
		openaipkg.WithEmbeddingModel(cfg.OpenAI.EmbeddingModel),
		openaipkg.WithRateLimit(cfg.Provider.RatePerSecond),
	}
	if cfg.OpenAI.BaseURL != "" {
		openaiOpts = append(openaiOpts, openaipkg.WithBaseURL(cfg.OpenAI.BaseURL))
	}

	retry := resilience.DefaultRetryConfig()

	switch cfg.Provider.Name {
	case "openai":
		p := provider.NewOpenAI(openaipkg.NewClient(cfg.OpenAI.Key, openaiOpts...))
		return provider.WithRetry(p, retry), nil
	case "anthropic":
		p := provider.NewAnthropic(
			anthropicpkg.NewClient(cfg.Anthropic.Key),
			openaipkg.NewClient(cfg.OpenAI.Key, openaiOpts...),
			cfg.Anthropic.Model,
			cfg.Anthropic.MaxTokens,
		)
		return provider.WithRetry(p, retry), nil
	case "fixture":
		return &provider.Fixture{Dims: cfg.Match.EmbeddingDims}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider.Name)
	}
}
