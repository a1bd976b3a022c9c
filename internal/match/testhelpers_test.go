package match

import (
	"context"
	"errors"

	"github.com/sells-group/matching-cli/internal/model"
	"github.com/sells-group/matching-cli/internal/provider"
)

// stubProvider lets each capability be scripted per test.
type stubProvider struct {
	completeFn func(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	embedFn    func(ctx context.Context, text string) ([]float64, error)
}

func (s *stubProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if s.completeFn == nil {
		return "", errors.New("stub: no completion scripted")
	}
	return s.completeFn(ctx, systemPrompt, userPrompt)
}

func (s *stubProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	if s.embedFn == nil {
		return nil, errors.New("stub: no embedding scripted")
	}
	return s.embedFn(ctx, text)
}

// failingProvider errors on every call.
func failingProvider() provider.Client {
	return &stubProvider{
		completeFn: func(context.Context, string, string) (string, error) {
			return "", errors.New("stub: provider down")
		},
		embedFn: func(context.Context, string) ([]float64, error) {
			return nil, errors.New("stub: provider down")
		},
	}
}

// staticFinder implements PrecedentFinder with a fixed case list.
type staticFinder struct {
	cases    []model.PrecedentCase
	degraded bool
}

func (f *staticFinder) FindSimilar(_ context.Context, _ []float64, k int) ([]model.PrecedentCase, bool) {
	if len(f.cases) > k {
		return f.cases[:k], f.degraded
	}
	return f.cases, f.degraded
}

func testProfiles() (model.CompanyProfile, model.CompanyProfile) {
	a := model.CompanyProfile{
		Name:        "Acme Foods",
		Industry:    "Food",
		Description: "Organic snack production and wholesale distribution",
	}
	b := model.CompanyProfile{
		Name:        "Beta Robotics",
		Industry:    "Manufacturing",
		Description: "Industrial automation systems for packaging lines",
	}
	return a, b
}
