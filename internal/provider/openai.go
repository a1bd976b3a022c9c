package provider

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/matching-cli/pkg/openai"
)

// OpenAI implements Client against an OpenAI-compatible API for both
// completions and embeddings.
type OpenAI struct {
	client openai.Client
}

// NewOpenAI wraps an openai.Client as a provider.
func NewOpenAI(client openai.Client) *OpenAI {
	return &OpenAI{client: client}
}

func (p *OpenAI) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := p.client.ChatCompletion(ctx, openai.ChatCompletionRequest{
		Messages: []openai.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "provider: openai completion")
	}
	if len(resp.Choices) == 0 {
		return "", eris.New("provider: openai completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAI) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := p.client.CreateEmbedding(ctx, openai.EmbeddingRequest{Input: text})
	if err != nil {
		return nil, eris.Wrap(err, "provider: openai embedding")
	}
	if len(resp.Data) == 0 {
		return nil, eris.New("provider: openai embedding returned no data")
	}
	return resp.Data[0].Embedding, nil
}
