package provider

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/matching-cli/pkg/anthropic"
	"github.com/sells-group/matching-cli/pkg/openai"
)

// Anthropic implements Client with Anthropic messages for completion.
// Anthropic exposes no embedding endpoint, so embeddings are delegated to an
// OpenAI-compatible client.
type Anthropic struct {
	messages  anthropic.Client
	embedder  openai.Client
	model     string
	maxTokens int64
}

// NewAnthropic wraps an anthropic.Client for completions and an
// openai.Client for embeddings.
func NewAnthropic(messages anthropic.Client, embedder openai.Client, model string, maxTokens int64) *Anthropic {
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	return &Anthropic{
		messages:  messages,
		embedder:  embedder,
		model:     model,
		maxTokens: maxTokens,
	}
}

func (p *Anthropic) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := p.messages.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		System:    systemPrompt,
		Messages:  []anthropic.Message{{Role: "user", Content: userPrompt}},
	})
	if err != nil {
		return "", eris.Wrap(err, "provider: anthropic completion")
	}
	text := resp.Text()
	if text == "" {
		return "", eris.New("provider: anthropic completion returned no text")
	}
	return text, nil
}

func (p *Anthropic) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := p.embedder.CreateEmbedding(ctx, openai.EmbeddingRequest{Input: text})
	if err != nil {
		return nil, eris.Wrap(err, "provider: anthropic embedding via openai")
	}
	if len(resp.Data) == 0 {
		return nil, eris.New("provider: embedding returned no data")
	}
	return resp.Data[0].Embedding, nil
}
