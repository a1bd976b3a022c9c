// Package provider abstracts the remote LLM capability surface consumed by
// the matching core: text completion and text embedding. Implementations
// return errors; fallback policy lives with the caller, not here.
package provider

import "context"

// Client is the capability surface the matching core depends on.
type Client interface {
	// Complete generates a text completion for the given system and user
	// prompts.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// Embed converts text into a fixed-length vector.
	Embed(ctx context.Context, text string) ([]float64, error)
}
