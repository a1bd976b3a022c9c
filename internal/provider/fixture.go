package provider

import "context"

// Fixture is a deterministic in-process provider for demos and tests. It
// never calls out and always succeeds, so two identical requests produce
// byte-identical pipeline output.
type Fixture struct {
	// CompletionText, when set, is returned verbatim from Complete.
	// Otherwise a short canned completion echoing the prompt length is used.
	CompletionText string
	// Dims is the embedding dimensionality (default 64).
	Dims int
}

func (f *Fixture) Complete(_ context.Context, _, userPrompt string) (string, error) {
	if f.CompletionText != "" {
		return f.CompletionText, nil
	}
	return "1. Establish a joint pilot project within one quarter.\n" +
		"2. Cross-promote each partner's flagship offering to the other's customer base.\n" +
		"3. Share distribution channels in overlapping regions.\n" +
		"4. Form a joint working group to evaluate co-developed products.", nil
}

// Embed derives a vector from the text bytes alone, so equal texts map to
// equal vectors and different texts usually do not.
func (f *Fixture) Embed(_ context.Context, text string) ([]float64, error) {
	dims := f.Dims
	if dims <= 0 {
		dims = 64
	}
	vec := make([]float64, dims)
	// FNV-style fold of the bytes across the dimensions.
	var h uint64 = 14695981039346656037
	for i, b := range []byte(text) {
		h ^= uint64(b)
		h *= 1099511628211
		vec[i%dims] += float64(h%2048)/1024.0 - 1.0
	}
	return vec, nil
}
