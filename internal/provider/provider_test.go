package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/matching-cli/pkg/openai"
)

func TestFixture_EmbedDeterministic(t *testing.T) {
	f := &Fixture{}

	a1, err := f.Embed(context.Background(), "alpha industries")
	require.NoError(t, err)
	a2, err := f.Embed(context.Background(), "alpha industries")
	require.NoError(t, err)
	b, err := f.Embed(context.Background(), "beta logistics")
	require.NoError(t, err)

	assert.Equal(t, a1, a2)
	assert.NotEqual(t, a1, b)
	assert.Len(t, a1, 64)
}

func TestFixture_EmbedDims(t *testing.T) {
	f := &Fixture{Dims: 8}
	vec, err := f.Embed(context.Background(), "anything")
	require.NoError(t, err)
	assert.Len(t, vec, 8)
}

func TestFixture_Complete(t *testing.T) {
	f := &Fixture{CompletionText: "canned"}
	got, err := f.Complete(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "canned", got)

	f = &Fixture{}
	got, err = f.Complete(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}

func TestOpenAI_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chat/completions":
			_, _ = w.Write([]byte(`{"id":"c1","choices":[{"index":0,"message":{"role":"assistant","content":"keywords, list"}}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := NewOpenAI(openai.NewClient("k", openai.WithBaseURL(srv.URL)))
	got, err := p.Complete(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "keywords, list", got)
}

func TestOpenAI_CompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"c1","choices":[]}`))
	}))
	defer srv.Close()

	p := NewOpenAI(openai.NewClient("k", openai.WithBaseURL(srv.URL)))
	_, err := p.Complete(context.Background(), "sys", "user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestOpenAI_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[1,0,0]}]}`))
	}))
	defer srv.Close()

	p := NewOpenAI(openai.NewClient("k", openai.WithBaseURL(srv.URL)))
	vec, err := p.Embed(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 0}, vec)
}
