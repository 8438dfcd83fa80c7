package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newOpenAITestProvider(t *testing.T, handler http.HandlerFunc) IProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	provider, err := NewProvider("openai", map[string]interface{}{
		"api_key":  "test-key",
		"base_url": server.URL,
	})
	require.NoError(t, err)
	return provider
}

func TestOpenAIComplete(t *testing.T) {
	provider := newOpenAITestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var req openAIChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "gpt-test", req.Model)
		require.Len(t, req.Messages, 2)
		require.Equal(t, "system", req.Messages[0].Role)
		require.Equal(t, "user", req.Messages[1].Role)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "  the answer  "}},
			},
		})
	})

	out, err := provider.Complete(context.Background(), "gpt-test", "be grounded", "what is the fee?")
	require.NoError(t, err)
	require.Equal(t, "the answer", out)
}

func TestOpenAIEmbed(t *testing.T) {
	provider := newOpenAITestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/embeddings", r.URL.Path)
		var req openAIEmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "embed-test", req.Model)
		require.Equal(t, "some text", req.Input)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"embedding": []float32{0.1, 0.2}},
			},
		})
	})

	vec, err := provider.Embed(context.Background(), "embed-test", "some text", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	require.Equal(t, []float32{0.1, 0.2}, vec)
}

func TestOpenAIErrorStatus(t *testing.T) {
	provider := newOpenAITestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})
	_, err := provider.Complete(context.Background(), "gpt-test", "", "hi")
	require.ErrorContains(t, err, "quota exceeded")
}

func TestOpenAIMissingKeyUnavailable(t *testing.T) {
	provider, err := NewProvider("openai", map[string]interface{}{})
	require.NoError(t, err)
	_, err = provider.Complete(context.Background(), "gpt-test", "", "hi")
	require.ErrorIs(t, err, ErrUnavailable)
	_, err = provider.Embed(context.Background(), "embed-test", "x", "RETRIEVAL_QUERY")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider("nonsense", nil)
	require.Error(t, err)
}
