package embedcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	calls int
}

func (c *countingEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	c.calls++
	return []float32{0.1, 0.2}, nil
}

func (c *countingEmbedder) ModelName() string {
	return "test-model"
}

func TestLruEmbedderCachesByTextAndTask(t *testing.T) {
	next := &countingEmbedder{}
	e := WrapLruCacheToEmbedder(next, 16, time.Minute)

	first, err := e.Embed(context.Background(), "hello", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	second, err := e.Embed(context.Background(), "hello", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, next.calls)

	// A different task type misses the cache.
	_, err = e.Embed(context.Background(), "hello", "RETRIEVAL_DOCUMENT")
	require.NoError(t, err)
	require.Equal(t, 2, next.calls)
}

func TestLruEmbedderReturnsCopies(t *testing.T) {
	e := WrapLruCacheToEmbedder(&countingEmbedder{}, 16, time.Minute)
	first, err := e.Embed(context.Background(), "hello", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	first[0] = 99
	second, err := e.Embed(context.Background(), "hello", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	require.InDelta(t, 0.1, second[0], 1e-6)
}

func TestWrapLruDisabledPassthrough(t *testing.T) {
	next := &countingEmbedder{}
	require.Equal(t, next, WrapLruCacheToEmbedder(next, 0, time.Minute))
	require.Equal(t, next, WrapLruCacheToEmbedder(next, 16, 0))
}

func TestBuildCacheKey(t *testing.T) {
	key1, hash1, model := buildCacheKey("m", "RETRIEVAL_QUERY", "text")
	key2, hash2, _ := buildCacheKey("m", "RETRIEVAL_QUERY", "text")
	require.Equal(t, key1, key2)
	require.Equal(t, hash1, hash2)
	require.Equal(t, "m", model)

	_, otherHash, _ := buildCacheKey("m", "RETRIEVAL_QUERY", "other")
	require.NotEqual(t, hash1, otherHash)

	_, _, fallback := buildCacheKey("  ", "RETRIEVAL_QUERY", "text")
	require.Equal(t, "unknown", fallback)
}
