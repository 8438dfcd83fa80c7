package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/SujJR/fundchat/internal/repo"
	"github.com/SujJR/fundchat/test/testutil"
)

func TestEmbeddingCacheRepoRoundTrip(t *testing.T) {
	conn, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	r := repo.NewEmbeddingCacheRepo(conn)
	ctx := context.Background()

	hash := uuid.NewString()
	_, ok, err := r.Get(ctx, "embed-model", "RETRIEVAL_QUERY", hash)
	require.NoError(t, err)
	require.False(t, ok)

	vec := testEmbedding(0.4)
	require.NoError(t, r.Save(ctx, "embed-model", "RETRIEVAL_QUERY", hash, vec, time.Now().Unix()))
	// Saving the same key again is a no-op, not an error.
	require.NoError(t, r.Save(ctx, "embed-model", "RETRIEVAL_QUERY", hash, vec, time.Now().Unix()))

	got, ok, err := r.Get(ctx, "embed-model", "RETRIEVAL_QUERY", hash)
	require.NoError(t, err)
	require.True(t, ok)
	require.InDelta(t, 0.4, got[0], 1e-6)
	require.Len(t, got, embedDim)
}

func TestEmbeddingCacheRepoDeleteBefore(t *testing.T) {
	conn, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	r := repo.NewEmbeddingCacheRepo(conn)
	ctx := context.Background()

	hash := uuid.NewString()
	old := time.Now().Add(-48 * time.Hour).Unix()
	require.NoError(t, r.Save(ctx, "embed-model", "RETRIEVAL_DOCUMENT", hash, testEmbedding(0.2), old))

	deleted, err := r.DeleteBefore(ctx, time.Now().Add(-24*time.Hour).Unix())
	require.NoError(t, err)
	require.GreaterOrEqual(t, deleted, int64(1))

	_, ok, err := r.Get(ctx, "embed-model", "RETRIEVAL_DOCUMENT", hash)
	require.NoError(t, err)
	require.False(t, ok)
}
