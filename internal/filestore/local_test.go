package filestore

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SujJR/fundchat/internal/config"
)

func newLocalTestStore(t *testing.T) Store {
	t.Helper()
	store, err := New(config.FileStoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": t.TempDir()},
	})
	require.NoError(t, err)
	return store
}

func TestLocalStoreRoundTrip(t *testing.T) {
	store := newLocalTestStore(t)
	ctx := context.Background()

	data := []byte("raw upload bytes")
	require.NoError(t, store.Save(ctx, "doc-1.txt", BytesReader(data), int64(len(data))))

	r, err := store.Open(ctx, "doc-1.txt")
	require.NoError(t, err)
	defer r.Close()
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestLocalStoreRejectsPathKeys(t *testing.T) {
	store := newLocalTestStore(t)
	err := store.Save(context.Background(), "../escape.txt", BytesReader([]byte("x")), 1)
	require.Error(t, err)
	_, err = store.Open(context.Background(), "a/b.txt")
	require.Error(t, err)
}

func TestNewUnknownType(t *testing.T) {
	_, err := New(config.FileStoreConfig{Type: "ftp", Data: map[string]interface{}{}})
	require.Error(t, err)
}
