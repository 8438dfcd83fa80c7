package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/SujJR/fundchat/internal/model"
	appErr "github.com/SujJR/fundchat/internal/pkg/errors"
	"github.com/SujJR/fundchat/internal/repo"
	"github.com/SujJR/fundchat/test/testutil"
)

func newDocument(fundID, name string) *model.Document {
	return &model.Document{
		ID:        uuid.NewString(),
		FundID:    fundID,
		FileName:  name,
		FileType:  "txt",
		SizeBytes: 123,
		Ctime:     time.Now().UnixMilli(),
	}
}

func TestDocumentRepoCreateListCount(t *testing.T) {
	conn, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	r := repo.NewDocumentRepo(conn)
	ctx := context.Background()

	fundID := uuid.NewString()
	defer r.DeleteByFund(ctx, fundID)

	first := newDocument(fundID, "a.txt")
	second := newDocument(fundID, "b.txt")
	second.Ctime = first.Ctime + 1
	require.NoError(t, r.Create(ctx, first))
	require.NoError(t, r.Create(ctx, second))

	docs, err := r.ListByFund(ctx, fundID)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, "a.txt", docs[0].FileName)

	count, err := r.CountByFund(ctx, fundID)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestDocumentRepoGet(t *testing.T) {
	conn, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	r := repo.NewDocumentRepo(conn)
	ctx := context.Background()

	fundID := uuid.NewString()
	defer r.DeleteByFund(ctx, fundID)

	doc := newDocument(fundID, "a.txt")
	require.NoError(t, r.Create(ctx, doc))

	got, err := r.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	require.Equal(t, doc.FileName, got.FileName)
	require.Equal(t, int64(123), got.SizeBytes)

	_, err = r.GetByID(ctx, uuid.NewString())
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestDocumentRepoDeleteByFund(t *testing.T) {
	conn, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	r := repo.NewDocumentRepo(conn)
	ctx := context.Background()

	fundID := uuid.NewString()
	require.NoError(t, r.Create(ctx, newDocument(fundID, "a.txt")))
	require.NoError(t, r.Create(ctx, newDocument(fundID, "b.txt")))

	deleted, err := r.DeleteByFund(ctx, fundID)
	require.NoError(t, err)
	require.Equal(t, int64(2), deleted)

	count, err := r.CountByFund(ctx, fundID)
	require.NoError(t, err)
	require.Zero(t, count)
}
