package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SujJR/fundchat/internal/model"
	appErr "github.com/SujJR/fundchat/internal/pkg/errors"
)

type fakeFundStore struct {
	fund           *model.Fund
	getErr         error
	updatedSummary string
	updatedCount   int
	countUpdated   bool
	deleted        []string
	stale          []model.Fund
}

func (f *fakeFundStore) GetByID(ctx context.Context, fundID string) (*model.Fund, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copied := *f.fund
	return &copied, nil
}

func (f *fakeFundStore) List(ctx context.Context) ([]model.Fund, error) {
	return []model.Fund{*f.fund}, nil
}

func (f *fakeFundStore) UpdateSummary(ctx context.Context, fundID, summary string, mtime int64) error {
	f.updatedSummary = summary
	return nil
}

func (f *fakeFundStore) SetDocumentCount(ctx context.Context, fundID string, count int, mtime int64) error {
	f.updatedCount = count
	f.countUpdated = true
	return nil
}

func (f *fakeFundStore) Delete(ctx context.Context, fundID string) error {
	f.deleted = append(f.deleted, "fund")
	return nil
}

func (f *fakeFundStore) ListStale(ctx context.Context, limit int) ([]model.Fund, error) {
	return f.stale, nil
}

type fakeDocumentStore struct {
	docs      []model.Document
	liveCount int
	order     *[]string
}

func (f *fakeDocumentStore) GetByID(ctx context.Context, docID string) (*model.Document, error) {
	for _, doc := range f.docs {
		if doc.ID == docID {
			return &doc, nil
		}
	}
	return nil, appErr.ErrNotFound
}

func (f *fakeDocumentStore) ListByFund(ctx context.Context, fundID string) ([]model.Document, error) {
	return f.docs, nil
}

func (f *fakeDocumentStore) CountByFund(ctx context.Context, fundID string) (int, error) {
	return f.liveCount, nil
}

func (f *fakeDocumentStore) DeleteByFund(ctx context.Context, fundID string) (int64, error) {
	if f.order != nil {
		*f.order = append(*f.order, "documents")
	}
	return int64(len(f.docs)), nil
}

type fakeChunkStore struct {
	order *[]string
}

func (f *fakeChunkStore) DeleteByFund(ctx context.Context, fundID string) (int64, error) {
	if f.order != nil {
		*f.order = append(*f.order, "chunks")
	}
	return 3, nil
}

func newTestFundService(funds *fakeFundStore, docs *fakeDocumentStore,
	chunks *fakeChunkStore, gen *fakeGenerator, search *fakeChunkSearcher) *FundService {
	lister := &fakeDocumentLister{docs: docs.docs}
	query := NewQueryService(funds, lister, search, &fakeEmbedder{}, gen, QueryOptions{DefaultTopK: 5})
	return NewFundService(funds, docs, chunks, query)
}

func TestGetRegeneratesEmptySummary(t *testing.T) {
	funds := &fakeFundStore{fund: &model.Fund{ID: "fund-1", Name: "Growth", Summary: model.EmptySummary, DocumentCount: 1}}
	docs := &fakeDocumentStore{docs: []model.Document{{ID: "d1"}}, liveCount: 1}
	search := &fakeChunkSearcher{chunks: []model.Chunk{testChunk("report.txt", "1", "Revenue grew 20% in Q1.")}}
	gen := &fakeGenerator{answer: "A growth fund with rising revenue."}
	svc := newTestFundService(funds, docs, &fakeChunkStore{}, gen, search)

	fund, err := svc.Get(context.Background(), "fund-1")
	require.NoError(t, err)
	require.Equal(t, "A growth fund with rising revenue.", fund.Summary)
	require.Equal(t, "A growth fund with rising revenue.", funds.updatedSummary)
	require.Equal(t, summaryTopK, search.gotK)
}

func TestGetSkipsRegenWithoutDocuments(t *testing.T) {
	funds := &fakeFundStore{fund: &model.Fund{ID: "fund-1", Summary: model.EmptySummary}}
	docs := &fakeDocumentStore{liveCount: 0}
	gen := &fakeGenerator{answer: "should not be used"}
	svc := newTestFundService(funds, docs, &fakeChunkStore{}, gen, &fakeChunkSearcher{})

	fund, err := svc.Get(context.Background(), "fund-1")
	require.NoError(t, err)
	require.Equal(t, model.EmptySummary, fund.Summary)
	require.Zero(t, gen.calls)
	require.Empty(t, funds.updatedSummary)
}

func TestGetReconcilesDriftedCount(t *testing.T) {
	funds := &fakeFundStore{fund: &model.Fund{ID: "fund-1", Summary: "Existing summary.", DocumentCount: 2}}
	docs := &fakeDocumentStore{docs: []model.Document{{ID: "d1"}, {ID: "d2"}, {ID: "d3"}}, liveCount: 3}
	search := &fakeChunkSearcher{chunks: []model.Chunk{testChunk("report.txt", "1", "x")}}
	gen := &fakeGenerator{answer: "Refreshed summary."}
	svc := newTestFundService(funds, docs, &fakeChunkStore{}, gen, search)

	fund, err := svc.Get(context.Background(), "fund-1")
	require.NoError(t, err)
	require.True(t, funds.countUpdated)
	require.Equal(t, 3, funds.updatedCount)
	require.Equal(t, 3, fund.DocumentCount)
	require.Equal(t, "Refreshed summary.", fund.Summary)
}

func TestGetFreshFundUntouched(t *testing.T) {
	funds := &fakeFundStore{fund: &model.Fund{ID: "fund-1", Summary: "Existing summary.", DocumentCount: 1}}
	docs := &fakeDocumentStore{docs: []model.Document{{ID: "d1"}}, liveCount: 1}
	gen := &fakeGenerator{answer: "should not be used"}
	svc := newTestFundService(funds, docs, &fakeChunkStore{}, gen, &fakeChunkSearcher{})

	fund, err := svc.Get(context.Background(), "fund-1")
	require.NoError(t, err)
	require.Equal(t, "Existing summary.", fund.Summary)
	require.Zero(t, gen.calls)
	require.False(t, funds.countUpdated)
}

func TestGetSentinelAnswerNotPersisted(t *testing.T) {
	funds := &fakeFundStore{fund: &model.Fund{ID: "fund-1", Summary: model.EmptySummary, DocumentCount: 1}}
	docs := &fakeDocumentStore{docs: []model.Document{{ID: "d1"}}, liveCount: 1}
	// No chunks retrieved, so the pipeline answers with the sentinel.
	svc := newTestFundService(funds, docs, &fakeChunkStore{}, &fakeGenerator{}, &fakeChunkSearcher{})

	fund, err := svc.Get(context.Background(), "fund-1")
	require.NoError(t, err)
	require.Equal(t, model.EmptySummary, fund.Summary)
	require.Empty(t, funds.updatedSummary)
}

func TestDeleteCascadesIndexFirst(t *testing.T) {
	var order []string
	funds := &fakeFundStore{fund: &model.Fund{ID: "fund-1"}}
	docs := &fakeDocumentStore{docs: []model.Document{{ID: "d1"}}, order: &order}
	chunks := &fakeChunkStore{order: &order}
	svc := newTestFundService(funds, docs, chunks, &fakeGenerator{}, &fakeChunkSearcher{})

	require.NoError(t, svc.Delete(context.Background(), "fund-1"))
	require.Equal(t, []string{"chunks", "documents"}, order)
	require.Equal(t, []string{"fund"}, funds.deleted)
}

func TestDeleteMissingFund(t *testing.T) {
	funds := &fakeFundStore{getErr: appErr.ErrNotFound}
	svc := newTestFundService(funds, &fakeDocumentStore{}, &fakeChunkStore{}, &fakeGenerator{}, &fakeChunkSearcher{})
	err := svc.Delete(context.Background(), "missing")
	require.ErrorIs(t, err, appErr.ErrNotFound)
	require.Empty(t, funds.deleted)
}

func TestRefreshStaleSummaries(t *testing.T) {
	stale := model.Fund{ID: "fund-1", Summary: model.EmptySummary}
	funds := &fakeFundStore{fund: &stale, stale: []model.Fund{stale}}
	docs := &fakeDocumentStore{docs: []model.Document{{ID: "d1"}}, liveCount: 1}
	search := &fakeChunkSearcher{chunks: []model.Chunk{testChunk("report.txt", "1", "x")}}
	svc := newTestFundService(funds, docs, &fakeChunkStore{}, &fakeGenerator{answer: "Fresh summary."}, search)

	touched, err := svc.RefreshStaleSummaries(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 1, touched)
	require.Equal(t, "Fresh summary.", funds.updatedSummary)
}
