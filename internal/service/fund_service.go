package service

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/SujJR/fundchat/internal/model"
	"github.com/SujJR/fundchat/internal/rag"
)

// Ten chunks give the summary prompt enough spread across documents.
const summaryTopK = 10

type FundStore interface {
	GetByID(ctx context.Context, fundID string) (*model.Fund, error)
	List(ctx context.Context) ([]model.Fund, error)
	UpdateSummary(ctx context.Context, fundID, summary string, mtime int64) error
	SetDocumentCount(ctx context.Context, fundID string, count int, mtime int64) error
	Delete(ctx context.Context, fundID string) error
	ListStale(ctx context.Context, limit int) ([]model.Fund, error)
}

type DocumentStore interface {
	GetByID(ctx context.Context, docID string) (*model.Document, error)
	ListByFund(ctx context.Context, fundID string) ([]model.Document, error)
	CountByFund(ctx context.Context, fundID string) (int, error)
	DeleteByFund(ctx context.Context, fundID string) (int64, error)
}

type ChunkStore interface {
	DeleteByFund(ctx context.Context, fundID string) (int64, error)
}

// FundService owns the fund lifecycle and keeps summaries and document
// counts honest on the read path.
type FundService struct {
	funds     FundStore
	documents DocumentStore
	chunks    ChunkStore
	query     *QueryService
}

func NewFundService(funds FundStore, documents DocumentStore, chunks ChunkStore, query *QueryService) *FundService {
	return &FundService{
		funds:     funds,
		documents: documents,
		chunks:    chunks,
		query:     query,
	}
}

// Get returns the fund, regenerating a stale summary first. A summary
// is stale when it is still the placeholder or when the stored count
// drifted from the live document count. Regeneration failures are
// logged, never surfaced to the reader.
func (s *FundService) Get(ctx context.Context, fundID string) (*model.Fund, error) {
	fund, err := s.funds.GetByID(ctx, fundID)
	if err != nil {
		return nil, err
	}
	s.refreshIfStale(ctx, fund)
	return fund, nil
}

func (s *FundService) List(ctx context.Context) ([]model.Fund, error) {
	return s.funds.List(ctx)
}

func (s *FundService) ListDocuments(ctx context.Context, fundID string) ([]model.Document, error) {
	if _, err := s.funds.GetByID(ctx, fundID); err != nil {
		return nil, err
	}
	return s.documents.ListByFund(ctx, fundID)
}

func (s *FundService) GetDocument(ctx context.Context, docID string) (*model.Document, error) {
	return s.documents.GetByID(ctx, docID)
}

// Delete removes the fund along with its documents and indexed chunks,
// vector index first so no orphaned embeddings survive the fund.
func (s *FundService) Delete(ctx context.Context, fundID string) error {
	logger := logutil.GetLogger(ctx).With(zap.String("fund_id", fundID))
	if _, err := s.funds.GetByID(ctx, fundID); err != nil {
		return err
	}
	chunksDeleted, err := s.chunks.DeleteByFund(ctx, fundID)
	if err != nil {
		logger.Error("failed to delete fund chunks", zap.Error(err))
		return err
	}
	docsDeleted, err := s.documents.DeleteByFund(ctx, fundID)
	if err != nil {
		logger.Error("failed to delete fund documents", zap.Error(err))
		return err
	}
	if err := s.funds.Delete(ctx, fundID); err != nil {
		logger.Error("failed to delete fund", zap.Error(err))
		return err
	}
	logger.Info("fund deleted", zap.Int64("chunks", chunksDeleted), zap.Int64("documents", docsDeleted))
	return nil
}

// RefreshStaleSummaries runs the regeneration path for funds flagged
// as stale, returning how many were touched.
func (s *FundService) RefreshStaleSummaries(ctx context.Context, limit int) (int, error) {
	funds, err := s.funds.ListStale(ctx, limit)
	if err != nil {
		return 0, err
	}
	for i := range funds {
		s.refreshIfStale(ctx, &funds[i])
	}
	return len(funds), nil
}

func (s *FundService) refreshIfStale(ctx context.Context, fund *model.Fund) {
	logger := logutil.GetLogger(ctx).With(zap.String("fund_id", fund.ID))
	liveCount, err := s.documents.CountByFund(ctx, fund.ID)
	if err != nil {
		logger.Warn("failed to count fund documents", zap.Error(err))
		return
	}
	stale := fund.Summary == model.EmptySummary || fund.DocumentCount != liveCount
	if !stale {
		return
	}
	now := time.Now().UnixMilli()
	if fund.DocumentCount != liveCount {
		if err := s.funds.SetDocumentCount(ctx, fund.ID, liveCount, now); err != nil {
			logger.Warn("failed to reconcile document count", zap.Error(err))
		} else {
			fund.DocumentCount = liveCount
		}
	}
	if liveCount <= 0 {
		return
	}
	result, err := s.query.Query(ctx, QueryRequest{
		FundID:   fund.ID,
		Question: rag.SummaryQuery(liveCount),
		TopK:     summaryTopK,
	})
	if err != nil {
		logger.Warn("summary regeneration failed", zap.Error(err))
		return
	}
	if result.Answer == "" || result.Answer == rag.NoAnswerSentinel {
		logger.Debug("summary regeneration produced no usable answer")
		return
	}
	if err := s.funds.UpdateSummary(ctx, fund.ID, result.Answer, time.Now().UnixMilli()); err != nil {
		logger.Warn("failed to store regenerated summary", zap.Error(err))
		return
	}
	fund.Summary = result.Answer
	logger.Info("fund summary regenerated", zap.Int("document_count", liveCount))
}
