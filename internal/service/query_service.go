package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/SujJR/fundchat/internal/ai"
	"github.com/SujJR/fundchat/internal/model"
	appErr "github.com/SujJR/fundchat/internal/pkg/errors"
	"github.com/SujJR/fundchat/internal/rag"
)

const (
	taskRetrievalQuery    = "RETRIEVAL_QUERY"
	taskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

type FundReader interface {
	GetByID(ctx context.Context, fundID string) (*model.Fund, error)
}

type DocumentLister interface {
	ListByFund(ctx context.Context, fundID string) ([]model.Document, error)
}

type ChunkSearcher interface {
	Search(ctx context.Context, embedding []float32, k int, filter model.SearchFilter) ([]model.Chunk, error)
}

type QueryOptions struct {
	DefaultTopK      int
	SynthesisTimeout time.Duration
}

type QueryRequest struct {
	FundID   string
	Question string
	TopK     int
	DocIDs   []string
}

type QueryResult struct {
	FundID   string         `json:"fund_id"`
	FundName string         `json:"fund_name"`
	Question string         `json:"question"`
	Answer   string         `json:"answer"`
	Sources  []model.Source `json:"sources"`
}

// QueryService runs the full retrieval-augmented answer pipeline for
// one question against one fund.
type QueryService struct {
	funds     FundReader
	documents DocumentLister
	chunks    ChunkSearcher
	embedder  ai.IEmbedder
	generator ai.IGenerator
	opts      QueryOptions
}

func NewQueryService(funds FundReader, documents DocumentLister, chunks ChunkSearcher,
	embedder ai.IEmbedder, generator ai.IGenerator, opts QueryOptions) *QueryService {
	if opts.DefaultTopK <= 0 {
		opts.DefaultTopK = 5
	}
	if opts.SynthesisTimeout <= 0 {
		opts.SynthesisTimeout = 60 * time.Second
	}
	return &QueryService{
		funds:     funds,
		documents: documents,
		chunks:    chunks,
		embedder:  embedder,
		generator: generator,
		opts:      opts,
	}
}

func (s *QueryService) Query(ctx context.Context, req QueryRequest) (*QueryResult, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("fund_id", req.FundID))
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", appErr.ErrInvalid)
	}
	fund, err := s.funds.GetByID(ctx, req.FundID)
	if err != nil {
		return nil, err
	}
	docs, err := s.documents.ListByFund(ctx, req.FundID)
	if err != nil {
		logger.Error("failed to list fund documents", zap.Error(err))
		return nil, err
	}
	if err := validateDocFilter(req.DocIDs, docs); err != nil {
		return nil, err
	}

	result := &QueryResult{
		FundID:   fund.ID,
		FundName: fund.Name,
		Question: question,
		Sources:  []model.Source{},
	}
	if len(docs) == 0 {
		result.Answer = rag.NoAnswerSentinel
		return result, nil
	}

	requested := req.TopK
	if requested <= 0 {
		requested = s.opts.DefaultTopK
	}
	k, filter := rag.Plan(question, req.FundID, requested, req.DocIDs, len(docs))
	logger.Debug("retrieval planned",
		zap.Int("requested_k", requested), zap.Int("effective_k", k),
		zap.Int("doc_count", len(docs)), zap.Int("doc_filter", len(filter.DocIDs)))

	embedding, err := s.embedder.Embed(ctx, question, taskRetrievalQuery)
	if err != nil {
		logger.Error("failed to embed question", zap.Error(err))
		return nil, err
	}
	chunks, err := s.chunks.Search(ctx, embedding, k, filter)
	if err != nil {
		logger.Error("chunk search failed", zap.Error(err))
		return nil, err
	}
	if len(chunks) == 0 {
		result.Answer = rag.NoAnswerSentinel
		return result, nil
	}

	contextText := rag.AssembleContext(chunks)
	system, prompt := rag.BuildAnswerPrompt(contextText, question)
	synthCtx, cancel := context.WithTimeout(ctx, s.opts.SynthesisTimeout)
	defer cancel()
	answer, err := s.generator.Complete(synthCtx, system, prompt)
	if err != nil {
		logger.Error("answer synthesis failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", appErr.ErrSynthesis, err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, fmt.Errorf("%w: model returned an empty answer", appErr.ErrSynthesis)
	}
	result.Answer = answer
	result.Sources = rag.DedupeSources(chunks)
	return result, nil
}

// Chat behaves like Query and appends a reference note when the answer
// drew on more than one document.
func (s *QueryService) Chat(ctx context.Context, fundID, question string, topK int) (*QueryResult, error) {
	result, err := s.Query(ctx, QueryRequest{FundID: fundID, Question: question, TopK: topK})
	if err != nil {
		return nil, err
	}
	files := distinctFileNames(result.Sources)
	if len(files) > 1 {
		result.Answer += fmt.Sprintf("\n\nThis answer references %d documents: %s", len(files), strings.Join(files, ", "))
	}
	return result, nil
}

func validateDocFilter(docIDs []string, docs []model.Document) error {
	if len(docIDs) == 0 {
		return nil
	}
	known := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		known[doc.ID] = struct{}{}
	}
	for _, id := range docIDs {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("%w: document %s does not belong to the fund", appErr.ErrFilterMismatch, id)
		}
	}
	return nil
}

func distinctFileNames(sources []model.Source) []string {
	seen := make(map[string]struct{}, len(sources))
	var files []string
	for _, src := range sources {
		if _, ok := seen[src.FileName]; ok {
			continue
		}
		seen[src.FileName] = struct{}{}
		files = append(files, src.FileName)
	}
	return files
}
