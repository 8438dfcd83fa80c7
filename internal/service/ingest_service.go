package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/SujJR/fundchat/internal/ai"
	"github.com/SujJR/fundchat/internal/extract"
	"github.com/SujJR/fundchat/internal/filestore"
	"github.com/SujJR/fundchat/internal/model"
	appErr "github.com/SujJR/fundchat/internal/pkg/errors"
	"github.com/SujJR/fundchat/internal/rag"
)

type FundWriter interface {
	Create(ctx context.Context, fund *model.Fund) error
	GetByID(ctx context.Context, fundID string) (*model.Fund, error)
	IncrementDocumentCount(ctx context.Context, fundID string, mtime int64) error
	UpdateSummary(ctx context.Context, fundID, summary string, mtime int64) error
}

type DocumentCreator interface {
	Create(ctx context.Context, doc *model.Document) error
}

type ChunkIndexer interface {
	AddBatch(ctx context.Context, chunks []model.Chunk, embeddings [][]float32) error
	DeleteByDoc(ctx context.Context, docID string) (int64, error)
}

type UploadFile struct {
	Name string
	Data []byte
}

// FileStatus reports the outcome of a single uploaded file so the
// caller sees partial failures instead of an all-or-nothing error.
type FileStatus struct {
	FileName string `json:"file_name"`
	DocID    string `json:"document_id,omitempty"`
	Chunks   int    `json:"chunks"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

const (
	StatusIndexed = "indexed"
	StatusFailed  = "failed"
)

// IngestService turns uploaded files into indexed, searchable chunks
// and keeps fund document counts in step.
type IngestService struct {
	funds                FundWriter
	documents            DocumentCreator
	chunks               ChunkIndexer
	chunker              *rag.Chunker
	extractor            *extract.Extractor
	embedder             ai.IEmbedder
	generator            ai.IGenerator
	store                filestore.Store
	summaryInputMaxChars int
}

func NewIngestService(funds FundWriter, documents DocumentCreator, chunks ChunkIndexer,
	chunker *rag.Chunker, extractor *extract.Extractor,
	embedder ai.IEmbedder, generator ai.IGenerator,
	store filestore.Store, summaryInputMaxChars int) *IngestService {
	if summaryInputMaxChars <= 0 {
		summaryInputMaxChars = 40000
	}
	return &IngestService{
		funds:                funds,
		documents:            documents,
		chunks:               chunks,
		chunker:              chunker,
		extractor:            extractor,
		embedder:             embedder,
		generator:            generator,
		store:                store,
		summaryInputMaxChars: summaryInputMaxChars,
	}
}

// Index splits text into chunks, embeds each one and writes the batch
// to the vector index. It returns the generated document id and the
// number of chunks written.
func (s *IngestService) Index(ctx context.Context, text string, meta rag.DocumentMeta) (string, int, error) {
	docID, chunks, err := s.chunker.Split(text, meta)
	if err != nil {
		return "", 0, err
	}
	embeddings := make([][]float32, 0, len(chunks))
	for i, chunk := range chunks {
		embedding, err := s.embedder.Embed(ctx, chunk.Content, taskRetrievalDocument)
		if err != nil {
			return "", 0, fmt.Errorf("embed chunk %d: %w", i, err)
		}
		embeddings = append(embeddings, embedding)
	}
	if err := s.chunks.AddBatch(ctx, chunks, embeddings); err != nil {
		return "", 0, err
	}
	return docID, len(chunks), nil
}

// ProcessFile extracts text from one uploaded file, indexes it and
// records the document under the fund. The extracted text is returned
// so upload callers can feed it into the initial fund summary.
func (s *IngestService) ProcessFile(ctx context.Context, fundID, fileName string, data []byte) (*model.Document, int, string, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("fund_id", fundID), zap.String("file_name", fileName))
	text, err := s.extractor.Extract(fileName, data)
	if err != nil {
		return nil, 0, "", err
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	meta := rag.DocumentMeta{
		FundID:   fundID,
		FileName: fileName,
		FileType: strings.TrimPrefix(ext, "."),
	}
	docID, chunkCount, err := s.Index(ctx, text, meta)
	if err != nil {
		return nil, 0, "", err
	}
	if s.store != nil {
		key := docID + ext
		if err := s.store.Save(ctx, key, filestore.BytesReader(data), int64(len(data))); err != nil {
			logger.Warn("failed to persist raw file", zap.String("key", key), zap.Error(err))
		}
	}
	now := time.Now().UnixMilli()
	doc := &model.Document{
		ID:        docID,
		FundID:    fundID,
		FileName:  fileName,
		FileType:  meta.FileType,
		SizeBytes: int64(len(data)),
		Ctime:     now,
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		logger.Error("failed to record document", zap.Error(err))
		s.discardChunks(ctx, docID)
		return nil, 0, "", err
	}
	if err := s.funds.IncrementDocumentCount(ctx, fundID, now); err != nil {
		logger.Error("failed to bump document count", zap.Error(err))
		s.discardChunks(ctx, docID)
		return nil, 0, "", err
	}
	logger.Info("document indexed", zap.String("doc_id", docID), zap.Int("chunks", chunkCount))
	return doc, chunkCount, text, nil
}

// discardChunks removes chunks already written for a document whose
// metadata never landed, so nothing retrievable outlives its document
// record. Best effort; a failure here only leaves garbage to report.
func (s *IngestService) discardChunks(ctx context.Context, docID string) {
	if deleted, err := s.chunks.DeleteByDoc(ctx, docID); err != nil {
		logutil.GetLogger(ctx).Warn("failed to discard chunks for unrecorded document",
			zap.String("doc_id", docID), zap.Error(err))
	} else if deleted > 0 {
		logutil.GetLogger(ctx).Info("discarded chunks for unrecorded document",
			zap.String("doc_id", docID), zap.Int64("chunks", deleted))
	}
}

// CreateFundFromFiles creates a fund and indexes every uploaded file,
// reporting a per-file status. An initial summary is generated from
// the extracted texts; summary failures are logged and never fail the
// upload.
func (s *IngestService) CreateFundFromFiles(ctx context.Context, fundName string, files []UploadFile) (*model.Fund, []FileStatus, error) {
	fundName = strings.TrimSpace(fundName)
	if fundName == "" {
		return nil, nil, fmt.Errorf("%w: fund_name is required", appErr.ErrInvalid)
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("%w: at least one file is required", appErr.ErrInvalid)
	}
	now := time.Now().UnixMilli()
	fund := &model.Fund{
		ID:      uuid.NewString(),
		Name:    fundName,
		Summary: model.EmptySummary,
		Ctime:   now,
		Mtime:   now,
	}
	if err := s.funds.Create(ctx, fund); err != nil {
		return nil, nil, err
	}
	statuses, texts := s.ingestFiles(ctx, fund.ID, files)
	fund.DocumentCount = len(texts)
	if len(texts) > 0 {
		if summary := s.generateUploadSummary(ctx, texts); summary != "" {
			if err := s.funds.UpdateSummary(ctx, fund.ID, summary, time.Now().UnixMilli()); err != nil {
				logutil.GetLogger(ctx).Warn("failed to store fund summary", zap.String("fund_id", fund.ID), zap.Error(err))
			} else {
				fund.Summary = summary
			}
		}
	}
	return fund, statuses, nil
}

// AddDocuments indexes more files into an existing fund.
func (s *IngestService) AddDocuments(ctx context.Context, fundID string, files []UploadFile) ([]FileStatus, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: at least one file is required", appErr.ErrInvalid)
	}
	if _, err := s.funds.GetByID(ctx, fundID); err != nil {
		return nil, err
	}
	statuses, _ := s.ingestFiles(ctx, fundID, files)
	return statuses, nil
}

func (s *IngestService) ingestFiles(ctx context.Context, fundID string, files []UploadFile) ([]FileStatus, []string) {
	logger := logutil.GetLogger(ctx).With(zap.String("fund_id", fundID))
	statuses := make([]FileStatus, 0, len(files))
	var texts []string
	for _, file := range files {
		doc, chunkCount, text, err := s.ProcessFile(ctx, fundID, file.Name, file.Data)
		if err != nil {
			logger.Warn("file ingest failed", zap.String("file_name", file.Name), zap.Error(err))
			statuses = append(statuses, FileStatus{FileName: file.Name, Status: StatusFailed, Error: err.Error()})
			continue
		}
		statuses = append(statuses, FileStatus{
			FileName: file.Name,
			DocID:    doc.ID,
			Chunks:   chunkCount,
			Status:   StatusIndexed,
		})
		texts = append(texts, text)
	}
	return statuses, texts
}

func (s *IngestService) generateUploadSummary(ctx context.Context, texts []string) string {
	logger := logutil.GetLogger(ctx)
	combined := strings.Join(texts, "\n\n")
	if len(combined) > s.summaryInputMaxChars {
		combined = combined[:s.summaryInputMaxChars]
	}
	system, prompt := rag.BuildUploadSummaryPrompt(combined, len(texts))
	summary, err := s.generator.Complete(ctx, system, prompt)
	if err != nil {
		logger.Warn("fund summary generation failed", zap.Error(err))
		return ""
	}
	summary = strings.TrimSpace(summary)
	if summary == rag.NoAnswerSentinel {
		return ""
	}
	return summary
}
