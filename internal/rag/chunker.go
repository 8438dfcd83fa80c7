package rag

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"

	"github.com/SujJR/fundchat/internal/model"
	appErr "github.com/SujJR/fundchat/internal/pkg/errors"
)

const (
	chunkSize    = 1000
	chunkOverlap = 200
)

// DocumentMeta is the caller-supplied metadata attached to every chunk
// produced from one upload.
type DocumentMeta struct {
	FundID   string
	FileName string
	FileType string
}

// Chunker splits raw extracted text into overlapping retrieval chunks.
// Splitting prefers paragraph, then line, then word boundaries, keeping
// separators so chunk text stays readable.
type Chunker struct {
	splitter textsplitter.RecursiveCharacter
}

func NewChunker() *Chunker {
	return &Chunker{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators([]string{"\n\n", "\n", " ", ""}),
			textsplitter.WithKeepSeparator(true),
		),
	}
}

// Split assigns a fresh document id and returns it with the fully
// annotated chunk list. Empty or whitespace-only text is rejected with
// ErrEmptyContent and must not be indexed.
func (c *Chunker) Split(text string, meta DocumentMeta) (string, []model.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil, appErr.ErrEmptyContent
	}
	parts, err := c.splitter.SplitText(text)
	if err != nil {
		return "", nil, fmt.Errorf("split text: %w", err)
	}
	docID := uuid.NewString()
	chunks := make([]model.Chunk, 0, len(parts))
	for i, part := range parts {
		chunks = append(chunks, model.Chunk{
			ID:          fmt.Sprintf("%s_%d", docID, i),
			DocID:       docID,
			FundID:      meta.FundID,
			FileName:    meta.FileName,
			FileType:    meta.FileType,
			ChunkIndex:  i,
			TotalChunks: len(parts),
			ContentType: model.ContentTypeText,
			Content:     part,
		})
	}
	return docID, chunks, nil
}
