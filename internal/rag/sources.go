package rag

import (
	"strings"

	"github.com/SujJR/fundchat/internal/model"
)

// DedupeSources collapses chunk metadata into unique citations keyed by
// (file_name, page_number, content_type), preserving first-seen order.
func DedupeSources(chunks []model.Chunk) []model.Source {
	seen := make(map[string]bool, len(chunks))
	sources := make([]model.Source, 0, len(chunks))
	for _, chunk := range chunks {
		key := strings.Join([]string{chunk.FileName, chunk.PageNumber, string(chunk.ContentType)}, "|")
		if seen[key] {
			continue
		}
		seen[key] = true
		sources = append(sources, model.Source{
			DocID:       chunk.DocID,
			FileName:    chunk.FileName,
			FileType:    chunk.FileType,
			PageNumber:  chunk.PageNumber,
			ContentType: chunk.ContentType,
			ChunkIndex:  chunk.ChunkIndex,
			TotalChunks: chunk.TotalChunks,
		})
	}
	return sources
}
