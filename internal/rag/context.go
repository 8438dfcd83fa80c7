package rag

import (
	"fmt"
	"strings"

	"github.com/SujJR/fundchat/internal/model"
)

// AssembleContext renders retrieved chunks into one prompt context.
// Chunks are grouped by file name in first-seen order (retrieval-score
// order of each document's first hit), each group headed by a document
// marker, each chunk tagged by its content type. Deterministic for a
// given chunk order.
func AssembleContext(chunks []model.Chunk) string {
	groups := make(map[string][]model.Chunk)
	order := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if _, seen := groups[chunk.FileName]; !seen {
			order = append(order, chunk.FileName)
		}
		groups[chunk.FileName] = append(groups[chunk.FileName], chunk)
	}

	var parts []string
	for _, name := range order {
		parts = append(parts, fmt.Sprintf("\n--- DOCUMENT: %s ---\n", name))
		for _, chunk := range groups[name] {
			page := chunk.PageNumber
			if page == "" {
				page = "Unknown page"
			}
			switch chunk.ContentType {
			case model.ContentTypeTable:
				parts = append(parts, fmt.Sprintf("[TABLE from page %s, chunk %d]:\n%s", page, chunk.ChunkIndex, chunk.Content))
			case model.ContentTypeImage:
				// Image bytes are resolved separately by file path;
				// the context only carries the reference.
				parts = append(parts, fmt.Sprintf("[IMAGE from page %s, chunk %d]", page, chunk.ChunkIndex))
			default:
				parts = append(parts, fmt.Sprintf("[CONTENT from page %s, chunk %d]:\n%s", page, chunk.ChunkIndex, chunk.Content))
			}
		}
	}
	return strings.Join(parts, "\n\n")
}
