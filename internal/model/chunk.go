package model

type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypeTable ContentType = "table"
	ContentTypeImage ContentType = "image"
)

// Chunk is one indexed slice of a document. All chunks of a document
// share DocID; ChunkIndex is a dense 0-based sequence within it.
type Chunk struct {
	ID          string      `json:"chunk_id"`
	DocID       string      `json:"doc_id"`
	FundID      string      `json:"fund_id"`
	FileName    string      `json:"file_name"`
	FileType    string      `json:"file_type"`
	ChunkIndex  int         `json:"chunk_index"`
	TotalChunks int         `json:"total_chunks"`
	ContentType ContentType `json:"content_type"`
	PageNumber  string      `json:"page_number,omitempty"`
	Content     string      `json:"content"`
}

// SearchFilter scopes a similarity search to a fund and optionally to a
// subset of its documents. Built per query, never persisted.
type SearchFilter struct {
	FundID string
	DocIDs []string
}
