package model

// Source is a deduplicated citation for an answer; identity is
// (file_name, page_number, content_type).
type Source struct {
	DocID       string      `json:"doc_id"`
	FileName    string      `json:"file_name"`
	FileType    string      `json:"file_type"`
	PageNumber  string      `json:"page_number,omitempty"`
	ContentType ContentType `json:"content_type"`
	ChunkIndex  int         `json:"chunk_index"`
	TotalChunks int         `json:"total_chunks"`
}
