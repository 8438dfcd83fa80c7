package model

type Document struct {
	ID        string `json:"document_id"`
	FundID    string `json:"fund_id"`
	FileName  string `json:"file_name"`
	FileType  string `json:"file_type"`
	SizeBytes int64  `json:"size_bytes"`
	Ctime     int64  `json:"ctime"`
}
