package model

// EmptySummary is the placeholder a fund carries until a real summary
// has been generated from its documents.
const EmptySummary = "Empty"

type Fund struct {
	ID            string `json:"fund_id"`
	Name          string `json:"fund_name"`
	Summary       string `json:"summary"`
	DocumentCount int    `json:"document_count"`
	Ctime         int64  `json:"ctime"`
	Mtime         int64  `json:"mtime"`
}
