package rag

import (
	"strings"

	"github.com/SujJR/fundchat/internal/model"
)

// Queries containing any of these ask for broad context rather than a
// point answer, so retrieval is widened.
var broadeningKeywords = []string{"summarize", "summary", "overview", "describe", "what is"}

const (
	broadQueryMinK  = 10
	multiDocCapK    = 15
	multiDocPerDocK = 5
)

// Plan decides how many chunks to retrieve and how to scope the search.
// Pure: same inputs always yield the same plan, and the effective k is
// never below requestedK.
//
// Two widenings compose: broad queries get at least broadQueryMinK, and
// a whole-fund query over a multi-document fund gets up to
// multiDocPerDocK chunks per document, capped at multiDocCapK.
func Plan(query string, fundID string, requestedK int, docIDs []string, docCount int) (int, model.SearchFilter) {
	k := requestedK
	lowered := strings.ToLower(query)
	for _, keyword := range broadeningKeywords {
		if strings.Contains(lowered, keyword) {
			if k < broadQueryMinK {
				k = broadQueryMinK
			}
			break
		}
	}
	if docCount > 1 && len(docIDs) == 0 {
		widened := multiDocPerDocK * docCount
		if widened > multiDocCapK {
			widened = multiDocCapK
		}
		if widened > k {
			k = widened
		}
	}
	return k, model.SearchFilter{FundID: fundID, DocIDs: docIDs}
}
