package rag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlanBroadQueryWidens(t *testing.T) {
	k, filter := Plan("Summarize the fund", "fund-1", 5, nil, 1)
	require.Equal(t, 10, k)
	require.Equal(t, "fund-1", filter.FundID)
	require.Empty(t, filter.DocIDs)
}

func TestPlanBroadKeywordCaseInsensitive(t *testing.T) {
	k, _ := Plan("Give me an OVERVIEW of holdings", "fund-1", 3, nil, 1)
	require.Equal(t, 10, k)
}

func TestPlanMultiDocumentWidens(t *testing.T) {
	k, _ := Plan("what were the quarterly revenues", "fund-1", 5, nil, 3)
	require.Equal(t, 15, k)
}

func TestPlanMultiDocumentCap(t *testing.T) {
	k, _ := Plan("list the fees", "fund-1", 5, nil, 10)
	require.Equal(t, 15, k)
}

func TestPlanDocFilterSuppressesMultiDocWidening(t *testing.T) {
	k, filter := Plan("list the fees", "fund-1", 5, []string{"doc-1"}, 3)
	require.Equal(t, 5, k)
	require.Equal(t, []string{"doc-1"}, filter.DocIDs)
}

func TestPlanNeverBelowRequested(t *testing.T) {
	k, _ := Plan("summarize everything", "fund-1", 20, nil, 3)
	require.Equal(t, 20, k)
}

func TestPlanWideningsCompose(t *testing.T) {
	// Broad keyword lifts to 10, two documents lift to 10 as well.
	k, _ := Plan("summarize the fund", "fund-1", 1, nil, 2)
	require.Equal(t, 10, k)

	// Three documents win over the broad floor.
	k, _ = Plan("summarize the fund", "fund-1", 1, nil, 3)
	require.Equal(t, 15, k)
}

func TestPlanDeterministic(t *testing.T) {
	k1, f1 := Plan("describe the strategy", "fund-1", 5, []string{"doc-1"}, 4)
	k2, f2 := Plan("describe the strategy", "fund-1", 5, []string{"doc-1"}, 4)
	require.Equal(t, k1, k2)
	require.Equal(t, f1, f2)
}
