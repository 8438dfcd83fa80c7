package rag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildAnswerPrompt(t *testing.T) {
	system, prompt := BuildAnswerPrompt("CTX", "What is the fee?")
	require.Contains(t, system, NoAnswerSentinel)
	require.Contains(t, prompt, "Context: CTX")
	require.Contains(t, prompt, "Question: What is the fee?")
}

func TestSummaryQueryByDocCount(t *testing.T) {
	single := SummaryQuery(1)
	multi := SummaryQuery(4)
	require.NotEqual(t, single, multi)
	require.Contains(t, multi, "4 documents")
}
