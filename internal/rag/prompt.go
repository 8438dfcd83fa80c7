package rag

import "fmt"

// NoAnswerSentinel is the exact no-answer reply the model is instructed
// to give; it is a normal answer, not an error.
const NoAnswerSentinel = "I don't have enough information to answer this question."

const answerSystemInstruction = `You are a helpful assistant that answers questions based on the provided context from multiple documents.
The context may contain content from several different documents related to the same fund.
Use ONLY the information in the context. If information is found in multiple documents, synthesize it into one comprehensive answer.
If the information isn't in the context, say "` + NoAnswerSentinel + `"`

// BuildAnswerPrompt pairs the fixed grounding instruction with the
// assembled context and the user question.
func BuildAnswerPrompt(context string, question string) (system string, prompt string) {
	prompt = fmt.Sprintf("Context: %s\n\nUsing ONLY the information in the context above, answer the following question thoroughly and accurately.\n\nQuestion: %s", context, question)
	return answerSystemInstruction, prompt
}

// SummaryQuery is the synthetic question used to regenerate a fund
// summary through the normal retrieval pipeline.
func SummaryQuery(docCount int) string {
	if docCount > 1 {
		return fmt.Sprintf("Create a comprehensive summary of this fund that covers all %d documents. Include key information from each document.", docCount)
	}
	return "Provide a good summary of this fund based on the available document."
}

const uploadSummarySystem = "You are an assistant that creates concise fund summaries."

// BuildUploadSummaryPrompt asks for an initial fund summary straight
// from the freshly extracted document text, before anything is indexed.
func BuildUploadSummaryPrompt(combined string, docCount int) (system string, prompt string) {
	prompt = fmt.Sprintf("Create a brief summary of this fund based on the following %d document(s):\n%s", docCount, combined)
	return uploadSummarySystem, prompt
}
