package ports

import "context"

// GenerateRequest carries everything the generator needs to produce a
// grounded answer.
type GenerateRequest struct {
	// Question is the raw user question.
	Question string

	// EvidenceBlock is the concatenated evidence documents, delimiter
	// separated. Empty when no evidence survived retrieval and web fallback.
	EvidenceBlock string

	// ContextSummary is the human-readable rendering of the user context
	// fields, or empty when no context was supplied.
	ContextSummary string
}

// Generator produces free-text answers from a text model.
type Generator interface {
	// Generate answers the question from the assembled evidence, citing it
	// and admitting when the evidence is insufficient.
	Generate(ctx context.Context, req GenerateRequest) (string, error)

	// GenerateDirect answers without any evidence, as a generic helpful
	// advisor. Used for greetings and self-contained questions.
	GenerateDirect(ctx context.Context, question string) (string, error)
}
