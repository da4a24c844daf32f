package ports

import (
	"context"

	"github.com/futuretree/advisor/pkg/domain"
)

// Grounding is the verdict of a grounding (hallucination) check.
// The explanation is informational only and never drives control flow.
type Grounding struct {
	Grounded    bool
	Explanation string
}

// Classifier asks a text model for structured decisions.
//
// Every method owns its malformed-output policy: implementations centralize
// the fail-open/fail-closed defaults at the port boundary instead of
// scattering fallback literals through the workflow. The documented defaults
// are: route -> RouteVectorstore, relevance -> true (include), grounding ->
// grounded (pass-through).
type Classifier interface {
	// ClassifyRoute picks the evidence strategy for a question.
	ClassifyRoute(ctx context.Context, question string) (domain.Route, error)

	// GradeRelevance judges whether a document helps answer the question.
	// The document is already truncated by the caller to bound prompt size.
	GradeRelevance(ctx context.Context, question, document string) (bool, error)

	// CheckGrounding judges whether the answer is supported by the evidence
	// excerpt.
	CheckGrounding(ctx context.Context, evidence, answer string) (Grounding, error)
}
