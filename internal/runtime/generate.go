package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/futuretree/advisor/pkg/domain"
	"github.com/futuretree/advisor/pkg/ports"
)

// docDelimiter separates evidence documents inside the assembled block.
const docDelimiter = "\n\n---\n\n"

// contextFields are the user-context fields rendered into the summary, in
// display order.
var contextFields = []struct {
	key   string
	label string
}{
	{"industry", "Industry"},
	{"companySize", "Company Size"},
	{"currentStage", "Current Stage"},
	{"primaryGoal", "Primary Goal"},
}

// generateNode assembles the evidence block and context summary and asks the
// generator for an answer. Retries re-enter here with the same evidence;
// nothing is re-fetched between attempts.
func (e *Engine) generateNode(ctx context.Context, s *domain.State) (edge, error) {
	answer, err := e.generator.Generate(ctx, ports.GenerateRequest{
		Question:       s.Question,
		EvidenceBlock:  evidenceBlock(s.Evidence),
		ContextSummary: contextSummary(s.UserContext),
	})
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	s.Answer = answer
	return edgeNext, nil
}

// directAnswerNode answers without evidence and terminates immediately.
// Direct answers never pass through grounding verification.
func (e *Engine) directAnswerNode(ctx context.Context, s *domain.State) (edge, error) {
	answer, err := e.generator.GenerateDirect(ctx, s.Question)
	if err != nil {
		return "", fmt.Errorf("direct answer: %w", err)
	}

	s.Answer = answer
	return edgeNext, nil
}

func evidenceBlock(docs []domain.EvidenceDocument) string {
	if len(docs) == 0 {
		return ""
	}
	parts := make([]string, len(docs))
	for i, doc := range docs {
		parts[i] = doc.Content
	}
	return strings.Join(parts, docDelimiter)
}

func contextSummary(userContext map[string]string) string {
	if len(userContext) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("User Context:\n")
	for _, f := range contextFields {
		value := userContext[f.key]
		if value == "" {
			value = "Not specified"
		}
		fmt.Fprintf(&b, "- %s: %s\n", f.label, value)
	}
	return b.String()
}
