package runtime

import (
	"context"
	"strings"

	"github.com/futuretree/advisor/pkg/domain"
)

// verifyNode checks that the generated answer is grounded in the evidence.
// With no evidence or no answer to check there is nothing to verify and the
// node counts as a pass.
//
// An ungrounded verdict within budget increments the retry count and clears
// the answer; that emptiness is the retry signal. Once the budget is hit the run
// terminates accepting the last generated answer, an explicit best-effort
// policy rather than silent failure. A grounding check the classifier cannot
// parse is treated as a pass with no state mutation.
func (e *Engine) verifyNode(ctx context.Context, s *domain.State) (edge, error) {
	if len(s.Evidence) == 0 || s.Answer == "" {
		return edgeEnd, nil
	}

	excerpt := truncate(combinedEvidence(s.Evidence), e.params.GroundingExcerptLen)
	verdict, err := e.classifier.CheckGrounding(ctx, excerpt, s.Answer)
	if err != nil {
		return "", err
	}

	if !verdict.Grounded && s.RetryCount < s.MaxRetries {
		e.logger.Debug("answer not grounded",
			"retry", s.RetryCount, "explanation", verdict.Explanation)
		s.RetryCount++
		s.Answer = ""
	}

	if s.Answer == "" && s.RetryCount < s.MaxRetries {
		return edgeRetry, nil
	}
	return edgeEnd, nil
}

func combinedEvidence(docs []domain.EvidenceDocument) string {
	parts := make([]string, len(docs))
	for i, doc := range docs {
		parts[i] = doc.Content
	}
	return strings.Join(parts, "\n\n")
}
