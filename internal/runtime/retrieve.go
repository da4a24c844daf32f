package runtime

import (
	"context"

	"github.com/futuretree/advisor/pkg/domain"
	"github.com/futuretree/advisor/pkg/ports"
)

// retrieveNode embeds the question and runs similarity search over the
// case-study store. The industry field of the user context, when present,
// narrows the search. An empty result set is valid and propagates to
// grading; retrieval never fails the run.
func (e *Engine) retrieveNode(ctx context.Context, s *domain.State) (edge, error) {
	query := ports.RetrievalQuery{
		Text:      s.Question,
		K:         e.params.RetrievalK,
		Threshold: e.params.SimilarityThreshold,
	}
	if industry := s.ContextField("industry"); industry != "" {
		query.Filters = map[string]string{"industry": industry}
	}

	docs, err := e.retriever.Search(ctx, query)
	if err != nil {
		e.logger.Warn("retrieval failed, continuing without documents", "err", err)
		s.Evidence = nil
		return edgeNext, nil
	}

	s.Evidence = docs
	return edgeNext, nil
}
