package runtime

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/futuretree/advisor/pkg/domain"
)

// gradeNode filters the retrieved evidence down to documents the classifier
// judges relevant to the question. Grades are independent and side-effect
// free, so they run concurrently; the kept set is reassembled in
// retrieval-rank order.
//
// Relevance grading fails open: a document whose grade cannot be parsed is
// included. Losing an answer is worse than carrying one extra document.
func (e *Engine) gradeNode(ctx context.Context, s *domain.State) (edge, error) {
	if len(s.Evidence) == 0 {
		s.NeedsWebFallback = true
		return edgeFallback, nil
	}

	keep := make([]bool, len(s.Evidence))
	g, gctx := errgroup.WithContext(ctx)
	for i, doc := range s.Evidence {
		g.Go(func() error {
			relevant, err := e.classifier.GradeRelevance(gctx, s.Question, truncate(doc.Content, e.params.GradePrefixLen))
			if err != nil {
				return err
			}
			keep[i] = relevant
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	kept := s.Evidence[:0:0]
	for i, doc := range s.Evidence {
		if keep[i] {
			kept = append(kept, doc)
		}
	}

	s.Evidence = kept
	if len(kept) == 0 {
		s.NeedsWebFallback = true
		return edgeFallback, nil
	}
	return edgeGenerate, nil
}

func truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	return text[:limit]
}
