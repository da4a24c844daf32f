package runtime

import (
	"context"

	"github.com/futuretree/advisor/pkg/domain"
)

// webFallbackNode searches the web for the literal question text and appends
// the results to whatever evidence already exists. Provider failures never
// abort the run: the state is returned unchanged and generation proceeds
// with the evidence at hand, possibly none.
func (e *Engine) webFallbackNode(ctx context.Context, s *domain.State) (edge, error) {
	defer func() { s.NeedsWebFallback = false }()

	results, err := e.searcher.Search(ctx, s.Question, e.params.WebResultLimit)
	if err != nil {
		e.logger.Warn("web search failed, continuing with existing evidence",
			"err", err, "evidence", len(s.Evidence))
		return edgeNext, nil
	}

	for _, r := range results {
		s.Evidence = append(s.Evidence, domain.EvidenceDocument{
			Content: r.Content,
			Metadata: map[string]any{
				domain.MetaURL:    r.URL,
				domain.MetaSource: "web_search",
			},
			Origin: domain.OriginWeb,
		})
	}
	return edgeNext, nil
}
