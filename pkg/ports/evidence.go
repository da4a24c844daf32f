package ports

import (
	"context"

	"github.com/futuretree/advisor/pkg/domain"
)

// RetrievalQuery describes one similarity search against the case-study store.
type RetrievalQuery struct {
	// Text is embedded by the implementation before searching.
	Text string

	// K bounds the number of results.
	K int

	// Threshold is the minimum cosine similarity a row must reach.
	Threshold float64

	// Filters are optional equality filters (e.g. industry), ANDed together.
	Filters map[string]string
}

// Retriever embeds a query and runs vector similarity search.
// Results are ranked ascending by vector distance and carry their raw
// similarity score in metadata. An empty result set is not an error.
type Retriever interface {
	Search(ctx context.Context, q RetrievalQuery) ([]domain.EvidenceDocument, error)
}

// WebResult is a single snippet returned by a WebSearcher.
type WebResult struct {
	Title   string
	URL     string
	Content string
}

// WebSearcher runs a live web search. Providers may fail (network, auth,
// quota); callers must catch the error and continue degraded, never abort
// the run because of it.
type WebSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]WebResult, error)
}
