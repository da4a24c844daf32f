package domain

// Route identifies the evidence strategy chosen for a question.
type Route string

const (
	// RouteVectorstore answers from the case-study vector store.
	RouteVectorstore Route = "vectorstore"
	// RouteWebSearch answers from live web search results.
	RouteWebSearch Route = "web_search"
	// RouteDirect answers without any retrieval (greetings, clarifications).
	RouteDirect Route = "direct"
)

// Valid reports whether r is one of the three known routes.
func (r Route) Valid() bool {
	switch r {
	case RouteVectorstore, RouteWebSearch, RouteDirect:
		return true
	}
	return false
}

// State is the execution state for a single workflow run.
// It is created fresh per question, mutated by the nodes, and discarded after
// the caller reads the terminal Result. Question and UserContext are immutable
// for the run; Route is immutable once the route node has set it.
type State struct {
	// Question is the raw user question driving the run.
	Question string

	// UserContext carries optional profile fields (industry, company size,
	// stage, goal) used both for generation grounding and retrieval filters.
	UserContext map[string]string

	// Evidence is the ordered evidence set. Mutated by the retrieve, grade
	// and web-fallback nodes; grading preserves retrieval-rank order.
	Evidence []EvidenceDocument

	// Answer is set by the generate and direct-answer nodes. The verify node
	// clears it on a failed grounding check; emptiness is the retry signal.
	Answer string

	// NeedsWebFallback is set when grading leaves no evidence standing.
	NeedsWebFallback bool

	// RetryCount is incremented only inside the verify node and is bounded
	// by MaxRetries for the run.
	RetryCount int

	// MaxRetries is the regeneration budget after failed grounding checks.
	MaxRetries int

	// Route is decided once by the route node and never re-evaluated.
	Route Route
}

// NewState creates a clean state for one question.
func NewState(question string, userContext map[string]string, maxRetries int) *State {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &State{
		Question:    question,
		UserContext: userContext,
		MaxRetries:  maxRetries,
	}
}

// ContextField returns the named user-context field, or "" when absent.
func (s *State) ContextField(key string) string {
	if s.UserContext == nil {
		return ""
	}
	return s.UserContext[key]
}

// Result returns the terminal view of the run exposed to callers.
// Raw documents are never exposed; each source carries a bounded preview.
func (s *State) Result() Result {
	sources := make([]SourceSummary, 0, len(s.Evidence))
	for _, doc := range s.Evidence {
		sources = append(sources, doc.Summary())
	}
	return Result{
		Answer:  s.Answer,
		Sources: sources,
		Route:   s.Route,
		Retries: s.RetryCount,
	}
}
