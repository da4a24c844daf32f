package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futuretree/advisor/internal/runtime"
	"github.com/futuretree/advisor/internal/testutils"
	"github.com/futuretree/advisor/pkg/domain"
	"github.com/futuretree/advisor/pkg/ports"
)

func newEngine(c *testutils.FakeClassifier, r *testutils.FakeRetriever, s *testutils.FakeSearcher, g *testutils.FakeGenerator) *runtime.Engine {
	return runtime.NewEngine(c, r, s, g)
}

func TestRun_DirectRoute(t *testing.T) {
	// Scenario: greeting-style question routed straight to a direct answer.
	classifier := &testutils.FakeClassifier{Route: domain.RouteDirect}
	retriever := &testutils.FakeRetriever{}
	searcher := &testutils.FakeSearcher{}
	generator := &testutils.FakeGenerator{DirectAns: "Hello! How can I help?"}

	result, err := newEngine(classifier, retriever, searcher, generator).
		Run(context.Background(), "What's the weather today?", nil, -1)
	require.NoError(t, err)

	assert.Equal(t, "Hello! How can I help?", result.Answer)
	assert.Equal(t, domain.RouteDirect, result.Route)
	assert.Equal(t, 0, result.Retries)
	assert.Empty(t, result.Sources)
	// Direct answers are never evidence-checked.
	assert.Equal(t, 0, classifier.GroundCalls)
	assert.Equal(t, 0, retriever.Calls)
	assert.Equal(t, 1, generator.DirectCalls)
}

func TestRun_VectorstoreHappyPath(t *testing.T) {
	// Retrieval returns 5 candidates, grading keeps 3, verify passes first try.
	classifier := &testutils.FakeClassifier{
		Route: domain.RouteVectorstore,
		RelevantFn: func(doc string) bool {
			return testutils.ContainsAny(doc, "consulting", "agency", "firm")
		},
	}
	retriever := &testutils.FakeRetriever{Docs: testutils.Docs(
		"consulting firm grew from solo to 10 people",
		"agency doubled revenue through retainers",
		"bakery opened a second location",
		"firm specialized into a niche",
		"restaurant franchise economics",
	)}
	searcher := &testutils.FakeSearcher{}
	generator := &testutils.FakeGenerator{Answer: "Specialize, then hire."}

	result, err := newEngine(classifier, retriever, searcher, generator).
		Run(context.Background(), "How did a consulting firm grow from solo to 10 people?", nil, -1)
	require.NoError(t, err)

	assert.Equal(t, "Specialize, then hire.", result.Answer)
	assert.Equal(t, domain.RouteVectorstore, result.Route)
	assert.Equal(t, 0, result.Retries)
	assert.Len(t, result.Sources, 3)
	assert.Equal(t, 5, classifier.GradeCalls)
	assert.Equal(t, 0, searcher.Calls, "web fallback should not fire")
	assert.Equal(t, 1, generator.Calls)
}

func TestRun_GradeRejectsAll_WebFallbackAndOneRetry(t *testing.T) {
	// Grading keeps 0 of 5 docs, web fallback appends 3 documents, the first
	// grounding check fails, the second passes.
	classifier := &testutils.FakeClassifier{
		Route:       domain.RouteVectorstore,
		RelevantFn:  func(string) bool { return false },
		GroundedSeq: []bool{false, true},
	}
	retriever := &testutils.FakeRetriever{Docs: testutils.Docs("a", "b", "c", "d", "e")}
	searcher := &testutils.FakeSearcher{Results: []ports.WebResult{
		{Title: "one", URL: "https://example.com/1", Content: "web one"},
		{Title: "two", URL: "https://example.com/2", Content: "web two"},
		{Title: "three", URL: "https://example.com/3", Content: "web three"},
	}}
	generator := &testutils.FakeGenerator{}

	result, err := newEngine(classifier, retriever, searcher, generator).
		Run(context.Background(), "What changed in my market this year?", nil, -1)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Retries)
	assert.Equal(t, 2, generator.Calls, "one regeneration after the failed check")
	assert.NotEmpty(t, result.Answer)

	// After fallback the evidence set contains only web-origin documents.
	require.Len(t, result.Sources, 3)
	for _, src := range result.Sources {
		assert.Equal(t, domain.OriginWeb, src.Origin)
		assert.Contains(t, src.Metadata, domain.MetaURL)
	}
}

func TestRun_RetryBudgetExhausted(t *testing.T) {
	// Every grounding check fails; after the budget the last (ungrounded)
	// answer is still returned.
	classifier := &testutils.FakeClassifier{
		Route:       domain.RouteVectorstore,
		GroundedSeq: []bool{false, false, false, false, false},
	}
	retriever := &testutils.FakeRetriever{Docs: testutils.Docs("doc")}
	generator := &testutils.FakeGenerator{}

	result, err := newEngine(classifier, retriever, &testutils.FakeSearcher{}, generator).
		Run(context.Background(), "question", nil, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Retries, "retry count capped at the budget")
	assert.Equal(t, "answer #2", result.Answer, "terminates with the last generated answer")
	assert.Equal(t, 2, generator.Calls)
	assert.Equal(t, 2, classifier.GroundCalls)
}

func TestRun_ZeroRetryBudget(t *testing.T) {
	classifier := &testutils.FakeClassifier{
		Route:       domain.RouteVectorstore,
		GroundedSeq: []bool{false},
	}
	retriever := &testutils.FakeRetriever{Docs: testutils.Docs("doc")}
	generator := &testutils.FakeGenerator{Answer: "only attempt"}

	result, err := newEngine(classifier, retriever, &testutils.FakeSearcher{}, generator).
		Run(context.Background(), "question", nil, 0)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Retries)
	assert.Equal(t, "only attempt", result.Answer)
	assert.Equal(t, 1, generator.Calls)
}

func TestRun_WebSearchRoute(t *testing.T) {
	classifier := &testutils.FakeClassifier{Route: domain.RouteWebSearch}
	retriever := &testutils.FakeRetriever{}
	searcher := &testutils.FakeSearcher{Results: []ports.WebResult{
		{URL: "https://example.com", Content: "fresh news"},
	}}
	generator := &testutils.FakeGenerator{Answer: "Based on recent coverage..."}

	result, err := newEngine(classifier, retriever, searcher, generator).
		Run(context.Background(), "What did Acme announce last week?", nil, -1)
	require.NoError(t, err)

	assert.Equal(t, domain.RouteWebSearch, result.Route)
	assert.Equal(t, 0, retriever.Calls, "web route skips the vector store")
	assert.Equal(t, 1, searcher.Calls)
	require.Len(t, result.Sources, 1)
	assert.Equal(t, domain.OriginWeb, result.Sources[0].Origin)
}

func TestRun_WebSearchFailureDegrades(t *testing.T) {
	// Provider failure must not abort the run; generation proceeds with no
	// evidence and verify short-circuits.
	classifier := &testutils.FakeClassifier{Route: domain.RouteWebSearch}
	searcher := &testutils.FakeSearcher{Err: errors.New("tavily http 401")}
	generator := &testutils.FakeGenerator{Answer: "I found no grounded information for that."}

	result, err := newEngine(classifier, &testutils.FakeRetriever{}, searcher, generator).
		Run(context.Background(), "question", nil, -1)
	require.NoError(t, err)

	assert.NotEmpty(t, result.Answer)
	assert.Empty(t, result.Sources)
	assert.Equal(t, 0, classifier.GroundCalls, "nothing to verify without evidence")
}

func TestRun_EmptyRetrievalTriggersFallback(t *testing.T) {
	classifier := &testutils.FakeClassifier{Route: domain.RouteVectorstore}
	retriever := &testutils.FakeRetriever{} // no documents
	searcher := &testutils.FakeSearcher{Results: []ports.WebResult{
		{URL: "https://example.com", Content: "web doc"},
	}}
	generator := &testutils.FakeGenerator{Answer: "grounded in web doc"}

	result, err := newEngine(classifier, retriever, searcher, generator).
		Run(context.Background(), "question", nil, -1)
	require.NoError(t, err)

	assert.Equal(t, 1, searcher.Calls)
	assert.Equal(t, 0, classifier.GradeCalls, "no documents to grade")
	require.Len(t, result.Sources, 1)
	assert.Equal(t, domain.OriginWeb, result.Sources[0].Origin)
}

func TestRun_ContextFiltersReachRetriever(t *testing.T) {
	classifier := &testutils.FakeClassifier{Route: domain.RouteVectorstore}
	retriever := &testutils.FakeRetriever{Docs: testutils.Docs("doc")}
	generator := &testutils.FakeGenerator{Answer: "ok"}

	userCtx := map[string]string{"industry": "architecture", "companySize": "5"}
	_, err := newEngine(classifier, retriever, &testutils.FakeSearcher{}, generator).
		Run(context.Background(), "question", userCtx, -1)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"industry": "architecture"}, retriever.LastQuery.Filters)
	assert.Equal(t, 5, retriever.LastQuery.K)
	assert.InDelta(t, 0.7, retriever.LastQuery.Threshold, 1e-9)
	assert.Contains(t, generator.LastReq.ContextSummary, "Industry: architecture")
	assert.Contains(t, generator.LastReq.ContextSummary, "Company Size: 5")
}

func TestRun_EmptyQuestion(t *testing.T) {
	engine := newEngine(&testutils.FakeClassifier{}, &testutils.FakeRetriever{}, &testutils.FakeSearcher{}, &testutils.FakeGenerator{})
	_, err := engine.Run(context.Background(), "   ", nil, -1)
	assert.ErrorIs(t, err, domain.ErrEmptyQuestion)
}

func TestRun_FirstGenerationFaultFailsLoudly(t *testing.T) {
	classifier := &testutils.FakeClassifier{Route: domain.RouteVectorstore}
	retriever := &testutils.FakeRetriever{Docs: testutils.Docs("doc")}
	generator := &testutils.FakeGenerator{Err: errors.New("model overloaded")}

	_, err := newEngine(classifier, retriever, &testutils.FakeSearcher{}, generator).
		Run(context.Background(), "question", nil, -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestRun_ClassifierTransportFaultFailsLoudly(t *testing.T) {
	classifier := &testutils.FakeClassifier{RouteErr: errors.New("connection refused")}
	_, err := newEngine(classifier, &testutils.FakeRetriever{}, &testutils.FakeSearcher{}, &testutils.FakeGenerator{}).
		Run(context.Background(), "question", nil, -1)
	require.Error(t, err)
}

func TestRun_LateGroundingFaultReturnsBestEffort(t *testing.T) {
	// The grounding check errors out after an answer exists; the run keeps
	// the answer instead of propagating the fault.
	classifier := &testutils.FakeClassifier{
		Route:     domain.RouteVectorstore,
		GroundErr: errors.New("classifier unreachable"),
	}
	retriever := &testutils.FakeRetriever{Docs: testutils.Docs("doc")}
	generator := &testutils.FakeGenerator{Answer: "best effort"}

	result, err := newEngine(classifier, retriever, &testutils.FakeSearcher{}, generator).
		Run(context.Background(), "question", nil, -1)
	require.NoError(t, err)
	assert.Equal(t, "best effort", result.Answer)
}

func TestRun_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := newEngine(&testutils.FakeClassifier{}, &testutils.FakeRetriever{}, &testutils.FakeSearcher{}, &testutils.FakeGenerator{})
	_, err := engine.Run(ctx, "question", nil, -1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_RetryCountNeverExceedsBudget(t *testing.T) {
	for _, budget := range []int{0, 1, 2, 3, 5} {
		classifier := &testutils.FakeClassifier{
			Route:       domain.RouteVectorstore,
			GroundedSeq: []bool{false, false, false, false, false, false, false, false},
		}
		retriever := &testutils.FakeRetriever{Docs: testutils.Docs("doc")}

		result, err := newEngine(classifier, retriever, &testutils.FakeSearcher{}, &testutils.FakeGenerator{}).
			Run(context.Background(), "question", nil, budget)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.Retries, 0)
		assert.LessOrEqual(t, result.Retries, budget, "budget %d", budget)
		assert.NotEmpty(t, result.Answer, "budget %d", budget)
	}
}
