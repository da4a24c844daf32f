// Package testutils provides deterministic port fakes for workflow tests.
package testutils

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/futuretree/advisor/pkg/domain"
	"github.com/futuretree/advisor/pkg/ports"
)

// FakeClassifier scripts the three classifier decisions.
type FakeClassifier struct {
	mu sync.Mutex

	// Route returned by ClassifyRoute. Defaults to vectorstore.
	Route domain.Route
	// RouteErr, when set, is returned by ClassifyRoute.
	RouteErr error

	// RelevantFn decides relevance per document. Nil means everything is
	// relevant.
	RelevantFn func(document string) bool
	// GradeErr, when set, is returned by GradeRelevance.
	GradeErr error

	// GroundedSeq is consumed one verdict per CheckGrounding call; when
	// exhausted, verdicts are grounded.
	GroundedSeq []bool
	// GroundErr, when set, is returned by CheckGrounding.
	GroundErr error

	GradeCalls  int
	GroundCalls int
}

var _ ports.Classifier = (*FakeClassifier)(nil)

func (f *FakeClassifier) ClassifyRoute(_ context.Context, _ string) (domain.Route, error) {
	if f.RouteErr != nil {
		return "", f.RouteErr
	}
	if f.Route == "" {
		return domain.RouteVectorstore, nil
	}
	return f.Route, nil
}

func (f *FakeClassifier) GradeRelevance(_ context.Context, _, document string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GradeCalls++
	if f.GradeErr != nil {
		return false, f.GradeErr
	}
	if f.RelevantFn == nil {
		return true, nil
	}
	return f.RelevantFn(document), nil
}

func (f *FakeClassifier) CheckGrounding(_ context.Context, _, _ string) (ports.Grounding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GroundErr != nil {
		return ports.Grounding{}, f.GroundErr
	}
	call := f.GroundCalls
	f.GroundCalls++
	if call < len(f.GroundedSeq) {
		return ports.Grounding{Grounded: f.GroundedSeq[call], Explanation: "scripted"}, nil
	}
	return ports.Grounding{Grounded: true}, nil
}

// FakeRetriever returns a fixed document set.
type FakeRetriever struct {
	Docs []domain.EvidenceDocument
	Err  error

	LastQuery ports.RetrievalQuery
	Calls     int
}

var _ ports.Retriever = (*FakeRetriever)(nil)

func (f *FakeRetriever) Search(_ context.Context, q ports.RetrievalQuery) ([]domain.EvidenceDocument, error) {
	f.Calls++
	f.LastQuery = q
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Docs, nil
}

// FakeSearcher returns fixed web results.
type FakeSearcher struct {
	Results []ports.WebResult
	Err     error
	Calls   int
}

var _ ports.WebSearcher = (*FakeSearcher)(nil)

func (f *FakeSearcher) Search(_ context.Context, _ string, limit int) ([]ports.WebResult, error) {
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	if limit > 0 && limit < len(f.Results) {
		return f.Results[:limit], nil
	}
	return f.Results, nil
}

// FakeGenerator echoes a canned answer, tracking how many times it ran.
type FakeGenerator struct {
	Answer    string
	DirectAns string
	Err       error

	Calls       int
	DirectCalls int
	LastReq     ports.GenerateRequest
}

var _ ports.Generator = (*FakeGenerator)(nil)

func (f *FakeGenerator) Generate(_ context.Context, req ports.GenerateRequest) (string, error) {
	f.Calls++
	f.LastReq = req
	if f.Err != nil {
		return "", f.Err
	}
	if f.Answer != "" {
		return f.Answer, nil
	}
	return fmt.Sprintf("answer #%d", f.Calls), nil
}

func (f *FakeGenerator) GenerateDirect(_ context.Context, question string) (string, error) {
	f.DirectCalls++
	if f.Err != nil {
		return "", f.Err
	}
	if f.DirectAns != "" {
		return f.DirectAns, nil
	}
	return "direct: " + question, nil
}

// Docs builds retrieval-origin evidence documents from content strings.
func Docs(contents ...string) []domain.EvidenceDocument {
	docs := make([]domain.EvidenceDocument, len(contents))
	for i, c := range contents {
		docs[i] = domain.EvidenceDocument{
			Content:  c,
			Metadata: map[string]any{domain.MetaID: fmt.Sprintf("doc-%d", i), domain.MetaSimilarity: 0.9 - float64(i)*0.05},
			Origin:   domain.OriginRetrieval,
		}
	}
	return docs
}

// ContainsAny reports whether text contains any of the needles; a helper for
// relevance scripting.
func ContainsAny(text string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
