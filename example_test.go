package advisor_test

import (
	"context"
	"fmt"

	advisor "github.com/futuretree/advisor"
	"github.com/futuretree/advisor/internal/adapters/memory"
	"github.com/futuretree/advisor/internal/testutils"
	"github.com/futuretree/advisor/pkg/domain"
)

// Demonstrates running a question through the workflow with custom port
// implementations; scripted fakes stand in for the model providers.
func Example() {
	a := advisor.New(
		&testutils.FakeClassifier{},
		&testutils.FakeRetriever{Docs: testutils.Docs("Acme doubled revenue by focusing on annual contracts.")},
		&testutils.FakeSearcher{},
		&testutils.FakeGenerator{Answer: "Push customers toward annual contracts."},
	)

	result, err := a.Ask(context.Background(), "How do I improve cash flow?", nil, -1)
	if err != nil {
		panic(err)
	}

	fmt.Println(result.Answer)
	fmt.Println(result.Route)
	// Output:
	// Push customers toward annual contracts.
	// vectorstore
}

// Demonstrates answer caching: the second identical question is served from
// the cache without touching the generator.
func Example_withCache() {
	gen := &testutils.FakeGenerator{DirectAns: "Hire a fractional CFO first."}
	a := advisor.New(
		&testutils.FakeClassifier{Route: domain.RouteDirect},
		&testutils.FakeRetriever{},
		&testutils.FakeSearcher{},
		gen,
		advisor.WithCache(memory.NewCache()),
	)

	for i := 0; i < 2; i++ {
		if _, err := a.Ask(context.Background(), "Do I need a CFO?", nil, -1); err != nil {
			panic(err)
		}
	}

	fmt.Println(gen.DirectCalls)
	// Output:
	// 1
}
