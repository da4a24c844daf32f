/*
Package advisor answers natural-language business-strategy questions by
combining retrieval-augmented generation with adaptive routing, relevance
filtering, and self-correction.

Each question is driven through a directed graph of decision nodes: the
question is routed to the right evidence source (vector store, web search, or
no retrieval at all), retrieved evidence is graded for relevance, web search
fills in when evidence is insufficient, an answer is generated from the
surviving evidence, and a grounding check retries generation up to a bounded
budget before accepting the best available answer.

# Quick Start

	model := anthropic.New(os.Getenv("ANTHROPIC_API_KEY"))
	store, _ := pgvector.Connect(ctx, dbURL, voyage.New(os.Getenv("VOYAGE_API_KEY")))
	searcher := tavily.New(os.Getenv("TAVILY_API_KEY"))

	a := advisor.New(model, store, searcher, model,
		advisor.WithLogger(logging.New(slog.LevelInfo)),
	)

	result, err := a.Ask(ctx, "How did a consulting firm grow from solo to 10 people?", nil, -1)

The four constructor arguments are ports (see package ports); any of them can
be replaced with a custom implementation or a test fake.
*/
package advisor
