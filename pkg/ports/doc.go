/*
Package ports defines the driven ports (interfaces) for the Advisor workflow.

These interfaces decouple the core engine from external providers, allowing
the workflow to run against real model, database and search backends in
production and against deterministic fakes in tests.

# Key Interfaces

  - Classifier: Structured decisions from a text model (route label,
    relevance verdict, grounding verdict). Implementations must degrade to a
    documented default on malformed model output instead of failing.
  - Retriever: Embeds a query and runs vector similarity search over the
    case-study store.
  - WebSearcher: Live web search returning text + URL snippets.
  - Generator: Free-text answer generation.
  - AnswerCache: Optional caching of terminal results keyed by question.
*/
package ports
