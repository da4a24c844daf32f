/*
Package domain contains the core domain models for the Advisor workflow.

It defines the fundamental entities of the answer-generation run, such as the
Execution State, Evidence Documents, and the terminal Result. This package is
kept pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - State: The mutable snapshot threaded through one workflow run (question,
    evidence, answer, route, retry bookkeeping).
  - EvidenceDocument: One retrieved or web-searched text fragment plus
    provenance metadata used to ground an answer.
  - Route: The evidence strategy chosen for a question (vectorstore,
    web search, or direct).
  - Result: What the caller reads off after the run terminates.
*/
package domain
