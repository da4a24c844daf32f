// Package graph renders the workflow topology as a Mermaid diagram.
package graph

import (
	"fmt"
	"strings"

	"github.com/futuretree/advisor/internal/runtime"
)

// decisionNodes fan out on a classifier verdict and render as diamonds.
var decisionNodes = map[string]bool{
	"route":  true,
	"grade":  true,
	"verify": true,
}

// GenerateMermaid produces a Mermaid flowchart (graph TD) from the workflow
// transition table. Decision nodes render as diamonds, terminals as circles,
// and the retry edge as a dashed arrow.
func GenerateMermaid(transitions []runtime.Transition) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	declared := make(map[string]bool)
	declare := func(id string) {
		if declared[id] {
			return
		}
		declared[id] = true

		opener, closer := "[", "]"
		switch {
		case id == "end":
			opener, closer = "((", "))"
		case decisionNodes[id]:
			opener, closer = "{", "}"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", mermaidID(id), opener, id, closer))
	}

	for _, t := range transitions {
		declare(t.From)
		declare(t.To)
	}
	for _, t := range transitions {
		arrow := fmt.Sprintf("-- \"%s\" -->", t.Edge)
		if t.Edge == "next" {
			arrow = "-->"
		}
		if t.Edge == "retry" {
			// The self-correction loop back into generation.
			arrow = fmt.Sprintf("-. \"%s\" .->", t.Edge)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", mermaidID(t.From), arrow, mermaidID(t.To)))
	}
	return sb.String()
}

// mermaidID keeps node ids out of Mermaid's reserved words; "end" breaks
// flowchart parsing when used bare.
func mermaidID(id string) string {
	if id == "end" {
		return "_end"
	}
	return id
}
