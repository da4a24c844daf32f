package runtime

import "sort"

// nodeID identifies a workflow node.
type nodeID string

const (
	nodeRoute    nodeID = "route"
	nodeRetrieve nodeID = "retrieve"
	nodeGrade    nodeID = "grade"
	nodeWeb      nodeID = "web_fallback"
	nodeGenerate nodeID = "generate"
	nodeVerify   nodeID = "verify"
	nodeDirect   nodeID = "direct_answer"

	// nodeEnd is the sink; reaching it terminates the run.
	nodeEnd nodeID = "end"
)

// edge is the label a node returns to select its outgoing transition.
type edge string

const (
	// edgeNext is the single unconditional transition out of a node.
	edgeNext edge = "next"

	// Route node decisions.
	edgeVectorstore edge = "vectorstore"
	edgeWebSearch   edge = "web_search"
	edgeDirect      edge = "direct"

	// Grade node decisions.
	edgeGenerate edge = "generate"
	edgeFallback edge = "web_fallback"

	// Verify node decisions.
	edgeRetry edge = "retry"
	edgeEnd   edge = "end"
)

// Transition describes one labeled edge of the workflow graph.
type Transition struct {
	From string
	Edge string
	To   string
}

// Topology lists the full transition table in a stable order, for
// visualization and inspection.
func Topology() []Transition {
	table := transitions()

	nodes := make([]nodeID, 0, len(table))
	for from := range table {
		nodes = append(nodes, from)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })

	var out []Transition
	for _, from := range nodes {
		edges := make([]edge, 0, len(table[from]))
		for e := range table[from] {
			edges = append(edges, e)
		}
		sort.Slice(edges, func(i, j int) bool { return edges[i] < edges[j] })
		for _, e := range edges {
			out = append(out, Transition{From: string(from), Edge: string(e), To: string(table[from][e])})
		}
	}
	return out
}

// transitions maps (current node, edge label) to the next node. Built once
// and walked by the engine, so the graph shape is testable on its own.
func transitions() map[nodeID]map[edge]nodeID {
	return map[nodeID]map[edge]nodeID{
		nodeRoute: {
			edgeVectorstore: nodeRetrieve,
			edgeWebSearch:   nodeWeb,
			edgeDirect:      nodeDirect,
		},
		nodeRetrieve: {
			edgeNext: nodeGrade,
		},
		nodeGrade: {
			edgeGenerate: nodeGenerate,
			edgeFallback: nodeWeb,
		},
		nodeWeb: {
			edgeNext: nodeGenerate,
		},
		nodeGenerate: {
			edgeNext: nodeVerify,
		},
		nodeVerify: {
			edgeRetry: nodeGenerate,
			edgeEnd:   nodeEnd,
		},
		nodeDirect: {
			edgeNext: nodeEnd,
		},
	}
}
