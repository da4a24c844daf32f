package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/futuretree/advisor/internal/presentation/graph"
	"github.com/futuretree/advisor/internal/runtime"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the workflow graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the answer-generation workflow.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(graph.GenerateMermaid(runtime.Topology()))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
