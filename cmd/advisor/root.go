package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/futuretree/advisor/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "Advisor answers business-strategy questions with agentic RAG",
	Long: `Advisor routes each question to the right evidence source (case-study
vector store, live web search, or none), grades the evidence for relevance,
generates an answer, and verifies the answer is grounded before returning it.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "advisor.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
}

func newLogger(cmd *cobra.Command, json bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	if json {
		return logging.NewJSON(level)
	}
	return logging.New(level)
}
