package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/futuretree/advisor/internal/cli"
	"github.com/futuretree/advisor/internal/config"
	"github.com/futuretree/advisor/internal/presentation/tui"
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask a single question and print the answer",
	RunE: func(cmd *cobra.Command, args []string) error {
		question, _ := cmd.Flags().GetString("question")
		industry, _ := cmd.Flags().GetString("industry")
		retries, _ := cmd.Flags().GetInt("max-retries")
		cfgPath, _ := cmd.Flags().GetString("config")
		logger := newLogger(cmd, false)

		if question == "" {
			return fmt.Errorf("provide a question with -q")
		}

		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		services, err := cli.Build(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer services.Close()

		var userContext map[string]string
		if industry != "" {
			userContext = map[string]string{"industry": industry}
		}

		result, err := services.Advisor.Ask(cmd.Context(), question, userContext, retries)
		if err != nil {
			return err
		}

		tui.PrintResult(result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringP("question", "q", "", "Question to ask")
	askCmd.Flags().String("industry", "", "Industry context used as a retrieval filter")
	askCmd.Flags().Int("max-retries", -1, "Regeneration budget after failed grounding checks")
}
