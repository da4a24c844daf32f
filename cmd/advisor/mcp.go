package main

import (
	"github.com/spf13/cobra"

	advisorpkg "github.com/futuretree/advisor"
	mcpAdapter "github.com/futuretree/advisor/internal/adapters/mcp"
	"github.com/futuretree/advisor/internal/cli"
	"github.com/futuretree/advisor/internal/config"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server on stdio",
	Long:  `Exposes the chat workflow as an MCP tool so agent hosts can call it over stdin/stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, _ := cmd.Flags().GetString("config")
		logger := newLogger(cmd, false)

		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		services, err := cli.Build(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer services.Close()

		return mcpAdapter.NewServer(services.Advisor, advisorpkg.Version).ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
