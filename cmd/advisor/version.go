package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	advisorpkg "github.com/futuretree/advisor"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of advisor",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("advisor version %s\n", strings.TrimSpace(advisorpkg.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
