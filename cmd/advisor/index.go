package main

import (
	"github.com/spf13/cobra"

	"github.com/futuretree/advisor/internal/adapters/voyage"
	"github.com/futuretree/advisor/internal/cli"
	"github.com/futuretree/advisor/internal/config"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed case studies that are missing vectors",
	Long:  `Finds case-study rows whose embedding column is NULL, embeds their summaries, and writes the vectors back.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		batch, _ := cmd.Flags().GetInt("batch")
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

		ctx := cmd.Context()
		total := 0
		for {
			ids, summaries, err := services.Store.MissingEmbeddings(ctx, batch)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				break
			}

			vectors, err := services.Embedder.Embed(ctx, summaries, voyage.InputDocument)
			if err != nil {
				return err
			}
			for i, id := range ids {
				if err := services.Store.StoreEmbedding(ctx, id, vectors[i]); err != nil {
					return err
				}
			}
			total += len(ids)
			logger.Info("indexed batch", "count", len(ids), "total", total)
		}

		logger.Info("indexing complete", "total", total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().Int("batch", 64, "Rows to embed per batch")
}
