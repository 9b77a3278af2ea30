package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"fathomsync/internal/coco"
	"fathomsync/internal/config"
	"fathomsync/internal/cropstore"
	"fathomsync/internal/logging"
	"fathomsync/internal/transfer"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "download <dataset.json> <output-dir>",
		Short: "Fetch annotated images, crop each bounding box, and write a labels CSV",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			manifestPath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve manifest path: %w", err)
			}
			outputDir, err := config.ExpandPath(args[1])
			if err != nil {
				return fmt.Errorf("resolve output directory: %w", err)
			}

			manifest, err := coco.Load(manifestPath)
			if err != nil {
				return err
			}
			manifest = manifest.Limit(limit)

			tasks, dropped := transfer.CropTasks(manifest)
			if dropped > 0 {
				logger.Warn("annotations reference unknown images",
					logging.Int("dropped", dropped))
			}

			store, err := cropstore.Open(outputDir, cfg.Output.ManifestName)
			if err != nil {
				return err
			}
			defer store.Close()

			pipeline := transfer.NewPipeline(
				transfer.NewFetcher(nil, time.Duration(cfg.Transfer.RequestTimeout)*time.Second, cfg.Transfer.UserAgent),
				store,
				transfer.NewBudget(cfg.Transfer.Concurrency),
				logger,
			)
			summary := pipeline.Run(cmd.Context(), tasks)

			writeSummary(cmd.OutOrStdout(), "Saved", summary, stdoutIsTerminal())
			writeLabelBreakdown(cmd.OutOrStdout(), summary, stdoutIsTerminal())
			fmt.Fprintf(cmd.OutOrStdout(), "Labels manifest: %s (%d rows)\n", store.ManifestPath(), store.Rows())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Process at most N images from the manifest (0 = all)")
	return cmd
}
