package main

import (
	"fmt"
	"path"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"fathomsync/internal/coco"
	"fathomsync/internal/gcs"
	"fathomsync/internal/logging"
	"fathomsync/internal/transfer"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var split string

	cmd := &cobra.Command{
		Use:   "upload <dataset.json>",
		Short: "Stream manifest images from their source URLs straight into the GCS bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireStorage(); err != nil {
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
			manifest, err := coco.Load(manifestPath)
			if err != nil {
				return err
			}
			manifest = manifest.Limit(limit)

			client, err := gcs.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			prefix := path.Join(cfg.Storage.Prefix, split+"_images") + "/"
			sink, err := gcs.NewSink(cmd.Context(), client, prefix)
			if err != nil {
				return err
			}
			logger.Info("prefetched existing objects",
				logging.String("prefix", "gs://"+cfg.Storage.Bucket+"/"+prefix),
				logging.Int("existing", sink.Existing()))

			pipeline := transfer.NewPipeline(
				transfer.NewFetcher(nil, time.Duration(cfg.Transfer.RequestTimeout)*time.Second, cfg.Transfer.UserAgent),
				sink,
				transfer.NewBudget(cfg.Transfer.Concurrency),
				logger,
			)
			summary := pipeline.Run(cmd.Context(), transfer.UploadTasks(manifest, cfg.Storage.Prefix, split))

			writeSummary(cmd.OutOrStdout(), "Uploaded", summary, stdoutIsTerminal())
			fmt.Fprintf(cmd.OutOrStdout(), "Destination: gs://%s/%s\n", cfg.Storage.Bucket, prefix)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Process at most N images from the manifest (0 = all)")
	cmd.Flags().StringVar(&split, "split", "train", "Dataset split; objects land under <prefix>/<split>_images/")
	return cmd
}
