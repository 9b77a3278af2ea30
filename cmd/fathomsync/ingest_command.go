package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"fathomsync/internal/coco"
	"fathomsync/internal/logging"
	"fathomsync/internal/platform"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var trainJSON string
	var testJSON string
	var recreate bool
	var limit int

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Register the dataset with the hosted platform; images stay in GCS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequirePlatform(); err != nil {
				return err
			}
			if err := cfg.RequireStorage(); err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			client, err := platform.NewClient(cfg, nil)
			if err != nil {
				return err
			}

			name := cfg.Platform.DatasetName
			exists, err := client.DatasetExists(cmd.Context(), name)
			if err != nil {
				return err
			}
			if exists {
				if !recreate {
					return fmt.Errorf("dataset %q already exists; pass --recreate to replace it", name)
				}
				logger.Info("deleting existing dataset", logging.String("dataset", name))
				if err := client.DeleteDataset(cmd.Context(), name); err != nil {
					return err
				}
			}

			var samples []platform.Sample
			splits := []struct {
				name string
				path string
			}{
				{"train", trainJSON},
				{"test", testJSON},
			}
			perSplit := map[string]int{}
			for _, split := range splits {
				if split.path == "" {
					continue
				}
				manifest, err := loadSplitManifest(split.path, limit)
				if err != nil {
					if errors.Is(err, os.ErrNotExist) {
						logger.Warn("split manifest not found, skipping",
							logging.String("split", split.name),
							logging.String("path", split.path))
						continue
					}
					return err
				}
				built := platform.BuildSamples(manifest, cfg.Storage.Bucket, cfg.Storage.Prefix, split.name, logger)
				samples = append(samples, built...)
				perSplit[split.name] = len(built)
			}
			if len(samples) == 0 {
				return errors.New("no samples to ingest; check the split manifest paths")
			}

			handle, err := client.CreateDataset(cmd.Context(), platform.DatasetManifest{
				Name:       name,
				Persistent: true,
				Samples:    samples,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if stdoutIsTerminal() {
				fmt.Fprintln(out, renderStatus([]statusRow{
					{"Dataset", handle.Name},
					{"Handle", handle.ID},
					{"Samples", strconv.Itoa(handle.SampleCount)},
					{"Train", strconv.Itoa(perSplit["train"])},
					{"Test", strconv.Itoa(perSplit["test"])},
				}))
			} else {
				fmt.Fprintf(out, "dataset=%s handle=%s samples=%d train=%d test=%d\n",
					handle.Name, handle.ID, handle.SampleCount, perSplit["train"], perSplit["test"])
			}
			fmt.Fprintln(out, "Images remain in GCS; the platform only records where to find them.")
			return nil
		},
	}

	cmd.Flags().StringVar(&trainJSON, "train-json", "data/dataset_train.json", "Path to the train split COCO manifest (empty to skip)")
	cmd.Flags().StringVar(&testJSON, "test-json", "data/dataset_test.json", "Path to the test split COCO manifest (empty to skip)")
	cmd.Flags().BoolVar(&recreate, "recreate", false, "Delete and recreate the dataset if it already exists")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Samples per split (0 = all)")
	return cmd
}

func loadSplitManifest(path string, limit int) (*coco.Manifest, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	manifest, err := coco.Load(path)
	if err != nil {
		return nil, err
	}
	return manifest.Limit(limit), nil
}
