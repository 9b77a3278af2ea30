package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fathomsync/internal/gcs"
)

func newAuthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Verify cloud storage and platform credentials actually authorize",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireStorage(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			report, err := gcs.CheckAuth(cmd.Context(), cfg)
			fmt.Fprintf(out, "Credentials: %s\n", report.CredentialsSource)
			if report.ProjectID != "" {
				fmt.Fprintf(out, "Project: %s\n", report.ProjectID)
			}
			if err != nil {
				fmt.Fprintln(out, "Storage auth FAILED.")
				fmt.Fprintln(out, "Tip: run 'gcloud auth application-default login' or set GOOGLE_APPLICATION_CREDENTIALS")
				return err
			}
			if report.BucketAccessible {
				fmt.Fprintf(out, "Verified access to bucket gs://%s\n", report.Bucket)
			} else {
				fmt.Fprintf(out, "Authenticated, but bucket gs://%s was not found\n", report.Bucket)
			}

			if platformErr := cfg.RequirePlatform(); platformErr == nil {
				fmt.Fprintf(out, "Platform: %s (API key configured)\n", cfg.Platform.APIURI)
			} else {
				fmt.Fprintln(out, "Platform credentials not configured; ingest will be unavailable.")
			}
			return nil
		},
	}
}
