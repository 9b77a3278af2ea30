package gcs

import (
	"context"
	"os"
	"strings"

	"fathomsync/internal/config"
)

// AuthReport summarizes a credential verification pass.
type AuthReport struct {
	CredentialsSource string
	ProjectID         string
	Bucket            string
	BucketAccessible  bool
}

// CheckAuth verifies that a storage client can be constructed and the
// configured bucket is reachable. Constructing the client alone only proves
// credentials parse; the bucket probe proves they authorize.
func CheckAuth(ctx context.Context, cfg *config.Config) (*AuthReport, error) {
	report := &AuthReport{
		CredentialsSource: credentialsSource(cfg),
		ProjectID:         cfg.Storage.ProjectID,
		Bucket:            cfg.Storage.Bucket,
	}

	client, err := New(ctx, cfg)
	if err != nil {
		return report, err
	}
	defer client.Close()

	accessible, err := client.BucketExists(ctx)
	if err != nil {
		return report, err
	}
	report.BucketAccessible = accessible
	return report, nil
}

func credentialsSource(cfg *config.Config) string {
	if cfg != nil {
		if creds := strings.TrimSpace(cfg.Storage.CredentialsFile); creds != "" {
			return creds
		}
	}
	if creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")); creds != "" {
		return creds
	}
	return "application default"
}
