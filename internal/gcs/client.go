package gcs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"fathomsync/internal/config"
)

// Client talks to one Google Cloud Storage bucket.
type Client struct {
	bucket string
	client *storage.Client
}

// New constructs a storage client for the configured bucket. Credentials
// follow the default chain unless storage.credentials_file points at a
// service-account key.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	bucket := strings.TrimSpace(cfg.Storage.Bucket)
	if bucket == "" {
		return nil, errors.New("storage.bucket not configured")
	}

	var opts []option.ClientOption
	if creds := strings.TrimSpace(cfg.Storage.CredentialsFile); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &Client{bucket: bucket, client: client}, nil
}

// Bucket reports the bucket this client addresses.
func (c *Client) Bucket() string {
	return c.bucket
}

// Upload writes body to the given key with a does-not-exist precondition.
// An object that appeared since the prefix listing surfaces as
// ErrObjectExists rather than an upload failure.
func (c *Client) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	obj := c.client.Bucket(c.bucket).Object(key).If(storage.Conditions{DoesNotExist: true})
	writer := obj.NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := writer.Write(body); err != nil {
		writer.Close()
		return fmt.Errorf("write gs://%s/%s: %w", c.bucket, key, err)
	}
	if err := writer.Close(); err != nil {
		if isPreconditionFailed(err) {
			return ErrObjectExists
		}
		return fmt.Errorf("finalize gs://%s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// ErrObjectExists means the destination object already existed at upload time.
var ErrObjectExists = errors.New("object already exists")

func isPreconditionFailed(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusPreconditionFailed
	}
	return strings.Contains(err.Error(), "conditionNotMet")
}

// ListPrefix returns the names of every object under the prefix. One listing
// call up front replaces a per-task existence probe.
func (c *Client) ListPrefix(ctx context.Context, prefix string) (map[string]struct{}, error) {
	existing := map[string]struct{}{}
	it := c.client.Bucket(c.bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list gs://%s/%s: %w", c.bucket, prefix, err)
		}
		existing[attrs.Name] = struct{}{}
	}
	return existing, nil
}

// BucketExists verifies the client can read the bucket's metadata.
func (c *Client) BucketExists(ctx context.Context) (bool, error) {
	_, err := c.client.Bucket(c.bucket).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrBucketNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat bucket %s: %w", c.bucket, err)
	}
	return true, nil
}

// Close releases the underlying storage client.
func (c *Client) Close() error {
	return c.client.Close()
}
