package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fathomsync/internal/config"
)

// HTTPDoer describes the HTTP client used by the platform service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a minimal REST client for the dataset platform.
type Client struct {
	baseURL string
	apiKey  string
	client  HTTPDoer
}

// NewClient builds a platform client from configuration. A nil doer gets a
// default client with the configured timeout.
func NewClient(cfg *config.Config, client HTTPDoer) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := cfg.RequirePlatform(); err != nil {
		return nil, err
	}
	if client == nil {
		client = &http.Client{Timeout: time.Duration(cfg.Platform.RequestTimeout) * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.Platform.APIURI, "/"),
		apiKey:  cfg.Platform.APIKey,
		client:  client,
	}, nil
}

// DatasetExists probes for a dataset by name.
func (c *Client) DatasetExists(ctx context.Context, name string) (bool, error) {
	resp, err := c.do(ctx, http.MethodGet, c.datasetURL(name), nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("probe dataset %q: status %d", name, resp.StatusCode)
	}
}

// DeleteDataset removes a dataset by name. Deleting a dataset that does not
// exist is not an error.
func (c *Client) DeleteDataset(ctx context.Context, name string) error {
	resp, err := c.do(ctx, http.MethodDelete, c.datasetURL(name), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete dataset %q: status %d", name, resp.StatusCode)
	}
	return nil
}

// CreateDataset submits a manifest and returns the platform's handle for it.
func (c *Client) CreateDataset(ctx context.Context, manifest DatasetManifest) (*Handle, error) {
	body, err := json.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("encode dataset manifest: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, c.baseURL+"/api/datasets", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("create dataset %q: status %d: %s", manifest.Name, resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var handle Handle
	if err := json.NewDecoder(resp.Body).Decode(&handle); err != nil {
		return nil, fmt.Errorf("decode dataset handle: %w", err)
	}
	return &handle, nil
}

func (c *Client) datasetURL(name string) string {
	return c.baseURL + "/api/datasets/" + url.PathEscape(name)
}

func (c *Client) do(ctx context.Context, method, target string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build platform request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call platform: %w", err)
	}
	return resp, nil
}
