package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// HTTPDoer describes the HTTP client used to fetch source images.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Payload carries fetched bytes plus the content type reported by the remote
// server (or sniffed from the bytes when the server stays silent).
type Payload struct {
	Body        []byte
	ContentType string
}

// Fetcher retrieves source images over HTTP.
type Fetcher struct {
	client    HTTPDoer
	userAgent string
}

// NewFetcher builds a fetcher around the provided client. A nil client gets a
// default with the given timeout.
func NewFetcher(client HTTPDoer, timeout time.Duration, userAgent string) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Fetcher{client: client, userAgent: userAgent}
}

// Fetch downloads the task's source URL. Non-2xx responses are errors; the
// status code is preserved in the message so failures stay diagnosable from
// the run log alone.
func (f *Fetcher) Fetch(ctx context.Context, task Task) (Payload, error) {
	source := strings.TrimSpace(task.Source)
	if source == "" {
		return Payload{}, errors.New("image record has no coco_url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return Payload{}, fmt.Errorf("build fetch request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Payload{}, fmt.Errorf("fetch %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return Payload{}, fmt.Errorf("fetch %s: status %d", source, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Payload{}, fmt.Errorf("read %s: %w", source, err)
	}

	contentType := strings.TrimSpace(resp.Header.Get("Content-Type"))
	if contentType == "" {
		contentType = mimetype.Detect(body).String()
	}
	return Payload{Body: body, ContentType: contentType}, nil
}
