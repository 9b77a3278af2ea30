package gcs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"fathomsync/internal/transfer"
)

// Uploader is the subset of Client the sink needs; tests substitute fakes.
type Uploader interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) error
	ListPrefix(ctx context.Context, prefix string) (map[string]struct{}, error)
}

// Sink adapts an Uploader to transfer.Destination. Existing object names
// under the prefix are fetched once at construction so already-uploaded
// images are skipped without a network round trip per task.
type Sink struct {
	uploader Uploader

	mu       sync.Mutex
	existing map[string]struct{}
}

// NewSink lists the prefix and returns a destination for the pipeline.
func NewSink(ctx context.Context, uploader Uploader, prefix string) (*Sink, error) {
	existing, err := uploader.ListPrefix(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("prefetch existing objects: %w", err)
	}
	return &Sink{uploader: uploader, existing: existing}, nil
}

// Existing reports how many objects the prefix listing found.
func (s *Sink) Existing() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.existing)
}

// Contains reports whether the task's key was present in the prefix listing.
func (s *Sink) Contains(task transfer.Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.existing[task.Key]
	return ok
}

// Deliver streams the fetched bytes to the task's object key. An object that
// raced into existence since the listing counts as already delivered.
func (s *Sink) Deliver(ctx context.Context, task transfer.Task, payload transfer.Payload) error {
	err := s.uploader.Upload(ctx, task.Key, payload.Body, payload.ContentType)
	if err != nil && !errors.Is(err, ErrObjectExists) {
		return err
	}
	s.mu.Lock()
	s.existing[task.Key] = struct{}{}
	s.mu.Unlock()
	return nil
}
