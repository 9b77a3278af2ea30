package gcs_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"fathomsync/internal/gcs"
	"fathomsync/internal/transfer"
)

type fakeUploader struct {
	mu       sync.Mutex
	objects  map[string][]byte
	types    map[string]string
	listErr  error
	uploaded int
}

func newFakeUploader(existing ...string) *fakeUploader {
	f := &fakeUploader{objects: map[string][]byte{}, types: map[string]string{}}
	for _, key := range existing {
		f.objects[key] = []byte("existing")
	}
	return f
}

func (f *fakeUploader) Upload(_ context.Context, key string, body []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[key]; ok {
		return gcs.ErrObjectExists
	}
	f.objects[key] = body
	f.types[key] = contentType
	f.uploaded++
	return nil
}

func (f *fakeUploader) ListPrefix(_ context.Context, prefix string) (map[string]struct{}, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	existing := map[string]struct{}{}
	for key := range f.objects {
		existing[key] = struct{}{}
	}
	return existing, nil
}

func TestSinkSkipsPrefetchedObjects(t *testing.T) {
	uploader := newFakeUploader("fathomnet/train_images/a.png")
	sink, err := gcs.NewSink(context.Background(), uploader, "fathomnet/train_images/")
	if err != nil {
		t.Fatalf("NewSink returned error: %v", err)
	}
	if sink.Existing() != 1 {
		t.Fatalf("expected 1 prefetched object, got %d", sink.Existing())
	}
	if !sink.Contains(transfer.Task{Key: "fathomnet/train_images/a.png"}) {
		t.Fatal("prefetched object should be reported as present")
	}
	if sink.Contains(transfer.Task{Key: "fathomnet/train_images/b.png"}) {
		t.Fatal("unknown object reported as present")
	}
}

func TestSinkDeliverUploadsWithContentType(t *testing.T) {
	uploader := newFakeUploader()
	sink, err := gcs.NewSink(context.Background(), uploader, "fathomnet/")
	if err != nil {
		t.Fatalf("NewSink returned error: %v", err)
	}

	task := transfer.Task{Key: "fathomnet/train_images/b.png"}
	payload := transfer.Payload{Body: []byte("png-bytes"), ContentType: "image/png"}
	if err := sink.Deliver(context.Background(), task, payload); err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}
	if string(uploader.objects[task.Key]) != "png-bytes" {
		t.Fatalf("object body not stored: %q", uploader.objects[task.Key])
	}
	if uploader.types[task.Key] != "image/png" {
		t.Fatalf("content type not forwarded: %q", uploader.types[task.Key])
	}
	if !sink.Contains(task) {
		t.Fatal("delivered object should now be reported as present")
	}
}

func TestSinkTreatsRacedObjectAsDelivered(t *testing.T) {
	uploader := newFakeUploader()
	sink, err := gcs.NewSink(context.Background(), uploader, "fathomnet/")
	if err != nil {
		t.Fatalf("NewSink returned error: %v", err)
	}

	// Object appears between the listing and the upload.
	uploader.objects["fathomnet/train_images/c.png"] = []byte("raced")

	task := transfer.Task{Key: "fathomnet/train_images/c.png"}
	if err := sink.Deliver(context.Background(), task, transfer.Payload{Body: []byte("x")}); err != nil {
		t.Fatalf("raced upload should not fail the task: %v", err)
	}
	if string(uploader.objects[task.Key]) != "raced" {
		t.Fatal("existing object must not be overwritten")
	}
}

func TestNewSinkPropagatesListError(t *testing.T) {
	uploader := newFakeUploader()
	uploader.listErr = fmt.Errorf("listing blew up: %w", errors.New("boom"))
	if _, err := gcs.NewSink(context.Background(), uploader, "fathomnet/"); err == nil {
		t.Fatal("expected listing error to propagate")
	}
}
