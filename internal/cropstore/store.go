package cropstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/gofrs/flock"

	"fathomsync/internal/transfer"
)

// ErrDirectoryLocked means another run holds the output directory.
var ErrDirectoryLocked = errors.New("output directory is locked by another run")

// Store writes cropped annotation images under a directory and appends
// (path, label) rows to its CSV manifest. It implements transfer.Destination.
type Store struct {
	dir      string
	manifest *labelManifest
	lock     *flock.Flock
}

// Open prepares the output directory: creates it, takes the run lock, and
// loads any existing manifest rows for idempotent re-runs.
func Open(dir, manifestName string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, ".fathomsync.lock"))
	held, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !held {
		return nil, ErrDirectoryLocked
	}

	manifest, err := openManifest(filepath.Join(dir, manifestName))
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	return &Store{dir: dir, manifest: manifest, lock: lock}, nil
}

// Contains reports whether the task's crop already has a manifest row.
func (s *Store) Contains(task transfer.Task) bool {
	return s.manifest.Has(task.Key)
}

// Deliver decodes the fetched bytes, crops the task's bounding box to exactly
// its width and height, saves the crop, and records the manifest row.
func (s *Store) Deliver(_ context.Context, task transfer.Task, payload transfer.Payload) error {
	if task.Crop == nil {
		return fmt.Errorf("annotation %s has no usable bbox", task.ID)
	}

	src, err := imaging.Decode(bytes.NewReader(payload.Body))
	if err != nil {
		return fmt.Errorf("decode %s: %w", task.Source, err)
	}

	cropped, err := cropExact(src, *task.Crop)
	if err != nil {
		return fmt.Errorf("crop %s: %w", task.ID, err)
	}

	outPath := filepath.Join(s.dir, task.Key)
	if err := imaging.Save(cropped, outPath); err != nil {
		return fmt.Errorf("save crop %s: %w", outPath, err)
	}

	if err := s.manifest.Append(task.Key, task.Label); err != nil {
		return err
	}
	return nil
}

// cropExact extracts the box from src, requiring the full box to lie inside
// the image so the output is exactly box.W x box.H pixels.
func cropExact(src image.Image, box transfer.Box) (image.Image, error) {
	rect := image.Rect(box.X, box.Y, box.X+box.W, box.Y+box.H)
	if !rect.In(src.Bounds()) {
		return nil, fmt.Errorf("bbox %v extends outside image bounds %v", rect, src.Bounds())
	}
	return imaging.Crop(src, rect), nil
}

// Rows reports the number of manifest rows currently indexed.
func (s *Store) Rows() int {
	return s.manifest.Len()
}

// ManifestPath returns the absolute path of the CSV manifest.
func (s *Store) ManifestPath() string {
	return s.manifest.path
}

// Close flushes the manifest and releases the directory lock.
func (s *Store) Close() error {
	err := s.manifest.Close()
	if unlockErr := s.lock.Unlock(); err == nil {
		err = unlockErr
	}
	return err
}
