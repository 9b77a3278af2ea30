package transfer

import (
	"fmt"
	"path"
	"time"

	"fathomsync/internal/coco"
)

// Box is an integer pixel-space crop region.
type Box struct {
	X, Y, W, H int
}

// Task is one unit of transfer work: fetch Source, deliver the bytes under
// Key. Crop and Label are set only for annotation-level (crop/save) tasks.
type Task struct {
	ID     string
	Source string
	Key    string
	Label  string
	Crop   *Box
}

// Outcome classifies how a task finished.
type Outcome string

const (
	// OutcomeDelivered means the bytes reached the destination.
	OutcomeDelivered Outcome = "delivered"
	// OutcomeSkipped means the destination already held the output.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means the fetch or delivery errored; the batch continues.
	OutcomeFailed Outcome = "failed"
)

// Result records the fate of a single task.
type Result struct {
	Task     Task
	Outcome  Outcome
	Err      error
	Bytes    int64
	Duration time.Duration
}

// Summary aggregates a finished run.
type Summary struct {
	RunID     string
	Delivered int
	Skipped   int
	Failed    int
	Results   []Result
}

// Total reports the number of tasks the run processed.
func (s Summary) Total() int {
	return s.Delivered + s.Skipped + s.Failed
}

// UploadTasks builds one task per image record, keyed under
// <prefix>/<split>_images/<file_name> as the object-store layout expects.
func UploadTasks(manifest *coco.Manifest, prefix, split string) []Task {
	tasks := make([]Task, 0, len(manifest.Images))
	for _, img := range manifest.Images {
		tasks = append(tasks, Task{
			ID:     img.FileName,
			Source: img.CocoURL,
			Key:    path.Join(prefix, split+"_images", img.FileName),
		})
	}
	return tasks
}

// CropTasks builds one task per annotation record. Annotations referencing
// image ids the manifest does not define are dropped; the count of dropped
// records is returned so the caller can log it.
func CropTasks(manifest *coco.Manifest) ([]Task, int) {
	images := manifest.ImagesByID()
	names := manifest.CategoryNames()
	tasks := make([]Task, 0, len(manifest.Annotations))
	dropped := 0
	for _, ann := range manifest.Annotations {
		img, ok := images[ann.ImageID]
		if !ok {
			dropped++
			continue
		}
		task := Task{
			ID:     fmt.Sprintf("ann-%d", ann.ID),
			Source: img.CocoURL,
			Key:    cropFileName(img.FileName, ann.ID),
			Label:  names[ann.CategoryID],
		}
		if task.Label == "" {
			task.Label = "unknown"
		}
		if x, y, w, h, err := ann.PixelBox(); err == nil {
			task.Crop = &Box{X: x, Y: y, W: w, H: h}
		}
		tasks = append(tasks, task)
	}
	return tasks, dropped
}

func cropFileName(imageName string, annID int) string {
	ext := path.Ext(imageName)
	if ext == "" {
		ext = ".jpg"
	}
	stem := imageName[:len(imageName)-len(ext)]
	return fmt.Sprintf("%s_ann%d%s", stem, annID, ext)
}
