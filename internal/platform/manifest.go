package platform

import (
	"fmt"
	"log/slog"

	"fathomsync/internal/coco"
	"fathomsync/internal/logging"
)

// Detection is one normalized bounding box on a sample.
type Detection struct {
	Label        string     `json:"label"`
	BoundingBox  [4]float64 `json:"bounding_box"`
	AnnotationID int        `json:"annotation_id"`
}

// Sample is one image entry in a dataset manifest. Filepath points at the
// object store; the platform only records where images live.
type Sample struct {
	Filepath     string      `json:"filepath"`
	Split        string      `json:"split"`
	ImageID      int         `json:"image_id"`
	Width        int         `json:"width"`
	Height       int         `json:"height"`
	DateCaptured string      `json:"date_captured,omitempty"`
	Tags         []string    `json:"tags"`
	Detections   []Detection `json:"detections"`
}

// DatasetManifest is the create-dataset request body.
type DatasetManifest struct {
	Name       string   `json:"name"`
	Persistent bool     `json:"persistent"`
	Samples    []Sample `json:"samples"`
}

// Handle identifies a dataset created on the platform.
type Handle struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	SampleCount int    `json:"sample_count"`
}

// BuildSamples converts a COCO manifest into platform samples for one split.
// Filepaths are gs://<bucket>/<prefix>/<split>_images/<file_name>.
// Annotations with malformed boxes are skipped and logged; they must not sink
// the whole split.
func BuildSamples(manifest *coco.Manifest, bucket, prefix, split string, logger *slog.Logger) []Sample {
	logger = logging.NewComponentLogger(logger, "platform")
	grouped := manifest.AnnotationsByImage()

	samples := make([]Sample, 0, len(manifest.Images))
	for _, img := range manifest.Images {
		sample := Sample{
			Filepath:     fmt.Sprintf("gs://%s/%s/%s_images/%s", bucket, prefix, split, img.FileName),
			Split:        split,
			ImageID:      img.ID,
			Width:        img.Width,
			Height:       img.Height,
			DateCaptured: img.DateCaptured,
			Tags:         []string{split},
		}
		for _, ann := range grouped[img.ID] {
			box, err := ann.NormalizedBox(img.Width, img.Height)
			if err != nil {
				logger.Warn("skipping annotation",
					logging.Int("annotation_id", ann.ID),
					logging.Error(err))
				continue
			}
			sample.Detections = append(sample.Detections, Detection{
				Label:        manifest.CategoryName(ann.CategoryID),
				BoundingBox:  box,
				AnnotationID: ann.ID,
			})
		}
		samples = append(samples, sample)
	}
	return samples
}
