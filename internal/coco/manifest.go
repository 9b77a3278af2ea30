package coco

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Image describes a single image record from the manifest.
type Image struct {
	ID           int    `json:"id"`
	FileName     string `json:"file_name"`
	CocoURL      string `json:"coco_url"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	DateCaptured string `json:"date_captured,omitempty"`
}

// Annotation describes one bounding box on one image. BBox is the COCO
// pixel-space [x, y, width, height] quad.
type Annotation struct {
	ID         int       `json:"id"`
	ImageID    int       `json:"image_id"`
	CategoryID int       `json:"category_id"`
	BBox       []float64 `json:"bbox"`
}

// Category maps a category id to its label.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Manifest is a parsed COCO detection document.
type Manifest struct {
	Images      []Image      `json:"images"`
	Annotations []Annotation `json:"annotations"`
	Categories  []Category   `json:"categories"`
}

var titleCaser = cases.Title(language.English)

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer file.Close()

	var manifest Manifest
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&manifest); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if len(manifest.Images) == 0 {
		return nil, errors.New("manifest contains no image records")
	}
	return &manifest, nil
}

// Limit returns a copy of the manifest restricted to the first n images.
// Annotations referencing excluded images are dropped with them. A
// non-positive n returns the manifest unchanged.
func (m *Manifest) Limit(n int) *Manifest {
	if n <= 0 || n >= len(m.Images) {
		return m
	}
	limited := &Manifest{
		Images:     m.Images[:n],
		Categories: m.Categories,
	}
	kept := make(map[int]struct{}, n)
	for _, img := range limited.Images {
		kept[img.ID] = struct{}{}
	}
	for _, ann := range m.Annotations {
		if _, ok := kept[ann.ImageID]; ok {
			limited.Annotations = append(limited.Annotations, ann)
		}
	}
	return limited
}

// CategoryNames returns category id → label.
func (m *Manifest) CategoryNames() map[int]string {
	names := make(map[int]string, len(m.Categories))
	for _, cat := range m.Categories {
		names[cat.ID] = cat.Name
	}
	return names
}

// CategoryName resolves a category id, falling back to "unknown" for ids the
// manifest does not define.
func (m *Manifest) CategoryName(id int) string {
	for _, cat := range m.Categories {
		if cat.ID == id {
			return cat.Name
		}
	}
	return "unknown"
}

// DisplayName renders a category label for human-facing output
// ("bathochordaeus charon" → "Bathochordaeus Charon").
func DisplayName(label string) string {
	return titleCaser.String(strings.TrimSpace(label))
}

// ImagesByID returns image id → image record.
func (m *Manifest) ImagesByID() map[int]Image {
	images := make(map[int]Image, len(m.Images))
	for _, img := range m.Images {
		images[img.ID] = img
	}
	return images
}

// AnnotationsByImage groups annotations by their image id, preserving
// manifest order within each group.
func (m *Manifest) AnnotationsByImage() map[int][]Annotation {
	grouped := make(map[int][]Annotation, len(m.Images))
	for _, ann := range m.Annotations {
		grouped[ann.ImageID] = append(grouped[ann.ImageID], ann)
	}
	return grouped
}

// PixelBox converts the annotation's bbox to integer pixel bounds. It errors
// when the quad is malformed or degenerate.
func (a Annotation) PixelBox() (x, y, w, h int, err error) {
	if len(a.BBox) != 4 {
		return 0, 0, 0, 0, fmt.Errorf("annotation %d: bbox has %d elements, want 4", a.ID, len(a.BBox))
	}
	x, y = int(a.BBox[0]), int(a.BBox[1])
	w, h = int(a.BBox[2]), int(a.BBox[3])
	if w <= 0 || h <= 0 {
		return 0, 0, 0, 0, fmt.Errorf("annotation %d: degenerate bbox %dx%d", a.ID, w, h)
	}
	return x, y, w, h, nil
}

// NormalizedBox converts the annotation's pixel bbox to the normalized
// [0, 1] quad the hosted platform expects.
func (a Annotation) NormalizedBox(imgWidth, imgHeight int) ([4]float64, error) {
	var out [4]float64
	if len(a.BBox) != 4 {
		return out, fmt.Errorf("annotation %d: bbox has %d elements, want 4", a.ID, len(a.BBox))
	}
	if imgWidth <= 0 || imgHeight <= 0 {
		return out, fmt.Errorf("annotation %d: image dimensions %dx%d", a.ID, imgWidth, imgHeight)
	}
	fw, fh := float64(imgWidth), float64(imgHeight)
	out[0] = a.BBox[0] / fw
	out[1] = a.BBox[1] / fh
	out[2] = a.BBox[2] / fw
	out[3] = a.BBox[3] / fh
	return out, nil
}
