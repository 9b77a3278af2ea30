package testsupport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"fathomsync/internal/coco"
)

// PNGBytes renders a deterministic gradient PNG of the given size.
func PNGBytes(t testing.TB, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 4), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

// ImageServer serves PNGs for every path it is asked for, recording nothing.
// Paths containing "missing" return 404 so tests can provoke fetch failures.
func ImageServer(t testing.TB, width, height int) *httptest.Server {
	t.Helper()
	png := PNGBytes(t, width, height)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if bytes.Contains([]byte(r.URL.Path), []byte("missing")) {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	}))
	t.Cleanup(server.Close)
	return server
}

// WriteManifest materializes a COCO manifest pointing n images at the given
// image server, with one annotation per image. Returns the manifest path.
func WriteManifest(t testing.TB, dir, serverURL string, n, imgWidth, imgHeight int) string {
	t.Helper()

	manifest := coco.Manifest{
		Categories: []coco.Category{
			{ID: 1, Name: "bathochordaeus charon"},
			{ID: 2, Name: "sebastes"},
		},
	}
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("img%03d.png", i)
		manifest.Images = append(manifest.Images, coco.Image{
			ID:       i,
			FileName: name,
			CocoURL:  serverURL + "/" + name,
			Width:    imgWidth,
			Height:   imgHeight,
		})
		manifest.Annotations = append(manifest.Annotations, coco.Annotation{
			ID:         100 + i,
			ImageID:    i,
			CategoryID: 1 + i%2,
			BBox:       []float64{2, 2, float64(imgWidth / 2), float64(imgHeight / 2)},
		})
	}

	body, err := json.Marshal(manifest)
	if err != nil {
		t.Fatalf("marshal manifest: %v", err)
	}
	path := filepath.Join(dir, "dataset.json")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}
