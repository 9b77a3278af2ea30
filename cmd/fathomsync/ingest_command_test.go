package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"fathomsync/internal/platform"
	"fathomsync/internal/testsupport"
)

// fakePlatform implements just enough of the dataset API for the ingest
// command: existence probe, delete, and create.
type fakePlatform struct {
	mu       sync.Mutex
	datasets map[string]platform.DatasetManifest
	creates  int
	deletes  int
}

func newFakePlatform(t *testing.T) (*fakePlatform, *httptest.Server) {
	t.Helper()
	fake := &fakePlatform{datasets: map[string]platform.DatasetManifest{}}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	return fake, server
}

func (f *fakePlatform) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Header.Get("X-API-Key") == "" {
		http.Error(w, "missing api key", http.StatusUnauthorized)
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/datasets":
		var manifest platform.DatasetManifest
		if err := json.NewDecoder(r.Body).Decode(&manifest); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.datasets[manifest.Name] = manifest
		f.creates++
		json.NewEncoder(w).Encode(platform.Handle{
			ID:          "ds-0001",
			Name:        manifest.Name,
			SampleCount: len(manifest.Samples),
		})
	case strings.HasPrefix(r.URL.Path, "/api/datasets/"):
		name := strings.TrimPrefix(r.URL.Path, "/api/datasets/")
		if _, ok := f.datasets[name]; !ok {
			http.NotFound(w, r)
			return
		}
		if r.Method == http.MethodDelete {
			delete(f.datasets, name)
			f.deletes++
		}
		w.WriteHeader(http.StatusOK)
	default:
		http.NotFound(w, r)
	}
}

func ingestEnv(t *testing.T, serverURL string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FATHOMSYNC_BUCKET", "test-bucket")
	t.Setenv("FIFTYONE_API_URI", serverURL)
	t.Setenv("FIFTYONE_API_KEY", "test-key")
}

func TestIngestCreatesDataset(t *testing.T) {
	fake, server := newFakePlatform(t)
	ingestEnv(t, server.URL)

	workDir := t.TempDir()
	trainPath := testsupport.WriteManifest(t, workDir, "https://images.example", 3, 64, 48)

	out, err := runCommand(t, "ingest", "--train-json", trainPath, "--test-json", "")
	if err != nil {
		t.Fatalf("ingest: %v\noutput: %s", err, out)
	}
	if fake.creates != 1 {
		t.Fatalf("creates = %d, want 1", fake.creates)
	}
	if !strings.Contains(out, "samples=3 train=3 test=0") {
		t.Fatalf("unexpected summary: %s", out)
	}

	manifest := fake.datasets["fathomnet-2025"]
	if !manifest.Persistent {
		t.Fatal("dataset should be created persistent")
	}
	sample := manifest.Samples[0]
	if sample.Filepath != "gs://test-bucket/fathomnet/train_images/img001.png" {
		t.Fatalf("unexpected sample filepath %q", sample.Filepath)
	}
	if len(sample.Detections) != 1 {
		t.Fatalf("sample has %d detections, want 1", len(sample.Detections))
	}
}

func TestIngestRefusesToClobberWithoutRecreate(t *testing.T) {
	fake, server := newFakePlatform(t)
	ingestEnv(t, server.URL)
	fake.datasets["fathomnet-2025"] = platform.DatasetManifest{Name: "fathomnet-2025"}

	workDir := t.TempDir()
	trainPath := testsupport.WriteManifest(t, workDir, "https://images.example", 1, 64, 48)

	if _, err := runCommand(t, "ingest", "--train-json", trainPath, "--test-json", ""); err == nil {
		t.Fatal("expected already-exists error")
	}
	if fake.creates != 0 {
		t.Fatalf("creates = %d, want 0", fake.creates)
	}
}

func TestIngestRecreateReplacesDataset(t *testing.T) {
	fake, server := newFakePlatform(t)
	ingestEnv(t, server.URL)
	fake.datasets["fathomnet-2025"] = platform.DatasetManifest{Name: "fathomnet-2025"}

	workDir := t.TempDir()
	trainPath := testsupport.WriteManifest(t, workDir, "https://images.example", 2, 64, 48)

	out, err := runCommand(t, "ingest", "--train-json", trainPath, "--test-json", "", "--recreate")
	if err != nil {
		t.Fatalf("ingest --recreate: %v\noutput: %s", err, out)
	}
	if fake.deletes != 1 || fake.creates != 1 {
		t.Fatalf("deletes=%d creates=%d, want 1/1", fake.deletes, fake.creates)
	}
}

func TestIngestSkipsMissingSplitManifests(t *testing.T) {
	fake, server := newFakePlatform(t)
	ingestEnv(t, server.URL)

	workDir := t.TempDir()
	trainPath := testsupport.WriteManifest(t, workDir, "https://images.example", 2, 64, 48)

	// The test split manifest does not exist; ingest should warn and continue
	// with the train split alone.
	out, err := runCommand(t, "ingest", "--train-json", trainPath, "--test-json", workDir+"/nope.json")
	if err != nil {
		t.Fatalf("ingest: %v\noutput: %s", err, out)
	}
	if fake.creates != 1 {
		t.Fatalf("creates = %d, want 1", fake.creates)
	}
	if !strings.Contains(out, "train=2 test=0") {
		t.Fatalf("unexpected summary: %s", out)
	}
}

func TestIngestErrorsWhenNothingToIngest(t *testing.T) {
	_, server := newFakePlatform(t)
	ingestEnv(t, server.URL)

	workDir := t.TempDir()
	if _, err := runCommand(t, "ingest", "--train-json", workDir+"/a.json", "--test-json", workDir+"/b.json"); err == nil {
		t.Fatal("expected no-samples error")
	}
}
