package platform_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fathomsync/internal/config"
	"fathomsync/internal/platform"
	"fathomsync/internal/testsupport"
)

func testConfig(t *testing.T, apiURI string) *config.Config {
	t.Helper()
	return testsupport.NewConfig(t, testsupport.WithPlatform(apiURI, "test-key"))
}

func newPlatformServer(t *testing.T, datasets map[string]bool) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "test-key" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		switch {
		case r.Method == http.MethodGet:
			name := r.URL.Path[len("/api/datasets/"):]
			if datasets[name] {
				w.WriteHeader(http.StatusOK)
			} else {
				w.WriteHeader(http.StatusNotFound)
			}
		case r.Method == http.MethodDelete:
			name := r.URL.Path[len("/api/datasets/"):]
			delete(datasets, name)
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodPost:
			var manifest platform.DatasetManifest
			if err := json.NewDecoder(r.Body).Decode(&manifest); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			datasets[manifest.Name] = true
			json.NewEncoder(w).Encode(platform.Handle{
				ID:          "ds-123",
				Name:        manifest.Name,
				SampleCount: len(manifest.Samples),
			})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewClientRequiresCredentials(t *testing.T) {
	// No WithPlatform option, so the config carries no API credentials.
	if _, err := platform.NewClient(testsupport.NewConfig(t), nil); err == nil {
		t.Fatal("expected error for missing platform credentials")
	}
}

func TestDatasetLifecycle(t *testing.T) {
	datasets := map[string]bool{"old-dataset": true}
	server := newPlatformServer(t, datasets)
	client, err := platform.NewClient(testConfig(t, server.URL), server.Client())
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	exists, err := client.DatasetExists(ctx, "old-dataset")
	if err != nil || !exists {
		t.Fatalf("expected old-dataset to exist, got %v %v", exists, err)
	}
	exists, err = client.DatasetExists(ctx, "fresh")
	if err != nil || exists {
		t.Fatalf("expected fresh to be absent, got %v %v", exists, err)
	}

	if err := client.DeleteDataset(ctx, "old-dataset"); err != nil {
		t.Fatalf("DeleteDataset returned error: %v", err)
	}
	if datasets["old-dataset"] {
		t.Fatal("dataset not deleted on server")
	}
	// Deleting twice stays quiet.
	if err := client.DeleteDataset(ctx, "old-dataset"); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}

	handle, err := client.CreateDataset(ctx, platform.DatasetManifest{
		Name:       "fathomnet-2025",
		Persistent: true,
		Samples:    make([]platform.Sample, 3),
	})
	if err != nil {
		t.Fatalf("CreateDataset returned error: %v", err)
	}
	if handle.ID != "ds-123" || handle.SampleCount != 3 {
		t.Fatalf("unexpected handle: %+v", handle)
	}
}

func TestCreateDatasetSurfacesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer server.Close()

	client, err := platform.NewClient(testConfig(t, server.URL), server.Client())
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := client.CreateDataset(context.Background(), platform.DatasetManifest{Name: "x"}); err == nil {
		t.Fatal("expected error from 403 response")
	}
}
