package main

import (
	"bytes"
	"context"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	cmd := newRootCommand()
	want := map[string]bool{
		"download": false,
		"upload":   false,
		"ingest":   false,
		"auth":     false,
		"config":   false,
	}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("missing subcommand %q", name)
		}
	}
}

func TestRootCommandRejectsUnknownSubcommand(t *testing.T) {
	if _, err := runCommand(t, "frobnicate"); err == nil {
		t.Fatal("expected error for unknown subcommand")
	}
}

func TestDownloadRequiresArguments(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if _, err := runCommand(t, "download", "only-one-arg"); err == nil {
		t.Fatal("expected arg validation error")
	}
}

func TestUploadRequiresBucket(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FATHOMSYNC_BUCKET", "")
	if _, err := runCommand(t, "upload", "dataset.json"); err == nil {
		t.Fatal("expected missing-bucket error before any work")
	}
}

func TestIngestRequiresPlatformCredentials(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FIFTYONE_API_URI", "")
	t.Setenv("FIFTYONE_API_KEY", "")
	if _, err := runCommand(t, "ingest"); err == nil {
		t.Fatal("expected missing-credentials error before any work")
	}
}
