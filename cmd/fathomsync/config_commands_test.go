package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigShowPrintsEffectiveConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FATHOMSYNC_BUCKET", "env-bucket")

	out, err := runCommand(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "[storage]") || !strings.Contains(out, "[transfer]") {
		t.Fatalf("missing sections:\n%s", out)
	}
	if !strings.Contains(out, "env-bucket") {
		t.Fatalf("env fallback bucket not reflected:\n%s", out)
	}
	if !strings.Contains(out, "concurrency = 50") {
		t.Fatalf("default concurrency not shown:\n%s", out)
	}
}

func TestConfigInitWritesSampleConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	out, err := runCommand(t, "config", "init")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	path := filepath.Join(home, ".config", "fathomsync", "config.toml")
	if !strings.Contains(out, path) {
		t.Fatalf("output should name the written path: %s", out)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read written config: %v", err)
	}
	if !strings.Contains(string(body), "[storage]") {
		t.Fatalf("sample config missing storage section:\n%s", body)
	}
}

func TestConfigInitRefusesToOverwrite(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if _, err := runCommand(t, "config", "init"); err != nil {
		t.Fatalf("first init: %v", err)
	}
	if _, err := runCommand(t, "config", "init"); err == nil {
		t.Fatal("second init should refuse without --force")
	}
	if _, err := runCommand(t, "config", "init", "--force"); err != nil {
		t.Fatalf("init --force: %v", err)
	}
}

func TestConfigFlagOverridesDefaultPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "custom.toml")
	content := "[storage]\nbucket = \"flag-bucket\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "flag-bucket") {
		t.Fatalf("flag config not loaded:\n%s", out)
	}
}
