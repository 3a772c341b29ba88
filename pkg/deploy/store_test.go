package deploy_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"hangul-fuzzy-search/pkg/deploy"
)

func TestSaveAndLoadStrictRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deployment.json")

	cfg := deploy.Default().Sanitize(time.Unix(1700000000, 0))
	if err := deploy.Save(path, cfg); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := deploy.LoadStrict(path)
	if err != nil {
		t.Fatalf("LoadStrict returned error: %v", err)
	}
	if loaded.ModelVersion != cfg.ModelVersion {
		t.Errorf("ModelVersion = %q, want %q", loaded.ModelVersion, cfg.ModelVersion)
	}
	if len(loaded.Environments) != len(cfg.Environments) {
		t.Errorf("Environments = %d entries, want %d", len(loaded.Environments), len(cfg.Environments))
	}
}

func TestLoadStrictMissingFileReturnsErrMissingFile(t *testing.T) {
	_, err := deploy.LoadStrict(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err == nil {
		t.Fatal("LoadStrict on a missing file returned no error")
	}
}

func TestLoadOrDefaultMissingFileReturnsSanitizedDefault(t *testing.T) {
	now := time.Unix(1700000000, 0)
	cfg, err := deploy.LoadOrDefault(filepath.Join(t.TempDir(), "does-not-exist.json"), now)
	if err != nil {
		t.Fatalf("LoadOrDefault returned error: %v", err)
	}
	if _, ok := cfg.Environments["production"]; !ok {
		t.Errorf("LoadOrDefault fallback = %+v, want a production environment", cfg)
	}
}

func TestLoadOrDefaultMalformedFileReturnsSanitizedDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed writing test fixture: %v", err)
	}
	cfg, err := deploy.LoadOrDefault(path, time.Unix(0, 0))
	if err != nil {
		t.Fatalf("LoadOrDefault on a malformed file returned error: %v", err)
	}
	if _, ok := cfg.Environments["production"]; !ok {
		t.Errorf("LoadOrDefault fallback = %+v, want a production environment", cfg)
	}
}

func TestLoadStrictMalformedFileReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed writing test fixture: %v", err)
	}
	if _, err := deploy.LoadStrict(path); err == nil {
		t.Error("LoadStrict on a malformed file returned no error")
	}
}
