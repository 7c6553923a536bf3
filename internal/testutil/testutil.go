// Package testutil provides shared test helpers for building blog roots.
package testutil

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/blogdex/internal/models"
)

// TestRoot creates a temporary blog root. files maps slash-separated paths
// relative to the root (e.g. "en/post.md") to their content.
func TestRoot(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

// ReadFile returns the content of a file under root.
func ReadFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// ReadManifest decodes the index file at rel under root.
func ReadManifest(t *testing.T, root, rel string) models.Manifest {
	t.Helper()
	var m models.Manifest
	if err := json.Unmarshal([]byte(ReadFile(t, root, rel)), &m); err != nil {
		t.Fatalf("decode %s: %v", rel, err)
	}
	return m
}

// QuietLogger returns a logger that only reports errors.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}
