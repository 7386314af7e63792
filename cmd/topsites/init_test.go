package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestInitCmd tests configuration file generation.
func TestInitCmd(t *testing.T) {
	t.Parallel()

	t.Run("creates configuration file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".topsites")

		var buf bytes.Buffer
		cmd := NewInitCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"-o", path})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(path) //nolint:gosec // Test-controlled path
		if err != nil {
			t.Fatalf("config file not created: %v", err)
		}
		for _, want := range []string{"gridSize", "poolSize", "catalog", "debounce"} {
			if !strings.Contains(string(content), want) {
				t.Errorf("template missing %q", want)
			}
		}
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".topsites")
		if err := os.WriteFile(path, []byte("existing"), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewInitCmd()
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetArgs([]string{"-o", path})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error for existing file")
		}
	})

	t.Run("force overwrites", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".topsites")
		if err := os.WriteFile(path, []byte("existing"), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewInitCmd()
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetArgs([]string{"-o", path, "-f"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		content, err := os.ReadFile(path) //nolint:gosec // Test-controlled path
		if err != nil {
			t.Fatal(err)
		}
		if string(content) == "existing" {
			t.Error("expected file overwritten")
		}
	})

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "dir", "conf.yaml")

		cmd := NewInitCmd()
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetArgs([]string{"-o", path})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected file at nested path: %v", err)
		}
	})
}
