package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("with explicit path", func(t *testing.T) {
		dir, err := New("/tmp/test-library")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir.Path() != "/tmp/test-library" {
			t.Errorf("expected path /tmp/test-library, got %s", dir.Path())
		}
	})

	t.Run("with empty path uses default", func(t *testing.T) {
		dir, err := New("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, DefaultDirName)
		if dir.Path() != expected {
			t.Errorf("expected path %s, got %s", expected, dir.Path())
		}
	})
}

func TestDir_Paths(t *testing.T) {
	dir, _ := New("/tmp/test-library")

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"ConfigPath", dir.ConfigPath(), "/tmp/test-library/config.yaml"},
		{"PatternsPath", dir.PatternsPath(), "/tmp/test-library/hyphenation"},
		{"CategoryFile", dir.CategoryFile("classics"), "/tmp/test-library/classics.yaml"},
		{"CategoryDir", dir.CategoryDir("classics"), "/tmp/test-library/classics"},
		{"CatalogPath", dir.CatalogPath("classics"), "/tmp/test-library/classics/catalog.csv"},
		{"BookPath", dir.BookPath("classics", "Alice.epub"), "/tmp/test-library/classics/Alice.epub"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, tt.got)
			}
		})
	}
}

func TestDir_EnsureExists(t *testing.T) {
	tmpDir := t.TempDir()
	libDir := filepath.Join(tmpDir, "library-test")

	dir, err := New(libDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dir.Exists() {
		t.Error("directory should not exist before EnsureExists")
	}

	if err := dir.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists failed: %v", err)
	}

	if !dir.Exists() {
		t.Error("directory should exist after EnsureExists")
	}

	if err := dir.EnsureCategoryDir("classics"); err != nil {
		t.Fatalf("EnsureCategoryDir failed: %v", err)
	}
	if _, err := os.Stat(dir.CategoryDir("classics")); os.IsNotExist(err) {
		t.Error("category directory should exist after EnsureCategoryDir")
	}
}

func TestDir_ConfigExists(t *testing.T) {
	tmpDir := t.TempDir()
	dir, _ := New(tmpDir)

	if dir.ConfigExists() {
		t.Error("config should not exist initially")
	}

	if err := os.WriteFile(dir.ConfigPath(), []byte("log_level: info\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if !dir.ConfigExists() {
		t.Error("config should exist after creation")
	}
}

func TestDir_CategoryFiles(t *testing.T) {
	tmpDir := t.TempDir()
	dir, _ := New(tmpDir)

	for _, name := range []string{"b_adventure.yaml", "a_classics.yaml", "config.yaml", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("books: []\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "folder.yaml"), 0755); err != nil {
		t.Fatal(err)
	}

	files, err := dir.CategoryFiles()
	if err != nil {
		t.Fatalf("CategoryFiles failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 category files, got %d: %v", len(files), files)
	}
	if CategoryKey(files[0]) != "a_classics" || CategoryKey(files[1]) != "b_adventure" {
		t.Errorf("unexpected order: %v", files)
	}
}
