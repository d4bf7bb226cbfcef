package home

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// DefaultDirName is the default name for the library home directory.
	DefaultDirName = ".gutenshelf"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// CatalogFileName is the per-category catalog written by the pipeline.
	CatalogFileName = "catalog.csv"

	// PatternsDirName holds TeX hyphenation pattern files.
	PatternsDirName = "hyphenation"

	// CategoryExt is the extension of category definition files.
	CategoryExt = ".yaml"
)

// Dir represents the library home directory structure.
//
//	<root>/config.yaml
//	<root>/<category>.yaml
//	<root>/<category>/catalog.csv
//	<root>/<category>/<book filename>
//	<root>/hyphenation/*.pat.txt
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.gutenshelf).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// PatternsPath returns the directory searched for hyphenation patterns.
func (d *Dir) PatternsPath() string {
	return filepath.Join(d.path, PatternsDirName)
}

// EnsureExists creates the home directory if it doesn't exist.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return fmt.Errorf("failed to create home directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

// CategoryFile returns the definition file path for a category key.
func (d *Dir) CategoryFile(key string) string {
	return filepath.Join(d.path, key+CategoryExt)
}

// CategoryDir returns the output folder for a category.
func (d *Dir) CategoryDir(key string) string {
	return filepath.Join(d.path, key)
}

// EnsureCategoryDir creates the output folder for a category.
func (d *Dir) EnsureCategoryDir(key string) error {
	return os.MkdirAll(d.CategoryDir(key), 0o755)
}

// CatalogPath returns the catalog file path for a category.
func (d *Dir) CatalogPath(key string) string {
	return filepath.Join(d.CategoryDir(key), CatalogFileName)
}

// BookPath returns where a category's downloaded artifact is kept.
func (d *Dir) BookPath(key, filename string) string {
	return filepath.Join(d.CategoryDir(key), filename)
}

// CategoryFiles lists category definition files in the root, sorted by name.
// config.yaml is never a category.
func (d *Dir) CategoryFiles() ([]string, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read home directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, CategoryExt) || name == ConfigFileName {
			continue
		}
		files = append(files, filepath.Join(d.path, name))
	}
	sort.Strings(files)
	return files, nil
}

// CategoryKey derives the category key (folder name) from a definition file path.
func CategoryKey(path string) string {
	return strings.TrimSuffix(filepath.Base(path), CategoryExt)
}
