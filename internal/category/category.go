// Package category loads category definition files into book declarations.
package category

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/jackzampolin/gutenshelf/internal/home"
)

// ErrNotCategory is returned for YAML files without a books list.
var ErrNotCategory = errors.New("not a category file")

// BookSpec is one declared book. Immutable for a run.
type BookSpec struct {
	Title       string
	Author      string
	Filename    string
	URL         string
	GutenbergID int // 0 means "not on Project Gutenberg"
	Note        string
	Language    string // Optional ISO 639-1 hint
	// ArchiveFallback overrides sources.archive_fallback_unlisted when set.
	ArchiveFallback *bool

	CategoryKey  string
	CategoryName string
}

// HasSourceID reports whether the book declares a primary source identifier.
func (b BookSpec) HasSourceID() bool {
	return b.GutenbergID > 0
}

// Category is a parsed category definition.
type Category struct {
	Key      string // File basename, also the output folder name
	Name     string // Display name
	Language string // Default language for books without a hint
	Path     string
	Books    []BookSpec
	Errors   []*ConfigError // Malformed entries, not included in Books
}

// ConfigError describes a malformed book entry. It never aborts a run.
type ConfigError struct {
	Category string
	Index    int    // 0-based position in the books list
	Filename string // Empty when the entry has no usable filename
	Err      error
}

func (e *ConfigError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("%s: book %d (%s): %v", e.Category, e.Index+1, e.Filename, e.Err)
	}
	return fmt.Sprintf("%s: book %d: %v", e.Category, e.Index+1, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

type rawCategory struct {
	Category string    `yaml:"category"`
	Language string    `yaml:"language"`
	Books    yaml.Node `yaml:"books"`
}

type rawBook struct {
	Title           string `yaml:"title"`
	Author          string `yaml:"author"`
	Filename        string `yaml:"filename"`
	URL             string `yaml:"url"`
	GutenbergID     int    `yaml:"gutenberg_id"`
	Note            string `yaml:"note"`
	Language        string `yaml:"language"`
	ArchiveFallback *bool  `yaml:"archive_fallback"`
}

// Load parses a category definition file. Malformed entries are collected in
// Category.Errors; only unreadable or structurally invalid files return an error.
func Load(path string) (*Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read category file: %w", err)
	}
	return Parse(home.CategoryKey(path), path, data)
}

// Parse parses category YAML. key names the output folder.
func Parse(key, path string, data []byte) (*Category, error) {
	var doc rawCategory
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	if doc.Books.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%s: %w", key, ErrNotCategory)
	}

	cat := &Category{
		Key:      key,
		Name:     strings.TrimSpace(doc.Category),
		Language: strings.ToLower(strings.TrimSpace(doc.Language)),
		Path:     path,
	}
	if cat.Name == "" {
		cat.Name = key
	}

	schema, err := bookSchema()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for i, node := range doc.Books.Content {
		spec, cfgErr := parseBook(schema, node)
		if cfgErr != nil {
			cfgErr.Category = key
			cfgErr.Index = i
			cat.Errors = append(cat.Errors, cfgErr)
			continue
		}
		if seen[spec.Filename] {
			cat.Errors = append(cat.Errors, &ConfigError{
				Category: key,
				Index:    i,
				Err:      fmt.Errorf("duplicate filename %q", spec.Filename),
			})
			continue
		}
		seen[spec.Filename] = true

		spec.CategoryKey = cat.Key
		spec.CategoryName = cat.Name
		if spec.Language == "" {
			spec.Language = cat.Language
		}
		cat.Books = append(cat.Books, spec)
	}

	return cat, nil
}

func parseBook(schema *jsonschema.Schema, node *yaml.Node) (BookSpec, *ConfigError) {
	var generic any
	if err := node.Decode(&generic); err != nil {
		return BookSpec{}, &ConfigError{Err: err}
	}

	// Round-trip through JSON so the validator sees JSON types.
	encoded, err := json.Marshal(generic)
	if err != nil {
		return BookSpec{}, &ConfigError{Err: fmt.Errorf("entry is not representable as JSON: %w", err)}
	}
	var doc any
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return BookSpec{}, &ConfigError{Err: err}
	}

	filename := ""
	if m, ok := doc.(map[string]any); ok {
		if f, ok := m["filename"].(string); ok && validFilename(f) {
			filename = f
		}
	}

	if err := schema.Validate(doc); err != nil {
		return BookSpec{}, &ConfigError{Filename: filename, Err: schemaMessage(err)}
	}

	var raw rawBook
	if err := node.Decode(&raw); err != nil {
		return BookSpec{}, &ConfigError{Filename: filename, Err: err}
	}

	return BookSpec{
		Title:           strings.TrimSpace(raw.Title),
		Author:          strings.TrimSpace(raw.Author),
		Filename:        strings.TrimSpace(raw.Filename),
		URL:             strings.TrimSpace(raw.URL),
		GutenbergID:     raw.GutenbergID,
		Note:            raw.Note,
		Language:        strings.ToLower(strings.TrimSpace(raw.Language)),
		ArchiveFallback: raw.ArchiveFallback,
	}, nil
}

func validFilename(f string) bool {
	f = strings.TrimSpace(f)
	return f != "" && f != "." && f != ".." && !strings.ContainsAny(f, `/\`)
}

// schemaMessage reduces a validation error to its most specific cause.
func schemaMessage(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return fmt.Errorf("invalid entry at %s: %s", loc, ve.Message)
}

const bookSchemaJSON = `{
  "type": "object",
  "required": ["title", "author", "filename"],
  "properties": {
    "title":            {"type": "string", "minLength": 1},
    "author":           {"type": "string", "minLength": 1},
    "filename":         {"type": "string", "pattern": "^[^/\\\\]+$", "not": {"enum": [".", ".."]}},
    "url":              {"type": ["string", "null"]},
    "gutenberg_id":     {"type": ["integer", "null"], "minimum": 0},
    "note":             {"type": ["string", "null"]},
    "language":         {"type": ["string", "null"], "pattern": "^[A-Za-z]{2}$"},
    "archive_fallback": {"type": ["boolean", "null"]}
  }
}`

func bookSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("book.json", bytes.NewReader([]byte(bookSchemaJSON))); err != nil {
		return nil, fmt.Errorf("failed to load book schema: %w", err)
	}
	schema, err := compiler.Compile("book.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile book schema: %w", err)
	}
	return schema, nil
}

// Discover loads every category file in the library root, or only the named
// keys when keys is non-empty. Files that are not categories are skipped.
func Discover(dir *home.Dir, keys []string, logger *slog.Logger) ([]*Category, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var paths []string
	if len(keys) > 0 {
		for _, key := range keys {
			key = strings.TrimSuffix(key, home.CategoryExt)
			path := dir.CategoryFile(key)
			if _, err := os.Stat(path); err != nil {
				return nil, fmt.Errorf("category %q not found: %s", key, path)
			}
			paths = append(paths, path)
		}
	} else {
		found, err := dir.CategoryFiles()
		if err != nil {
			return nil, err
		}
		paths = found
	}

	var cats []*Category
	for _, path := range paths {
		cat, err := Load(path)
		if errors.Is(err, ErrNotCategory) && len(keys) == 0 {
			logger.Debug("skipping non-category yaml", "file", path)
			continue
		}
		if err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}
	return cats, nil
}
