// Package catalog persists per-category book outcomes as CSV.
package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/moby/sys/atomicwriter"
)

// ErrMalformed is returned by Load for catalog files that cannot be parsed.
var ErrMalformed = errors.New("malformed catalog")

// PersistError means a catalog could not be written. The previous file, if
// any, is left untouched.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to persist catalog %s: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// WriteFunc replaces the file at path with data in one step.
type WriteFunc func(path string, data []byte, perm os.FileMode) error

// Cache holds one category's records in memory. It is not safe for
// concurrent use.
type Cache struct {
	path      string
	records   map[string]Record
	writeFile WriteFunc
}

// New creates an empty cache that saves to path.
func New(path string) *Cache {
	return &Cache{
		path:      path,
		records:   make(map[string]Record),
		writeFile: atomicwriter.WriteFile,
	}
}

// Load reads the catalog at path. A missing file yields an empty cache.
// Catalogs without a status column but with file_exists are read in the
// older layout; the next Save rewrites them with Columns.
func Load(path string) (*Cache, error) {
	c := New(path)

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	if err := c.decode(f); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrMalformed, path, err)
	}
	return c, nil
}

func (c *Cache) decode(r io.Reader) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[col] = i
	}
	if _, ok := index["filename"]; !ok {
		return errors.New("header has no filename column")
	}
	legacy := isLegacyHeader(index)
	if _, ok := index["status"]; !ok && !legacy {
		return errors.New("header has no status column")
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if legacy {
			if rec, ok := parseLegacyRecord(row, index); ok {
				c.records[rec.Filename] = rec
			}
			continue
		}
		rec, err := parseRecord(row, index)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return fmt.Errorf("line %d: %w", line, err)
		}
		c.records[rec.Filename] = rec
	}
}

// SetWriter replaces the function Save writes with. nil restores the
// default atomic writer.
func (c *Cache) SetWriter(w WriteFunc) {
	if w == nil {
		w = atomicwriter.WriteFile
	}
	c.writeFile = w
}

// Path returns the file the cache saves to.
func (c *Cache) Path() string {
	return c.path
}

// Len returns the number of records.
func (c *Cache) Len() int {
	return len(c.records)
}

// SkipEligible reports whether filename has a complete record and force is
// off.
func (c *Cache) SkipEligible(filename string, force bool) bool {
	if force {
		return false
	}
	r, ok := c.records[filename]
	return ok && r.Complete()
}

// Get returns the record for filename.
func (c *Cache) Get(filename string) (Record, bool) {
	r, ok := c.records[filename]
	return r, ok
}

// Put inserts or replaces the record for r.Filename.
func (c *Cache) Put(r Record) {
	c.records[r.Filename] = r
}

// Records returns all records sorted by filename.
func (c *Cache) Records() []Record {
	out := make([]Record, 0, len(c.records))
	for _, r := range c.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Filename < out[j].Filename
	})
	return out
}

// Encode writes the catalog as CSV.
func (c *Cache) Encode(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range c.Records() {
		if err := cw.Write(r.row()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Save encodes every record in memory, then replaces the file atomically.
// Errors are *PersistError.
func (c *Cache) Save() error {
	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		return &PersistError{Path: c.path, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return &PersistError{Path: c.path, Err: err}
	}
	if err := c.writeFile(c.path, buf.Bytes(), 0644); err != nil {
		return &PersistError{Path: c.path, Err: err}
	}
	return nil
}
